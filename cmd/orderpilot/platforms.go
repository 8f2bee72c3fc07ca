package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orderpilot/orderpilot/internal/common"
	"github.com/orderpilot/orderpilot/internal/model"
	"github.com/orderpilot/orderpilot/internal/platform"
)

func platformsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "platforms",
		Short: "Manage platform profiles",
	}

	cmd.AddCommand(platformsListCmd())
	cmd.AddCommand(platformsSetCmd())

	return cmd
}

func platformsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List platform profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			resolver := platform.NewResolver()
			if err := store.SeedDefaultProfiles(ctx, resolver.Packages); err != nil {
				return fmt.Errorf("failed to seed profiles: %w", err)
			}

			profiles, err := store.ListProfiles(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("%-12s %-8s %-12s %-10s\n", "PLATFORM", "ENABLED", "AUTO-ACCEPT", "MIN AMOUNT")
			for _, p := range profiles {
				fmt.Printf("%-12s %-8t %-12t %10.2f\n",
					p.Platform, p.IsEnabled, p.AutoAcceptEnabled, p.MinimumAmount)
			}
			return nil
		},
	}
}

func platformsSetCmd() *cobra.Command {
	var enabled, autoAccept bool
	var minAmount float64

	cmd := &cobra.Command{
		Use:   "set <platform>",
		Short: "Update a platform profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			resolver := platform.NewResolver()
			if err := store.SeedDefaultProfiles(ctx, resolver.Packages); err != nil {
				return fmt.Errorf("failed to seed profiles: %w", err)
			}

			p := model.Platform(args[0])
			profile, err := store.GetProfile(ctx, p)
			if err != nil {
				return fmt.Errorf("%w: unknown platform %q", common.ErrNotFound, args[0])
			}

			if cmd.Flags().Changed("enabled") {
				profile.IsEnabled = enabled
			}
			if cmd.Flags().Changed("auto-accept") {
				profile.AutoAcceptEnabled = autoAccept
			}
			if cmd.Flags().Changed("min-amount") {
				profile.MinimumAmount = minAmount
			}

			if err := store.SaveProfile(ctx, profile); err != nil {
				return err
			}

			fmt.Printf("updated %s\n", p)
			return nil
		},
	}

	cmd.Flags().BoolVar(&enabled, "enabled", true, "enable or disable the platform")
	cmd.Flags().BoolVar(&autoAccept, "auto-accept", false, "enable automatic acceptance")
	cmd.Flags().Float64Var(&minAmount, "min-amount", 0, "minimum order amount to accept")

	return cmd
}
