// Package platform maps third-party package identifiers onto canonical
// platforms and carries the per-platform control vocabulary used by
// screen matching.
package platform

import (
	"strings"

	"github.com/orderpilot/orderpilot/internal/model"
)

// Resolver maps observed package identifiers (current or legacy) to
// canonical platforms. Lookups are pure and total: every input resolves
// to a platform or to not-supported, never to a guess.
type Resolver struct {
	byPackage  map[string]model.Platform
	deprecated map[string]struct{}
}

// NewResolver creates a resolver over the built-in package tables.
func NewResolver() *Resolver {
	r := &Resolver{
		byPackage:  make(map[string]model.Platform),
		deprecated: make(map[string]struct{}),
	}

	for platform, pkgs := range packageIdentifiers() {
		for _, pkg := range pkgs {
			r.byPackage[pkg] = platform
		}
	}
	for _, pkg := range deprecatedPackages() {
		r.deprecated[pkg] = struct{}{}
	}

	return r
}

// Resolve maps an observed package id to its canonical platform. The
// second return is false for unknown or deprecated packages.
func (r *Resolver) Resolve(observedPackageID string) (model.Platform, bool) {
	pkg := strings.ToLower(strings.TrimSpace(observedPackageID))
	if pkg == "" {
		return "", false
	}
	if _, gone := r.deprecated[pkg]; gone {
		return "", false
	}
	platform, ok := r.byPackage[pkg]
	return platform, ok
}

// Packages returns every known package identifier for a platform, current
// name first. Used to seed default profiles.
func (r *Resolver) Packages(platform model.Platform) []string {
	pkgs := packageIdentifiers()[platform]
	out := make([]string, len(pkgs))
	copy(out, pkgs)
	return out
}

// packageIdentifiers returns the package name table per platform. The
// first entry is the current package; later entries are legacy names kept
// so renamed third-party apps keep resolving.
func packageIdentifiers() map[model.Platform][]string {
	return map[model.Platform][]string{
		model.PlatformSwiggy: {
			"in.swiggy.deliveryapp",
			"in.swiggy.android.delivery",
		},
		model.PlatformZomato: {
			"com.zomato.delivery",
			"com.application.zomato.delivery",
		},
		model.PlatformUberEats: {
			"com.ubercab.driver",
			"com.ubercab.eats.courier",
		},
		model.PlatformDoorDash: {
			"com.doordash.driverapp",
			"com.dd.doordash.dasher",
		},
		model.PlatformGrubhub: {
			"com.grubhub.driver",
		},
		model.PlatformInstacart: {
			"com.instacart.shopper",
			"com.instacart.driver",
		},
		model.PlatformZepto: {
			"com.zepto.rider",
		},
		model.PlatformBlinkit: {
			"com.grofers.delivery",
			"com.blinkit.rider",
		},
	}
}

// deprecatedPackages lists packages for platforms no longer supported.
// These resolve to not-supported rather than to a stale platform.
func deprecatedPackages() []string {
	return []string{
		"com.dunzo.partner",
		"com.shadowfax.driver",
	}
}
