// Package model defines the core data types shared across the pipeline.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Platform identifies a supported delivery service.
type Platform string

// Canonical platform identifiers. This is a closed set: the resolver maps
// every observed package name onto one of these or reports Unsupported.
const (
	PlatformSwiggy    Platform = "swiggy"
	PlatformZomato    Platform = "zomato"
	PlatformUberEats  Platform = "ubereats"
	PlatformDoorDash  Platform = "doordash"
	PlatformGrubhub   Platform = "grubhub"
	PlatformInstacart Platform = "instacart"
	PlatformZepto     Platform = "zepto"
	PlatformBlinkit   Platform = "blinkit"
)

// AllPlatforms returns every supported platform in a stable order.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformSwiggy,
		PlatformZomato,
		PlatformUberEats,
		PlatformDoorDash,
		PlatformGrubhub,
		PlatformInstacart,
		PlatformZepto,
		PlatformBlinkit,
	}
}

// OrderSignal is one structured order observation extracted from a
// notification. It is ephemeral: created per event and discarded once a
// decision has been made.
type OrderSignal struct {
	ObservedAt time.Time
	ID         string
	Platform   Platform
	Title      string
	Body       string
	Amount     float64

	// Best-effort fields; nil means the text carried no usable match.
	DistanceKm  *float64
	TimeMinutes *int
}

// signalNamespace scopes signal ids so the same notification always maps
// to the same id.
var signalNamespace = uuid.MustParse("b7d2a1c4-5e8f-4a39-9c61-2f0d8e7a5b13")

// NewOrderSignal creates a signal whose id is derived from the notification
// content and capture timestamp. Identical inputs yield identical signals,
// which keeps extraction deterministic and makes feedback correlation
// stable across replays.
func NewOrderSignal(platform Platform, title, body string, observedAt time.Time) OrderSignal {
	seed := fmt.Sprintf("%s|%s|%s|%d", platform, title, body, observedAt.UnixMilli())
	return OrderSignal{
		ID:         uuid.NewSHA1(signalNamespace, []byte(seed)).String(),
		Platform:   platform,
		Title:      title,
		Body:       body,
		ObservedAt: observedAt,
	}
}

// Actionable reports whether the signal carries enough information to
// drive an accept decision. A signal with no parsed amount never is.
func (s OrderSignal) Actionable() bool {
	return s.Amount > 0
}
