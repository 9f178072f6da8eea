// Package telemetry provides foraging statistics, bookmarking, and snapshots.
package telemetry

import "github.com/pthm-cable/antmaze/components"

// TripKind identifies which leg of a round trip a record describes.
type TripKind string

const (
	TripOutbound TripKind = "outbound" // colony to food
	TripReturn   TripKind = "return"   // food to colony
)

// TripRecord is one completed leg, written to trips.csv.
type TripRecord struct {
	Tick    int32    `csv:"tick"`
	AntID   uint32   `csv:"ant"`
	Kind    TripKind `csv:"kind"`
	Seconds float64  `csv:"seconds"`
	Hops    int      `csv:"hops"`
}

// NewOutboundTrip creates a record for an ant that just reached food.
func NewOutboundTrip(tick int32, antID uint32, leg components.Leg) TripRecord {
	return TripRecord{
		Tick:    tick,
		AntID:   antID,
		Kind:    TripOutbound,
		Seconds: leg.Seconds,
		Hops:    leg.Hops,
	}
}

// NewReturnTrip creates a record for an ant that just delivered food.
func NewReturnTrip(tick int32, antID uint32, leg components.Leg) TripRecord {
	return TripRecord{
		Tick:    tick,
		AntID:   antID,
		Kind:    TripReturn,
		Seconds: leg.Seconds,
		Hops:    leg.Hops,
	}
}
