// Package model holds the relational source types and the enriched leg record
// produced by the merge engine.
package model

// Airport is a row of the source Airports table, restricted to those whose ICAO
// passes the prefix predicate in sourcedb.Load.
type Airport struct {
	ID   int64
	ICAO string
}

// Runway is a row of the source Runways table.
type Runway struct {
	ID          int64
	AirportID   int64
	Ident       string
	TrueHeading *float64
	Latitude    float64
	Longitude   float64
	ElevationFt float64
}

// Terminal is a named procedure: a row of the source Terminals table.
type Terminal struct {
	ID        int64
	AirportID int64
	Proc      string
	ICAO      string
	Name      string
	Rwy       *string
}

// TerminalLeg is one leg of one terminal procedure.
type TerminalLeg struct {
	ID         int64
	TerminalID int64
	Type       *int
	Transition string
	TrackCode  string
	WptID      *int64
	WptLat     *float64
	WptLon     *float64
	TurnDir    *string
	NavID      *int64
	NavBear    *float64
	NavDist    *float64
	Course     *float64
	Distance   *float64
	Alt        *string
	Vnav       *float64
	CenterID   *int64
}

// TerminalLegEx is 1:1 with TerminalLeg by id.
type TerminalLegEx struct {
	ID                    int64
	IsFlyOver             *bool
	SpeedLimit            *float64
	SpeedLimitDescription *string
}

// Waypoint is a row of the source Waypoints table.
type Waypoint struct {
	ID        int64
	Ident     string
	Latitude  float64
	Longitude float64
}

// Navaid is a row of the source Navaids table.
type Navaid struct {
	ID        int64
	Ident     string
	Latitude  float64
	Longitude float64
}

// Relations is the full set of tables loaded by sourcedb.Load, filtered to the
// requested airports and terminal-id window.
type Relations struct {
	Airports  []Airport
	Runways   []Runway
	Terminals []Terminal
	Legs      []TerminalLeg
	LegsEx    []TerminalLegEx
	Waypoints []Waypoint
	Navaids   []Navaid
}

// MergedRecord is one enriched leg record, the output of the merge engine (C2).
type MergedRecord struct {
	TerminalID int64

	ICAO           string
	Rwy            string
	Terminal       string
	Type           *int
	Transition     string
	Leg            string
	TurnDirection  string
	Name           string
	Latitude       *float64
	Longitude      *float64
	Frequency      string
	NavBear        *float64
	NavDist        *float64
	Heading        *float64
	Dist           *float64
	CrossThisPoint string
	Altitude       string
	Map            int
	Slope          *float64
	Speed          string
	CenterLat      *float64
	CenterLon      *float64

	// Carried through for lookups during enrichment; not emitted.
	WptID    *int64
	NavID    *int64
	CenterID *int64
}

// TerminalRecord is a row fed to the procedure-list writer (C4): either a direct
// Terminals-table row, or a synthetic record derived from a leg whose Type is
// "6" or "A" (see merge.DeriveTransitionTerminals).
type TerminalRecord struct {
	Proc string
	ICAO string
	Name string
	Rwy  string
}
