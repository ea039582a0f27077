package merge

import (
	"testing"

	"navterm/internal/model"
)

func TestMerge_AllExpansionAndIFLegFill(t *testing.T) {
	rel := &model.Relations{
		Airports: []model.Airport{{ID: 1, ICAO: "ZBAA"}},
		Terminals: []model.Terminal{
			{ID: 10, AirportID: 1, Proc: "2", ICAO: "ZBAA", Name: "PIK01"},
		},
		Legs: []model.TerminalLeg{
			{ID: 100, TerminalID: 10, TrackCode: "IF", Transition: "RW18"},
			{ID: 101, TerminalID: 10, TrackCode: "CF", Transition: "RW36"},
			{ID: 102, TerminalID: 10, TrackCode: "IF", Transition: "ALL"},
		},
	}

	records := Merge(rel, nil)

	if len(records) != 4 {
		t.Fatalf("len(records) = %d, want 4", len(records))
	}

	for _, r := range records {
		if r.Transition == "ALL" {
			t.Errorf("record %+v still carries an ALL transition after expansion", r)
		}
	}

	want := []struct {
		rwy  string
		name string
	}{
		{"18", "RW18"},
		{"18", "RW18"},
		{"36", ""},
		{"36", "RW36"},
	}
	for i, w := range want {
		if records[i].Rwy != w.rwy || records[i].Name != w.name {
			t.Errorf("records[%d] = {Rwy:%q Name:%q}, want {Rwy:%q Name:%q}", i, records[i].Rwy, records[i].Name, w.rwy, w.name)
		}
		if records[i].Type == nil || *records[i].Type != 5 {
			t.Errorf("records[%d].Type = %v, want 5", i, records[i].Type)
		}
	}
}

func TestMerge_NameReplacementTable(t *testing.T) {
	rel := &model.Relations{
		Airports:  []model.Airport{{ID: 1, ICAO: "ZBAA"}},
		Terminals: []model.Terminal{{ID: 10, AirportID: 1, Proc: "2", ICAO: "ZBAA", Name: "PIK01"}},
		Legs: []model.TerminalLeg{
			{ID: 200, TerminalID: 10, TrackCode: "TF", WptID: ptrI64(1)},
		},
		Waypoints: []model.Waypoint{
			{ID: 1, Ident: "ZJ400", Latitude: 40.0, Longitude: 116.0},
		},
	}

	records := Merge(rel, nil)
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].Name != "RW15" {
		t.Errorf("Name = %q, want RW15 (replacement for ZJ400)", records[0].Name)
	}
}

func TestMerge_MapAltitudeSkippedWithoutRunway(t *testing.T) {
	rel := &model.Relations{
		Airports:  []model.Airport{{ID: 1, ICAO: "ZBAA"}},
		Terminals: []model.Terminal{{ID: 10, AirportID: 1, Proc: "2", ICAO: "ZBAA", Name: "PIK01", Rwy: ptrStr("36")}},
		Legs: []model.TerminalLeg{
			{ID: 300, TerminalID: 10, TrackCode: "CF", Alt: ptrStr("MAP")},
		},
	}

	records := Merge(rel, nil)
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].Map != 1 {
		t.Errorf("Map = %d, want 1", records[0].Map)
	}
	if records[0].Altitude != "MAP" {
		t.Errorf("Altitude = %q, want unchanged MAP since no matching runway exists", records[0].Altitude)
	}
}

func ptrI64(v int64) *int64    { return &v }
func ptrStr(v string) *string  { return &v }
