package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"navterm/internal/model"
)

func TestDeriveTransitionTerminals(t *testing.T) {
	six := 6
	terminals := []model.Terminal{
		{ICAO: "ZBAA", Proc: "2", Name: "PIK01", Rwy: ptrStr("18")},
		{ICAO: "ZB01", Proc: "2", Name: "IGNORED"}, // has a digit, excluded
	}
	merged := []model.MergedRecord{
		{ICAO: "ZBAA", Terminal: "VYK01", Type: &six, Transition: "VYK", Rwy: ""},
		{ICAO: "ZBAA", Terminal: "VYK01", Rwy: "09"},
		{ICAO: "ZBAA", Terminal: "VYK01", Rwy: "27"},
	}

	got := DeriveTransitionTerminals(terminals, merged)

	want := []model.TerminalRecord{
		{Proc: "2", ICAO: "ZBAA", Name: "PIK01", Rwy: "18"},
		{Proc: "6", ICAO: "ZBAA", Name: "VYK", Rwy: "09"},
		{Proc: "6", ICAO: "ZBAA", Name: "VYK", Rwy: "27"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DeriveTransitionTerminals() mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveTransitionTerminals_PassesThroughWhenNoRunwayFound(t *testing.T) {
	six := 6
	merged := []model.MergedRecord{
		{ICAO: "ZBAA", Terminal: "VYK01", Type: &six, Transition: "VYK", Rwy: ""},
	}

	got := DeriveTransitionTerminals(nil, merged)

	want := []model.TerminalRecord{
		{Proc: "6", ICAO: "ZBAA", Name: "VYK", Rwy: ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DeriveTransitionTerminals() mismatch (-want +got):\n%s", diff)
	}
}
