package model

import "testing"

func TestProcedureFingerprint(t *testing.T) {
	got := ProcedureFingerprint("ZBAA", "PIK01", "36")
	want := "ZBAA.PIK01.36"
	if got != want {
		t.Errorf("ProcedureFingerprint() = %q, want %q", got, want)
	}
}

func TestDetailFingerprint(t *testing.T) {
	got := DetailFingerprint("PIK01", "36")
	want := "PIK01.36"
	if got != want {
		t.Errorf("DetailFingerprint() = %q, want %q", got, want)
	}
}

func TestTransitionVia(t *testing.T) {
	six := 6
	three := 3

	cases := []struct {
		name           string
		rec            MergedRecord
		wantTransition string
		wantVia        string
	}{
		{
			name:           "transition type uses leg transition and terminal name",
			rec:            MergedRecord{Type: &six, Transition: "VYK", Terminal: "PIK01"},
			wantTransition: "VYK",
			wantVia:        "PIK01",
		},
		{
			name:           "non-transition type uses terminal name and padded runway",
			rec:            MergedRecord{Type: &three, Terminal: "PIK01", Rwy: "6"},
			wantTransition: "PIK01",
			wantVia:        "06",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			transition, via := TransitionVia(c.rec)
			if transition != c.wantTransition || via != c.wantVia {
				t.Errorf("TransitionVia() = (%q, %q), want (%q, %q)", transition, via, c.wantTransition, c.wantVia)
			}
		})
	}
}
