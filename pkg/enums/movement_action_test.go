package enums

import "testing"

func TestParseMovementAction(t *testing.T) {
	cases := map[string]MovementAction{
		"Entrada":  MovementActionEntry,
		"entrada":  MovementActionEntry,
		" SALIDA ": MovementActionExit,
		"Salida":   MovementActionExit,
	}
	for in, want := range cases {
		got, err := ParseMovementAction(in)
		if err != nil {
			t.Fatalf("ParseMovementAction(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseMovementAction(%q) = %q, want %q", in, got, want)
		}
	}

	for _, bad := range []string{"", "Sideways", "Entry", "Entradas"} {
		if _, err := ParseMovementAction(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestMovementActionHelpers(t *testing.T) {
	if !MovementActionEntry.IsValid() || MovementAction("x").IsValid() {
		t.Fatal("unexpected IsValid result")
	}
	if MovementActionEntry.Opposite() != MovementActionExit || MovementActionExit.Opposite() != MovementActionEntry {
		t.Fatal("unexpected Opposite result")
	}
	if PresenceAfter(MovementActionEntry) != PresenceInside {
		t.Fatal("entry should leave the rider inside")
	}
	if PresenceAfter(MovementActionExit) != PresenceOutside {
		t.Fatal("exit should leave the rider outside")
	}
	if PresenceAfter("") != PresenceNoRecords {
		t.Fatal("no action means no records")
	}
}
