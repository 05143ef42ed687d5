package components

import "testing"

func TestColorAverage(t *testing.T) {
	tests := []struct {
		name string
		a, b Color
		want Color
	}{
		{"red and green truncate", Color{255, 0, 0}, Color{0, 255, 0}, Color{127, 127, 0}},
		{"exact halves", Color{200, 0, 0}, Color{0, 100, 0}, Color{100, 50, 0}},
		{"no overflow", Color{255, 255, 255}, Color{255, 255, 255}, Color{255, 255, 255}},
		{"identity", Color{10, 20, 30}, Color{10, 20, 30}, Color{10, 20, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Average(tt.b); got != tt.want {
				t.Errorf("%v.Average(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Average(tt.a); got != tt.want {
				t.Errorf("Average is not symmetric: got %v", got)
			}
		})
	}
}

func TestNeedsClamp(t *testing.T) {
	n := Needs{Hunger: 15, Thirst: -3, HungerMax: 10, ThirstMax: 10}
	n.Clamp()
	if n.Hunger != 10 || n.Thirst != 0 {
		t.Errorf("Clamp() = hunger %d thirst %d, want 10 and 0", n.Hunger, n.Thirst)
	}
}

func TestNeedsExhausted(t *testing.T) {
	base := Needs{Hunger: 5, Thirst: 5, HungerMax: 10, ThirstMax: 10, LifespanUses: 3}
	if base.Exhausted() {
		t.Fatal("healthy needs reported exhausted")
	}

	for name, mutate := range map[string]func(*Needs){
		"hunger":   func(n *Needs) { n.Hunger = 0 },
		"thirst":   func(n *Needs) { n.Thirst = 0 },
		"lifespan": func(n *Needs) { n.LifespanUses = 0 },
	} {
		n := base
		mutate(&n)
		if !n.Exhausted() {
			t.Errorf("%s at zero should exhaust needs", name)
		}
	}
}

func TestStateNames(t *testing.T) {
	if len(StateNames()) != NumStates {
		t.Fatalf("StateNames has %d entries, want %d", len(StateNames()), NumStates)
	}
	if StateBoth.String() != "both" || StateDead.String() != "dead" {
		t.Errorf("unexpected names: %s, %s", StateBoth, StateDead)
	}
	if State(42).String() != "unknown" {
		t.Errorf("out of range state should be unknown")
	}
}

func TestStateSeeking(t *testing.T) {
	tests := []struct {
		s           State
		food, water bool
	}{
		{StateIdle, false, false},
		{StateHungry, true, false},
		{StateThirsty, false, true},
		{StateBoth, true, true},
		{StateDead, false, false},
	}
	for _, tt := range tests {
		if got := tt.s.Seeking(KindFood); got != tt.food {
			t.Errorf("%s.Seeking(food) = %v, want %v", tt.s, got, tt.food)
		}
		if got := tt.s.Seeking(KindWater); got != tt.water {
			t.Errorf("%s.Seeking(water) = %v, want %v", tt.s, got, tt.water)
		}
	}
}

func TestFoodAvailability(t *testing.T) {
	f := Food{Cap: 2}
	if f.Available() || f.Full() {
		t.Fatal("empty food should be unavailable and not full")
	}
	f.Units = append(f.Units, ForageUnit{}, ForageUnit{})
	if !f.Available() || !f.Full() {
		t.Error("food at cap should be available and full")
	}
}

func TestStateTextRoundTrip(t *testing.T) {
	for i := range NumStates {
		s := State(i)
		b, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", i, err)
		}
		var got State
		if err := got.UnmarshalText(b); err != nil || got != s {
			t.Errorf("UnmarshalText(%q) = %v, %v; want %v", b, got, err, s)
		}
	}

	var s State
	if err := s.UnmarshalText([]byte("asleep")); err == nil {
		t.Error("unknown state name should fail")
	}
}
