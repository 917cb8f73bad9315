package params

import "testing"

func TestParam_PresentAndAbsent(t *testing.T) {
	p := Map{"name": "loss", "count": 3}

	if got := Param(p, "name", "val_loss"); got != "loss" {
		t.Fatalf("Param(name) = %q, want %q", got, "loss")
	}
	if got := Param(p, "missing", "val_loss"); got != "val_loss" {
		t.Fatalf("Param(missing) = %q, want default %q", got, "val_loss")
	}
	// Wrong type falls back to the default rather than panicking.
	if got := Param(p, "count", "x"); got != "x" {
		t.Fatalf("Param(count) as string = %q, want default", got)
	}
}

func TestInt_NumericCoercion(t *testing.T) {
	p := Map{"a": 5, "b": int64(6), "c": 7.0, "d": "8"}

	if got := Int(p, "a", 0); got != 5 {
		t.Fatalf("Int(a) = %d, want 5", got)
	}
	if got := Int(p, "b", 0); got != 6 {
		t.Fatalf("Int(b) = %d, want 6", got)
	}
	if got := Int(p, "c", 0); got != 7 {
		t.Fatalf("Int(c) = %d, want 7", got)
	}
	if got := Int(p, "d", 9); got != 9 {
		t.Fatalf("Int(d) = %d, want default 9", got)
	}
}

func TestTriState(t *testing.T) {
	p := Map{
		"on":       true,
		"off":      false,
		"str_off":  "off",
		"str_auto": "auto",
	}

	cases := []struct {
		key              string
		enabled, disabled bool
	}{
		{"on", true, false},
		{"off", false, true},
		{"str_off", false, true},
		{"str_auto", true, false},
		{"absent", false, false},
	}
	for _, tc := range cases {
		if got := Enabled(p, tc.key); got != tc.enabled {
			t.Errorf("Enabled(%q) = %v, want %v", tc.key, got, tc.enabled)
		}
		if got := Disabled(p, tc.key); got != tc.disabled {
			t.Errorf("Disabled(%q) = %v, want %v", tc.key, got, tc.disabled)
		}
	}
}

func TestDisabled_AbsentKeyIsNotDisabled(t *testing.T) {
	// Restart is attempted unless explicitly turned off, so the
	// absent/false distinction must hold.
	if Disabled(Map{}, "restart") {
		t.Fatal("Disabled(absent) = true, want false")
	}
	if !Disabled(Map{"restart": false}, "restart") {
		t.Fatal("Disabled(false) = false, want true")
	}
}
