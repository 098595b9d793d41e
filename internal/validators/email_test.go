package validators

import "testing"

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@Example.COM "); got != "ana@example.com" {
		t.Fatalf("expected ana@example.com, got %q", got)
	}
}

func TestIsEmailShaped(t *testing.T) {
	tests := map[string]bool{
		"ana@example.com": true,
		"ana@example":     false,
		"@example.com":    false,
		"ana@":            false,
		"ana.example.com": false,
	}
	for in, want := range tests {
		if got := IsEmailShaped(in); got != want {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}
}

func TestIsClock(t *testing.T) {
	for _, ok := range []string{"00:00", "09:30", "23:59"} {
		if !IsClock(ok) {
			t.Fatalf("expected %q accepted", ok)
		}
	}
	for _, bad := range []string{"", "9:30", "24:00", "12:60", "noon!"} {
		if IsClock(bad) {
			t.Fatalf("expected %q rejected", bad)
		}
	}
	if !ClockBefore("09:00", "18:00") || ClockBefore("18:00", "09:00") {
		t.Fatalf("expected lexical HH:MM ordering")
	}
}
