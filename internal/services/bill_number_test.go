package services

import (
	"regexp"
	"testing"
)

var mintedPattern = regexp.MustCompile(`^BILL-\d{13,}-[0-9a-z]{9}$`)

func TestMintBillNumberFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		got := MintBillNumber()
		if !mintedPattern.MatchString(got) {
			t.Fatalf("MintBillNumber() = %q, want BILL-<millis>-<9 base36 chars>", got)
		}
	}
}

func TestMintBillNumberUniqueness(t *testing.T) {
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		n := MintBillNumber()
		if seen[n] {
			t.Fatalf("duplicate bill number %q after %d mints", n, i)
		}
		seen[n] = true
	}
}

func TestNextSequentialBillNumber(t *testing.T) {
	cases := []struct {
		name   string
		latest string
		year   int
		want   string
	}{
		{"no existing numbers", "", 2026, "BILL-2026-0001"},
		{"increments", "BILL-2026-0007", 2026, "BILL-2026-0008"},
		{"keeps zero padding", "BILL-2026-0099", 2026, "BILL-2026-0100"},
		{"crosses into five digits", "BILL-2026-9999", 2026, "BILL-2026-10000"},
		{"keeps counting past the rollover", "BILL-2026-10000", 2026, "BILL-2026-10001"},
		{"malformed latest falls back to first", "BILL-garbage", 2026, "BILL-2026-0001"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextSequentialBillNumber(tc.latest, tc.year); got != tc.want {
				t.Errorf("NextSequentialBillNumber(%q, %d) = %q, want %q", tc.latest, tc.year, got, tc.want)
			}
		})
	}
}
