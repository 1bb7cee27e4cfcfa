package health

import "testing"

func TestOverall(t *testing.T) {
	cases := []struct {
		name   string
		probes map[string]Probe
		want   string
	}{
		{"all up", map[string]Probe{"database": {Status: "up"}, "ledger": {Status: "up"}}, "healthy"},
		{"database down", map[string]Probe{"database": {Status: "down"}, "ledger": {Status: "up"}}, "unhealthy"},
		{"ledger down", map[string]Probe{"database": {Status: "up"}, "ledger": {Status: "down"}}, "unhealthy"},
		{"no probes", map[string]Probe{}, "healthy"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := overall(tc.probes); got != tc.want {
				t.Errorf("overall() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLiveNeedsNoDatabase(t *testing.T) {
	c := NewChecker(nil)
	report := c.Live()
	if report.Status != "alive" {
		t.Errorf("status = %q, want alive", report.Status)
	}
	if len(report.Probes) != 0 {
		t.Errorf("liveness ran %d probes, want none", len(report.Probes))
	}
}
