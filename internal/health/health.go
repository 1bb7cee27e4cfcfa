package health

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const probeTimeout = 2 * time.Second

// Checker answers the liveness and readiness probes. Liveness never
// touches the database; readiness verifies the pool and that the
// payments schema is actually queryable, since the API is useless
// without its ledger table.
type Checker struct {
	db *pgxpool.Pool
}

type Probe struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Detail    string `json:"detail,omitempty"`
}

type Report struct {
	Status string           `json:"status"`
	Probes map[string]Probe `json:"probes,omitempty"`
}

func NewChecker(db *pgxpool.Pool) *Checker {
	return &Checker{db: db}
}

// Live reports process liveness only.
func (c *Checker) Live() Report {
	return Report{Status: "alive"}
}

// Ready runs the dependency probes and rolls them up.
func (c *Checker) Ready(ctx context.Context) Report {
	probes := map[string]Probe{
		"database": c.pingDatabase(ctx),
		"ledger":   c.probeLedger(ctx),
	}
	return Report{Status: overall(probes), Probes: probes}
}

func (c *Checker) pingDatabase(ctx context.Context) Probe {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	err := c.db.Ping(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return Probe{Status: "down", LatencyMS: latency, Detail: err.Error()}
	}
	return Probe{Status: "up", LatencyMS: latency}
}

// probeLedger checks that the payments table exists and answers a
// query. A fresh, empty ledger is ready; a missing table (migrations
// not applied) is not.
func (c *Checker) probeLedger(ctx context.Context) Probe {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	var one int
	err := c.db.QueryRow(ctx, `SELECT 1 FROM payments LIMIT 1`).Scan(&one)
	latency := time.Since(start).Milliseconds()

	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return Probe{Status: "down", LatencyMS: latency, Detail: err.Error()}
	}
	return Probe{Status: "up", LatencyMS: latency}
}

func overall(probes map[string]Probe) string {
	for _, p := range probes {
		if p.Status != "up" {
			return "unhealthy"
		}
	}
	return "healthy"
}
