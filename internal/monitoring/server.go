package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Server is the internal ops dashboard. It runs on its own port,
// separate from the API listener, and pushes a stats snapshot to
// connected websocket clients every few seconds.
type Server struct {
	db         *pgxpool.Pool
	port       int
	startedAt  time.Time
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
}

type Snapshot struct {
	DatabaseStatus     string  `json:"database_status"`
	DBResponseTime     int64   `json:"db_response_time_ms"`
	AcquiredConns      int32   `json:"acquired_conns"`
	IdleConns          int32   `json:"idle_conns"`
	TotalConns         int32   `json:"total_conns"`
	CPUPercent         float64 `json:"cpu_percent"`
	MemoryPercent      float64 `json:"memory_percent"`
	MemoryUsed         string  `json:"memory_used"`
	MemoryTotal        string  `json:"memory_total"`
	DiskPercent        float64 `json:"disk_percent"`
	DiskUsed           string  `json:"disk_used"`
	DiskTotal          string  `json:"disk_total"`
	Uptime             string  `json:"uptime"`
	TotalPayments      int     `json:"total_payments"`
	OutstandingBalance float64 `json:"outstanding_balance"`
	Timestamp          string  `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewServer(db *pgxpool.Pool, port int) *Server {
	return &Server{
		db:        db,
		port:      port,
		startedAt: time.Now(),
		clients:   make(map[*websocket.Conn]bool),
	}
}

// Start blocks; run it in its own goroutine.
func (s *Server) Start() {
	r := mux.NewRouter()
	r.HandleFunc("/api/stats", s.statsHandler).Methods("GET")
	r.HandleFunc("/ws", s.wsHandler)

	go s.broadcastLoop()

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("[Monitoring] Dashboard listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Printf("[Monitoring] Server stopped: %v", err)
	}
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.collect(r.Context())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Monitoring] Websocket upgrade failed: %v", err)
		return
	}

	s.clientsMux.Lock()
	s.clients[conn] = true
	s.clientsMux.Unlock()

	// Drain reads until the client goes away.
	go func() {
		defer func() {
			s.clientsMux.Lock()
			delete(s.clients, conn)
			s.clientsMux.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.clientsMux.Lock()
		n := len(s.clients)
		s.clientsMux.Unlock()
		if n == 0 {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		snap := s.collect(ctx)
		cancel()

		payload, err := json.Marshal(snap)
		if err != nil {
			continue
		}

		s.clientsMux.Lock()
		for conn := range s.clients {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				delete(s.clients, conn)
				conn.Close()
			}
		}
		s.clientsMux.Unlock()
	}
}

func (s *Server) collect(ctx context.Context) Snapshot {
	snap := Snapshot{
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		Timestamp: time.Now().Format(time.RFC3339),
	}

	start := time.Now()
	if err := s.db.Ping(ctx); err != nil {
		snap.DatabaseStatus = "unhealthy"
	} else {
		snap.DatabaseStatus = "healthy"
	}
	snap.DBResponseTime = time.Since(start).Milliseconds()

	pool := s.db.Stat()
	snap.AcquiredConns = pool.AcquiredConns()
	snap.IdleConns = pool.IdleConns()
	snap.TotalConns = pool.TotalConns()

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		snap.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		snap.MemoryPercent = vm.UsedPercent
		snap.MemoryUsed = formatBytes(vm.Used)
		snap.MemoryTotal = formatBytes(vm.Total)
	}
	if du, err := disk.Usage("/"); err == nil {
		snap.DiskPercent = du.UsedPercent
		snap.DiskUsed = formatBytes(du.Used)
		snap.DiskTotal = formatBytes(du.Total)
	}

	if snap.DatabaseStatus == "healthy" {
		row := s.db.QueryRow(ctx,
			`SELECT COUNT(*), COALESCE(SUM(balance_amount), 0) FROM payments`)
		row.Scan(&snap.TotalPayments, &snap.OutstandingBalance)
	}

	return snap
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGT"[exp])
}
