package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ComponentStatus reports which upstream integrations are configured. A
// missing credential disables the component rather than failing the server,
// so the health endpoint surfaces what is actually live.
type ComponentStatus struct {
	PostFetcher      bool
	ProfileGenerator bool
	PriceLookup      bool
	CacheBackend     string
}

// SystemHandlers provides system monitoring endpoints
type SystemHandlers struct {
	log       zerolog.Logger
	status    ComponentStatus
	startedAt time.Time
}

// NewSystemHandlers creates system handlers
func NewSystemHandlers(log zerolog.Logger, status ComponentStatus) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("handler", "system").Logger(),
		status:    status,
		startedAt: time.Now(),
	}
}

// RegisterRoutes registers system routes on the router
func (h *SystemHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/system/health", h.HandleHealth)
}

type healthResponse struct {
	Status     string            `json:"status"`
	UptimeSecs int64             `json:"uptimeSeconds"`
	Components map[string]string `json:"components"`
	System     systemStats       `json:"system"`
	Timestamp  int64             `json:"timestamp"`
}

type systemStats struct {
	CPUPercent float64 `json:"cpuPercent"`
	RAMPercent float64 `json:"ramPercent"`
	Goroutines int     `json:"goroutines"`
}

// HandleHealth handles GET /api/system/health
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{
		"postFetcher":      componentState(h.status.PostFetcher),
		"profileGenerator": componentState(h.status.ProfileGenerator),
		"priceLookup":      componentState(h.status.PriceLookup),
		"cacheBackend":     h.status.CacheBackend,
	}

	cpuPct, ramPct := h.systemStats()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:     "ok",
		UptimeSecs: int64(time.Since(h.startedAt).Seconds()),
		Components: components,
		System: systemStats{
			CPUPercent: cpuPct,
			RAMPercent: ramPct,
			Goroutines: runtime.NumGoroutine(),
		},
		Timestamp: time.Now().UnixMilli(),
	})
}

func componentState(configured bool) string {
	if configured {
		return "configured"
	}
	return "degraded"
}

// systemStats samples CPU and RAM usage. The CPU sample uses a short
// interval so the endpoint stays responsive for dashboard polling.
func (h *SystemHandlers) systemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
