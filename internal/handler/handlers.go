// Package handler serves the host metrics query API.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
	middlewareinternal "github.com/Schera-ole/hostmetrics/internal/middleware"
	models "github.com/Schera-ole/hostmetrics/internal/model"
	"github.com/Schera-ole/hostmetrics/internal/service"
	"github.com/Schera-ole/hostmetrics/internal/system"
)

const (
	requestTimeout = 15 * time.Second

	// DefaultSampleWindow is used when a sampled route has no duration.
	DefaultSampleWindow = time.Second

	// MaxSampleWindow keeps a sampled request inside requestTimeout.
	MaxSampleWindow = 10 * time.Second

	defaultHistoryLimit = 100
)

// Handler binds the routes to a metrics facade and a history service.
type Handler struct {
	system  *system.System
	service *service.MetricsService
	logger  *zap.SugaredLogger
}

// Router builds the query API. key, when set, is the HMAC key checked on
// POST /updates.
func Router(sys *system.System, metricService *service.MetricsService, logger *zap.SugaredLogger, key string) chi.Router {
	h := &Handler{system: sys, service: metricService, logger: logger}

	router := chi.NewRouter()
	router.Use(middlewareinternal.LoggingMiddleware(logger))
	router.Use(middlewareinternal.GzipMiddleware)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(requestTimeout))

	router.Route("/api", func(r chi.Router) {
		r.Get("/cpu", h.CPU)
		r.Get("/memory", h.Memory)
		r.Get("/memory-modules", h.MemoryModules)
		r.Get("/interrupts", h.Interrupts)
		r.Get("/interrupts/rate", h.InterruptRate)
		r.Get("/irq", h.IRQ)
		r.Get("/host", h.Host)
		r.Get("/network", h.Network)
		r.Post("/refresh/{category}", h.Refresh)
		r.Get("/history/{name}", h.History)
	})
	router.With(
		middlewareinternal.HashMiddleware(key),
		middlewareinternal.GunzipMiddleware,
	).Post("/updates", h.BatchUpdate)
	router.Get("/ping", h.Ping)
	router.Get("/", h.List)
	return router
}

// cpuResponse flattens the CPUInfo union for clients: arch is a string and
// processors holds whichever variant is populated.
type cpuResponse struct {
	Arch       string `json:"arch"`
	Machine    string `json:"machine"`
	Processors any    `json:"processors"`
}

func (h *Handler) CPU(w http.ResponseWriter, r *http.Request) {
	info, err := h.system.CPUInfo()
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	resp := cpuResponse{Arch: info.Arch.String(), Machine: info.Machine}
	switch info.Arch {
	case models.ArchX86_64:
		resp.Processors = info.X86_64
	case models.ArchArm64:
		resp.Processors = info.Arm64
	case models.ArchUnknown:
		respondError(w, r, h.logger, internalerrors.Unsupported("cpuinfo", "unrecognized machine "+info.Machine))
		return
	}
	respond(w, r, h.logger, http.StatusOK, resp)
}

func (h *Handler) Memory(w http.ResponseWriter, r *http.Request) {
	m, err := h.system.MemInfo()
	h.reply(w, r, m, err)
}

func (h *Handler) MemoryModules(w http.ResponseWriter, r *http.Request) {
	m, err := h.system.MemoryModules()
	h.reply(w, r, m, err)
}

func (h *Handler) Interrupts(w http.ResponseWriter, r *http.Request) {
	d, err := h.system.Interrupts()
	h.reply(w, r, d, err)
}

func (h *Handler) IRQ(w http.ResponseWriter, r *http.Request) {
	d, err := h.system.IRQInfo()
	h.reply(w, r, d, err)
}

func (h *Handler) Host(w http.ResponseWriter, r *http.Request) {
	info, err := h.system.Host()
	h.reply(w, r, info, err)
}

func (h *Handler) Network(w http.ResponseWriter, r *http.Request) {
	d, err := sampleWindow(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	delta, err := h.system.NetworkStat(r.Context(), d)
	h.reply(w, r, delta, err)
}

func (h *Handler) InterruptRate(w http.ResponseWriter, r *http.Request) {
	d, err := sampleWindow(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	delta, err := h.system.InterruptRate(r.Context(), d)
	h.reply(w, r, delta, err)
}

func (h *Handler) reply(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusOK, v)
}

// sampleWindow reads ?duration=, a Go duration string.
func sampleWindow(r *http.Request) (time.Duration, error) {
	raw := r.URL.Query().Get("duration")
	if raw == "" {
		return DefaultSampleWindow, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid duration %q", internalerrors.ErrMeasurement, raw)
	}
	if d > MaxSampleWindow {
		return 0, fmt.Errorf("%w: duration %s exceeds %s", internalerrors.ErrMeasurement, d, MaxSampleWindow)
	}
	// non-positive values are rejected by the sampler
	return d, nil
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := system.ParseCategory(chi.URLParam(r, "category"))
	if err == nil {
		err = h.system.Refresh(c)
	}
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	samples, err := h.service.History(r.Context(), chi.URLParam(r, "name"), limit)
	h.reply(w, r, samples, err)
}

// BatchUpdate accepts a JSON array of metrics pushed by an agent. Signature
// checks and decompression happen in middleware.
func (h *Handler) BatchUpdate(w http.ResponseWriter, r *http.Request) {
	var metrics []models.MetricsDTO
	if err := json.NewDecoder(r.Body).Decode(&metrics); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.AppendDTOs(r.Context(), metrics); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.logger.Debugw("batch stored", "metrics", len(metrics), "remote", r.RemoteAddr)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.logger.Errorw("storage ping failed", "error", err)
		http.Error(w, "Failed to connect to storage: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// List writes the latest value of every stored series as plain text.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	samples, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	for _, s := range samples {
		fmt.Fprintf(w, "%s: %s\n", s.Name, strconv.FormatFloat(s.Value, 'g', -1, 64))
	}
}
