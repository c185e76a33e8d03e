package periodhttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers the saldo awal endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/saldo-awal", h.handleGetSnapshot)
	r.Get("/saldo-awal/direct-change", h.handleDirectChange)
	r.Get("/saldo-awal/equation", h.handleEquation)
	r.Get("/saldo-awal/chart", h.handleChart)
	r.Post("/saldo-awal", h.handleOpenPeriod)
	r.Put("/saldo-awal", h.handleUpdateSnapshot)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Post("/saldo-awal/lock", h.handleLockPeriod)
		gr.Post("/saldo-awal/koreksi", h.handleCorrection)
	})
}
