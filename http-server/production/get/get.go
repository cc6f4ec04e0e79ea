package get

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"pltcm-dashboard/internal/report"
	"pltcm-dashboard/internal/service"
	"pltcm-dashboard/internal/storage"
)

type ProductionSource interface {
	Production() ([]storage.Coil, error)
}

type ResponseIndicators struct {
	report.Indicators
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type ResponseTable struct {
	Rows   []storage.Coil `json:"rows"`
	Status string         `json:"status"`
	Error  string         `json:"error,omitempty"`
}

type ResponseStats[K float64 | string] struct {
	By     string                 `json:"by"`
	Groups []report.GroupStats[K] `json:"groups"`
	Status string                 `json:"status"`
}

type ResponseTrend struct {
	Period string              `json:"period"`
	Points []report.TrendPoint `json:"points"`
	Status string              `json:"status"`
}

type ResponseError struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// filteredCoils reads start_date/end_date and returns the snapshot rows in
// that range. It writes the error response itself and returns ok=false.
func filteredCoils(w http.ResponseWriter, r *http.Request, log *slog.Logger, src ProductionSource, loc *time.Location) ([]storage.Coil, bool) {
	q := r.URL.Query()
	rng, err := report.ParseRange(q.Get("start_date"), q.Get("end_date"), loc)
	if err != nil {
		log.Error("invalid date range", slog.String("error", err.Error()))
		writeError(w, r, http.StatusBadRequest, "invalid date range")
		return nil, false
	}

	coils, err := src.Production()
	if err != nil {
		if errors.Is(err, service.ErrNotLoaded) {
			log.Warn("production requested before snapshot load")
			writeError(w, r, http.StatusServiceUnavailable, "production data not loaded")
			return nil, false
		}
		log.Error("failed to read production", slog.String("error", err.Error()))
		writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}

	return report.FilterCoils(coils, rng), true
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ResponseError{Status: strconv.Itoa(status), Error: msg})
}

func opLogger(log *slog.Logger, op string, r *http.Request) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func GetIndicators(log *slog.Logger, src ProductionSource, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := opLogger(log, "handler.production.GetIndicators", r)

		coils, ok := filteredCoils(w, r, log, src, loc)
		if !ok {
			return
		}

		render.JSON(w, r, ResponseIndicators{
			Indicators: report.ProductionIndicators(coils),
			Status:     strconv.Itoa(http.StatusOK),
		})
	}
}

func GetTable(log *slog.Logger, src ProductionSource, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := opLogger(log, "handler.production.GetTable", r)

		coils, ok := filteredCoils(w, r, log, src, loc)
		if !ok {
			return
		}

		render.JSON(w, r, ResponseTable{
			Rows:   coils,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}

// GetStats groups the filtered coils by alloy, width or thickness. The
// thickness grouping honours an optional min/max band.
func GetStats(log *slog.Logger, src ProductionSource, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := opLogger(log, "handler.production.GetStats", r)

		by := r.URL.Query().Get("by")
		if by == "" {
			by = "alloy"
		}
		if by != "alloy" && by != "width" && by != "thickness" {
			log.Error("invalid grouping", slog.String("by", by))
			writeError(w, r, http.StatusBadRequest, "by must be alloy, width or thickness")
			return
		}

		lo, hi, err := report.ParseBand(r.URL.Query().Get("min"), r.URL.Query().Get("max"))
		if err != nil {
			log.Error("invalid thickness band", slog.String("error", err.Error()))
			writeError(w, r, http.StatusBadRequest, "invalid thickness band")
			return
		}

		coils, ok := filteredCoils(w, r, log, src, loc)
		if !ok {
			return
		}

		status := strconv.Itoa(http.StatusOK)
		switch by {
		case "alloy":
			render.JSON(w, r, ResponseStats[string]{By: by, Groups: report.AlloyStats(coils), Status: status})
		case "width":
			render.JSON(w, r, ResponseStats[float64]{By: by, Groups: report.WidthStats(coils), Status: status})
		case "thickness":
			groups := report.ThicknessBand(report.ThicknessStats(coils), lo, hi)
			render.JSON(w, r, ResponseStats[float64]{By: by, Groups: groups, Status: status})
		}
	}
}

func GetTrend(log *slog.Logger, src ProductionSource, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := opLogger(log, "handler.production.GetTrend", r)

		period, err := report.ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			log.Error("invalid period", slog.String("error", err.Error()))
			writeError(w, r, http.StatusBadRequest, "period must be A, D, W or M")
			return
		}

		coils, ok := filteredCoils(w, r, log, src, loc)
		if !ok {
			return
		}

		render.JSON(w, r, ResponseTrend{
			Period: string(period),
			Points: report.Trend(coils, period),
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
