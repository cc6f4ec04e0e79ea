package get

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"pltcm-dashboard/internal/report"
	"pltcm-dashboard/internal/service"
	"pltcm-dashboard/internal/storage"
)

type StopTimeSource interface {
	StopTimes() ([]storage.StopTime, error)
}

type ResponseIndicators struct {
	report.PlantTotals
	Status string `json:"status"`
}

type ResponseDaily struct {
	Days   []report.GroupStats[string] `json:"days"`
	Status string                      `json:"status"`
}

type ResponseEvents struct {
	Events []storage.StopTime `json:"events"`
	Status string             `json:"status"`
}

type ResponseError struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// filteredStops applies the inclusive day slice of start_date..end_date.
func filteredStops(w http.ResponseWriter, r *http.Request, log *slog.Logger, src StopTimeSource) ([]storage.StopTime, bool) {
	q := r.URL.Query()
	from, to := q.Get("start_date"), q.Get("end_date")
	for _, v := range []string{from, to} {
		if v == "" {
			continue
		}
		if _, err := report.ParseDay(v, nil); err != nil {
			log.Error("invalid date", slog.String("error", err.Error()))
			writeError(w, r, http.StatusBadRequest, "invalid date range")
			return nil, false
		}
	}

	stops, err := src.StopTimes()
	if err != nil {
		if errors.Is(err, service.ErrNotLoaded) {
			log.Warn("stop times requested before snapshot load")
			writeError(w, r, http.StatusServiceUnavailable, "stop time data not loaded")
			return nil, false
		}
		log.Error("failed to read stop times", slog.String("error", err.Error()))
		writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}

	return report.FilterStopDays(stops, from, to), true
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ResponseError{Status: strconv.Itoa(status), Error: msg})
}

func GetIndicators(log *slog.Logger, src StopTimeSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.stoptime.GetIndicators"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		stops, ok := filteredStops(w, r, log, src)
		if !ok {
			return
		}

		render.JSON(w, r, ResponseIndicators{
			PlantTotals: report.StopPlantTotals(stops),
			Status:      strconv.Itoa(http.StatusOK),
		})
	}
}

func GetDailyTable(log *slog.Logger, src StopTimeSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.stoptime.GetDailyTable"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		stops, ok := filteredStops(w, r, log, src)
		if !ok {
			return
		}

		render.JSON(w, r, ResponseDaily{
			Days:   report.DailyDelay(stops),
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}

// GetEvents returns the raw stop events, optionally for a single plant.
func GetEvents(log *slog.Logger, src StopTimeSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.stoptime.GetEvents"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		plant := 0
		if v := r.URL.Query().Get("plant"); v != "" {
			p, err := strconv.Atoi(v)
			if err != nil {
				log.Error("invalid plant", slog.String("plant", v))
				writeError(w, r, http.StatusBadRequest, "invalid plant")
				return
			}
			plant = p
		}

		stops, ok := filteredStops(w, r, log, src)
		if !ok {
			return
		}

		if plant != 0 {
			kept := stops[:0]
			for _, s := range stops {
				if s.Plant == plant {
					kept = append(kept, s)
				}
			}
			stops = kept
		}

		render.JSON(w, r, ResponseEvents{
			Events: stops,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
