package dashboard

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"pltcm-dashboard/internal/report"
	"pltcm-dashboard/internal/service"
	"pltcm-dashboard/internal/storage"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"ts": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("02.01.06 15:04")
	},
}).ParseFS(templatesFS, "templates/index.html"))

type DashboardSource interface {
	Production() ([]storage.Coil, error)
	StopTimes() ([]storage.StopTime, error)
	LoadedAt() time.Time
}

const (
	TabProduction = "production"
	TabStopTime   = "stoptime"
)

type pageData struct {
	Tab       string
	Start     string
	End       string
	Period    string
	Min       string
	Max       string
	Query     template.URL
	LoadedAt  time.Time
	Error     string
	Indicator report.Indicators
	Coils     []storage.Coil
	Plants    report.PlantTotals
	Days      []report.GroupStats[string]
	Trend     []report.TrendPoint
}

// Page renders the two dashboard tabs. The date form submits back to the same
// URL; charts are images served by the chart endpoints with the same query.
func Page(log *slog.Logger, src DashboardSource, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.dashboard.Page"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		q := r.URL.Query()
		data := pageData{
			Tab:      q.Get("tab"),
			Start:    q.Get("start_date"),
			End:      q.Get("end_date"),
			Period:   q.Get("period"),
			Min:      q.Get("min"),
			Max:      q.Get("max"),
			LoadedAt: src.LoadedAt(),
		}
		if data.Tab != TabStopTime {
			data.Tab = TabProduction
		}

		chartQuery := url.Values{}
		for _, k := range []string{"start_date", "end_date", "period", "min", "max"} {
			if v := q.Get(k); v != "" {
				chartQuery.Set(k, v)
			}
		}
		data.Query = template.URL(chartQuery.Encode())

		status := http.StatusOK
		if err := fill(&data, src, loc); err != nil {
			switch {
			case errors.Is(err, service.ErrNotLoaded):
				status = http.StatusServiceUnavailable
				data.Error = "Data has not been loaded from the database yet."
			case errors.Is(err, errBadInput):
				status = http.StatusBadRequest
				data.Error = err.Error()
			default:
				log.Error("failed to build dashboard", slog.String("error", err.Error()))
				status = http.StatusInternalServerError
				data.Error = "Internal server error"
			}
		}

		var buf bytes.Buffer
		if err := pageTmpl.Execute(&buf, data); err != nil {
			log.Error("failed to render dashboard", slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		w.Write(buf.Bytes())
	}
}

var errBadInput = errors.New("invalid input")

func fill(data *pageData, src DashboardSource, loc *time.Location) error {
	if data.Tab == TabStopTime {
		for _, v := range []string{data.Start, data.End} {
			if v == "" {
				continue
			}
			if _, err := report.ParseDay(v, nil); err != nil {
				return errors.Join(errBadInput, err)
			}
		}
		stops, err := src.StopTimes()
		if err != nil {
			return err
		}
		stops = report.FilterStopDays(stops, data.Start, data.End)
		data.Plants = report.StopPlantTotals(stops)
		data.Days = report.DailyDelay(stops)
		return nil
	}

	rng, err := report.ParseRange(data.Start, data.End, loc)
	if err != nil {
		return errors.Join(errBadInput, err)
	}
	period, err := report.ParsePeriod(data.Period)
	if err != nil {
		return errors.Join(errBadInput, err)
	}
	if _, _, err := report.ParseBand(data.Min, data.Max); err != nil {
		return errors.Join(errBadInput, err)
	}

	coils, err := src.Production()
	if err != nil {
		return err
	}
	coils = report.FilterCoils(coils, rng)
	data.Indicator = report.ProductionIndicators(coils)
	data.Coils = coils
	data.Trend = report.Trend(coils, period)
	return nil
}
