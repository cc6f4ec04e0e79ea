package get

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"pltcm-dashboard/internal/chart"
	"pltcm-dashboard/internal/report"
	"pltcm-dashboard/internal/service"
	"pltcm-dashboard/internal/storage"
)

type ChartSource interface {
	Production() ([]storage.Coil, error)
	StopTimes() ([]storage.StopTime, error)
}

// Names of the charts served under /api/charts/{name}.
const (
	ChartAlloy      = "alloy"
	ChartWidth      = "width"
	ChartThickness  = "thickness"
	ChartTrend      = "trend"
	ChartDelayByDay = "delay-by-day"
)

var errUnknownChart = errors.New("unknown chart")

func GetChart(log *slog.Logger, src ChartSource, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.charts.GetChart"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		name := chi.URLParam(r, "name")
		q := r.URL.Query()

		format := chart.PNG
		if v := q.Get("format"); v != "" {
			f, err := chart.ParseFormat(v)
			if err != nil {
				http.Error(w, "format must be png or svg", http.StatusBadRequest)
				return
			}
			format = f
		}

		var buf bytes.Buffer
		err := renderChart(&buf, format, name, src, q, loc)
		switch {
		case err == nil:
		case errors.Is(err, errUnknownChart):
			http.Error(w, "Chart not found", http.StatusNotFound)
			return
		case errors.Is(err, errBadParam):
			log.Error("invalid chart parameters", slog.String("error", err.Error()))
			http.Error(w, "Invalid parameters", http.StatusBadRequest)
			return
		case errors.Is(err, chart.ErrNoData):
			w.WriteHeader(http.StatusNoContent)
			return
		case errors.Is(err, service.ErrNotLoaded):
			http.Error(w, "Data not loaded", http.StatusServiceUnavailable)
			return
		default:
			log.Error("failed to render chart", slog.String("chart", name), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Cache-Control", "no-store")
		w.Write(buf.Bytes())
	}
}

var errBadParam = errors.New("bad parameter")

func renderChart(buf *bytes.Buffer, f chart.Format, name string, src ChartSource, q url.Values, loc *time.Location) error {
	switch name {
	case ChartAlloy, ChartWidth, ChartThickness, ChartTrend:
	case ChartDelayByDay:
		return renderDelay(buf, f, src, q.Get("start_date"), q.Get("end_date"))
	default:
		return errUnknownChart
	}

	rng, err := report.ParseRange(q.Get("start_date"), q.Get("end_date"), loc)
	if err != nil {
		return errors.Join(errBadParam, err)
	}
	coils, err := src.Production()
	if err != nil {
		return err
	}
	coils = report.FilterCoils(coils, rng)

	switch name {
	case ChartAlloy:
		var slices []chart.Slice
		for _, g := range report.AlloyStats(coils) {
			slices = append(slices, chart.Slice{Label: g.Key, Value: float64(g.Count)})
		}
		return chart.Pie(buf, f, "Coils count with Alloy Code", slices)
	case ChartWidth:
		var slices []chart.Slice
		for _, g := range report.WidthStats(coils) {
			slices = append(slices, chart.Slice{Label: formatNum(g.Key), Value: float64(g.Count)})
		}
		return chart.Pie(buf, f, "Coils count with Entry width", slices)
	case ChartThickness:
		lo, hi, err := report.ParseBand(q.Get("min"), q.Get("max"))
		if err != nil {
			return errors.Join(errBadParam, err)
		}
		var slices []chart.Slice
		for _, g := range report.ThicknessBand(report.ThicknessStats(coils), lo, hi) {
			slices = append(slices, chart.Slice{Label: formatNum(g.Key), Value: float64(g.Count)})
		}
		return chart.Bar(buf, f, "Coils count with Exit Thickness", slices)
	default:
		p, err := report.ParsePeriod(q.Get("period"))
		if err != nil {
			return errors.Join(errBadParam, err)
		}
		var slices []chart.Slice
		for _, pt := range report.Trend(coils, p) {
			slices = append(slices, chart.Slice{Label: pt.Period, Value: float64(pt.Coils)})
		}
		return chart.Bar(buf, f, "Coils per period", slices)
	}
}

func renderDelay(buf *bytes.Buffer, f chart.Format, src ChartSource, start, end string) error {
	for _, v := range []string{start, end} {
		if v == "" {
			continue
		}
		if _, err := report.ParseDay(v, nil); err != nil {
			return errors.Join(errBadParam, err)
		}
	}

	stops, err := src.StopTimes()
	if err != nil {
		return err
	}

	var slices []chart.Slice
	for _, d := range report.DailyDelay(report.FilterStopDays(stops, start, end)) {
		slices = append(slices, chart.Slice{Label: d.Key, Value: d.Mean})
	}
	return chart.Bar(buf, f, "Per Day Avg Delay", slices)
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
