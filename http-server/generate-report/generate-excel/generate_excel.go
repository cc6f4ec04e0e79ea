package generate_excel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"pltcm-dashboard/internal/service"
	genexcel "pltcm-dashboard/internal/service/generate-excel"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, filter genexcel.ReportFilter) ([]byte, error)
}

func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler, loc *time.Location, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.GenerateReportExcel"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		filter := genexcel.ReportFilter{
			Start: r.URL.Query().Get("start_date"),
			End:   r.URL.Query().Get("end_date"),
			Loc:   loc,
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, filter)
		if err != nil {
			if errors.Is(err, service.ErrNotLoaded) {
				http.Error(w, "Data not loaded", http.StatusServiceUnavailable)
				return
			}
			if errors.Is(err, genexcel.ErrBadFilter) {
				http.Error(w, "invalid date range", http.StatusBadRequest)
				return
			}
			if errors.Is(err, context.DeadlineExceeded) {
				log.Error("excel generation timed out", slog.Duration("timeout", timeout))
				http.Error(w, "Report timed out", http.StatusGatewayTimeout)
				return
			}
			log.Error("failed to generate excel", slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("PLTCM_Report_%s.xlsx", time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
