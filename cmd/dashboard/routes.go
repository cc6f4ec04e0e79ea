package main

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"pltcm-dashboard/http-server/admin/reload"
	getcharts "pltcm-dashboard/http-server/charts/get"
	"pltcm-dashboard/http-server/dashboard"
	generate_excel "pltcm-dashboard/http-server/generate-report/generate-excel"
	getproduction "pltcm-dashboard/http-server/production/get"
	getstoptime "pltcm-dashboard/http-server/stoptime/get"
	"pltcm-dashboard/internal/config"
	"pltcm-dashboard/internal/middleware/auth"
	"pltcm-dashboard/internal/service"
	genexcel "pltcm-dashboard/internal/service/generate-excel"
)

func routes(cfg config.Config, log *slog.Logger, loc *time.Location, snapshot *service.SnapshotService, excel *genexcel.GenerateExcelService) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/", dashboard.Page(log, snapshot, loc))

	router.Route("/api", func(r chi.Router) {
		r.Get("/production/indicators", getproduction.GetIndicators(log, snapshot, loc))
		r.Get("/production/table", getproduction.GetTable(log, snapshot, loc))
		r.Get("/production/stats", getproduction.GetStats(log, snapshot, loc))
		r.Get("/production/trend", getproduction.GetTrend(log, snapshot, loc))

		r.Get("/stoptime/indicators", getstoptime.GetIndicators(log, snapshot))
		r.Get("/stoptime/table", getstoptime.GetDailyTable(log, snapshot))
		r.Get("/stoptime/events", getstoptime.GetEvents(log, snapshot))

		r.Get("/charts/{name}", getcharts.GetChart(log, snapshot, loc))

		r.Get("/report/excel", generate_excel.GenerateReportExcel(log, excel, loc, cfg.QueryTimeout))

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.BasicAuth("PLTCM Admin", cfg.AdminLogin, cfg.AdminPass))
			r.Post("/reload", reload.ReloadSnapshot(log, snapshot, cfg.QueryTimeout))
		})
	})

	return router
}
