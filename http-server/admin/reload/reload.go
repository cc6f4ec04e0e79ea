package reload

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type SnapshotLoader interface {
	Load(ctx context.Context) error
	LoadedAt() time.Time
}

type Response struct {
	LoadedAt time.Time `json:"loaded_at"`
	Status   string    `json:"status"`
	Error    string    `json:"error,omitempty"`
}

// ReloadSnapshot refetches both datasets from the database.
func ReloadSnapshot(log *slog.Logger, loader SnapshotLoader, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.admin.ReloadSnapshot"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := loader.Load(ctx); err != nil {
			log.Error("snapshot reload failed", slog.String("error", err.Error()))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, Response{
				LoadedAt: loader.LoadedAt(),
				Status:   strconv.Itoa(http.StatusBadGateway),
				Error:    "database query failed, previous data kept",
			})
			return
		}

		log.Info("snapshot reloaded")

		render.JSON(w, r, Response{
			LoadedAt: loader.LoadedAt(),
			Status:   strconv.Itoa(http.StatusOK),
		})
	}
}
