package health

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"

	httputil "tourdesk/pkg/http"
	"tourdesk/pkg/logger"
)

type Response struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

type Handler struct {
	mongoClient *mongo.Client
	log         *logger.Logger
}

func NewHandler(mongoClient *mongo.Client, log *logger.Logger) *Handler {
	return &Handler{
		mongoClient: mongoClient,
		log:         log,
	}
}

// Health reports process liveness only.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, Response{Status: "ok"}); err != nil {
		h.log.Error("failed to write health response", "error", err)
	}
}

// Ready additionally pings the database; load balancers should gate traffic
// on this endpoint.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.mongoClient == nil {
		writeUnready(w, h.log, "not configured")
		return
	}

	if err := h.mongoClient.Ping(ctx, nil); err != nil {
		h.log.Warn("Readiness check failed", "error", err)
		writeUnready(w, h.log, "unreachable")
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, Response{Status: "ok", Database: "ok"}); err != nil {
		h.log.Error("failed to write readiness response", "error", err)
	}
}

func writeUnready(w http.ResponseWriter, log *logger.Logger, dbStatus string) {
	if err := httputil.WriteJSON(w, http.StatusServiceUnavailable, Response{
		Status:   "unavailable",
		Database: dbStatus,
	}); err != nil {
		log.Error("failed to write readiness response", "error", err)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
