package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/kraftwerte/internal/telemetry/tracing"
	"github.com/2beens/kraftwerte/pkg"
)

const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
	StatusDisabled    = "disabled"

	pingTimeout = 2 * time.Second
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

type Response struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
	Version  string `json:"version,omitempty"`
}

type Handler struct {
	db          dbPinger
	redisClient *redis.Client
	version     string
}

// NewHandler creates the health handler. A nil redisClient is reported as
// disabled and does not fail the check.
func NewHandler(db dbPinger, redisClient *redis.Client, version string) *Handler {
	return &Handler{
		db:          db,
		redisClient: redisClient,
		version:     version,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/health", handler.HandleHealth).Methods("GET", "OPTIONS").Name("health")
}

func (handler *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	resp := Response{
		Status:   StatusOK,
		Postgres: StatusOK,
		Redis:    StatusDisabled,
		Version:  handler.version,
	}

	if err := handler.db.Ping(ctx); err != nil {
		log.Errorf("health: postgres ping: %s", err)
		resp.Postgres = StatusUnavailable
		resp.Status = StatusUnavailable
	}

	if handler.redisClient != nil {
		resp.Redis = StatusOK
		if err := handler.redisClient.Ping(ctx).Err(); err != nil {
			log.Errorf("health: redis ping: %s", err)
			resp.Redis = StatusUnavailable
			resp.Status = StatusUnavailable
		}
	}

	status := http.StatusOK
	if resp.Status != StatusOK {
		status = http.StatusServiceUnavailable
	}
	pkg.WriteJSON(w, resp, status)
}
