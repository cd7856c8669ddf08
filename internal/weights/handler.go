package weights

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/kraftwerte/internal/middleware"
	"github.com/2beens/kraftwerte/internal/model"
	"github.com/2beens/kraftwerte/internal/telemetry/metrics"
	"github.com/2beens/kraftwerte/internal/telemetry/tracing"
	"github.com/2beens/kraftwerte/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=weights_mocks_test.go -package=weights_test

const (
	DetailNotFound       = "Exercise not found"
	detailInvalidID      = "invalid exercise id"
	detailInvalidBody    = "invalid request body"
	detailBlankName      = "muscle_group and exercise must not be blank"
	detailInvalidWeight  = "weight must be a positive number"
	detailInternal       = "internal error"
	detailInvalidContent = "invalid content type"
)

type weightsRepo interface {
	List(ctx context.Context) ([]model.Exercise, error)
	Get(ctx context.Context, id int) (*model.Exercise, error)
	Create(ctx context.Context, req model.CreateExercise) (*model.Exercise, error)
	Update(ctx context.Context, id int, req model.UpdateExercise) (*model.Exercise, error)
	Delete(ctx context.Context, id int) error
	AddWeightEntry(ctx context.Context, exerciseID int, weight float64) (*model.WeightEntry, error)
	WeightHistory(ctx context.Context, exerciseID int) ([]model.WeightEntry, error)
}

type Handler struct {
	repo           weightsRepo
	listCache      *ListCache
	metricsManager *metrics.Manager
}

// NewHandler creates the /weights handler. listCache may be nil.
func NewHandler(repo weightsRepo, listCache *ListCache, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		listCache:      listCache,
		metricsManager: metricsManager,
	}
}

// SetupRoutes mounts the exercise routes under /weights. Mutations are rate
// limited when rateLimiter is not nil.
func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	weightsRouter := mainRouter.PathPrefix("/weights").Subrouter()
	weightsRouter.HandleFunc("/", handler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	weightsRouter.HandleFunc("", handler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises-noslash")
	weightsRouter.HandleFunc("/", handler.HandleCreate).Methods("POST", "OPTIONS").Name("new-exercise")
	weightsRouter.HandleFunc("", handler.HandleCreate).Methods("POST", "OPTIONS").Name("new-exercise-noslash")
	weightsRouter.HandleFunc("/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-exercise")
	weightsRouter.HandleFunc("/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-exercise")
	weightsRouter.HandleFunc("/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-exercise")
	weightsRouter.HandleFunc("/{id}/weighthistory", handler.HandleWeightHistory).Methods("GET", "OPTIONS").Name("weight-history")
	weightsRouter.HandleFunc("/{id}/weighthistory", handler.HandleAddWeight).Methods("POST", "OPTIONS").Name("add-weight")

	if rateLimiter != nil {
		weightsRouter.Use(middleware.RateLimit(rateLimiter, handler.metricsManager, "weights", allowedPerMin))
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weights.list")
	defer span.End()

	if handler.listCache != nil {
		if listBytes, ok := handler.listCache.Get(); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listBytes, http.StatusOK)
			return
		}
	}

	exercises, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("failed to list exercises: %s", err)
		pkg.WriteJSONError(w, detailInternal, http.StatusInternalServerError)
		return
	}

	listBytes, err := json.Marshal(exercises)
	if err != nil {
		log.Errorf("failed to marshal exercises: %s", err)
		pkg.WriteJSONError(w, detailInternal, http.StatusInternalServerError)
		return
	}

	if handler.listCache != nil {
		handler.listCache.Set(listBytes)
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listBytes, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weights.get")
	defer span.End()

	id, ok := exerciseID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("exercise.id", id))

	ex, err := handler.repo.Get(ctx, id)
	if err != nil {
		handler.writeRepoError(w, "get exercise", id, err)
		return
	}
	pkg.WriteJSON(w, ex, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weights.create")
	defer span.End()

	var req model.CreateExercise
	if !decodeBody(w, r, &req) {
		return
	}

	req.MuscleGroup = strings.TrimSpace(req.MuscleGroup)
	req.Exercise = strings.TrimSpace(req.Exercise)
	if req.MuscleGroup == "" || req.Exercise == "" {
		pkg.WriteJSONError(w, detailBlankName, http.StatusUnprocessableEntity)
		return
	}
	if !validWeight(req.InitialWeight) {
		pkg.WriteJSONError(w, detailInvalidWeight, http.StatusUnprocessableEntity)
		return
	}

	ex, err := handler.repo.Create(ctx, req)
	if err != nil {
		log.Errorf("failed to create exercise [%s] [%s]: %s", req.MuscleGroup, req.Exercise, err)
		pkg.WriteJSONError(w, detailInternal, http.StatusInternalServerError)
		return
	}
	handler.invalidateList()

	if handler.metricsManager != nil {
		handler.metricsManager.CounterExercisesCreated.Inc()
	}
	span.SetAttributes(attribute.Int("exercise.id", ex.ID))
	log.Debugf("new exercise added: %d [%s] [%s]", ex.ID, ex.MuscleGroup, ex.Exercise)

	pkg.WriteJSON(w, ex, http.StatusCreated)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weights.update")
	defer span.End()

	id, ok := exerciseID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("exercise.id", id))

	var req model.UpdateExercise
	if !decodeBody(w, r, &req) {
		return
	}
	req.MuscleGroup = strings.TrimSpace(req.MuscleGroup)
	req.Exercise = strings.TrimSpace(req.Exercise)
	if req.MuscleGroup == "" || req.Exercise == "" {
		pkg.WriteJSONError(w, detailBlankName, http.StatusUnprocessableEntity)
		return
	}

	ex, err := handler.repo.Update(ctx, id, req)
	if err != nil {
		handler.writeRepoError(w, "update exercise", id, err)
		return
	}
	handler.invalidateList()

	pkg.WriteJSON(w, ex, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weights.delete")
	defer span.End()

	id, ok := exerciseID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("exercise.id", id))

	if err := handler.repo.Delete(ctx, id); err != nil {
		handler.writeRepoError(w, "delete exercise", id, err)
		return
	}
	handler.invalidateList()

	if handler.metricsManager != nil {
		handler.metricsManager.CounterExercisesDeleted.Inc()
	}
	log.Debugf("exercise %d deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) HandleAddWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weights.addWeight")
	defer span.End()

	id, ok := exerciseID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("exercise.id", id))

	var req model.NewWeightEntry
	if !decodeBody(w, r, &req) {
		return
	}
	if !validWeight(req.Weight) {
		pkg.WriteJSONError(w, detailInvalidWeight, http.StatusUnprocessableEntity)
		return
	}

	entry, err := handler.repo.AddWeightEntry(ctx, id, req.Weight)
	if err != nil {
		handler.writeRepoError(w, "add weight entry", id, err)
		return
	}
	handler.invalidateList()

	if handler.metricsManager != nil {
		handler.metricsManager.CounterWeightEntriesAdded.Inc()
	}
	pkg.WriteJSON(w, entry, http.StatusCreated)
}

func (handler *Handler) HandleWeightHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.weights.history")
	defer span.End()

	id, ok := exerciseID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("exercise.id", id))

	entries, err := handler.repo.WeightHistory(ctx, id)
	if err != nil {
		handler.writeRepoError(w, "get weight history", id, err)
		return
	}
	pkg.WriteJSON(w, entries, http.StatusOK)
}

func (handler *Handler) invalidateList() {
	if handler.listCache != nil {
		handler.listCache.Invalidate()
	}
}

func (handler *Handler) writeRepoError(w http.ResponseWriter, op string, id int, err error) {
	if errors.Is(err, ErrExerciseNotFound) {
		pkg.WriteJSONError(w, DetailNotFound, http.StatusNotFound)
		return
	}
	log.Errorf("failed to %s %d: %s", op, id, err)
	pkg.WriteJSONError(w, detailInternal, http.StatusInternalServerError)
}

func exerciseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		pkg.WriteJSONError(w, detailInvalidID, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		pkg.WriteJSONError(w, detailInvalidContent, http.StatusBadRequest)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Tracef("decode %s %s body: %s", r.Method, r.URL.Path, err)
		pkg.WriteJSONError(w, detailInvalidBody, http.StatusBadRequest)
		return false
	}
	return true
}

func validWeight(weight float64) bool {
	return weight > 0 && !math.IsInf(weight, 0) && !math.IsNaN(weight)
}
