package weights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/kraftwerte/internal/model"
	"github.com/2beens/kraftwerte/internal/telemetry/tracing"
	"github.com/2beens/kraftwerte/pkg"
)

var ErrExerciseNotFound = errors.New("exercise not found")

const schema = `
CREATE TABLE IF NOT EXISTS exercise (
	id           SERIAL PRIMARY KEY,
	muscle_group TEXT NOT NULL,
	exercise     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS weight_entry (
	id          SERIAL PRIMARY KEY,
	exercise_id INTEGER NOT NULL REFERENCES exercise (id) ON DELETE CASCADE,
	weight      DOUBLE PRECISION NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS weight_entry_exercise_created_idx ON weight_entry (exercise_id, created_at DESC);
`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// EnsureSchema creates the exercise and weight_entry tables if missing.
func (r *Repo) EnsureSchema(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weights.ensureSchema")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// List returns all exercises ordered by id, each with its history most-recent-first.
func (r *Repo) List(ctx context.Context) (_ []model.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weights.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT id, muscle_group, exercise FROM exercise ORDER BY id;`)
	if err != nil {
		return nil, err
	}

	var exercises []model.Exercise
	indexByID := map[int]int{}
	for rows.Next() {
		var ex model.Exercise
		if err := rows.Scan(&ex.ID, &ex.MuscleGroup, &ex.Exercise); err != nil {
			rows.Close()
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		ex.WeightHistory = []model.WeightEntry{}
		indexByID[ex.ID] = len(exercises)
		exercises = append(exercises, ex)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entryRows, err := r.db.Query(
		ctx,
		`SELECT id, exercise_id, weight, created_at, updated_at
			FROM weight_entry
			ORDER BY exercise_id, created_at DESC, id DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer entryRows.Close()

	for entryRows.Next() {
		entry, err := scanEntry(entryRows)
		if err != nil {
			return nil, err
		}
		idx, ok := indexByID[entry.ExerciseID]
		if !ok {
			// inserted after the exercise query ran
			continue
		}
		exercises[idx].WeightHistory = append(exercises[idx].WeightHistory, entry)
	}
	if err := entryRows.Err(); err != nil {
		return nil, err
	}

	for i := range exercises {
		setCurrentWeight(&exercises[i])
	}

	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))
	if exercises == nil {
		exercises = []model.Exercise{}
	}
	return exercises, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *model.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weights.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	ex := model.Exercise{ID: id}
	err = r.db.QueryRow(
		ctx,
		`SELECT muscle_group, exercise FROM exercise WHERE id = $1;`,
		id,
	).Scan(&ex.MuscleGroup, &ex.Exercise)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}

	history, err := r.history(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	ex.WeightHistory = history
	setCurrentWeight(&ex)

	return &ex, nil
}

// Create stores the exercise and its initial weight entry in one transaction.
func (r *Repo) Create(ctx context.Context, req model.CreateExercise) (_ *model.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weights.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	ex := model.Exercise{
		MuscleGroup: req.MuscleGroup,
		Exercise:    req.Exercise,
	}
	if err := tx.QueryRow(
		ctx,
		`INSERT INTO exercise (muscle_group, exercise) VALUES ($1, $2) RETURNING id;`,
		req.MuscleGroup, req.Exercise,
	).Scan(&ex.ID); err != nil {
		return nil, fmt.Errorf("insert exercise: %w", err)
	}

	entry, err := insertEntry(ctx, tx, ex.ID, req.InitialWeight)
	if err != nil {
		return nil, fmt.Errorf("insert initial weight: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	span.SetAttributes(attribute.Int("exercise.id", ex.ID))

	ex.WeightHistory = []model.WeightEntry{*entry}
	setCurrentWeight(&ex)
	return &ex, nil
}

func (r *Repo) Update(ctx context.Context, id int, req model.UpdateExercise) (_ *model.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weights.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE exercise SET muscle_group = $1, exercise = $2 WHERE id = $3;`,
		req.MuscleGroup, req.Exercise, id,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrExerciseNotFound
	}

	return r.Get(ctx, id)
}

// Delete removes the exercise, its weight entries go with it.
func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weights.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM exercise WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

func (r *Repo) AddWeightEntry(ctx context.Context, exerciseID int, weight float64) (_ *model.WeightEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weights.addWeightEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", exerciseID))

	entry, err := insertEntry(ctx, r.db, exerciseID, weight)
	if pkg.IsForeignKeyViolationError(err) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// WeightHistory returns the entries of one exercise, most recent first.
func (r *Repo) WeightHistory(ctx context.Context, exerciseID int) (_ []model.WeightEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weights.weightHistory")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", exerciseID))

	var exists bool
	if err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM exercise WHERE id = $1);`,
		exerciseID,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrExerciseNotFound
	}

	entries, err := r.history(ctx, r.db, exerciseID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("entries.count", len(entries)))
	return entries, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *Repo) history(ctx context.Context, q querier, exerciseID int) ([]model.WeightEntry, error) {
	rows, err := q.Query(
		ctx,
		`SELECT id, exercise_id, weight, created_at, updated_at
			FROM weight_entry
			WHERE exercise_id = $1
			ORDER BY created_at DESC, id DESC;`,
		exerciseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.WeightEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func insertEntry(ctx context.Context, q querier, exerciseID int, weight float64) (*model.WeightEntry, error) {
	entry := model.WeightEntry{
		ExerciseID: exerciseID,
		Weight:     weight,
	}
	var createdAt, updatedAt time.Time
	if err := q.QueryRow(
		ctx,
		`INSERT INTO weight_entry (exercise_id, weight)
				VALUES ($1, $2)
			RETURNING id, created_at, updated_at;`,
		exerciseID, weight,
	).Scan(&entry.ID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	entry.CreatedAt = model.NewTimestamp(createdAt.UTC())
	entry.UpdatedAt = model.NewTimestamp(updatedAt.UTC())
	return &entry, nil
}

func scanEntry(rows pgx.Rows) (model.WeightEntry, error) {
	var (
		entry                model.WeightEntry
		createdAt, updatedAt time.Time
	)
	if err := rows.Scan(&entry.ID, &entry.ExerciseID, &entry.Weight, &createdAt, &updatedAt); err != nil {
		return model.WeightEntry{}, fmt.Errorf("rows scan: %w", err)
	}
	entry.CreatedAt = model.NewTimestamp(createdAt.UTC())
	entry.UpdatedAt = model.NewTimestamp(updatedAt.UTC())
	return entry, nil
}

func setCurrentWeight(ex *model.Exercise) {
	if latest, ok := ex.Latest(); ok {
		w := latest.Weight
		ex.CurrentWeight = &w
	}
}
