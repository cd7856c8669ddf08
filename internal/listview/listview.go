package listview

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/2beens/kraftwerte/internal/format"
	"github.com/2beens/kraftwerte/internal/model"
)

const (
	PlaceholderNoWeight  = "N/A"
	PlaceholderNoDate    = "not yet recorded"
	PlaceholderNoEntries = "No exercises yet."
)

type Action int

const (
	ActionAddWeight Action = iota
	ActionDelete
	ActionHistory
)

func (a Action) String() string {
	switch a {
	case ActionAddWeight:
		return "add-weight"
	case ActionDelete:
		return "delete"
	case ActionHistory:
		return "history"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Actions are the operations a row can trigger.
type Actions interface {
	EnterAddWeightMode(ctx context.Context, id int) error
	DeleteExercise(ctx context.Context, id int) error
	ShowHistory(ctx context.Context, id int, muscleGroup, exerciseName string) error
}

type Row struct {
	ID            int
	MuscleGroup   string
	Exercise      string
	CurrentWeight string
	LastUpdated   string
}

// Trigger dispatches action for this row.
func (r Row) Trigger(ctx context.Context, actions Actions, action Action) error {
	switch action {
	case ActionAddWeight:
		return actions.EnterAddWeightMode(ctx, r.ID)
	case ActionDelete:
		return actions.DeleteExercise(ctx, r.ID)
	case ActionHistory:
		return actions.ShowHistory(ctx, r.ID, r.MuscleGroup, r.Exercise)
	default:
		return fmt.Errorf("unknown row action: %s", action)
	}
}

type View struct {
	Rows []Row
	// Placeholder is set when there is nothing to list.
	Placeholder string
}

func (v View) Empty() bool {
	return len(v.Rows) == 0
}

type Renderer struct {
	formatter *format.Formatter
	tag       language.Tag
}

func New(formatter *format.Formatter, tag language.Tag) *Renderer {
	return &Renderer{
		formatter: formatter,
		tag:       tag,
	}
}

// Render builds the rows for exercises, ordered by muscle group then name.
// Ties keep their input order. The input slice is not modified.
func (r *Renderer) Render(exercises []model.Exercise) View {
	if len(exercises) == 0 {
		return View{Placeholder: PlaceholderNoEntries}
	}

	sorted := make([]model.Exercise, len(exercises))
	copy(sorted, exercises)

	// a collator keeps internal buffers, one per render
	coll := collate.New(r.tag)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := coll.CompareString(sorted[i].MuscleGroup, sorted[j].MuscleGroup); c != 0 {
			return c < 0
		}
		return coll.CompareString(sorted[i].Exercise, sorted[j].Exercise) < 0
	})

	rows := make([]Row, 0, len(sorted))
	for _, ex := range sorted {
		row := Row{
			ID:            ex.ID,
			MuscleGroup:   ex.MuscleGroup,
			Exercise:      ex.Exercise,
			CurrentWeight: PlaceholderNoWeight,
			LastUpdated:   PlaceholderNoDate,
		}
		if latest, ok := ex.Latest(); ok {
			row.CurrentWeight = r.formatter.FormatWeight(latest.Weight)
			row.LastUpdated = r.formatter.FormatDateTime(latest.CreatedAt.Time)
		}
		rows = append(rows, row)
	}

	return View{Rows: rows}
}
