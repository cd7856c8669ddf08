package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/kraftwerte/internal/client"
	"github.com/2beens/kraftwerte/internal/format"
	"github.com/2beens/kraftwerte/internal/model"
	"github.com/2beens/kraftwerte/internal/notify"
	"github.com/2beens/kraftwerte/internal/session"
)

//go:generate mockgen -source=$GOFILE -destination=workflow_mocks_test.go -package=workflow_test

type exercisesAPI interface {
	GetExercise(ctx context.Context, id int) (*model.Exercise, error)
	CreateExercise(ctx context.Context, req model.CreateExercise) (*model.Exercise, error)
	AddWeightEntry(ctx context.Context, exerciseID int, weight float64) (*model.WeightEntry, error)
	DeleteExercise(ctx context.Context, id int) error
}

const (
	TitleCreate = "Add new exercise"

	MsgInvalidInitialWeight = "Please enter a valid initial weight."
	MsgMissingNames         = "Please enter muscle group and exercise."
	MsgNoTarget             = "Select an exercise first (use \"add weight\" in the list)."
	MsgInvalidWeight        = "Please enter a valid weight to add."
	MsgCreated              = "New exercise added successfully!"
	MsgWeightAdded          = "New weight entry added successfully!"
	MsgDeleted              = "Exercise deleted successfully!"
	MsgLoadExerciseFailed   = "Failed to load exercise."
	MsgServerUnreachable    = "server unreachable"

	DefaultWeightPlaceholder = "Weight (kg)"
)

var ErrExerciseMissing = errors.New("exercise missing in response")

type Mode int

const (
	ModeCreate Mode = iota
	ModeAddWeight
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeAddWeight:
		return "add-weight"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

type Field int

const (
	FieldMuscleGroup Field = iota
	FieldExercise
	FieldWeight
)

// ValidationError is raised before any request is sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FormView is everything a surface needs to draw the form.
type FormView struct {
	Mode              Mode
	Title             string
	MuscleGroup       string
	Exercise          string
	Weight            string
	WeightPlaceholder string
	NamesReadOnly     bool
	ShowSubmit        bool
	ShowAddWeight     bool
	ShowCancel        bool
}

type RefreshFunc func(ctx context.Context)

type ConfirmFunc func(ctx context.Context, prompt string) bool

type Params struct {
	API       exercisesAPI
	Notifier  notify.Sink
	Session   *session.State
	Formatter *format.Formatter
	Refresh   RefreshFunc
	Confirm   ConfirmFunc
	// OnChange is called with the new view after every form change.
	OnChange func(FormView)
}

// Workflow drives the exercise form: creating exercises, adding weight
// entries to the targeted exercise, and deleting exercises.
type Workflow struct {
	api       exercisesAPI
	notifier  notify.Sink
	session   *session.State
	formatter *format.Formatter
	refresh   RefreshFunc
	confirm   ConfirmFunc
	onChange  func(FormView)

	mu                sync.Mutex
	mode              Mode
	title             string
	muscleGroup       string
	exercise          string
	weight            string
	weightPlaceholder string
}

func New(params Params) *Workflow {
	w := &Workflow{
		api:       params.API,
		notifier:  params.Notifier,
		session:   params.Session,
		formatter: params.Formatter,
		refresh:   params.Refresh,
		confirm:   params.Confirm,
		onChange:  params.OnChange,
	}
	if w.refresh == nil {
		w.refresh = func(context.Context) {}
	}
	if w.confirm == nil {
		w.confirm = func(context.Context, string) bool { return false }
	}
	w.resetLocked()
	return w
}

func (w *Workflow) View() FormView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewLocked()
}

func (w *Workflow) viewLocked() FormView {
	addWeight := w.mode == ModeAddWeight
	return FormView{
		Mode:              w.mode,
		Title:             w.title,
		MuscleGroup:       w.muscleGroup,
		Exercise:          w.exercise,
		Weight:            w.weight,
		WeightPlaceholder: w.weightPlaceholder,
		NamesReadOnly:     addWeight,
		ShowSubmit:        !addWeight,
		ShowAddWeight:     addWeight,
		ShowCancel:        addWeight,
	}
}

func (w *Workflow) changed() {
	if w.onChange == nil {
		return
	}
	w.onChange(w.View())
}

// SetField stores user input. Name fields are read-only while adding weight.
func (w *Workflow) SetField(field Field, value string) {
	w.mu.Lock()
	switch field {
	case FieldMuscleGroup:
		if w.mode == ModeCreate {
			w.muscleGroup = value
		}
	case FieldExercise:
		if w.mode == ModeCreate {
			w.exercise = value
		}
	case FieldWeight:
		w.weight = value
	}
	w.mu.Unlock()
}

// ResetForm clears all inputs, returns to create mode and drops the target.
func (w *Workflow) ResetForm() {
	w.mu.Lock()
	w.resetLocked()
	w.mu.Unlock()
	w.session.ClearTarget()
	w.changed()
}

func (w *Workflow) resetLocked() {
	w.mode = ModeCreate
	w.title = TitleCreate
	w.muscleGroup = ""
	w.exercise = ""
	w.weight = ""
	w.weightPlaceholder = DefaultWeightPlaceholder
}

// Cancel leaves add-weight mode.
func (w *Workflow) Cancel() {
	w.ResetForm()
}

// EnterAddWeightMode loads the exercise and targets it with the form.
// On failure the form stays as it was.
func (w *Workflow) EnterAddWeightMode(ctx context.Context, id int) error {
	exercise, err := w.api.GetExercise(ctx, id)
	if err == nil && exercise == nil {
		err = ErrExerciseMissing
	}
	if err != nil {
		log.Errorf("enter add weight mode, get exercise %d: %s", id, err)
		w.notifier.Show(MsgLoadExerciseFailed, notify.KindError)
		return fmt.Errorf("get exercise %d: %w", id, err)
	}

	placeholder := DefaultWeightPlaceholder
	if latest, ok := exercise.Latest(); ok {
		placeholder = w.formatter.FormatWeight(latest.Weight)
	}

	w.mu.Lock()
	w.mode = ModeAddWeight
	w.title = fmt.Sprintf("Add weight for: %s - %s", exercise.MuscleGroup, exercise.Exercise)
	w.muscleGroup = exercise.MuscleGroup
	w.exercise = exercise.Exercise
	w.weight = ""
	w.weightPlaceholder = placeholder
	w.mu.Unlock()

	w.session.SetTarget(id)
	w.changed()
	return nil
}

// Submit runs the submit action of the current mode with the current inputs.
func (w *Workflow) Submit(ctx context.Context) error {
	view := w.View()
	if view.Mode == ModeAddWeight {
		return w.SubmitAddWeight(ctx, view.Weight)
	}
	return w.SubmitCreate(ctx, view.MuscleGroup, view.Exercise, view.Weight)
}

func (w *Workflow) SubmitCreate(ctx context.Context, muscleGroup, exerciseName, initialWeight string) error {
	weight, err := w.formatter.ParseWeight(initialWeight)
	if err != nil {
		return w.invalid(MsgInvalidInitialWeight)
	}

	muscleGroup = strings.TrimSpace(muscleGroup)
	exerciseName = strings.TrimSpace(exerciseName)
	if muscleGroup == "" || exerciseName == "" {
		return w.invalid(MsgMissingNames)
	}

	created, err := w.api.CreateExercise(ctx, model.CreateExercise{
		MuscleGroup:   muscleGroup,
		Exercise:      exerciseName,
		InitialWeight: weight,
	})
	if err != nil {
		log.Errorf("create exercise [%s] [%s]: %s", muscleGroup, exerciseName, err)
		w.notifyError(err)
		return err
	}

	if created != nil {
		log.Debugf("exercise created: %d", created.ID)
	}

	w.notifier.Show(MsgCreated, notify.KindSuccess)
	w.ResetForm()
	w.refresh(ctx)
	return nil
}

func (w *Workflow) SubmitAddWeight(ctx context.Context, weightInput string) error {
	target, ok := w.session.Target()
	if !ok {
		return w.invalid(MsgNoTarget)
	}

	weight, err := w.formatter.ParseWeight(weightInput)
	if err != nil {
		return w.invalid(MsgInvalidWeight)
	}

	if _, err := w.api.AddWeightEntry(ctx, target, weight); err != nil {
		log.Errorf("add weight %v to exercise %d: %s", weight, target, err)
		w.notifyError(err)
		return err
	}

	w.notifier.Show(MsgWeightAdded, notify.KindSuccess)

	w.mu.Lock()
	w.weight = ""
	w.mu.Unlock()
	w.changed()

	w.refresh(ctx)
	return nil
}

// DeleteExercise asks for confirmation and deletes the exercise. A declined
// confirmation is not an error.
func (w *Workflow) DeleteExercise(ctx context.Context, id int) error {
	prompt := fmt.Sprintf("Really delete exercise with ID %d and all of its weight data?", id)
	if !w.confirm(ctx, prompt) {
		log.Tracef("delete exercise %d declined", id)
		return nil
	}

	if err := w.api.DeleteExercise(ctx, id); err != nil {
		log.Errorf("delete exercise %d: %s", id, err)
		w.notifyError(err)
		return err
	}

	w.notifier.Show(MsgDeleted, notify.KindSuccess)
	w.refresh(ctx)

	if w.session.IsTarget(id) {
		w.ResetForm()
	}
	return nil
}

func (w *Workflow) invalid(message string) error {
	w.notifier.Show(message, notify.KindError)
	return &ValidationError{Message: message}
}

func (w *Workflow) notifyError(err error) {
	w.notifier.Show("Error: "+ErrorText(err), notify.KindError)
}

// ErrorText turns a client error into the text shown to the user.
func ErrorText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var transportErr *client.TransportError
	if errors.As(err, &transportErr) {
		return MsgServerUnreachable
	}
	return err.Error()
}
