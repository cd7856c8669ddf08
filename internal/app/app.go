package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/kraftwerte/internal/format"
	"github.com/2beens/kraftwerte/internal/history"
	"github.com/2beens/kraftwerte/internal/listview"
	"github.com/2beens/kraftwerte/internal/model"
	"github.com/2beens/kraftwerte/internal/notify"
	"github.com/2beens/kraftwerte/internal/session"
	"github.com/2beens/kraftwerte/internal/workflow"
)

const MsgListFailed = "Failed to load exercises. Server may be unreachable."

type exercisesAPI interface {
	ListExercises(ctx context.Context) ([]model.Exercise, error)
	GetExercise(ctx context.Context, id int) (*model.Exercise, error)
	CreateExercise(ctx context.Context, req model.CreateExercise) (*model.Exercise, error)
	AddWeightEntry(ctx context.Context, exerciseID int, weight float64) (*model.WeightEntry, error)
	DeleteExercise(ctx context.Context, id int) error
	GetWeightHistory(ctx context.Context, exerciseID int) ([]model.WeightEntry, error)
}

// Surface displays the views produced by the app.
type Surface interface {
	RenderList(view listview.View)
	RenderForm(view workflow.FormView)
	RenderHistory(view history.View)
	RenderNotification(n notify.Notification)
}

type Params struct {
	API           exercisesAPI
	Formatter     *format.Formatter
	Notifications *notify.Board
	RenderChart   history.RenderChartFunc
	Confirm       workflow.ConfirmFunc
	Surface       Surface
}

// App ties the exercise list, the form workflow and the history modal
// to one API client and one display surface.
type App struct {
	api           exercisesAPI
	surface       Surface
	notifications *notify.Board
	session       *session.State
	list          *listview.Renderer
	workflow      *workflow.Workflow
	modal         *history.Modal
}

func New(params Params) *App {
	a := &App{
		api:           params.API,
		surface:       params.Surface,
		notifications: params.Notifications,
		session:       session.New(),
		list:          listview.New(params.Formatter, params.Formatter.Tag()),
	}
	if a.notifications == nil {
		a.notifications = notify.NewBoard(notify.DefaultTTL)
	}
	a.notifications.OnChange(a.surface.RenderNotification)

	a.workflow = workflow.New(workflow.Params{
		API:       params.API,
		Notifier:  a.notifications,
		Session:   a.session,
		Formatter: params.Formatter,
		Refresh: func(ctx context.Context) {
			_ = a.Refresh(ctx)
		},
		Confirm:  params.Confirm,
		OnChange: a.surface.RenderForm,
	})

	a.modal = history.New(history.Params{
		API:         params.API,
		Notifier:    a.notifications,
		Session:     a.session,
		Formatter:   params.Formatter,
		RenderChart: params.RenderChart,
		OnChange:    a.surface.RenderHistory,
	})

	return a
}

func (a *App) Workflow() *workflow.Workflow {
	return a.workflow
}

func (a *App) History() *history.Modal {
	return a.modal
}

func (a *App) Session() *session.State {
	return a.session
}

func (a *App) Notifications() *notify.Board {
	return a.notifications
}

// Start shows the empty form and loads the exercise list.
func (a *App) Start(ctx context.Context) error {
	a.surface.RenderForm(a.workflow.View())
	return a.Refresh(ctx)
}

// Refresh fetches all exercises and re-renders the list.
// On failure the current list stays on screen.
func (a *App) Refresh(ctx context.Context) error {
	exercises, err := a.api.ListExercises(ctx)
	if err != nil {
		log.Errorf("refresh exercises: %s", err)
		a.notifications.Show(MsgListFailed, notify.KindError)
		return fmt.Errorf("list exercises: %w", err)
	}

	a.surface.RenderList(a.list.Render(exercises))
	return nil
}

func (a *App) EnterAddWeightMode(ctx context.Context, id int) error {
	return a.workflow.EnterAddWeightMode(ctx, id)
}

func (a *App) DeleteExercise(ctx context.Context, id int) error {
	return a.workflow.DeleteExercise(ctx, id)
}

func (a *App) ShowHistory(ctx context.Context, id int, muscleGroup, exerciseName string) error {
	return a.modal.Show(ctx, id, muscleGroup, exerciseName)
}

func (a *App) SetField(field workflow.Field, value string) {
	a.workflow.SetField(field, value)
}

func (a *App) Submit(ctx context.Context) error {
	return a.workflow.Submit(ctx)
}

func (a *App) CancelForm() {
	a.workflow.Cancel()
}

func (a *App) CloseHistory() {
	a.modal.Close()
}

func (a *App) HistoryPointerOutside() {
	a.modal.PointerOutside()
}

// Shutdown releases the chart still on display.
func (a *App) Shutdown() {
	if err := a.session.ReleaseChart(); err != nil {
		log.Warnf("release chart on shutdown: %s", err)
	}
}
