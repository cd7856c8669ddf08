//go:generate mockgen -source=$GOFILE -destination=history_mocks_test.go -package=history_test

package history

import (
	"context"
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/kraftwerte/internal/chart"
	"github.com/2beens/kraftwerte/internal/format"
	"github.com/2beens/kraftwerte/internal/model"
	"github.com/2beens/kraftwerte/internal/notify"
	"github.com/2beens/kraftwerte/internal/session"
)

const (
	MsgLoadFailed        = "Failed to load weight history."
	MsgChartFailed       = "Failed to draw weight history chart."
	PlaceholderNoEntries = "No weight entries yet."

	SeriesName = "Weight (kg)"
	AxisX      = "Date"
	AxisY      = "kg"
)

type historyAPI interface {
	GetWeightHistory(ctx context.Context, exerciseID int) ([]model.WeightEntry, error)
}

// RenderChartFunc draws a series and returns a disposable chart.
type RenderChartFunc func(series chart.Series) (session.Chart, error)

type Entry struct {
	Date   string
	Weight string
}

type View struct {
	Open        bool
	ExerciseID  int
	Title       string
	Entries     []Entry
	Placeholder string
	// ChartPath points at the rendered chart image, empty when there is none.
	ChartPath string
}

type Params struct {
	API         historyAPI
	Notifier    notify.Sink
	Session     *session.State
	Formatter   *format.Formatter
	RenderChart RenderChartFunc
	OnChange    func(View)
}

// Modal shows the weight history of one exercise, as a chart and as a list.
type Modal struct {
	api         historyAPI
	notifier    notify.Sink
	session     *session.State
	formatter   *format.Formatter
	renderChart RenderChartFunc
	onChange    func(View)

	// chartMu serializes release, draw and replace of the session chart
	chartMu sync.Mutex

	mu   sync.Mutex
	view View
}

func New(params Params) *Modal {
	return &Modal{
		api:         params.API,
		notifier:    params.Notifier,
		session:     params.Session,
		formatter:   params.Formatter,
		renderChart: params.RenderChart,
		onChange:    params.OnChange,
	}
}

func (m *Modal) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.view
	v.Entries = append([]Entry(nil), m.view.Entries...)
	return v
}

func (m *Modal) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view.Open
}

// Show loads the history of the exercise and opens the modal. If loading
// fails the modal is left as it was.
func (m *Modal) Show(ctx context.Context, id int, muscleGroup, exerciseName string) error {
	entries, err := m.api.GetWeightHistory(ctx, id)
	if err != nil {
		log.Errorf("load weight history of %d: %s", id, err)
		m.notifier.Show(MsgLoadFailed, notify.KindError)
		return fmt.Errorf("get weight history %d: %w", id, err)
	}

	view := View{
		Open:       true,
		ExerciseID: id,
		Title:      fmt.Sprintf("Weight history for %s - %s", muscleGroup, exerciseName),
	}

	m.chartMu.Lock()
	defer m.chartMu.Unlock()

	// the previous chart goes away before anything new is drawn
	if err := m.session.ReleaseChart(); err != nil {
		log.Warnf("release previous chart: %s", err)
	}

	if len(entries) == 0 {
		view.Placeholder = PlaceholderNoEntries
		m.setView(view)
		return nil
	}

	for _, e := range entries {
		view.Entries = append(view.Entries, Entry{
			Date:   m.formatter.FormatDateTime(e.CreatedAt.Time),
			Weight: m.formatter.FormatWeight(e.Weight) + " kg",
		})
	}

	if c, err := m.drawChart(entries); err != nil {
		log.Errorf("draw weight history chart of %d: %s", id, err)
		m.notifier.Show(MsgChartFailed, notify.KindError)
	} else {
		if err := m.session.ReplaceChart(c); err != nil {
			log.Warnf("replace chart: %s", err)
		}
		if p, ok := c.(interface{ Path() string }); ok {
			view.ChartPath = p.Path()
		}
	}

	m.setView(view)
	return nil
}

// drawChart plots the entries oldest first. entries itself is not reordered.
func (m *Modal) drawChart(entries []model.WeightEntry) (session.Chart, error) {
	ascending := make([]model.WeightEntry, len(entries))
	copy(ascending, entries)
	sort.SliceStable(ascending, func(i, j int) bool {
		return ascending[i].CreatedAt.Before(ascending[j].CreatedAt.Time)
	})

	series := chart.Series{
		Name:   SeriesName,
		XName:  AxisX,
		YName:  AxisY,
		Labels: make([]string, 0, len(ascending)),
		Values: make([]float64, 0, len(ascending)),
	}
	for _, e := range ascending {
		series.Labels = append(series.Labels, m.formatter.FormatDateTime(e.CreatedAt.Time))
		series.Values = append(series.Values, format.RoundWeight(e.Weight))
	}

	return m.renderChart(series)
}

// Close hides the modal and disposes its chart.
func (m *Modal) Close() {
	m.chartMu.Lock()
	defer m.chartMu.Unlock()

	if err := m.session.ReleaseChart(); err != nil {
		log.Warnf("release chart on close: %s", err)
	}
	m.setView(View{})
}

// PointerOutside handles a pointer interaction outside the modal content.
func (m *Modal) PointerOutside() {
	if !m.IsOpen() {
		return
	}
	m.Close()
}

func (m *Modal) setView(v View) {
	m.mu.Lock()
	m.view = v
	m.mu.Unlock()

	if m.onChange != nil {
		m.onChange(m.View())
	}
}
