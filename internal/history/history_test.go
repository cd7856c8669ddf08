package history_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/2beens/kraftwerte/internal/chart"
	"github.com/2beens/kraftwerte/internal/format"
	"github.com/2beens/kraftwerte/internal/history"
	"github.com/2beens/kraftwerte/internal/model"
	"github.com/2beens/kraftwerte/internal/notify"
	"github.com/2beens/kraftwerte/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSink struct {
	mu       sync.Mutex
	messages []string
	kinds    []notify.Kind
}

func (s *recordingSink) Show(message string, kind notify.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	s.kinds = append(s.kinds, kind)
}

type fixture struct {
	api      *MockhistoryAPI
	sink     *recordingSink
	session  *session.State
	renderer *chart.Renderer
	series   []chart.Series
	views    []history.View
	modal    *history.Modal
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		api:      NewMockhistoryAPI(gomock.NewController(t)),
		sink:     &recordingSink{},
		session:  session.New(),
		renderer: chart.NewRenderer(t.TempDir(), 300, 200),
	}
	f.modal = history.New(history.Params{
		API:       f.api,
		Notifier:  f.sink,
		Session:   f.session,
		Formatter: format.New(format.DefaultLocale, time.UTC),
		RenderChart: func(series chart.Series) (session.Chart, error) {
			f.series = append(f.series, series)
			return f.renderer.New(series)
		},
		OnChange: func(v history.View) {
			f.views = append(f.views, v)
		},
	})
	return f
}

func at(day int) model.Timestamp {
	return model.NewTimestamp(time.Date(2024, 3, day, 18, 30, 0, 0, time.UTC))
}

func TestModal_Show_NewestFirstList_OldestFirstChart(t *testing.T) {
	f := newFixture(t)
	entries := []model.WeightEntry{
		{ID: 3, Weight: 65, CreatedAt: at(15)},
		{ID: 2, Weight: 62.5, CreatedAt: at(8)},
		{ID: 1, Weight: 60, CreatedAt: at(1)},
	}
	original := append([]model.WeightEntry(nil), entries...)
	f.api.EXPECT().GetWeightHistory(gomock.Any(), 4).Return(entries, nil)

	require.NoError(t, f.modal.Show(context.Background(), 4, "Legs", "Squat"))

	view := f.modal.View()
	assert.True(t, view.Open)
	assert.Equal(t, 4, view.ExerciseID)
	assert.Equal(t, "Weight history for Legs - Squat", view.Title)
	assert.Empty(t, view.Placeholder)
	assert.Equal(t, []history.Entry{
		{Date: "15.03.2024", Weight: "65 kg"},
		{Date: "08.03.2024", Weight: "62,5 kg"},
		{Date: "01.03.2024", Weight: "60 kg"},
	}, view.Entries)

	require.Len(t, f.series, 1)
	assert.Equal(t, history.SeriesName, f.series[0].Name)
	assert.Equal(t, history.AxisX, f.series[0].XName)
	assert.Equal(t, []string{"01.03.2024", "08.03.2024", "15.03.2024"}, f.series[0].Labels)
	assert.Equal(t, []float64{60, 62.5, 65}, f.series[0].Values)

	require.NotEmpty(t, view.ChartPath)
	_, err := os.Stat(view.ChartPath)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), f.renderer.Live())

	// the response slice is left as received
	assert.Equal(t, original, entries)

	require.Len(t, f.views, 1)
	assert.Empty(t, f.sink.messages)
}

func TestModal_Show_TwiceKeepsOneChart(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().GetWeightHistory(gomock.Any(), 1).Return([]model.WeightEntry{
		{ID: 4, Weight: 42.5, CreatedAt: at(3)},
		{ID: 1, Weight: 40, CreatedAt: at(1)},
	}, nil)
	f.api.EXPECT().GetWeightHistory(gomock.Any(), 2).Return([]model.WeightEntry{
		{ID: 3, Weight: 80, CreatedAt: at(2)},
		{ID: 2, Weight: 77.5, CreatedAt: at(1)},
	}, nil)

	ctx := context.Background()
	require.NoError(t, f.modal.Show(ctx, 1, "Arms", "Curl"))
	first := f.modal.View().ChartPath
	require.NotEmpty(t, first)
	_, err := os.Stat(first)
	require.NoError(t, err)

	require.NoError(t, f.modal.Show(ctx, 2, "Legs", "Squat"))
	second := f.modal.View().ChartPath
	require.NotEmpty(t, second)

	assert.Equal(t, int64(1), f.renderer.Live())
	assert.NotEqual(t, first, second)
	_, err = os.Stat(first)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	active, ok := f.session.Chart().(*chart.Chart)
	require.True(t, ok)
	assert.Equal(t, second, active.Path())
}

func TestModal_Show_SingleEntryCharts(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().GetWeightHistory(gomock.Any(), 3).Return([]model.WeightEntry{
		{ID: 1, Weight: 60, CreatedAt: at(1)},
	}, nil)

	require.NoError(t, f.modal.Show(context.Background(), 3, "Legs", "Squat"))

	view := f.modal.View()
	require.NotEmpty(t, view.ChartPath)
	_, err := os.Stat(view.ChartPath)
	assert.NoError(t, err)
	assert.Equal(t, []history.Entry{{Date: "01.03.2024", Weight: "60 kg"}}, view.Entries)
	assert.Equal(t, int64(1), f.renderer.Live())
	assert.Empty(t, f.sink.messages)
}

func TestModal_Show_OverlappingCallsKeepOneChart(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockhistoryAPI(ctrl)
	renderer := chart.NewRenderer(t.TempDir(), 300, 200)
	s := session.New()

	firstDrawing := make(chan struct{})
	release := make(chan struct{})
	secondFetched := make(chan struct{})

	var (
		peakMu sync.Mutex
		peak   int64
		draws  int
	)
	modal := history.New(history.Params{
		API:       api,
		Notifier:  &recordingSink{},
		Session:   s,
		Formatter: format.New(format.DefaultLocale, time.UTC),
		RenderChart: func(series chart.Series) (session.Chart, error) {
			peakMu.Lock()
			draws++
			first := draws == 1
			peakMu.Unlock()
			if first {
				close(firstDrawing)
				<-release
			}

			c, err := renderer.New(series)

			peakMu.Lock()
			if live := renderer.Live(); live > peak {
				peak = live
			}
			peakMu.Unlock()
			return c, err
		},
	})

	entries := []model.WeightEntry{
		{ID: 2, Weight: 62.5, CreatedAt: at(2)},
		{ID: 1, Weight: 60, CreatedAt: at(1)},
	}
	api.EXPECT().GetWeightHistory(gomock.Any(), 1).Return(entries, nil)
	api.EXPECT().GetWeightHistory(gomock.Any(), 2).DoAndReturn(
		func(context.Context, int) ([]model.WeightEntry, error) {
			close(secondFetched)
			return entries, nil
		},
	)

	ctx := context.Background()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, modal.Show(ctx, 1, "Legs", "Squat"))
	}()
	<-firstDrawing
	go func() {
		defer wg.Done()
		assert.NoError(t, modal.Show(ctx, 2, "Legs", "Lunge"))
	}()
	<-secondFetched
	// give the second call the chance to race the first one
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), peak)
	assert.Equal(t, int64(1), renderer.Live())
	assert.Equal(t, 2, draws)

	active, ok := s.Chart().(*chart.Chart)
	require.True(t, ok)
	assert.Equal(t, modal.View().ChartPath, active.Path())
}

func TestModal_Show_EmptyHistory(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().GetWeightHistory(gomock.Any(), 1).Return([]model.WeightEntry{
		{ID: 1, Weight: 40, CreatedAt: at(1)},
	}, nil)
	f.api.EXPECT().GetWeightHistory(gomock.Any(), 9).Return(nil, nil)

	ctx := context.Background()
	require.NoError(t, f.modal.Show(ctx, 1, "Arms", "Curl"))
	require.Equal(t, int64(1), f.renderer.Live())

	require.NoError(t, f.modal.Show(ctx, 9, "Core", "Plank"))
	view := f.modal.View()
	assert.True(t, view.Open)
	assert.Equal(t, history.PlaceholderNoEntries, view.Placeholder)
	assert.Empty(t, view.Entries)
	assert.Empty(t, view.ChartPath)

	// no new chart, and the previous one is gone
	assert.Len(t, f.series, 1)
	assert.Equal(t, int64(0), f.renderer.Live())
	assert.Nil(t, f.session.Chart())
}

func TestModal_Show_LoadFailure(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().GetWeightHistory(gomock.Any(), 5).Return(nil, errors.New("boom"))

	err := f.modal.Show(context.Background(), 5, "Back", "Row")
	require.Error(t, err)

	assert.False(t, f.modal.IsOpen())
	assert.Empty(t, f.views)
	assert.Equal(t, []string{history.MsgLoadFailed}, f.sink.messages)
	assert.Equal(t, []notify.Kind{notify.KindError}, f.sink.kinds)
}

func TestModal_Show_ChartFailureStillLists(t *testing.T) {
	f := newFixture(t)
	f.modal = history.New(history.Params{
		API:       f.api,
		Notifier:  f.sink,
		Session:   f.session,
		Formatter: format.New(format.DefaultLocale, time.UTC),
		RenderChart: func(chart.Series) (session.Chart, error) {
			return nil, errors.New("no fonts")
		},
	})
	f.api.EXPECT().GetWeightHistory(gomock.Any(), 5).Return([]model.WeightEntry{
		{ID: 1, Weight: 100, CreatedAt: at(3)},
	}, nil)

	require.NoError(t, f.modal.Show(context.Background(), 5, "Back", "Deadlift"))

	view := f.modal.View()
	assert.True(t, view.Open)
	assert.Len(t, view.Entries, 1)
	assert.Empty(t, view.ChartPath)
	assert.Nil(t, f.session.Chart())
	assert.Equal(t, []string{history.MsgChartFailed}, f.sink.messages)
}

func TestModal_CloseAndPointerOutside(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().GetWeightHistory(gomock.Any(), 1).Return([]model.WeightEntry{
		{ID: 1, Weight: 40, CreatedAt: at(1)},
	}, nil).Times(2)

	ctx := context.Background()
	require.NoError(t, f.modal.Show(ctx, 1, "Arms", "Curl"))
	f.modal.Close()
	assert.False(t, f.modal.IsOpen())
	assert.Equal(t, int64(0), f.renderer.Live())
	assert.Nil(t, f.session.Chart())

	require.NoError(t, f.modal.Show(ctx, 1, "Arms", "Curl"))
	f.modal.PointerOutside()
	assert.False(t, f.modal.IsOpen())
	assert.Equal(t, int64(0), f.renderer.Live())

	// closed already, nothing to notify
	views := len(f.views)
	f.modal.PointerOutside()
	assert.Len(t, f.views, views)
}
