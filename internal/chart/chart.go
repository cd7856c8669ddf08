package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	DefaultWidth  = 900
	DefaultHeight = 420
)

var lineColor = drawing.ColorFromHex("4CAF50")

var ErrEmptySeries = errors.New("empty series")

// Series is a sequence of labelled points, in drawing order.
type Series struct {
	Name   string
	XName  string
	YName  string
	Labels []string
	Values []float64
}

type Renderer struct {
	dir    string
	width  int
	height int
	live   atomic.Int64
}

func NewRenderer(dir string, width, height int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{
		dir:    dir,
		width:  width,
		height: height,
	}
}

// Live returns how many rendered charts have not been disposed yet.
func (r *Renderer) Live() int64 {
	return r.live.Load()
}

// New renders the series as a PNG line chart into a new file under the renderer dir.
func (r *Renderer) New(series Series) (*Chart, error) {
	if len(series.Values) == 0 {
		return nil, ErrEmptySeries
	}
	if len(series.Labels) != len(series.Values) {
		return nil, fmt.Errorf("labels/values mismatch: %d != %d", len(series.Labels), len(series.Values))
	}

	png, err := r.render(series)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	if r.dir != "" {
		if err := os.MkdirAll(r.dir, 0o755); err != nil {
			return nil, fmt.Errorf("create chart dir: %w", err)
		}
	}

	f, err := os.CreateTemp(r.dir, "weight-history-*.png")
	if err != nil {
		return nil, fmt.Errorf("create chart file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorf("close chart file %s: %s", f.Name(), err)
		}
	}()

	if _, err := f.Write(png); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("write chart file: %w", err)
	}

	r.live.Add(1)
	log.Tracef("chart rendered: %s (%d points)", f.Name(), len(series.Values))

	return &Chart{
		path:     f.Name(),
		size:     len(png),
		series:   series,
		renderer: r,
	}, nil
}

func (r *Renderer) render(series Series) ([]byte, error) {
	xs := make([]float64, len(series.Values))
	ticks := make([]gochart.Tick, len(series.Values))
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for i, v := range series.Values {
		xs[i] = float64(i)
		ticks[i] = gochart.Tick{Value: float64(i), Label: series.Labels[i]}
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}
	ys := append([]float64(nil), series.Values...)

	// go-chart needs at least two x values, and takes the x range from the ticks
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
		ticks = append(ticks, gochart.Tick{Value: xs[1]})
	}

	pad := (maxY - minY) * 0.1
	if pad == 0 {
		pad = math.Max(1, math.Abs(maxY)*0.1)
	}

	ch := gochart.Chart{
		Width:      r.width,
		Height:     r.height,
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Left: 16, Right: 16, Bottom: 28}},
		XAxis: gochart.XAxis{
			Name:  series.XName,
			Range: &gochart.ContinuousRange{Min: -0.5, Max: float64(len(xs)) - 0.5},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:  series.YName,
			Range: &gochart.ContinuousRange{Min: minY - pad, Max: maxY + pad},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    series.Name,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					DotColor:    lineColor,
					DotWidth:    4,
				},
			},
		},
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Chart is a rendered chart file. Dispose removes it.
type Chart struct {
	mu       sync.Mutex
	path     string
	size     int
	series   Series
	disposed bool
	renderer *Renderer
}

func (c *Chart) Path() string {
	return c.path
}

func (c *Chart) Size() int {
	return c.size
}

func (c *Chart) Series() Series {
	return c.series
}

func (c *Chart) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

func (c *Chart) Dispose() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return nil
	}
	c.disposed = true
	c.renderer.live.Add(-1)

	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove chart file: %w", err)
	}
	log.Tracef("chart disposed: %s", c.path)
	return nil
}
