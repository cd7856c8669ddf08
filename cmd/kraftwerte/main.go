package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/text/language"

	"github.com/2beens/kraftwerte/internal/app"
	"github.com/2beens/kraftwerte/internal/chart"
	"github.com/2beens/kraftwerte/internal/client"
	"github.com/2beens/kraftwerte/internal/config"
	"github.com/2beens/kraftwerte/internal/format"
	"github.com/2beens/kraftwerte/internal/logging"
	"github.com/2beens/kraftwerte/internal/notify"
	"github.com/2beens/kraftwerte/internal/session"
	"github.com/2beens/kraftwerte/internal/telemetry/tracing"
	"github.com/2beens/kraftwerte/internal/tui"
	"github.com/2beens/kraftwerte/pkg"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kraftwerte: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	apiURL := flag.String("api-url", "", "weights API base URL, overrides api_url from the config")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		return err
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
	}

	// stdout belongs to the terminal UI
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.ClientLogsPath,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
		Environment:   cfg.Environment,
	})

	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", cfg.Locale, err)
	}

	chartDir := cfg.ChartDir
	if chartDir == "" {
		chartDir, err = os.MkdirTemp("", "kraftwerte-charts-")
		if err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
		defer func() {
			if err := os.RemoveAll(chartDir); err != nil {
				log.Warnf("remove chart dir %s: %s", chartDir, err)
			}
		}()
	} else if err := pkg.EnsureDir(chartDir); err != nil {
		return fmt.Errorf("chart dir %s: %w", chartDir, err)
	}

	otelShutdown, err := tracing.HoneycombSetup(cfg.ClientTracingEnabled, "kraftwerte-client", nil)
	if err != nil {
		return fmt.Errorf("tracing setup: %w", err)
	}
	defer otelShutdown()

	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.RequestTimeout.Duration,
	}
	renderer := chart.NewRenderer(chartDir, chart.DefaultWidth, chart.DefaultHeight)

	surface := tui.NewSurface()
	a := app.New(app.Params{
		API:           client.New(cfg.APIURL, httpClient),
		Formatter:     format.New(tag, time.Local),
		Notifications: notify.NewBoard(cfg.NotificationTTL.Duration),
		RenderChart: func(series chart.Series) (session.Chart, error) {
			c, err := renderer.New(series)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		Confirm: surface.Confirm,
		Surface: surface,
	})
	defer a.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Infof("kraftwerte client starting, api: %s", cfg.APIURL)

	program := tea.NewProgram(
		tui.NewModel(ctx, a),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	surface.Attach(program.Send)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}

	// unblocks pending confirmations and in-flight requests
	cancel()
	log.Infoln("kraftwerte client stopped")
	return nil
}
