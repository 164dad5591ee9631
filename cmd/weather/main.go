package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JaimeDevz/weather-app/internal/config"
	"github.com/JaimeDevz/weather-app/internal/observability"
	"github.com/JaimeDevz/weather-app/internal/presenter"
	"github.com/JaimeDevz/weather-app/internal/render"

	"github.com/spf13/pflag"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	flags := pflag.NewFlagSet("weather", pflag.ContinueOnError)
	gatewayURL := flags.String("gateway", cfg.GatewayURL, "base URL of the weather gateway")
	output := flags.StringP("output", "o", "text", "output format: text, json or yaml")
	timeout := flags.Duration("timeout", 10*time.Second, "timeout for each forecast request")
	cityTime := flags.Bool("city-time", false, "show times in the city's time zone")
	verbose := flags.BoolP("verbose", "v", false, "log request details to stderr")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: weather [flags] [city ...]\n\nWithout cities, reads one city per line from stdin.\n\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	level := cfg.SlogLevel()
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(observability.NewLogger(os.Stderr, cfg.LogFormat, level))

	format, err := render.ParseFormat(*output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	client, err := presenter.NewGatewayClient(*gatewayURL, *timeout)
	if err != nil {
		slog.Error("failed to create gateway client", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := presenter.New(client, nil)
	opts := render.Options{Format: format, CityTime: *cityTime}

	var st presenter.RequestState
	if cities := flags.Args(); len(cities) > 0 {
		st = searchAll(ctx, p, cities, os.Stdout, opts)
	} else {
		st = interactive(ctx, p, os.Stdin, os.Stdout, opts)
	}
	if st.Status == presenter.Failed {
		os.Exit(1)
	}
}

// searchAll searches each city in turn and prints every result.
func searchAll(ctx context.Context, p *presenter.Presenter, cities []string, w io.Writer, opts render.Options) presenter.RequestState {
	for _, city := range cities {
		search(ctx, p, city, w, opts)
	}
	return p.Store().Snapshot()
}

// interactive plays the role of the search bar: one search per input line.
func interactive(ctx context.Context, p *presenter.Presenter, r io.Reader, w io.Writer, opts render.Options) presenter.RequestState {
	if opts.Format == render.Text {
		_ = render.Render(w, p.Store().Snapshot(), opts)
	}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		search(ctx, p, scanner.Text(), w, opts)
	}
	if err := scanner.Err(); err != nil {
		slog.Error("reading input failed", "error", err)
	}
	return p.Store().Snapshot()
}

func search(ctx context.Context, p *presenter.Presenter, city string, w io.Writer, opts render.Options) {
	task, err := p.Search(ctx, city)
	if errors.Is(err, presenter.ErrEmptyCity) {
		return
	}
	if err != nil {
		slog.Error("search failed", "city", city, "error", err)
		return
	}
	slog.Debug("searching", "city", task.City, "task", task.ID)
	st := task.Wait()
	if err := render.Render(w, st, opts); err != nil {
		slog.Error("render failed", "error", err)
	}
}
