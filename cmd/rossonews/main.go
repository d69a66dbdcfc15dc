package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/rossonews/rossonews/pkg/aggregate"
	"github.com/rossonews/rossonews/pkg/config"
	"github.com/rossonews/rossonews/pkg/domain"
	"github.com/rossonews/rossonews/pkg/normalize"
	"github.com/rossonews/rossonews/pkg/output"
	"github.com/rossonews/rossonews/pkg/pipeline"
	"github.com/rossonews/rossonews/pkg/source"
	"github.com/rossonews/rossonews/pkg/translate"
	"github.com/rossonews/rossonews/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" description:"config file (yaml)"`
	Output string `short:"o" long:"output" env:"OUTPUT" description:"output document path, overrides config"`

	Serve  bool   `long:"serve" env:"SERVE" description:"keep serving the document and frontend after the run"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address for serve mode, overrides config"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if opts.NoColor {
		color.NoColor = true
	}

	var secrets []string
	if cfg.Translator.APIKey != "" {
		secrets = append(secrets, cfg.Translator.APIKey)
	}
	setupLog(opts.Debug, secrets...)

	log.Printf("[INFO] starting rossonews version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	pipe := newPipeline(cfg)

	if !opts.Serve {
		// single run, exit status reflects the write step only
		if err := pipe.Run(ctx); err != nil {
			log.Printf("[ERROR] pipeline failed: %v", err)
			os.Exit(1)
		}
		return
	}

	runServe(ctx, cfg, pipe, opts.Debug)
}

// runServe does an initial pipeline run, then serves the document with an
// optional periodic refresh
func runServe(ctx context.Context, cfg *config.Config, pipe *pipeline.Pipeline, debug bool) {
	if err := pipe.Run(ctx); err != nil {
		// serve whatever document is already on disk
		log.Printf("[ERROR] initial pipeline run failed: %v", err)
	}

	if interval := cfg.Server.RefreshInterval; interval > 0 {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := pipe.Run(ctx); err != nil {
						log.Printf("[ERROR] scheduled pipeline run failed: %v", err)
					}
				}
			}
		}()
		log.Printf("[INFO] periodic refresh every %v", interval)
	}

	srv := server.New(server.Config{
		Listen:    cfg.Server.Listen,
		Timeout:   cfg.Server.Timeout,
		NewsPath:  cfg.Output.Path,
		StaticDir: cfg.Server.StaticDir,
		Version:   revision,
		Debug:     debug,
	})
	if err := srv.Run(ctx); err != nil {
		log.Printf("[ERROR] server failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// loadConfig reads the config file (or defaults) and applies CLI overrides
func loadConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		cfg, err = config.Load(opts.Config)
		if err != nil {
			return nil, err
		}
	}
	if opts.Output != "" {
		cfg.Output.Path = opts.Output
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	return cfg, nil
}

// newPipeline wires the pipeline from configuration. Adapters are registered
// in priority order, the feed source first.
func newPipeline(cfg *config.Config) *pipeline.Pipeline {
	client := source.NewClient(cfg.Fetch.Timeout, cfg.Fetch.UserAgent, cfg.Fetch.Attempts)
	limit := cfg.Fetch.PerSourceLimit

	adapters := []source.Adapter{
		source.NewFeedAdapter(client, domain.SourceMilanNews, "https://www.milannews.it", cfg.Sources.MilanNewsFeed, limit),
		source.NewFootballItaliaAdapter(client, cfg.Sources.FootballItalia, limit),
		source.NewSempreMilanAdapter(client, cfg.Sources.SempreMilan, limit),
		source.NewACMilanAdapter(client, cfg.Sources.ACMilan, limit),
	}

	var translator translate.Translator = translate.Noop{}
	if cfg.Translator.Enabled {
		translator = translate.NewOpenAI(cfg.Translator)
	}

	return pipeline.New(pipeline.Params{
		Adapters:   adapters,
		Normalizer: normalize.New(),
		Aggregator: aggregate.New(cfg.Aggregate.MaxArticles),
		Translator: translator,
		Writer:     output.NewWriter(cfg.Output.Path),
		Deadline:   cfg.Pipeline.Deadline,
	})
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
