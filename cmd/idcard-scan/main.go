package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"

	"github.com/th-dev-git/QSnich-img-processing/internal/batch"
	"github.com/th-dev-git/QSnich-img-processing/internal/config"
	"github.com/th-dev-git/QSnich-img-processing/internal/extract"
	"github.com/th-dev-git/QSnich-img-processing/internal/imaging"
	"github.com/th-dev-git/QSnich-img-processing/internal/logging"
	"github.com/th-dev-git/QSnich-img-processing/internal/ocr"
	"github.com/th-dev-git/QSnich-img-processing/internal/report"
	"github.com/th-dev-git/QSnich-img-processing/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

type args struct {
	config.Config
}

func (args) Version() string {
	return fmt.Sprintf("idcard-scan %s (built %s, commit %s)", Version, BuildTime, GitCommit)
}

func (args) Description() string {
	return "idcard-scan - extract HN, gender and dates from scanned patient cards\n\n" +
		"ROOT holds one folder per patient named \"<first> <last> <mm-yyyy>\".\n" +
		"With --serve the same operations are exposed as MCP tools over stdin/stdout."
}

func main() {
	a := args{}
	arg.MustParse(&a)

	if err := run(a.Config, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "idcard-scan: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, stdin io.Reader, stdout, stderr io.Writer) error {
	logger, err := logging.New(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Debug("starting", "version", Version, "commit", GitCommit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pre, err := imaging.NewPreprocessor(cfg.Preprocess())
	if err != nil {
		return err
	}

	engine, err := ocr.Open(cfg.OCR())
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Warn("closing OCR engine", "error", err)
		}
	}()

	if cfg.Serve {
		server.Version = Version
		srv := server.New(server.Deps{Config: cfg, Preprocessor: pre, Engine: engine, Logger: logger})
		return srv.Run(ctx, stdin, stdout)
	}

	runner := batch.New(batch.OptionsFrom(cfg), pre, engine, extract.New(cfg.Labels()), logger)
	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	return writeReports(cfg, res, stdout, logger, time.Now())
}

// writeReports prints the table and summary and writes the requested files.
func writeReports(cfg config.Config, res *batch.Result, stdout io.Writer, logger *slog.Logger, now time.Time) error {
	if cfg.Mode == config.ModeRaw {
		path := cfg.RawPath()
		if err := report.WriteRaw(path, res.Raw); err != nil {
			return err
		}
		logger.Info("wrote raw data", "path", path, "entries", len(res.Raw))
	} else {
		if !cfg.NoTable {
			report.Table(stdout, res.Persons)
		}
		if cfg.XLSX != "" {
			path, err := report.WriteXLSX(cfg.OutDir, cfg.XLSX, res.Persons, now)
			if err != nil {
				return err
			}
			logger.Info("wrote spreadsheet", "path", path, "rows", len(res.Persons))
		}
	}

	report.Summary(stdout, res)
	return nil
}
