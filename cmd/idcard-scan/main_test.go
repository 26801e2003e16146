package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/th-dev-git/QSnich-img-processing/internal/batch"
	"github.com/th-dev-git/QSnich-img-processing/internal/config"
	"github.com/th-dev-git/QSnich-img-processing/internal/logging"
	"github.com/th-dev-git/QSnich-img-processing/internal/person"
)

func sampleResult() *batch.Result {
	return &batch.Result{
		RunID:   "run-1",
		Persons: []person.Person{{Name: "John Doe", HN: "1234567", Gender: "ชาย", BirthDate: "05/1990", Film: "06/2019"}},
		Raw:     []person.RawData{{Name: "John Doe", Raw: "HN:1234567"}},
	}
}

func TestWriteReports_Fields(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.OutDir = dir
	cfg.XLSX = "norm"
	now := time.Date(2023, 4, 5, 6, 7, 8, 0, time.UTC)

	var out bytes.Buffer
	if err := writeReports(cfg, sampleResult(), &out, logging.Discard(), now); err != nil {
		t.Fatalf("writeReports failed: %v", err)
	}

	if !strings.Contains(out.String(), "John Doe") || !strings.Contains(out.String(), "run run-1") {
		t.Errorf("stdout should hold the table and summary:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "2023-04-05T06:07:08.000Z-norm.xlsx")); err != nil {
		t.Errorf("spreadsheet missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, config.RawFileName)); !os.IsNotExist(err) {
		t.Error("raw dump should only be written in raw mode")
	}
}

func TestWriteReports_NoTable(t *testing.T) {
	cfg := config.Default()
	cfg.NoTable = true

	var out bytes.Buffer
	if err := writeReports(cfg, sampleResult(), &out, logging.Discard(), time.Now()); err != nil {
		t.Fatalf("writeReports failed: %v", err)
	}
	if strings.Contains(out.String(), "BIRTHDATE") {
		t.Errorf("table should be suppressed:\n%s", out.String())
	}
}

func TestWriteReports_Raw(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Mode = config.ModeRaw
	cfg.OutDir = dir

	var out bytes.Buffer
	if err := writeReports(cfg, sampleResult(), &out, logging.Discard(), time.Now()); err != nil {
		t.Fatalf("writeReports failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, config.RawFileName))
	if err != nil {
		t.Fatalf("raw dump missing: %v", err)
	}
	if !strings.Contains(string(data), `"raw": "HN:1234567"`) {
		t.Errorf("raw dump: got %s", data)
	}
}

func TestWriteReports_RawUnwritable(t *testing.T) {
	cfg := config.Default()
	cfg.Mode = config.ModeRaw
	cfg.RawOut = filepath.Join(t.TempDir(), "missing", "raw.json")

	var out bytes.Buffer
	if err := writeReports(cfg, sampleResult(), &out, logging.Discard(), time.Now()); err == nil {
		t.Error("writeReports should fail when the raw dump cannot be written")
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Mode = "text"

	var stdout, stderr bytes.Buffer
	err := run(cfg, strings.NewReader(""), &stdout, &stderr)
	if err == nil {
		t.Fatal("run should fail for invalid configuration")
	}
	if !strings.Contains(err.Error(), "mode") {
		t.Errorf("error should name the bad field: %v", err)
	}
}
