// Package batch runs one pass over a directory of scanned patient folders:
// enumerate, parse folder names, preprocess, OCR and extract.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/th-dev-git/QSnich-img-processing/internal/config"
	"github.com/th-dev-git/QSnich-img-processing/internal/extract"
	"github.com/th-dev-git/QSnich-img-processing/internal/ocr"
	"github.com/th-dev-git/QSnich-img-processing/internal/person"
	"github.com/th-dev-git/QSnich-img-processing/internal/scan"
)

// Preprocessor writes a cleaned copy of dir/file and returns its path.
type Preprocessor interface {
	Process(dir, file string) (string, error)
}

// Options selects what a Runner processes.
type Options struct {
	Root    string
	Layout  string
	Mode    string
	Limit   int
	Workers int
}

// OptionsFrom copies the batch settings out of cfg.
func OptionsFrom(cfg config.Config) Options {
	return Options{
		Root:    cfg.Root,
		Layout:  cfg.Layout,
		Mode:    cfg.Mode,
		Limit:   cfg.Limit,
		Workers: cfg.Workers,
	}
}

// Result is the outcome of one run. Persons and Raw are in enumeration
// order.
type Result struct {
	RunID   string           `json:"run_id"`
	Persons []person.Person  `json:"persons"`
	Raw     []person.RawData `json:"raw,omitempty"`
	Gaps    []person.Gap     `json:"gaps"`
	Skipped int              `json:"skipped"`
	Elapsed time.Duration    `json:"elapsed"`
}

// Incomplete returns the persons with at least one empty field.
func (r *Result) Incomplete() []person.Person {
	return person.Incomplete(r.Persons)
}

// Runner wires the pipeline stages together.
type Runner struct {
	opts      Options
	pre       Preprocessor
	rec       ocr.Recognizer
	extractor *extract.Extractor
	log       *slog.Logger
}

// New returns a Runner. Workers below 1 are treated as 1.
func New(opts Options, pre Preprocessor, rec ocr.Recognizer, extractor *extract.Extractor, log *slog.Logger) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Layout == "" {
		opts.Layout = config.LayoutFlat
	}
	if opts.Mode == "" {
		opts.Mode = config.ModeFields
	}
	return &Runner{opts: opts, pre: pre, rec: rec, extractor: extractor, log: log}
}

// job is one image-bearing directory and the record it fills.
type job struct {
	dir    string
	person person.Person
}

// outcome is what processing a job produced.
type outcome struct {
	person person.Person
	raw    person.RawData
	gaps   []person.Gap
}

// Run processes every folder under the root. The first filesystem, image or
// OCR error cancels the remaining work and is returned; malformed folder
// names and unreadable fields are reported as gaps instead.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	log := r.log.With("run_id", res.RunID)

	folders, err := scan.Dirs(r.opts.Root)
	if err != nil {
		return nil, err
	}
	if r.opts.Limit > 0 && len(folders) > r.opts.Limit {
		folders = folders[:r.opts.Limit]
	}
	log.Info("batch started", "root", r.opts.Root, "layout", r.opts.Layout, "mode", r.opts.Mode,
		"folders", len(folders), "workers", r.opts.Workers)

	jobs, err := r.plan(folders, res, log)
	if err != nil {
		return nil, err
	}

	outcomes := make([]outcome, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			out, err := r.process(gctx, j, log)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("batch aborted", "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, out := range outcomes {
		res.Gaps = append(res.Gaps, out.gaps...)
		if r.opts.Mode == config.ModeRaw {
			res.Raw = append(res.Raw, out.raw)
			continue
		}
		res.Persons = append(res.Persons, out.person)
	}
	res.Elapsed = time.Since(start)

	log.Info("batch finished", "persons", len(res.Persons), "raw", len(res.Raw),
		"incomplete", len(res.Incomplete()), "gaps", len(res.Gaps), "skipped", res.Skipped,
		"elapsed", res.Elapsed)
	return res, nil
}

// plan turns person folders into jobs, recording malformed names as gaps.
func (r *Runner) plan(folders []string, res *Result, log *slog.Logger) ([]job, error) {
	var jobs []job
	for _, folder := range folders {
		p, err := person.ParseFolder(folder)
		if err != nil {
			log.Warn("skipping folder", "folder", folder, "error", err)
			res.Gaps = append(res.Gaps, person.Gap{Name: folder, Field: "folder", Reason: err.Error()})
			res.Skipped++
			continue
		}
		dir := filepath.Join(r.opts.Root, folder)

		if r.opts.Layout != config.LayoutNested {
			jobs = append(jobs, job{dir: dir, person: p})
			continue
		}

		scans, err := scan.Dirs(dir)
		if err != nil {
			return nil, err
		}
		if len(scans) == 0 {
			log.Warn("no scan directories", "folder", folder)
			res.Gaps = append(res.Gaps, person.Gap{Name: p.Name, Field: "film", Reason: "no scan directories"})
		}
		for _, s := range scans {
			film, err := person.ParseScanDir(s)
			if err != nil {
				log.Warn("skipping scan directory", "folder", folder, "scan", s, "error", err)
				res.Gaps = append(res.Gaps, person.Gap{Name: p.Name, Field: "film", Reason: err.Error()})
				continue
			}
			sp := p
			sp.Film = film
			jobs = append(jobs, job{dir: filepath.Join(dir, s), person: sp})
		}
	}
	return jobs, nil
}

// process preprocesses and reads the first image in j.dir.
func (r *Runner) process(ctx context.Context, j job, log *slog.Logger) (outcome, error) {
	out := outcome{person: j.person, raw: person.RawData{Name: j.person.Name}}
	if err := ctx.Err(); err != nil {
		return out, err
	}

	images, err := scan.Images(j.dir)
	if err != nil {
		return out, err
	}
	if len(images) == 0 {
		log.Warn("no image found", "dir", j.dir)
		out.gaps = append(out.gaps, person.Gap{Name: j.person.Name, Field: "image", Reason: "no image in " + j.dir})
		return out, nil
	}

	log.Debug("preprocessing", "dir", j.dir, "file", images[0])
	processed, err := r.pre.Process(j.dir, images[0])
	if err != nil {
		return out, err
	}

	text, err := r.rec.Recognize(ctx, processed)
	if err != nil {
		return out, fmt.Errorf("recognize %s: %w", processed, err)
	}
	log.Debug("recognized", "file", processed, "chars", len(text))

	if r.opts.Mode == config.ModeRaw {
		out.raw.Raw = text
		return out, nil
	}

	out.gaps = append(out.gaps, r.extractor.Apply(&out.person, text)...)
	for _, gap := range out.gaps {
		log.Warn("field gap", "name", gap.Name, "field", gap.Field, "reason", gap.Reason)
	}
	return out, nil
}
