// Package generate runs extraction over a batch of inputs and writes one
// metadata document per unit.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/go-json-experiment/json"
	"golang.org/x/sync/errgroup"

	"github.com/tsgonest/vuemeta/internal/buildcache"
	"github.com/tsgonest/vuemeta/internal/compiler"
	"github.com/tsgonest/vuemeta/internal/extract"
	"github.com/tsgonest/vuemeta/internal/metadata"
)

// ErrNoInputs is returned when the patterns match no source files.
var ErrNoInputs = errors.New("no input files")

// Options configures a generation run.
type Options struct {
	// Root relativizes output paths and declaration paths. Required.
	Root string
	// TSConfig is extended by the generated project config. Empty means
	// <Root>/tsconfig.json when that file exists.
	TSConfig string
	// Inputs are files, directories or doublestar globs.
	Inputs  []string
	Exclude []string
	// OutDir mirrors outputs under a directory instead of next to inputs.
	OutDir string
	// Stdout, when set, receives a JSON array of {file, result} and no files
	// are written.
	Stdout io.Writer
	// Jobs is the number of isolated projects units are sharded across.
	Jobs int
	// Cache enables the skip cache. It is ignored with Stdout.
	Cache  bool
	Logger *slog.Logger
}

// UnitResult is the outcome of one input.
type UnitResult struct {
	Input  string
	Output string
	Result metadata.Result
	Err    error
}

// Report is the outcome of a run. Units are in input order.
type Report struct {
	Units []UnitResult
	// Skipped is set when the cache proved all outputs current.
	Skipped bool
	Timing  Timing
}

// Failed returns the units that produced no output.
func (r *Report) Failed() []UnitResult {
	var failed []UnitResult
	for _, u := range r.Units {
		if u.Err != nil {
			failed = append(failed, u)
		}
	}
	return failed
}

// Timing collects the duration of each phase of a run. Program and Extract
// are summed over shards.
type Timing struct {
	Discover time.Duration
	Program  time.Duration
	Extract  time.Duration
	Write    time.Duration
	Total    time.Duration
}

func (t Timing) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("discover", t.Discover.Round(time.Millisecond)),
		slog.Duration("program", t.Program.Round(time.Millisecond)),
		slog.Duration("extract", t.Extract.Round(time.Millisecond)),
		slog.Duration("write", t.Write.Round(time.Millisecond)),
		slog.Duration("total", t.Total.Round(time.Millisecond)),
	)
}

// ResolveTSConfig returns tsconfig resolved against root, or
// <root>/tsconfig.json when tsconfig is empty and that file exists.
func ResolveTSConfig(root, tsconfig string) string {
	if tsconfig != "" {
		if filepath.IsAbs(tsconfig) {
			return tsconfig
		}
		return filepath.Join(root, tsconfig)
	}
	candidate := filepath.Join(root, "tsconfig.json")
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate
	}
	return ""
}

// Run discovers the inputs, extracts every unit and writes the results. A
// failing unit is recorded in the report and does not stop the others; the
// returned error is reserved for failures of the run itself.
func Run(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	opts.Root = root
	opts.TSConfig = ResolveTSConfig(root, opts.TSConfig)
	if opts.OutDir != "" && !filepath.IsAbs(opts.OutDir) {
		opts.OutDir = filepath.Join(root, opts.OutDir)
	}

	report := &Report{}
	inputs, err := Discover(root, opts.Inputs, opts.Exclude)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	report.Timing.Discover = time.Since(start)
	logger.Debug("discovered inputs", "count", len(inputs), "tsconfig", opts.TSConfig)

	useCache := opts.Cache && opts.Stdout == nil
	cachePath := buildcache.CachePath(opts.OutDir, root)
	fingerprint := opts.fingerprint()
	if useCache && cacheHit(buildcache.Load(cachePath), fingerprint, inputs) {
		logger.Info("outputs up to date", "units", len(inputs))
		report.Skipped = true
		for _, in := range inputs {
			report.Units = append(report.Units, UnitResult{Input: in, Output: OutputPath(in, root, opts.OutDir)})
		}
		report.Timing.Total = time.Since(start)
		return report, nil
	}

	report.Units = make([]UnitResult, len(inputs))
	var sources []indexedSource
	for i, in := range inputs {
		report.Units[i].Input = in
		src, err := LoadSource(in)
		if err != nil {
			report.Units[i].Err = err
			continue
		}
		sources = append(sources, indexedSource{index: i, source: src})
	}

	deps, err := extractAll(ctx, opts, sources, report, logger)
	if err != nil {
		return nil, err
	}

	writeStart := time.Now()
	if opts.Stdout != nil {
		if err := writeStdout(opts.Stdout, root, report.Units); err != nil {
			return nil, err
		}
	} else {
		for i := range report.Units {
			u := &report.Units[i]
			if u.Err != nil {
				continue
			}
			u.Output = OutputPath(u.Input, root, opts.OutDir)
			data, err := Encode(u.Result)
			if err == nil {
				err = writeFile(u.Output, data)
			}
			if err != nil {
				u.Err = err
				u.Output = ""
			}
		}
	}
	report.Timing.Write = time.Since(writeStart)

	for _, u := range report.Units {
		file := displayPath(root, u.Input)
		if u.Err != nil {
			logger.Error("failed", "file", file, "error", u.Err)
			continue
		}
		logger.Info("extracted", "file", file, "props", len(u.Result.Props), "emits", len(u.Result.Emits))
	}

	if useCache {
		if len(report.Failed()) > 0 {
			buildcache.Delete(cachePath)
		} else {
			saveCache(cachePath, fingerprint, inputs, deps, opts.TSConfig, report.Units, logger)
		}
	}

	report.Timing.Total = time.Since(start)
	logger.Debug("timing", "phases", report.Timing)
	return report, nil
}

type indexedSource struct {
	index  int
	source compiler.Source
}

// extractAll shards sources across isolated projects and fills in the
// matching report entries. It returns every file the projects read.
func extractAll(ctx context.Context, opts Options, sources []indexedSource, report *Report, logger *slog.Logger) ([]string, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	jobs := max(opts.Jobs, 1)
	shards := shard(sources, jobs)

	var (
		mu   sync.Mutex
		deps []string
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, part := range shards {
		g.Go(func() error {
			programStart := time.Now()
			units := make([]compiler.Source, len(part))
			for i, s := range part {
				units[i] = s.source
			}
			project, err := compiler.OpenProject(compiler.ProjectOptions{
				Root:     opts.Root,
				TSConfig: opts.TSConfig,
				Logger:   logger,
			}, units)
			if err != nil {
				return err
			}
			defer project.Close()
			programTime := time.Since(programStart)

			extractStart := time.Now()
			for _, s := range part {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := extractUnit(project, s.source.FileName, opts.Root, logger)
				// Each index is owned by exactly one shard.
				report.Units[s.index].Result = res
				report.Units[s.index].Err = err
			}
			files := project.Files()

			mu.Lock()
			defer mu.Unlock()
			deps = append(deps, files...)
			report.Timing.Program += programTime
			report.Timing.Extract += time.Since(extractStart)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return deps, nil
}

// shard splits sources into at most n contiguous parts of near-equal size.
func shard(sources []indexedSource, n int) [][]indexedSource {
	n = min(n, len(sources))
	size := (len(sources) + n - 1) / n
	return slices.Collect(slices.Chunk(sources, size))
}

// extractUnit extracts one unit. Panics inside the checker are turned into
// errors so one unit cannot take down the batch.
func extractUnit(project *compiler.Project, fileName, root string, logger *slog.Logger) (res metadata.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: internal error: %v", fileName, r)
		}
	}()

	for _, d := range project.SyntacticDiagnostics(fileName) {
		logger.Warn("syntax error", "diagnostic", d.Relative(root).String())
	}
	unit, err := project.Unit(fileName)
	if err != nil {
		return metadata.Result{}, err
	}
	return extract.Extract(unit, extract.Options{Root: root, Logger: logger})
}

// fingerprint digests the options that change outputs.
func (o Options) fingerprint() string {
	data, _ := json.Marshal(struct {
		Schema   int      `json:"schema"`
		Root     string   `json:"root"`
		TSConfig string   `json:"tsconfig"`
		OutDir   string   `json:"outDir"`
		Inputs   []string `json:"inputs"`
		Exclude  []string `json:"exclude"`
	}{buildcache.SchemaVersion, o.Root, o.TSConfig, o.OutDir, o.Inputs, o.Exclude}, json.Deterministic(true))
	return buildcache.HashBytes(data)
}

func cacheHit(c *buildcache.Cache, fingerprint string, inputs []string) bool {
	if c == nil {
		return false
	}
	files := slices.Collect(maps.Keys(c.Inputs))
	for _, in := range inputs {
		if _, ok := c.Inputs[in]; !ok {
			// A new input always invalidates; IsValid sees the extra key.
			files = append(files, in)
		}
	}
	return c.IsValid(fingerprint, buildcache.HashFiles(files))
}

func saveCache(path, fingerprint string, inputs, deps []string, tsconfig string, units []UnitResult, logger *slog.Logger) {
	files := append(slices.Clone(inputs), deps...)
	if tsconfig != "" {
		files = append(files, tsconfig)
	}
	for i, f := range files {
		files[i] = filepath.FromSlash(f)
	}
	slices.Sort(files)
	files = slices.Compact(files)

	outputs := make([]string, 0, len(units))
	for _, u := range units {
		outputs = append(outputs, u.Output)
	}
	if err := buildcache.Save(path, buildcache.New(fingerprint, buildcache.HashFiles(files), outputs)); err != nil {
		logger.Warn("could not save cache", "path", path, "error", err)
	}
}
