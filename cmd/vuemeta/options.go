package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsgonest/vuemeta/internal/config"
	"github.com/tsgonest/vuemeta/internal/generate"
	"github.com/tsgonest/vuemeta/internal/logging"
)

// cliFlags are the flags shared by every command. Set flags win over the
// config file.
type cliFlags struct {
	root       string
	project    string
	configPath string
	outDir     string
	stdout     bool
	jobs       int
	noCache    bool
	logLevel   string
	logFormat  string
}

func (f *cliFlags) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&f.root, "root", "", "Project root; declaration paths are relative to it (default: config dir or cwd)")
	flags.StringVarP(&f.project, "project", "p", "", "Path to tsconfig.json (default: <root>/tsconfig.json if present)")
	flags.StringVar(&f.configPath, "config", "", "Path to vuemeta.config.{json,yaml,yml}")
	flags.StringVar(&f.outDir, "out-dir", "", "Mirror outputs under this directory instead of next to inputs")
	flags.BoolVar(&f.stdout, "stdout", false, "Print a JSON array of {file, result} instead of writing files")
	flags.IntVar(&f.jobs, "jobs", 1, "Number of isolated type-checker projects to shard inputs across")
	flags.BoolVar(&f.noCache, "no-cache", false, "Always extract, ignoring the output cache")
	flags.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.StringVar(&f.logFormat, "log-format", "text", "Log format: text or json")
}

// session is a resolved invocation: effective config and logger.
type session struct {
	cfg        config.Config
	configPath string
	logger     *slog.Logger
}

// resolve loads (or discovers) the config file, applies set flags and path
// arguments, and builds the logger. Path arguments are relative to the
// working directory and replace the config's include list.
func (f *cliFlags) resolve(cmd *cobra.Command, args []string) (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("could not get working directory: %w", err)
	}
	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(cwd, p)
	}

	s := &session{cfg: config.DefaultConfig()}
	s.cfg.Root = cwd
	if f.configPath != "" {
		s.configPath = abs(f.configPath)
	} else if p, ok := config.Discover(cwd); ok {
		s.configPath = p
	}
	if s.configPath != "" {
		loaded, err := config.Load(s.configPath)
		if err != nil {
			return nil, err
		}
		s.cfg = *loaded
	}

	changed := cmd.Flags().Changed
	if changed("root") {
		s.cfg.Root = abs(f.root)
	}
	if changed("project") {
		s.cfg.TSConfig = abs(f.project)
	}
	if changed("out-dir") {
		s.cfg.OutDir = abs(f.outDir)
	}
	if changed("jobs") {
		s.cfg.Jobs = f.jobs
	}
	if f.noCache {
		s.cfg.Cache = false
	}
	if changed("log-level") {
		s.cfg.Log.Level = f.logLevel
	}
	if changed("log-format") {
		s.cfg.Log.Format = f.logFormat
	}
	if len(args) > 0 {
		s.cfg.Include = make([]string, len(args))
		for i, a := range args {
			s.cfg.Include[i] = abs(a)
		}
	}

	result := s.cfg.ValidateDetailed()
	if !result.IsValid() {
		return nil, fmt.Errorf("invalid options: %v", result.Errors)
	}

	s.logger = logging.New(logging.Config{
		Level:  s.cfg.Log.Level,
		Format: s.cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if s.configPath != "" {
		s.logger.Debug("loaded config", "path", s.configPath)
	}
	for _, w := range result.Warnings {
		s.logger.Warn(w)
	}
	return s, nil
}

// generateOptions maps the session to a generation run. out receives the
// --stdout array when that flag is set.
func (s *session) generateOptions(stdout bool, out io.Writer) (generate.Options, error) {
	if len(s.cfg.Include) == 0 {
		return generate.Options{}, fmt.Errorf("no inputs: pass paths or set include in the config file")
	}
	opts := generate.Options{
		Root:     s.cfg.Root,
		TSConfig: s.cfg.TSConfig,
		Inputs:   s.cfg.Include,
		Exclude:  s.cfg.Exclude,
		OutDir:   s.cfg.OutDir,
		Jobs:     s.cfg.Jobs,
		Cache:    s.cfg.Cache,
		Logger:   s.logger,
	}
	if stdout {
		opts.Stdout = out
	}
	return opts, nil
}
