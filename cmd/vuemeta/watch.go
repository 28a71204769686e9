package main

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsgonest/vuemeta/internal/generate"
	"github.com/tsgonest/vuemeta/internal/watcher"
)

// watchExtensions are the files whose changes trigger a run. Outputs are
// .json and never match.
var watchExtensions = []string{".vue", ".ts", ".tsx", ".mts", ".cts"}

const watchDebounce = 100 * time.Millisecond

func newWatchCommand(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Extract once, then again whenever a watched source changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.resolve(cmd, args)
			if err != nil {
				return err
			}
			opts, err := s.generateOptions(flags.stdout, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return runWatch(cmd, opts)
		},
	}
}

func runWatch(cmd *cobra.Command, opts generate.Options) error {
	logger := opts.Logger
	if err := runOnce(cmd, opts); err != nil {
		logger.Error("initial run failed, watching for changes", "error", err)
	}

	dirs, err := watchDirs(opts)
	if err != nil {
		return err
	}

	// Runs never overlap; a batch arriving mid-run waits for it.
	var mu sync.Mutex
	rerun := opts
	rerun.Cache = false
	w := watcher.New(dirs, watchExtensions, watchDebounce, func(events []watcher.Event) {
		mu.Lock()
		defer mu.Unlock()
		logger.Info("detected changes, extracting", "changes", len(events))
		if err := runOnce(cmd, rerun); err != nil {
			logger.Error("run failed, waiting for changes", "error", err)
		}
	})
	w.SetLogger(logger)
	if err := w.Start(); err != nil {
		return err
	}
	logger.Info("watching for changes", "dirs", len(w.Dirs()))

	<-cmd.Context().Done()
	logger.Info("shutting down")
	w.Stop()
	return nil
}

// watchDirs returns the directories holding the inputs and the tsconfig.
func watchDirs(opts generate.Options) ([]string, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, err
	}
	inputs, err := generate.Discover(root, opts.Inputs, opts.Exclude)
	if err != nil {
		return nil, err
	}
	dirs := make([]string, 0, len(inputs)+1)
	for _, in := range inputs {
		dirs = append(dirs, filepath.Dir(in))
	}
	if tsconfig := generate.ResolveTSConfig(root, opts.TSConfig); tsconfig != "" {
		dirs = append(dirs, filepath.Dir(tsconfig))
	}
	return dirs, nil
}
