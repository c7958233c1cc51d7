package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rootbook/internal/capture"
	"rootbook/internal/config"
	"rootbook/internal/display"
	"rootbook/internal/framework"
	"rootbook/internal/history"
	"rootbook/internal/interp"
	"rootbook/internal/kernel"
)

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Execute a script as a sequence of notebook cells",
	Long: `Splits the script into cells at lines starting with %% (each such line
begins a new cell; text before the first one is a cell of its own), then
executes every cell through a kernel session. Plot artifacts land in the
--out directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	script := args[0]
	if !watchMode {
		return executeScript(cfg, script)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchScript(ctx, cfg, script)
}

// executeScript runs every cell of the script through a fresh kernel
// session.
func executeScript(cfg config.Config, script string) error {
	src, err := os.ReadFile(script)
	if err != nil {
		return err
	}

	fw := framework.NewMem()
	handler := capture.NewBufferedHandler()
	ip, err := interp.NewYaegi(handler.OutWriter(), handler.ErrWriter())
	if err != nil {
		return err
	}
	pub := display.NewTerminal(os.Stdout, outDir)

	sess := kernel.New(fw, ip, handler, pub, cfg, logger)
	if cfg.History.Enabled {
		hist, err := history.Open(cfg.History.Path)
		if err != nil {
			logger.Warn("history unavailable", zap.Error(err))
		} else {
			sess.SetHistory(hist)
			defer hist.Close()
		}
	}

	switch {
	case debugVis:
		sess.EnableJSVisDebug()
	case noVis:
		sess.DisableJSVis()
	default:
		sess.EnableJSVis()
	}

	sess.Warmup()
	for _, cell := range splitCells(string(src)) {
		sess.ExecuteCell(cell)
	}
	return nil
}

// splitCells cuts the script at lines starting with %%. Each such line
// begins a new cell; anything before the first one is a cell of its own.
func splitCells(src string) []string {
	var cells []string
	var current strings.Builder
	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			cells = append(cells, current.String())
		}
		current.Reset()
	}

	for _, line := range strings.SplitAfter(src, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "%%") {
			flush()
		}
		current.WriteString(line)
	}
	flush()
	return cells
}

// debouncer coalesces a burst of triggers into one fire after a quiet
// period. Each Trigger restarts the quiet period.
type debouncer struct {
	timer *time.Timer
	quiet time.Duration
}

func newDebouncer(quiet time.Duration) *debouncer {
	t := time.NewTimer(quiet)
	t.Stop()
	return &debouncer{timer: t, quiet: quiet}
}

func (d *debouncer) Trigger()            { d.timer.Reset(d.quiet) }
func (d *debouncer) C() <-chan time.Time { return d.timer.C }
func (d *debouncer) Stop()               { d.timer.Stop() }

// watchScript re-executes the script whenever it changes, debounced so an
// editor save burst runs once, after the last write.
func watchScript(ctx context.Context, cfg config.Config, script string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(script)); err != nil {
		return err
	}

	if err := executeScript(cfg, script); err != nil {
		logger.Warn("script run failed", zap.Error(err))
	}

	debounce := newDebouncer(500 * time.Millisecond)
	defer debounce.Stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != filepath.Clean(script) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				debounce.Trigger()
			case <-debounce.C():
				fmt.Printf("[rootbook] %s changed, re-running\n", script)
				if err := executeScript(cfg, script); err != nil {
					logger.Warn("script run failed", zap.Error(err))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn("watcher error", zap.Error(err))
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
