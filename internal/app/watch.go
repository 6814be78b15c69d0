package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"go.trai.ch/trier/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	// Dir is the working directory configuration discovery starts from.
	Dir string
	// Jobs caps parallel script runs. Zero uses the current project's setting.
	Jobs int
	// Window is the debounce window. Zero uses watcher.DefaultDebounceWindow.
	Window time.Duration
	// Ready, when set, is closed once file events are being watched.
	Ready chan<- struct{}
}

// Watch generates every configured script once, then regenerates scripts as they change
// until ctx is cancelled. A script that disappears has its outputs cleaned.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	err := a.Run(ctx, nil, RunOptions{Dir: opts.Dir, Jobs: opts.Jobs})
	if err != nil && !errors.Is(err, domain.ErrGenerationFailed) {
		return err
	}

	ws, err := a.load(opts.Dir)
	if err != nil {
		return err
	}

	w, err := a.newWatcher()
	if err != nil {
		return err
	}
	if err := w.Start(ctx, ws.Root); err != nil {
		_ = w.Stop()
		return zerr.With(err, "root", ws.Root)
	}
	defer func() { _ = w.Stop() }()

	window := opts.Window
	if window <= 0 {
		window = watcher.DefaultDebounceWindow
	}

	loop := &watchLoop{
		app:     a,
		session: newSession(ws, a.opener),
		jobs:    a.jobs(ws, opts.Jobs),
	}
	debouncer := watcher.NewDebouncer(window, func(paths []string) {
		loop.regenerate(ctx, paths)
	})

	a.logger.Info("watching " + ws.Root)
	if opts.Ready != nil {
		close(opts.Ready)
	}

	for ev := range w.Events() {
		if loop.candidate(ev.Path) {
			debouncer.Add(ev.Path)
		}
	}

	loop.close()
	return nil
}

// watchLoop regenerates scripts in response to debounced file events.
type watchLoop struct {
	app     *App
	session *session
	jobs    int
	locks   pathLocks

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// candidate reports whether path may be a script and is worth a closer look.
func (l *watchLoop) candidate(path string) bool {
	cfg := l.session.ws.ProjectFor(path)
	if cfg == nil {
		return false
	}
	return l.app.finder.IsScript(cfg, path)
}

// regenerate runs every changed script once. Runs of the same script never overlap.
func (l *watchLoop) regenerate(ctx context.Context, paths []string) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.wg.Add(1)
	l.mu.Unlock()
	defer l.wg.Done()

	scripts := make(map[string][]string)

	var g errgroup.Group
	g.SetLimit(l.jobs)
	for _, path := range paths {
		cfg := l.session.ws.ProjectFor(path)
		if cfg == nil {
			continue
		}

		if _, ok := scripts[cfg.Name]; !ok {
			found, err := l.app.finder.Find(cfg)
			if err != nil {
				l.app.logger.Error(zerr.With(err, "project", cfg.Name))
				continue
			}
			scripts[cfg.Name] = found
		}

		t := target{cfg: cfg, path: path}
		exists := isFile(path)
		if exists && !slices.Contains(scripts[cfg.Name], path) {
			continue
		}

		g.Go(func() error {
			unlock := l.locks.lock(t.path)
			defer unlock()

			if ctx.Err() != nil {
				return nil
			}
			if exists {
				if _, err := l.app.generateOne(ctx, l.session, t); err == nil {
					l.app.logger.Info("regenerated " + t.path)
				}
				return nil
			}
			manifest := l.app.generators.Manifests(cfg).Path(t.path)
			if _, err := os.Stat(manifest); err != nil {
				return nil
			}
			if owner := manifestOwner(scripts[cfg.Name], manifest, cfg); owner != "" {
				l.app.logger.Warn(fmt.Sprintf("kept outputs of %s: manifest belongs to %s", t.path, owner))
				return nil
			}
			if summary, err := l.app.cleanOne(ctx, l.session, t); err == nil {
				l.app.logger.Info(fmt.Sprintf("cleaned %s: %d outputs removed", t.path, summary.Removed))
			}
			return nil
		})
	}
	_ = g.Wait()
}

// close stops accepting batches and waits for the running ones.
func (l *watchLoop) close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.wg.Wait()
}

// manifestOwner returns the existing script whose manifest is manifest, if any.
func manifestOwner(scripts []string, manifest string, cfg *domain.ProjectConfig) string {
	for _, script := range scripts {
		if domain.ManifestPath(script, cfg.ManifestExtension) == manifest {
			return script
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
