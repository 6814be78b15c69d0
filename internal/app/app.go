// Package app implements the application layer for trier.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/trier/internal/adapters/project" //nolint:depguard // Wired in app layer
	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports"
	"go.trai.ch/trier/internal/engine/generator"
	"go.trai.ch/trier/internal/engine/reconciler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	finder       ports.ScriptFinder
	opener       ports.ProjectOpener
	generators   *generator.Factory
	newWatcher   ports.WatcherFactory
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	finder ports.ScriptFinder,
	opener ports.ProjectOpener,
	generators *generator.Factory,
	newWatcher ports.WatcherFactory,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		finder:       finder,
		opener:       opener,
		generators:   generators,
		newWatcher:   newWatcher,
		logger:       log,
	}
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// Dir is the working directory configuration discovery starts from.
	Dir string
	// Jobs caps parallel script runs. Zero uses the current project's setting.
	Jobs int
}

// target is one script together with the project it belongs to.
type target struct {
	cfg  *domain.ProjectConfig
	path string
}

// session holds what one command needs across its scripts.
type session struct {
	ws     *domain.Workspace
	opener ports.ProjectOpener

	mu     sync.Mutex
	models map[string]ports.ProjectModel
}

func newSession(ws *domain.Workspace, opener ports.ProjectOpener) *session {
	return &session{ws: ws, opener: opener, models: make(map[string]ports.ProjectModel)}
}

// model returns the serialized project model for cfg, opening it on first use.
func (s *session) model(cfg *domain.ProjectConfig) (ports.ProjectModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.models[cfg.Name]; ok {
		return m, nil
	}
	m, err := s.opener.Open(s.ws, cfg)
	if err != nil {
		return nil, zerr.With(err, "project", cfg.Name)
	}
	serialized := project.NewSerialized(m)
	s.models[cfg.Name] = serialized
	return serialized, nil
}

// Run generates the given scripts, or every configured script when none are named.
// Different scripts run in parallel; every script runs at most once.
func (a *App) Run(ctx context.Context, scripts []string, opts RunOptions) error {
	s, targets, err := a.prepare(opts.Dir, scripts, true)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		a.logger.Warn("no scripts found")
		return nil
	}

	results := a.generateAll(ctx, s, targets, a.jobs(s.ws, opts.Jobs))

	var total reconciler.Summary
	var errs []error
	for _, r := range results {
		total.Written += r.summary.Written
		total.Added += r.summary.Added
		total.Updated += r.summary.Updated
		total.Removed += r.summary.Removed
		if r.err != nil {
			errs = append(errs, r.err)
		}
	}

	a.logger.Info(fmt.Sprintf(
		"generated %d of %d scripts: %d written, %d added, %d updated, %d removed",
		len(targets)-len(errs), len(targets), total.Written, total.Added, total.Updated, total.Removed,
	))

	if len(errs) > 0 {
		return errors.Join(append([]error{domain.ErrGenerationFailed}, errs...)...)
	}
	return nil
}

type result struct {
	summary reconciler.Summary
	err     error
}

func (a *App) generateAll(ctx context.Context, s *session, targets []target, jobs int) []result {
	results := make([]result, len(targets))

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, t := range targets {
		g.Go(func() error {
			summary, err := a.generateOne(ctx, s, t)
			results[i] = result{summary: summary, err: err}
			// Failures are collected, not propagated, so one broken script does not stop the others.
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (a *App) generateOne(ctx context.Context, s *session, t target) (reconciler.Summary, error) {
	model, err := s.model(t.cfg)
	if err != nil {
		return reconciler.Summary{State: domain.RunStateAborted}, err
	}
	return a.generators.For(t.cfg).Generate(ctx, model, t.path)
}

func (a *App) cleanOne(ctx context.Context, s *session, t target) (reconciler.Summary, error) {
	model, err := s.model(t.cfg)
	if err != nil {
		return reconciler.Summary{State: domain.RunStateAborted}, err
	}
	return a.generators.For(t.cfg).Clean(ctx, model, t.path)
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// Dir is the working directory configuration discovery starts from.
	Dir string
}

// Clean deletes every output recorded in the manifests of the given scripts, or of every
// configured script when none are named, along with the manifests.
func (a *App) Clean(ctx context.Context, scripts []string, opts CleanOptions) error {
	s, targets, err := a.prepare(opts.Dir, scripts, false)
	if err != nil {
		return err
	}

	var errs []error
	removed := 0
	for _, t := range targets {
		summary, err := a.cleanOne(ctx, s, t)
		removed += summary.Removed
		if err != nil {
			errs = append(errs, err)
		}
	}

	a.logger.Info(fmt.Sprintf("cleaned %d scripts: %d outputs removed", len(targets)-len(errs), removed))

	if len(errs) > 0 {
		return errors.Join(append([]error{domain.ErrCleanFailed}, errs...)...)
	}
	return nil
}

// ItemsOptions configuration for the Items method.
type ItemsOptions struct {
	// Dir is the working directory configuration discovery starts from.
	Dir string
	// All lists the items of every project instead of the current one.
	All bool
}

// Items lists project items with their build actions.
func (a *App) Items(_ context.Context, opts ItemsOptions) ([]domain.ProjectItem, error) {
	ws, err := a.load(opts.Dir)
	if err != nil {
		return nil, err
	}

	projects := []*domain.ProjectConfig{ws.Current}
	if opts.All {
		projects = ws.Projects
	}

	var items []domain.ProjectItem
	for _, cfg := range projects {
		model, err := a.opener.Open(ws, cfg)
		if err != nil {
			return nil, zerr.With(err, "project", cfg.Name)
		}
		projectItems, err := model.Items()
		if err != nil {
			return nil, zerr.With(err, "project", cfg.Name)
		}
		items = append(items, projectItems...)
	}
	return items, nil
}

// Workspace loads the configuration visible from dir.
func (a *App) Workspace(dir string) (*domain.Workspace, error) {
	return a.load(dir)
}

func (a *App) load(dir string) (*domain.Workspace, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve working directory")
	}
	ws, err := a.configLoader.Load(abs)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return ws, nil
}

// prepare loads the workspace, resolves targets and opens a serialized model per project.
func (a *App) prepare(dir string, scripts []string, mustExist bool) (*session, []target, error) {
	ws, err := a.load(dir)
	if err != nil {
		return nil, nil, err
	}

	targets, err := a.resolveTargets(ws, dir, scripts, mustExist)
	if err != nil {
		return nil, nil, err
	}

	s := newSession(ws, a.opener)
	for _, t := range targets {
		if _, err := s.model(t.cfg); err != nil {
			return nil, nil, err
		}
	}
	return s, targets, nil
}

func (a *App) resolveTargets(ws *domain.Workspace, dir string, scripts []string, mustExist bool) ([]target, error) {
	seen := make(map[string]struct{})
	var targets []target
	add := func(cfg *domain.ProjectConfig, path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		targets = append(targets, target{cfg: cfg, path: path})
	}

	if len(scripts) == 0 {
		for _, cfg := range ws.Projects {
			paths, err := a.finder.Find(cfg)
			if err != nil {
				return nil, zerr.With(err, "project", cfg.Name)
			}
			for _, p := range paths {
				add(cfg, p)
			}
		}
	} else {
		base, err := filepath.Abs(dir)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to resolve working directory")
		}
		for _, script := range scripts {
			path := script
			if !filepath.IsAbs(path) {
				path = filepath.Join(base, path)
			}
			path = filepath.Clean(path)

			cfg := ws.ProjectFor(path)
			if cfg == nil {
				return nil, zerr.With(domain.ErrProjectNotFound, "script", path)
			}
			if mustExist && !isFile(path) {
				return nil, zerr.With(domain.ErrSourceReadFailed, "script", path)
			}
			add(cfg, path)
		}
	}

	slices.SortFunc(targets, func(x, y target) int { return strings.Compare(x.path, y.path) })

	owners := make(map[string]string, len(targets))
	for _, t := range targets {
		manifest := domain.ManifestPath(t.path, t.cfg.ManifestExtension)
		if other, ok := owners[manifest]; ok {
			err := zerr.With(domain.ErrManifestPathShared, "manifest", manifest)
			err = zerr.With(err, "first", other)
			return nil, zerr.With(err, "second", t.path)
		}
		owners[manifest] = t.path
	}
	return targets, nil
}

func (a *App) jobs(ws *domain.Workspace, requested int) int {
	if requested > 0 {
		return requested
	}
	if ws.Current != nil && ws.Current.Jobs > 0 {
		return ws.Current.Jobs
	}
	return 1
}

// pathLocks hands out one mutex per script path so runs of the same script never overlap.
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (p *pathLocks) lock(path string) func() {
	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[string]*sync.Mutex)
	}
	l, ok := p.locks[path]
	if !ok {
		l = &sync.Mutex{}
		p.locks[path] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}
