package app_test

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/trier/internal/adapters/config"
	"go.trai.ch/trier/internal/adapters/fs"
	"go.trai.ch/trier/internal/adapters/manifest"
	"go.trai.ch/trier/internal/adapters/project"
	"go.trai.ch/trier/internal/adapters/telemetry"
	"go.trai.ch/trier/internal/adapters/yaegi"
	"go.trai.ch/trier/internal/app"
	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports"
	"go.trai.ch/trier/internal/core/ports/mocks"
	"go.trai.ch/trier/internal/engine/generator"
	"go.uber.org/mock/gomock"
)

const scriptDefault = `package main

import "trier"

func Generate() {
	trier.Default().Printf("package %s\n", trier.Project().Name())
}
`

const scriptWithResource = `package main

import "trier"

func Generate() {
	trier.Default().Printf("package %s\n", trier.Project().Name())

	x := trier.File("gen.xml")
	x.WriteString("<root/>")
	x.SetBuildAction(trier.EmbeddedResource)
}
`

const scriptBroken = `package main

import "trier"

func Generate() {
	trier.ErrorAt(2, 1, "broken")
}
`

type recordingReporter struct {
	mu    sync.Mutex
	diags []domain.Diagnostic
}

func (r *recordingReporter) Report(d domain.Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diags = append(r.diags, d)
}

func (r *recordingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.diags)
}

type fixture struct {
	root     string
	app      *app.App
	reporter *recordingReporter
	watcher  *mocks.MockWatcher
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, domain.ProjectFileName), "project: app\njobs: 2\n")

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	w := mocks.NewMockWatcher(ctrl)
	rep := &recordingReporter{}
	manifests := func(ext string) ports.ManifestStore { return manifest.NewStore(ext) }
	factory := generator.NewFactory(yaegi.New(), manifests, fs.NewWriter(), rep, log, telemetry.NewNoOp())

	a := app.New(
		config.NewLoader(log),
		fs.NewFinder(fs.NewWalker()),
		project.NewOpener(),
		factory,
		func() (ports.Watcher, error) { return w, nil },
		log,
	)
	return &fixture{root: root, app: a, reporter: rep, watcher: w}
}

func (f *fixture) path(parts ...string) string {
	return filepath.Join(append([]string{f.root}, parts...)...)
}

func (f *fixture) items(t *testing.T) []domain.ProjectItem {
	t.Helper()
	items, err := f.app.Items(context.Background(), app.ItemsOptions{Dir: f.root})
	require.NoError(t, err)
	return items
}

func TestApp_RunGeneratesEveryScript(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	writeFile(t, f.path("a.gsx"), scriptDefault)
	writeFile(t, f.path("nested", "b.gsx"), scriptWithResource)

	err := f.app.Run(context.Background(), nil, app.RunOptions{Dir: f.root})
	require.NoError(t, err)

	assert.FileExists(t, f.path("a.go"))
	assert.FileExists(t, f.path("nested", "b.go"))
	assert.FileExists(t, f.path("nested", "gen.xml"))
	assert.ElementsMatch(t, []domain.ProjectItem{
		{Path: f.path("a.go"), BuildAction: domain.BuildActionCompile, Project: "app"},
		{Path: f.path("nested", "b.go"), BuildAction: domain.BuildActionCompile, Project: "app"},
		{Path: f.path("nested", "gen.xml"), BuildAction: domain.BuildActionEmbeddedResource, Project: "app"},
	}, f.items(t))
	assert.Zero(t, f.reporter.count())
}

func TestApp_RunNamedScriptsDedupes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	writeFile(t, f.path("a.gsx"), scriptDefault)
	writeFile(t, f.path("other.gsx"), scriptDefault)

	err := f.app.Run(context.Background(), []string{"a.gsx", f.path("a.gsx")}, app.RunOptions{Dir: f.root, Jobs: 4})
	require.NoError(t, err)

	assert.FileExists(t, f.path("a.go"))
	assert.NoFileExists(t, f.path("other.go"))
	assert.Len(t, f.items(t), 1)
}

func TestApp_RunAggregatesFailures(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	writeFile(t, f.path("good.gsx"), scriptDefault)
	writeFile(t, f.path("bad.gsx"), scriptBroken)

	err := f.app.Run(context.Background(), nil, app.RunOptions{Dir: f.root})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrGenerationFailed))
	assert.ErrorContains(t, err, domain.ErrScriptDiagnostics.Error())

	assert.FileExists(t, f.path("good.go"))
	assert.NoFileExists(t, f.path("bad.go"))
	assert.Equal(t, 1, f.reporter.count())
}

func TestApp_RunResolutionErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	outside := filepath.Join(t.TempDir(), "x.gsx")
	writeFile(t, outside, scriptDefault)

	err := f.app.Run(context.Background(), []string{outside}, app.RunOptions{Dir: f.root})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrProjectNotFound.Error())

	err = f.app.Run(context.Background(), []string{"missing.gsx"}, app.RunOptions{Dir: f.root})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrSourceReadFailed.Error())
}

func TestApp_RunRejectsSharedManifest(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	writeFile(t, f.path("gen.gsx"), scriptDefault)
	writeFile(t, f.path("gen.txt"), scriptDefault)

	err := f.app.Run(context.Background(), []string{"gen.gsx", "gen.txt"}, app.RunOptions{Dir: f.root})
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.ErrManifestPathShared))

	writeFile(t, f.path(domain.ProjectFileName), "project: app\nscripts:\n  - \"gen.*\"\n")
	err = f.app.Run(context.Background(), nil, app.RunOptions{Dir: f.root})
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.ErrManifestPathShared))

	assert.NoFileExists(t, f.path("gen.go"))
	assert.NoFileExists(t, f.path("gen.trier"))
}

func TestApp_RunWithoutScripts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.app.Run(context.Background(), nil, app.RunOptions{Dir: f.root}))
	assert.Empty(t, f.items(t))
}

func TestApp_CleanRemovesOutputs(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	writeFile(t, f.path("a.gsx"), scriptWithResource)
	require.NoError(t, f.app.Run(context.Background(), nil, app.RunOptions{Dir: f.root}))
	require.Len(t, f.items(t), 2)

	require.NoError(t, f.app.Clean(context.Background(), nil, app.CleanOptions{Dir: f.root}))

	assert.NoFileExists(t, f.path("a.go"))
	assert.NoFileExists(t, f.path("gen.xml"))
	assert.FileExists(t, f.path("a.gsx"))
	assert.Empty(t, f.items(t))
}

func TestApp_CleanDeletedScriptByName(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	writeFile(t, f.path("a.gsx"), scriptDefault)
	require.NoError(t, f.app.Run(context.Background(), nil, app.RunOptions{Dir: f.root}))
	require.NoError(t, os.Remove(f.path("a.gsx")))

	require.NoError(t, f.app.Clean(context.Background(), []string{"a.gsx"}, app.CleanOptions{Dir: f.root}))

	assert.NoFileExists(t, f.path("a.go"))
	assert.Empty(t, f.items(t))
}

func TestApp_ItemsAcrossWorkspace(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, os.Remove(f.path(domain.ProjectFileName)))
	writeFile(t, f.path(domain.WorkFileName), "projects:\n  - libs/*\n")
	writeFile(t, f.path("libs", "one", domain.ProjectFileName), "project: one\n")
	writeFile(t, f.path("libs", "two", domain.ProjectFileName), "project: two\n")
	writeFile(t, f.path("libs", "one", "a.gsx"), scriptDefault)
	writeFile(t, f.path("libs", "two", "b.gsx"), scriptDefault)

	require.NoError(t, f.app.Run(context.Background(), nil, app.RunOptions{Dir: f.path("libs", "one")}))

	current, err := f.app.Items(context.Background(), app.ItemsOptions{Dir: f.path("libs", "one")})
	require.NoError(t, err)
	assert.Equal(t, []domain.ProjectItem{
		{Path: f.path("libs", "one", "a.go"), BuildAction: domain.BuildActionCompile, Project: "one"},
	}, current)

	all, err := f.app.Items(context.Background(), app.ItemsOptions{Dir: f.path("libs", "one"), All: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	content, err := os.ReadFile(f.path("libs", "two", "b.go"))
	require.NoError(t, err)
	assert.Equal(t, "package two\n", string(content))
}

func TestApp_LoadFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	empty := t.TempDir()

	err := f.app.Run(context.Background(), nil, app.RunOptions{Dir: empty})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to load configuration")
}

// channelEvents adapts a channel to the watcher's event iterator.
func channelEvents(ch <-chan ports.WatchEvent) iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for ev := range ch {
			if !yield(ev) {
				return
			}
		}
	}
}

func TestApp_WatchRegeneratesAndCleans(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	script := f.path("a.gsx")
	writeFile(t, script, scriptDefault)

	events := make(chan ports.WatchEvent)
	f.watcher.EXPECT().Start(gomock.Any(), f.root).Return(nil)
	f.watcher.EXPECT().Events().Return(channelEvents(events))
	f.watcher.EXPECT().Stop().Return(nil)

	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- f.app.Watch(context.Background(), app.WatchOptions{
			Dir:    f.root,
			Window: 10 * time.Millisecond,
			Ready:  ready,
		})
	}()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not become ready")
	}
	assert.FileExists(t, f.path("a.go"))

	writeFile(t, script, scriptWithResource)
	events <- ports.WatchEvent{Path: script, Operation: ports.OpWrite}
	events <- ports.WatchEvent{Path: f.path("a.go"), Operation: ports.OpWrite}
	assert.Eventually(t, func() bool {
		_, err := os.Stat(f.path("gen.xml"))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(script))
	events <- ports.WatchEvent{Path: script, Operation: ports.OpRemove}
	assert.Eventually(t, func() bool {
		_, errGo := os.Stat(f.path("a.go"))
		_, errXML := os.Stat(f.path("gen.xml"))
		return os.IsNotExist(errGo) && os.IsNotExist(errXML)
	}, 5*time.Second, 10*time.Millisecond)

	close(events)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return")
	}
	assert.Empty(t, f.items(t))
}

func TestApp_WatchKeepsOutputsOfLiveScript(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	writeFile(t, f.path(domain.ProjectFileName), "project: app\nscripts:\n  - \"*.gsx\"\n")
	script := f.path("a.gsx")
	writeFile(t, script, scriptWithResource)

	events := make(chan ports.WatchEvent)
	f.watcher.EXPECT().Start(gomock.Any(), f.root).Return(nil)
	f.watcher.EXPECT().Events().Return(channelEvents(events))
	f.watcher.EXPECT().Stop().Return(nil)

	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- f.app.Watch(context.Background(), app.WatchOptions{
			Dir:    f.root,
			Window: 10 * time.Millisecond,
			Ready:  ready,
		})
	}()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not become ready")
	}
	require.FileExists(t, f.path("gen.xml"))
	require.FileExists(t, f.path("a.trier"))

	require.NoError(t, os.Remove(f.path("a.go")))
	events <- ports.WatchEvent{Path: f.path("a.go"), Operation: ports.OpRemove}
	events <- ports.WatchEvent{Path: f.path("a.trier"), Operation: ports.OpWrite}

	assert.Never(t, func() bool {
		_, errXML := os.Stat(f.path("gen.xml"))
		_, errManifest := os.Stat(f.path("a.trier"))
		return errXML != nil || errManifest != nil
	}, 200*time.Millisecond, 10*time.Millisecond)

	close(events)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return")
	}
	assert.FileExists(t, script)
	assert.Len(t, f.items(t), 2)
}

func TestApp_WatchStartFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.watcher.EXPECT().Start(gomock.Any(), f.root).Return(assert.AnError)
	f.watcher.EXPECT().Stop().Return(nil)

	err := f.app.Watch(context.Background(), app.WatchOptions{Dir: f.root})
	require.Error(t, err)
	assert.ErrorContains(t, err, assert.AnError.Error())
}
