package reconciler_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/trier/internal/adapters/fs"
	"go.trai.ch/trier/internal/adapters/manifest"
	"go.trai.ch/trier/internal/adapters/project/memory"
	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports/mocks"
	"go.trai.ch/trier/internal/engine/reconciler"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	root     string
	source   string
	project  *memory.Project
	solution *memory.Solution
	store    *manifest.Store
	reporter *mocks.MockReporter
	logger   *mocks.MockLogger
	rec      *reconciler.Reconciler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	root := t.TempDir()
	sol := memory.NewSolution()
	f := &fixture{
		root:     root,
		source:   filepath.Join(root, "gen.csx"),
		solution: sol,
		project:  sol.NewProject("app", root),
		store:    manifest.NewStore(""),
		reporter: mocks.NewMockReporter(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	f.rec = reconciler.New(f.store, fs.NewWriter(), f.reporter, f.logger)
	return f
}

func (f *fixture) path(name string) string {
	return filepath.Join(f.root, name)
}

func (f *fixture) reconcile(t *testing.T, artifacts ...domain.Artifact) (reconciler.Summary, error) {
	t.Helper()
	return f.rec.Reconcile(context.Background(), f.project, f.source, domain.EvaluationResult{Artifacts: artifacts})
}

func (f *fixture) manifest(t *testing.T) []string {
	t.Helper()
	paths, err := f.store.Load(f.source)
	require.NoError(t, err)
	return paths
}

func (f *fixture) item(t *testing.T, path string) *domain.ProjectItem {
	t.Helper()
	item, err := f.project.FindItem(path)
	require.NoError(t, err)
	return item
}

func artifact(path, content string, action domain.BuildAction) domain.Artifact {
	return domain.Artifact{Path: path, Content: []byte(content), BuildAction: action}
}

func TestReconcile_GeneratesAndRegisters(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	gen := f.path("gen.cs")
	summary, err := f.reconcile(t, artifact(gen, "class Gen {}", domain.BuildActionCompile))
	require.NoError(t, err)

	assert.Equal(t, reconciler.Summary{Written: 1, Added: 1, State: domain.RunStateDone}, summary)
	data, err := os.ReadFile(gen)
	require.NoError(t, err)
	assert.Equal(t, "class Gen {}", string(data))
	require.NotNil(t, f.item(t, gen))
	assert.Equal(t, domain.BuildActionCompile, f.item(t, gen).BuildAction)
	assert.Equal(t, []string{gen}, f.manifest(t))

	// Second run adds an embedded resource next to the source.
	xml := f.path("gen.xml")
	summary, err = f.reconcile(t,
		artifact(gen, "class Gen {}", domain.BuildActionCompile),
		artifact(xml, "<root/>", domain.BuildActionEmbeddedResource),
	)
	require.NoError(t, err)

	assert.Equal(t, reconciler.Summary{Written: 1, Unchanged: 1, Added: 1, State: domain.RunStateDone}, summary)
	assert.Equal(t, domain.BuildActionEmbeddedResource, f.item(t, xml).BuildAction)
	assert.Equal(t, domain.BuildActionCompile, f.item(t, gen).BuildAction)
	assert.Equal(t, []string{gen, xml}, f.manifest(t))
}

func TestReconcile_Idempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	artifacts := []domain.Artifact{
		artifact(f.path("a.cs"), "a", domain.BuildActionCompile),
		artifact(f.path("b.txt"), "b", domain.BuildActionContent),
		artifact(f.path("c.log"), "c", domain.BuildActionGenerateOnly),
	}
	_, err := f.reconcile(t, artifacts...)
	require.NoError(t, err)
	before := f.project.Counts()

	summary, err := f.reconcile(t, artifacts...)
	require.NoError(t, err)

	assert.False(t, summary.Changed())
	assert.Equal(t, 3, summary.Unchanged)
	assert.Equal(t, before, f.project.Counts())
	assert.Equal(t, domain.EvaluationResult{Artifacts: artifacts}.Paths(), f.manifest(t))
}

func TestReconcile_RemovesStaleOutputs(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	a, b, log := f.path("a.cs"), f.path("b.cs"), f.path("build.log")
	_, err := f.reconcile(t,
		artifact(a, "a", domain.BuildActionCompile),
		artifact(b, "b", domain.BuildActionCompile),
		artifact(log, "log", domain.BuildActionGenerateOnly),
	)
	require.NoError(t, err)

	summary, err := f.reconcile(t, artifact(a, "a", domain.BuildActionCompile))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Removed)
	assert.Nil(t, f.item(t, b))
	assert.NoFileExists(t, b)
	assert.NoFileExists(t, log)
	assert.FileExists(t, a)
	assert.Equal(t, []string{a}, f.manifest(t))
}

func TestReconcile_StaleFileAlreadyGone(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	b := f.path("b.cs")
	_, err := f.reconcile(t, artifact(b, "b", domain.BuildActionCompile))
	require.NoError(t, err)
	require.NoError(t, os.Remove(b))

	summary, err := f.reconcile(t)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Removed)
	assert.Nil(t, f.item(t, b))
	assert.Empty(t, f.manifest(t))
}

func TestReconcile_GenerateOnlyIsNeverRegistered(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	out := f.path("schema.json")
	summary, err := f.reconcile(t, artifact(out, "{}", domain.BuildActionGenerateOnly))
	require.NoError(t, err)

	assert.Equal(t, reconciler.Summary{Written: 1, State: domain.RunStateDone}, summary)
	assert.FileExists(t, out)
	assert.Nil(t, f.item(t, out))
	assert.Zero(t, f.project.Counts().Total())
	assert.Equal(t, []string{out}, f.manifest(t))
}

func TestReconcile_UpdatesChangedBuildAction(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res := f.path("res.xml")
	_, err := f.reconcile(t, artifact(res, "<x/>", domain.BuildActionNone))
	require.NoError(t, err)

	summary, err := f.reconcile(t, artifact(res, "<x/>", domain.BuildActionEmbeddedResource))
	require.NoError(t, err)

	assert.Equal(t, reconciler.Summary{Unchanged: 1, Updated: 1, State: domain.RunStateDone}, summary)
	assert.Equal(t, domain.BuildActionEmbeddedResource, f.item(t, res).BuildAction)
}

func TestReconcile_AdoptsExistingItem(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	gen := f.path("gen.cs")
	f.project.Seed(gen, domain.BuildActionCompile)

	summary, err := f.reconcile(t, artifact(gen, "x", domain.BuildActionCompile))
	require.NoError(t, err)

	assert.Zero(t, summary.Added)
	assert.Zero(t, f.project.Counts().Total())
}

func TestReconcile_AbortsOnDiagnostics(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	gen := f.path("gen.cs")
	_, err := f.reconcile(t, artifact(gen, "old", domain.BuildActionCompile))
	require.NoError(t, err)
	before := f.project.Counts()

	diags := []domain.Diagnostic{
		{Path: f.source, Message: "first", Line: 1, Column: 1},
		{Path: f.source, Message: "second"},
	}
	gomock.InOrder(
		f.reporter.EXPECT().Report(diags[0]),
		f.reporter.EXPECT().Report(diags[1]),
	)

	summary, err := f.rec.Reconcile(context.Background(), f.project, f.source, domain.EvaluationResult{
		Artifacts:   []domain.Artifact{artifact(gen, "new", domain.BuildActionCompile), artifact(f.path("other.cs"), "", domain.BuildActionCompile)},
		Diagnostics: diags,
	})
	require.ErrorContains(t, err, domain.ErrScriptDiagnostics.Error())

	assert.Equal(t, domain.RunStateAborted, summary.State)
	assert.False(t, summary.Changed())
	assert.Equal(t, before, f.project.Counts())
	data, err := os.ReadFile(gen)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	assert.NoFileExists(t, f.path("other.cs"))
	assert.Equal(t, []string{gen}, f.manifest(t))
}

func TestReconcile_FailureKeepsManifest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		op       string
		contains string
	}{
		{"add", memory.OpAddItemFromFile, domain.ErrProjectItemAddFailed.Error()},
		{"update", memory.OpSetItemBuildAction, domain.ErrProjectItemUpdateFailed.Error()},
		{"lookup", memory.OpFindItem, domain.ErrProjectItemLookupFailed.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)

			old := f.path("old.cs")
			_, err := f.reconcile(t, artifact(old, "old", domain.BuildActionCompile))
			require.NoError(t, err)

			f.project.FailOn(tt.op, errors.New("project is read-only"))
			summary, err := f.reconcile(t, artifact(f.path("new.cs"), "new", domain.BuildActionCompile))

			require.ErrorContains(t, err, tt.contains)
			require.ErrorContains(t, err, "project is read-only")
			assert.Equal(t, domain.RunStateFailed, summary.State)
			assert.Equal(t, []string{old}, f.manifest(t))
		})
	}
}

func TestReconcile_DeleteFailureKeepsManifest(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	old := f.path("old.cs")
	_, err := f.reconcile(t, artifact(old, "old", domain.BuildActionCompile))
	require.NoError(t, err)

	f.project.FailOn(memory.OpDeleteItem, errors.New("locked"))
	summary, err := f.reconcile(t)

	require.ErrorContains(t, err, domain.ErrProjectItemDeleteFailed.Error())
	assert.Equal(t, domain.RunStateFailed, summary.State)
	assert.FileExists(t, old)
	assert.Equal(t, []string{old}, f.manifest(t))

	// Once the project accepts changes again the next run converges.
	f.project.FailOn(memory.OpDeleteItem, nil)
	_, err = f.reconcile(t)
	require.NoError(t, err)
	assert.NoFileExists(t, old)
	assert.Empty(t, f.manifest(t))
}

func TestReconcile_LeavesOtherProjectsAlone(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	lib := f.solution.NewProject("lib", filepath.Join(f.root, "lib"))
	shared := filepath.Join(f.root, "lib", "shared.cs")
	require.NoError(t, os.MkdirAll(filepath.Dir(shared), 0o750))
	require.NoError(t, os.WriteFile(shared, []byte("lib"), 0o600))
	lib.Seed(shared, domain.BuildActionCompile)

	require.NoError(t, f.store.Save(f.source, []string{shared}))
	f.logger.EXPECT().Warn(gomock.Any())

	summary, err := f.reconcile(t)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.Zero(t, summary.Removed)
	assert.FileExists(t, shared)
	item, err := lib.FindItem(shared)
	require.NoError(t, err)
	assert.NotNil(t, item)
	assert.Empty(t, f.manifest(t))
}

func TestReconcile_UnreadableManifestIsEmpty(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	root := t.TempDir()
	src := filepath.Join(root, "gen.gsx")
	gen := filepath.Join(root, "gen.go")

	store := mocks.NewMockManifestStore(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	p := memory.NewSolution().NewProject("app", root)

	store.EXPECT().Load(src).Return(nil, errors.New("permission denied"))
	store.EXPECT().Path(src).Return(filepath.Join(root, "gen.trier"))
	logger.EXPECT().Warn(gomock.Any())
	store.EXPECT().Save(src, []string{gen}).Return(nil)

	rec := reconciler.New(store, fs.NewWriter(), mocks.NewMockReporter(ctrl), logger)
	summary, err := rec.Reconcile(context.Background(), p, src, domain.EvaluationResult{
		Artifacts: []domain.Artifact{artifact(gen, "package gen", domain.BuildActionCompile)},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RunStateDone, summary.State)
}

func TestReconcile_ManifestSaveFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	root := t.TempDir()
	src := filepath.Join(root, "gen.gsx")
	gen := filepath.Join(root, "gen.go")

	store := mocks.NewMockManifestStore(ctrl)
	p := memory.NewSolution().NewProject("app", root)

	store.EXPECT().Load(src).Return([]string{}, nil)
	store.EXPECT().Save(src, []string{gen}).Return(domain.ErrManifestWriteFailed)

	rec := reconciler.New(store, fs.NewWriter(), mocks.NewMockReporter(ctrl), mocks.NewMockLogger(ctrl))
	summary, err := rec.Reconcile(context.Background(), p, src, domain.EvaluationResult{
		Artifacts: []domain.Artifact{artifact(gen, "package gen", domain.BuildActionCompile)},
	})

	require.ErrorContains(t, err, domain.ErrManifestWriteFailed.Error())
	assert.Equal(t, domain.RunStateFailed, summary.State)
	// Mutations before the commit are not rolled back.
	assert.Equal(t, 1, p.Counts().Added)
	assert.FileExists(t, gen)
}

func TestReconcile_WriteFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	src := filepath.Join("/work", "gen.gsx")
	gen := filepath.Join("/work", "gen.go")

	writer := mocks.NewMockOutputWriter(ctrl)
	writer.EXPECT().Write(gen, []byte("x")).Return(false, domain.ErrArtifactWriteFailed)
	p := memory.NewSolution().NewProject("app", "/work")

	rec := reconciler.New(mocks.NewMockManifestStore(ctrl), writer, mocks.NewMockReporter(ctrl), mocks.NewMockLogger(ctrl))
	summary, err := rec.Reconcile(context.Background(), p, src, domain.EvaluationResult{
		Artifacts: []domain.Artifact{artifact(gen, "x", domain.BuildActionCompile)},
	})

	require.ErrorContains(t, err, domain.ErrArtifactWriteFailed.Error())
	assert.Equal(t, domain.RunStateFailed, summary.State)
	assert.Zero(t, p.Counts().Total())
}

func TestReconcile_LogsToVertex(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	ctrl := gomock.NewController(t)
	vertex := mocks.NewMockVertex(ctrl)
	vertex.EXPECT().Log(domain.LogLevelInfo, gomock.Any()).Times(2)

	ctx := portsContext(vertex)
	_, err := f.rec.Reconcile(ctx, f.project, f.source, domain.EvaluationResult{
		Artifacts: []domain.Artifact{artifact(f.path("gen.cs"), "x", domain.BuildActionCompile)},
	})
	require.NoError(t, err)
}
