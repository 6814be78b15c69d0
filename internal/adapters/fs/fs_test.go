package fs_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/trier/internal/adapters/fs"
	"go.trai.ch/trier/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_WalkFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "config"), "git config")
	writeFile(t, filepath.Join(root, ".trier", "items.yaml"), "items: []")
	writeFile(t, filepath.Join(root, "ignored", "file"), "ignored")
	writeFile(t, filepath.Join(root, "nested", domain.ProjectFileName), "project: nested")
	writeFile(t, filepath.Join(root, "nested", "gen.gsx"), "package main")
	writeFile(t, filepath.Join(root, "src", "main.go"), "package main")
	writeFile(t, filepath.Join(root, "README.md"), "# Readme")

	var got []string
	for path := range fs.NewWalker().WalkFiles(root, []string{"ignored"}) {
		got = append(got, path)
	}
	slices.Sort(got)

	assert.Equal(t, []string{
		filepath.Join(root, "README.md"),
		filepath.Join(root, "src", "main.go"),
	}, got)
}

func TestWalker_StopsEarly(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), "")
	writeFile(t, filepath.Join(root, "b"), "")

	count := 0
	for range fs.NewWalker().WalkFiles(root, nil) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestFinder_Find(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "gen.gsx"), "")
	writeFile(t, filepath.Join(root, "api", "client.GSX"), "")
	writeFile(t, filepath.Join(root, "api", "deep", "server.gsx"), "")
	writeFile(t, filepath.Join(root, "tools", "other.tmpl"), "")
	writeFile(t, filepath.Join(root, "main.go"), "")

	finder := fs.NewFinder(fs.NewWalker())

	t.Run("by extension", func(t *testing.T) {
		t.Parallel()
		got, err := finder.Find(&domain.ProjectConfig{Root: root, ScriptExtension: "gsx"})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "api", "client.GSX"),
			filepath.Join(root, "api", "deep", "server.gsx"),
			filepath.Join(root, "gen.gsx"),
		}, got)
	})

	t.Run("by pattern", func(t *testing.T) {
		t.Parallel()
		got, err := finder.Find(&domain.ProjectConfig{
			Root:    root,
			Scripts: []string{"api/**/*.gsx", "tools/*.tmpl"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "api", "deep", "server.gsx"),
			filepath.Join(root, "tools", "other.tmpl"),
		}, got)
	})

	t.Run("by brace pattern", func(t *testing.T) {
		t.Parallel()
		got, err := finder.Find(&domain.ProjectConfig{
			Root:    root,
			Scripts: []string{"{gen,tools/*}.{gsx,tmpl}"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "gen.gsx"),
			filepath.Join(root, "tools", "other.tmpl"),
		}, got)
	})

	t.Run("bad pattern", func(t *testing.T) {
		t.Parallel()
		_, err := finder.Find(&domain.ProjectConfig{Root: root, Scripts: []string{"[z-a"}})
		require.ErrorContains(t, err, domain.ErrScriptDiscoveryFailed.Error())
	})

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()
		_, err := finder.Find(&domain.ProjectConfig{Root: filepath.Join(root, "missing")})
		require.ErrorContains(t, err, domain.ErrScriptDiscoveryFailed.Error())
	})
}

func TestFinder_SharedManifest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "gen.gsx"), "")
	writeFile(t, filepath.Join(root, "gen.txt"), "")

	finder := fs.NewFinder(fs.NewWalker())

	_, err := finder.Find(&domain.ProjectConfig{Root: root, Scripts: []string{"gen.*"}})
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.ErrManifestPathShared))
	assert.ErrorContains(t, err, domain.ErrManifestPathShared.Error())

	got, err := finder.Find(&domain.ProjectConfig{Root: root, Scripts: []string{"*.gsx"}})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "gen.gsx")}, got)
}

func TestFinder_IsScript(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	finder := fs.NewFinder(fs.NewWalker())

	byExtension := &domain.ProjectConfig{Root: root, ScriptExtension: "gsx"}
	byPattern := &domain.ProjectConfig{Root: root, Scripts: []string{"api/**/*.gsx", "*.*"}}

	tests := []struct {
		name    string
		project *domain.ProjectConfig
		path    string
		want    bool
	}{
		{"script extension", byExtension, filepath.Join(root, "a.gsx"), true},
		{"script extension any case", byExtension, filepath.Join(root, "a.GSX"), true},
		{"generated source", byExtension, filepath.Join(root, "a.go"), false},
		{"nested pattern", byPattern, filepath.Join(root, "api", "v1", "a.gsx"), true},
		{"root pattern", byPattern, filepath.Join(root, "a.go"), true},
		{"manifest never", byPattern, filepath.Join(root, "a.trier"), false},
		{"outside root", byPattern, filepath.Join(filepath.Dir(root), "a.gsx"), false},
		{"unmatched directory", byPattern, filepath.Join(root, "web", "a.gsx"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, finder.IsScript(tt.project, tt.path))
		})
	}
}

func TestWriter_Write(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out", "gen.go")
	w := fs.NewWriter()

	written, err := w.Write(path, []byte("package gen\n"))
	require.NoError(t, err)
	assert.True(t, written)

	written, err = w.Write(path, []byte("package gen\n"))
	require.NoError(t, err)
	assert.False(t, written, "identical content is not rewritten")

	written, err = w.Write(path, []byte("package gen2\n"))
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package gen2\n", string(data))

	written, err = w.Write(path, nil)
	require.NoError(t, err)
	assert.True(t, written)
}

func TestWriter_WriteOverDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "gen.go"), 0o750))

	_, err := fs.NewWriter().Write(filepath.Join(dir, "gen.go"), []byte("x"))
	require.ErrorContains(t, err, domain.ErrArtifactWriteFailed.Error())
}

func TestWriter_Remove(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "gen.go")
	writeFile(t, path, "x")
	w := fs.NewWriter()

	removed, err := w.Remove(path)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = w.Remove(path)
	require.NoError(t, err)
	assert.False(t, removed)
}
