package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/trier/cmd/trier/commands"
	"go.trai.ch/trier/internal/adapters/config"
	"go.trai.ch/trier/internal/adapters/fs"
	"go.trai.ch/trier/internal/adapters/manifest"
	"go.trai.ch/trier/internal/adapters/project"
	"go.trai.ch/trier/internal/adapters/reporter"
	"go.trai.ch/trier/internal/adapters/telemetry"
	"go.trai.ch/trier/internal/adapters/yaegi"
	"go.trai.ch/trier/internal/app"
	"go.trai.ch/trier/internal/build"
	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports"
	"go.trai.ch/trier/internal/engine/generator"
)

const script = `package main

import "trier"

func Generate() {
	trier.Default().Println("package app")

	x := trier.File("data.xml")
	x.WriteString("<data/>")
	x.SetBuildAction(trier.Content)
}
`

// stubLogger records messages and whether JSON output was requested.
type stubLogger struct {
	mu   sync.Mutex
	json bool
	msgs []string
}

func (l *stubLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *stubLogger) Info(msg string)     { l.record(msg) }
func (l *stubLogger) Warn(msg string)     { l.record(msg) }
func (l *stubLogger) Error(err error)     { l.record(err.Error()) }
func (l *stubLogger) SetJSON(enable bool) { l.json = enable }

func setup(t *testing.T) (string, *stubLogger, *bytes.Buffer, *app.App) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, domain.ProjectFileName), []byte("project: app\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "gen.gsx"), []byte(script), 0o600))

	log := &stubLogger{}
	diagnostics := &bytes.Buffer{}
	manifests := func(ext string) ports.ManifestStore { return manifest.NewStore(ext) }
	factory := generator.NewFactory(
		yaegi.New(), manifests, fs.NewWriter(), reporter.New(diagnostics, nil), log, telemetry.NewNoOp(),
	)
	unused := func() (ports.Watcher, error) { return nil, assert.AnError }

	a := app.New(config.NewLoader(log), fs.NewFinder(fs.NewWalker()), project.NewOpener(), factory, unused, log)
	return root, log, diagnostics, a
}

func execute(t *testing.T, a *app.App, log ports.Logger, args ...string) (string, error) {
	t.Helper()

	cli := commands.New(a, log)
	out := &bytes.Buffer{}
	cli.SetOutput(out)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestRun_GeneratesOutputs(t *testing.T) {
	t.Parallel()

	root, log, diagnostics, a := setup(t)

	_, err := execute(t, a, log, "run", "-C", root, "-j", "2")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(root, "gen.go"))
	require.NoError(t, err)
	assert.Equal(t, "package app\n", string(content))
	assert.FileExists(t, filepath.Join(root, "data.xml"))
	assert.Empty(t, diagnostics.String())
	assert.False(t, log.json)
}

func TestRun_JSONFlag(t *testing.T) {
	t.Parallel()

	root, log, _, a := setup(t)

	_, err := execute(t, a, log, "run", "--json", "-C", root)
	require.NoError(t, err)
	assert.True(t, log.json)
}

func TestRun_FailureIsDiagnosed(t *testing.T) {
	t.Parallel()

	root, log, diagnostics, a := setup(t)
	broken := "package main\n\nfunc Generate() {\n\tmissing()\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "gen.gsx"), []byte(broken), 0o600))

	_, err := execute(t, a, log, "run", "-C", root, "gen.gsx")
	require.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.Contains(t, diagnostics.String(), "gen.gsx(4,")
	assert.Contains(t, diagnostics.String(), ": error: ")
}

func TestItems_ListsBuildActions(t *testing.T) {
	t.Parallel()

	root, log, _, a := setup(t)
	_, err := execute(t, a, log, "run", "-C", root)
	require.NoError(t, err)

	out, err := execute(t, a, log, "items", "-C", root)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"Compile", "gen.go"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Content", "data.xml"}, strings.Fields(lines[1]))

	out, err = execute(t, a, log, "items", "--all", "-C", root)
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "Compile", "gen.go"}, strings.Fields(strings.Split(out, "\n")[0]))
}

func TestClean_RemovesOutputs(t *testing.T) {
	t.Parallel()

	root, log, _, a := setup(t)
	_, err := execute(t, a, log, "run", "-C", root)
	require.NoError(t, err)

	_, err = execute(t, a, log, "clean", "-C", root)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(root, "gen.go"))
	assert.NoFileExists(t, filepath.Join(root, "data.xml"))
	assert.FileExists(t, filepath.Join(root, "gen.gsx"))
}

func TestWatch_FactoryError(t *testing.T) {
	t.Parallel()

	root, log, _, a := setup(t)

	_, err := execute(t, a, log, "watch", "-C", root, "--debounce", "10ms")
	require.ErrorIs(t, err, assert.AnError)
}

func TestVersion(t *testing.T) {
	t.Parallel()

	_, log, _, a := setup(t)

	out, err := execute(t, a, log, "version")
	require.NoError(t, err)
	assert.Equal(t, "trier version "+build.Version+" ("+build.Commit+", "+build.Date+")\n", out)

	out, err = execute(t, a, log, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)
}
