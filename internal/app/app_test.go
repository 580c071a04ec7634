package app

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zip_compression/config"
	"zip_compression/entity"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yml"))
	require.NoError(t, err)
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "hello.txt")
	dest := filepath.Join(dir, "out.zip")
	require.NoError(t, os.WriteFile(source, []byte("hello world"), 0644))

	cfg := testConfig(t)
	cfg.TextfilePath = filepath.Join(dir, "zipper.prom")

	var out, errOut, logs bytes.Buffer
	a, err := New(cfg,
		WithIO(strings.NewReader(source+"\n"+dest+"\n1\n"), &out, &errOut),
		WithLogOutput(&logs),
	)
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background(), cfg))

	assert.Contains(t, out.String(), "Compression successful.")
	assert.Empty(t, errOut.String())

	zr, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)
	assert.Equal(t, source, zr.File[0].Name)
	assert.Equal(t, uint16(zip.Deflate), zr.File[0].Method)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	var body bytes.Buffer
	_, err = body.ReadFrom(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "hello world", body.String())

	prom, err := os.ReadFile(cfg.TextfilePath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `zipper_archives_total{method="Deflated",outcome="success"} 1`)
}

func TestRunInvalidSelectorUsesDeflate(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "hello.txt")
	dest := filepath.Join(dir, "out.zip")
	require.NoError(t, os.WriteFile(source, []byte("hello world"), 0644))

	cfg := testConfig(t)
	var out, errOut, logs bytes.Buffer
	a, err := New(cfg, WithIO(strings.NewReader(source+"\n"+dest+"\n9\n"), &out, &errOut), WithLogOutput(&logs))
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background(), cfg))

	assert.Contains(t, errOut.String(), "Invalid choice, defaulting to Deflated.")

	zr, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer zr.Close()
	assert.Equal(t, uint16(zip.Deflate), zr.File[0].Method)
}

func TestRunMissingSource(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.zip")

	cfg := testConfig(t)
	var out, errOut, logs bytes.Buffer
	a, err := New(cfg, WithIO(strings.NewReader(filepath.Join(dir, "nope")+"\n"+dest+"\n2\n"), &out, &errOut), WithLogOutput(&logs))
	require.NoError(t, err)

	err = a.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, entity.IsErrorKind(err, entity.ErrSourceUnavailable))
	assert.Contains(t, errOut.String(), "An error occurred:")

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewRejectsUnknownExporter(t *testing.T) {
	cfg := testConfig(t)
	cfg.Exporter = "zipkin"
	_, err := New(cfg)
	require.Error(t, err)
}

func TestRunFailurePrintsSingleDiagnosticLine(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	require.Equal(t, "warn", cfg.Log.Level)

	var out, stderr bytes.Buffer
	in := strings.NewReader(filepath.Join(dir, "nope") + "\n" + filepath.Join(dir, "out.zip") + "\n1\n")
	a, err := New(cfg, WithIO(in, &out, &stderr), WithLogOutput(&stderr))
	require.NoError(t, err)

	err = a.Run(context.Background(), cfg)
	require.Error(t, err)

	lines := strings.Split(strings.TrimRight(stderr.String(), "\n"), "\n")
	require.Len(t, lines, 1, "stderr: %q", stderr.String())
	assert.True(t, strings.HasPrefix(lines[0], "An error occurred: source unavailable"))
}

func TestRunInputReadFailure(t *testing.T) {
	cfg := testConfig(t)

	var out, stderr bytes.Buffer
	a, err := New(cfg, WithIO(iotest.ErrReader(iotest.ErrTimeout), &out, &stderr), WithLogOutput(&stderr))
	require.NoError(t, err)

	err = a.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, entity.IsErrorKind(err, entity.ErrInputReadFailed))
	assert.ErrorIs(t, err, iotest.ErrTimeout)
	assert.NotContains(t, stderr.String(), "An error occurred:")
	assert.NotContains(t, out.String(), "Starting compression...")
}
