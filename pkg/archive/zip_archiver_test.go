package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"zip_compression/entity"
)

var allMethods = []struct {
	method entity.Method
	zipID  uint16
}{
	{entity.MethodDeflate, 8},
	{entity.MethodStore, 0},
	{entity.MethodBzip2, 12},
	{entity.MethodZstd, 93},
}

func testObject(t *testing.T, name string, size int) entity.FileObject {
	t.Helper()
	body := make([]byte, size)
	_, err := rand.Read(body)
	require.NoError(t, err)
	return entity.FileObject{
		Name:    name,
		Body:    body,
		ModTime: time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestZipRoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, tc := range allMethods {
		t.Run(tc.method.String(), func(t *testing.T) {
			fo := testObject(t, "some/dir/data.bin", 64*1024)

			var buf bytes.Buffer
			a := NewZipArchiever(tc.method, 6)
			require.NoError(t, a.Compress(ctx, []entity.FileObject{fo}, &buf))

			zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
			require.NoError(t, err)
			require.Len(t, zr.File, 1)
			assert.Equal(t, tc.zipID, zr.File[0].Method)
			assert.Equal(t, "some/dir/data.bin", zr.File[0].Name)
			assert.Equal(t, DefaultFileMode, zr.File[0].Mode().Perm())

			files, err := a.Extract(ctx, bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			require.Len(t, files, 1)
			assert.Equal(t, fo.Name, files[0].Name)
			assert.True(t, bytes.Equal(fo.Body, files[0].Body), "decompressed bytes differ")
		})
	}
}

func TestZipHelloWorld(t *testing.T) {
	ctx := context.Background()
	fo := entity.FileObject{Name: "hello.txt", Body: []byte("hello world")}

	var buf bytes.Buffer
	a := NewZipArchiever(entity.MethodDeflate, 6)
	require.NoError(t, a.Compress(ctx, []entity.FileObject{fo}, &buf))

	files, err := a.Extract(ctx, &buf)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "hello world", string(files[0].Body))
}

func TestZipEmptyBody(t *testing.T) {
	ctx := context.Background()
	for _, tc := range allMethods {
		t.Run(tc.method.String(), func(t *testing.T) {
			var buf bytes.Buffer
			a := NewZipArchiever(tc.method, 9)
			require.NoError(t, a.Compress(ctx, []entity.FileObject{{Name: "empty"}}, &buf))

			files, err := a.Extract(ctx, &buf)
			require.NoError(t, err)
			require.Len(t, files, 1)
			assert.Empty(t, files[0].Body)
		})
	}
}

func TestZipDeterministic(t *testing.T) {
	ctx := context.Background()
	fo := testObject(t, "data.bin", 4096)
	for _, tc := range allMethods {
		t.Run(tc.method.String(), func(t *testing.T) {
			var first, second bytes.Buffer
			require.NoError(t, NewZipArchiever(tc.method, 6).Compress(ctx, []entity.FileObject{fo}, &first))
			require.NoError(t, NewZipArchiever(tc.method, 6).Compress(ctx, []entity.FileObject{fo}, &second))
			assert.Equal(t, first.Bytes(), second.Bytes())
		})
	}
}

func TestZipInvalidMethod(t *testing.T) {
	var buf bytes.Buffer
	err := NewZipArchiever(entity.Method(42), 6).Compress(context.Background(), nil, &buf)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, assert.AnError }

func TestZipWriteError(t *testing.T) {
	fo := testObject(t, "data.bin", 1024)
	err := NewZipArchiever(entity.MethodStore, 6).Compress(context.Background(), []entity.FileObject{fo}, failingWriter{})
	require.Error(t, err)
}

func TestZipExtractGarbage(t *testing.T) {
	_, err := NewZipArchiever(entity.MethodDeflate, 6).Extract(context.Background(), bytes.NewReader([]byte("not a zip")))
	require.Error(t, err)
}

func TestZipCanceledLeavesContainerUnsealed(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	fo := testObject(t, "data.bin", 1024)
	err := NewZipArchiever(entity.MethodDeflate, 6).Compress(ctx, []entity.FileObject{fo}, &buf)
	require.ErrorIs(t, err, context.Canceled)

	_, zipErr := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.Error(t, zipErr, "canceled output must not be a readable zip")

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "compress - zip", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}
