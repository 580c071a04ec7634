package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mholt/archiver/v3"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"zip_compression/entity"
)

// DefaultFileMode is the permission set stored for every entry.
const DefaultFileMode os.FileMode = 0644

type ZipArchiever struct {
	method entity.Method
	level  int
}

// NewZipArchiever returns an Archiver writing every entry with method. level
// applies to Deflate and Bzip2 and must be within 1..9.
func NewZipArchiever(method entity.Method, level int) Archiver {
	return &ZipArchiever{method: method, level: level}
}

func zipMethod(m entity.Method) (archiver.ZipCompressionMethod, error) {
	switch m {
	case entity.MethodDeflate:
		return archiver.Deflate, nil
	case entity.MethodStore:
		return archiver.Store, nil
	case entity.MethodBzip2:
		return archiver.BZIP2, nil
	case entity.MethodZstd:
		return archiver.ZSTD, nil
	}
	return 0, fmt.Errorf("unsupported compression method %d", m)
}

func (z *ZipArchiever) newZip() (*archiver.Zip, error) {
	method, err := zipMethod(z.method)
	if err != nil {
		return nil, err
	}
	zw := archiver.NewZip()
	zw.FileMethod = method
	zw.CompressionLevel = z.level
	// every entry gets the chosen method regardless of its extension
	zw.SelectiveCompression = false
	return zw, nil
}

// Compress writes fileObjects as entries of a new zip container and seals it.
// Closing buf stays with the caller.
//
// On error the container is left unsealed: whatever reached buf is not a
// readable zip.
func (z *ZipArchiever) Compress(ctx context.Context, fileObjects []entity.FileObject, buf io.Writer) (err error) {
	ctx, span := otel.Tracer(traceName).Start(ctx, "compress - zip")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	span.SetAttributes(
		attribute.String("method", z.method.String()),
		attribute.Int("entries", len(fileObjects)),
	)

	zw, err := z.newZip()
	if err != nil {
		return err
	}
	if err := zw.Create(buf); err != nil {
		return errors.Wrap(err, "zip.Create")
	}

	for _, fileObject := range fileObjects {
		if err := ctx.Err(); err != nil {
			return err
		}
		f := archiver.File{
			FileInfo: archiver.FileInfo{
				FileInfo:   newEntryInfo(fileObject),
				CustomName: fileObject.Name,
			},
			ReadCloser: io.NopCloser(bytes.NewReader(fileObject.Body)),
		}
		if err := zw.Write(f); err != nil {
			return errors.Wrapf(err, "writing entry %q", fileObject.Name)
		}
	}

	// Close writes the central directory; without it the container is unreadable.
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "sealing zip")
	}
	return nil
}

func (z *ZipArchiever) Extract(ctx context.Context, buf io.Reader) ([]entity.FileObject, error) {
	ctx, span := otel.Tracer(traceName).Start(ctx, "extract - zip")
	defer span.End()

	body, err := io.ReadAll(buf)
	if err != nil {
		return nil, err
	}

	zr := archiver.NewZip()
	r := bytes.NewReader(body)
	if err := zr.Open(r, r.Size()); err != nil {
		return nil, errors.Wrap(err, "zip.Open")
	}
	defer zr.Close()

	var extractedFiles []entity.FileObject
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := zr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		fileBody, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "reading entry %q", f.Name())
		}

		name := f.Name()
		if header, ok := f.Header.(zip.FileHeader); ok {
			name = header.Name
		}
		extractedFiles = append(extractedFiles, entity.FileObject{
			Name:    name,
			Body:    fileBody,
			Mode:    f.Mode(),
			ModTime: f.ModTime(),
		})
	}
	return extractedFiles, nil
}

// entryInfo presents a FileObject as the os.FileInfo the zip writer derives
// the entry header from.
type entryInfo struct {
	fo entity.FileObject
}

func newEntryInfo(fo entity.FileObject) os.FileInfo {
	if fo.Mode == 0 {
		fo.Mode = DefaultFileMode
	}
	return entryInfo{fo: fo}
}

func (e entryInfo) Name() string       { return e.fo.Name }
func (e entryInfo) Size() int64        { return int64(len(e.fo.Body)) }
func (e entryInfo) Mode() os.FileMode  { return e.fo.Mode }
func (e entryInfo) ModTime() time.Time { return e.fo.ModTime }
func (e entryInfo) IsDir() bool        { return false }
func (e entryInfo) Sys() interface{}   { return nil }
