package compression

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"zip_compression/config"
	"zip_compression/entity"
	"zip_compression/internal/telemetry/metric"
	"zip_compression/pkg/archive"
	"zip_compression/pkg/logger"
)

const traceName = "compression"

// ArchieverFactory builds the archiver used for one request.
type ArchieverFactory func(method entity.Method, level int) archive.Archiver

type CompressionUsecase struct {
	newArchiever ArchieverFactory
	level        int
	entryName    string
	metrics      *metric.Recorder
	l            logger.Interface
}

var _ entity.CompressionUsecase = (*CompressionUsecase)(nil)

func NewCompressionUsecase(cfg *config.Config, metrics *metric.Recorder, l logger.Interface) *CompressionUsecase {
	return &CompressionUsecase{
		newArchiever: archive.NewZipArchiever,
		level:        cfg.CompressionLevel,
		entryName:    cfg.EntryName,
		metrics:      metrics,
		l:            l,
	}
}

// WithArchieverFactory replaces the zip archiver, for tests.
func (c *CompressionUsecase) WithArchieverFactory(f ArchieverFactory) *CompressionUsecase {
	c.newArchiever = f
	return c
}

// Compress writes req.Source as the single entry of a new container at
// req.Destination. The source is read completely before the destination is
// touched, so a missing source never leaves a destination file behind.
func (c *CompressionUsecase) Compress(ctx context.Context, req entity.CompressionRequest) (err error) {
	ctx, span := otel.Tracer(traceName).Start(ctx, "Compress")
	defer span.End()

	span.SetAttributes(
		attribute.String("source", req.Source),
		attribute.String("destination", req.Destination),
		attribute.String("method", req.Method.String()),
	)

	start := time.Now()
	var size int
	defer func() {
		c.metrics.Observe(req.Method.String(), err, size, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	fileObject, err := c.readSource(ctx, req.Source)
	if err != nil {
		return err
	}
	size = len(fileObject.Body)

	c.l.Debug("Creating container %s", req.Destination)
	f, err := os.Create(req.Destination)
	if err != nil {
		return entity.NewArchiveError(entity.ErrDestinationUnavailable, req.Destination, errors.WithStack(err))
	}
	defer func() {
		if f != nil {
			f.Close()
		}
	}()

	c.l.Debug("Writing entry %q using %v", fileObject.Name, req.Method)
	a := c.newArchiever(req.Method, c.level)
	if err := a.Compress(ctx, []entity.FileObject{fileObject}, f); err != nil {
		return entity.NewArchiveError(entity.ErrWriteFailed, req.Destination, err)
	}

	closeErr := f.Close()
	f = nil
	if closeErr != nil {
		return entity.NewArchiveError(entity.ErrWriteFailed, req.Destination, errors.WithStack(closeErr))
	}

	span.AddEvent("container sealed")
	c.l.Info("Compressed %s to %s (%d bytes, %v)", req.Source, req.Destination, size, req.Method)
	return nil
}

func (c *CompressionUsecase) readSource(ctx context.Context, source string) (entity.FileObject, error) {
	_, span := otel.Tracer(traceName).Start(ctx, "readSource")
	defer span.End()

	info, err := os.Stat(source)
	if err != nil {
		return entity.FileObject{}, entity.NewArchiveError(entity.ErrSourceUnavailable, source, errors.WithStack(err))
	}
	if info.IsDir() {
		return entity.FileObject{}, entity.NewArchiveError(entity.ErrSourceUnavailable, source, errors.New("is a directory"))
	}

	body, err := os.ReadFile(source)
	if err != nil {
		return entity.FileObject{}, entity.NewArchiveError(entity.ErrSourceUnavailable, source, errors.WithStack(err))
	}

	return entity.FileObject{
		Name:    c.nameInArchive(source),
		Body:    body,
		Mode:    archive.DefaultFileMode,
		ModTime: info.ModTime(),
	}, nil
}

func (c *CompressionUsecase) nameInArchive(source string) string {
	if c.entryName == config.EntryNameBase {
		return filepath.Base(source)
	}
	return source
}
