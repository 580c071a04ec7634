package archive

import (
	"context"
	"io"

	"zip_compression/entity"
)

const traceName = "archive"

type Archiver interface {
	Compress(ctx context.Context, fileObjects []entity.FileObject, buf io.Writer) error
	Extract(ctx context.Context, r io.Reader) ([]entity.FileObject, error)
}
