package cli

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"zip_compression/entity"
	"zip_compression/pkg/logger"
)

const traceName = "cli"

type CompressionHandler struct {
	cu     entity.CompressionUsecase
	l      logger.Interface
	p      *Prompter
	out    io.Writer
	errOut io.Writer
}

func NewCompressionHandler(cu entity.CompressionUsecase, l logger.Interface, in io.Reader, out, errOut io.Writer) *CompressionHandler {
	return &CompressionHandler{cu: cu, l: l, p: NewPrompter(in, out, errOut), out: out, errOut: errOut}
}

// Run performs one interactive compression. Input read failures are returned
// untouched; archive failures are reported on errOut before being returned.
func (h *CompressionHandler) Run(ctx context.Context) error {
	ctx, span := otel.Tracer(traceName).Start(ctx, "compress-prompt")
	defer span.End()

	req, err := h.p.Collect()
	if err != nil {
		return err
	}

	span.SetAttributes(attribute.String("method", req.Method.String()))
	h.l.Debug("cli - compress: source=%q destination=%q method=%v", req.Source, req.Destination, req.Method)

	fmt.Fprintln(h.out, "Starting compression...")
	if err := h.cu.Compress(ctx, req); err != nil {
		h.l.Debug("cli - compress: %v", err)
		fmt.Fprintf(h.errOut, "An error occurred: %v\n", err)
		return err
	}

	fmt.Fprintln(h.out, "Compression completed successfully!")
	fmt.Fprintf(h.out, "File '%s' has been compressed to '%s'\n", req.Source, req.Destination)
	fmt.Fprintln(h.out, "Compression successful.")
	return nil
}
