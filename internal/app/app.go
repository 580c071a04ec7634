package app

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"zip_compression/config"
	"zip_compression/internal/compression"
	"zip_compression/internal/controller/cli"
	"zip_compression/internal/telemetry/metric"
	"zip_compression/pkg/logger"

	ttrace "zip_compression/internal/telemetry/trace"
)

const metricNamespace = "zipper"

type App struct {
	traceProviderCloseFn []ttrace.CloseFunc
	metrics              *metric.Recorder

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	logOut io.Writer
}

type Option func(*App)

// WithIO replaces the process standard streams.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) {
		a.in = in
		a.out = out
		a.errOut = errOut
	}
}

// WithLogOutput sends structured logs to w instead of standard error.
func WithLogOutput(w io.Writer) Option {
	return func(a *App) {
		a.logOut = w
	}
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{
		metrics: metric.NewRecorder(metricNamespace),
		in:      os.Stdin,
		out:     os.Stdout,
		errOut:  os.Stderr,
		logOut:  os.Stderr,
	}
	for _, o := range opts {
		o(a)
	}

	if err := a.InitGlobalProvider(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// Run performs a single interactive compression and releases telemetry.
func (a *App) Run(ctx context.Context, cfg *config.Config) error {
	l := logger.NewWithWriter(cfg.Log.Level, a.logOut).With("run_id", uuid.NewString())
	l.Info("%s %s starting", cfg.App.Name, cfg.App.Version)

	cu := compression.NewCompressionUsecase(cfg, a.metrics, l)
	handler := cli.NewCompressionHandler(cu, l, a.in, a.out, a.errOut)

	err := handler.Run(ctx)

	if mErr := a.metrics.WriteTextfile(cfg.TextfilePath); mErr != nil {
		l.Error("app - Run - metrics.WriteTextfile: %v", mErr)
	}

	a.shutdown(l)
	return err
}

func (a *App) shutdown(l logger.Interface) {
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, closeFn := range a.traceProviderCloseFn {
		if err := closeFn(ctxShutDown); err != nil {
			l.Error("unable to close trace provider: %v", err)
		}
	}
	a.traceProviderCloseFn = nil
}
