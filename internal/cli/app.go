package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fekuna/stockmanager/internal/broadcast"
	"github.com/fekuna/stockmanager/internal/coordinator"
	"github.com/fekuna/stockmanager/internal/editsession"
	"github.com/fekuna/stockmanager/internal/fallback"
	"github.com/fekuna/stockmanager/internal/metrics"
	"github.com/fekuna/stockmanager/internal/notify"
	"github.com/fekuna/stockmanager/internal/remote"
	"github.com/fekuna/stockmanager/internal/surface"
	"github.com/fekuna/stockmanager/pkg/cache"
	"github.com/fekuna/stockmanager/pkg/i18n"
	"github.com/fekuna/stockmanager/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app is one client session: both surfaces share a bus, an edit session and a notice center.
type app struct {
	opts     *RootOptions
	logger   logger.ZapLogger
	remote   *remote.Client
	registry *prometheus.Registry
	coord    *coordinator.Coordinator
	bus      *broadcast.Bus
	session  *editsession.Session
	notices  *notify.Center
	list     *surface.List
	form     *surface.Form
	closers  []func()
}

func newCLILogger(w io.Writer, verbose bool) logger.ZapLogger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return logger.FromZap(zap.New(core))
}

func openStorage(opts *RootOptions) (fallback.Storage, func(), error) {
	switch opts.Storage {
	case "memory":
		return fallback.NewMemoryStorage(), func() {}, nil
	case "redis":
		rc, err := cache.NewRedisClient(&cache.Config{
			Addr:     opts.Redis.Addr,
			Password: opts.Redis.Password,
			DB:       opts.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return fallback.NewRedisStorage(rc, "stockctl:"), func() { _ = rc.Close() }, nil
	default:
		return fallback.NewFileStorage(opts.FallbackDir), func() {}, nil
	}
}

// openApp wires a session for cmd. Notices go to stderr so JSON output stays parseable.
func openApp(ctx context.Context, cmd *cobra.Command, opts *RootOptions) (*app, error) {
	log := newCLILogger(cmd.ErrOrStderr(), opts.Verbose)

	tr, err := i18n.New(opts.Locale)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load messages", err)
	}
	for _, file := range opts.LocaleFiles {
		if err := tr.Load(file); err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("load message file %s", file), err)
		}
	}

	storage, closeStorage, err := openStorage(opts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open fallback storage", err)
	}

	a := &app{
		opts:     opts,
		logger:   log,
		remote:   remote.NewClient(opts.BaseURL, opts.Timeout, log),
		registry: prometheus.NewRegistry(),
		bus:      broadcast.NewBus(),
		notices:  notify.NewCenter(tr),
	}
	a.closers = append(a.closers, closeStorage)

	stderr := cmd.ErrOrStderr()
	a.notices.OnShow(func(n notify.Notice) {
		fmt.Fprintf(stderr, "[%s] %s\n", n.Kind, n.Message)
	})

	local := fallback.New(storage, log, fallback.WithKey(opts.FallbackKey))
	a.coord = coordinator.New(a.remote, local, a.bus, metrics.NewSync(a.registry), log)
	a.session = editsession.New(a.bus)
	a.form = surface.NewForm(a.coord, a.session, a.notices)
	a.list = surface.NewList(ctx, a.coord, a.bus, a.session, a.notices, opts.Debounce, log)

	a.closers = append(a.closers, a.list.Close, a.form.Close, a.session.Close, a.notices.Close)
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.logger.Sync()
}
