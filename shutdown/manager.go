package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hashart/core"
)

// DefaultTimeout bounds how long Shutdown waits for in-flight renders and hooks.
const DefaultTimeout = 30 * time.Second

// Manager ties an OperationTracker, a Registry and a SignalCounter together
// for one command invocation.
//
//	m := shutdown.NewManager(log.Zap())
//	m.Listen()
//	m.OnShutdown("history", shutdown.PriorityHistory, closeHistory)
//	err := m.Do(m.Context(), "render", renderOne)
//	_ = m.Shutdown()
//	os.Exit(m.ExitCode(err))
type Manager struct {
	logger  *zap.Logger
	timeout time.Duration
	exit    func(int)

	mu        sync.Mutex
	listening bool
	stopped   bool

	ctx    context.Context
	cancel context.CancelFunc

	ops     *OperationTracker
	hooks   *Registry
	signals *SignalCounter
	sigCh   chan os.Signal
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithExit replaces os.Exit for the forced-exit path.
func WithExit(exit func(int)) Option {
	return func(m *Manager) {
		if exit != nil {
			m.exit = exit
		}
	}
}

// NewManager returns a Manager whose context is live until the first signal
// or an explicit Interrupt.
func NewManager(logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		logger:  logger.Named("shutdown"),
		timeout: DefaultTimeout,
		exit:    os.Exit,
		ctx:     ctx,
		cancel:  cancel,
		ops:     NewOperationTracker(),
		hooks:   NewRegistry(),
		sigCh:   make(chan os.Signal, 2),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.signals = NewSignalCounter(2, func(sig os.Signal) {
		m.logger.Warn("second signal received, exiting immediately", zap.String("signal", sig.String()))
		_ = m.logger.Sync()
		m.exit(SignalExitCode(sig))
	})
	return m
}

// Context is cancelled when shutdown is requested.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// OnShutdown registers a cleanup hook.
func (m *Manager) OnShutdown(name string, priority int, fn core.ShutdownFunc) {
	m.hooks.Register(name, priority, fn)
	m.logger.Debug("registered shutdown hook", zap.String("hook", name), zap.Int("priority", priority))
}

// Listen subscribes to SIGINT and SIGTERM. Calling it again is a no-op.
func (m *Manager) Listen() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listening || m.stopped {
		return
	}
	m.listening = true
	signal.Notify(m.sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range m.sigCh {
			m.Interrupt(sig)
		}
	}()
}

// Interrupt behaves as if sig had been delivered to the process.
func (m *Manager) Interrupt(sig os.Signal) {
	if m.signals.Record(sig) == 1 {
		m.logger.Info("shutdown requested, finishing in-flight renders", zap.String("signal", sig.String()))
		m.cancel()
	}
}

// Do runs fn as a tracked operation. It refuses to start once shutdown has
// begun or ctx is already done.
func (m *Manager) Do(ctx context.Context, name string, fn func(context.Context) error) error {
	if !m.ops.Start() {
		m.logger.Debug("operation rejected", zap.String("operation", name))
		return ErrTrackerClosed
	}
	defer m.ops.Done()

	if err := ctx.Err(); err != nil {
		return err
	}
	if m.ctx.Err() != nil {
		return context.Canceled
	}
	return fn(ctx)
}

// Shutdown stops accepting operations, waits for the running ones, then
// runs the hooks with whatever time is left (at least one second).
// Only the first call does anything.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	listening := m.listening
	m.mu.Unlock()

	if listening {
		signal.Stop(m.sigCh)
		close(m.sigCh)
	}
	defer m.cancel()

	start := time.Now()
	m.ops.Close()
	if n := m.ops.Active(); n > 0 {
		m.logger.Info("waiting for in-flight operations", zap.Int("active", n))
	}
	if err := m.ops.Wait(m.timeout); err != nil {
		m.logger.Warn("in-flight operations still running", zap.Int("active", m.ops.Active()), zap.Duration("waited", time.Since(start)))
	}

	remaining := m.timeout - time.Since(start)
	if remaining < time.Second {
		remaining = time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), remaining)
	defer cancel()

	errs := m.hooks.Run(ctx)
	for _, err := range errs {
		m.logger.Error("shutdown hook failed", zap.Error(err))
	}
	m.logger.Debug("shutdown complete", zap.Duration("duration", time.Since(start)), zap.Int("failed_hooks", len(errs)))

	if len(errs) > 0 {
		return fmt.Errorf("shutdown: %d hook(s) failed: %w", len(errs), errs[0])
	}
	return nil
}

// ExitCode picks the process exit code: a received signal wins, then err.
func (m *Manager) ExitCode(err error) int {
	if sig := m.signals.First(); sig != nil {
		return SignalExitCode(sig)
	}
	return core.ExitCodeForError(err)
}

// Interrupted reports whether a signal (or Interrupt) was received.
func (m *Manager) Interrupted() bool {
	return m.signals.Count() > 0
}

// Active returns the number of tracked operations in flight.
func (m *Manager) Active() int {
	return m.ops.Active()
}

// IsShuttingDown reports whether Shutdown has been called.
func (m *Manager) IsShuttingDown() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// Hooks lists registered hook names in run order.
func (m *Manager) Hooks() []string {
	return m.hooks.Names()
}
