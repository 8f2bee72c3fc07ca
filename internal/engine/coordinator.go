// Package engine implements the acceptance coordinator: the state
// machine that turns qualifying order signals into automated accept
// actions on a live UI tree.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/orderpilot/orderpilot/internal/classification"
	"github.com/orderpilot/orderpilot/internal/model"
	"github.com/orderpilot/orderpilot/internal/notification"
	"github.com/orderpilot/orderpilot/internal/platform"
	"github.com/orderpilot/orderpilot/internal/screen"
	"github.com/orderpilot/orderpilot/internal/service"
)

// Config holds coordinator tunables. Every duration is a hard bound;
// exceeding a state budget forces the attempt to FAILED so the
// coordinator never wedges on a misbehaving third-party UI.
type Config struct {
	MinInterval     time.Duration // per-platform floor between processed signals
	LocateBudget    time.Duration // LOCATING_CONTROL wall-clock budget
	ConfirmBudget   time.Duration // CONFIRMATION_WAIT wall-clock budget
	DispatchDelay   time.Duration // pause after the accept tap before confirmation checks
	ScreenStaleness time.Duration // max age of a snapshot an attempt will act on
	ConfirmAttempts int
	Retry           service.RetryOptions
	Weights         model.UserWeights
}

// DefaultConfig returns the stock coordinator configuration.
func DefaultConfig() Config {
	return Config{
		MinInterval:     time.Second,
		LocateBudget:    2 * time.Second,
		ConfirmBudget:   3 * time.Second,
		DispatchDelay:   500 * time.Millisecond,
		ScreenStaleness: 2 * time.Second,
		ConfirmAttempts: 3,
		Retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 100 * time.Millisecond,
			MaxDelay:     time.Second,
			Multiplier:   2.0,
		},
		Weights: model.DefaultUserWeights(),
	}
}

// Deps wires the pipeline stages and collaborator interfaces the
// coordinator drives. WakeLock is optional.
type Deps struct {
	Resolver    *platform.Resolver
	Extractor   *notification.Extractor
	Classifier  *classification.Classifier
	Prioritizer *classification.Prioritizer
	Matcher     *screen.Matcher
	Store       service.PlatformStore
	Actuator    service.UIActuator
	Launcher    service.ForegroundLauncher
	Analytics   service.AnalyticsSink
	WakeLock    service.WakeLock
}

// notificationEvent is a raw notification handed to a platform worker.
// Extraction happens on the worker, never on the delivering thread.
type notificationEvent struct {
	observedAt time.Time
	title      string
	body       string
}

// platformWorker serializes all processing for one platform: at most one
// in-flight attempt, new signals dropped while busy. The notifications
// channel holds one pending event so a signal arriving before the worker
// goroutine is scheduled is never lost; busy marks an attempt in flight.
// The worker goroutine is the only writer of lastProcessed and lastOutcome.
type platformWorker struct {
	lastProcessed time.Time
	screens       *screenFeed
	notifications chan notificationEvent
	screenKick    chan struct{}
	platform      model.Platform
	lastOutcome   model.AttemptOutcome
	busy          atomic.Bool
}

// Coordinator owns the per-platform workers and the acceptance state
// machine. Both event entry points are fire-and-forget: they resolve the
// package, hand off, and return.
type Coordinator struct {
	deps    Deps
	ctx     context.Context
	cancel  context.CancelFunc
	workers map[model.Platform]*platformWorker
	config  Config
	wg      sync.WaitGroup
	mu      sync.Mutex
}

// New creates a coordinator. Call Close to abandon in-flight attempts and
// release the workers.
func New(deps Deps, config Config) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())

	if deps.WakeLock == nil {
		deps.WakeLock = noopWakeLock{}
	}

	return &Coordinator{
		deps:    deps,
		config:  config,
		ctx:     ctx,
		cancel:  cancel,
		workers: make(map[model.Platform]*platformWorker),
	}
}

// OnNotificationEvent accepts one raw notification. Unsupported packages
// are ignored; everything else is dispatched to the platform's worker,
// or dropped when that worker is mid-pipeline.
func (c *Coordinator) OnNotificationEvent(packageID, title, body string, timestampMillis int64) {
	p, ok := c.deps.Resolver.Resolve(packageID)
	if !ok {
		slog.Debug("Ignoring notification from unsupported package", "package", packageID)
		return
	}

	worker := c.worker(p)
	ev := notificationEvent{
		title:      title,
		body:       body,
		observedAt: time.UnixMilli(timestampMillis),
	}

	if worker.busy.Load() {
		slog.Debug("Dropping signal, platform already mid-pipeline", "platform", p)
		return
	}

	select {
	case worker.notifications <- ev:
	default:
		slog.Debug("Dropping signal, platform already mid-pipeline", "platform", p)
	}
}

// OnScreenEvent accepts one UI-tree snapshot. The snapshot is stored for
// any in-flight attempt and the worker is kicked to pre-warm the screen
// matcher's cache when idle.
func (c *Coordinator) OnScreenEvent(packageID string, kind model.ScreenEventKind, root *model.UINode, timestampMillis int64, screenshot []byte) {
	p, ok := c.deps.Resolver.Resolve(packageID)
	if !ok {
		return
	}

	worker := c.worker(p)
	worker.screens.update(model.ScreenEvent{
		Platform:   p,
		Kind:       kind,
		Root:       root,
		ObservedAt: time.UnixMilli(timestampMillis),
		Screenshot: screenshot,
	})

	select {
	case worker.screenKick <- struct{}{}:
	default:
	}
}

// Close abandons all in-flight attempts and stops the workers. No
// partial state survives: a new coordinator always starts idle.
func (c *Coordinator) Close() {
	c.cancel()
	c.wg.Wait()
}

// worker returns the platform's worker, creating it on first use.
func (c *Coordinator) worker(p model.Platform) *platformWorker {
	c.mu.Lock()
	defer c.mu.Unlock()

	if w, ok := c.workers[p]; ok {
		return w
	}

	w := &platformWorker{
		platform:      p,
		notifications: make(chan notificationEvent, 1),
		screenKick:    make(chan struct{}, 1),
		screens:       newScreenFeed(),
		lastOutcome:   model.OutcomeAbandoned,
	}
	c.workers[p] = w

	c.wg.Add(1)
	go c.runWorker(w)

	return w
}

// runWorker is the per-platform loop. One notification can sit in the
// channel buffer while the worker is between selects; the busy flag
// covers the attempt itself, so at most one signal is ever pending.
func (c *Coordinator) runWorker(w *platformWorker) {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		case ev := <-w.notifications:
			w.busy.Store(true)
			c.handleNotification(w, ev)
			w.busy.Store(false)
		case <-w.screenKick:
			c.warmScreenCache(w)
		}
	}
}

// handleNotification runs extraction and, for actionable signals, the
// full acceptance attempt.
func (c *Coordinator) handleNotification(w *platformWorker, ev notificationEvent) {
	signal, ok := c.deps.Extractor.Extract(w.platform, ev.title, ev.body, ev.observedAt)
	if !ok {
		slog.Debug("Notification is not an order", "platform", w.platform)
		return
	}
	if !signal.Actionable() {
		slog.Debug("Signal has no actionable amount", "platform", w.platform)
		return
	}

	w.lastOutcome = c.processSignal(w, signal)
}

// warmScreenCache analyzes the latest snapshot while the worker is idle
// so a signal arriving right after finds a warm matcher cache.
func (c *Coordinator) warmScreenCache(w *platformWorker) {
	ev, ok := w.screens.snapshot()
	if !ok {
		return
	}
	c.deps.Matcher.LocateAcceptControl(c.ctx, ev)
}
