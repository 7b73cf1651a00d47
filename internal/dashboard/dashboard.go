// Package dashboard keeps the admin view of active orders and statistics in
// step with the order store.
//
// Local state is changed optimistically when staff advance an order and is
// always reconciled by refetching: after a failed write, after a settle delay
// following a successful write, and on every realtime change notification.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"oona/internal/models"
	"oona/internal/realtime"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

var (
	ErrConfirmationRequired = errors.New("reset must be confirmed")
	ErrOrderNotActive       = errors.New("order is not on the dashboard")
	ErrClosed               = errors.New("dashboard closed")
)

// OrderStore is the authoritative order store.
type OrderStore interface {
	ListActive(ctx context.Context) ([]*models.Order, error)
	Stats(ctx context.Context) (*models.DashboardStats, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	DeleteAll(ctx context.Context) (int64, error)
}

// Snapshot is a copy of the dashboard state at one instant.
type Snapshot struct {
	Orders     []*models.Order       `json:"orders"`
	Pending    []*models.Order       `json:"pending_orders"`
	InProgress []*models.Order       `json:"in_progress_orders"`
	Stats      models.DashboardStats `json:"stats"`
	Loaded     bool                  `json:"loaded"`
	RefreshErr string                `json:"refresh_error,omitempty"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

type Options struct {
	SettleDelay    time.Duration
	RefreshTimeout time.Duration
}

type refreshCall struct {
	done chan struct{}
	err  error
}

type Dashboard struct {
	store   OrderStore
	hub     *realtime.Hub
	opts    Options
	onEvent func(Snapshot)

	mu         sync.RWMutex
	orders     []*models.Order
	stats      models.DashboardStats
	loaded     bool
	refreshErr error
	updatedAt  time.Time

	refreshMu sync.Mutex
	inflight  *refreshCall
	next      *refreshCall

	lifeMu  sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	sub     *realtime.Subscription
	timers  map[*time.Timer]struct{}
	closed  bool
	running sync.WaitGroup
}

// New builds an unmounted dashboard. hub may be nil when no realtime
// notifications are wanted.
func New(store OrderStore, hub *realtime.Hub, opts Options) *Dashboard {
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = 100 * time.Millisecond
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dashboard{
		store:  store,
		hub:    hub,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		orders: []*models.Order{},
		timers: make(map[*time.Timer]struct{}),
	}
}

// OnChange registers fn to receive a snapshot after every state change.
// It must be set before Start.
func (d *Dashboard) OnChange(fn func(Snapshot)) {
	d.onEvent = fn
}

// Start subscribes to order changes and loads the initial state.
func (d *Dashboard) Start(ctx context.Context) error {
	d.lifeMu.Lock()
	if d.closed {
		d.lifeMu.Unlock()
		return ErrClosed
	}
	if d.hub != nil && d.sub == nil {
		d.sub = d.hub.Subscribe()
		d.running.Add(1)
		go d.watch(d.sub)
	}
	d.lifeMu.Unlock()

	return d.Refresh(ctx)
}

func (d *Dashboard) watch(sub *realtime.Subscription) {
	defer d.running.Done()
	for ev := range sub.Events() {
		log.Debugf("dashboard refresh on %s %s", ev.Type, ev.OrderID)
		if err := d.Refresh(d.ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warnf("dashboard refresh after %s failed: %v", ev.Type, err)
		}
	}
}

// Close releases the subscription and cancels pending settle refreshes.
func (d *Dashboard) Close() {
	d.lifeMu.Lock()
	if d.closed {
		d.lifeMu.Unlock()
		return
	}
	d.closed = true
	for t := range d.timers {
		t.Stop()
	}
	d.timers = nil
	sub := d.sub
	d.sub = nil
	d.lifeMu.Unlock()

	d.cancel()
	if sub != nil {
		sub.Unsubscribe()
	}
	d.running.Wait()
}

func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshotLocked()
}

func (d *Dashboard) snapshotLocked() Snapshot {
	snap := Snapshot{
		Orders:     make([]*models.Order, 0, len(d.orders)),
		Pending:    []*models.Order{},
		InProgress: []*models.Order{},
		Stats:      d.stats,
		Loaded:     d.loaded,
		UpdatedAt:  d.updatedAt,
	}
	for _, o := range d.orders {
		c := o.Clone()
		snap.Orders = append(snap.Orders, c)
		switch c.Status {
		case models.OrderStatusPending:
			snap.Pending = append(snap.Pending, c)
		case models.OrderStatusAccepted:
			snap.InProgress = append(snap.InProgress, c)
		}
	}
	if d.refreshErr != nil {
		snap.RefreshErr = d.refreshErr.Error()
	}
	return snap
}

func (d *Dashboard) emit(snap Snapshot) {
	if d.onEvent != nil {
		d.onEvent(snap)
	}
}

// Refresh replaces local state with the store's. Calls that overlap an
// in-flight fetch are coalesced into a single trailing fetch, so every caller
// observes state read after its call began.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.refreshMu.Lock()
	if d.inflight != nil {
		if d.next == nil {
			d.next = &refreshCall{done: make(chan struct{})}
		}
		call := d.next
		d.refreshMu.Unlock()

		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	call := &refreshCall{done: make(chan struct{})}
	d.inflight = call
	d.refreshMu.Unlock()

	d.drive(call)
	return call.err
}

// drive runs call and then any trailing call queued while it ran.
func (d *Dashboard) drive(call *refreshCall) {
	for call != nil {
		call.err = d.fetch()
		close(call.done)

		d.refreshMu.Lock()
		call = d.next
		d.next = nil
		d.inflight = call
		d.refreshMu.Unlock()
	}
}

func (d *Dashboard) fetch() error {
	ctx, cancel := context.WithTimeout(d.ctx, d.opts.RefreshTimeout)
	defer cancel()

	orders, err := d.store.ListActive(ctx)
	if err == nil {
		var stats *models.DashboardStats
		stats, err = d.store.Stats(ctx)
		if err == nil {
			d.mu.Lock()
			d.orders = orders
			if d.orders == nil {
				d.orders = []*models.Order{}
			}
			d.stats = *stats
			d.loaded = true
			d.refreshErr = nil
			d.updatedAt = time.Now()
			snap := d.snapshotLocked()
			d.mu.Unlock()
			d.emit(snap)
			return nil
		}
	}

	err = fmt.Errorf("refresh dashboard: %w", err)
	d.mu.Lock()
	d.refreshErr = err
	snap := d.snapshotLocked()
	d.mu.Unlock()
	d.emit(snap)
	return err
}

func (d *Dashboard) scheduleRefresh(delay time.Duration) {
	d.lifeMu.Lock()
	defer d.lifeMu.Unlock()
	if d.closed {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		d.lifeMu.Lock()
		if d.closed {
			d.lifeMu.Unlock()
			return
		}
		delete(d.timers, t)
		d.running.Add(1)
		d.lifeMu.Unlock()
		defer d.running.Done()

		if err := d.Refresh(d.ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warnf("dashboard settle refresh failed: %v", err)
		}
	})
	d.timers[t] = struct{}{}
}
