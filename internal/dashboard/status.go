package dashboard

import (
	"context"
	"fmt"

	"oona/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// Phase tags how a status advance ended.
type Phase string

const (
	// PhaseRejected: the transition was not allowed; nothing changed.
	PhaseRejected Phase = "rejected"
	// PhaseSettled: the store accepted the change; a reconciling refresh is scheduled.
	PhaseSettled Phase = "settled"
	// PhaseRolledBack: the store refused or failed; local state was refetched.
	PhaseRolledBack Phase = "rolled_back"
)

type Outcome struct {
	Phase   Phase              `json:"phase"`
	OrderID uuid.UUID          `json:"order_id"`
	From    models.OrderStatus `json:"from,omitempty"`
	To      models.OrderStatus `json:"to"`
	Err     error              `json:"-"`
}

func (o Outcome) Error() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// applyLocal performs the optimistic half of an advance and returns the
// status the order had before.
func (d *Dashboard) applyLocal(id uuid.UUID, to models.OrderStatus) (models.OrderStatus, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := -1
	for i, o := range d.orders {
		if o.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", ErrOrderNotActive
	}
	from := d.orders[idx].Status
	if !models.CanTransition(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, from, to)
	}

	// copy on write: the previous slice may still be held by the store
	orders := make([]*models.Order, 0, len(d.orders))
	if to == models.OrderStatusCompleted {
		orders = append(orders, d.orders[:idx]...)
		orders = append(orders, d.orders[idx+1:]...)
	} else {
		updated := d.orders[idx].Clone()
		updated.Status = to
		orders = append(orders, d.orders...)
		orders[idx] = updated
	}
	d.orders = orders
	d.stats.ApplyTransition(from, to)
	return from, nil
}

// AdvanceStatus moves an order to status to: local apply, remote submit, then
// settle (delayed refresh) on success or roll back (immediate refresh) on failure.
func (d *Dashboard) AdvanceStatus(ctx context.Context, id uuid.UUID, to models.OrderStatus) Outcome {
	out := Outcome{OrderID: id, To: to}

	from, err := d.applyLocal(id, to)
	out.From = from
	if err != nil {
		out.Phase = PhaseRejected
		out.Err = err
		return out
	}
	d.emit(d.Snapshot())

	if err := d.store.UpdateStatus(ctx, id, to); err != nil {
		log.Errorf("failed to update order %s to %s: %v", id, to, err)
		out.Phase = PhaseRolledBack
		out.Err = err
		if rerr := d.Refresh(ctx); rerr != nil {
			log.Warnf("rollback refresh failed: %v", rerr)
		}
		return out
	}

	out.Phase = PhaseSettled
	d.scheduleRefresh(d.opts.SettleDelay)
	return out
}

// Reset deletes every order. It refuses to run unless confirmed.
func (d *Dashboard) Reset(ctx context.Context, confirmed bool) (int64, error) {
	if !confirmed {
		return 0, ErrConfirmationRequired
	}
	n, err := d.store.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("reset orders: %w", err)
	}

	d.mu.Lock()
	d.orders = []*models.Order{}
	d.stats = models.DashboardStats{}
	snap := d.snapshotLocked()
	d.mu.Unlock()
	d.emit(snap)

	// the delete stands; a failed refetch shows up as the snapshot's refresh error
	if err := d.Refresh(ctx); err != nil {
		log.Warnf("refresh after reset failed: %v", err)
	}
	return n, nil
}
