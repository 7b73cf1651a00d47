package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/gommon/log"
)

// ListenConn is a dedicated connection able to receive notifications.
type ListenConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Release()
}

type Connector interface {
	AcquireListenConn(ctx context.Context) (ListenConn, error)
}

type poolConnector struct {
	pool *pgxpool.Pool
}

// NewPoolConnector takes listen connections out of pool.
func NewPoolConnector(pool *pgxpool.Pool) Connector {
	return &poolConnector{pool: pool}
}

type pooledListenConn struct {
	*pgxpool.Conn
}

func (c pooledListenConn) WaitForNotification(ctx context.Context) (*pgconn.Notification, error) {
	return c.Conn.Conn().WaitForNotification(ctx)
}

func (p *poolConnector) AcquireListenConn(ctx context.Context) (ListenConn, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return pooledListenConn{conn}, nil
}

// PGListener turns LISTEN/NOTIFY payloads on the orders channel into hub events.
type PGListener struct {
	connector      Connector
	channel        string
	publisher      Publisher
	reconnectDelay time.Duration
}

func NewPGListener(connector Connector, channel string, publisher Publisher) *PGListener {
	return &PGListener{
		connector:      connector,
		channel:        channel,
		publisher:      publisher,
		reconnectDelay: 2 * time.Second,
	}
}

type notifyPayload struct {
	Op string `json:"op"`
	ID string `json:"id"`
}

// ParsePayload decodes a trigger payload such as {"op":"UPDATE","id":"..."}.
func ParsePayload(payload string) (ChangeEvent, error) {
	var p notifyPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return ChangeEvent{}, fmt.Errorf("invalid notification payload: %w", err)
	}
	ev := ChangeEvent{Type: EventType(strings.ToUpper(p.Op)), ReceivedAt: time.Now()}
	switch ev.Type {
	case EventInsert, EventUpdate, EventDelete:
	default:
		return ChangeEvent{}, fmt.Errorf("unknown notification op %q", p.Op)
	}
	if p.ID != "" {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return ChangeEvent{}, fmt.Errorf("invalid order id in notification: %w", err)
		}
		ev.OrderID = id
	}
	return ev, nil
}

// Run listens until ctx is done, reconnecting after connection failures.
// Every (re)connect publishes a resync since notifications may have been missed.
func (l *PGListener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		log.Warnf("orders listener on %s stopped: %v; reconnecting in %s", l.channel, err, l.reconnectDelay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.reconnectDelay):
		}
	}
}

func (l *PGListener) listen(ctx context.Context) error {
	conn, err := l.connector.AcquireListenConn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", l.channel, err)
	}
	log.Infof("listening for order changes on %s", l.channel)
	l.publisher.Publish(ChangeEvent{Type: EventResync})

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		ev, err := ParsePayload(n.Payload)
		if err != nil {
			log.Warnf("%v", err)
			ev = ChangeEvent{Type: EventResync}
		}
		l.publisher.Publish(ev)
	}
}
