package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"oona/internal/common"
	"oona/internal/dashboard"
	"oona/internal/models"
	"oona/internal/realtime"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const (
	streamPingInterval = 25 * time.Second
	streamReadTimeout  = 70 * time.Second
	streamWriteTimeout = 10 * time.Second
)

var dashboardUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origin is enforced by the CORS config and the token
	CheckOrigin: func(r *http.Request) bool { return true },
}

// DashboardHandlers serves the staff order dashboard.
type DashboardHandlers struct {
	shared *dashboard.Dashboard
	store  dashboard.OrderStore
	hub    *realtime.Hub
	opts   dashboard.Options
}

// NewDashboardHandlers creates a new dashboard handlers instance. shared backs
// the REST endpoints; each stream connection mounts its own dashboard over
// store and hub.
func NewDashboardHandlers(shared *dashboard.Dashboard, store dashboard.OrderStore, hub *realtime.Hub, opts dashboard.Options) *DashboardHandlers {
	return &DashboardHandlers{shared: shared, store: store, hub: hub, opts: opts}
}

// OutcomeResponse is the JSON form of a status advance outcome.
type OutcomeResponse struct {
	dashboard.Outcome
	Error    string             `json:"error,omitempty"`
	Snapshot dashboard.Snapshot `json:"dashboard"`
}

func newOutcomeResponse(out dashboard.Outcome, snap dashboard.Snapshot) OutcomeResponse {
	resp := OutcomeResponse{Outcome: out, Snapshot: snap}
	if out.Err != nil {
		resp.Error = out.Err.Error()
	}
	return resp
}

// GetDashboard handles GET /admin/dashboard
func (h *DashboardHandlers) GetDashboard(c echo.Context) error {
	snap := h.shared.Snapshot()
	if !snap.Loaded || c.QueryParam("refresh") == "true" {
		if err := h.shared.Refresh(c.Request().Context()); err != nil {
			log.Warnf("dashboard refresh failed: %v", err)
		}
		snap = h.shared.Snapshot()
	}
	return c.JSON(http.StatusOK, snap)
}

// UpdateOrderStatus handles PATCH /admin/orders/:id/status
func (h *DashboardHandlers) UpdateOrderStatus(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		return common.SendValidationError(c, "status", err.Error())
	}

	out := h.shared.AdvanceStatus(c.Request().Context(), id, status)
	resp := newOutcomeResponse(out, h.shared.Snapshot())

	switch out.Phase {
	case dashboard.PhaseSettled:
		return c.JSON(http.StatusOK, resp)
	case dashboard.PhaseRejected:
		return c.JSON(http.StatusConflict, resp)
	default:
		return c.JSON(http.StatusBadGateway, resp)
	}
}

// ResetOrders handles POST /admin/orders/reset with {"confirm": true}
func (h *DashboardHandlers) ResetOrders(c echo.Context) error {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	deleted, err := h.shared.Reset(c.Request().Context(), req.Confirm)
	if err != nil {
		return sendServiceError(c, err, "Orders")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"deleted":   deleted,
		"dashboard": h.shared.Snapshot(),
	})
}

// streamMessage is what a stream client may send.
type streamMessage struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id,omitempty"`
	Status  string `json:"status,omitempty"`
	Confirm bool   `json:"confirm,omitempty"`
}

type streamClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *streamClient) writeJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return s.conn.WriteJSON(v)
}

func (s *streamClient) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteTimeout))
}

func (s *streamClient) sendError(message string) {
	_ = s.writeJSON(map[string]string{"type": "error", "error": message})
}

// Stream handles GET /admin/dashboard/stream. Every state change of the
// connection's dashboard is pushed as a "snapshot" message.
func (h *DashboardHandlers) Stream(c echo.Context) error {
	conn, err := dashboardUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warnf("dashboard stream upgrade failed: %v", err)
		return nil
	}
	client := &streamClient{conn: conn}
	defer conn.Close()

	dash := dashboard.New(h.store, h.hub, h.opts)
	dash.OnChange(func(snap dashboard.Snapshot) {
		if err := client.writeJSON(map[string]interface{}{"type": "snapshot", "dashboard": snap}); err != nil {
			log.Debugf("dashboard stream write failed: %v", err)
		}
	})
	defer dash.Close()

	ctx := c.Request().Context()
	if err := dash.Start(ctx); err != nil {
		log.Warnf("dashboard stream initial load failed: %v", err)
	}

	conn.SetReadLimit(1 << 16)
	_ = conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
	})

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg streamMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				client.sendError("invalid message")
				continue
			}
			h.handleStreamMessage(c, dash, client, msg)
		}
	}()

	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-readDone:
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := client.ping(); err != nil {
				return nil
			}
		}
	}
}

func (h *DashboardHandlers) handleStreamMessage(c echo.Context, dash *dashboard.Dashboard, client *streamClient, msg streamMessage) {
	ctx := c.Request().Context()

	switch strings.ToLower(strings.TrimSpace(msg.Type)) {
	case "refresh":
		if err := dash.Refresh(ctx); err != nil {
			client.sendError(err.Error())
		}
	case "advance":
		id, err := uuid.Parse(msg.OrderID)
		if err != nil {
			client.sendError("invalid order_id")
			return
		}
		status, err := models.ParseOrderStatus(msg.Status)
		if err != nil {
			client.sendError(err.Error())
			return
		}
		out := dash.AdvanceStatus(ctx, id, status)
		resp := newOutcomeResponse(out, dash.Snapshot())
		_ = client.writeJSON(map[string]interface{}{"type": "outcome", "outcome": resp})
	case "reset":
		deleted, err := dash.Reset(ctx, msg.Confirm)
		if err != nil {
			client.sendError(err.Error())
			return
		}
		_ = client.writeJSON(map[string]interface{}{"type": "reset", "deleted": deleted})
	default:
		client.sendError("unknown message type")
	}
}
