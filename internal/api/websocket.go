package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nerrad567/switch-studio-core/internal/infrastructure/config"
	"github.com/nerrad567/switch-studio-core/internal/infrastructure/logging"
)

// wsSendBufferSize is the per-client outbound message buffer size. Radar
// frames arrive at up to 10Hz per device, so the buffer absorbs short
// browser stalls before frames are dropped.
const wsSendBufferSize = 256

// Envelope is the wire format in both directions: an event name plus an
// event-specific data object.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// outEnvelope is the outbound counterpart; Data is marshalled in place.
type outEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// SessionHandler receives session lifecycle and command events decoded
// from WebSocket traffic. Implemented by the studio service.
type SessionHandler interface {
	HandleConnect(sid string)
	HandleDisconnect(sid string)
	RequestDevices(sid string)
	RequestSchema(sid string)
	ChangeDevice(sid, topic string)
	UpdateParameter(sid, param string, value any, requestID string)
	ForceSync(sid, requestID string)
	SendCommand(sid string, actionID int, requestID string)
	SetTargetReporting(sid string, enabled bool, requestID string)
	SetBasicControl(sid string, state *string, brightness *int, requestID string)
	SetReportingAutoOff(sid string, enabled bool)
}

// Hub manages WebSocket sessions keyed by session id. It implements the
// emitter interface the bridge service broadcasts through.
type Hub struct {
	cfg     config.WebSocketConfig
	logger  *logging.Logger
	handler SessionHandler
	clients map[string]*WSClient
	mu      sync.RWMutex
}

// WSClient represents one connected browser session.
type WSClient struct {
	hub  *Hub
	id   string
	conn *websocket.Conn
	send chan []byte
}

// upgrader configures the WebSocket upgrader.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Origin checking is handled by CORS middleware
		return true
	},
}

// NewHub creates a new WebSocket hub. SetHandler must be called before the
// first connection is accepted.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	return &Hub{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[string]*WSClient),
	}
}

// SetHandler wires the session handler. Called once at startup, after the
// bridge service (which needs the hub as its emitter) has been built.
func (h *Hub) SetHandler(handler SessionHandler) {
	h.handler = handler
}

// Run starts the hub's main loop. It blocks until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// Register adds a session to the hub and notifies the handler.
func (h *Hub) Register(client *WSClient) {
	h.mu.Lock()
	h.clients[client.id] = client
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "sid", client.id, "clients", h.ClientCount())

	if h.handler != nil {
		h.handler.HandleConnect(client.id)
	}
}

// Unregister removes a session and notifies the handler.
// Only the goroutine that successfully removes the client from the map
// closes the send channel, preventing double-close panics during shutdown.
func (h *Hub) Unregister(client *WSClient) {
	h.mu.Lock()
	_, existed := h.clients[client.id]
	delete(h.clients, client.id)
	h.mu.Unlock()

	if existed {
		close(client.send)
		if h.handler != nil {
			h.handler.HandleDisconnect(client.id)
		}
	}
	h.logger.Debug("websocket client disconnected", "sid", client.id, "clients", h.ClientCount())
}

// Broadcast sends an event to every connected session.
// Lock ordering: the client list is snapshotted under the hub lock, then
// the lock is released before any channel sends.
func (h *Hub) Broadcast(event string, data any) {
	payload, ok := h.marshal(event, data)
	if !ok {
		return
	}

	h.mu.RLock()
	clients := make([]*WSClient, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		client.trySend(payload)
	}
}

// SendTo sends an event to a single session. Unknown session ids are
// ignored; the session may have disconnected between emit and delivery.
func (h *Hub) SendTo(sessionID string, event string, data any) {
	h.mu.RLock()
	client, ok := h.clients[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	payload, valid := h.marshal(event, data)
	if !valid {
		return
	}
	client.trySend(payload)
}

// marshal encodes an outbound envelope once, so broadcasts serialise a
// frame a single time regardless of recipient count.
func (h *Hub) marshal(event string, data any) ([]byte, bool) {
	payload, err := json.Marshal(outEnvelope{Event: event, Data: data})
	if err != nil {
		h.logger.Error("failed to marshal websocket event", "event", event, "error", err)
		return nil, false
	}
	return payload, true
}

// ClientCount returns the number of connected sessions.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// closeAll disconnects all clients and closes their send channels
// so writePump goroutines can exit cleanly.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		close(client.send)
		if client.conn != nil {
			client.conn.Close()
		}
		delete(h.clients, id)
	}
}

// handleWebSocket upgrades the HTTP connection and starts the session.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &WSClient{
		hub:  s.hub,
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, wsSendBufferSize),
	}

	s.hub.Register(client)

	go client.writePump(s.hub.cfg)
	go client.readPump(s.hub.cfg)
}

// readPump reads messages from the WebSocket connection.
func (c *WSClient) readPump(cfg config.WebSocketConfig) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(int64(cfg.MaxMessageSize))
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	pongWait := time.Duration(cfg.PongTimeout) * time.Second
	//nolint:errcheck // Best-effort deadline on connection setup
	c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "sid", c.id, "error", err)
			} else {
				c.hub.logger.Debug("websocket closed", "sid", c.id, "error", err)
			}
			return
		}
		// Any client message resets the read deadline (keeps connection alive
		// even if browser doesn't respond to protocol-level pings).
		//nolint:errcheck // Best-effort deadline reset
		c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
		c.handleMessage(message)
	}
}

// writePump writes messages to the WebSocket connection.
func (c *WSClient) writePump(cfg config.WebSocketConfig) {
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	pongWait := time.Duration(cfg.PongTimeout) * time.Second

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				// Hub closed the channel
				//nolint:errcheck // Best-effort close message
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			//nolint:errcheck // Best-effort deadline; write error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			//nolint:errcheck // Best-effort deadline; ping error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage decodes one inbound envelope and dispatches it to the
// session handler. Malformed frames are logged and dropped; a bad frame
// from one browser must never tear down the whole session.
func (c *WSClient) handleMessage(data []byte) {
	if c.hub.handler == nil {
		return
	}

	var msg Envelope
	if err := json.Unmarshal(data, &msg); err != nil {
		c.hub.logger.Warn("invalid websocket frame", "sid", c.id, "error", err)
		return
	}

	switch msg.Event {
	case "request_devices":
		c.hub.handler.RequestDevices(c.id)

	case "request_schema":
		c.hub.handler.RequestSchema(c.id)

	case "change_device":
		var body struct {
			Topic string `json:"topic"`
		}
		if !c.decode(msg, &body) {
			return
		}
		c.hub.handler.ChangeDevice(c.id, body.Topic)

	case "update_parameter":
		var body struct {
			Param     string `json:"param"`
			Value     any    `json:"value"`
			RequestID string `json:"request_id"`
		}
		if !c.decode(msg, &body) {
			return
		}
		c.hub.handler.UpdateParameter(c.id, body.Param, body.Value, body.RequestID)

	case "force_sync":
		var body struct {
			RequestID string `json:"request_id"`
		}
		if len(msg.Data) > 0 && !c.decode(msg, &body) {
			return
		}
		c.hub.handler.ForceSync(c.id, body.RequestID)

	case "send_command":
		var body struct {
			ActionID  int    `json:"action_id"`
			RequestID string `json:"request_id"`
		}
		if !c.decode(msg, &body) {
			return
		}
		c.hub.handler.SendCommand(c.id, body.ActionID, body.RequestID)

	case "set_target_reporting":
		var body struct {
			Enabled   bool   `json:"enabled"`
			RequestID string `json:"request_id"`
		}
		if !c.decode(msg, &body) {
			return
		}
		c.hub.handler.SetTargetReporting(c.id, body.Enabled, body.RequestID)

	case "set_basic_control":
		var body struct {
			State      *string `json:"state"`
			Brightness *int    `json:"brightness"`
			RequestID  string  `json:"request_id"`
		}
		if !c.decode(msg, &body) {
			return
		}
		c.hub.handler.SetBasicControl(c.id, body.State, body.Brightness, body.RequestID)

	case "set_reporting_auto_off":
		var body struct {
			Enabled bool `json:"enabled"`
		}
		if !c.decode(msg, &body) {
			return
		}
		c.hub.handler.SetReportingAutoOff(c.id, body.Enabled)

	default:
		c.hub.logger.Debug("unknown websocket event", "sid", c.id, "event", msg.Event)
	}
}

// decode unmarshals the envelope's data into v, logging failures.
func (c *WSClient) decode(msg Envelope, v any) bool {
	if err := json.Unmarshal(msg.Data, v); err != nil {
		c.hub.logger.Warn("invalid websocket event data",
			"sid", c.id, "event", msg.Event, "error", err)
		return false
	}
	return true
}

// trySend attempts to send data to the client's send channel.
// It silently handles closed channels (client disconnected during broadcast)
// and full buffers (slow client).
func (c *WSClient) trySend(data []byte) {
	defer func() {
		recover() //nolint:errcheck // Absorb send-on-closed-channel panic
	}()

	select {
	case c.send <- data:
	default:
		// Client buffer full, skip
	}
}
