package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"energy_forecaster/internal/session"
	"energy_forecaster/pkg/logger"
)

const (
	writeWait         = 5 * time.Second
	defaultSendBuffer = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Metrics observes connections and the events of their sessions.
type Metrics interface {
	session.Observer
	SessionOpened()
	SessionClosed()
}

// Handler upgrades connections, gives each one its own session and routes
// client messages to it.
type Handler struct {
	hub        *Hub
	runner     session.Runner
	metrics    Metrics
	log        logger.Logger
	sendBuffer int
}

// Option configures a Handler.
type Option func(*Handler)

func WithMetrics(m Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithSendBuffer sets the per-connection outbound queue length.
func WithSendBuffer(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.sendBuffer = n
		}
	}
}

func NewHandler(hub *Hub, runner session.Runner, opts ...Option) *Handler {
	h := &Handler{
		hub:        hub,
		runner:     runner,
		log:        logger.Nop(),
		sendBuffer: defaultSendBuffer,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, h.sendBuffer),
	}
	bridge := NewBridge(client)

	var sessOpts []session.Option
	if h.metrics != nil {
		sessOpts = append(sessOpts, session.WithObserver(h.metrics))
	}
	sessOpts = append(sessOpts, session.WithLogger(h.log.Named("session")))
	client.session = session.New(h.runner, bridge, sessOpts...)
	client.log = h.log.With(logger.String("session", client.session.ID()))
	bridge.id = client.session.ID()

	h.hub.Register(client)
	if h.metrics != nil {
		h.metrics.SessionOpened()
	}
	client.log.Info(r.Context(), "client connected", logger.Int("clients", h.hub.ClientCount()))
	go client.writePump()

	h.sendFormSchema(client)
	bridge.OnState(client.session.Snapshot())

	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
		if h.metrics != nil {
			h.metrics.SessionClosed()
		}
		c.log.Info(context.Background(), "client disconnected")
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn(context.Background(), "websocket read error", logger.Error(err))
			}
			return
		}

		h.handleMessage(c, msg)
	}
}

// handleMessage runs on the connection's read goroutine, so one session
// handles its events strictly in order and a prediction blocks only it.
func (h *Handler) handleMessage(c *Client, msg []byte) {
	ctx := context.Background()

	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		c.log.Warn(ctx, "invalid message", logger.Error(err))
		return
	}

	switch env.Type {
	case TypeInputSet:
		var p InputSetPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.log.Warn(ctx, "invalid input:set payload", logger.Error(err))
			return
		}
		if err := c.session.SetInput(p.Field, p.Value); err != nil {
			h.send(c, TypeInputRejected, InputRejectedPayload{Field: p.Field, Error: err.Error()})
			// Resync the control that was just rejected.
			h.send(c, TypeSessionState, SessionStateFromSnapshot(c.session.ID(), c.session.Snapshot()))
		}

	case TypePredictRun:
		// The callback already reports failures to the client.
		_ = c.session.Predict()

	default:
		c.log.Warn(ctx, "unknown message type", logger.String("type", env.Type))
	}
}

func (h *Handler) sendFormSchema(c *Client) {
	h.send(c, TypeFormSchema, FormSchema())
}

func (h *Handler) send(c *Client, msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		c.log.Error(context.Background(), "marshal message",
			logger.String("type", msgType), logger.Error(err))
		return
	}
	c.Send(msg)
}

func deadline() time.Time {
	return time.Now().Add(writeWait)
}
