// Package ws streams complaint notifications to connected clients over
// websockets. Each connection subscribes to its own subject channel; staff
// connections also receive the broadcast channel.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"grievance/internal/auth"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type Stream interface {
	Messages() <-chan []byte
	Close() error
}

type Subscriber interface {
	Subscribe(ctx context.Context, subjectID string, staff bool) (Stream, error)
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(ctx context.Context, subjectID string, staff bool) (Stream, error)

func (f SubscriberFunc) Subscribe(ctx context.Context, subjectID string, staff bool) (Stream, error) {
	return f(ctx, subjectID, staff)
}

type Gateway struct {
	ctx        context.Context
	logger     *slog.Logger
	subscriber Subscriber
	upgrader   websocket.Upgrader
}

// NewGateway builds the realtime endpoint. Open connections are closed with
// a going-away frame once ctx is done.
func NewGateway(ctx context.Context, logger *slog.Logger, subscriber Subscriber) *Gateway {
	return &Gateway{
		ctx:        ctx,
		logger:     logger,
		subscriber: subscriber,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// access is gated by the bearer token, not by origin
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok || p.SubjectID == "" {
		writeError(w, http.StatusUnauthorized, "Unauthenticated", "missing access token")
		return
	}

	l := g.logger.With(
		slog.String("request_id", chimw.GetReqID(r.Context())),
		slog.String("subject", p.SubjectID),
	)

	stream, err := g.subscriber.Subscribe(r.Context(), p.SubjectID, p.Role.Staff())
	if err != nil {
		l.Error("notification subscribe failed", slog.Any("error", err))
		writeError(w, http.StatusServiceUnavailable, "StoreUnavailable", "notifications unavailable")
		return
	}
	defer stream.Close()

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		l.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	l.Info("realtime client connected", slog.String("role", string(p.Role)))

	closed := make(chan struct{})
	go readPump(conn, closed)

	g.writePump(conn, stream, closed, l)
	l.Info("realtime client disconnected")
}

// readPump only services control frames; clients have nothing to send.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (g *Gateway) writePump(conn *websocket.Conn, stream Stream, closed <-chan struct{}, l *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-stream.Messages():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "subscription ended"))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				l.Debug("websocket write failed", slog.Any("error", err))
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-closed:
			return

		case <-g.ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		}
	}
}

func writeError(w http.ResponseWriter, code int, kind, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": kind, "message": message})
}
