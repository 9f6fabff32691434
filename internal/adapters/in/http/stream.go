package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	streamBuffer       = 256
	streamWriteTimeout = 5 * time.Second
	streamReadTimeout  = 60 * time.Second
	streamPingInterval = 30 * time.Second
)

// Stream handles GET /stream. Every published event is forwarded to the socket as a
// JSON text message. A client that cannot keep up loses events rather than slowing
// down publishers.
func (s *Server) Stream(ctx echo.Context) error {
	conn, err := s.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.logger.DebugContext(ctx.Request().Context(), "websocket upgrade failed", "error", err)
		return nil
	}
	defer conn.Close()

	events, unsubscribe := s.events.Subscribe(streamBuffer)
	defer unsubscribe()

	streamCtx, cancel := context.WithCancel(ctx.Request().Context())
	defer cancel()

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
	})

	writeErr := make(chan error, 1)
	go func() {
		ping := time.NewTicker(streamPingInterval)
		defer ping.Stop()
		for {
			select {
			case <-streamCtx.Done():
				writeErr <- nil
				return
			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteTimeout)); err != nil {
					writeErr <- err
					return
				}
			case event, ok := <-events:
				if !ok {
					writeErr <- nil
					return
				}
				b, err := json.Marshal(fromEvent(event))
				if err != nil {
					s.logger.Error("encode stream event", "kind", event.Kind, "error", err)
					continue
				}
				_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					writeErr <- err
					return
				}
			}
		}
	}()

	// The stream is one-way; reading only detects the client going away.
	for {
		_ = conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
		if _, _, err = conn.ReadMessage(); err != nil {
			break
		}
	}

	cancel()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))

	select {
	case err = <-writeErr:
		if err != nil {
			s.logger.Debug("stream writer stopped", "error", err)
		}
	case <-time.After(500 * time.Millisecond):
	}
	return nil
}
