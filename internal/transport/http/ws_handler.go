package http

import (
	"encoding/json"
	"net/http"

	"geo-quiz-service/internal/app"
	"geo-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WSHandler runs one quiz session per websocket connection.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

func NewWSHandler(service *app.QuizService, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// clickPayload carries exactly one of a country code, a canonical name or a point.
type clickPayload struct {
	Code string   `json:"code"`
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

type sessionPayload struct {
	SessionID string             `json:"sessionId"`
	Status    domain.RoundStatus `json:"status"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	ctx := r.Context()
	sessionID, events, cancel := h.service.Open(ctx)
	defer h.service.Close(ctx, sessionID)
	defer cancel()

	logger := h.logger.With().Str("session_id", sessionID).Logger()
	logger.Debug().Msg("player connected")

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				logger.Debug().Err(err).Msg("ws write error")
				return
			}
		}
	}()

	push := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}
	pushError := func(message string) {
		push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}})
	}

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: ev.Type, Payload: ev}:
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	if st, err := h.service.Status(ctx, sessionID); err == nil {
		push(outboundMessage[any]{Type: "session", Payload: sessionPayload{SessionID: sessionID, Status: st}})
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			if _, err := h.service.Start(ctx, sessionID); err != nil {
				pushError(err.Error())
			}
		case "stop":
			if _, err := h.service.Stop(ctx, sessionID); err != nil {
				pushError(err.Error())
			}
		case "click":
			var payload clickPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				pushError("invalid click payload")
				continue
			}
			if err := h.click(r, sessionID, payload); err != nil {
				pushError(err.Error())
			}
		case "status":
			st, err := h.service.Status(ctx, sessionID)
			if err != nil {
				pushError(err.Error())
				continue
			}
			push(outboundMessage[any]{Type: "status", Payload: st})
		default:
			pushError("unsupported message type")
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
	logger.Debug().Msg("player disconnected")
}

func (h *WSHandler) click(r *http.Request, sessionID string, p clickPayload) error {
	var err error
	switch {
	case p.Code != "":
		_, err = h.service.ClickCode(r.Context(), sessionID, p.Code)
	case p.Lat != nil && p.Lng != nil:
		_, err = h.service.ClickAt(r.Context(), sessionID, *p.Lat, *p.Lng)
	default:
		_, err = h.service.Click(r.Context(), sessionID, p.Name)
	}
	return err
}
