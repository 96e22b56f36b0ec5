package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"summit-quiz-service/internal/app"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
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

type answerPayload struct {
	OptionIndex int `json:"optionIndex"`
}

type thresholdPayload struct {
	Threshold float64 `json:"threshold"`
}

type importPayload struct {
	SetID string `json:"setId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the game
// use cases. Roles are derived from the query string: a host brings
// sessionId+token, a player brings code+name (optionally playerId for
// reconnects), a spectator brings just code or sessionId. Every role receives
// the same snapshot stream; reveal animation schedules are derived
// client-side from the snapshots, never streamed.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		session *app.Session
		err     error
	)
	switch {
	case query.Get("sessionId") != "":
		session, err = h.service.Session(query.Get("sessionId"))
	case query.Get("code") != "":
		session, err = h.service.SessionByCode(query.Get("code"))
	default:
		http.Error(w, "missing sessionId or code", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	token := query.Get("token")
	name := query.Get("name")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	playerID := query.Get("playerId")
	if name != "" {
		player, err := h.service.Join(r.Context(), session.Code(), playerID, name)
		if err != nil {
			_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
			return
		}
		playerID = player.ID
		if err := conn.WriteJSON(outboundMessage[any]{Type: "joined", Payload: player}); err != nil {
			return
		}
	}

	updates, cancel, err := h.service.Subscribe(r.Context(), session.ID())
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "snapshot", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	fail := func(err error) {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
	}

readLoop:
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				fail(err)
				continue
			}
			answer, err := h.service.SubmitAnswer(r.Context(), session.ID(), playerID, payload.OptionIndex)
			if err != nil {
				fail(err)
				continue
			}
			send <- outboundMessage[any]{Type: "answer_result", Payload: answer}
		case "heartbeat":
			if err := h.service.Heartbeat(r.Context(), session.ID(), playerID); err != nil {
				fail(err)
			}
		case "leave":
			h.service.Leave(r.Context(), session.ID(), playerID)
			break readLoop
		case "start":
			if err := session.Start(token); err != nil {
				fail(err)
			}
		case "next_question":
			if err := session.NextQuestion(token); err != nil {
				fail(err)
			}
		case "show_answers":
			if err := session.ShowAnswers(token); err != nil {
				fail(err)
			}
		case "reveal":
			if err := session.RevealAnswer(token); err != nil {
				fail(err)
			}
		case "show_results":
			if err := session.ShowResults(token); err != nil {
				fail(err)
			}
		case "previous_phase":
			if err := session.PreviousPhase(token); err != nil {
				fail(err)
			}
		case "reset":
			if err := session.ResetToLobby(token); err != nil {
				fail(err)
			}
		case "set_threshold":
			var payload thresholdPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				fail(err)
				continue
			}
			if err := session.SetSummitThreshold(token, payload.Threshold); err != nil {
				fail(err)
			}
		case "import":
			var payload importPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				fail(err)
				continue
			}
			if _, err := h.service.ImportQuestions(r.Context(), session.ID(), token, payload.SetID); err != nil {
				fail(err)
			}
		default:
			fail(errUnsupported)
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

var errUnsupported = &unsupportedError{}

type unsupportedError struct{}

func (*unsupportedError) Error() string {
	return "unsupported message type"
}
