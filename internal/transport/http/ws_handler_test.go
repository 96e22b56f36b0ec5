package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"summit-quiz-service/internal/app"
	"summit-quiz-service/internal/domain"
	"summit-quiz-service/internal/infra/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.GameService, *app.Session) {
	t.Helper()
	zero := 0
	sets := memory.NewQuestionSetRepository(memory.NewStaticQuestionSetLoader(map[string]domain.QuestionSet{
		"alpine-basics": {
			ID: "alpine-basics",
			Questions: []domain.QuestionSpec{
				{
					Text:               "Highest mountain?",
					Options:            []domain.Option{{Text: "Everest"}, {Text: "K2"}},
					CorrectOptionIndex: &zero,
					TimeLimitSec:       30,
				},
			},
		},
	}), time.Minute)
	service := app.NewGameService(memory.NewSessionStore(), sets)

	ctx := context.Background()
	session := service.CreateSession(ctx, "host-1")
	if _, err := service.ImportQuestions(ctx, session.ID(), session.HostToken(), "alpine-basics"); err != nil {
		t.Fatalf("import: %v", err)
	}

	wsHandler := NewWSHandler(service)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	return httptest.NewServer(mux), service, session
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", query, err)
	}
	return conn
}

// readUntil drains messages until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, wantType string) json.RawMessage {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	_ = conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read waiting for %q: %v", wantType, err)
		}
		if msg.Type == wantType {
			return msg.Payload
		}
		if msg.Type == "error" {
			t.Fatalf("unexpected error while waiting for %q: %s", wantType, msg.Payload)
		}
	}
	t.Fatalf("timed out waiting for %q", wantType)
	return nil
}

func TestWebSocketGameFlow(t *testing.T) {
	server, _, session := newTestServer(t)
	defer server.Close()

	host := dial(t, server, "sessionId="+session.ID()+"&token="+session.HostToken())
	defer host.Close()
	readUntil(t, host, "snapshot")

	player := dial(t, server, "code="+session.Code()+"&name=Alice")
	defer player.Close()

	joined := readUntil(t, player, "joined")
	var alice domain.Player
	if err := json.Unmarshal(joined, &alice); err != nil {
		t.Fatalf("joined payload: %v", err)
	}
	if alice.Name != "Alice" || alice.ID == "" {
		t.Fatalf("unexpected joined payload: %+v", alice)
	}

	for _, cmd := range []string{"start", "next_question", "show_answers"} {
		if err := host.WriteJSON(map[string]any{"type": cmd}); err != nil {
			t.Fatalf("send %s: %v", cmd, err)
		}
	}

	// wait until the answer window is open on the player's stream
	for {
		raw := readUntil(t, player, "snapshot")
		var snap app.Snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			t.Fatalf("snapshot payload: %v", err)
		}
		if snap.Session.QuestionPhase == domain.PhaseAnswersShown {
			break
		}
	}

	if err := player.WriteJSON(map[string]any{"type": "answer", "payload": map[string]any{"optionIndex": 0}}); err != nil {
		t.Fatalf("send answer: %v", err)
	}
	result := readUntil(t, player, "answer_result")
	var answer domain.Answer
	if err := json.Unmarshal(result, &answer); err != nil {
		t.Fatalf("answer payload: %v", err)
	}
	if answer.OptionIndex != 0 || answer.Scored() {
		t.Fatalf("unexpected answer result: %+v", answer)
	}

	if err := host.WriteJSON(map[string]any{"type": "reveal"}); err != nil {
		t.Fatalf("send reveal: %v", err)
	}
	for {
		raw := readUntil(t, player, "snapshot")
		var snap app.Snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			t.Fatalf("snapshot payload: %v", err)
		}
		if snap.Session.QuestionPhase == domain.PhaseRevealed {
			if snap.Players[0].Elevation == 0 {
				t.Fatalf("expected scored elevation in revealed snapshot")
			}
			return
		}
	}
}

func TestWebSocketRejectsNonHostCommands(t *testing.T) {
	server, _, session := newTestServer(t)
	defer server.Close()

	spectator := dial(t, server, "code="+session.Code())
	defer spectator.Close()
	readUntil(t, spectator, "snapshot")

	if err := spectator.WriteJSON(map[string]any{"type": "start"}); err != nil {
		t.Fatalf("send start: %v", err)
	}
	payload := readUntil(t, spectator, "error")
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &e); err != nil {
		t.Fatalf("error payload: %v", err)
	}
	if e.Message != domain.ErrNotHost.Error() {
		t.Fatalf("expected host rejection, got %q", e.Message)
	}
}

func TestWebSocketRequiresIdentity(t *testing.T) {
	server, _, _ := newTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without sessionId or code, got %d", resp.StatusCode)
	}
}
