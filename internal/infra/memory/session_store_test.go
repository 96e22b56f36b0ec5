package memory

import (
	"testing"

	"summit-quiz-service/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session := app.NewSession("host-1")
	if !store.Insert(session) {
		t.Fatalf("expected insert to succeed")
	}
	if _, ok := store.Get(session.ID()); !ok {
		t.Fatalf("expected session by id")
	}
	if got, ok := store.GetByCode(session.Code()); !ok || got != session {
		t.Fatalf("expected session by code")
	}

	store.Delete(session.ID())
	if _, ok := store.Get(session.ID()); ok {
		t.Fatalf("expected session removed")
	}
	if _, ok := store.GetByCode(session.Code()); ok {
		t.Fatalf("expected code index cleared")
	}
}
