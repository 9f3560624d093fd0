package storage

import (
	"testing"
	"time"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
)

func newSession(id string) *models.Session {
	return &models.Session{
		ID:        id,
		Provider:  "gemini",
		CreatedAt: time.Now(),
		APIKey:    "secret-" + id,
	}
}

func TestSetGet(t *testing.T) {
	store := New()
	store.Set("a", newSession("a"))

	got, exists := store.Get("a")
	if !exists {
		t.Fatal("expected session to exist")
	}
	if got.APIKey != "secret-a" {
		t.Errorf("APIKey = %q", got.APIKey)
	}

	if _, exists := store.Get("missing"); exists {
		t.Error("expected missing session to not exist")
	}
}

func TestDeleteWipesCredential(t *testing.T) {
	store := New()
	session := newSession("a")
	store.Set("a", session)

	store.Delete("a")

	if _, exists := store.Get("a"); exists {
		t.Error("expected session to be gone")
	}
	// A caller holding the old pointer must not still see the key.
	if session.APIKey != "" {
		t.Error("expected credential to be wiped on delete")
	}
}

func TestClearWipesAllCredentials(t *testing.T) {
	store := New()
	a, b := newSession("a"), newSession("b")
	store.Set("a", a)
	store.Set("b", b)

	store.Clear()

	if len(store.GetAll()) != 0 {
		t.Error("expected no sessions after Clear")
	}
	if a.APIKey != "" || b.APIKey != "" {
		t.Error("expected every credential wiped on Clear")
	}
}

func TestGetAllReturnsCopy(t *testing.T) {
	store := New()
	store.Set("a", newSession("a"))

	all := store.GetAll()
	delete(all, "a")

	if _, exists := store.Get("a"); !exists {
		t.Error("mutating GetAll result must not affect the store")
	}
}
