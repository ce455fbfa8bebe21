package csrf_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/csrf"
	"github.com/goliatone/go-formbuilder/pkg/session"
)

func TestIssueIsStablePerSession(t *testing.T) {
	manager := csrf.New()
	store := session.NewStore()

	first := manager.Issue(store)
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("expected uuid token, got %q: %v", first, err)
	}
	if second := manager.Issue(store); second != first {
		t.Fatalf("expected the same token on reissue, got %q and %q", first, second)
	}
	if got, _ := store.Read(csrf.DefaultSessionKey); got != first {
		t.Fatalf("token not stored under the default key")
	}
}

func TestVerify(t *testing.T) {
	manager := csrf.New(csrf.WithSessionKey("_csrf"), csrf.WithGenerator(func() string { return "fixed" }))
	store := session.NewStore()

	if err := manager.Verify(store, "fixed"); !errors.Is(err, csrf.ErrMissingToken) {
		t.Fatalf("expected missing token error, got %v", err)
	}

	token := manager.Issue(store)
	if token != "fixed" || manager.SessionKey() != "_csrf" {
		t.Fatalf("options not applied: token=%q key=%q", token, manager.SessionKey())
	}
	if err := manager.Verify(store, "fixed"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := manager.Verify(store, "other"); !errors.Is(err, csrf.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
	if err := manager.Verify(store, ""); !errors.Is(err, csrf.ErrInvalidToken) {
		t.Fatalf("expected invalid token for empty submission, got %v", err)
	}
}

func TestRotate(t *testing.T) {
	manager := csrf.New()
	store := session.NewStore()

	first := manager.Issue(store)
	second := manager.Rotate(store)
	if first == second {
		t.Fatalf("rotate must change the token")
	}
	if err := manager.Verify(store, first); !errors.Is(err, csrf.ErrInvalidToken) {
		t.Fatalf("old token must be rejected after rotation")
	}
}
