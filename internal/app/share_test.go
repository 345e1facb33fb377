package app

import (
	"errors"
	"testing"
	"time"
)

func TestShareTokenRoundTrip(t *testing.T) {
	svc := NewShareService("test-secret", "barbu", time.Hour)
	token, err := svc.IssueToken("owner", "game-1")
	if err != nil {
		t.Fatalf("issue token error: %v", err)
	}
	owner, game, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if owner != "owner" || game != "game-1" {
		t.Fatalf("verify = %s %s, want owner game-1", owner, game)
	}
}

func TestShareTokenRejections(t *testing.T) {
	issuer := NewShareService("test-secret", "barbu", time.Hour)
	token, err := issuer.IssueToken("owner", "game-1")
	if err != nil {
		t.Fatalf("issue token error: %v", err)
	}

	expired := NewShareService("test-secret", "barbu", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.IssueToken("owner", "game-1")
	if err != nil {
		t.Fatalf("issue token error: %v", err)
	}

	tests := []struct {
		name  string
		svc   *ShareService
		token string
	}{
		{name: "wrong secret", svc: NewShareService("other-secret", "barbu", time.Hour), token: token},
		{name: "wrong issuer", svc: NewShareService("test-secret", "other", time.Hour), token: token},
		{name: "expired", svc: issuer, token: old},
		{name: "garbage", svc: issuer, token: "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := tt.svc.Verify(tt.token); !errors.Is(err, ErrInvalidShareToken) {
				t.Fatalf("err = %v, want ErrInvalidShareToken", err)
			}
		})
	}
}

func TestShareServiceRequiresConfig(t *testing.T) {
	svc := NewShareService("", "barbu", time.Hour)
	if _, err := svc.IssueToken("owner", "game-1"); !errors.Is(err, ErrShareUnavailable) {
		t.Fatalf("err = %v, want ErrShareUnavailable", err)
	}
	var nilSvc *ShareService
	if _, _, err := nilSvc.Verify("token"); !errors.Is(err, ErrShareUnavailable) {
		t.Fatalf("err = %v, want ErrShareUnavailable", err)
	}
}
