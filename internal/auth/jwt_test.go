package auth

import (
	"context"
	"testing"
	"time"

	"tradejournal/internal/cache"
)

func TestSignAndVerify(t *testing.T) {
	j := JWT{Secret: []byte("test-secret"), TokenTTL: time.Hour}

	token, expiresAt, err := j.Sign(Claims{UserID: "u1", Username: "alice", IsAdmin: true})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expiresAt=%v should be in the future", expiresAt)
	}

	claims, err := j.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "u1" || claims.Username != "alice" || !claims.IsAdmin {
		t.Fatalf("claims=%+v", claims)
	}
	if claims.ID == "" {
		t.Fatalf("token id should be filled in on sign")
	}
	if claims.Issuer != "tradejournal" {
		t.Fatalf("issuer=%s", claims.Issuer)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	j := JWT{Secret: []byte("secret-a"), TokenTTL: time.Hour}
	token, _, err := j.Sign(Claims{UserID: "u1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	other := JWT{Secret: []byte("secret-b"), TokenTTL: time.Hour}
	if _, err := other.Verify(token); err == nil {
		t.Fatalf("verify with wrong secret should fail")
	}
}

func TestVerify_Expired(t *testing.T) {
	j := JWT{Secret: []byte("test-secret"), TokenTTL: -time.Minute}
	token, _, err := j.Sign(Claims{UserID: "u1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := j.Verify(token); err == nil {
		t.Fatalf("expired token should not verify")
	}
}

func TestSessions_RevokeAndCheck(t *testing.T) {
	ctx := context.Background()
	j := JWT{Secret: []byte("test-secret"), TokenTTL: time.Hour}
	sessions := Sessions{Store: cache.NewMemoryStore()}

	token, _, err := j.Sign(Claims{UserID: "u1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := j.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	revoked, err := sessions.IsRevoked(ctx, claims)
	if err != nil || revoked {
		t.Fatalf("fresh token: revoked=%v err=%v", revoked, err)
	}
	if err := sessions.Revoke(ctx, claims); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err = sessions.IsRevoked(ctx, claims)
	if err != nil || !revoked {
		t.Fatalf("after revoke: revoked=%v err=%v", revoked, err)
	}
}

func TestSessions_SuspendBlocksAllTokens(t *testing.T) {
	ctx := context.Background()
	j := JWT{Secret: []byte("test-secret"), TokenTTL: time.Hour}
	sessions := Sessions{Store: cache.NewMemoryStore()}

	first, _, err := j.Sign(Claims{UserID: "u1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	firstClaims, _ := j.Verify(first)

	if err := sessions.SuspendUser(ctx, "u1"); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if revoked, _ := sessions.IsRevoked(ctx, firstClaims); !revoked {
		t.Fatalf("existing token should be blocked while suspended")
	}

	// A token minted after the suspension is blocked too.
	second, _, err := j.Sign(Claims{UserID: "u1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	secondClaims, _ := j.Verify(second)
	if revoked, _ := sessions.IsRevoked(ctx, secondClaims); !revoked {
		t.Fatalf("new token should be blocked while suspended")
	}

	if err := sessions.UnsuspendUser(ctx, "u1"); err != nil {
		t.Fatalf("unsuspend: %v", err)
	}
	if revoked, _ := sessions.IsRevoked(ctx, secondClaims); revoked {
		t.Fatalf("unsuspend should restore access")
	}
}

func TestSessions_NilStoreIsNoop(t *testing.T) {
	ctx := context.Background()
	var sessions Sessions
	if err := sessions.Revoke(ctx, Claims{}); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err := sessions.IsRevoked(ctx, Claims{})
	if err != nil || revoked {
		t.Fatalf("revoked=%v err=%v", revoked, err)
	}
}
