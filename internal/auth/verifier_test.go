package auth

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

func signToken(t *testing.T, secret []byte, mutate func(b *jwt.Builder)) string {
	t.Helper()
	now := time.Now()
	builder := jwt.NewBuilder().
		Subject("user-1").
		IssuedAt(now).
		Expiration(now.Add(time.Minute))
	if mutate != nil {
		mutate(builder)
	}
	tok, err := builder.Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(signed)
}

func TestVerifierVerifySuccess(t *testing.T) {
	secret := []byte("test-secret")
	raw := signToken(t, secret, func(b *jwt.Builder) {
		b.Claim("roles", []string{"admin", "seller"})
	})

	v := Verifier{Secret: secret}
	identity, err := v.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", identity.UserID)
	}
	if len(identity.Roles) != 2 || identity.Roles[0] != "admin" {
		t.Fatalf("unexpected roles: %v", identity.Roles)
	}
}

func TestVerifierRejectsWrongSecret(t *testing.T) {
	raw := signToken(t, []byte("other-secret"), nil)

	v := Verifier{Secret: []byte("test-secret")}
	if _, err := v.Verify(raw); err == nil {
		t.Fatal("expected signature verification failure")
	}
}

func TestVerifierRejectsExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	raw := signToken(t, secret, func(b *jwt.Builder) {
		b.Expiration(time.Now().Add(-time.Minute))
	})

	v := Verifier{Secret: secret}
	if _, err := v.Verify(raw); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestVerifierRejectsMissingSubject(t *testing.T) {
	secret := []byte("test-secret")
	raw := signToken(t, secret, func(b *jwt.Builder) {
		b.Subject("")
	})

	v := Verifier{Secret: secret}
	if _, err := v.Verify(raw); err == nil {
		t.Fatal("expected missing subject error")
	}
}

func TestVerifierSingleRoleClaim(t *testing.T) {
	secret := []byte("test-secret")
	raw := signToken(t, secret, func(b *jwt.Builder) {
		b.Claim("roles", "seller")
	})

	v := Verifier{Secret: secret}
	identity, err := v.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if len(identity.Roles) != 1 || identity.Roles[0] != "seller" {
		t.Fatalf("unexpected roles: %v", identity.Roles)
	}
}
