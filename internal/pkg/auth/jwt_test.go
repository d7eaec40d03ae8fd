package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/yigit/judgeadmin/internal/pkg/auth"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "judgeadmin"})

	token, expiresIn, err := svc.GenerateAccessToken(7, "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if expiresIn != 3600 {
		t.Fatalf("expiresIn = %d, want 3600", expiresIn)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTRejectsForeignIssuerAndExpired(t *testing.T) {
	issuer := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "other"})
	verifier := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "judgeadmin"})

	token, _, err := issuer.GenerateAccessToken(1, "bob")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ValidateToken(token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("foreign issuer err = %v, want ErrInvalidToken", err)
	}

	expired := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: -time.Minute, TokenIssuer: "judgeadmin"})
	token, _, err = expired.GenerateAccessToken(1, "bob")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ValidateToken(token); !errors.Is(err, auth.ErrExpiredToken) {
		t.Fatalf("expired err = %v, want ErrExpiredToken", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer a.b.c", want: "a.b.c"},
		{header: "a.b.c", want: "a.b.c"},
		{header: "", wantErr: true},
		{header: "Basic xyz", wantErr: true},
	}
	for _, tc := range cases {
		got, err := auth.ExtractBearerToken(tc.header)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%q: err = %v, wantErr %v", tc.header, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("%q: got %q, want %q", tc.header, got, tc.want)
		}
	}
}
