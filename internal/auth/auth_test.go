package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("p")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "p" {
		t.Fatal("hash must not equal the plain password")
	}
	if !IsHash(hash) {
		t.Fatal("IsHash() should accept a fresh hash")
	}
	if !CheckPassword("p", hash) {
		t.Fatal("CheckPassword() should accept the right password")
	}
	if CheckPassword("q", hash) {
		t.Fatal("CheckPassword() should reject the wrong password")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, _ := HashPassword("same")
	b, _ := HashPassword("same")
	if a == b {
		t.Fatal("two hashes of the same password should differ")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"plain text", "p"},
		{"truncated", "$2a$10$abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if CheckPassword("p", tt.hash) {
				t.Errorf("CheckPassword(%q) = true, want false", tt.hash)
			}
			if IsHash(tt.hash) {
				t.Errorf("IsHash(%q) = true, want false", tt.hash)
			}
		})
	}
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	if _, err := NewTokenService(nil, time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
	if _, err := NewTokenService([]byte(""), time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestTokenService_IssueVerify(t *testing.T) {
	svc, err := NewTokenService([]byte("test-secret"), 0)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	if svc.ttl != DefaultTokenTTL {
		t.Fatalf("ttl = %v, want %v", svc.ttl, DefaultTokenTTL)
	}

	token, err := svc.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	id, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if id != 42 {
		t.Fatalf("Verify() = %d, want 42", id)
	}
}

func TestTokenService_Expiry(t *testing.T) {
	svc, _ := NewTokenService([]byte("test-secret"), time.Hour)
	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }
	token, err := svc.Issue(1)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: got %v, want ErrInvalidToken", err)
	}
}

func TestTokenService_Rejects(t *testing.T) {
	svc, _ := NewTokenService([]byte("test-secret"), time.Hour)
	other, _ := NewTokenService([]byte("other-secret"), time.Hour)
	foreign, _ := other.Issue(1)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1})
	noExpToken, _ := noExp.SignedString([]byte("test-secret"))

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	noUserToken, _ := noUser.SignedString([]byte("test-secret"))

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	hs512Token, _ := hs512.SignedString([]byte("test-secret"))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"missing expiry", noExpToken},
		{"missing user id", noUserToken},
		{"unexpected algorithm", hs512Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestTokenService_FromHeader(t *testing.T) {
	svc, _ := NewTokenService([]byte("test-secret"), time.Hour)
	token, _ := svc.Issue(7)

	tests := []struct {
		name    string
		header  string
		wantID  int64
		wantErr bool
	}{
		{"valid bearer", "Bearer " + token, 7, false},
		{"missing header", "", 0, true},
		{"lowercase scheme", "bearer " + token, 0, true},
		{"uppercase scheme", "BEARER " + token, 0, true},
		{"no space", "Bearer" + token, 0, true},
		{"basic scheme", "Basic " + token, 0, true},
		{"bare token", token, 0, true},
		{"prefix only", "Bearer ", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := svc.FromHeader(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromHeader() error = %v, wantErr %v", err, tt.wantErr)
			}
			if id != tt.wantID {
				t.Errorf("FromHeader() = %d, want %d", id, tt.wantID)
			}
		})
	}
}
