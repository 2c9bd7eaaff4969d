package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"nutri-go/internal/nutri"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("hunter22")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("Hash() returned the password")
	}
	if !h.Verify(hash, "hunter22") {
		t.Error("Verify() with correct password = false")
	}
	if h.Verify(hash, "hunter23") {
		t.Error("Verify() with wrong password = true")
	}
	if h.Verify("not-a-hash", "hunter22") {
		t.Error("Verify() with garbage hash = true")
	}
}

func TestNewBcryptHasher_CostBounds(t *testing.T) {
	tests := []struct {
		cost int
		want int
	}{
		{0, bcrypt.DefaultCost},
		{bcrypt.MinCost, bcrypt.MinCost},
		{bcrypt.MaxCost + 1, bcrypt.DefaultCost},
	}
	for _, tt := range tests {
		if got := NewBcryptHasher(tt.cost).Cost; got != tt.want {
			t.Errorf("NewBcryptHasher(%d).Cost = %d, want %d", tt.cost, got, tt.want)
		}
	}
}

func TestTokenIssuer(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
	ti, err := NewTokenIssuer("test-secret", time.Hour, clock)
	if err != nil {
		t.Fatalf("NewTokenIssuer() error = %v", err)
	}
	user := nutri.User{ID: "u-1", Email: "ana@example.com"}

	token, err := ti.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	t.Run("round trip", func(t *testing.T) {
		got, err := ti.Parse(token)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if got != user {
			t.Errorf("Parse() = %+v, want %+v", got, user)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, _ := NewTokenIssuer("other-secret", time.Hour, clock)
		if _, err := other.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("tampered", func(t *testing.T) {
		parts := strings.Split(token, ".")
		parts[1] = base64.RawURLEncoding.EncodeToString([]byte(`{"email":"eve@example.com","sub":"u-2","iss":"nutri","exp":9999999999}`))
		if _, err := ti.Parse(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		later := &fakeClock{now: clock.now.Add(2 * time.Hour)}
		expired, _ := NewTokenIssuer("test-secret", time.Hour, later)
		if _, err := expired.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
		}
	})
}

func TestNewTokenIssuer_Validation(t *testing.T) {
	if _, err := NewTokenIssuer("", time.Hour, nil); err == nil {
		t.Error("NewTokenIssuer() with empty secret expected error")
	}
	if _, err := NewTokenIssuer("s", 0, nil); err == nil {
		t.Error("NewTokenIssuer() with zero ttl expected error")
	}
}
