// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewID(t *testing.T) {
	id := NewID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewID() = %q is not a UUID: %v", id, err)
	}
	if NewID() == id {
		t.Error("NewID() produced duplicate IDs")
	}
}

func TestGenerateSessionToken(t *testing.T) {
	token, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	// 32 bytes base64 without padding = 43 chars
	if len(token) != 43 {
		t.Errorf("GenerateSessionToken() length = %d, want 43", len(token))
	}
	if strings.ContainsAny(token, "+/=") {
		t.Errorf("GenerateSessionToken() is not URL-safe: %s", token)
	}

	other, _ := GenerateSessionToken()
	if token == other {
		t.Error("GenerateSessionToken() produced duplicate tokens")
	}
}

func TestHashToken(t *testing.T) {
	token, _ := GenerateSessionToken()

	h1, err := HashToken(token, "salt")
	if err != nil {
		t.Fatalf("HashToken() error = %v", err)
	}
	h2, _ := HashToken(token, "salt")
	if h1 != h2 {
		t.Error("HashToken() is not deterministic")
	}
	if len(h1) != 64 {
		t.Errorf("HashToken() length = %d, want 64", len(h1))
	}

	h3, _ := HashToken(token, "other-salt")
	if h1 == h3 {
		t.Error("HashToken() ignored the salt")
	}

	if _, err := HashToken("short", "salt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("HashToken(short) error = %v, want ErrInvalidToken", err)
	}
}

func TestShareSuffix(t *testing.T) {
	s1 := ShareSuffix("poll-1", "salt")
	if s1 == "" {
		t.Fatal("ShareSuffix() returned empty string")
	}
	if s1 != ShareSuffix("poll-1", "salt") {
		t.Error("ShareSuffix() is not deterministic")
	}
	if s1 == ShareSuffix("poll-2", "salt") {
		t.Error("ShareSuffix() collided for different polls")
	}
	for _, c := range s1 {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			t.Errorf("ShareSuffix() contains non-base62 char: %c", c)
		}
	}
}

func TestBase62Encode(t *testing.T) {
	tests := []struct {
		input []byte
		want  string
	}{
		{[]byte{0}, "0"},
		{[]byte{61}, "Z"},
		{[]byte{62}, "10"},
		{[]byte{1, 0}, "48"}, // 256 = 4*62 + 8
	}

	for _, tt := range tests {
		if got := base62Encode(tt.input); got != tt.want {
			t.Errorf("base62Encode(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHashIP(t *testing.T) {
	h := HashIP("192.168.1.1", "salt")
	if len(h) != 16 {
		t.Errorf("HashIP() length = %d, want 16", len(h))
	}
	if h != HashIP("192.168.1.1", "salt") {
		t.Error("HashIP() is not deterministic")
	}
	if h == HashIP("192.168.1.2", "salt") {
		t.Error("HashIP() collided for different IPs")
	}
	if strings.Contains(h, "192") {
		t.Error("HashIP() leaks the address")
	}
}
