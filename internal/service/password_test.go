package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"github.com/unimaxdigital/agency-web/internal/service"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := service.NewBcryptHasher(4)

	d1, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	d2, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if d1 == d2 {
		t.Fatal("expected distinct salted digests")
	}
	if !h.Verify("correct horse", d1) || !h.Verify("correct horse", d2) {
		t.Fatal("both digests should verify")
	}
	if h.Verify("battery staple", d1) {
		t.Fatal("different plaintext must not verify")
	}
}

func TestBcryptHasher_EmptyPlaintext(t *testing.T) {
	h := service.NewBcryptHasher(4)

	if _, err := h.Hash(""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	d, _ := h.Hash("x")
	if h.Verify("", d) {
		t.Fatal("empty plaintext must never verify")
	}
	if h.Verify("x", "") {
		t.Fatal("empty digest must never verify")
	}
}

func TestBcryptHasher_CostFallback(t *testing.T) {
	h := service.NewBcryptHasher(99)
	d, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(d, "$2a$10$") {
		t.Fatalf("expected default cost 10 digest, got %q", d[:7])
	}
}
