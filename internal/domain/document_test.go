package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestDeriveID_Deterministic(t *testing.T) {
	a := DeriveID("invoice overdue payment")
	b := DeriveID("invoice overdue payment")
	if a != b {
		t.Errorf("same content produced different ids: %q vs %q", a, b)
	}
}

func TestDeriveID_DistinctContent(t *testing.T) {
	a := DeriveID("alpha")
	b := DeriveID("beta")
	if a == b {
		t.Error("distinct content produced the same id")
	}
}

func TestDeriveID_HexShape(t *testing.T) {
	id := DeriveID("")
	if len(id) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(id))
	}
	if strings.ToLower(id) != id {
		t.Error("expected lowercase hex")
	}
}

func TestBackendUnavailableError_Unwrap(t *testing.T) {
	err := NewBackendUnavailable("remote-cluster", "no endpoint configured")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Error("expected errors.Is(err, ErrBackendUnavailable)")
	}

	var bue *BackendUnavailableError
	if !errors.As(err, &bue) {
		t.Fatal("expected errors.As to find BackendUnavailableError")
	}
	if bue.Backend != "remote-cluster" {
		t.Errorf("expected backend remote-cluster, got %q", bue.Backend)
	}
	if bue.Reason != "no endpoint configured" {
		t.Errorf("unexpected reason %q", bue.Reason)
	}
}
