package services_test

import (
	"errors"
	"strings"
	"testing"

	"wordmill/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransient, "classifier", "batch", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"classifier", "batch", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "history", "save", "insert failed", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected nil marker to default to transient, got %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	retryable := services.Wrap(services.ErrTimeout, "classifier", "batch", "deadline", nil)
	if !services.IsRetryable(retryable) {
		t.Fatalf("expected timeout to be retryable: %v", retryable)
	}

	permanent := services.Wrap(services.ErrConfiguration, "config", "load", "missing api key", nil)
	if services.IsRetryable(permanent) {
		t.Fatalf("expected configuration error to be permanent: %v", permanent)
	}

	if services.IsRetryable(nil) {
		t.Fatal("nil error is not retryable")
	}
}
