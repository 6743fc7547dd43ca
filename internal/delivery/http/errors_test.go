package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/smartcity/accidents/internal/domain"
	"github.com/smartcity/accidents/internal/service"
)

func TestToHTTPError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := &Handler{logger: zap.New(core)}

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"fetch", &domain.FetchError{URL: "u", Err: errors.New("down")}, fiber.StatusServiceUnavailable},
		{"load", &domain.LoadError{Source: "s", Err: errors.New("bad")}, fiber.StatusUnprocessableEntity},
		{"not loaded", fmt.Errorf("view: %w", domain.ErrNotLoaded), fiber.StatusConflict},
		{"unknown chart", service.ErrUnknownChart, fiber.StatusNotFound},
		{"bad sample", service.ErrInvalidSampleSize, fiber.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var fe *fiber.Error
			if !errors.As(h.toHTTPError(tc.err), &fe) || fe.Code != tc.code {
				t.Errorf("got %v, want %d", fe, tc.code)
			}
		})
	}
	if logs.Len() != 0 {
		t.Errorf("mapped errors should not be logged, got %d entries", logs.Len())
	}
}

func TestToHTTPErrorLogsUnmappedCause(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := &Handler{logger: zap.New(core)}

	var fe *fiber.Error
	if !errors.As(h.toHTTPError(errors.New("disk full")), &fe) || fe.Code != fiber.StatusInternalServerError {
		t.Fatalf("got %v, want 500", fe)
	}
	if fe.Message != "Internal Server Error" {
		t.Errorf("cause leaked to client: %q", fe.Message)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["error"]; got != "disk full" {
		t.Errorf("logged error = %v", got)
	}
}
