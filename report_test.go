package gfxhealth

import (
	"errors"
	"fmt"
	"testing"
)

type codedError struct{ code int }

func (e codedError) Error() string { return fmt.Sprintf("stage %d failed", e.code) }
func (e codedError) Code() int     { return e.code }

// zeroCoded reports code 0 and wraps an error with a real code.
type zeroCoded struct{ inner error }

func (e zeroCoded) Error() string { return "stage 0 failed" }
func (e zeroCoded) Code() int     { return 0 }
func (e zeroCoded) Unwrap() error { return e.inner }

type emptyError struct{}

func (emptyError) Error() string { return "" }

func TestReportOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"nil", nil, 0, ""},
		{"plain", errors.New("boom"), 1, "boom"},
		{"coded", codedError{code: 4}, 4, "stage 4 failed"},
		{"wrapped coded", fmt.Errorf("create: %w", codedError{code: 2}), 2, "create: stage 2 failed"},
		{"zero code falls back", codedError{code: 0}, 1, "stage 0 failed"},
		{"zero code skipped in chain", fmt.Errorf("%w: %w", zeroCoded{codedError{code: 3}}, errors.New("x")), 3, "stage 0 failed: x"},
		{"later joined code", errors.Join(codedError{code: 0}, codedError{code: 5}), 5, "stage 0 failed\nstage 5 failed"},
		{"empty message", emptyError{}, 1, "unknown error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ReportOf(tt.err)
			if r.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", r.Code, tt.wantCode)
			}
			if r.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", r.Message, tt.wantMsg)
			}
			if r.OK() != (r.Message == "") {
				t.Errorf("OK() = %v but Message = %q", r.OK(), r.Message)
			}
		})
	}
}
