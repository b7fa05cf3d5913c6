package glapi

import (
	"errors"
	"testing"

	"github.com/gogpu/gfxhealth"
)

func TestErrorName(t *testing.T) {
	tests := []struct {
		code uint32
		want string
	}{
		{0x0500, "GL_INVALID_ENUM"},
		{0x0501, "GL_INVALID_VALUE"},
		{0x0502, "GL_INVALID_OPERATION"},
		{0x0503, "GL_STACK_OVERFLOW"},
		{0x0504, "GL_STACK_UNDERFLOW"},
		{0x0505, "GL_OUT_OF_MEMORY"},
		{0x0506, "GL_INVALID_FRAMEBUFFER_OPERATION"},
		{0x0507, "GL_CONTEXT_LOST"},
		{0x0000, UnknownError},
		{0x0508, UnknownError},
		{0xFFFF, UnknownError},
	}
	for _, tt := range tests {
		if got := ErrorName(tt.code); got != tt.want {
			t.Errorf("ErrorName(0x%04X) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCallError(t *testing.T) {
	err := &CallError{Call: "glBindVertexArray(vao)", GLCode: INVALID_OPERATION}
	want := "glBindVertexArray(vao) : GL_INVALID_OPERATION"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	r := gfxhealth.ReportOf(err)
	if r.Code != 1 || r.Message != want {
		t.Errorf("ReportOf() = %+v, want {1 %q}", r, want)
	}

	var ce *CallError
	if !errors.As(error(err), &ce) || ce.GLCode != INVALID_OPERATION {
		t.Error("errors.As did not recover the call error")
	}
}
