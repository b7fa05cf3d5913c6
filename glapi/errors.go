package glapi

import (
	"errors"
	"fmt"
)

// ErrLoadFunctions is returned by Load when the entry points cannot be
// resolved against the current context.
var ErrLoadFunctions = errors.New("glapi: failed to load OpenGL functions")

// ErrNoBinding is returned by the loader of builds that have no OpenGL
// binding: cgo disabled on a platform goffi does not support.
var ErrNoBinding = errors.New("glapi: no OpenGL binding in this build")

// UnknownError is the name of any code missing from the error table.
const UnknownError = "UNKNOWN_ERROR"

var errorNames = map[uint32]string{
	INVALID_ENUM:                  "GL_INVALID_ENUM",
	INVALID_VALUE:                 "GL_INVALID_VALUE",
	INVALID_OPERATION:             "GL_INVALID_OPERATION",
	STACK_OVERFLOW:                "GL_STACK_OVERFLOW",
	STACK_UNDERFLOW:               "GL_STACK_UNDERFLOW",
	OUT_OF_MEMORY:                 "GL_OUT_OF_MEMORY",
	INVALID_FRAMEBUFFER_OPERATION: "GL_INVALID_FRAMEBUFFER_OPERATION",
	CONTEXT_LOST:                  "GL_CONTEXT_LOST",
}

// ErrorName returns the symbolic name of a glGetError code.
func ErrorName(code uint32) string {
	if name, ok := errorNames[code]; ok {
		return name
	}
	return UnknownError
}

// CallError records a non-zero glGetError code observed right after a call.
type CallError struct {
	// Call is the source text of the call, e.g. "glBindVertexArray(vao)".
	Call string
	// GLCode is the raw glGetError value.
	GLCode uint32
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s : %s", e.Call, ErrorName(e.GLCode))
}

// Code reports failure code 1, the code of every diagnostic failure.
func (e *CallError) Code() int {
	return 1
}
