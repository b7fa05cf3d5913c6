package glx

import (
	"errors"
	"fmt"
)

// Stage sentinel errors. A *StageError matches exactly one of them with
// errors.Is.
var (
	// ErrOpenDisplay is returned when the display connection cannot be opened.
	ErrOpenDisplay = errors.New("glx: failed to open X display")

	// ErrChooseVisual is returned when no visual satisfies the attributes.
	ErrChooseVisual = errors.New("glx: no appropriate visual found")

	// ErrCreateContext is returned when the GLX context cannot be created.
	ErrCreateContext = errors.New("glx: failed to create GLX context")

	// ErrCreateWindow is returned when the colormap or window cannot be created.
	ErrCreateWindow = errors.New("glx: failed to create window")

	// ErrMakeCurrent is returned when the context cannot be made current.
	ErrMakeCurrent = errors.New("glx: failed to make context current")
)

// Lifecycle errors.
var (
	// ErrContextLive is returned by Create when the context already exists.
	ErrContextLive = errors.New("glx: context already created")

	// ErrNoContext is returned by queries made without a live context.
	ErrNoContext = errors.New("glx: no live context")

	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("glx: invalid dimensions")

	// ErrNoNative is returned by every call of the placeholder backend used
	// when no native backend is compiled in.
	ErrNoNative = errors.New("glx: no native backend available")
)

// Stage identifies a step of Context.Create. The numeric value is the
// failure code reported for that step.
type Stage int

const (
	StageOpenDisplay Stage = iota + 1
	StageChooseVisual
	StageCreateContext
	StageCreateWindow
	StageMakeCurrent
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageOpenDisplay:
		return "open display"
	case StageChooseVisual:
		return "choose visual"
	case StageCreateContext:
		return "create context"
	case StageCreateWindow:
		return "create window"
	case StageMakeCurrent:
		return "make current"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

func (s Stage) sentinel() error {
	switch s {
	case StageOpenDisplay:
		return ErrOpenDisplay
	case StageChooseVisual:
		return ErrChooseVisual
	case StageCreateContext:
		return ErrCreateContext
	case StageCreateWindow:
		return ErrCreateWindow
	case StageMakeCurrent:
		return ErrMakeCurrent
	default:
		return errors.New("glx: " + s.String())
	}
}

// StageError reports the Create stage that failed and the native cause.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return e.Stage.sentinel().Error()
	}
	return fmt.Sprintf("%v: %v", e.Stage.sentinel(), e.Err)
}

// Unwrap exposes both the stage sentinel and the native cause.
func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Stage.sentinel()}
	}
	return []error{e.Stage.sentinel(), e.Err}
}

// Code returns the stage number.
func (e *StageError) Code() int {
	return int(e.Stage)
}
