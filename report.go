package gfxhealth

// Coder is implemented by errors that carry a numeric failure code.
// Context creation errors use the stage number (1..5); loader and
// self-test errors use 1.
type Coder interface {
	Code() int
}

// Report is the code plus message view of an operation result.
// Code 0 means success and is always paired with an empty Message.
type Report struct {
	Code    int    `yaml:"code"`
	Message string `yaml:"message,omitempty"`
}

// OK reports whether the report describes a success.
func (r Report) OK() bool {
	return r.Code == 0
}

// ReportOf converts an operation error into a Report.
//
// A nil error gives the zero Report. Otherwise the code is taken from the
// first error in the chain implementing Coder with a nonzero code,
// defaulting to 1.
func ReportOf(err error) Report {
	if err == nil {
		return Report{}
	}
	code := firstCode(err)
	if code == 0 {
		code = 1
	}
	msg := err.Error()
	if msg == "" {
		msg = "unknown error"
	}
	return Report{Code: code, Message: msg}
}

// firstCode walks the error tree depth first, in the order errors.As
// does, and returns the first nonzero Coder code, or 0.
func firstCode(err error) int {
	if err == nil {
		return 0
	}
	if c, ok := err.(Coder); ok && c.Code() != 0 {
		return c.Code()
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return firstCode(u.Unwrap())
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if code := firstCode(e); code != 0 {
				return code
			}
		}
	}
	return 0
}
