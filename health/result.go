package health

import (
	"fmt"
	"time"
)

// Status summarizes a Result.
type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalYAML encodes the status by name.
func (s Status) MarshalYAML() (any, error) {
	return s.String(), nil
}

// Kind is the severity of a message.
type Kind string

const (
	KindFail Kind = "fail"
	KindWarn Kind = "warn"
)

// Message is one finding of a check.
type Message struct {
	Kind Kind   `yaml:"kind"`
	Text string `yaml:"text"`
}

// Result collects the findings of one check.
type Result struct {
	Label    string        `yaml:"label"`
	Status   Status        `yaml:"status"`
	Messages []Message     `yaml:"messages,omitempty"`
	Duration time.Duration `yaml:"duration"`
}

// Fail records a failure. The message is always formatted, so text from
// drivers or errors goes through a "%s" verb.
func (r *Result) Fail(format string, args ...any) {
	r.add(KindFail, fmt.Sprintf(format, args...))
}

// Warn records a warning, formatted like Fail.
func (r *Result) Warn(format string, args ...any) {
	r.add(KindWarn, fmt.Sprintf(format, args...))
}

func (r *Result) add(kind Kind, text string) {
	r.Messages = append(r.Messages, Message{Kind: kind, Text: text})
	if kind == KindFail {
		r.Status = StatusFail
	} else if r.Status == StatusOK {
		r.Status = StatusWarn
	}
}

// OK reports whether the check produced no messages.
func (r *Result) OK() bool {
	return len(r.Messages) == 0
}

// Worst returns the most severe status among results.
func Worst(results []*Result) Status {
	s := StatusOK
	for _, r := range results {
		s = max(s, r.Status)
	}
	return s
}
