package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gogpu/gfxhealth/health"
)

// padding is the width cleared when a progress line is replaced.
const padding = 50

// console draws check progress and summaries on a terminal.
type console struct {
	w     io.Writer
	green *color.Color
	amber *color.Color
	red   *color.Color
}

func newConsole(w io.Writer, noColor bool) *console {
	c := &console{
		w:     w,
		green: color.New(color.FgHiGreen),
		amber: color.New(color.FgHiYellow),
		red:   color.New(color.FgHiRed),
	}
	if noColor {
		for _, col := range []*color.Color{c.green, c.amber, c.red} {
			col.DisableColor()
		}
	}
	return c
}

func (c *console) iconOK() string   { return c.green.Sprint("✔") }
func (c *console) iconWarn() string { return c.amber.Sprint("⚠️") }
func (c *console) iconFail() string { return c.red.Sprint("❌") }

// Started prints the progress line of a running check.
func (c *console) Started(label string) {
	fmt.Fprintf(c.w, " ⏳ %s ", label)
}

// Done replaces the progress line with the check summary.
func (c *console) Done(r *health.Result) {
	fmt.Fprint(c.w, "\r"+strings.Repeat(" ", padding)+"\r")
	fmt.Fprintln(c.w, c.summary(r))
}

func (c *console) summary(r *health.Result) string {
	icon := c.iconOK()
	if r.Status == health.StatusFail {
		icon = c.iconFail()
	}
	var b strings.Builder
	fmt.Fprintf(&b, " %s  %s ", icon, r.Label)
	for _, m := range r.Messages {
		icon := c.iconWarn()
		if m.Kind == health.KindFail {
			icon = c.iconFail()
		}
		fmt.Fprintf(&b, "\n     ↳ %s %s", icon, m.Text)
	}
	return b.String()
}

// Report prints where the archive went.
func (c *console) Report(path string) {
	fmt.Fprintf(c.w, "report path: %s\n", path)
}
