package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gogpu/gfxhealth/health"
)

func TestConsoleSummary(t *testing.T) {
	var buf bytes.Buffer
	con := newConsole(&buf, true)

	r := &health.Result{Label: "Checking GPU"}
	r.Warn("Software renderer detected: 'llvmpipe'")
	r.Fail("No GPUs detected")

	con.Started(r.Label)
	con.Done(r)

	want := " ⏳ Checking GPU " +
		"\r" + strings.Repeat(" ", padding) + "\r" +
		" ❌  Checking GPU \n" +
		"     ↳ ⚠️ Software renderer detected: 'llvmpipe'\n" +
		"     ↳ ❌ No GPUs detected\n"
	if got := buf.String(); got != want {
		t.Errorf("output =\n%q\nwant\n%q", got, want)
	}
}

func TestConsoleSummaryOK(t *testing.T) {
	con := newConsole(&bytes.Buffer{}, true)
	if got := con.summary(&health.Result{Label: "Checking OpenGL context"}); got != " ✔  Checking OpenGL context " {
		t.Errorf("summary() = %q", got)
	}
}

func TestConsoleWarnOnlyKeepsOKIcon(t *testing.T) {
	con := newConsole(&bytes.Buffer{}, true)
	r := &health.Result{Label: "Checking Vulkan adapters"}
	r.Warn("No Vulkan adapters found")
	if got := con.summary(r); !strings.HasPrefix(got, " ✔  Checking Vulkan adapters ") {
		t.Errorf("summary() = %q, want ok icon on the label", got)
	}
}
