package probe

import (
	"context"
	"fmt"
	"os"

	"github.com/gogpu/gfxhealth"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/glx"
	"github.com/jezek/xgb/xproto"
)

// GLX server string names.
const (
	glxVendor  = 1
	glxVersion = 2
)

// XServerInfo describes the X server and its GLX extension.
type XServerInfo struct {
	Display    string `yaml:"display"`
	Vendor     string `yaml:"vendor"`
	Release    uint32 `yaml:"release"`
	Screens    int    `yaml:"screens"`
	GLXMajor   uint32 `yaml:"glx_major"`
	GLXMinor   uint32 `yaml:"glx_minor"`
	GLXVendor  string `yaml:"glx_vendor"`
	GLXVersion string `yaml:"glx_version"`
}

// GLX returns the negotiated GLX protocol version as "major.minor".
func (i *XServerInfo) GLX() string {
	return fmt.Sprintf("%d.%d", i.GLXMajor, i.GLXMinor)
}

// XServer connects to display (or $DISPLAY when empty) over the X
// protocol and queries the GLX extension of the default screen.
func XServer(ctx context.Context, display string) (*XServerInfo, error) {
	if display == "" {
		display = os.Getenv("DISPLAY")
	}

	type result struct {
		info *XServerInfo
		err  error
	}
	done := make(chan result, 1)
	go func() {
		info, err := queryXServer(display)
		done <- result{info, err}
	}()

	select {
	case r := <-done:
		return r.info, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %q: %w", ErrNoXServer, display, ctx.Err())
	}
}

func queryXServer(display string) (*XServerInfo, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrNoXServer, display, err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	info := &XServerInfo{
		Display: display,
		Vendor:  setup.Vendor,
		Release: setup.ReleaseNumber,
		Screens: len(setup.Roots),
	}

	const ext = "GLX"
	reply, err := xproto.QueryExtension(conn, uint16(len(ext)), ext).Reply()
	if err != nil {
		return info, fmt.Errorf("%w: %w", ErrNoGLX, err)
	}
	if !reply.Present {
		return info, ErrNoGLX
	}
	if err := glx.Init(conn); err != nil {
		return info, fmt.Errorf("%w: %w", ErrNoGLX, err)
	}

	ver, err := glx.QueryVersion(conn, 1, 4).Reply()
	if err != nil {
		return info, fmt.Errorf("%w: version: %w", ErrNoGLX, err)
	}
	info.GLXMajor, info.GLXMinor = ver.MajorVersion, ver.MinorVersion

	screen := uint32(conn.DefaultScreen)
	if s, err := glx.QueryServerString(conn, screen, glxVendor).Reply(); err == nil {
		info.GLXVendor = s.String
	}
	if s, err := glx.QueryServerString(conn, screen, glxVersion).Reply(); err == nil {
		info.GLXVersion = s.String
	}

	gfxhealth.Logger().Debug("probe: x server",
		"display", display, "vendor", info.Vendor, "glx", info.GLX())
	return info, nil
}
