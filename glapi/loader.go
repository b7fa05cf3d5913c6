package glapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gfxhealth"
)

// Loader resolves OpenGL entry points against the current context.
type Loader interface {
	// Init resolves the entry points. It fails when no context is current
	// or the driver lacks a required function.
	Init() error

	// API returns the resolved functions. Only valid after Init succeeds.
	API() API
}

// Capabilities is the result of a successful Load: the resolved functions
// and the version of the context they were resolved against.
type Capabilities struct {
	api          API
	major, minor int
}

// API returns the loaded functions.
func (c *Capabilities) API() API {
	return c.api
}

// Major returns the major version of the loaded context.
func (c *Capabilities) Major() int {
	return c.major
}

// Minor returns the minor version of the loaded context.
func (c *Capabilities) Minor() int {
	return c.minor
}

// AtLeast reports whether the loaded version is major.minor or later.
func (c *Capabilities) AtLeast(major, minor int) bool {
	if c.major != major {
		return c.major > major
	}
	return c.minor >= minor
}

// String returns the version as "major.minor".
func (c *Capabilities) String() string {
	return fmt.Sprintf("%d.%d", c.major, c.minor)
}

// Load resolves the entry points through l and reads the context version.
//
// The version comes from GL_MAJOR_VERSION and GL_MINOR_VERSION. Drivers
// older than 3.0 do not know those enums and report an error, in which
// case the GL_VERSION string is parsed instead.
func Load(l Loader) (*Capabilities, error) {
	if err := l.Init(); err != nil {
		return nil, loadFailed(err)
	}
	api := l.API()
	if api == nil {
		return nil, ErrLoadFunctions
	}

	major, minor, ok := queryVersion(api)
	if !ok {
		v := api.GetString(VERSION)
		var err error
		major, minor, err = ParseVersion(v)
		if err != nil {
			return nil, loadFailed(err)
		}
	}

	gfxhealth.Logger().Debug("glapi: functions loaded", "major", major, "minor", minor)
	return &Capabilities{api: api, major: major, minor: minor}, nil
}

// loadError reports ErrLoadFunctions with its fixed message and keeps the
// cause reachable through errors.Is and errors.As.
type loadError struct {
	cause error
}

func (e *loadError) Error() string   { return ErrLoadFunctions.Error() }
func (e *loadError) Unwrap() []error { return []error{ErrLoadFunctions, e.cause} }

func loadFailed(cause error) error {
	gfxhealth.Logger().Warn("glapi: load failed", "err", cause)
	return &loadError{cause: cause}
}

func queryVersion(api API) (major, minor int, ok bool) {
	// Drain errors left by earlier calls.
	for i := 0; i < 8; i++ {
		if api.GetError() == NO_ERROR {
			break
		}
	}

	var mj, mn int32
	api.GetIntegerv(MAJOR_VERSION, &mj)
	api.GetIntegerv(MINOR_VERSION, &mn)
	if api.GetError() != NO_ERROR || mj <= 0 {
		return 0, 0, false
	}
	return int(mj), int(mn), true
}

// ParseVersion extracts the leading "major.minor" pair of a GL_VERSION
// string such as "4.6 (Compatibility Profile) Mesa 23.2.1" or
// "OpenGL ES 3.2 Mesa 23.2.1".
func ParseVersion(s string) (major, minor int, err error) {
	v := strings.TrimSpace(s)
	v = strings.TrimPrefix(v, "OpenGL ES ")
	if i := strings.IndexAny(v, " -"); i >= 0 {
		v = v[:i]
	}
	parts := strings.Split(v, ".")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("glapi: unparsable version %q", s)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("glapi: unparsable version %q", s)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("glapi: unparsable version %q", s)
	}
	return major, minor, nil
}
