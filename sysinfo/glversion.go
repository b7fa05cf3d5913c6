package sysinfo

import (
	"fmt"

	"github.com/gogpu/gfxhealth/glapi"
)

// GLVersion is a parsed GL_VERSION string.
type GLVersion struct {
	String string `yaml:"string"`
	Major  int    `yaml:"major"`
	Minor  int    `yaml:"minor"`
}

// ParseGLVersion parses a GL_VERSION string such as
// "4.6 (Compatibility Profile) Mesa 23.2.1".
func ParseGLVersion(s string) (GLVersion, error) {
	major, minor, err := glapi.ParseVersion(s)
	if err != nil {
		return GLVersion{String: s}, err
	}
	return GLVersion{String: s, Major: major, Minor: minor}, nil
}

// Less reports whether v is older than major.minor.
func (v GLVersion) Less(major, minor int) bool {
	if v.Major != major {
		return v.Major < major
	}
	return v.Minor < minor
}

// Equal reports whether v is exactly major.minor.
func (v GLVersion) Equal(major, minor int) bool {
	return v.Major == major && v.Minor == minor
}

// Pair returns the version as "major.minor".
func (v GLVersion) Pair() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
