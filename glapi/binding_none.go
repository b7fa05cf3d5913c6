//go:build !cgo && !(linux && (amd64 || arm64))

package glapi

// Default returns a Loader whose Init fails with ErrNoBinding.
func Default() Loader {
	return noBinding{}
}

type noBinding struct{}

func (noBinding) Init() error { return ErrNoBinding }
func (noBinding) API() API    { return nil }
