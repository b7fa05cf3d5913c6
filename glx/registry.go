package glx

import (
	"sort"
	"sync"
)

// Native backend identifiers.
const (
	NativeXlib = "xlib"
	NativeGLFW = "glfw"
)

// NativeFactory creates a new native backend instance.
type NativeFactory func() Native

// registry holds registered native backends.
var (
	registryMu sync.RWMutex
	natives    = make(map[string]NativeFactory)
	// Priority order for backend selection (first available wins).
	// At most one of them is compiled into a build.
	nativePriority = []string{NativeXlib, NativeGLFW}
)

// Register registers a native backend factory with the given name.
// This is called from init() functions in backend files.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory NativeFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	natives[name] = factory
}

// Unregister removes a native backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(natives, name)
}

// Available returns the sorted names of the registered native backends.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(natives))
	for name := range natives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a native backend instance by name, or nil if the backend is
// not registered.
func Get(name string) Native {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := natives[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available native backend.
// When no backend is compiled in (for example CGO_ENABLED=0 off linux amd64/arm64), it
// returns a placeholder whose every call fails with ErrNoNative, so a
// Context built on it fails at the open display stage.
func Default() Native {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range nativePriority {
		if factory, ok := natives[name]; ok {
			if n := factory(); n != nil {
				return n
			}
		}
	}
	for _, name := range sortedKeys(natives) {
		if n := natives[name](); n != nil {
			return n
		}
	}
	return unavailable{}
}

func sortedKeys(m map[string]NativeFactory) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// unavailable is the placeholder backend returned by Default when nothing
// is registered.
type unavailable struct{}

func (unavailable) Name() string {
	return "none"
}

func (unavailable) OpenDisplay(string) (Display, error) {
	return 0, ErrNoNative
}

func (unavailable) CloseDisplay(Display) error {
	return ErrNoNative
}

func (unavailable) ChooseVisual(Display, VisualAttribs) (Visual, error) {
	return 0, ErrNoNative
}

func (unavailable) FreeVisual(Visual) error {
	return ErrNoNative
}

func (unavailable) CreateContext(Display, Visual, bool) (GLContext, error) {
	return 0, ErrNoNative
}

func (unavailable) DestroyContext(Display, GLContext) error {
	return ErrNoNative
}

func (unavailable) CreateColormap(Display, Visual) (Colormap, error) {
	return 0, ErrNoNative
}

func (unavailable) FreeColormap(Display, Colormap) error {
	return ErrNoNative
}

func (unavailable) CreateWindow(Display, Visual, Colormap, int, int, EventMask) (Window, error) {
	return 0, ErrNoNative
}

func (unavailable) DestroyWindow(Display, Window) error {
	return ErrNoNative
}

func (unavailable) MakeCurrent(Display, Window, GLContext) error {
	return ErrNoNative
}

func (unavailable) ReleaseCurrent(Display) error {
	return ErrNoNative
}

func (unavailable) QueryString(StringName) (string, error) {
	return "", ErrNoNative
}
