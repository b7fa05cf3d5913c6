package glx

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gogpu/gfxhealth"
)

// Info holds the driver strings of a live context.
type Info struct {
	Vendor                 string `yaml:"vendor"`
	Renderer               string `yaml:"renderer"`
	Version                string `yaml:"version"`
	ShadingLanguageVersion string `yaml:"shading_language_version"`
}

// Option configures a Context during construction.
type Option func(*Context)

// WithVisualAttribs overrides the pixel format requested in stage 2.
func WithVisualAttribs(attrs VisualAttribs) Option {
	return func(c *Context) {
		c.attrs = attrs
	}
}

// WithDisplay selects the display to connect to in stage 1.
// The default, an empty name, uses $DISPLAY.
func WithDisplay(name string) Option {
	return func(c *Context) {
		c.displayName = name
	}
}

// WithEventMask overrides the window event subscription.
// The default subscribes to expose and key press events; nothing in this
// module drains them.
func WithEventMask(mask EventMask) Option {
	return func(c *Context) {
		c.events = mask
	}
}

// Context owns one display connection, window and GLX context.
//
// A Context is not safe for concurrent use. Between a successful Create and
// Destroy the calling goroutine stays locked to its OS thread, and all GL
// work must happen on that goroutine.
type Context struct {
	native      Native
	displayName string
	attrs       VisualAttribs
	events      EventMask

	display  Display
	colormap Colormap
	window   Window
	glctx    GLContext

	width, height int
	live          bool
}

// New returns an unset Context driving the given native backend.
func New(native Native, opts ...Option) *Context {
	c := &Context{
		native: native,
		attrs:  DefaultVisualAttribs(),
		events: ExposureMask | KeyPressMask,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Native returns the backend the context drives.
func (c *Context) Native() Native {
	return c.native
}

// Live reports whether Create succeeded and Destroy has not been called.
func (c *Context) Live() bool {
	return c.live
}

// Size returns the window size requested by the last successful Create.
func (c *Context) Size() (width, height int) {
	return c.width, c.height
}

// Create opens the display, creates the context and window, and makes the
// context current on the calling thread.
//
// Create is all or nothing: on failure every resource acquired by earlier
// stages has been released and the returned *StageError names the failing
// stage. The window is never mapped.
func (c *Context) Create(width, height int) error {
	if c.live {
		return ErrContextLive
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	log := gfxhealth.Logger().With("backend", c.native.Name())

	runtime.LockOSThread()
	var r resources
	fail := func(stage Stage, cause error) error {
		c.release(r)
		runtime.UnlockOSThread()
		err := &StageError{Stage: stage, Err: cause}
		log.Debug("glx: create failed", "stage", stage.String(), "err", cause)
		return err
	}

	d, err := c.native.OpenDisplay(c.displayName)
	if err != nil {
		return fail(StageOpenDisplay, err)
	}
	r.display = d

	v, err := c.native.ChooseVisual(d, c.attrs)
	if err != nil {
		return fail(StageChooseVisual, err)
	}
	r.visual = v

	ctx, err := c.native.CreateContext(d, v, true)
	if err != nil {
		return fail(StageCreateContext, err)
	}
	r.glctx = ctx

	cm, err := c.native.CreateColormap(d, v)
	if err != nil {
		return fail(StageCreateWindow, fmt.Errorf("colormap: %w", err))
	}
	r.colormap = cm

	w, err := c.native.CreateWindow(d, v, cm, width, height, c.events)
	if err != nil {
		return fail(StageCreateWindow, err)
	}
	r.window = w

	if err := c.native.MakeCurrent(d, w, ctx); err != nil {
		return fail(StageMakeCurrent, err)
	}

	// The visual is only needed until the window exists.
	if err := c.native.FreeVisual(v); err != nil {
		log.Warn("glx: free visual failed", "err", err)
	}

	c.display = d
	c.colormap = cm
	c.window = w
	c.glctx = ctx
	c.width, c.height = width, height
	c.live = true

	log.Info("glx: context created", "width", width, "height", height)
	return nil
}

// Destroy unbinds and releases the context, window, colormap and display
// connection, and resets the Context so Create can be called again.
//
// Teardown is best effort: native failures are logged and Destroy always
// returns nil. Destroy on a Context that is not live does nothing.
func (c *Context) Destroy() error {
	if !c.live {
		return nil
	}

	if err := c.native.ReleaseCurrent(c.display); err != nil {
		gfxhealth.Logger().Warn("glx: release current failed", "err", err)
	}
	c.release(resources{
		display:  c.display,
		colormap: c.colormap,
		window:   c.window,
		glctx:    c.glctx,
	})

	c.display = 0
	c.colormap = 0
	c.window = 0
	c.glctx = 0
	c.width, c.height = 0, 0
	c.live = false
	runtime.UnlockOSThread()

	gfxhealth.Logger().Info("glx: context destroyed")
	return nil
}

// VersionString returns the GL_VERSION string reported by the driver.
func (c *Context) VersionString() (string, error) {
	if !c.live {
		return "", ErrNoContext
	}
	return c.native.QueryString(StringVersion)
}

// Info returns the vendor, renderer, version and shading language version
// strings of the live context. All four are queried; the first error is
// returned together with whatever strings were obtained.
func (c *Context) Info() (Info, error) {
	if !c.live {
		return Info{}, ErrNoContext
	}
	var errs []error
	get := func(name StringName) string {
		s, err := c.native.QueryString(name)
		if err != nil {
			errs = append(errs, err)
		}
		return s
	}
	info := Info{
		Vendor:                 get(StringVendor),
		Renderer:               get(StringRenderer),
		Version:                get(StringVersion),
		ShadingLanguageVersion: get(StringShadingLanguageVersion),
	}
	if len(errs) > 0 {
		return info, errs[0]
	}
	return info, nil
}

// resources tracks what Create has acquired so far.
type resources struct {
	display  Display
	visual   Visual
	glctx    GLContext
	colormap Colormap
	window   Window
}

// release frees the acquired resources: context, window, colormap, visual,
// then the display connection. Zero handles are skipped.
func (c *Context) release(r resources) {
	if r.display == 0 {
		return
	}
	var errs []error
	if r.glctx != 0 {
		errs = append(errs, wrapRelease("destroy context", c.native.DestroyContext(r.display, r.glctx)))
	}
	if r.window != 0 {
		errs = append(errs, wrapRelease("destroy window", c.native.DestroyWindow(r.display, r.window)))
	}
	if r.colormap != 0 {
		errs = append(errs, wrapRelease("free colormap", c.native.FreeColormap(r.display, r.colormap)))
	}
	if r.visual != 0 {
		errs = append(errs, wrapRelease("free visual", c.native.FreeVisual(r.visual)))
	}
	errs = append(errs, wrapRelease("close display", c.native.CloseDisplay(r.display)))

	if err := errors.Join(errs...); err != nil {
		gfxhealth.Logger().Warn("glx: teardown incomplete", "err", err)
	}
}

func wrapRelease(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
