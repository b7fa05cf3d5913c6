package selftest

import (
	"image"
	"image/png"
	"os"

	"github.com/gogpu/gfxhealth/glapi"
	"golang.org/x/image/draw"
)

// Snapshot reads the width x height framebuffer of the current context
// into an image. Rows are flipped so the image is top-down.
func Snapshot(api glapi.API, width, height int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return img, nil
	}
	pix := make([]byte, width*height*4)
	err := call0(api, "glReadPixels(0, 0, width, height, GL_RGBA, GL_UNSIGNED_BYTE, pixels)", func() {
		api.ReadPixels(0, 0, int32(width), int32(height), glapi.RGBA, glapi.UNSIGNED_BYTE, pix)
	})
	if err != nil {
		return nil, err
	}

	stride := width * 4
	for y := 0; y < height; y++ {
		src := pix[(height-1-y)*stride : (height-y)*stride]
		copy(img.Pix[y*img.Stride:], src)
	}
	return img, nil
}

// Thumbnail scales src down so that neither side exceeds maxSide.
// Images already small enough are returned unscaled.
func Thumbnail(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return src
	}
	if w >= h {
		h = max(1, h*maxSide/w)
		w = maxSide
	} else {
		w = max(1, w*maxSide/h)
		h = maxSide
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// SavePNG writes img to a PNG file at path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
