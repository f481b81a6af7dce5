package renderer

import (
	"image"
	"image/color"

	"github.com/jspall/go-progressive-pathtracer/pkg/core"
)

// Framebuffer is the capability any render target exposes. Colors are
// linear floating-point; conversion to a display format is the sink's
// concern.
type Framebuffer interface {
	Width() int
	Height() int
	SetPixel(x, y int, color core.Vec3)
}

// ImageFramebuffer adapts an image.RGBA to the Framebuffer capability,
// converting linear color to gamma-corrected 8-bit on write
type ImageFramebuffer struct {
	img   *image.RGBA
	gamma float64
}

// NewImageFramebuffer creates an RGBA-backed framebuffer with gamma-2
// display conversion
func NewImageFramebuffer(width, height int) *ImageFramebuffer {
	return &ImageFramebuffer{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		gamma: 2.0,
	}
}

// Width returns the image width in pixels
func (fb *ImageFramebuffer) Width() int { return fb.img.Bounds().Dx() }

// Height returns the image height in pixels
func (fb *ImageFramebuffer) Height() int { return fb.img.Bounds().Dy() }

// SetPixel converts a linear color to 8-bit RGBA and stores it
func (fb *ImageFramebuffer) SetPixel(x, y int, colorVec core.Vec3) {
	fb.img.SetRGBA(x, y, LinearToRGBA(colorVec, fb.gamma))
}

// Image returns the backing RGBA image
func (fb *ImageFramebuffer) Image() *image.RGBA { return fb.img }

// LinearToRGBA converts a linear color to RGBA with clamping and gamma
// correction
func LinearToRGBA(colorVec core.Vec3, gamma float64) color.RGBA {
	colorVec = colorVec.Clamp(0.0, 1.0).GammaCorrect(gamma)
	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
