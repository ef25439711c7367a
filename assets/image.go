package assets

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ToNRGBA converts any image to NRGBA with its origin at (0, 0).
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Downscale shrinks img so its longest side is at most maxSize.
// Images already within bounds are returned unchanged.
func Downscale(img *image.NRGBA, maxSize int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	nw, nh := maxSize, maxSize
	if w >= h {
		nh = max(1, h*maxSize/w)
	} else {
		nw = max(1, w*maxSize/h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Region returns the pixel rectangle of an atlas cell given as
// {offsetU, offsetV, scaleU, scaleV}, with V measured from the bottom.
// A zero scale selects the whole image.
func Region(b image.Rectangle, uv [4]float64) image.Rectangle {
	if uv[2] <= 0 || uv[3] <= 0 {
		return b
	}
	w, h := float64(b.Dx()), float64(b.Dy())
	r := image.Rect(
		b.Min.X+int(uv[0]*w+0.5),
		b.Min.Y+int((1-uv[1]-uv[3])*h+0.5),
		b.Min.X+int((uv[0]+uv[2])*w+0.5),
		b.Min.Y+int((1-uv[1])*h+0.5),
	)
	return r.Intersect(b)
}

// Crop copies an atlas cell into its own image.
func Crop(img *image.NRGBA, uv [4]float64) *image.NRGBA {
	r := Region(img.Bounds(), uv)
	if r == img.Bounds() {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}

// Solid returns a size x size image of one opaque color, the stand-in for
// a texture that failed to load.
func Solid(rgb [3]uint8, size int) *image.NRGBA {
	if size < 1 {
		size = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}), image.Point{}, draw.Src)
	return dst
}
