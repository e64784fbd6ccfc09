package convert

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Scale draws the full src onto the full dst, stretching as needed.
//
// Equal sizes are a plain copy. Integer magnifications use nearest-neighbor
// so raw pixels stay crisp; everything else is bilinear.
func Scale(dst, src *image.RGBA) {
	db, sb := dst.Bounds(), src.Bounds()
	if db.Dx() == sb.Dx() && db.Dy() == sb.Dy() {
		draw.Draw(dst, db, src, sb.Min, draw.Src)
		return
	}
	Interpolator(sb.Dx(), sb.Dy(), db.Dx(), db.Dy()).Scale(dst, db, src, sb, xdraw.Src, nil)
}

// Interpolator picks the scaler used for a src -> dst size change.
func Interpolator(sw, sh, dw, dh int) xdraw.Interpolator {
	if sw > 0 && sh > 0 && dw%sw == 0 && dh%sh == 0 && dw/sw == dh/sh {
		return xdraw.NearestNeighbor
	}
	return xdraw.ApproxBiLinear
}
