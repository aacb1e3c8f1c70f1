package documents

import "math"

type PaperSize struct {
	Name   string
	Width  float64 // in `pt` (1" = 72pts)
	Height float64 // in `pt`
}

var A4Size = PaperSize{Name: "A4", Width: 595.28, Height: 841.89} // 210mm x 297mm

// Rect is a box in PDF user space: points, origin at the lower-left corner
// of the page.
type Rect struct {
	X, Y, W, H float64
}

const pageMargin = 48.0

// SignatureBox is reserved on the signature page of every quote. The renderer
// draws it and the compositor stamps into it, so both must agree on it.
var SignatureBox = Rect{X: 330, Y: 120, W: 217, H: 84}

// signedCaptionOffset is the distance between the bottom of the box and the
// baseline of the "Signed on" caption.
const signedCaptionOffset = 14.0

// FitWithin scales a w x h image into box keeping its aspect ratio. It returns
// the scale factor and the resulting size. The binding dimension is whichever
// of width or height runs out first.
func FitWithin(w, h float64, box Rect) (scale, outW, outH float64) {
	if w <= 0 || h <= 0 {
		return 0, 0, 0
	}
	scale = math.Min(box.W/w, box.H/h)
	return scale, w * scale, h * scale
}

// Centered returns the lower-left corner that centers a w x h area in box.
func Centered(w, h float64, box Rect) (x, y float64) {
	return box.X + (box.W-w)/2, box.Y + (box.H-h)/2
}

// topLeftY converts a lower-left based y of an element with height h into the
// top-left based coordinate the layout engine uses.
func topLeftY(paper PaperSize, y, h float64) float64 {
	return paper.Height - y - h
}
