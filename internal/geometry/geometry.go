// Package geometry provides the typed region primitives used by the card
// detection pipeline: rotated card regions, polygon corners, and clamped
// axis-aligned bounding boxes, all in source-image pixel space with the
// origin at the top-left.
package geometry

import (
	"fmt"
	"image"
	"math"
)

// MinUsableSize is the smallest clamped bounding-box side (in pixels) still
// worth processing. Boxes clipped almost entirely off-frame fall below this.
const MinUsableSize = 30

// Point is a 2D coordinate in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Quad holds the four corners of a rotated rectangle, in drawing order.
type Quad [4]Point

// CardRegion is a candidate card found in the source image: a rotated
// rectangle described by its center, size, and rotation angle in degrees.
//
// Invariants (enforced by NewCardRegion): Width > 0 and Height > 0.
// After Normalized(), Width <= Height.
type CardRegion struct {
	Center Point   `json:"center"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Angle  float64 `json:"angle"` // degrees, counter-clockwise
}

// NewCardRegion builds a CardRegion, rejecting degenerate dimensions.
func NewCardRegion(center Point, width, height, angle float64) (CardRegion, error) {
	if width <= 0 || height <= 0 {
		return CardRegion{}, fmt.Errorf("degenerate region %gx%g at (%g,%g)", width, height, center.X, center.Y)
	}
	return CardRegion{Center: center, Width: width, Height: height, Angle: angle}, nil
}

// Area returns the region area in square pixels.
func (r CardRegion) Area() float64 {
	return r.Width * r.Height
}

// AspectRatio returns the long-side / short-side ratio (always >= 1).
func (r CardRegion) AspectRatio() float64 {
	if r.Width > r.Height {
		return r.Width / r.Height
	}
	return r.Height / r.Width
}

// Normalized returns the region in portrait orientation. A landscape region
// has its sides swapped and its angle rotated 90 degrees (mod 180), so the
// same physical rectangle is described with Width <= Height.
func (r CardRegion) Normalized() CardRegion {
	if r.Width <= r.Height {
		return r
	}
	return CardRegion{
		Center: r.Center,
		Width:  r.Height,
		Height: r.Width,
		Angle:  math.Mod(r.Angle+90, 180),
	}
}

// Corners returns the four polygon corners of the region in source-image
// space, starting at the top-left of the unrotated rectangle and proceeding
// clockwise.
func (r CardRegion) Corners() Quad {
	rad := r.Angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	hw, hh := r.Width/2, r.Height/2

	local := [4]Point{
		{-hw, -hh},
		{hw, -hh},
		{hw, hh},
		{-hw, hh},
	}

	var q Quad
	for i, p := range local {
		q[i] = Point{
			X: r.Center.X + p.X*cos - p.Y*sin,
			Y: r.Center.Y + p.X*sin + p.Y*cos,
		}
	}
	return q
}

// BoundingBox returns the axis-aligned bounding rectangle of the region's
// corners, clamped to an imgW x imgH image. The second return is false when
// the clamped box is smaller than MinUsableSize on either side, meaning the
// region is not worth cropping.
func (r CardRegion) BoundingBox(imgW, imgH int) (image.Rectangle, bool) {
	q := r.Corners()

	minX, minY := q[0].X, q[0].Y
	maxX, maxY := q[0].X, q[0].Y
	for _, p := range q[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	box := image.Rect(
		clampInt(int(math.Floor(minX)), 0, imgW),
		clampInt(int(math.Floor(minY)), 0, imgH),
		clampInt(int(math.Ceil(maxX)), 0, imgW),
		clampInt(int(math.Ceil(maxY)), 0, imgH),
	)

	if box.Dx() < MinUsableSize || box.Dy() < MinUsableSize {
		return box, false
	}
	return box, true
}

// clampInt constrains v to the range [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
