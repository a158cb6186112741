// Package annotate renders review overlays onto a check-in photograph:
// each detection gets its card outline and a name badge colored by review
// state.
package annotate

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/cubecheck/cardscan/internal/checkin"
	"github.com/cubecheck/cardscan/internal/geometry"
)

// Review-state palette.
const (
	hexConfirmed  = "#22c55e"
	hexRecognized = "#fbbf24"
	hexUnmatched  = "#ef4444"
)

const (
	outlineWidth = 3
	badgePadding = 4
	jpegQuality  = 90
)

// stateColor maps a detection to its overlay color.
func stateColor(det checkin.Detection) colorful.Color {
	switch {
	case det.Status == checkin.StatusConfirmed:
		return mustHex(hexConfirmed)
	case det.RecognizedName != "":
		return mustHex(hexRecognized)
	default:
		return mustHex(hexUnmatched)
	}
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("annotate: bad palette constant %q: %v", s, err))
	}
	return c
}

// badgeTextColor picks black or white for legibility against the badge fill.
// The cut sits at L*=0.6 so the red fill still gets white text.
func badgeTextColor(fill colorful.Color) color.Color {
	if l, _, _ := fill.Lab(); l > 0.6 {
		return color.Black
	}
	return color.White
}

// Render draws every detection's polygon outline and name badge over a copy
// of img. The input image is never modified.
func Render(img image.Image, detections []checkin.Detection) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)

	for _, det := range detections {
		fill := stateColor(det)
		rgba := toRGBA(fill)

		drawPolygon(out, det.Polygon, rgba)
		drawBadge(out, det, fill, rgba)
	}
	return out
}

// RenderJPEG decodes an uploaded image, overlays the detections, and returns
// the annotated photograph as a JPEG. An undecodable image is the one error.
func RenderJPEG(rawImage []byte, detections []checkin.Detection) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(rawImage))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, Render(img, detections), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode annotated image: %w", err)
	}
	return buf.Bytes(), nil
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// drawPolygon strokes the closed quadrilateral corner to corner.
func drawPolygon(img *image.RGBA, quad geometry.Quad, c color.RGBA) {
	for i := range quad {
		a, b := quad[i], quad[(i+1)%len(quad)]
		drawLine(img, a, b, c)
	}
}

// drawLine strokes a thick segment by stamping a small square at each step
// of a DDA walk.
func drawLine(img *image.RGBA, a, b geometry.Point, c color.RGBA) {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		stamp(img, int(math.Round(a.X+dx*t)), int(math.Round(a.Y+dy*t)), c)
	}
}

func stamp(img *image.RGBA, cx, cy int, c color.RGBA) {
	half := outlineWidth / 2
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			if (image.Point{X: x, Y: y}).In(img.Bounds()) {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// drawBadge fills a label box above the detection's bounding box and writes
// the display name into it. The badge slides below the box when there is no
// headroom.
func drawBadge(img *image.RGBA, det checkin.Detection, fill colorful.Color, rgba color.RGBA) {
	face := basicfont.Face7x13
	label := det.DisplayName()

	textW := font.MeasureString(face, label).Ceil()
	badgeW := textW + 2*badgePadding
	badgeH := face.Metrics().Height.Ceil() + 2*badgePadding

	x := det.BBox.X
	y := det.BBox.Y - badgeH
	if y < img.Bounds().Min.Y {
		y = det.BBox.Y + det.BBox.Height
	}

	box := image.Rect(x, y, x+badgeW, y+badgeH).Intersect(img.Bounds())
	draw.Draw(img, box, &image.Uniform{C: rgba}, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: badgeTextColor(fill)},
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x + badgePadding),
			Y: fixed.I(y + badgePadding + face.Metrics().Ascent.Ceil()),
		},
	}
	d.DrawString(label)
}
