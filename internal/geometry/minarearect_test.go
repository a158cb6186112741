package geometry

import (
	"image"
	"math"
	"testing"
)

func TestMinAreaRectAxisAligned(t *testing.T) {
	// Dense border of a 100x50 axis-aligned rectangle.
	var pts []image.Point
	for x := 10; x <= 110; x++ {
		pts = append(pts, image.Pt(x, 20), image.Pt(x, 70))
	}
	for y := 20; y <= 70; y++ {
		pts = append(pts, image.Pt(10, y), image.Pt(110, y))
	}

	r, ok := MinAreaRect(pts)
	if !ok {
		t.Fatal("MinAreaRect rejected valid point set")
	}

	if math.Abs(r.Area()-100*50) > 1 {
		t.Errorf("area = %g, want 5000", r.Area())
	}
	if math.Abs(r.AspectRatio()-2.0) > 0.01 {
		t.Errorf("aspect ratio = %g, want 2.0", r.AspectRatio())
	}
	if math.Abs(r.Center.X-60) > 0.5 || math.Abs(r.Center.Y-45) > 0.5 {
		t.Errorf("center = (%g,%g), want (60,45)", r.Center.X, r.Center.Y)
	}
}

func TestMinAreaRectRotated(t *testing.T) {
	// Border points of a 60x100 rectangle rotated 30 degrees about (200,200).
	src := CardRegion{Center: Point{X: 200, Y: 200}, Width: 60, Height: 100, Angle: 30}
	q := src.Corners()

	var pts []image.Point
	for i := 0; i < 4; i++ {
		a, b := q[i], q[(i+1)%4]
		for step := 0; step <= 50; step++ {
			f := float64(step) / 50
			pts = append(pts, image.Pt(
				int(math.Round(a.X+(b.X-a.X)*f)),
				int(math.Round(a.Y+(b.Y-a.Y)*f)),
			))
		}
	}

	r, ok := MinAreaRect(pts)
	if !ok {
		t.Fatal("MinAreaRect rejected rotated point set")
	}

	// Integer rounding of the corner walk costs a couple of pixels.
	if math.Abs(r.Area()-src.Area()) > 300 {
		t.Errorf("area = %g, want about %g", r.Area(), src.Area())
	}
	n := r.Normalized()
	if math.Abs(n.Width-60) > 3 || math.Abs(n.Height-100) > 3 {
		t.Errorf("normalized sides = %gx%g, want about 60x100", n.Width, n.Height)
	}
	if math.Abs(r.Center.X-200) > 2 || math.Abs(r.Center.Y-200) > 2 {
		t.Errorf("center = (%g,%g), want about (200,200)", r.Center.X, r.Center.Y)
	}
}

func TestMinAreaRectDegenerateInput(t *testing.T) {
	if _, ok := MinAreaRect(nil); ok {
		t.Error("accepted empty point set")
	}
	if _, ok := MinAreaRect([]image.Point{{X: 1, Y: 1}, {X: 5, Y: 9}}); ok {
		t.Error("accepted two-point set")
	}

	// Collinear points enclose no area.
	var line []image.Point
	for i := 0; i < 40; i++ {
		line = append(line, image.Pt(i, 2*i))
	}
	if _, ok := MinAreaRect(line); ok {
		t.Error("accepted collinear point set")
	}
}

func TestConvexHullOrientation(t *testing.T) {
	pts := []image.Point{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
		{X: 5, Y: 5}, // interior point must be dropped
	}
	hull := convexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("hull has %d points, want 4", len(hull))
	}
	// Counter-clockwise order in image coordinates: every turn is a left turn.
	for i := range hull {
		a := hull[i]
		b := hull[(i+1)%len(hull)]
		c := hull[(i+2)%len(hull)]
		if cross(a, b, c) <= 0 {
			t.Errorf("hull not counter-clockwise at %d: %v %v %v", i, a, b, c)
		}
	}
}
