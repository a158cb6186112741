package geometry

import (
	"image"
	"math"
	"sort"
)

// MinAreaRect computes the minimum-area rotated rectangle enclosing a point
// set. The result's Angle is the direction of the rectangle side the Width
// runs along, in degrees.
//
// The second return is false for degenerate input: fewer than three distinct
// points, or a collinear set with no enclosing area.
func MinAreaRect(points []image.Point) (CardRegion, bool) {
	hull := convexHull(points)
	if len(hull) < 3 {
		return CardRegion{}, false
	}

	best := CardRegion{}
	bestArea := math.Inf(1)

	// The minimum-area rectangle has one side collinear with a hull edge,
	// so trying every edge direction is exhaustive.
	for i := 0; i < len(hull); i++ {
		a := hull[i]
		b := hull[(i+1)%len(hull)]

		ex, ey := b.X-a.X, b.Y-a.Y
		length := math.Hypot(ex, ey)
		if length == 0 {
			continue
		}
		ux, uy := ex/length, ey/length // edge direction
		vx, vy := -uy, ux              // edge normal

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			u := p.X*ux + p.Y*uy
			v := p.X*vx + p.Y*vy
			minU = math.Min(minU, u)
			maxU = math.Max(maxU, u)
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}

		w := maxU - minU
		h := maxV - minV
		area := w * h
		if area >= bestArea {
			continue
		}

		cu := (minU + maxU) / 2
		cv := (minV + maxV) / 2
		bestArea = area
		best = CardRegion{
			Center: Point{X: cu*ux + cv*vx, Y: cu*uy + cv*vy},
			Width:  w,
			Height: h,
			Angle:  math.Atan2(uy, ux) * 180 / math.Pi,
		}
	}

	if math.IsInf(bestArea, 1) || best.Width <= 0 || best.Height <= 0 {
		return CardRegion{}, false
	}
	return best, true
}

// ConvexHullArea returns the area enclosed by the convex hull of a point
// set, or 0 for degenerate input. For a card-shaped contour this matches the
// enclosed contour area whether the point set is a filled blob or only its
// boundary rim.
func ConvexHullArea(points []image.Point) float64 {
	hull := convexHull(points)
	if len(hull) < 3 {
		return 0
	}
	// Shoelace formula.
	var sum float64
	for i, a := range hull {
		b := hull[(i+1)%len(hull)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum) / 2
}

// convexHull returns the convex hull of a point set in counter-clockwise
// order (Andrew's monotone chain). Collinear interior points are dropped.
func convexHull(points []image.Point) []Point {
	if len(points) == 0 {
		return nil
	}

	pts := make([]Point, len(points))
	for i, p := range points {
		pts[i] = Point{X: float64(p.X), Y: float64(p.Y)}
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	// Deduplicate; repeated pixels are common in contour point lists.
	uniq := pts[:1]
	for _, p := range pts[1:] {
		last := uniq[len(uniq)-1]
		if p.X != last.X || p.Y != last.Y {
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return pts
	}

	var hull []Point

	// Lower hull.
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// Upper hull.
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull[:len(hull)-1]
}

// cross returns the z-component of (b-a) x (c-a): positive for a left turn.
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
