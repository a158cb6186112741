package detect

import (
	"image"

	"github.com/cubecheck/cardscan/internal/imgproc"
)

// component is one connected foreground region of the binary mask.
type component struct {
	points []image.Point
	bounds image.Rectangle
}

// findComponents extracts 8-connected foreground components via iterative
// flood fill. The pixel stack replaces recursion so deep regions cannot
// overflow the goroutine stack.
func findComponents(bin *imgproc.Binary) []component {
	visited := make([]bool, bin.W*bin.H)
	var comps []component

	for y := 0; y < bin.H; y++ {
		for x := 0; x < bin.W; x++ {
			idx := y*bin.W + x
			if visited[idx] || !bin.Pix[idx] {
				continue
			}

			comp := component{bounds: image.Rect(x, y, x+1, y+1)}
			stack := []image.Point{{X: x, Y: y}}
			visited[idx] = true

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				comp.points = append(comp.points, p)
				comp.bounds = comp.bounds.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := p.X+dx, p.Y+dy
						if nx < 0 || ny < 0 || nx >= bin.W || ny >= bin.H {
							continue
						}
						nidx := ny*bin.W + nx
						if visited[nidx] || !bin.Pix[nidx] {
							continue
						}
						visited[nidx] = true
						stack = append(stack, image.Point{X: nx, Y: ny})
					}
				}
			}

			comps = append(comps, comp)
		}
	}
	return comps
}

// dropNested removes components whose bounding box lies inside another
// component's bounding box. Cards do not nest, so an inner component is
// card art or text picked up by the threshold, not a separate card.
func dropNested(comps []component) []component {
	if len(comps) < 2 {
		return comps
	}
	keep := comps[:0]
	for i, c := range comps {
		nested := false
		for j, other := range comps {
			if i == j {
				continue
			}
			if c.bounds.In(other.bounds) && c.bounds != other.bounds {
				nested = true
				break
			}
		}
		if !nested {
			keep = append(keep, c)
		}
	}
	return keep
}
