// Package imgproc implements the raster passes shared by the region detector
// and the OCR preprocessor: grayscale extraction, local-adaptive and Otsu
// binarization, and binary morphology.
package imgproc

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// Binary is a foreground mask over a W x H pixel grid.
type Binary struct {
	Pix []bool
	W   int
	H   int
}

// NewBinary allocates an all-background mask.
func NewBinary(w, h int) *Binary {
	return &Binary{Pix: make([]bool, w*h), W: w, H: h}
}

// At reports whether (x, y) is foreground. Out-of-range coordinates are
// background, which lets neighborhood scans skip bounds checks.
func (b *Binary) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return false
	}
	return b.Pix[y*b.W+x]
}

// Set marks (x, y) as foreground or background.
func (b *Binary) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return
	}
	b.Pix[y*b.W+x] = v
}

// Count returns the number of foreground pixels.
func (b *Binary) Count() int {
	n := 0
	for _, v := range b.Pix {
		if v {
			n++
		}
	}
	return n
}

// Grayscale converts an image to a single-channel intensity plane.
func Grayscale(img image.Image) *image.Gray {
	nrgba := imaging.Grayscale(img)
	b := nrgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := nrgba.Pix[y*nrgba.Stride:]
		dst := gray.Pix[y*gray.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dst[x] = src[x*4] // channels are equal after Grayscale
		}
	}
	return gray
}

// Denoise applies a small Gaussian blur to suppress sensor noise before
// thresholding.
func Denoise(img image.Image, radius float64) image.Image {
	if radius <= 0 {
		return img
	}
	return blur.Gaussian(img, radius)
}

// AdaptiveThreshold binarizes a grayscale plane against its local mean: a
// pixel is foreground when it is more than bias levels brighter than the
// mean of the block x block window around it. Uneven table lighting shifts
// the local mean along with the pixels, which a global threshold cannot
// follow.
//
// block is forced odd and to a minimum of 3.
func AdaptiveThreshold(gray *image.Gray, block, bias int) *Binary {
	if block < 3 {
		block = 3
	}
	if block%2 == 0 {
		block++
	}
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	out := NewBinary(w, h)
	if w == 0 || h == 0 {
		return out
	}

	// Summed-area table, one extra row/column of zeros.
	integral := make([]int64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum int64
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			rowSum += int64(row[x])
			integral[(y+1)*(w+1)+(x+1)] = integral[y*(w+1)+(x+1)] + rowSum
		}
	}

	half := block / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := x-half, y-half
			x1, y1 := x+half+1, y+half+1
			if x0 < 0 {
				x0 = 0
			}
			if y0 < 0 {
				y0 = 0
			}
			if x1 > w {
				x1 = w
			}
			if y1 > h {
				y1 = h
			}
			area := int64((x1 - x0) * (y1 - y0))
			sum := integral[y1*(w+1)+x1] - integral[y0*(w+1)+x1] -
				integral[y1*(w+1)+x0] + integral[y0*(w+1)+x0]
			mean := sum / area
			if int64(gray.Pix[y*gray.Stride+x]) > mean+int64(bias) {
				out.Pix[y*w+x] = true
			}
		}
	}
	return out
}

// OtsuLevel computes the global threshold that maximizes between-class
// variance of the intensity histogram. Suits small, roughly uniformly lit
// crops such as a card's name plate.
func OtsuLevel(gray *image.Gray) uint8 {
	var hist [256]int64
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for _, v := range row {
			hist[v]++
		}
	}

	total := int64(w * h)
	if total == 0 {
		return 0
	}

	var sumAll int64
	for v, n := range hist {
		sumAll += int64(v) * n
	}

	var (
		sumBack   int64
		weightB   int64
		bestLevel uint8
		bestVar   float64
	)
	for v := 0; v < 256; v++ {
		weightB += hist[v]
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}
		sumBack += int64(v) * hist[v]

		meanB := float64(sumBack) / float64(weightB)
		meanF := float64(sumAll-sumBack) / float64(weightF)
		diff := meanB - meanF
		between := float64(weightB) * float64(weightF) * diff * diff
		if between > bestVar {
			bestVar = between
			bestLevel = uint8(v)
		}
	}
	return bestLevel
}
