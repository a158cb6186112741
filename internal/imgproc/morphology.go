package imgproc

// Dilate grows foreground by one pass of a kernel x kernel square
// structuring element.
func Dilate(b *Binary, kernel int) *Binary {
	return morph(b, kernel, true)
}

// Erode shrinks foreground by one pass of a kernel x kernel square
// structuring element.
func Erode(b *Binary, kernel int) *Binary {
	return morph(b, kernel, false)
}

// Close bridges small gaps in the foreground: dilate then erode. A card
// outline broken by glare or a worn edge survives thresholding as separate
// arcs; closing reconnects them into one component.
func Close(b *Binary, kernel int) *Binary {
	return Erode(Dilate(b, kernel), kernel)
}

func morph(b *Binary, kernel int, dilate bool) *Binary {
	if kernel < 3 {
		kernel = 3
	}
	if kernel%2 == 0 {
		kernel++
	}
	half := kernel / 2

	out := NewBinary(b.W, b.H)
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if dilate {
				// Any foreground neighbor sets the pixel.
				hit := false
				for ky := -half; ky <= half && !hit; ky++ {
					for kx := -half; kx <= half && !hit; kx++ {
						if b.At(x+kx, y+ky) {
							hit = true
						}
					}
				}
				out.Pix[y*b.W+x] = hit
			} else {
				// Every neighbor must be foreground. Pixels within half a
				// kernel of the border erode away because At treats
				// out-of-range as background.
				all := true
				for ky := -half; ky <= half && all; ky++ {
					for kx := -half; kx <= half && all; kx++ {
						if !b.At(x+kx, y+ky) {
							all = false
						}
					}
				}
				out.Pix[y*b.W+x] = all
			}
		}
	}
	return out
}
