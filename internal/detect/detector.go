// Package detect locates card-shaped quadrilaterals in a photograph of cards
// laid out face-up. The detector never fails on a decoded image; anything
// that does not survive its geometric gates is simply not reported.
package detect

import (
	"image"

	"github.com/cubecheck/cardscan/internal/diag"
	"github.com/cubecheck/cardscan/internal/geometry"
	"github.com/cubecheck/cardscan/internal/imgproc"
)

// Config tunes the detector's gates. MinArea and MaxArea are the primary
// false-positive/false-negative control and are surfaced to callers; the
// remaining knobs rarely need changing for tabletop photographs.
type Config struct {
	// MinArea and MaxArea bound the accepted region area in square pixels.
	MinArea float64
	MaxArea float64

	// MinAspect and MaxAspect bound the long-side/short-side ratio,
	// encoding the expected card shape and rejecting near-square and
	// elongated noise.
	MinAspect float64
	MaxAspect float64

	// BlurRadius is the Gaussian denoise radius applied before
	// thresholding.
	BlurRadius float64

	// ThresholdBlock and ThresholdBias parameterize the local-adaptive
	// binarization.
	ThresholdBlock int
	ThresholdBias  int

	// CloseKernel is the structuring-element size of the morphological
	// closing pass that bridges broken card edges.
	CloseKernel int
}

// DefaultConfig returns the detector defaults for typical tournament-table
// photographs.
func DefaultConfig() Config {
	return Config{
		MinArea:        5000,
		MaxArea:        300000,
		MinAspect:      1.1,
		MaxAspect:      2.5,
		BlurRadius:     1.5,
		ThresholdBlock: 25,
		ThresholdBias:  8,
		CloseKernel:    3,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MinArea <= 0 {
		c.MinArea = def.MinArea
	}
	if c.MaxArea <= 0 {
		c.MaxArea = def.MaxArea
	}
	if c.MinAspect <= 0 {
		c.MinAspect = def.MinAspect
	}
	if c.MaxAspect <= 0 {
		c.MaxAspect = def.MaxAspect
	}
	if c.BlurRadius <= 0 {
		c.BlurRadius = def.BlurRadius
	}
	if c.ThresholdBlock <= 0 {
		c.ThresholdBlock = def.ThresholdBlock
	}
	if c.ThresholdBias <= 0 {
		c.ThresholdBias = def.ThresholdBias
	}
	if c.CloseKernel <= 0 {
		c.CloseKernel = def.CloseKernel
	}
	return c
}

// Detector finds candidate card regions in an image.
type Detector struct {
	cfg Config
	log diag.Logger
}

// New builds a Detector. Zero-value Config fields fall back to defaults;
// a nil logger discards diagnostics.
func New(cfg Config, log diag.Logger) *Detector {
	if log == nil {
		log = diag.Nop{}
	}
	return &Detector{cfg: cfg.withDefaults(), log: log}
}

// Detect returns one CardRegion per card-shaped blob found in img, in no
// particular order. It returns an empty slice when nothing qualifies.
func (d *Detector) Detect(img image.Image) []geometry.CardRegion {
	blurred := imgproc.Denoise(img, d.cfg.BlurRadius)
	gray := imgproc.Grayscale(blurred)
	bin := imgproc.AdaptiveThreshold(gray, d.cfg.ThresholdBlock, d.cfg.ThresholdBias)
	closed := imgproc.Close(bin, d.cfg.CloseKernel)

	comps := dropNested(findComponents(closed))
	d.log.Debugf("detect: %d candidate components", len(comps))

	regions := make([]geometry.CardRegion, 0, len(comps))
	for _, comp := range comps {
		// Hull area matches the enclosed contour area whether the
		// threshold produced a filled blob or just the card's bright rim.
		area := geometry.ConvexHullArea(comp.points)
		if area < d.cfg.MinArea || area > d.cfg.MaxArea {
			d.log.Debugf("detect: component at %v rejected, area %.0f outside [%.0f, %.0f]",
				comp.bounds, area, d.cfg.MinArea, d.cfg.MaxArea)
			continue
		}

		region, ok := geometry.MinAreaRect(comp.points)
		if !ok {
			d.log.Debugf("detect: component at %v rejected, degenerate rectangle", comp.bounds)
			continue
		}

		if ratio := region.AspectRatio(); ratio < d.cfg.MinAspect || ratio > d.cfg.MaxAspect {
			d.log.Debugf("detect: component at %v rejected, aspect %.2f outside [%.2f, %.2f]",
				comp.bounds, ratio, d.cfg.MinAspect, d.cfg.MaxAspect)
			continue
		}

		regions = append(regions, region)
	}

	d.log.Infof("detect: %d region(s) from %d component(s)", len(regions), len(comps))
	return regions
}
