package checkin

import (
	"bytes"
	"fmt"
	"image"
	"runtime"
	"sort"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/cubecheck/cardscan/internal/corpus"
	"github.com/cubecheck/cardscan/internal/detect"
	"github.com/cubecheck/cardscan/internal/diag"
	"github.com/cubecheck/cardscan/internal/geometry"
	"github.com/cubecheck/cardscan/internal/ocr"
)

// RowHeight approximates one card-row height in typical photo resolutions.
// The reading-order sort buckets detections into rows of this height.
const RowHeight = 80

// maxWorkers caps the per-region worker pool; past this point OCR is
// contended on CPU, not helped.
const maxWorkers = 8

// Config carries the caller-tunable pipeline parameters.
type Config struct {
	// SessionID and CubeID are stamped onto every detection.
	SessionID string
	CubeID    string

	// Detect tunes the region detector; its MinArea/MaxArea band is the
	// primary control surface.
	Detect detect.Config

	// MatchThreshold is the corpus acceptance score on a 0-100 scale.
	// Non-positive means corpus.DefaultThreshold.
	MatchThreshold int

	// Workers bounds per-region parallelism. Non-positive picks a
	// default from the machine size. Output order is unaffected.
	Workers int
}

// Pipeline orchestrates detect -> extract -> match -> assemble for one
// image at a time. A Pipeline is safe for concurrent ProcessImage calls:
// all shared state (the corpus) is read-only after its exactly-once load.
type Pipeline struct {
	cfg       Config
	detector  *detect.Detector
	extractor *ocr.Extractor
	names     *corpus.Corpus
	log       diag.Logger
}

// New assembles a Pipeline from its collaborators. A nil logger discards
// diagnostics.
func New(cfg Config, engine ocr.Engine, names *corpus.Corpus, log diag.Logger) *Pipeline {
	if log == nil {
		log = diag.Nop{}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Workers > maxWorkers {
		cfg.Workers = maxWorkers
	}
	return &Pipeline{
		cfg:       cfg,
		detector:  detect.New(cfg.Detect, log),
		extractor: ocr.NewExtractor(engine, log),
		names:     names,
		log:       log,
	}
}

// ProcessImage runs the full pipeline over an uploaded image and returns
// detections in reading order. An undecodable image is the one fatal
// error; everything downstream degrades per card and keeps going.
func (p *Pipeline) ProcessImage(rawImage []byte) ([]Detection, error) {
	img, err := imaging.Decode(bytes.NewReader(rawImage))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	regions := p.detector.Detect(img)
	p.log.Infof("checkin: %d candidate region(s)", len(regions))

	// Regions are independent past detection, so OCR+match runs on a
	// bounded pool. Results are addressed by region index; completion
	// order never reaches the output, which is sorted below.
	results := make([]*Detection, len(regions))
	var g errgroup.Group
	g.SetLimit(p.cfg.Workers)
	for i, region := range regions {
		i, region := i, region
		g.Go(func() error {
			if det, ok := p.processRegion(img, bounds, region); ok {
				results[i] = &det
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; they degrade instead

	detections := make([]Detection, 0, len(results))
	for _, det := range results {
		if det != nil {
			detections = append(detections, *det)
		}
	}
	SortDetections(detections)

	matched := 0
	for _, det := range detections {
		if det.RecognizedName != "" {
			matched++
		}
	}
	p.log.Infof("checkin: %d detection(s), %d matched", len(detections), matched)
	return detections, nil
}

// processRegion turns one candidate region into a detection. The bool is
// false when the region dies at the minimum-size normalization gate.
func (p *Pipeline) processRegion(img image.Image, bounds image.Rectangle, region geometry.CardRegion) (Detection, bool) {
	norm := region.Normalized()
	box, ok := norm.BoundingBox(bounds.Dx(), bounds.Dy())
	if !ok {
		p.log.Debugf("checkin: region at (%.0f,%.0f) too small after clamping, dropped",
			norm.Center.X, norm.Center.Y)
		return Detection{}, false
	}

	crop := imaging.Crop(img, box.Add(bounds.Min))

	rawText := p.extractor.ExtractText(crop)
	var match *corpus.MatchResult
	if rawText != "" {
		if m, ok := p.names.Match(rawText, p.cfg.MatchThreshold); ok {
			match = &m
		}
	}

	thumb := makeThumbnail(crop, p.log)
	det := assembleDetection(p.cfg.SessionID, p.cfg.CubeID, box, norm.Corners(), rawText, match, thumb)
	return det, true
}

// Confirm applies a reviewer's decision to a detection. It delegates to the
// package-level Confirm; no part of the pipeline re-runs.
func (p *Pipeline) Confirm(det Detection, confirmedName string) (Detection, error) {
	return Confirm(det, confirmedName)
}

// SearchCorpus returns up to limit candidate names for an autocomplete
// query, independent of the match threshold.
func (p *Pipeline) SearchCorpus(query string, limit int) []string {
	return p.names.Search(query, limit)
}

// SortDetections orders detections for human review: rows of RowHeight
// pixels top to bottom, left to right within a row. The sort is stable, so
// sorting an already-sorted list is a no-op.
func SortDetections(detections []Detection) {
	sort.SliceStable(detections, func(i, j int) bool {
		rowI := detections[i].BBox.Y / RowHeight
		rowJ := detections[j].BBox.Y / RowHeight
		if rowI != rowJ {
			return rowI < rowJ
		}
		return detections[i].BBox.X < detections[j].BBox.X
	})
}
