package ocr

import (
	"image"
	"math"
	"regexp"
	"strings"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"

	"github.com/cubecheck/cardscan/internal/diag"
	"github.com/cubecheck/cardscan/internal/imgproc"
)

const (
	// nameplateFraction of the card height holds the printed name on a
	// portrait card.
	nameplateFraction = 0.30

	// nameplateMaxPx caps the plate height on high-resolution crops.
	nameplateMaxPx = 120

	// minPlateHeight and minPlateWidth are the usable floors; smaller
	// plates produce OCR noise rather than signal.
	minPlateHeight = 30
	minPlateWidth  = 60

	// targetTextHeight is the plate height small crops are upscaled
	// toward before recognition.
	targetTextHeight = 60
)

var (
	nonNameChars = regexp.MustCompile(`[^A-Za-z ',\-]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// Extractor crops and preprocesses the name plate of a card crop and runs it
// through the injected Engine.
type Extractor struct {
	engine Engine
	log    diag.Logger
}

// NewExtractor builds an Extractor. A nil logger discards diagnostics.
func NewExtractor(engine Engine, log diag.Logger) *Extractor {
	if log == nil {
		log = diag.Nop{}
	}
	return &Extractor{engine: engine, log: log}
}

// ExtractText returns the cleaned card name text read from a portrait card
// crop, or "" when the plate is too small, the engine is unavailable, or
// recognition fails. It never returns an error: per-card OCR trouble
// degrades that one card, not the upload.
func (e *Extractor) ExtractText(cardCrop image.Image) string {
	if cardCrop == nil {
		return ""
	}
	b := cardCrop.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return ""
	}

	plateH := int(math.Round(float64(h) * nameplateFraction))
	if plateH > nameplateMaxPx {
		plateH = nameplateMaxPx
	}
	if plateH < minPlateHeight || w < minPlateWidth {
		e.log.Debugf("ocr: plate %dx%d below usable floor, skipping", w, plateH)
		return ""
	}

	plate := imaging.Crop(cardCrop, image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+plateH))

	// Low-resolution plates are upscaled so the text height approaches
	// what Tesseract resolves well.
	if plateH < targetTextHeight {
		scale := float64(targetTextHeight) / float64(plateH)
		plate = imaging.Resize(plate, int(math.Round(float64(w)*scale)), targetTextHeight, imaging.CatmullRom)
	}

	gray := imgproc.Grayscale(plate)
	binary := segment.Threshold(gray, imgproc.OtsuLevel(gray))

	if !e.engine.Available() {
		e.log.Warnf("ocr: engine unavailable, returning empty text")
		return ""
	}

	raw, err := e.engine.Recognize(binary)
	if err != nil {
		e.log.Warnf("ocr: recognition failed: %v", err)
		return ""
	}
	return CleanText(raw)
}

// CleanText strips OCR noise from a raw recognition result: characters
// outside the name alphabet are removed, whitespace runs collapse to a
// single space, and the result is trimmed.
func CleanText(raw string) string {
	cleaned := nonNameChars.ReplaceAllString(raw, "")
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
