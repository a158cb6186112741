// Package ocr extracts the printed name from a normalized card crop.
//
// The OCR engine itself is an injected capability: a deployment without
// Tesseract degrades to empty text for every card instead of failing the
// upload. Tesseract must be installed for the real engine:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// nameWhitelist restricts recognition to the characters card names are
// printed with. Dropping digits and punctuation from the search space
// measurably improves accuracy and rejects collector-number and watermark
// noise.
const nameWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz', -"

// Engine is the recognition capability consumed by the Extractor.
type Engine interface {
	// Available reports whether the engine can perform recognition in
	// this deployment. Callers branch on this flag, never on error types.
	Available() bool

	// Recognize runs a single-line OCR pass over a preprocessed
	// name-plate image and returns the raw recognized text.
	Recognize(img image.Image) (string, error)
}

// Tesseract is the gosseract-backed Engine. A fresh client is created per
// call; gosseract clients are not safe for concurrent reuse and creation is
// cheap next to recognition.
type Tesseract struct {
	language string

	probeOnce sync.Once
	available bool
}

// NewTesseract returns a Tesseract engine for the given language
// (for example "eng").
func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{language: language}
}

// Available probes the installed Tesseract once and caches the answer.
func (t *Tesseract) Available() bool {
	t.probeOnce.Do(func() {
		client := gosseract.NewClient()
		defer client.Close()
		t.available = client.Version() != ""
	})
	return t.available
}

// Recognize performs a whitelisted single-line OCR pass. The image is handed
// to Tesseract through a temporary PNG file.
func (t *Tesseract) Recognize(img image.Image) (string, error) {
	tmp, err := os.CreateTemp("", "cardscan-plate-*.png")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode temp image: %w", err)
	}
	tmp.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := client.SetWhitelist(nameWhitelist); err != nil {
		return "", fmt.Errorf("set whitelist: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return "", fmt.Errorf("set page segmentation: %w", err)
	}
	if err := client.SetImage(tmpPath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return text, nil
}
