// Package checkin drives the card check-in pipeline: one photograph of
// face-up cards in, an ordered list of card detections out. Persistence,
// transport, and review UI are the caller's business; this package only
// produces and mutates in-memory records.
package checkin

import (
	"errors"
	"strings"

	"github.com/cubecheck/cardscan/internal/geometry"
)

// Status tags a detection's position in the review workflow.
type Status string

const (
	// StatusDetected marks a record fresh out of the pipeline.
	StatusDetected Status = "DETECTED"

	// StatusConfirmed marks a record whose name a human reviewer has
	// confirmed.
	StatusConfirmed Status = "CONFIRMED"
)

// placeholderName is displayed when a detection carries no usable text.
const placeholderName = "Unknown card"

// BoundingBox is an axis-aligned rectangle in source-image pixel space,
// origin top-left.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Detection describes one located, possibly identified card. All
// coordinates are in the space of the original uploaded image.
type Detection struct {
	// SessionID and CubeID are opaque owner references supplied by the
	// caller and passed through untouched.
	SessionID string `json:"session_id,omitempty"`
	CubeID    string `json:"cube_id,omitempty"`

	// BBox is the clamped axis-aligned bounding box of the card.
	BBox BoundingBox `json:"bbox"`

	// Polygon holds the four corner points of the detected card
	// quadrilateral.
	Polygon geometry.Quad `json:"polygon"`

	// RawText is the cleaned OCR output, possibly empty.
	RawText string `json:"raw_text"`

	// RecognizedName is the best corpus match, empty when none scored
	// above the threshold.
	RecognizedName string `json:"recognized_name,omitempty"`

	// ConfirmedName is set only by a human reviewer, via Confirm.
	ConfirmedName string `json:"confirmed_name,omitempty"`

	// Confidence is the matcher score in [0, 1]; zero when unmatched.
	Confidence float64 `json:"confidence"`

	// ThumbnailB64 is a base64-encoded JPEG of the card crop, small
	// enough to embed hundreds per response. Empty when thumbnail
	// rendering failed.
	ThumbnailB64 string `json:"thumbnail_b64,omitempty"`

	Status Status `json:"status"`
}

// DisplayName resolves the name shown for this detection, in fixed
// precedence: confirmed, then recognized, then raw OCR text, then a
// placeholder. Never empty.
func (d Detection) DisplayName() string {
	switch {
	case d.ConfirmedName != "":
		return d.ConfirmedName
	case d.RecognizedName != "":
		return d.RecognizedName
	case d.RawText != "":
		return d.RawText
	default:
		return placeholderName
	}
}

// ErrEmptyConfirmedName rejects confirmations that would blank a record.
var ErrEmptyConfirmedName = errors.New("confirmed name must not be empty")

// Confirm records a reviewer's decision on a detection: the confirmed name
// is set and the status moves to CONFIRMED. The operation is a pure state
// transition, idempotent, and never re-runs detection.
func Confirm(d Detection, confirmedName string) (Detection, error) {
	confirmedName = strings.TrimSpace(confirmedName)
	if confirmedName == "" {
		return Detection{}, ErrEmptyConfirmedName
	}
	d.ConfirmedName = confirmedName
	d.Status = StatusConfirmed
	return d, nil
}
