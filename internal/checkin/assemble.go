package checkin

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"

	"github.com/disintegration/imaging"

	"github.com/cubecheck/cardscan/internal/corpus"
	"github.com/cubecheck/cardscan/internal/diag"
	"github.com/cubecheck/cardscan/internal/geometry"
)

const (
	// ThumbnailMaxPx bounds both thumbnail dimensions. Crops are only
	// ever scaled down, never up.
	ThumbnailMaxPx = 120

	thumbnailQuality = 75
)

// makeThumbnail renders a card crop as a base64 JPEG no larger than
// ThumbnailMaxPx on either side. Any failure degrades to "" so a bad crop
// costs the thumbnail, not the detection.
func makeThumbnail(crop image.Image, log diag.Logger) string {
	if log == nil {
		log = diag.Nop{}
	}
	if crop == nil {
		return ""
	}
	b := crop.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}

	small := crop
	if b.Dx() > ThumbnailMaxPx || b.Dy() > ThumbnailMaxPx {
		small = imaging.Fit(crop, ThumbnailMaxPx, ThumbnailMaxPx, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, small, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		log.Warnf("checkin: thumbnail encode failed: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// assembleDetection combines one region's crop, OCR text, and match result
// into the record shape callers persist.
func assembleDetection(sessionID, cubeID string, box image.Rectangle, polygon geometry.Quad,
	rawText string, match *corpus.MatchResult, thumbnail string) Detection {

	det := Detection{
		SessionID: sessionID,
		CubeID:    cubeID,
		BBox: BoundingBox{
			X:      box.Min.X,
			Y:      box.Min.Y,
			Width:  box.Dx(),
			Height: box.Dy(),
		},
		Polygon:      polygon,
		RawText:      rawText,
		ThumbnailB64: thumbnail,
		Status:       StatusDetected,
	}
	if match != nil {
		det.RecognizedName = match.Name
		det.Confidence = match.Confidence
	}
	return det
}
