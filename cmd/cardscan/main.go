package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/cubecheck/cardscan/internal/annotate"
	"github.com/cubecheck/cardscan/internal/checkin"
	"github.com/cubecheck/cardscan/internal/corpus"
	"github.com/cubecheck/cardscan/internal/detect"
	"github.com/cubecheck/cardscan/internal/diag"
	"github.com/cubecheck/cardscan/internal/ocr"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("cardscan %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	var (
		imagePath = flag.String("image", "", "photograph of face-up cards (required)")
		corpusDir = flag.String("corpus", "", "directory of card name lists, *.json or *.txt (required)")
		outPath   = flag.String("annotated", "", "write the annotated review image here (optional)")
		sessionID = flag.String("session", "", "session id stamped onto detections")
		cubeID    = flag.String("cube", "", "cube id stamped onto detections")
		minArea   = flag.Float64("min-area", 0, "minimum card area in square pixels (0 = default)")
		maxArea   = flag.Float64("max-area", 0, "maximum card area in square pixels (0 = default)")
		threshold = flag.Int("threshold", 0, "match acceptance score, 0-100 (0 = default)")
		ocrLang   = flag.String("lang", "eng", "tesseract language")
		debug     = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	if *imagePath == "" || *corpusDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	level := diag.LevelInfo
	if *debug {
		level = diag.LevelDebug
	}
	log := diag.NewStandard(level)

	raw, err := os.ReadFile(*imagePath)
	if err != nil {
		log.Errorf("read image: %v", err)
		os.Exit(1)
	}

	names, err := corpus.NewFromDir(*corpusDir, log)
	if err != nil {
		log.Errorf("corpus: %v", err)
		os.Exit(1)
	}

	engine := ocr.NewTesseract(*ocrLang)
	if !engine.Available() {
		log.Warnf("tesseract unavailable, detections will carry no text")
	}

	pipeline := checkin.New(checkin.Config{
		SessionID:      *sessionID,
		CubeID:         *cubeID,
		Detect:         detect.Config{MinArea: *minArea, MaxArea: *maxArea},
		MatchThreshold: *threshold,
	}, engine, names, log)

	detections, err := pipeline.ProcessImage(raw)
	if err != nil {
		log.Errorf("process image: %v", err)
		os.Exit(1)
	}

	if *outPath != "" {
		annotated, err := annotate.RenderJPEG(raw, detections)
		if err != nil {
			log.Errorf("annotate: %v", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*outPath, annotated, 0o644); err != nil {
			log.Errorf("write annotated image: %v", err)
			os.Exit(1)
		}
		log.Infof("annotated image written to %s", *outPath)
	}

	// Detections go to stdout as JSON; diagnostics stay on stderr.
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(detections); err != nil {
		log.Errorf("encode detections: %v", err)
		os.Exit(1)
	}
}
