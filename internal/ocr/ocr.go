// Package ocr wraps a text recognizer behind an abstract capability: the
// rest of the pipeline is written against Engine and Reader, never against
// a specific recognizer, so detector/scoreparse tests can run against a
// scripted fake and production code can run against Tesseract.
package ocr

import (
	"gocv.io/x/gocv"

	"github.com/almanet26/sports/internal/scoreparse"
)

// Allowlist restricts recognition to the characters a scoreboard can show.
const Allowlist = "0123456789/."

// DefaultMinConfidence is the OCR mean-confidence gate applied to scores.
const DefaultMinConfidence = 0.4

// Engine is the raw text-recognition capability: run over a preprocessed
// ROI image restricted to allowlist, returning the recognized text and the
// mean confidence across detected text boxes.
type Engine interface {
	Recognize(img gocv.Mat, allowlist string) (text string, confidence float64, err error)
}

// Reader implements the score/overs read contracts on top of an Engine.
type Reader struct {
	engine        Engine
	minConfidence float64
}

// NewReader returns a Reader gating score reads at minConfidence.
func NewReader(engine Engine, minConfidence float64) *Reader {
	return &Reader{engine: engine, minConfidence: minConfidence}
}

// MinConfidence returns the confidence gate applied to score reads.
func (r *Reader) MinConfidence() float64 { return r.minConfidence }

// ReadScore recognizes the score ROI and parses it into a ScoreState. It
// returns a nil score when the mean confidence is below the gate or when
// parsing fails; the raw text and confidence are still returned for
// logging and counters.
func (r *Reader) ReadScore(img gocv.Mat, prevWickets *int) (*scoreparse.ScoreState, float64, string, error) {
	text, confidence, err := r.engine.Recognize(img, Allowlist)
	if err != nil {
		return nil, 0, "", err
	}
	if confidence < r.minConfidence {
		return nil, confidence, text, nil
	}
	state, ok := scoreparse.ParseScore(text, prevWickets)
	if !ok {
		return nil, confidence, text, nil
	}
	return &state, confidence, text, nil
}

// ReadOvers recognizes the overs ROI and parses it. No confidence gate is
// applied; overs are secondary and failures simply yield a nil result.
func (r *Reader) ReadOvers(img gocv.Mat) (*scoreparse.Overs, string, error) {
	text, _, err := r.engine.Recognize(img, Allowlist)
	if err != nil {
		return nil, "", err
	}
	overs, ok := scoreparse.ParseOvers(text)
	if !ok {
		return nil, text, nil
	}
	return &overs, text, nil
}
