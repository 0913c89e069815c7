package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// TesseractEngine adapts a gosseract client to the Engine capability. It
// holds process-wide recognizer state (the loaded language models) and is
// meant to be initialized once and reused across frames, per the
// initialize-once-reuse policy for the recognizer.
type TesseractEngine struct {
	client *gosseract.Client
}

// NewTesseractEngine creates a client ready to recognize allowlist-
// restricted scoreboard digits. Callers must Close it when the run ends.
func NewTesseractEngine() *TesseractEngine {
	client := gosseract.NewClient()
	_ = client.SetPageSegMode(gosseract.PSM_SINGLE_LINE)
	return &TesseractEngine{client: client}
}

// Close releases the underlying Tesseract client.
func (e *TesseractEngine) Close() error {
	return e.client.Close()
}

// Recognize runs Tesseract over img restricted to allowlist, returning the
// recognized text and the mean confidence across detected text boxes.
func (e *TesseractEngine) Recognize(img gocv.Mat, allowlist string) (string, float64, error) {
	if img.Empty() {
		return "", 0, fmt.Errorf("ocr: empty image")
	}
	if err := e.client.SetWhitelist(allowlist); err != nil {
		return "", 0, fmt.Errorf("ocr: set whitelist: %w", err)
	}

	buf, err := gocv.IMEncode(".png", img)
	if err != nil {
		return "", 0, fmt.Errorf("ocr: encode roi: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", 0, fmt.Errorf("ocr: load roi: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return "", 0, fmt.Errorf("ocr: bounding boxes: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("ocr: recognize: %w", err)
	}

	confidence := meanConfidence(boxes)
	return text, confidence, nil
}

func meanConfidence(boxes []gosseract.BoundingBox) float64 {
	if len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += float64(b.Confidence) / 100.0
	}
	return sum / float64(len(boxes))
}
