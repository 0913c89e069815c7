package ocr

import "gocv.io/x/gocv"

// ScriptedResult is one entry in a FakeEngine's script.
type ScriptedResult struct {
	Text       string
	Confidence float64
	Err        error
}

// FakeEngine is a deterministic Engine that returns a scripted sequence of
// (text, confidence) results, one per call, regardless of the image or
// allowlist passed in. Used to exercise the detector/pipeline end-to-end
// without a real recognizer. Calls past the end of the script repeat the
// final entry.
type FakeEngine struct {
	script []ScriptedResult
	calls  int
}

// NewFakeEngine returns a FakeEngine that replays script in order.
func NewFakeEngine(script []ScriptedResult) *FakeEngine {
	return &FakeEngine{script: script}
}

// Recognize ignores img and allowlist and returns the next scripted result.
func (f *FakeEngine) Recognize(img gocv.Mat, allowlist string) (string, float64, error) {
	if len(f.script) == 0 {
		return "", 0, nil
	}
	idx := f.calls
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	f.calls++
	r := f.script[idx]
	return r.Text, r.Confidence, r.Err
}

// Calls reports how many times Recognize has been invoked.
func (f *FakeEngine) Calls() int { return f.calls }
