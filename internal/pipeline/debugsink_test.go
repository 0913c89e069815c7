package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
)

func TestFileDebugSinkWritesBothCrops(t *testing.T) {
	dir := t.TempDir()
	sink := newFileDebugSink(dir)

	raw := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC1)
	defer raw.Close()
	processed := gocv.NewMatWithSize(30, 30, gocv.MatTypeCV8UC1)
	defer processed.Close()

	sink.DumpFrame("score", 7, raw, processed)

	rawPath := filepath.Join(dir, "frame_00007_score_raw.png")
	processedPath := filepath.Join(dir, "frame_00007_score_processed.png")

	if _, err := os.Stat(rawPath); err != nil {
		t.Fatalf("expected raw dump at %s: %v", rawPath, err)
	}
	if _, err := os.Stat(processedPath); err != nil {
		t.Fatalf("expected processed dump at %s: %v", processedPath, err)
	}
}
