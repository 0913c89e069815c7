package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"
)

// fileDebugSink writes raw/processed ROI crops to disk, one PNG pair per
// dumped frame, for offline inspection of OCR failures.
type fileDebugSink struct {
	dir string
}

func newFileDebugSink(dir string) *fileDebugSink {
	return &fileDebugSink{dir: dir}
}

// DumpFrame implements roi.DebugSink.
func (s *fileDebugSink) DumpFrame(kind string, frameIndex int, raw, processed gocv.Mat) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return
	}
	rawPath := filepath.Join(s.dir, fmt.Sprintf("frame_%05d_%s_raw.png", frameIndex, kind))
	processedPath := filepath.Join(s.dir, fmt.Sprintf("frame_%05d_%s_processed.png", frameIndex, kind))
	gocv.IMWrite(rawPath, raw)
	gocv.IMWrite(processedPath, processed)
}
