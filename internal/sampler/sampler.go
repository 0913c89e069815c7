// Package sampler turns a source video into a lazy, finite, non-restartable
// sequence of frames at a fixed temporal interval. It owns the only
// VideoCapture handle in a run and hands decoded frames upstream one at a
// time so the caller controls backpressure.
package sampler

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"

	"github.com/almanet26/sports/internal/pipelineerr"
)

// Frame is one sampled frame. Pixels is owned by the caller and must be
// Closed once processing finishes with it.
type Frame struct {
	Index     int
	Timestamp float64
	Pixels    gocv.Mat
}

// Close releases the frame's pixel buffer.
func (f Frame) Close() { f.Pixels.Close() }

// Sampler iterates a video source at a fixed wall-clock interval.
type Sampler struct {
	cap        *gocv.VideoCapture
	fps        float64
	frameSkip  int
	maxFrames  int
	frameCount int
	emitted    int
	done       bool
}

// Options configures a Sampler.
type Options struct {
	SampleIntervalSeconds float64
	StartTimeSeconds      float64
	MaxFrames             int
}

// Open opens sourcePath and seeks to opts.StartTimeSeconds. Returns a
// SourceError if the container cannot be opened or reports zero fps.
func Open(sourcePath string, opts Options) (*Sampler, error) {
	vc, err := gocv.VideoCaptureFile(sourcePath)
	if err != nil {
		return nil, pipelineerr.NewSourceError("sampler.open", err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, pipelineerr.NewSourceError("sampler.open", fmt.Errorf("cannot open video: %s", sourcePath))
	}

	fps := vc.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		vc.Close()
		return nil, pipelineerr.NewSourceError("sampler.open", fmt.Errorf("video reports zero fps: %s", sourcePath))
	}

	frameSkip := computeFrameSkip(fps, opts.SampleIntervalSeconds)

	frameCount := 0
	if opts.StartTimeSeconds > 0 {
		startFrame := int(opts.StartTimeSeconds * fps)
		vc.Set(gocv.VideoCapturePosFrames, float64(startFrame))
		frameCount = startFrame
	}

	return &Sampler{
		cap:        vc,
		fps:        fps,
		frameSkip:  frameSkip,
		maxFrames:  opts.MaxFrames,
		frameCount: frameCount,
	}, nil
}

// computeFrameSkip derives the sampling stride from fps and the configured
// interval: at least every frame, never fewer than one frame apart.
func computeFrameSkip(fps, intervalSeconds float64) int {
	interval := intervalSeconds
	if interval <= 0 {
		interval = 1.0
	}
	skip := int(math.Round(fps * interval))
	if skip < 1 {
		skip = 1
	}
	return skip
}

// FPS returns the source's reported frame rate.
func (s *Sampler) FPS() float64 { return s.fps }

// FrameSkip returns the computed stride between sampled frames.
func (s *Sampler) FrameSkip() int { return s.frameSkip }

// Close releases the underlying video handle. Safe to call after
// exhaustion or early termination.
func (s *Sampler) Close() error {
	return s.cap.Close()
}

// Next decodes forward until the next frame on the sampling stride, or
// returns ok=false once the source is exhausted or max_frames is reached.
// A decode failure on an individual frame is treated as end-of-stream,
// mirroring the source's own read-loop contract.
func (s *Sampler) Next() (Frame, bool) {
	if s.done {
		return Frame{}, false
	}
	if s.maxFrames > 0 && s.emitted >= s.maxFrames {
		s.done = true
		return Frame{}, false
	}

	raw := gocv.NewMat()
	for {
		if ok := s.cap.Read(&raw); !ok || raw.Empty() {
			raw.Close()
			s.done = true
			return Frame{}, false
		}

		if s.frameCount%s.frameSkip == 0 {
			timestamp := float64(s.frameCount) / s.fps
			index := s.frameCount
			s.frameCount++
			s.emitted++
			return Frame{Index: index, Timestamp: timestamp, Pixels: raw}, true
		}

		s.frameCount++
	}
}
