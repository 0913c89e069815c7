// Package roi crops the two fixed scoreboard rectangles out of each sampled
// frame and runs the deterministic binarization pipeline OCR needs: gray,
// cubic upscale, blur, local-contrast enhancement, Otsu threshold, invert,
// morphological close. The factor, blur size, CLAHE parameters, and kernel
// size are fixed constants of the design, not tunables.
package roi

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/almanet26/sports/internal/config"
)

const (
	upscaleFactor    = 3
	claheClipLimit   = 2.0
	claheTileGrid    = 8
	gaussianKernel   = 3
	closeKernelSize  = 2
	debugDumpCadence = 10 // dump every 10th processed frame when a debug sink is set
)

// Regions holds the cropped-and-preprocessed score/overs ROIs for one frame.
// Callers must Close it once done.
type Regions struct {
	Score gocv.Mat
	Overs gocv.Mat
}

// Close releases both underlying Mats.
func (r Regions) Close() {
	r.Score.Close()
	r.Overs.Close()
}

// DebugSink receives raw/processed ROI crops for offline inspection. Nil by
// default; set via Extractor.SetDebugSink to enable the supplemental debug
// dump cadence.
type DebugSink interface {
	DumpFrame(kind string, frameIndex int, raw, processed gocv.Mat)
}

// Extractor crops and preprocesses the score/overs ROIs from each sampled
// frame according to a fixed ROIConfig.
type Extractor struct {
	cfg        config.ROIConfig
	debugSink  DebugSink
	framesSeen int
}

// NewExtractor returns an Extractor bound to cfg's two ROI rectangles.
func NewExtractor(cfg config.ROIConfig) *Extractor {
	return &Extractor{cfg: cfg}
}

// SetDebugSink installs a sink that receives raw/processed crops every
// debugDumpCadence-th extracted frame.
func (e *Extractor) SetDebugSink(sink DebugSink) { e.debugSink = sink }

func clampToFrame(r config.Rect, frame gocv.Mat) config.Rect {
	return config.Clamp(r, frame.Cols(), frame.Rows())
}

func cropRegion(frame gocv.Mat, r config.Rect) gocv.Mat {
	rect := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
	region := frame.Region(rect)
	defer region.Close()
	out := gocv.NewMat()
	region.CopyTo(&out)
	return out
}

// Preprocess runs the fixed binarization pipeline against a cropped ROI:
// grayscale, cubic upscale by upscaleFactor, 3x3 Gaussian blur, CLAHE
// (clip-limit 2.0, 8x8 tiles), Otsu threshold, invert, 2x2 morphological
// close. Output is a binary image at upscaleFactor resolution.
func Preprocess(src gocv.Mat) (gocv.Mat, error) {
	if src.Empty() {
		return gocv.NewMat(), fmt.Errorf("roi: empty source region")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	upscaled := gocv.NewMat()
	defer upscaled.Close()
	newSize := image.Pt(gray.Cols()*upscaleFactor, gray.Rows()*upscaleFactor)
	gocv.Resize(gray, &upscaled, newSize, 0, 0, gocv.InterpolationCubic)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(upscaled, &blurred, image.Pt(gaussianKernel, gaussianKernel), 0, 0, gocv.BorderDefault)

	clahe := gocv.NewCLAHEWithParams(claheClipLimit, image.Pt(claheTileGrid, claheTileGrid))
	defer clahe.Close()
	contrasted := gocv.NewMat()
	defer contrasted.Close()
	clahe.Apply(blurred, &contrasted)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(contrasted, &binary, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)

	inverted := gocv.NewMat()
	defer inverted.Close()
	gocv.BitwiseNot(binary, &inverted)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(closeKernelSize, closeKernelSize))
	defer kernel.Close()
	closed := gocv.NewMat()
	gocv.MorphologyEx(inverted, &closed, gocv.MorphClose, kernel)

	return closed, nil
}

// Extract crops and preprocesses both ROIs from frame. Rectangles are
// clamped to stay inside the frame; a rectangle that clamps to zero area
// is reported as an error so the caller can count it as a per-frame
// recoverable failure.
func (e *Extractor) Extract(frame gocv.Mat, frameIndex int) (Regions, error) {
	if frame.Empty() {
		return Regions{}, fmt.Errorf("roi: empty frame")
	}

	scoreRect := clampToFrame(e.cfg.ScoreROI, frame)
	oversRect := clampToFrame(e.cfg.OversROI, frame)
	if scoreRect.Width == 0 || scoreRect.Height == 0 {
		return Regions{}, fmt.Errorf("roi: score rectangle clamped to empty")
	}
	if oversRect.Width == 0 || oversRect.Height == 0 {
		return Regions{}, fmt.Errorf("roi: overs rectangle clamped to empty")
	}

	scoreRaw := cropRegion(frame, scoreRect)
	oversRaw := cropRegion(frame, oversRect)

	scoreProcessed, err := Preprocess(scoreRaw)
	if err != nil {
		scoreRaw.Close()
		oversRaw.Close()
		return Regions{}, err
	}
	oversProcessed, err := Preprocess(oversRaw)
	if err != nil {
		scoreRaw.Close()
		oversRaw.Close()
		scoreProcessed.Close()
		return Regions{}, err
	}

	e.framesSeen++
	if e.debugSink != nil && e.framesSeen%debugDumpCadence == 0 {
		e.debugSink.DumpFrame("score", frameIndex, scoreRaw, scoreProcessed)
		e.debugSink.DumpFrame("overs", frameIndex, oversRaw, oversProcessed)
	}

	scoreRaw.Close()
	oversRaw.Close()
	return Regions{Score: scoreProcessed, Overs: oversProcessed}, nil
}

// Visualize draws both ROI rectangles and labels onto a copy of frame, for
// operator calibration of a new broadcast layout.
func Visualize(frame gocv.Mat, cfg config.ROIConfig) gocv.Mat {
	out := gocv.NewMat()
	frame.CopyTo(&out)

	scoreRect := clampToFrame(cfg.ScoreROI, frame)
	oversRect := clampToFrame(cfg.OversROI, frame)

	green := color.RGBA{G: 255, A: 255}
	red := color.RGBA{R: 255, A: 255}

	gocv.Rectangle(&out, image.Rect(scoreRect.X, scoreRect.Y, scoreRect.X+scoreRect.Width, scoreRect.Y+scoreRect.Height), green, 2)
	gocv.PutText(&out, "score", image.Pt(scoreRect.X, max(0, scoreRect.Y-6)), gocv.FontHersheySimplex, 0.6, green, 2)

	gocv.Rectangle(&out, image.Rect(oversRect.X, oversRect.Y, oversRect.X+oversRect.Width, oversRect.Y+oversRect.Height), red, 2)
	gocv.PutText(&out, "overs", image.Pt(oversRect.X, max(0, oversRect.Y-6)), gocv.FontHersheySimplex, 0.6, red, 2)

	return out
}
