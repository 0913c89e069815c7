// Package config loads and persists the ROI configuration that pins where
// the scoreboard and overs counter live in the source frame, plus the
// run-wide sampling and OCR tunables.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/almanet26/sports/internal/pipelineerr"
)

// Rect is a clamp-friendly pixel rectangle in source coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// ROIConfig is the caller-supplied configuration for one run. Only the two
// rectangles are persisted: Load and Save map them to exactly eight JSON
// keys (see fileShape), bit-compatible with existing deployments; the run
// tunables are not written to the file.
type ROIConfig struct {
	ScoreROI Rect
	OversROI Rect

	SampleIntervalSeconds float64
	StartTimeSeconds      float64
	MaxFrames             int // 0 means unbounded
	MinConfidence         float64
	UseGPU                bool // capability hint only; gosseract is CPU-only
	PaddingBeforeSeconds  float64
	PaddingAfterSeconds   float64
}

// Defaults calibrated for 1080p broadcast.
func Defaults() ROIConfig {
	return ROIConfig{
		ScoreROI:              Rect{X: 216, Y: 940, Width: 170, Height: 70},
		OversROI:              Rect{X: 216, Y: 1010, Width: 100, Height: 40},
		SampleIntervalSeconds: 1.0,
		StartTimeSeconds:      0,
		MaxFrames:             0,
		MinConfidence:         0.4,
		UseGPU:                false,
		PaddingBeforeSeconds:  12,
		PaddingAfterSeconds:   5,
	}
}

// fileShape mirrors the on-disk JSON shape exactly: the eight integer ROI
// keys, nothing more. Missing keys fall back to defaults.
type fileShape struct {
	ROIX      *int `json:"roi_x,omitempty"`
	ROIY      *int `json:"roi_y,omitempty"`
	ROIWidth  *int `json:"roi_width,omitempty"`
	ROIHeight *int `json:"roi_height,omitempty"`
	OversROIX *int `json:"overs_roi_x,omitempty"`
	OversROIY *int `json:"overs_roi_y,omitempty"`
	OversROIW *int `json:"overs_roi_width,omitempty"`
	OversROIH *int `json:"overs_roi_height,omitempty"`
}

// Load reads an ROI configuration file. A missing file is not an error: the
// defaults are returned as-is, and any keys absent from a present file also
// fall back to their default values.
func Load(path string) (ROIConfig, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return ROIConfig{}, pipelineerr.NewConfigError("config.load", fmt.Errorf("read %s: %w", path, err))
	}

	var shape fileShape
	if err := json.Unmarshal(data, &shape); err != nil {
		return ROIConfig{}, pipelineerr.NewConfigError("config.load", fmt.Errorf("parse %s: %w", path, err))
	}

	applyInt(&cfg.ScoreROI.X, shape.ROIX)
	applyInt(&cfg.ScoreROI.Y, shape.ROIY)
	applyInt(&cfg.ScoreROI.Width, shape.ROIWidth)
	applyInt(&cfg.ScoreROI.Height, shape.ROIHeight)
	applyInt(&cfg.OversROI.X, shape.OversROIX)
	applyInt(&cfg.OversROI.Y, shape.OversROIY)
	applyInt(&cfg.OversROI.Width, shape.OversROIW)
	applyInt(&cfg.OversROI.Height, shape.OversROIH)

	return cfg, nil
}

func applyInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

// Save persists only the eight ROI keys, two-space indented. Sampling/OCR
// tunables are run options, not part of the persisted file.
func Save(path string, cfg ROIConfig) error {
	shape := struct {
		ROIX      int `json:"roi_x"`
		ROIY      int `json:"roi_y"`
		ROIWidth  int `json:"roi_width"`
		ROIHeight int `json:"roi_height"`
		OversROIX int `json:"overs_roi_x"`
		OversROIY int `json:"overs_roi_y"`
		OversROIW int `json:"overs_roi_width"`
		OversROIH int `json:"overs_roi_height"`
	}{
		ROIX:      cfg.ScoreROI.X,
		ROIY:      cfg.ScoreROI.Y,
		ROIWidth:  cfg.ScoreROI.Width,
		ROIHeight: cfg.ScoreROI.Height,
		OversROIX: cfg.OversROI.X,
		OversROIY: cfg.OversROI.Y,
		OversROIW: cfg.OversROI.Width,
		OversROIH: cfg.OversROI.Height,
	}

	data, err := json.MarshalIndent(shape, "", "  ")
	if err != nil {
		return pipelineerr.NewConfigError("config.save", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return pipelineerr.NewConfigError("config.save", fmt.Errorf("write %s: %w", path, err))
	}
	return nil
}

// Clamp fits a rectangle inside a frame of the given dimensions: it clamps
// (x, y) and shrinks width/height so the rectangle stays inside the frame.
func Clamp(r Rect, frameWidth, frameHeight int) Rect {
	x, y := r.X, r.Y
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x > frameWidth {
		x = frameWidth
	}
	if y > frameHeight {
		y = frameHeight
	}

	w, h := r.Width, r.Height
	if x+w > frameWidth {
		w = frameWidth - x
	}
	if y+h > frameHeight {
		h = frameHeight - y
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}

	return Rect{X: x, Y: y, Width: w, Height: h}
}
