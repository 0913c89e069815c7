// Package pipeline wires the sampler, ROI extractor, OCR reader, score
// parser, and event detector into the single linear pass a run makes over a
// source video, then hands the detected events to the clip assembler.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/almanet26/sports/internal/clip"
	"github.com/almanet26/sports/internal/config"
	"github.com/almanet26/sports/internal/detector"
	"github.com/almanet26/sports/internal/logger"
	"github.com/almanet26/sports/internal/ocr"
	"github.com/almanet26/sports/internal/pipelineerr"
	"github.com/almanet26/sports/internal/progress"
	"github.com/almanet26/sports/internal/roi"
	"github.com/almanet26/sports/internal/sampler"
	"github.com/almanet26/sports/internal/scoreparse"
)

// RunOptions controls which downstream stages a run performs.
type RunOptions struct {
	SourcePath   string
	OutputDir    string
	FFmpegPath   string
	SkipClips    bool
	SkipSupercut bool
	// DebugDir, if set, enables periodic raw/processed ROI crop dumps
	// under this directory (see roi.Extractor.SetDebugSink).
	DebugDir string
}

// Result is everything a run produces.
type Result struct {
	RunID           string
	Events          []detector.Event
	Clips           []string
	SupercutPath    string
	FramesProcessed int
	OCRSuccess      int
	OCRFail         int
	LowConfidence   int
}

// Run executes Sampler -> ROI+Preproc -> OCR -> Parser -> Detector, then
// Assembler, reporting progress through sink. The run is cancellable
// between observations: once ctx is done, the frame loop stops after the
// current frame and per-event clip extraction proceeds over whatever events
// were already detected; no supercut is built for a cancelled run.
func Run(ctx context.Context, cfg config.ROIConfig, reader *ocr.Reader, opts RunOptions, sink progress.Sink) (Result, error) {
	if sink == nil {
		sink = progress.NopSink{}
	}
	runID := progress.NewRunID()
	log := logger.WithRun(logger.Logger(), runID)

	s, err := sampler.Open(opts.SourcePath, sampler.Options{
		SampleIntervalSeconds: cfg.SampleIntervalSeconds,
		StartTimeSeconds:      cfg.StartTimeSeconds,
		MaxFrames:             cfg.MaxFrames,
	})
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: open source: %w", err)
	}
	defer s.Close()

	extractor := roi.NewExtractor(cfg)
	if opts.DebugDir != "" {
		extractor.SetDebugSink(newFileDebugSink(opts.DebugDir))
	}
	det := detector.New()

	var events []detector.Event
	result := Result{RunID: runID}
	var lastValidScore *scoreparse.ScoreState
	cancelled := false
	for {
		select {
		case <-ctx.Done():
			log.Info("run cancelled", "frames_processed", result.FramesProcessed)
			cancelled = true
		default:
		}
		if cancelled {
			break
		}

		frame, ok := s.Next()
		if !ok {
			break
		}

		result.FramesProcessed++
		flog := logger.WithFrame(log, frame.Index, frame.Timestamp)

		regions, err := extractor.Extract(frame.Pixels, frame.Index)
		frame.Close()
		if err != nil {
			flog.Debug("roi extraction failed", "error", pipelineerr.NewFrameError("roi.extract", err))
			result.OCRFail++
			continue
		}

		var prevWickets *int
		if w, ok := det.LastWickets(); ok {
			prevWickets = &w
		}

		score, confidence, rawText, err := reader.ReadScore(regions.Score, prevWickets)
		if err != nil {
			flog.Debug("score ocr failed", "error", pipelineerr.NewFrameError("ocr.read_score", err))
		}
		overs, _, err := reader.ReadOvers(regions.Overs)
		if err != nil {
			flog.Debug("overs ocr failed", "error", pipelineerr.NewFrameError("ocr.read_overs", err))
		}
		regions.Close()

		if score == nil && confidence > 0 && confidence < reader.MinConfidence() {
			result.LowConfidence++
		}

		if score != nil {
			result.OCRSuccess++
			lastValidScore = score
		} else {
			result.OCRFail++
			score = lastValidScore
		}

		flog.Debug("frame observation", "raw_text", rawText, "confidence", confidence, "score", score)

		if score != nil {
			if ev := det.Process(detector.Observation{Timestamp: frame.Timestamp, Score: score, Overs: overs}); ev != nil {
				events = append(events, *ev)
				log.Info("event detected", "kind", ev.Kind, "timestamp", ev.Timestamp,
					"score_before", ev.ScoreBefore, "score_after", ev.ScoreAfter)
			}
		}

		if result.FramesProcessed%100 == 0 {
			sink.Report(progress.Report{
				RunID: runID,
				Stage: progress.StageOCR,
				Counters: progress.Counters{
					FramesProcessed: result.FramesProcessed,
					OCRSuccess:      result.OCRSuccess,
					OCRFail:         result.OCRFail,
					LowConfidence:   result.LowConfidence,
					Events:          len(events),
				},
			})
		}
	}

	result.Events = events

	if opts.SkipClips || len(events) == 0 {
		return result, nil
	}

	assembler := clip.NewAssembler(clip.Options{
		SourcePath:           opts.SourcePath,
		OutputDir:            opts.OutputDir,
		PaddingBeforeSeconds: cfg.PaddingBeforeSeconds,
		PaddingAfterSeconds:  cfg.PaddingAfterSeconds,
		FFmpegPath:           opts.FFmpegPath,
	}, nil)

	clipInputs := make([]clip.EventInput, 0, len(events))
	for _, ev := range events {
		clipInputs = append(clipInputs, clip.EventInput{Kind: ev.Kind, Timestamp: ev.Timestamp})
	}

	clipResults, err := assembler.Extract(clipInputs)
	if err != nil {
		return result, fmt.Errorf("pipeline: extract clips: %w", err)
	}

	var clipPaths []string
	for _, cr := range clipResults {
		if cr.OK {
			clipPaths = append(clipPaths, cr.Spec.OutputPath)
		} else {
			log.Warn("clip extraction failed", "path", cr.Spec.OutputPath, "error", cr.Err)
		}
	}
	result.Clips = clipPaths

	sink.Report(progress.Report{
		RunID: runID,
		Stage: progress.StageAssembling,
		Counters: progress.Counters{
			FramesProcessed: result.FramesProcessed,
			OCRSuccess:      result.OCRSuccess,
			OCRFail:         result.OCRFail,
			LowConfidence:   result.LowConfidence,
			Events:          len(events),
			Clips:           len(clipPaths),
		},
	})

	if opts.SkipSupercut || cancelled || len(clipPaths) == 0 {
		return result, nil
	}

	supercutPath := supercutOutputPath(opts.OutputDir, opts.SourcePath)
	path, err := assembler.Supercut(clipPaths, supercutPath)
	if err != nil {
		return result, fmt.Errorf("pipeline: build supercut: %w", err)
	}
	result.SupercutPath = path

	return result, nil
}

// supercutOutputPath derives the highlight reel path from the source
// video's stem: "{video_id}_highlights.{ext}".
func supercutOutputPath(outputDir, sourcePath string) string {
	stem := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	ext := filepath.Ext(sourcePath)
	if ext == "" {
		ext = ".mp4"
	}
	return filepath.Join(outputDir, stem+"_highlights"+ext)
}
