package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
)

// version is injected at build time with -ldflags "-X main.version=...". Defaults to dev.
var version = "dev"

// cliConfig holds user-supplied flag values prior to translation into
// config.ROIConfig and pipeline.RunOptions.
type cliConfig struct {
	videoPath      string
	configPath     string
	outputDir      string
	csvPath        string
	ffmpegPath     string
	logLevel       string
	showVersion    bool
	noClips        bool
	noSupercut     bool
	debugMode      bool
	visualize      bool
	visualizeAt    float64
	sampleInterval float64
	startTime      float64
	maxFrames      int
	minConfidence  float64

	scoreROISet                    bool
	scoreX, scoreY, scoreW, scoreH int
	oversROISet                    bool
	oversX, oversY, oversW, oversH int
}

func parseFlags(args []string) (*cliConfig, error) {
	fs := flag.NewFlagSet("cricket-ocr", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	cfg := &cliConfig{}

	fs.StringVar(&cfg.videoPath, "video", "", "Path to source video file")
	fs.StringVar(&cfg.configPath, "config", "", "Path to ROI config JSON (defaults if absent)")
	fs.StringVar(&cfg.outputDir, "output-dir", "output", "Directory for clips, supercut, and CSV export")
	fs.StringVar(&cfg.csvPath, "csv", "", "Path to write events CSV (defaults to <output-dir>/events.csv)")
	fs.StringVar(&cfg.ffmpegPath, "ffmpeg-path", "ffmpeg", "Path to the ffmpeg binary")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&cfg.noClips, "no-clips", false, "Skip per-event clip extraction")
	fs.BoolVar(&cfg.noSupercut, "no-supercut", false, "Skip supercut assembly")
	fs.BoolVar(&cfg.debugMode, "debug-mode", false, "Dump raw/processed ROI crops periodically")
	fs.BoolVar(&cfg.visualize, "visualize", false, "Write one annotated calibration frame and exit")
	fs.Float64Var(&cfg.visualizeAt, "timestamp", 0, "Timestamp in seconds for -visualize")
	fs.Float64Var(&cfg.sampleInterval, "sample-interval", 0, "Override sample_interval_seconds (0 = use config)")
	fs.Float64Var(&cfg.startTime, "start-time", 0, "Override start_time_seconds (0 = use config)")
	fs.IntVar(&cfg.maxFrames, "max-frames", 0, "Override max_frames (0 = unlimited)")
	fs.Float64Var(&cfg.minConfidence, "min-confidence", 0, "Override min_confidence (0 = use config)")

	fs.IntVar(&cfg.scoreX, "score-roi-x", 0, "Score ROI x override")
	fs.IntVar(&cfg.scoreY, "score-roi-y", 0, "Score ROI y override")
	fs.IntVar(&cfg.scoreW, "score-roi-w", 0, "Score ROI width override")
	fs.IntVar(&cfg.scoreH, "score-roi-h", 0, "Score ROI height override")
	fs.IntVar(&cfg.oversX, "overs-roi-x", 0, "Overs ROI x override")
	fs.IntVar(&cfg.oversY, "overs-roi-y", 0, "Overs ROI y override")
	fs.IntVar(&cfg.oversW, "overs-roi-w", 0, "Overs ROI width override")
	fs.IntVar(&cfg.oversH, "overs-roi-h", 0, "Overs ROI height override")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.scoreROISet = anyNonZero(cfg.scoreX, cfg.scoreY, cfg.scoreW, cfg.scoreH)
	cfg.oversROISet = anyNonZero(cfg.oversX, cfg.oversY, cfg.oversW, cfg.oversH)

	if cfg.showVersion {
		return cfg, nil
	}

	if cfg.videoPath == "" {
		return nil, errors.New("-video is required")
	}

	switch cfg.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q", cfg.logLevel)
	}

	if cfg.visualize && cfg.visualizeAt < 0 {
		return nil, errors.New("-timestamp must be >= 0")
	}

	if cfg.minConfidence < 0 || cfg.minConfidence > 1 {
		return nil, errors.New("-min-confidence must be in [0,1]")
	}

	return cfg, nil
}

func anyNonZero(vals ...int) bool {
	for _, v := range vals {
		if v != 0 {
			return true
		}
	}
	return false
}
