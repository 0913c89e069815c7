package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gocv.io/x/gocv"

	"github.com/almanet26/sports/internal/config"
	"github.com/almanet26/sports/internal/logger"
	"github.com/almanet26/sports/internal/ocr"
	"github.com/almanet26/sports/internal/pipeline"
	"github.com/almanet26/sports/internal/roi"
)

func main() {
	cli, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if cli.showVersion {
		fmt.Println(version)
		return
	}

	logger.Init()
	if err := logger.SetLevel(cli.logLevel); err != nil {
		fmt.Printf("Warning: invalid log level %q, using default\n", cli.logLevel)
	}
	log := logger.Logger().With("component", "cli")

	cfg, err := resolveConfig(cli)
	if err != nil {
		log.Error("failed to resolve config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cli.visualize {
		if err := runVisualize(cli, cfg); err != nil {
			log.Error("visualize failed", "error", err)
			os.Exit(1)
		}
		return
	}

	engine := ocr.NewTesseractEngine()
	defer engine.Close()
	reader := ocr.NewReader(engine, cfg.MinConfidence)

	opts := pipeline.RunOptions{
		SourcePath:   cli.videoPath,
		OutputDir:    cli.outputDir,
		FFmpegPath:   cli.ffmpegPath,
		SkipClips:    cli.noClips,
		SkipSupercut: cli.noSupercut,
	}
	if cli.debugMode {
		opts.DebugDir = filepath.Join(cli.outputDir, "debug_frames")
	}

	result, runErr := pipeline.Run(ctx, cfg, reader, opts, nil)
	if runErr != nil {
		log.Error("run failed", "error", runErr)
		os.Exit(1)
	}

	log.Info("run complete",
		"events", len(result.Events),
		"clips", len(result.Clips),
		"supercut", result.SupercutPath,
		"frames_processed", result.FramesProcessed,
		"ocr_success", result.OCRSuccess,
		"ocr_fail", result.OCRFail,
		"low_confidence", result.LowConfidence,
	)

	csvPath := cli.csvPath
	if csvPath == "" {
		csvPath = filepath.Join(cli.outputDir, "events.csv")
	}
	if err := pipeline.WriteEventsCSV(csvPath, result.Events); err != nil {
		log.Error("failed to write events csv", "error", err)
		os.Exit(1)
	}
	log.Info("events exported", "path", csvPath)
}

func resolveConfig(cli *cliConfig) (config.ROIConfig, error) {
	cfg, err := config.Load(cli.configPath)
	if err != nil {
		return config.ROIConfig{}, err
	}

	if cli.scoreROISet {
		cfg.ScoreROI = config.Rect{X: cli.scoreX, Y: cli.scoreY, Width: cli.scoreW, Height: cli.scoreH}
	}
	if cli.oversROISet {
		cfg.OversROI = config.Rect{X: cli.oversX, Y: cli.oversY, Width: cli.oversW, Height: cli.oversH}
	}
	if cli.sampleInterval > 0 {
		cfg.SampleIntervalSeconds = cli.sampleInterval
	}
	if cli.startTime > 0 {
		cfg.StartTimeSeconds = cli.startTime
	}
	if cli.maxFrames > 0 {
		cfg.MaxFrames = cli.maxFrames
	}
	if cli.minConfidence > 0 {
		cfg.MinConfidence = cli.minConfidence
	}
	return cfg, nil
}

// runVisualize opens the source at -timestamp and writes a single annotated
// frame showing both ROI rectangles, for calibrating a new broadcast layout.
func runVisualize(cli *cliConfig, cfg config.ROIConfig) error {
	vc, err := gocv.VideoCaptureFile(cli.videoPath)
	if err != nil {
		return fmt.Errorf("open video: %w", err)
	}
	defer vc.Close()

	fps := vc.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		return fmt.Errorf("video reports zero fps")
	}
	vc.Set(gocv.VideoCapturePosFrames, cli.visualizeAt*fps)

	frame := gocv.NewMat()
	defer frame.Close()
	if ok := vc.Read(&frame); !ok || frame.Empty() {
		return fmt.Errorf("could not read frame at %.2fs", cli.visualizeAt)
	}

	annotated := roi.Visualize(frame, cfg)
	defer annotated.Close()

	outPath := filepath.Join(cli.outputDir, "roi_calibration.png")
	if err := os.MkdirAll(cli.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if ok := gocv.IMWrite(outPath, annotated); !ok {
		return fmt.Errorf("write %s", outPath)
	}
	fmt.Println(outPath)
	return nil
}
