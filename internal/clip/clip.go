// Package clip drives an external ffmpeg binary, in stream-copy mode, to cut
// per-event highlight clips out of a source video and concatenate them into
// a supercut. Argument construction is a pure []string builder kept separate
// from process invocation, the same split ffmpeg-args.go uses for its HLS
// transcode command line: no shell is ever invoked, so there is no shell
// interpolation to get wrong.
package clip

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/almanet26/sports/internal/bufpool"
	"github.com/almanet26/sports/internal/detector"
	"github.com/almanet26/sports/internal/pipelineerr"
)

// Spec is the derived parameters for one event's clip.
type Spec struct {
	Index      int
	Kind       detector.EventKind
	EventTime  float64
	StartTime  float64
	Duration   float64
	OutputPath string
}

// Options configures clip extraction.
type Options struct {
	SourcePath           string
	OutputDir            string
	PaddingBeforeSeconds float64
	PaddingAfterSeconds  float64
	FFmpegPath           string
}

func (o Options) ffmpegPath() string {
	if o.FFmpegPath == "" {
		return "ffmpeg"
	}
	return o.FFmpegPath
}

// BuildSpec derives a Spec for the index-th (1-based) event at ts.
func BuildSpec(opts Options, index int, kind detector.EventKind, ts float64) Spec {
	before := opts.PaddingBeforeSeconds
	after := opts.PaddingAfterSeconds
	start := ts - before
	if start < 0 {
		start = 0
	}
	stem := strings.TrimSuffix(filepath.Base(opts.SourcePath), filepath.Ext(opts.SourcePath))
	name := fmt.Sprintf("%s_clip_%03d_%s_%d%s", stem, index, kind, int(ts), filepath.Ext(opts.SourcePath))
	return Spec{
		Index:      index,
		Kind:       kind,
		EventTime:  ts,
		StartTime:  start,
		Duration:   before + after,
		OutputPath: filepath.Join(opts.OutputDir, name),
	}
}

// BuildClipArgs constructs the ffmpeg argument list for a single stream-copy
// trim. No re-encoding happens; frame accuracy is at the source's nearest
// keyframe.
func BuildClipArgs(sourcePath string, spec Spec) []string {
	return []string{
		"-ss", strconv.FormatFloat(spec.StartTime, 'f', -1, 64),
		"-i", sourcePath,
		"-t", strconv.FormatFloat(spec.Duration, 'f', -1, 64),
		"-c", "copy",
		"-avoid_negative_ts", "1",
		"-y",
		spec.OutputPath,
	}
}

// BuildConcatArgs constructs the ffmpeg argument list for concatenating
// clips into a supercut via the concat demuxer against listPath.
func BuildConcatArgs(listPath, outputPath string) []string {
	return []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y",
		outputPath,
	}
}

// Runner executes an external command. Production code runs real ffmpeg;
// tests substitute a recording fake so clip/supercut logic is exercised
// without a binary on PATH.
type Runner interface {
	Run(name string, args []string) error
}

// ExecRunner shells out via os/exec.
type ExecRunner struct{}

// Run executes name with args, discarding stdout/stderr on success and
// surfacing them in the error on failure.
func (ExecRunner) Run(name string, args []string) error {
	cmd := exec.Command(name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return pipelineerr.NewClipToolError(name, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out))))
	}
	return nil
}

// Assembler extracts per-event clips and concatenates them into a supercut.
type Assembler struct {
	opts   Options
	runner Runner
}

// NewAssembler returns an Assembler driving ffmpeg via runner.
func NewAssembler(opts Options, runner Runner) *Assembler {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Assembler{opts: opts, runner: runner}
}

// ExtractResult reports one clip attempt.
type ExtractResult struct {
	Spec Spec
	OK   bool
	Err  error
}

// Extract cuts one clip per event. A per-event failure is recorded and
// skipped; it never aborts the remaining events.
func (a *Assembler) Extract(events []EventInput) ([]ExtractResult, error) {
	if err := os.MkdirAll(a.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("clip: create output dir: %w", err)
	}

	results := make([]ExtractResult, 0, len(events))
	for i, ev := range events {
		spec := BuildSpec(a.opts, i+1, ev.Kind, ev.Timestamp)
		args := BuildClipArgs(a.opts.SourcePath, spec)
		err := a.runner.Run(a.opts.ffmpegPath(), args)
		results = append(results, ExtractResult{Spec: spec, OK: err == nil, Err: err})
	}
	return results, nil
}

// EventInput is the minimal event shape the assembler needs.
type EventInput struct {
	Kind      detector.EventKind
	Timestamp float64
}

// Supercut concatenates clipPaths (in order) into outputPath via ffmpeg's
// concat demuxer. Returns ("", nil) if clipPaths is empty. If the concat
// invocation fails, returns ("", nil) with clipPaths left untouched; the
// list file is always removed once ffmpeg has run, win or lose.
func (a *Assembler) Supercut(clipPaths []string, outputPath string) (string, error) {
	if len(clipPaths) == 0 {
		return "", nil
	}

	listPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".txt"

	estimate := 0
	for _, p := range clipPaths {
		estimate += len(p) + 16
	}
	listBuf := bufpool.Get(estimate)[:0]
	defer func() { bufpool.Put(listBuf) }()
	for _, p := range clipPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		listBuf = append(listBuf, "file '"...)
		listBuf = append(listBuf, abs...)
		listBuf = append(listBuf, "'\n"...)
	}
	if err := os.WriteFile(listPath, listBuf, 0o644); err != nil {
		return "", fmt.Errorf("clip: write concat list: %w", err)
	}

	args := BuildConcatArgs(listPath, outputPath)
	runErr := a.runner.Run(a.opts.ffmpegPath(), args)
	os.Remove(listPath)

	if runErr != nil {
		return "", nil
	}
	return outputPath, nil
}
