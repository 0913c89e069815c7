package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.ScoreROI != (Rect{X: 216, Y: 940, Width: 170, Height: 70}) {
		t.Fatalf("unexpected score ROI default: %+v", cfg.ScoreROI)
	}
	if cfg.OversROI != (Rect{X: 216, Y: 1010, Width: 100, Height: 40}) {
		t.Fatalf("unexpected overs ROI default: %+v", cfg.OversROI)
	}
	if cfg.MinConfidence != 0.4 {
		t.Fatalf("unexpected min confidence: %v", cfg.MinConfidence)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadPartialOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roi.json")
	if err := os.WriteFile(path, []byte(`{"roi_x": 100, "overs_roi_width": 55}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScoreROI.X != 100 {
		t.Fatalf("expected overridden roi_x=100, got %d", cfg.ScoreROI.X)
	}
	if cfg.OversROI.Width != 55 {
		t.Fatalf("expected overridden overs_roi_width=55, got %d", cfg.OversROI.Width)
	}
	// Untouched keys keep their defaults.
	if cfg.ScoreROI.Y != 940 || cfg.OversROI.X != 216 {
		t.Fatalf("unexpected drift in untouched fields: %+v", cfg)
	}
}

func TestLoadMalformedJSONIsConfigError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}

func TestSaveWritesExactlyEightKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roi.json")
	cfg := Defaults()
	cfg.ScoreROI.X = 300

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}

	want := "{\n  \"roi_x\": 300,\n  \"roi_y\": 940,\n  \"roi_width\": 170,\n  \"roi_height\": 70,\n  \"overs_roi_x\": 216,\n  \"overs_roi_y\": 1010,\n  \"overs_roi_width\": 100,\n  \"overs_roi_height\": 40\n}\n"
	if string(data) != want {
		t.Fatalf("unexpected saved JSON:\n%s\nwant:\n%s", data, want)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roi.json")
	cfg := Defaults()
	cfg.ScoreROI = Rect{X: 10, Y: 20, Width: 30, Height: 40}
	cfg.OversROI = Rect{X: 50, Y: 60, Width: 70, Height: 80}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ScoreROI != cfg.ScoreROI || got.OversROI != cfg.OversROI {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, cfg)
	}
}

func TestClampShrinksRectToFrame(t *testing.T) {
	cases := []struct {
		name        string
		r           Rect
		fw, fh      int
		want        Rect
	}{
		{"fits entirely", Rect{X: 10, Y: 10, Width: 20, Height: 20}, 100, 100, Rect{X: 10, Y: 10, Width: 20, Height: 20}},
		{"negative origin clamps to zero", Rect{X: -5, Y: -5, Width: 20, Height: 20}, 100, 100, Rect{X: 0, Y: 0, Width: 20, Height: 20}},
		{"overflows right edge", Rect{X: 90, Y: 10, Width: 50, Height: 10}, 100, 100, Rect{X: 90, Y: 10, Width: 10, Height: 10}},
		{"overflows bottom edge", Rect{X: 10, Y: 90, Width: 10, Height: 50}, 100, 100, Rect{X: 10, Y: 90, Width: 10, Height: 10}},
		{"smaller frame than default ROI", Rect{X: 216, Y: 940, Width: 170, Height: 70}, 640, 480, Rect{X: 216, Y: 480, Width: 170, Height: 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Clamp(c.r, c.fw, c.fh)
			if got != c.want {
				t.Fatalf("Clamp(%+v, %d, %d) = %+v, want %+v", c.r, c.fw, c.fh, got, c.want)
			}
		})
	}
}
