package ocr

import (
	"testing"

	"gocv.io/x/gocv"
)

func intp(v int) *int { return &v }

func TestReadScoreGatesOnConfidence(t *testing.T) {
	engine := NewFakeEngine([]ScriptedResult{{Text: "145/3", Confidence: 0.3}})
	reader := NewReader(engine, DefaultMinConfidence)

	img := gocv.NewMatWithSize(70, 170, gocv.MatTypeCV8UC1)
	defer img.Close()

	score, conf, text, err := reader.ReadScore(img, nil)
	if err != nil {
		t.Fatalf("ReadScore: %v", err)
	}
	if score != nil {
		t.Fatalf("expected nil score below confidence gate, got %+v", score)
	}
	if conf != 0.3 || text != "145/3" {
		t.Fatalf("expected raw confidence/text still returned, got conf=%v text=%q", conf, text)
	}
}

func TestReadScoreSucceedsAboveGate(t *testing.T) {
	engine := NewFakeEngine([]ScriptedResult{{Text: "145/3", Confidence: 0.9}})
	reader := NewReader(engine, DefaultMinConfidence)

	img := gocv.NewMatWithSize(70, 170, gocv.MatTypeCV8UC1)
	defer img.Close()

	score, conf, _, err := reader.ReadScore(img, nil)
	if err != nil {
		t.Fatalf("ReadScore: %v", err)
	}
	if score == nil || score.Runs != 145 || score.Wickets != 3 {
		t.Fatalf("unexpected score: %+v", score)
	}
	if conf != 0.9 {
		t.Fatalf("unexpected confidence: %v", conf)
	}
}

func TestReadScoreParseFailureYieldsNilScore(t *testing.T) {
	engine := NewFakeEngine([]ScriptedResult{{Text: "xyz", Confidence: 0.9}})
	reader := NewReader(engine, DefaultMinConfidence)

	img := gocv.NewMatWithSize(70, 170, gocv.MatTypeCV8UC1)
	defer img.Close()

	score, _, _, err := reader.ReadScore(img, nil)
	if err != nil {
		t.Fatalf("ReadScore: %v", err)
	}
	if score != nil {
		t.Fatalf("expected nil score for unparseable text, got %+v", score)
	}
}

func TestReadScoreUsesPrevWicketsHeuristic(t *testing.T) {
	engine := NewFakeEngine([]ScriptedResult{{Text: "1453", Confidence: 0.9}})
	reader := NewReader(engine, DefaultMinConfidence)

	img := gocv.NewMatWithSize(70, 170, gocv.MatTypeCV8UC1)
	defer img.Close()

	score, _, _, err := reader.ReadScore(img, intp(3))
	if err != nil {
		t.Fatalf("ReadScore: %v", err)
	}
	if score == nil || score.Runs != 145 || score.Wickets != 3 {
		t.Fatalf("unexpected score: %+v", score)
	}
}

func TestReadOversNoConfidenceGate(t *testing.T) {
	engine := NewFakeEngine([]ScriptedResult{{Text: "14.2", Confidence: 0.01}})
	reader := NewReader(engine, DefaultMinConfidence)

	img := gocv.NewMatWithSize(40, 100, gocv.MatTypeCV8UC1)
	defer img.Close()

	overs, _, err := reader.ReadOvers(img)
	if err != nil {
		t.Fatalf("ReadOvers: %v", err)
	}
	if overs == nil || overs.Over != 14 || overs.Ball != 2 {
		t.Fatalf("unexpected overs: %+v", overs)
	}
}

func TestReadOversInvalidBallYieldsNil(t *testing.T) {
	engine := NewFakeEngine([]ScriptedResult{{Text: "14.7", Confidence: 0.9}})
	reader := NewReader(engine, DefaultMinConfidence)

	img := gocv.NewMatWithSize(40, 100, gocv.MatTypeCV8UC1)
	defer img.Close()

	overs, _, err := reader.ReadOvers(img)
	if err != nil {
		t.Fatalf("ReadOvers: %v", err)
	}
	if overs != nil {
		t.Fatalf("expected nil overs for invalid ball, got %+v", overs)
	}
}

func TestFakeEngineRepeatsFinalScriptEntry(t *testing.T) {
	engine := NewFakeEngine([]ScriptedResult{{Text: "100/2", Confidence: 0.9}})
	reader := NewReader(engine, DefaultMinConfidence)
	img := gocv.NewMatWithSize(70, 170, gocv.MatTypeCV8UC1)
	defer img.Close()

	for i := 0; i < 3; i++ {
		score, _, _, err := reader.ReadScore(img, nil)
		if err != nil {
			t.Fatalf("ReadScore call %d: %v", i, err)
		}
		if score == nil || score.Runs != 100 || score.Wickets != 2 {
			t.Fatalf("call %d unexpected score: %+v", i, score)
		}
	}
	if engine.Calls() != 3 {
		t.Fatalf("expected 3 recorded calls, got %d", engine.Calls())
	}
}
