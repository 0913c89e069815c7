package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/almanet26/sports/internal/detector"
	"github.com/almanet26/sports/internal/scoreparse"
)

// WriteEventsCSV writes events to path as UTF-8 CSV with header
// timestamp,type,description. The description summarizes the score
// transition the event represents.
func WriteEventsCSV(path string, events []detector.Event) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("pipeline: create csv dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pipeline: create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "type", "description"}); err != nil {
		return fmt.Errorf("pipeline: write csv header: %w", err)
	}
	for _, ev := range events {
		row := []string{
			fmt.Sprintf("%v", ev.Timestamp),
			string(ev.Kind),
			describeTransition(ev.ScoreBefore, ev.ScoreAfter),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("pipeline: write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// describeTransition renders "Score: <before> → <after>" where each state
// is "runs/wickets", or bare runs when wickets are unknown (-1).
func describeTransition(before, after scoreparse.ScoreState) string {
	return fmt.Sprintf("Score: %s → %s", formatScoreState(before), formatScoreState(after))
}

func formatScoreState(s scoreparse.ScoreState) string {
	if !s.WicketsKnown() {
		return fmt.Sprintf("%d", s.Runs)
	}
	return fmt.Sprintf("%d/%d", s.Runs, s.Wickets)
}
