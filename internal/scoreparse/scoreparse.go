// Package scoreparse turns raw OCR text for the score and overs ROIs into
// structured values. Every function here is pure: no I/O, no OCR engine
// dependency, so the parser can be exercised directly against fixture
// strings without a running recognizer.
package scoreparse

import (
	"regexp"
	"strconv"
	"strings"
)

// ScoreState is a (runs, wickets) pair. Wickets == -1 is the sentinel for
// "wickets unknown from this frame" (the runs-only parser strategy); it is
// a deliberate raw field, not a tagged union, because downstream code
// compares both with == -1 and with >= 0 and both behaviors are pinned.
type ScoreState struct {
	Runs    int
	Wickets int
}

// WicketsKnown reports whether Wickets carries a real value rather than the
// runs-only sentinel. A readability helper; does not change comparison
// semantics elsewhere.
func (s ScoreState) WicketsKnown() bool { return s.Wickets >= 0 }

// Overs is a (completed overs, balls in current over) pair.
type Overs struct {
	Over int
	Ball int
}

// Less reports whether o strictly precedes other in (over, ball)
// lexicographic order.
func (o Overs) Less(other Overs) bool {
	if o.Over != other.Over {
		return o.Over < other.Over
	}
	return o.Ball < other.Ball
}

// correctionPair is one glyph-confusion fix. Kept as an ordered slice, not a
// map, to pin the application order the design calls out explicitly: b, G,
// g collide with the separately-specified B -> 8, and the order in which
// these are considered is a documented property of the parser, not an
// implementation detail.
type correctionPair struct {
	From rune
	To   rune
}

var glyphCorrections = []correctionPair{
	{'O', '0'}, {'o', '0'},
	{'S', '5'}, {'s', '5'},
	{'I', '1'}, {'l', '1'}, {'|', '1'},
	{'B', '8'},
	{'b', '6'}, {'G', '6'}, {'g', '6'},
}

// strictSlashExtra applies only within the strict-slash strategy, on top of
// the global corrections already applied to the text.
var strictSlashExtra = []correctionPair{
	{'f', '/'}, {'\\', '/'},
}

func applyCorrections(text string, extra []correctionPair) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		out := r
		for _, c := range glyphCorrections {
			if r == c.From {
				out = c.To
				break
			}
		}
		for _, c := range extra {
			if out == c.From {
				out = c.To
				break
			}
		}
		b.WriteRune(out)
	}
	return b.String()
}

var (
	digitsOrSlashRe = regexp.MustCompile(`[^0-9/]`)
	nonDigitRe      = regexp.MustCompile(`[^0-9]`)
	strictSlashRe   = regexp.MustCompile(`^(\d{1,3})/(\d{1,2})$`)
	spaceSepRe      = regexp.MustCompile(`^(\d{1,3})\s+(\d{1,2})$`)
)

// ParseScore converts raw OCR text for the score ROI into a ScoreState,
// applying four ordered strategies and returning the first that succeeds.
// prevWickets is nil when the previous wicket count is unknown.
func ParseScore(text string, prevWickets *int) (ScoreState, bool) {
	corrected := applyCorrections(text, nil)

	// Strategy 1: strict slash.
	stripped := digitsOrSlashRe.ReplaceAllString(applyCorrections(text, strictSlashExtra), "")
	if m := strictSlashRe.FindStringSubmatch(stripped); m != nil {
		runs, wkts, ok := parseBoundedPair(m[1], m[2])
		if ok {
			return ScoreState{Runs: runs, Wickets: wkts}, true
		}
	}

	// Strategy 2: space-separated, on the glyph-corrected text.
	trimmed := strings.TrimSpace(corrected)
	if m := spaceSepRe.FindStringSubmatch(trimmed); m != nil {
		runs, wkts, ok := parseBoundedPair(m[1], m[2])
		if ok {
			return ScoreState{Runs: runs, Wickets: wkts}, true
		}
	}

	digits := nonDigitRe.ReplaceAllString(corrected, "")

	// Strategy 3: last-digit heuristic, gated on prevWickets.
	if len(digits) >= 2 && prevWickets != nil {
		lastDigit := int(digits[len(digits)-1] - '0')
		if lastDigit == *prevWickets || lastDigit == *prevWickets+1 {
			runsPart := digits[:len(digits)-1]
			if len(runsPart) <= 3 {
				if runs, err := strconv.Atoi(runsPart); err == nil && runs <= 999 {
					return ScoreState{Runs: runs, Wickets: lastDigit}, true
				}
			}
		}
	}

	// Strategy 4: runs-only fallback.
	if len(digits) >= 1 && len(digits) <= 3 {
		if runs, err := strconv.Atoi(digits); err == nil && runs <= 999 {
			return ScoreState{Runs: runs, Wickets: -1}, true
		}
	}

	return ScoreState{}, false
}

func parseBoundedPair(runsStr, wktsStr string) (int, int, bool) {
	runs, err := strconv.Atoi(runsStr)
	if err != nil || runs > 999 {
		return 0, 0, false
	}
	wkts, err := strconv.Atoi(wktsStr)
	if err != nil || wkts < 0 || wkts > 10 {
		return 0, 0, false
	}
	return runs, wkts, true
}

var oversRe = regexp.MustCompile(`(\d{1,2})\.(\d)`)
var oversStripRe = regexp.MustCompile(`[^0-9.]`)

// ParseOvers converts raw OCR text for the overs ROI into an Overs pair.
func ParseOvers(text string) (Overs, bool) {
	stripped := oversStripRe.ReplaceAllString(text, "")
	m := oversRe.FindStringSubmatch(stripped)
	if m == nil {
		return Overs{}, false
	}
	over, err := strconv.Atoi(m[1])
	if err != nil || over > 50 {
		return Overs{}, false
	}
	ball, err := strconv.Atoi(m[2])
	if err != nil || ball > 5 {
		return Overs{}, false
	}
	return Overs{Over: over, Ball: ball}, true
}
