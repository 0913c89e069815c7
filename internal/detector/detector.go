// Package detector implements the event-classification state machine: it
// consumes a stream of score/overs observations and emits FOUR, SIX, and
// WICKET events, smoothing over OCR noise with a median history buffer, a
// confirmation count, a cooldown, and an innings-reset persistence window.
package detector

import (
	"sort"

	"github.com/almanet26/sports/internal/scoreparse"
)

// Design constants. Not runtime tunables.
const (
	historySize             = 5
	cooldownSeconds         = 10.0
	maxRunsPerBall          = 8
	resetPersistenceSeconds = 60.0
	confirmationCount       = 2
	maxPlausibleRuns        = 400
	maxPlausibleWickets     = 10
)

// EventKind names the three semantic events the detector can emit.
type EventKind string

const (
	FourEvent   EventKind = "FOUR"
	SixEvent    EventKind = "SIX"
	WicketEvent EventKind = "WICKET"
)

// Observation is one parsed (score, overs) reading at a point in time.
// Score and Overs are nil when the frame contributed nothing usable.
type Observation struct {
	Timestamp float64
	Score     *scoreparse.ScoreState
	Overs     *scoreparse.Overs
}

// Event is a detected score transition.
type Event struct {
	Kind         EventKind
	Timestamp    float64
	ScoreBefore  scoreparse.ScoreState
	ScoreAfter   scoreparse.ScoreState
	OversAtEvent *scoreparse.Overs
}

// ring is a fixed-capacity FIFO of ints, overwritten oldest-first: no
// growth, no allocation once warmed up.
type ring struct {
	buf [historySize]int
	n   int
	pos int
}

func (r *ring) push(v int) {
	r.buf[r.pos] = v
	r.pos = (r.pos + 1) % historySize
	if r.n < historySize {
		r.n++
	}
}

func (r *ring) full() bool { return r.n == historySize }

func (r *ring) values() []int {
	out := make([]int, r.n)
	copy(out, r.buf[:r.n])
	return out
}

// Detector is the event-classification state machine. It is not safe for
// concurrent use; the pipeline drives it from a single observation loop.
type Detector struct {
	lastEventTime float64
	lastStable    *scoreparse.ScoreState
	lastOver      *scoreparse.Overs

	runsHistory ring
	wktsHistory ring

	resetCandidate     *scoreparse.ScoreState
	resetCandidateTime float64

	pendingScore *scoreparse.ScoreState
	pendingCount int
}

// New returns a detector with a cooldown that never blocks the first event.
func New() *Detector {
	return &Detector{lastEventTime: -1e18}
}

// Reset clears all state, as if the detector had just been constructed.
// Intended for an explicit innings transition signaled by the caller.
func (d *Detector) Reset() {
	*d = Detector{lastEventTime: -1e18}
}

// LastWickets returns the wicket count callers should treat as "the wickets
// right now" for OCR heuristics that need the prior reading: the last
// confirmed stable score when one exists, falling back to the median of the
// in-flight history buffer before the first score has stabilized. ok is
// false when neither source has a wicket reading yet.
func (d *Detector) LastWickets() (wickets int, ok bool) {
	if d.lastStable != nil && d.lastStable.WicketsKnown() {
		return d.lastStable.Wickets, true
	}
	valid := make([]int, 0, historySize)
	for _, v := range d.wktsHistory.values() {
		if v >= 0 {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return 0, false
	}
	sort.Ints(valid)
	return valid[len(valid)/2], true
}

func plausible(s scoreparse.ScoreState) bool {
	if s.Runs < 0 || s.Runs > maxPlausibleRuns {
		return false
	}
	if s.Wickets >= 0 && s.Wickets > maxPlausibleWickets {
		return false
	}
	return true
}

func medianRuns(vals []int) int {
	sort.Ints(vals)
	return vals[len(vals)/2]
}

func medianWickets(vals []int) int {
	valid := make([]int, 0, len(vals))
	for _, v := range vals {
		if v >= 0 {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return 0
	}
	sort.Ints(valid)
	return valid[len(valid)/2]
}

// classify implements the load-bearing priority order: WICKET first
// (regardless of runs_diff), then fuzzy SIX, then exact FOUR.
func classify(old, new scoreparse.ScoreState) (EventKind, bool) {
	if old.Wickets >= 0 && new.Wickets >= 0 && new.Wickets-old.Wickets == 1 {
		return WicketEvent, true
	}
	runsDiff := new.Runs - old.Runs
	switch runsDiff {
	case 5, 6, 7:
		return SixEvent, true
	case 4:
		return FourEvent, true
	}
	return "", false
}

// Process feeds one observation through the state machine. It returns a
// non-nil Event when the observation causes a transition to be emitted;
// otherwise it returns nil and the observation only updates internal state.
// Process never fails: implausible or missing input simply yields nil.
func (d *Detector) Process(obs Observation) *Event {
	if obs.Score == nil || !plausible(*obs.Score) {
		return nil
	}
	score := *obs.Score

	// New-ball gate: same ball contributes to history but never emits.
	if obs.Overs != nil && d.lastOver != nil && !d.lastOver.Less(*obs.Overs) {
		d.runsHistory.push(score.Runs)
		d.wktsHistory.push(score.Wickets)
		return nil
	}
	if obs.Overs != nil {
		d.lastOver = obs.Overs
	}

	// Cooldown gate.
	if obs.Timestamp-d.lastEventTime < cooldownSeconds {
		d.runsHistory.push(score.Runs)
		d.wktsHistory.push(score.Wickets)
		return nil
	}

	// Confirmation buffer: require CONFIRMATION consecutive identical reads.
	if d.pendingScore != nil && *d.pendingScore == score {
		d.pendingCount++
	} else {
		s := score
		d.pendingScore = &s
		d.pendingCount = 1
	}
	if d.pendingCount < confirmationCount {
		return nil
	}

	d.runsHistory.push(score.Runs)
	d.wktsHistory.push(score.Wickets)

	if !d.runsHistory.full() {
		return nil
	}

	stable := scoreparse.ScoreState{
		Runs:    medianRuns(d.runsHistory.values()),
		Wickets: medianWickets(d.wktsHistory.values()),
	}

	if d.lastStable == nil {
		s := stable
		d.lastStable = &s
		return nil
	}
	if stable == *d.lastStable {
		return nil
	}

	runsDiff := stable.Runs - d.lastStable.Runs
	var wicketsDiff int
	if stable.Wickets >= 0 && d.lastStable.Wickets >= 0 {
		wicketsDiff = stable.Wickets - d.lastStable.Wickets
	}

	// Innings/reset handling. The persistence clock only starts once, the
	// first time this candidate appears; it is not restarted by later
	// observations that still match it while unconfirmed.
	if runsDiff < 0 {
		if d.resetCandidate != nil && *d.resetCandidate == stable {
			if obs.Timestamp-d.resetCandidateTime > resetPersistenceSeconds {
				s := stable
				d.lastStable = &s
				d.resetCandidate = nil
			}
		} else {
			s := stable
			d.resetCandidate = &s
			d.resetCandidateTime = obs.Timestamp
		}
		return nil
	}
	d.resetCandidate = nil

	// Long OCR gaps across legitimate play: absorb a huge jump silently as
	// the new baseline, unless it coincides with a genuine wicket.
	if runsDiff > maxRunsPerBall && wicketsDiff != 1 {
		s := stable
		d.lastStable = &s
		return nil
	}

	kind, ok := classify(*d.lastStable, stable)
	var ev *Event
	if ok {
		ev = &Event{
			Kind:         kind,
			Timestamp:    obs.Timestamp,
			ScoreBefore:  *d.lastStable,
			ScoreAfter:   stable,
			OversAtEvent: obs.Overs,
		}
		d.lastEventTime = obs.Timestamp
	}
	s := stable
	d.lastStable = &s
	return ev
}
