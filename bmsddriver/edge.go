package bmsddriver

import (
	"math"
	"time"
)

// One black sector spans a quarter turn.
const SECTOR_ANGLE_RAD = math.Pi / 2

const MIN_INTERVAL_MS = 1

type TimerState byte

const (
	TimerUnarmed TimerState = iota
	TimerArmed
	TimerBlackDetected
)

func (s TimerState) String() string {
	switch s {
	case TimerUnarmed:
		return "unarmed"
	case TimerArmed:
		return "armed"
	case TimerBlackDetected:
		return "black-detected"
	}
	return "unknown"
}

// EdgeEvent is one completed black interval of the up probe.
type EdgeEvent struct {
	Entry     time.Time `json:"entry"`
	ElapsedMs int64     `json:"elapsed_ms"`
	Omega     float64   `json:"omega"`
}

// EdgeTimer holds at most one open black interval.
//
// An unarmed timer only arms on a white sample, so a disk that starts on a
// black sector never produces a partial first interval.
type EdgeTimer struct {
	state TimerState
	entry time.Time
}

func (t *EdgeTimer) State() TimerState {
	return t.state
}

// Entry is the start of the open interval; zero unless BlackDetected.
func (t *EdgeTimer) Entry() time.Time {
	return t.entry
}

// Observe feeds one classified up sample. It reports an event when a black
// interval closes on a white sample.
func (t *EdgeTimer) Observe(black bool, now time.Time) (EdgeEvent, bool) {
	switch t.state {
	case TimerUnarmed:
		if !black {
			t.state = TimerArmed
		}
	case TimerArmed:
		if black {
			t.state = TimerBlackDetected
			t.entry = now
			DEBUGLogger.Printf("First entry time of black pixel: %s", FormatTimestamp(now))
		}
	case TimerBlackDetected:
		if !black {
			event := newEdgeEvent(t.entry, now)
			t.state = TimerArmed
			t.entry = time.Time{}
			return event, true
		}
	}
	return EdgeEvent{}, false
}

func newEdgeEvent(entry, now time.Time) EdgeEvent {
	elapsedMs := int64(math.Round(float64(now.Sub(entry).Microseconds()) / 1000))
	if elapsedMs < MIN_INTERVAL_MS {
		elapsedMs = MIN_INTERVAL_MS
	}
	return EdgeEvent{
		Entry:     entry,
		ElapsedMs: elapsedMs,
		Omega:     AngularVelocity(elapsedMs),
	}
}

// AngularVelocity is the rad/s of one sector passing in elapsedMs, rounded to 4 decimals.
func AngularVelocity(elapsedMs int64) float64 {
	omega := SECTOR_ANGLE_RAD / (float64(elapsedMs) / 1000)
	return math.Round(omega*1e4) / 1e4
}
