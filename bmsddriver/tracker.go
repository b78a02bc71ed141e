package bmsddriver

import (
	"time"
)

// Tracker turns up-probe samples into speed measurements and command dispatch.
type Tracker struct {
	timer      EdgeTimer
	dispatcher *Dispatcher
	speedLog   SpeedLog
	telemetry  Telemetry
	now        func() time.Time
	done       bool
}

func NewTracker(dispatcher *Dispatcher, speedLog SpeedLog, telemetry Telemetry) *Tracker {
	if telemetry == nil {
		telemetry = NopTelemetry{}
	}
	return &Tracker{
		dispatcher: dispatcher,
		speedLog:   speedLog,
		telemetry:  telemetry,
		now:        time.Now,
	}
}

func (t *Tracker) Timer() *EdgeTimer {
	return &t.timer
}

// Step consumes one frame's reading. It returns true once the command table
// has been used up; frame acquisition should stop then.
func (t *Tracker) Step(reading ProbeReading) bool {
	if t.done {
		return true
	}

	event, ok := t.timer.Observe(reading.Up().Black, t.now())
	if !ok {
		return false
	}

	INFOLogger.Printf("Time to change from black to white pixel: %d milliseconds", event.ElapsedMs)
	INFOLogger.Printf("Omega = %v rad/sec", event.Omega)

	if err := t.speedLog.Append(event); err != nil {
		ERRORLogger.Printf("Appending speed log: %v", err)
	}
	if err := t.telemetry.PublishEdge(event, t.dispatcher.Cursor()); err != nil {
		WARNINGLogger.Printf("Publishing edge: %v", err)
	}

	if !t.dispatcher.Advance() {
		t.done = true
	}
	return t.done
}
