package bmsddriver

import (
	"gocv.io/x/gocv"
)

// RaiseStop signals stop without blocking; repeated raises collapse into one.
func RaiseStop(stop chan<- struct{}) {
	select {
	case stop <- struct{}{}:
	default:
	}
}

// Loop ties frame acquisition to the tracker on a single goroutine.
type Loop struct {
	Camera    FrameSource
	Display   Display
	Tracker   *Tracker
	Telemetry Telemetry
	Stop      <-chan struct{}

	// Frames are scaled before probing, as the probes were calibrated on the scaled image.
	Scale float64
	// Publish every Nth overlay frame; 0 disables.
	ImageEvery int
}

// Run processes frames until the stop signal, a stop key, or the command
// table is exhausted. The camera is closed on return.
func (l *Loop) Run() error {
	display := l.Display
	if display == nil {
		display = HeadlessDisplay{}
	}
	telemetry := l.Telemetry
	if telemetry == nil {
		telemetry = NopTelemetry{}
	}
	scale := l.Scale
	if scale == 0 {
		scale = 1
	}

	cameraOpen := true
	releaseCamera := func() {
		if cameraOpen {
			cameraOpen = false
			if err := l.Camera.Close(); err != nil {
				WARNINGLogger.Printf("Releasing camera: %v", err)
			}
		}
	}
	defer releaseCamera()

	img := gocv.NewMat()
	defer img.Close()
	scaled := gocv.NewMat()
	defer scaled.Close()

	for frame := 0; ; frame++ {
		if ok := l.Camera.Read(&img); !ok || img.Empty() {
			return ErrFrameUnavailable
		}

		view := ScaleFrame(img, &scaled, scale)
		reading := SampleProbes(view)

		if l.Tracker.Step(reading) {
			INFOLogger.Printf("All commands dispatched after %d frames, releasing camera", frame+1)
			releaseCamera()
			return nil
		}

		DrawGuides(&view)
		DrawProbes(&view, reading)

		if l.ImageEvery > 0 && frame%l.ImageEvery == 0 {
			if err := telemetry.PublishFrame(view); err != nil {
				WARNINGLogger.Printf("Publishing frame %d: %v", frame, err)
			}
		}

		if IsStopKey(display.Show(view)) {
			INFOLogger.Println("Stop key pressed")
			return nil
		}

		select {
		case <-l.Stop:
			INFOLogger.Println("Stop signal received")
			return nil
		default:
		}
	}
}
