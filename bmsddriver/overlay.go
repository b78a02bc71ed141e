package bmsddriver

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

const (
	WINDOW_NAME = "circle_test"
	STOP_KEY    = 'q'
	NO_KEY      = -1

	PROBE_MARKER_RADIUS = 6
)

var (
	centerGuideColor  = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	quarterGuideColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	blackProbeColor   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	whiteProbeColor   = color.RGBA{R: 255, G: 0, B: 255, A: 255}
)

// DrawGuides draws the center cross and the quarter lines the probes sit on.
func DrawGuides(mat *gocv.Mat) {
	w := mat.Cols()
	h := mat.Rows()

	gocv.Line(mat, image.Pt(0, h/2), image.Pt(w, h/2), centerGuideColor, 2)
	gocv.Line(mat, image.Pt(w/2, 0), image.Pt(w/2, h), centerGuideColor, 2)

	gocv.Line(mat, image.Pt(0, h/4), image.Pt(w, h/4), quarterGuideColor, 1)
	gocv.Line(mat, image.Pt(w/4, 0), image.Pt(w/4, h), quarterGuideColor, 1)
	gocv.Line(mat, image.Pt(w-w/4, 0), image.Pt(w-w/4, h), quarterGuideColor, 1)
	gocv.Line(mat, image.Pt(0, h-h/4), image.Pt(w, h-h/4), quarterGuideColor, 1)
}

func DrawProbes(mat *gocv.Mat, reading ProbeReading) {
	for _, sample := range reading {
		c := whiteProbeColor
		if sample.Black {
			c = blackProbeColor
		}
		gocv.Circle(mat, sample.Point, PROBE_MARKER_RADIUS, c, 1)
	}
}

// Display shows a frame and returns the key pressed meanwhile, or NO_KEY.
type Display interface {
	Show(mat gocv.Mat) int
	Close() error
}

type WindowDisplay struct {
	window *gocv.Window
}

func NewWindowDisplay() *WindowDisplay {
	return &WindowDisplay{window: gocv.NewWindow(WINDOW_NAME)}
}

func (d *WindowDisplay) Show(mat gocv.Mat) int {
	d.window.IMShow(mat)
	return d.window.WaitKey(1)
}

func (d *WindowDisplay) Close() error {
	return d.window.Close()
}

type HeadlessDisplay struct{}

func (HeadlessDisplay) Show(gocv.Mat) int { return NO_KEY }
func (HeadlessDisplay) Close() error      { return nil }

func IsStopKey(key int) bool {
	return key != NO_KEY && key&0xFF == STOP_KEY
}
