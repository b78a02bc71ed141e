package bmsddriver

import (
	"image"

	"gocv.io/x/gocv"
)

// The up probe drives timing and is calibrated darker than the other three.
const (
	UP_BLACK_THRESHOLD   = 70
	SIDE_BLACK_THRESHOLD = 60
)

type ProbePosition byte

const (
	ProbeUp ProbePosition = iota
	ProbeDown
	ProbeLeft
	ProbeRight
	PROBE_COUNT
)

func (p ProbePosition) String() string {
	return [...]string{"up", "down", "left", "right", "?"}[p]
}

// Threshold is the mean brightness below which the probe reads black.
func (p ProbePosition) Threshold() int {
	if p == ProbeUp {
		return UP_BLACK_THRESHOLD
	}
	return SIDE_BLACK_THRESHOLD
}

func (p ProbePosition) IsBlack(brightness int) bool {
	return brightness < p.Threshold()
}

// ProbePoints places the four probes on the quarter lines of a w x h frame.
func ProbePoints(w, h int) [PROBE_COUNT]image.Point {
	return [PROBE_COUNT]image.Point{
		ProbeUp:    image.Pt(w/2, h/4),
		ProbeDown:  image.Pt(w/2, h-h/4),
		ProbeLeft:  image.Pt(w/4, h/2),
		ProbeRight: image.Pt(w-w/4, h/2),
	}
}

type ProbeSample struct {
	Point      image.Point `json:"point"`
	Brightness int         `json:"brightness"`
	Black      bool        `json:"black"`
}

// ProbeReading is the four samples taken from one frame.
type ProbeReading [PROBE_COUNT]ProbeSample

func (r ProbeReading) Up() ProbeSample {
	return r[ProbeUp]
}

// NewProbeReading classifies raw brightness values, ordered as ProbePosition.
func NewProbeReading(brightness [PROBE_COUNT]int) ProbeReading {
	var reading ProbeReading
	for i, b := range brightness {
		pos := ProbePosition(i)
		reading[pos] = ProbeSample{Brightness: b, Black: pos.IsBlack(b)}
	}
	return reading
}

// MeanBrightness is the integer mean of a BGR pixel.
func MeanBrightness(b, g, r uint8) int {
	return (int(b) + int(g) + int(r)) / 3
}

// SampleProbes reads the four probe pixels of a BGR frame.
func SampleProbes(mat gocv.Mat) ProbeReading {
	points := ProbePoints(mat.Cols(), mat.Rows())

	var brightness [PROBE_COUNT]int
	for i, pt := range points {
		px := mat.GetVecbAt(pt.Y, pt.X)
		brightness[i] = MeanBrightness(px[0], px[1], px[2])
	}

	reading := NewProbeReading(brightness)
	for i, pt := range points {
		reading[i].Point = pt
	}
	return reading
}
