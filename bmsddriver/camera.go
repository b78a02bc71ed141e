package bmsddriver

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// FrameSource yields successive BGR frames. *gocv.VideoCapture satisfies it.
type FrameSource interface {
	Read(mat *gocv.Mat) bool
	Close() error
}

var ErrFrameUnavailable = errors.New("camera returned no frame")

func OpenCamera(device int) (*gocv.VideoCapture, error) {
	INFOLogger.Printf("Opening camera %d...", device)
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, errors.Wrapf(err, "opening camera %d", device)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, errors.Errorf("camera %d did not open", device)
	}
	INFOLogger.Printf(
		"Camera %d opened: %.0fx%.0f",
		device,
		capture.Get(gocv.VideoCaptureFrameWidth),
		capture.Get(gocv.VideoCaptureFrameHeight),
	)
	return capture, nil
}

// ScaleFrame resizes src into dst by factor; dst shares src when factor is 1.
func ScaleFrame(src gocv.Mat, dst *gocv.Mat, factor float64) gocv.Mat {
	if factor == 1 {
		return src
	}
	gocv.Resize(src, dst, image.Point{}, factor, factor, gocv.InterpolationLinear)
	return *dst
}
