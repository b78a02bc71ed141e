package bmsddriver

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const SPEED_LOG_TIMESTAMP_LAYOUT = "2006-01-02 15:04:05.000000"

type SpeedLog interface {
	Append(event EdgeEvent) error
}

// FileSpeedLog appends one tab separated line per edge. The file is opened
// and closed on every write so each line is on disk before the next frame.
type FileSpeedLog struct {
	Path string
}

func (l FileSpeedLog) Append(event EdgeEvent) error {
	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "opening speed log %s", l.Path)
	}
	if _, err := fmt.Fprint(f, FormatSpeedLine(event)); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing speed log %s", l.Path)
	}
	return f.Close()
}

func FormatTimestamp(t time.Time) string {
	return t.Format(SPEED_LOG_TIMESTAMP_LAYOUT)
}

func FormatSpeedLine(event EdgeEvent) string {
	omega := strconv.FormatFloat(event.Omega, 'f', -1, 64)
	if !strings.Contains(omega, ".") {
		omega += ".0"
	}
	return FormatTimestamp(event.Entry) + "\t" + omega + "\n"
}
