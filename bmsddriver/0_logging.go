package bmsddriver

import (
	"io"
	"log"
	"os"
)

var (
	WARNINGLogger *log.Logger
	INFOLogger    *log.Logger
	ERRORLogger   *log.Logger
	DEBUGLogger   *log.Logger
)

var (
	LOG_LEVEL     = 20 // default log level
	DEBUG_LEVEL   = 10
	INFO_LEVEL    = 20
	WARNING_LEVEL = 30
	ERROR_LEVEL   = 40
)

func init() {
	var unrecognized string

	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr != "" {
		switch logLevelStr {
		case "DEBUG":
			LOG_LEVEL = DEBUG_LEVEL
		case "INFO":
			LOG_LEVEL = INFO_LEVEL
		case "WARNING":
			LOG_LEVEL = WARNING_LEVEL
		case "ERROR":
			LOG_LEVEL = ERROR_LEVEL
		default:
			unrecognized = logLevelStr
		}
	}

	SetupLoggers(os.Stderr, LOG_LEVEL)

	if unrecognized != "" {
		WARNINGLogger.Printf("Unrecognized LOG_LEVEL env variable value: %s. Keeping LOG_LEVEL at level INFO (20)", unrecognized)
	}
}

// SetupLoggers (re)creates the leveled loggers. Loggers below level write to io.Discard.
func SetupLoggers(out io.Writer, level int) {
	flag := log.Ldate | log.Ltime | log.Lmicroseconds | log.Lmsgprefix | log.Lshortfile

	writerFor := func(l int) io.Writer {
		if l < level {
			return io.Discard
		}
		return out
	}

	DEBUGLogger = log.New(writerFor(DEBUG_LEVEL), "DEBUG ", flag)
	INFOLogger = log.New(writerFor(INFO_LEVEL), "INFO ", flag)
	WARNINGLogger = log.New(writerFor(WARNING_LEVEL), "WARNING ", flag)
	ERRORLogger = log.New(writerFor(ERROR_LEVEL), "ERROR ", flag)
}
