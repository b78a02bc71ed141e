package bmsddriver

import (
	"bufio"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
)

// Settings are the runtime knobs read from the environment.
type Settings struct {
	ConfigFile string `env:"BMSD_CONFIG" envDefault:"bmsd.cfg"`
	SpeedLog   string `env:"BMSD_SPEED_LOG" envDefault:"text.txt"`

	CameraDevice int     `env:"CAMERA_DEVICE" envDefault:"0"`
	CameraScale  float64 `env:"CAMERA_SCALE" envDefault:"2"`
	Headless     bool    `env:"HEADLESS" envDefault:"false"`

	MQTTBroker      string `env:"MQTT_BROKER"`
	MQTTClientID    string `env:"MQTT_CLIENT_ID" envDefault:"bmsd-driver"`
	MQTTTopicPrefix string `env:"MQTT_TOPIC_PREFIX" envDefault:"bmsd"`
	MQTTImageEvery  int    `env:"MQTT_IMAGE_EVERY" envDefault:"0"`
}

func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return s, errors.Wrap(err, "parsing environment")
	}
	if s.CameraScale <= 0 {
		return s, errors.Errorf("CAMERA_SCALE must be positive, got %v", s.CameraScale)
	}
	if s.MQTTImageEvery < 0 {
		return s, errors.Errorf("MQTT_IMAGE_EVERY must not be negative, got %d", s.MQTTImageEvery)
	}
	return s, nil
}

// ReadPortIdentifier returns the first line of the config file, trimmed.
func ReadPortIdentifier(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &ConfigError{Path: path, Err: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		err := scanner.Err()
		if err == nil {
			err = errors.New("file is empty")
		}
		return "", &ConfigError{Path: path, Err: err}
	}

	port := strings.TrimSpace(scanner.Text())
	if port == "" {
		return "", &ConfigError{Path: path, Err: errors.New("no port identifier on first line")}
	}
	return port, nil
}
