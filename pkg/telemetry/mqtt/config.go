package mqtt

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/m0soc/pkg/telemetry"
)

// Config defines the broker connection.
type Config struct {
	// URL is the broker URL, e.g. mqtt://host:port/topic-prefix.
	// Publishing is disabled if empty.
	URL      string
	DeviceID string
}

var defaultConfig Config

func init() {
	if val := os.Getenv("M0_MQTT_URL"); val != "" {
		defaultConfig.URL = val
	}
	if val := os.Getenv("M0_DEVICE_ID"); val != "" {
		defaultConfig.DeviceID = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.URL, "mqtt", defaultConfig.URL, "MQTT broker URL for telemetry, disabled if empty.")
	flag.StringVar(&defaultConfig.DeviceID, "device-id", defaultConfig.DeviceID, "Device ID in telemetry, derived from machine ID if empty.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Enabled reports whether a broker is configured.
func (c *Config) Enabled() bool {
	return c.URL != ""
}

// NewPublisher creates a Publisher from the config.
func (c *Config) NewPublisher() (*Publisher, error) {
	deviceID := c.DeviceID
	if deviceID == "" {
		deviceID = telemetry.DeviceID()
	}
	return NewPublisher(c.URL, deviceID)
}

// MustNewPublisher is NewPublisher but fails the program on error.
func (c *Config) MustNewPublisher() *Publisher {
	p, err := c.NewPublisher()
	if err != nil {
		log.Fatalln(err)
	}
	return p
}
