package monitor

import (
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/m0soc/pkg/adxl362"
	"github.com/robotalks/m0soc/pkg/board"
	"github.com/robotalks/m0soc/pkg/linerx"
	"github.com/robotalks/m0soc/pkg/spi"
)

// Config defines the monitor options.
type Config struct {
	// BufferSize is the receive buffer capacity, terminator slot included.
	BufferSize int
	// SpinLimit bounds the completion polls per SPI byte.
	SpinLimit int
	// SettingsFile is a YAML list of accelerometer register writes,
	// DefaultSettings if empty.
	SettingsFile string
	// Blink is the delay between LED updates of the idle display.
	Blink time.Duration
}

var defaultConfig = Config{
	BufferSize: linerx.DefaultSize,
	SpinLimit:  spi.DefaultSpinLimit,
	Blink:      150 * time.Millisecond,
}

func init() {
	if val := os.Getenv("M0_SETTINGS"); val != "" {
		defaultConfig.SettingsFile = val
	}
	if val := os.Getenv("M0_BUF_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			defaultConfig.BufferSize = size
		}
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.BufferSize, "buf-size", defaultConfig.BufferSize, "Receive buffer size.")
	flag.IntVar(&defaultConfig.SpinLimit, "spin-limit", defaultConfig.SpinLimit, "Maximum polls per SPI byte before timeout.")
	flag.StringVar(&defaultConfig.SettingsFile, "settings", defaultConfig.SettingsFile, "YAML file of accelerometer register settings.")
	flag.DurationVar(&defaultConfig.Blink, "blink", defaultConfig.Blink, "LED blink delay.")
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

// NewMonitor creates a Monitor on the board.
func (c *Config) NewMonitor(b board.Board) (*Monitor, error) {
	m := New(b, c.BufferSize)
	m.Accel.Driver.SpinLimit = c.SpinLimit
	m.Blink = c.Blink
	if c.SettingsFile != "" {
		settings, err := adxl362.LoadSettings(c.SettingsFile)
		if err != nil {
			return nil, err
		}
		m.Settings = settings
	}
	return m, nil
}

// MustNewMonitor is NewMonitor but fails the program on error.
func (c *Config) MustNewMonitor(b board.Board) *Monitor {
	m, err := c.NewMonitor(b)
	if err != nil {
		log.Fatalln(err)
	}
	return m
}
