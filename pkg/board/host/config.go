package host

import (
	"flag"
	"os"
	"strconv"
)

// Config selects the host console.
type Config struct {
	// Port is a serial device, the controlling terminal is used if empty.
	Port string
	Baud int
	// TTY is the terminal device, the controlling terminal if empty.
	TTY string
}

// DefaultBaud is the default serial baud rate.
const DefaultBaud = 115200

var defaultConfig = Config{
	Baud: DefaultBaud,
}

func init() {
	if val := os.Getenv("M0_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("M0_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil {
			defaultConfig.Baud = baud
		}
	}
	if val := os.Getenv("M0_TTY"); val != "" {
		defaultConfig.TTY = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial device for the console, terminal if empty.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Serial baud rate.")
	flag.StringVar(&defaultConfig.TTY, "tty", defaultConfig.TTY, "Terminal device, controlling terminal if empty.")
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
