package adxl362

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/m0soc/pkg/spi"
)

// ParseSettings parses a YAML list of register writes:
//
//	- address: 0x2C
//	  value: 0x00
//	- address: 0x2D
//	  value: 0x02
//
// The order of the list is the order of the writes.
func ParseSettings(data []byte) ([]spi.Setting, error) {
	var settings []spi.Setting
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %v", err)
	}
	return settings, nil
}

// LoadSettings reads settings from a YAML file.
func LoadSettings(path string) ([]spi.Setting, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSettings(data)
}
