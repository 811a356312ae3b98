package adxl362_test

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/m0soc/pkg/adxl362"
	"github.com/robotalks/m0soc/pkg/board/sim"
	"github.com/robotalks/m0soc/pkg/spi"
)

func TestConfigureAndReadAxes(t *testing.T) {
	accel := sim.NewAccelerometer()
	accel.SetAxes(64, -64, 127)
	dev := adxl362.New(accel)

	require.NoError(t, dev.Identify())
	require.NoError(t, dev.Configure(adxl362.DefaultSettings))
	assert.Equal(t, byte(adxl362.PowerMeasure), accel.Register(adxl362.PowerCtl))
	assert.Equal(t, 2.0, dev.Range())

	s, err := dev.ReadAxes()
	require.NoError(t, err)
	require.Equal(t, adxl362.Sample{X: 64, Y: -64, Z: 127}, s)
	x, y, _ := s.G(dev.Range())
	assert.Equal(t, 1.0, x)
	assert.Equal(t, -1.0, y)
	assert.Equal(t, "x=64 y=-64 z=127", s.String())
}

func TestRange(t *testing.T) {
	testCases := []struct {
		name   string
		value  byte
		expect float64
	}{
		{"2g", adxl362.Range2G | adxl362.ODR100Hz, 2},
		{"4g", adxl362.Range4G, 4},
		{"8g", adxl362.Range8G | adxl362.ODR400Hz, 8},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dev := adxl362.New(sim.NewAccelerometer())
			require.NoError(t, dev.Configure([]spi.Setting{{Address: adxl362.FilterCtl, Value: tc.value}}))
			require.Equal(t, tc.expect, dev.Range())
		})
	}
}

func TestReadTemperature(t *testing.T) {
	accel := sim.NewAccelerometer()
	dev := adxl362.New(accel)

	accel.SetTemperature(350)
	raw, err := dev.ReadTemperature()
	require.NoError(t, err)
	require.Equal(t, int16(350), raw)
	require.Equal(t, 25.0, adxl362.Celsius(raw))

	accel.SetTemperature(-20)
	raw, err = dev.ReadTemperature()
	require.NoError(t, err)
	require.Equal(t, int16(-20), raw)
}

func TestIdentifyTimeout(t *testing.T) {
	accel := sim.NewAccelerometer()
	accel.Stall(true)
	dev := adxl362.New(accel)
	dev.Driver.SpinLimit = 4
	require.True(t, errors.Is(dev.Identify(), spi.ErrPeripheralTimeout))
}

func TestUnknownDeviceID(t *testing.T) {
	accel := sim.NewAccelerometer()
	dev := adxl362.New(accel)
	require.NoError(t, dev.Driver.WriteRegister(adxl362.DevIDAD, 0x12))
	err := dev.Identify()
	require.True(t, errors.Is(err, adxl362.ErrUnknownDevice))
	require.Contains(t, err.Error(), "device id 12")
}

func TestReset(t *testing.T) {
	accel := sim.NewAccelerometer()
	dev := adxl362.New(accel)
	require.NoError(t, dev.Configure(adxl362.DefaultSettings))
	require.NoError(t, dev.Reset())
	require.Equal(t, byte(0), accel.Register(adxl362.PowerCtl))
}

func TestLoadSettings(t *testing.T) {
	dir, err := ioutil.TempDir("", "adxl362")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(`
- address: 0x2C
  value: 0x40
- address: 0x2D
  value: 0x02
`), 0644))
	settings, err := adxl362.LoadSettings(path)
	require.NoError(t, err)
	require.Equal(t, []spi.Setting{
		{Address: adxl362.FilterCtl, Value: adxl362.Range4G},
		{Address: adxl362.PowerCtl, Value: adxl362.PowerMeasure},
	}, settings)

	_, err = adxl362.ParseSettings([]byte("address: [1"))
	require.Error(t, err)
	_, err = adxl362.LoadSettings(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
