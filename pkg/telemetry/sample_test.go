package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	now := time.Now()
	s := &Sample{
		DeviceId:  "dev",
		Seq:       7,
		X:         -128,
		Y:         64,
		Z:         127,
		Gx:        -2,
		Gy:        1,
		Line:      "hello",
		Truncated: true,
		Timestamp: now.UnixNano(),
	}
	data, err := Encode(s)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, s.String(), decoded.String())
	require.Equal(t, int32(-128), decoded.X)
	require.True(t, decoded.Time().Equal(time.Unix(0, now.UnixNano())))
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
}

func TestDeviceID(t *testing.T) {
	id := DeviceID()
	require.NotEmpty(t, id)
	require.Equal(t, id, DeviceID())
}

func TestPublisherFunc(t *testing.T) {
	var got *Sample
	p := PublisherFunc(func(s *Sample) error {
		got = s
		return nil
	})
	s := &Sample{Seq: 1}
	require.NoError(t, p.Publish(s))
	require.Equal(t, s, got)
	require.NoError(t, LogPublisher.Publish(s))
}
