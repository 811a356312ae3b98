package spi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type busEvent struct {
	cs   bool
	sel  bool
	data byte
}

type fakeBus struct {
	events   []busEvent
	selected bool
	complete bool
	data     byte
	// stallAfter stops completing transfers after that many bytes, -1 never stalls.
	stallAfter int
	sent       int
	response   map[byte]byte
	lastAddr   byte
	onWrite    func()
}

func newFakeBus() *fakeBus {
	return &fakeBus{stallAfter: -1, response: make(map[byte]byte)}
}

func (b *fakeBus) SetChipSelect(asserted bool) {
	b.selected = asserted
	b.events = append(b.events, busEvent{cs: true, sel: asserted})
}

func (b *fakeBus) WriteData(v byte) {
	b.events = append(b.events, busEvent{data: v})
	if b.onWrite != nil {
		b.onWrite()
	}
	if b.stallAfter >= 0 && b.sent >= b.stallAfter {
		return
	}
	b.sent++
	switch b.sent % 3 {
	case 2:
		b.lastAddr = v
		b.data = 0
	case 0:
		b.data = b.response[b.lastAddr]
	default:
		b.data = 0
	}
	b.complete = true
}

func (b *fakeBus) ReadData() byte         { return b.data }
func (b *fakeBus) TransferComplete() bool { return b.complete }
func (b *fakeBus) ClearTransferComplete() { b.complete = false }

func (b *fakeBus) dataBytes() (out []byte) {
	for _, ev := range b.events {
		if !ev.cs {
			out = append(out, ev.data)
		}
	}
	return
}

func TestReadRegisterFrame(t *testing.T) {
	bus := newFakeBus()
	bus.response[0x08] = 0x7f
	d := NewDriver(bus)

	v, err := d.ReadRegister(0x08)
	require.NoError(t, err)
	require.Equal(t, byte(0x7f), v)
	require.Equal(t, []busEvent{
		{cs: true, sel: true},
		{data: 0x0B},
		{data: 0x08},
		{data: 0x00},
		{cs: true, sel: false},
	}, bus.events)
	require.False(t, bus.selected)
	require.Equal(t, StateIdle, d.State())
	require.Equal(t, uint64(1), d.Frames())
}

func TestConfigureThenRead(t *testing.T) {
	bus := newFakeBus()
	d := NewDriver(bus)

	require.NoError(t, d.Configure([]Setting{{0x2C, 0x00}, {0x2D, 0x02}}))
	_, err := d.ReadRegister(0x08)
	require.NoError(t, err)

	require.Equal(t, []byte{
		0x0A, 0x2C, 0x00,
		0x0A, 0x2D, 0x02,
		0x0B, 0x08, 0x00,
	}, bus.dataBytes())
	var frames int
	for _, ev := range bus.events {
		if ev.cs && ev.sel {
			frames++
		}
	}
	require.Equal(t, 3, frames)
	require.False(t, bus.selected)
}

func TestSendByteTimeout(t *testing.T) {
	bus := newFakeBus()
	bus.stallAfter = 0
	d := NewDriver(bus)
	d.SpinLimit = 16

	err := d.SendByte(0x5a)
	require.True(t, errors.Is(err, ErrPeripheralTimeout))
	var te *TimeoutError
	require.True(t, errors.As(err, &te))
	require.Equal(t, byte(0x5a), te.Byte)
	require.Equal(t, 16, te.Spins)
}

func TestSendByteIgnoresStaleCompletion(t *testing.T) {
	bus := newFakeBus()
	bus.stallAfter = 0
	// a late completion of a byte that already timed out.
	bus.complete = true
	d := NewDriver(bus)
	d.SpinLimit = 8

	err := d.SendByte(0x0B)
	require.True(t, errors.Is(err, ErrPeripheralTimeout))
	require.False(t, bus.complete)
}

func TestFrameTimeoutReleasesChipSelect(t *testing.T) {
	testCases := []struct {
		name       string
		stallAfter int
		bytes      []byte
	}{
		{"instruction", 0, []byte{0x0B}},
		{"address", 1, []byte{0x0B, 0x09}},
		{"data", 2, []byte{0x0B, 0x09, 0x00}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bus := newFakeBus()
			bus.stallAfter = tc.stallAfter
			d := NewDriver(bus)
			d.SpinLimit = 4

			_, err := d.ReadRegister(0x09)
			require.True(t, errors.Is(err, ErrPeripheralTimeout))
			require.Equal(t, tc.bytes, bus.dataBytes())
			require.False(t, bus.selected)
			require.Equal(t, StateIdle, d.State())
		})
	}
}

func TestConfigureStopsAtFailure(t *testing.T) {
	bus := newFakeBus()
	bus.stallAfter = 4
	d := NewDriver(bus)
	d.SpinLimit = 4

	err := d.Configure([]Setting{{0x2C, 0x00}, {0x2D, 0x02}, {0x20, 0xFA}})
	var se *SettingError
	require.True(t, errors.As(err, &se))
	require.Equal(t, 1, se.Index)
	require.Equal(t, Setting{0x2D, 0x02}, se.Setting)
	require.True(t, errors.Is(err, ErrPeripheralTimeout))
	require.Equal(t, []byte{0x0A, 0x2C, 0x00, 0x0A, 0x2D}, bus.dataBytes())
}

func TestSendFrameBusy(t *testing.T) {
	bus := newFakeBus()
	d := NewDriver(bus)
	var nested error
	bus.onWrite = func() {
		bus.onWrite = nil
		nested = d.SendFrame(0x0A, 0x2D, 0x00)
	}
	require.NoError(t, d.SendFrame(0x0A, 0x2C, 0x00))
	require.Equal(t, ErrBusy, nested)
}

func TestRetry(t *testing.T) {
	timeout := &TimeoutError{Byte: 1, Spins: 1}
	other := errors.New("other")
	testCases := []struct {
		name   string
		errs   []error
		calls  int
		expect error
	}{
		{"success", []error{nil}, 1, nil},
		{"recovered", []error{timeout, nil}, 2, nil},
		{"twice", []error{timeout, timeout}, 2, timeout},
		{"not retried", []error{other}, 1, other},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := Retry(func() error {
				err := tc.errs[calls]
				calls++
				return err
			})
			require.Equal(t, tc.calls, calls)
			require.Equal(t, tc.expect, err)
		})
	}
}

func TestRawToPhysical(t *testing.T) {
	require.Equal(t, 0.0, RawToPhysical(0, 2.0))
	require.InDelta(t, 1.984, RawToPhysical(127, 2.0), 0.001)
	require.Equal(t, -2.0, RawToPhysical(-128, 2.0))
	require.Equal(t, -4.0, RawToPhysical(-128, 4.0))
}
