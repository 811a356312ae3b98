package irq

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type chanReader struct {
	readCh <-chan byte
}

func (c *chanReader) Read(p []byte) (int, error) {
	b, ok := <-c.readCh
	if !ok {
		return 0, io.EOF
	}
	p[0] = b
	return 1, nil
}

type failingReader struct{ err error }

func (r *failingReader) Read(p []byte) (int, error) { return 0, r.err }

func expectByte(t *testing.T, ch <-chan byte, expect byte) {
	select {
	case b := <-ch:
		require.Equal(t, expect, b)
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for %q", expect)
	}
}

func expectNothing(t *testing.T, ch <-chan byte) {
	select {
	case b := <-ch:
		t.Fatalf("unexpected delivery %q while masked", b)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestLineDeliversWhenEnabled(t *testing.T) {
	readCh := make(chan byte, 4)
	gotCh := make(chan byte, 4)
	l := NewLine(&chanReader{readCh: readCh})
	l.Handler = HandlerFunc(func(b byte) { gotCh <- b })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	readCh <- 'a'
	expectNothing(t, gotCh)
	require.False(t, l.Enabled())

	l.Enable()
	expectByte(t, gotCh, 'a')

	l.Disable()
	readCh <- 'b'
	readCh <- 'c'
	expectNothing(t, gotCh)

	l.Enable()
	expectByte(t, gotCh, 'b')
	expectByte(t, gotCh, 'c')
	require.Equal(t, uint64(3), l.Delivered())

	close(readCh)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return on EOF")
	}
}

func TestLineMaskFromHandler(t *testing.T) {
	gotCh := make(chan byte, 8)
	l := NewLine(strings.NewReader("xy\rz"))
	l.Handler = HandlerFunc(func(b byte) {
		gotCh <- b
		if b == '\r' {
			l.Disable()
		}
	})
	l.Enable()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	expectByte(t, gotCh, 'x')
	expectByte(t, gotCh, 'y')
	expectByte(t, gotCh, '\r')
	expectNothing(t, gotCh)
	l.Enable()
	expectByte(t, gotCh, 'z')
}

func TestLineRunErrors(t *testing.T) {
	testCases := []struct {
		name   string
		reader io.Reader
		cancel bool
		expect error
	}{
		{"eof", strings.NewReader(""), false, nil},
		{"read error", &failingReader{err: errors.New("port gone")}, false, errors.New("port gone")},
		{"canceled", &chanReader{readCh: make(chan byte)}, true, context.Canceled},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			if tc.cancel {
				cancel()
			} else {
				defer cancel()
			}
			require.Equal(t, tc.expect, NewLine(tc.reader).Run(ctx))
		})
	}
}
