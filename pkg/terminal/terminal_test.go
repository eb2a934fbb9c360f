// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package terminal_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/lc3vm/pkg/terminal"
)

func TestStream(t *testing.T) {
	var display bytes.Buffer

	s := terminal.NewStream(strings.NewReader("ab"), &display)

	require.True(t, s.KeyAvailable())

	c, err := s.ReadChar()
	require.NoError(t, err)
	assert.Equal(t, byte('a'), c)

	c, err = s.ReadChar()
	require.NoError(t, err)
	assert.Equal(t, byte('b'), c)

	assert.False(t, s.KeyAvailable())

	_, err = s.ReadChar()
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, s.WriteChar('Z'))
	assert.Equal(t, "Z", display.String(), "output must be flushed per character")
}

func TestStreamDetached(t *testing.T) {
	s := terminal.NewStream(nil, nil)

	assert.False(t, s.KeyAvailable())
	assert.NoError(t, s.WriteChar('x'))

	_, err := s.ReadChar()
	assert.ErrorIs(t, err, io.EOF)
}

func newPipeHost(t *testing.T, ctx context.Context) (*terminal.Host, *os.File, *os.File) {
	inR, inW, err := os.Pipe()
	require.NoError(t, err)

	outR, outW, err := os.Pipe()
	require.NoError(t, err)

	t.Cleanup(func() {
		inR.Close()
		inW.Close()
		outR.Close()
		outW.Close()
	})

	return terminal.NewHost(ctx, inR, outW), inW, outR
}

func TestHostPipe(t *testing.T) {
	host, keys, screen := newPipeHost(t, context.Background())

	// Pipes are not terminals; both calls are no-ops
	require.NoError(t, host.EnableRawMode())
	defer host.Restore()

	assert.False(t, host.KeyAvailable())

	_, err := keys.Write([]byte("q"))
	require.NoError(t, err)

	assert.True(t, host.KeyAvailable())

	c, err := host.ReadChar()
	require.NoError(t, err)
	assert.Equal(t, byte('q'), c)
	assert.False(t, host.KeyAvailable())

	require.NoError(t, host.WriteChar('!'))

	buf := make([]byte, 1)
	_, err = io.ReadFull(screen, buf)
	require.NoError(t, err)
	assert.Equal(t, "!", string(buf))

	assert.NoError(t, host.Restore())
}

func TestHostReadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	host, _, _ := newPipeHost(t, ctx)

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := host.ReadChar()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHostReadClosed(t *testing.T) {
	host, keys, _ := newPipeHost(t, context.Background())

	require.NoError(t, keys.Close())

	_, err := host.ReadChar()
	assert.ErrorIs(t, err, io.EOF)
}

func TestStreamBlockingReaderNeverStalls(t *testing.T) {
	keysR, keysW := io.Pipe()
	defer keysW.Close()

	s := terminal.NewStream(keysR, io.Discard)

	polled := make(chan bool, 1)
	go func() { polled <- s.KeyAvailable() }()

	select {
	case ready := <-polled:
		assert.False(t, ready)
	case <-time.After(time.Second):
		t.Fatal("KeyAvailable blocked on an empty reader")
	}
}

func TestStreamFile(t *testing.T) {
	keysR, keysW, err := os.Pipe()
	require.NoError(t, err)

	defer keysR.Close()
	defer keysW.Close()

	s := terminal.NewStream(keysR, nil)

	assert.False(t, s.KeyAvailable())

	_, err = keysW.Write([]byte("k"))
	require.NoError(t, err)

	require.True(t, s.KeyAvailable())

	c, err := s.ReadChar()
	require.NoError(t, err)
	assert.Equal(t, byte('k'), c)
	assert.False(t, s.KeyAvailable())
}

func TestHostZeroValueFields(t *testing.T) {
	keysR, keysW, err := os.Pipe()
	require.NoError(t, err)

	defer keysR.Close()
	defer keysW.Close()

	host := &terminal.Host{In: keysR, Out: os.Stdout}

	_, err = keysW.Write([]byte("z"))
	require.NoError(t, err)

	assert.True(t, host.KeyAvailable())

	c, err := host.ReadChar()
	require.NoError(t, err)
	assert.Equal(t, byte('z'), c)

	assert.NoError(t, host.EnableRawMode())
	assert.NoError(t, host.Restore())
}
