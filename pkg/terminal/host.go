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

// Package terminal provides the host side of the LC-3 keyboard and display.
package terminal

import (
	"context"
	"os"
	"time"

	"github.com/pkg/term/termios"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// How long a blocking read sleeps in select before rechecking its context
const pollInterval = 50 * time.Millisecond

// Host drives the process's own terminal. Reads block in short select
// rounds so a cancelled context releases a waiting GETC or IN.
type Host struct {
	In  *os.File
	Out *os.File
	Log logrus.FieldLogger

	ctx     context.Context
	restore *unix.Termios
	scratch [1]byte
}

func NewHost(ctx context.Context, in, out *os.File) *Host {
	return &Host{
		In:  in,
		Out: out,
		Log: logrus.StandardLogger(),
		ctx: ctx,
	}
}

func (h *Host) logger() logrus.FieldLogger {
	if h.Log == nil {
		return logrus.StandardLogger()
	}

	return h.Log
}

// EnableRawMode turns off line buffering and echo on the input terminal.
// Input that is not a terminal is left as is.
func (h *Host) EnableRawMode() error {
	fd := h.In.Fd()

	if !term.IsTerminal(int(fd)) {
		h.logger().Debug("Input is not a terminal, raw mode skipped")
		return nil
	}

	var state unix.Termios

	if err := termios.Tcgetattr(fd, &state); err != nil {
		return err
	}

	raw := state

	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8

	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := termios.Tcsetattr(fd, termios.TCSANOW, &raw); err != nil {
		return err
	}

	h.restore = &state
	h.logger().Debug("Raw mode enabled")

	return nil
}

// Restore puts back the settings saved by EnableRawMode. It is safe to call
// more than once.
func (h *Host) Restore() error {
	if h.restore == nil {
		return nil
	}

	err := termios.Tcsetattr(h.In.Fd(), termios.TCSANOW, h.restore)
	h.restore = nil

	if err == nil {
		h.logger().Debug("Raw mode disabled")
	}

	return err
}

// readable reports whether fd has input within timeout. A zero timeout
// polls without blocking.
func readable(fd int, timeout time.Duration) (bool, error) {
	for {
		var readfds unix.FdSet
		readfds.Set(fd)

		tv := unix.NsecToTimeval(timeout.Nanoseconds())
		n, err := unix.Select(fd+1, &readfds, nil, nil, &tv)

		if err == unix.EINTR {
			continue
		} else if err != nil {
			return false, err
		}

		return n > 0, nil
	}
}

func (h *Host) wait(timeout time.Duration) (bool, error) {
	return readable(int(h.In.Fd()), timeout)
}

func (h *Host) KeyAvailable() bool {
	ready, err := h.wait(0)

	if err != nil {
		h.logger().WithError(err).Warn("Keyboard poll failed")
		return false
	}

	return ready
}

func (h *Host) ReadChar() (byte, error) {
	ctx := h.ctx

	if ctx == nil {
		ctx = context.Background()
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		ready, err := h.wait(pollInterval)

		if err != nil {
			return 0, err
		} else if !ready {
			continue
		}

		if _, err := h.In.Read(h.scratch[:]); err != nil {
			return 0, err
		}

		return h.scratch[0], nil
	}
}

func (h *Host) WriteChar(c byte) error {
	h.scratch[0] = c
	_, err := h.Out.Write(h.scratch[:])
	return err
}
