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

package terminal

import (
	"bufio"
	"io"
	"os"
)

// Stream is a terminal over plain readers and writers, for scripted
// keyboard input. KeyAvailable never blocks: besides buffered input it
// polls files with select and checks the length of in-memory readers. Any
// other reader only reports keys once a blocking read has buffered them.
type Stream struct {
	Keyboard *bufio.Reader
	Display  *bufio.Writer

	source io.Reader
}

// Satisfied by bytes.Reader, bytes.Buffer and strings.Reader
type lengther interface {
	Len() int
}

// NewStream wraps r and w. Either may be nil: a nil keyboard never has a
// key, a nil display discards output.
func NewStream(r io.Reader, w io.Writer) *Stream {
	var s Stream

	if r != nil {
		s.Keyboard = bufio.NewReader(r)
		s.source = r
	}

	if w != nil {
		s.Display = bufio.NewWriter(w)
	}

	return &s
}

func (s *Stream) KeyAvailable() bool {
	if s.Keyboard == nil {
		return false
	}

	if s.Keyboard.Buffered() > 0 {
		return true
	}

	switch source := s.source.(type) {
	case *os.File:
		ready, err := readable(int(source.Fd()), 0)
		return err == nil && ready
	case lengther:
		return source.Len() > 0
	}

	return false
}

func (s *Stream) ReadChar() (byte, error) {
	if s.Keyboard == nil {
		return 0, io.EOF
	}

	return s.Keyboard.ReadByte()
}

func (s *Stream) WriteChar(c byte) error {
	if s.Display == nil {
		return nil
	}

	if err := s.Display.WriteByte(c); err != nil {
		return err
	}

	return s.Display.Flush()
}
