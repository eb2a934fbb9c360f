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

package machine

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LoadImage copies an LC-3 object image into memory. The first big-endian
// word is the origin; every following word is stored from the origin
// upward. Memory outside the image is left untouched, so images loaded later
// overwrite earlier ones where they overlap. Words that would land past
// 0xFFFF are ignored. Memory is only written once the whole image has been
// read, so a malformed image leaves it unchanged.
func (mc *Machine) LoadImage(reader io.Reader) (uint16, int, error) {
	br := bufio.NewReader(reader)
	scratch := make([]byte, 2)

	if _, err := io.ReadFull(br, scratch); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, 0, fmt.Errorf("%w: missing origin", ErrMalformedImage)
		}

		return 0, 0, err
	}

	origin := binary.BigEndian.Uint16(scratch)
	words := make([]uint16, 0, MEMORY_SIZE-int(origin))

	for len(words) < cap(words) {
		_, err := io.ReadFull(br, scratch)

		if err == io.EOF {
			break
		} else if err == io.ErrUnexpectedEOF {
			return origin, 0, fmt.Errorf(
				"%w: odd trailing byte after %d words", ErrMalformedImage, len(words),
			)
		} else if err != nil {
			return origin, 0, err
		}

		words = append(words, binary.BigEndian.Uint16(scratch))
	}

	copy(mc.Memory.Cells[origin:], words)

	return origin, len(words), nil
}

func (mc *Machine) LoadImageFile(path string) error {
	file, err := os.Open(path)

	if err != nil {
		return &LoadError{Path: path, Err: err}
	}

	defer file.Close()

	origin, count, err := mc.LoadImage(file)

	if err != nil {
		return &LoadError{Path: path, Err: err}
	}

	mc.logger().WithFields(logrus.Fields{
		"image":  path,
		"origin": fmt.Sprintf("%#04x", origin),
		"words":  count,
	}).Debug("Image loaded")

	return nil
}
