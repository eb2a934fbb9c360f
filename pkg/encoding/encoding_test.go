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

package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/lc3vm/pkg/encoding"
)

var operandWidths = []uint16{5, 6, 9, 11}

func TestSignExtendProperties(t *testing.T) {
	for _, width := range operandWidths {
		mask := uint16(1<<width) - 1

		for v := 0; v < 1<<16; v++ {
			value := uint16(v)
			field := value & mask
			have := encoding.SignExtend(value, width)

			if (field>>(width-1))&0x1 == 0 {
				if have != field {
					t.Fatalf("width %d: %#04x extended to %#04x, want %#04x",
						width, value, have, field)
				}
			} else if have != field|^mask {
				t.Fatalf("width %d: %#04x extended to %#04x, want %#04x",
					width, value, have, field|^mask)
			}

			if again := encoding.SignExtend(have, width); again != have {
				t.Fatalf("width %d: extension of %#04x not idempotent: %#04x",
					width, have, again)
			}
		}
	}
}

func TestSignExtend(t *testing.T) {
	assert.Equal(t, uint16(0xFFFF), encoding.SignExtend(0x1F, 5))
	assert.Equal(t, uint16(0x000F), encoding.SignExtend(0x0F, 5))
	assert.Equal(t, uint16(0xFFE0), encoding.SignExtend(0x20, 6))
	assert.Equal(t, uint16(0xFF00), encoding.SignExtend(0x100, 9))
	assert.Equal(t, uint16(0x03FF), encoding.SignExtend(0x3FF, 11))
	assert.Equal(t, uint16(0xFC00), encoding.SignExtend(0x400, 11))
}

func TestZeroExtend(t *testing.T) {
	assert.Equal(t, uint16(0x0025), encoding.ZeroExtend(0xF025, 8))
	assert.Equal(t, uint16(0x0000), encoding.ZeroExtend(0xFF00, 8))
	assert.Equal(t, uint16(0xBEEF), encoding.ZeroExtend(0xBEEF, 16))
}

func TestDecodeHex(t *testing.T) {
	for input, want := range map[string]uint16{
		"0x3000": 0x3000,
		"x3000":  0x3000,
		"0XFE00": 0xFE00,
		"xff":    0x00FF,
	} {
		have, err := encoding.DecodeHex(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, have, input)
	}

	for _, input := range []string{"3000", "", "1x30", "0x10000", "0xZZ"} {
		_, err := encoding.DecodeHex(input)
		assert.Error(t, err, input)
	}
}
