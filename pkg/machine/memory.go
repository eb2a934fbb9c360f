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

func (r *Registers) Read(index Register) uint16 {
	return r[index]
}

func (r *Registers) Write(index Register, value uint16) {
	r[index] = value
}

// Condition names the flag currently held in COND.
func (r *Registers) Condition() string {
	switch r[COND] & 0x7 {
	case FLAG_NEG:
		return "n"
	case FLAG_ZERO:
		return "z"
	case FLAG_POS:
		return "p"
	}

	return "-"
}

func (mem *Memory) Reset() {
	for i := range mem.Cells {
		mem.Cells[i] = 0x0000
	}
}

// Read returns the cell at addr. Reading KBSR polls the keyboard first: a
// pending key is latched into KBDR and the ready bit is set, otherwise the
// status reads as zero.
func (mem *Memory) Read(addr uint16) uint16 {
	if addr == DEV_KBSR {
		mem.Cells[DEV_KBSR] = 0

		if mem.Keyboard != nil && mem.Keyboard.KeyAvailable() {
			if key, err := mem.Keyboard.ReadChar(); err == nil {
				mem.Cells[DEV_KBSR] = KBSR_READY
				mem.Cells[DEV_KBDR] = uint16(key)
			}
		}
	}

	return mem.Cells[addr]
}

func (mem *Memory) Write(addr uint16, value uint16) {
	mem.Cells[addr] = value
}
