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
	"github.com/lassandro/lc3vm/pkg/encoding"
)

// Instruction field accessors. Every LC-3 word shares the same prefix
// layout, so fields are sliced straight out of the word.
//
// ---- [ 15 14 13 12 | 11 10 9 | 8 7 6 | 5 | 4 3 | 2 1 0 ]
//        opcode       DR/SR/nzp  SR1/BaseR  imm  ...   SR2

func Opcode(instruction uint16) uint16 {
	return instruction >> 12
}

func DR(instruction uint16) Register {
	return Register((instruction >> 9) & 0x7)
}

// SR is the source register of ST, STI and STR, in the DR slot.
func SR(instruction uint16) Register {
	return DR(instruction)
}

func SR1(instruction uint16) Register {
	return Register((instruction >> 6) & 0x7)
}

func BaseR(instruction uint16) Register {
	return SR1(instruction)
}

func SR2(instruction uint16) Register {
	return Register(instruction & 0x7)
}

func ImmFlag(instruction uint16) bool {
	return (instruction>>5)&0x1 == 1
}

func JSRMode(instruction uint16) bool {
	return (instruction>>11)&0x1 == 1
}

func NZP(instruction uint16) uint16 {
	return (instruction >> 9) & 0x7
}

func Imm5(instruction uint16) uint16 {
	return encoding.SignExtend(instruction, 5)
}

func Offset6(instruction uint16) uint16 {
	return encoding.SignExtend(instruction, 6)
}

func PCOffset9(instruction uint16) uint16 {
	return encoding.SignExtend(instruction, 9)
}

func PCOffset11(instruction uint16) uint16 {
	return encoding.SignExtend(instruction, 11)
}

func TrapVect8(instruction uint16) uint16 {
	return encoding.ZeroExtend(instruction, 8)
}
