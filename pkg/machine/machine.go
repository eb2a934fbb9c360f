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
	"github.com/sirupsen/logrus"
)

// New returns a reset machine wired to the given terminal. A nil terminal
// leaves the keyboard permanently idle and discards trap output.
func New(terminal Terminal) *Machine {
	mc := &Machine{Terminal: terminal}

	if terminal != nil {
		mc.Memory.Keyboard = terminal
	}

	mc.Reset()

	return mc
}

// Reset zeroes registers and memory and points the machine at the start of
// user space.
func (mc *Machine) Reset() {
	for i := range mc.Registers {
		mc.Registers[i] = 0x0000
	}

	mc.Memory.Reset()

	mc.Registers[PC] = MEMSPACE_USER
	mc.Registers[COND] = FLAG_ZERO
	mc.state = Running
}

func (mc *Machine) State() State {
	return mc.state
}

func (mc *Machine) Halt() {
	mc.state = Halted
}

func (mc *Machine) logger() logrus.FieldLogger {
	if mc.Log == nil {
		return logrus.StandardLogger()
	}

	return mc.Log
}

func (mc *Machine) read(addr uint16) uint16 {
	value := mc.Memory.Read(addr)

	if mc.Observer != nil {
		mc.Observer.Read(addr, mc)
	}

	return value
}

func (mc *Machine) write(addr uint16, value uint16) {
	mc.Memory.Write(addr, value)

	if mc.Observer != nil {
		mc.Observer.Write(addr, mc)
	}
}

func (mc *Machine) setFlags(dest Register) {
	value := mc.Registers[dest]

	if value == 0 {
		mc.Registers[COND] = FLAG_ZERO
	} else if value>>15 == 1 {
		mc.Registers[COND] = FLAG_NEG
	} else {
		mc.Registers[COND] = FLAG_POS
	}
}

// Step fetches the word at PC, advances PC and executes the word.
func (mc *Machine) Step() error {
	addr := mc.Registers[PC]
	instruction := mc.read(addr)

	mc.Registers[PC]++

	if mc.Observer != nil {
		mc.Observer.Step(addr, instruction, mc)
	}

	return mc.Execute(instruction)
}

// Execute performs one instruction against the current state. PC must
// already point past the instruction. A fatal decode condition halts the
// machine.
func (mc *Machine) Execute(instruction uint16) error {
	reg := &mc.Registers

	switch Opcode(instruction) {
	// ADD  |0001    |DR   |SR1  |0|00 |SR2   | Register  addition
	// ADD  |0001    |DR   |SR1  |1|imm5      | Immediate addition
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_ADD:
		dest := DR(instruction)

		if ImmFlag(instruction) {
			reg[dest] = reg[SR1(instruction)] + Imm5(instruction)
		} else {
			reg[dest] = reg[SR1(instruction)] + reg[SR2(instruction)]
		}

		mc.setFlags(dest)

	// AND  |0101    |DR   |SR1  |0|00 |SR2   | Register  bitwise
	// AND  |0101    |DR   |SR1  |1|imm5      | Immediate bitwise
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_AND:
		dest := DR(instruction)

		if ImmFlag(instruction) {
			reg[dest] = reg[SR1(instruction)] & Imm5(instruction)
		} else {
			reg[dest] = reg[SR1(instruction)] & reg[SR2(instruction)]
		}

		mc.setFlags(dest)

	// BR   |0000    |N|Z|P|PCoffset9         | Conditional branch
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_BR:
		if NZP(instruction)&reg[COND] != 0 {
			reg[PC] += PCOffset9(instruction)
		}

	// JMP  |1100    |000  |BaseR|000000      | Jump
	// RET  |1100    |000  |111  |000000      | Return
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_JMP:
		reg[PC] = reg[BaseR(instruction)]

	// JSR  |0100    |1|PCoffset11            | Jump to subroutine
	// JSRR |0100    |0|00 |BaseR|000000      | Jump to subroutine register
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_JSR:
		target := reg[BaseR(instruction)]

		if JSRMode(instruction) {
			target = reg[PC] + PCOffset11(instruction)
		}

		reg[R7] = reg[PC]
		reg[PC] = target

	// LD   |0010    |DR   |PCoffset9         | Load
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LD:
		dest := DR(instruction)

		reg[dest] = mc.read(reg[PC] + PCOffset9(instruction))

		mc.setFlags(dest)

	// LDI  |1010    |DR   |PCoffset9         | Load indirect
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LDI:
		dest := DR(instruction)

		reg[dest] = mc.read(mc.read(reg[PC] + PCOffset9(instruction)))

		mc.setFlags(dest)

	// LDR  |0110    |DR   |BaseR|offset6     | Load base+offset
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LDR:
		dest := DR(instruction)

		reg[dest] = mc.read(reg[BaseR(instruction)] + Offset6(instruction))

		mc.setFlags(dest)

	// LEA  |1110    |DR   |PCoffset9         | Load effective address
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LEA:
		dest := DR(instruction)

		reg[dest] = reg[PC] + PCOffset9(instruction)

		mc.setFlags(dest)

	// NOT  |1001    |DR   |SR   |1|11111     | Bitwise complement
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_NOT:
		dest := DR(instruction)

		reg[dest] = ^reg[SR1(instruction)]

		mc.setFlags(dest)

	// ST   |0011    |SR   |PCoffset9         | Store
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_ST:
		mc.write(reg[PC]+PCOffset9(instruction), reg[SR(instruction)])

	// STI  |1011    |SR   |PCoffset9         | Store indirect
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_STI:
		addr := mc.read(reg[PC] + PCOffset9(instruction))

		mc.write(addr, reg[SR(instruction)])

	// STR  |0111    |SR   |BaseR|offset6     | Store base+offset
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_STR:
		addr := reg[BaseR(instruction)] + Offset6(instruction)

		mc.write(addr, reg[SR(instruction)])

	// TRAP |1111    |0000   |trapvect8       | System call
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_TRAP:
		reg[R7] = reg[PC]

		if err := mc.trap(TrapVect8(instruction)); err != nil {
			return mc.fail(instruction, err)
		}

	// RTI  |1000    |000000000000            | Return from interrupt
	// RES  |1101    |                        | Reserved (illegal)
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	default:
		return mc.fail(instruction, ErrIllegalOpcode)
	}

	return nil
}

// fail halts the machine. Decode conditions are tagged with the address of
// the offending instruction.
func (mc *Machine) fail(instruction uint16, err error) error {
	mc.Halt()

	if err == ErrIllegalOpcode || err == ErrUnknownTrap {
		return &DecodeError{
			Addr:        mc.Registers[PC] - 1,
			Instruction: instruction,
			Err:         err,
		}
	}

	return err
}
