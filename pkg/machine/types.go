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

// Register indexes the register file.
type Register uint8

const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	PC
	COND
	RegisterCount
)

// Registers holds the eight general purpose registers followed by the
// program counter and the condition register.
type Registers [RegisterCount]uint16

// Keyboard is the input half of the host terminal. KeyAvailable must never
// block; ReadChar blocks until a character arrives.
type Keyboard interface {
	KeyAvailable() bool
	ReadChar() (byte, error)
}

// Terminal is the host terminal the trap routines talk to.
type Terminal interface {
	Keyboard
	WriteChar(c byte) error
}

type Memory struct {
	Cells    [MEMORY_SIZE]uint16
	Keyboard Keyboard
}

// Observer is notified of every fetched instruction and of every memory
// access an instruction performs.
type Observer interface {
	Step(addr uint16, instruction uint16, mc *Machine)
	Read(addr uint16, mc *Machine)
	Write(addr uint16, mc *Machine)
}

type State uint8

const (
	Running State = iota
	Halted
)

func (s State) String() string {
	if s == Running {
		return "running"
	}

	return "halted"
}

type Machine struct {
	Registers Registers
	Memory    Memory
	Terminal  Terminal
	Observer  Observer
	Log       logrus.FieldLogger

	state State
}
