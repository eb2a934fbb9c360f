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
	"io"

	"github.com/sirupsen/logrus"
)

func (mc *Machine) trap(vector uint16) error {
	reg := &mc.Registers

	switch vector {
	case TRAP_GETC:
		c, err := mc.getc(vector)

		if err != nil {
			return err
		}

		reg[R0] = uint16(c)
		mc.setFlags(R0)

	case TRAP_OUT:
		mc.putc(vector, byte(reg[R0]))

	// One character per word, terminated by a zero word
	case TRAP_PUTS:
		for addr := reg[R0]; ; addr++ {
			c := mc.read(addr)

			if c == 0 {
				break
			}

			mc.putc(vector, byte(c))
		}

	case TRAP_IN:
		mc.puts(vector, IN_PROMPT)

		c, err := mc.getc(vector)

		if err != nil {
			return err
		}

		mc.putc(vector, c)

		reg[R0] = uint16(c)
		mc.setFlags(R0)

	// Two characters per word, low byte first, terminated by a zero byte
	case TRAP_PUTSP:
		for addr := reg[R0]; ; addr++ {
			c := mc.read(addr)

			if c&0xFF == 0 {
				break
			}

			mc.putc(vector, byte(c))

			if c>>8 == 0 {
				break
			}

			mc.putc(vector, byte(c>>8))
		}

	case TRAP_HALT:
		mc.puts(vector, HALT_NOTICE)
		mc.Halt()

	default:
		return ErrUnknownTrap
	}

	return nil
}

func (mc *Machine) getc(vector uint16) (byte, error) {
	if mc.Terminal == nil {
		return 0, &HostError{Trap: vector, Err: io.EOF}
	}

	c, err := mc.Terminal.ReadChar()

	if err != nil {
		return 0, &HostError{Trap: vector, Err: err}
	}

	return c, nil
}

// putc never fails the running program; a broken terminal is only logged.
func (mc *Machine) putc(vector uint16, c byte) {
	if mc.Terminal == nil {
		return
	}

	if err := mc.Terminal.WriteChar(c); err != nil {
		mc.logger().WithFields(logrus.Fields{
			"trap":  vector,
			"error": err,
		}).Warn("Terminal write failed")
	}
}

func (mc *Machine) puts(vector uint16, s string) {
	for i := 0; i < len(s); i++ {
		mc.putc(vector, s[i])
	}
}
