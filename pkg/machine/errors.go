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
	"errors"
	"fmt"
)

var (
	ErrIllegalOpcode  = errors.New("illegal opcode")
	ErrUnknownTrap    = errors.New("unknown trap vector")
	ErrMalformedImage = errors.New("malformed image")
)

// DecodeError is a fatal decode condition: the word at Addr cannot be
// executed by this machine.
type DecodeError struct {
	Addr        uint16
	Instruction uint16
	Err         error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf(
		"%s %#04x at %#04x", e.Err, e.Instruction, e.Addr,
	)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// LoadError reports an image that could not be opened or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load image: %s: %s", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// HostError is a terminal failure that left a trap routine unable to
// complete.
type HostError struct {
	Trap uint16
	Err  error
}

func (e *HostError) Error() string {
	return fmt.Sprintf("trap %#02x: %s", e.Trap, e.Err)
}

func (e *HostError) Unwrap() error {
	return e.Err
}
