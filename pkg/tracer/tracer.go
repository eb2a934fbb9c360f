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

// Package tracer logs what a running machine does.
package tracer

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/lassandro/lc3vm/pkg/machine"
)

type WatchpointType uint

const (
	ReadWriteWatch WatchpointType = iota
	ReadWatch
	WriteWatch
)

type Watchpoint struct {
	Addr uint16
	Type WatchpointType
}

// Tracer is a machine.Observer. With Instructions set every fetched word is
// logged at trace level; watched addresses are logged at info level.
type Tracer struct {
	Log          logrus.FieldLogger
	Instructions bool
	Watchpoints  []Watchpoint
}

var _ machine.Observer = (*Tracer)(nil)

func (tr *Tracer) Step(addr uint16, instruction uint16, mc *machine.Machine) {
	if !tr.Instructions {
		return
	}

	tr.Log.WithFields(logrus.Fields{
		"pc":   fmt.Sprintf("%#04x", addr),
		"word": fmt.Sprintf("%#04x", instruction),
		"op":   machine.OpcodeName(instruction),
		"cc":   mc.Registers.Condition(),
	}).Trace("Step")
}

func (tr *Tracer) Read(addr uint16, mc *machine.Machine) {
	for _, watchpoint := range tr.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if addr == watchpoint.Addr {
			tr.Log.WithFields(logrus.Fields{
				"addr":  fmt.Sprintf("%#04x", addr),
				"value": fmt.Sprintf("%#04x", mc.Memory.Cells[addr]),
			}).Info("Read")
			break
		}
	}
}

func (tr *Tracer) Write(addr uint16, mc *machine.Machine) {
	for _, watchpoint := range tr.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if addr == watchpoint.Addr {
			tr.Log.WithFields(logrus.Fields{
				"addr":  fmt.Sprintf("%#04x", addr),
				"value": fmt.Sprintf("%#04x", mc.Memory.Cells[addr]),
			}).Info("Write")
			break
		}
	}
}

// PrintMem writes count cells starting at addr, four to a line. Cells are
// read directly so device registers are not polled.
func PrintMem(w io.Writer, mem *machine.Memory, addr, count uint16) {
	for i := uint16(0); i < count; i++ {
		cell := addr + i

		if i == 0 {
			fmt.Fprintf(w, "[%#04x] ", cell)
		} else if i%4 == 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "[%#04x] ", cell)
		}

		fmt.Fprintf(w, "%#04x ", mem.Cells[cell])
	}

	fmt.Fprintln(w)
}
