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

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/lassandro/lc3vm/pkg/machine"
	"github.com/lassandro/lc3vm/pkg/terminal"
	"github.com/lassandro/lc3vm/pkg/tracer"
)

// hostTerminal is a machine terminal whose host state is held for the whole
// run and released by Close.
type hostTerminal interface {
	machine.Terminal
	EnableRawMode() error
	Close() error
}

type interactiveTerminal struct {
	*terminal.Host
}

func (t interactiveTerminal) Close() error {
	if err := t.Restore(); err != nil {
		t.Log.WithError(err).Error("Could not restore terminal")
		return err
	}

	return nil
}

type scriptedTerminal struct {
	*terminal.Stream
	file *os.File
}

func (t scriptedTerminal) EnableRawMode() error {
	return nil
}

func (t scriptedTerminal) Close() error {
	return t.file.Close()
}

// openTerminal returns the process terminal, or a scripted keyboard when an
// input file is given. Display output always goes to stdout.
func openTerminal(
	ctx context.Context, input string, log logrus.FieldLogger,
) (hostTerminal, error) {
	if input == "" {
		host := terminal.NewHost(ctx, os.Stdin, os.Stdout)
		host.Log = log
		return interactiveTerminal{host}, nil
	}

	file, err := os.Open(input)

	if err != nil {
		return nil, err
	}

	return scriptedTerminal{terminal.NewStream(file, os.Stdout), file}, nil
}

type registerDump struct {
	State     string
	PC        string
	Condition string
	Registers [8]string
}

// dump prints the machine registers and the memory around PC.
func dump(w io.Writer, mc *machine.Machine) {
	regs := registerDump{
		State:     mc.State().String(),
		PC:        fmt.Sprintf("%#04x", mc.Registers[machine.PC]),
		Condition: mc.Registers.Condition(),
	}

	for i := range regs.Registers {
		regs.Registers[i] = fmt.Sprintf("%#04x", mc.Registers[i])
	}

	printer := pp.New()
	printer.SetOutput(w)

	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		printer.SetColoringEnabled(false)
	}

	printer.Println(regs)

	start := (mc.Registers[machine.PC] - 1) &^ 0x7
	tracer.PrintMem(w, &mc.Memory, start, 16)
}
