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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/lc3vm/pkg/machine"
	"github.com/lassandro/lc3vm/pkg/tracer"
)

func writeImage(t *testing.T, name string, origin uint16, words ...uint16) string {
	buf := []byte{byte(origin >> 8), byte(origin)}

	for _, word := range words {
		buf = append(buf, byte(word>>8), byte(word))
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	return path
}

func emptyInput(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "keys")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	return path
}

func TestExitStatus(t *testing.T) {
	halt := writeImage(t, "halt.obj", 0x3000, 0xF025)
	illegal := writeImage(t, "illegal.obj", 0x3000, 0xD000)
	getc := writeImage(t, "getc.obj", 0x3000, 0xF020, 0xF025)
	input := emptyInput(t)

	for _, test := range []struct {
		Name string
		Args []string
		Want int
	}{
		{"No Images", []string{}, exitUsage},
		{"Halt", []string{"--input", input, halt}, exitHalt},
		{"Missing Image", []string{"--input", input, halt, "missing.obj"}, exitLoad},
		{"Illegal Opcode", []string{"--input", input, "--dump", illegal}, exitDecode},
		{"Input Exhausted", []string{"--input", input, getc}, exitHost},
		{"Missing Input", []string{"--input", "missing-keys", halt}, exitUsage},
		{"Bad Watch", []string{"--watch", "3000", halt}, exitUsage},
		{"Bad Log Level", []string{"--log-level", "loud", halt}, exitUsage},
		{"Bad Profile", []string{"--profile", "disk", halt}, exitUsage},
	} {
		t.Run(test.Name, func(t *testing.T) {
			assert.Equal(t, test.Want, lc3vm(test.Args))
		})
	}
}

func TestWatchpoints(t *testing.T) {
	watch, err := watchpoints([]string{"0x3000", "r:xFE00", "w:0x4000", "rw:0x5000"})
	require.NoError(t, err)

	assert.Equal(t, []tracer.Watchpoint{
		{Addr: 0x3000, Type: tracer.ReadWriteWatch},
		{Addr: 0xFE00, Type: tracer.ReadWatch},
		{Addr: 0x4000, Type: tracer.WriteWatch},
		{Addr: 0x5000, Type: tracer.ReadWriteWatch},
	}, watch)

	for _, bad := range []string{"x:0x3000", "r:3000", "r:"} {
		_, err := watchpoints([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestDump(t *testing.T) {
	var out bytes.Buffer

	mc := machine.New(nil)
	mc.Memory.Cells[0x3000] = 0xD000
	mc.Registers[machine.R3] = 0xBEEF

	require.Error(t, mc.Step())

	dump(&out, mc)

	assert.Contains(t, out.String(), "0xbeef")
	assert.Contains(t, out.String(), "halted")
	assert.Contains(t, out.String(), "[0x3000] 0xd000")
}
