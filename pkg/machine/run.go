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
	"context"

	"github.com/sirupsen/logrus"
)

// Run steps the machine until it halts, fails, or ctx is cancelled. The
// context is only consulted between instructions.
func (mc *Machine) Run(ctx context.Context) error {
	log := mc.logger()

	log.WithField("pc", mc.Registers[PC]).Debug("Machine started")

	for mc.state == Running {
		select {
		case <-ctx.Done():
			mc.Halt()
			log.WithField("pc", mc.Registers[PC]).Debug("Machine interrupted")
			return ctx.Err()
		default:
		}

		if err := mc.Step(); err != nil {
			mc.Halt()
			log.WithFields(logrus.Fields{
				"pc":    mc.Registers[PC],
				"error": err,
			}).Debug("Machine stopped")
			return err
		}
	}

	log.WithField("pc", mc.Registers[PC]).Debug("Machine halted")

	return nil
}
