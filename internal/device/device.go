// Package device reads and writes typed profile registers through a
// unit-addressed client.
package device

import (
	"fmt"

	modbusIface "github.com/tetragramaton/smh-rtu/internal/interface/modbus"
	"github.com/tetragramaton/smh-rtu/internal/profile"
	"github.com/tetragramaton/smh-rtu/internal/register"
)

// Reading is the outcome of reading one register. Value is meaningful only
// when Err is nil.
type Reading struct {
	Register register.Definition
	Value    float64
	Err      error
}

// Read fetches the words of d with its function code and decodes them.
func Read(c modbusIface.Client, unit byte, d register.Definition) (float64, error) {
	var (
		words []uint16
		err   error
	)
	switch d.Function {
	case register.FuncHolding:
		words, err = c.ReadHolding(unit, d.Address, d.Words())
	case register.FuncInput:
		words, err = c.ReadInput(unit, d.Address, d.Words())
	default:
		return 0, fmt.Errorf("%w: register %q: function %d is not readable", register.ErrDefinition, d.Name, d.Function)
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", d.Name, err)
	}
	return register.Decode(d, words)
}

// Write checks the write gate, the declared range and the type range,
// encodes value and writes it with FC06. Nothing is sent unless every check passes.
func Write(c modbusIface.Client, unit byte, d register.Definition, value float64) error {
	if err := register.CheckWritable(d); err != nil {
		return err
	}
	if err := register.CheckRange(d, value); err != nil {
		return err
	}
	if err := register.CheckFits(d, value); err != nil {
		return err
	}
	raw, err := register.Encode(value, d)
	if err != nil {
		return err
	}
	if err := c.WriteSingleRegister(unit, d.Address, raw); err != nil {
		return fmt.Errorf("write %s: %w", d.Name, err)
	}
	return nil
}

// ReadAll reads every register of p in profile order. Failures are reported
// per register and never stop the sweep.
func ReadAll(c modbusIface.Client, unit byte, p profile.Profile) []Reading {
	out := make([]Reading, 0, len(p.Registers))
	for _, d := range p.Registers {
		v, err := Read(c, unit, d)
		if err != nil {
			v = 0
		}
		out = append(out, Reading{Register: d, Value: v, Err: err})
	}
	return out
}
