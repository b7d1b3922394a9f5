package register

import (
	"errors"
	"fmt"
)

// ValueType is the typed interpretation of one or two register words.
type ValueType string

const (
	U16 ValueType = "u16"
	I16 ValueType = "i16"
	U32 ValueType = "u32"
	I32 ValueType = "i32"
	F32 ValueType = "f32"
)

// Words returns the number of 16-bit registers the type occupies, or 0 for
// an unknown type.
func (t ValueType) Words() int {
	switch t {
	case U16, I16:
		return 1
	case U32, I32, F32:
		return 2
	}
	return 0
}

// Endianness is the word order of 32-bit values. Bytes inside a word are
// always big-endian.
type Endianness string

const (
	BigEndian    Endianness = "be"
	LittleEndian Endianness = "le"
)

type Access string

const (
	ReadOnly  Access = "RO"
	ReadWrite Access = "RW"
)

// Function codes a register can be read with.
const (
	FuncHolding uint8 = 3
	FuncInput   uint8 = 4
)

// ErrDefinition marks a register definition that can never be used,
// independent of what the device answers.
var ErrDefinition = errors.New("register: invalid definition")

// Definition is one typed register of a device profile.
type Definition struct {
	Name        string     `yaml:"name" json:"name"`
	Address     uint16     `yaml:"address" json:"address"`
	Function    uint8      `yaml:"function" json:"function"`
	Type        ValueType  `yaml:"type" json:"type"`
	WordCount   int        `yaml:"words,omitempty" json:"words,omitempty"`
	Endianness  Endianness `yaml:"endianness" json:"endianness"`
	Scale       float64    `yaml:"scale" json:"scale"`
	Unit        string     `yaml:"unit,omitempty" json:"unit,omitempty"`
	Access      Access     `yaml:"access" json:"access"`
	Minimum     *float64   `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	Maximum     *float64   `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	Critical    bool       `yaml:"critical,omitempty" json:"critical,omitempty"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
}

// Normalize fills defaults for fields a profile may omit.
// It MUST be called before Validate when the definition comes from a file.
func (d *Definition) Normalize() {
	if d.Function == 0 {
		d.Function = FuncHolding
	}
	if d.Endianness == "" {
		d.Endianness = BigEndian
	}
	if d.Access == "" {
		d.Access = ReadOnly
	}
	if d.Scale == 0 {
		d.Scale = 1.0
	}
	if d.WordCount == 0 {
		d.WordCount = d.Type.Words()
	}
}

// Words is the register count implied by the type.
func (d Definition) Words() uint16 {
	return uint16(d.Type.Words())
}

// Validate checks the definition in isolation. It does not mutate.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name required", ErrDefinition)
	}

	want := d.Type.Words()
	if want == 0 {
		return fmt.Errorf("%w: register %q: unknown type %q", ErrDefinition, d.Name, d.Type)
	}
	if d.WordCount != want {
		return fmt.Errorf("%w: register %q: words must match type %s -> %d, got %d",
			ErrDefinition, d.Name, d.Type, want, d.WordCount)
	}
	if int(d.Address)+want-1 > 0xFFFF {
		return fmt.Errorf("%w: register %q: address %d + %d words exceeds 65535",
			ErrDefinition, d.Name, d.Address, want)
	}

	switch d.Function {
	case FuncHolding, FuncInput:
	default:
		return fmt.Errorf("%w: register %q: function %d must be 3 or 4", ErrDefinition, d.Name, d.Function)
	}

	switch d.Endianness {
	case BigEndian, LittleEndian:
	default:
		return fmt.Errorf("%w: register %q: endianness %q must be be or le", ErrDefinition, d.Name, d.Endianness)
	}

	switch d.Access {
	case ReadOnly, ReadWrite:
	default:
		return fmt.Errorf("%w: register %q: access %q must be RO or RW", ErrDefinition, d.Name, d.Access)
	}

	if d.Scale == 0 {
		return fmt.Errorf("%w: register %q: scale must be non-zero", ErrDefinition, d.Name)
	}

	if d.Minimum != nil && d.Maximum != nil && *d.Minimum >= *d.Maximum {
		return fmt.Errorf("%w: register %q: minimum must be < maximum", ErrDefinition, d.Name)
	}

	return nil
}
