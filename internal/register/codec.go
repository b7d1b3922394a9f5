package register

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDecode is returned when raw words cannot be interpreted.
	ErrDecode = errors.New("register: decode failed")
	// ErrEncode is returned when a value has no 16-bit representation.
	ErrEncode = errors.New("register: encode failed")
	// ErrValidation is the target of every *ValidationError.
	ErrValidation = errors.New("register: validation failed")
)

// ValidationError rejects a write before any I/O is attempted.
type ValidationError struct {
	Register string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("register %q: %s", e.Register, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Decode interprets raw register words according to d and applies the scale.
// It never panics; malformed input yields an ErrDecode.
func Decode(d Definition, words []uint16) (float64, error) {
	want := d.Type.Words()
	if want == 0 {
		return 0, fmt.Errorf("%w: register %q: unknown type %q", ErrDecode, d.Name, d.Type)
	}
	if d.WordCount != 0 && d.WordCount != want {
		return 0, fmt.Errorf("%w: register %q: declares %d words, %s needs %d", ErrDecode, d.Name, d.WordCount, d.Type, want)
	}
	if len(words) != want {
		return 0, fmt.Errorf("%w: register %q: got %d words, want %d", ErrDecode, d.Name, len(words), want)
	}

	var raw float64
	switch d.Type {
	case U16:
		raw = float64(words[0])
	case I16:
		raw = float64(int16(words[0]))
	case U32:
		raw = float64(combine(d.Endianness, words))
	case I32:
		raw = float64(int32(combine(d.Endianness, words)))
	case F32:
		raw = float64(math.Float32frombits(combine(d.Endianness, words)))
	default:
		return 0, fmt.Errorf("%w: register %q: unknown type %q", ErrDecode, d.Name, d.Type)
	}

	return raw * scaleOf(d), nil
}

// combine joins two words into a 32-bit pattern. Little endianness swaps the
// words, never the bytes inside them.
func combine(e Endianness, words []uint16) uint32 {
	hi, lo := words[0], words[1]
	if e == LittleEndian {
		hi, lo = lo, hi
	}
	return uint32(hi)<<16 | uint32(lo)
}

// Encode converts an engineering value into the raw word for a u16 or i16
// register: round(value / scale) as two's complement, masked to 16 bits.
// Values outside the type wrap silently; gate writes with CheckFits first.
func Encode(value float64, d Definition) (uint16, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: register %q: value %v is not finite", ErrEncode, d.Name, value)
	}

	scaled := math.RoundToEven(value / scaleOf(d))

	switch d.Type {
	case U16, I16:
		if scaled < math.MinInt64 || scaled >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: register %q: %v is beyond 64-bit range", ErrEncode, d.Name, scaled)
		}
		return uint16(int64(scaled) & 0xFFFF), nil
	case U32, I32, F32:
		return 0, fmt.Errorf("%w: register %q: 32-bit writes are not supported", ErrEncode, d.Name)
	default:
		return 0, fmt.Errorf("%w: register %q: unknown type %q", ErrEncode, d.Name, d.Type)
	}
}

// CheckFits rejects values whose scaled raw form falls outside the register
// type, so Encode would wrap them.
func CheckFits(d Definition, value float64) error {
	scaled := math.RoundToEven(value / scaleOf(d))
	switch d.Type {
	case U16:
		if scaled < 0 || scaled > math.MaxUint16 {
			return &ValidationError{Register: d.Name, Reason: fmt.Sprintf("value %v scales to %v, outside u16", value, scaled)}
		}
	case I16:
		if scaled < math.MinInt16 || scaled > math.MaxInt16 {
			return &ValidationError{Register: d.Name, Reason: fmt.Sprintf("value %v scales to %v, outside i16", value, scaled)}
		}
	}
	return nil
}

// CheckWritable applies the write gate: read-write access, holding register,
// 16-bit type. Each refusal carries its own reason.
func CheckWritable(d Definition) error {
	if d.Access != ReadWrite {
		return &ValidationError{Register: d.Name, Reason: "register is read-only"}
	}
	if d.Function != FuncHolding {
		return &ValidationError{Register: d.Name, Reason: fmt.Sprintf("function %d registers are not writable", d.Function)}
	}
	if d.Type != U16 && d.Type != I16 {
		return &ValidationError{Register: d.Name, Reason: fmt.Sprintf("type %s is not writable, only u16 and i16", d.Type)}
	}
	return nil
}

// CheckRange rejects values outside the declared [minimum, maximum].
func CheckRange(d Definition, value float64) error {
	if d.Minimum != nil && value < *d.Minimum {
		return &ValidationError{Register: d.Name, Reason: fmt.Sprintf("value %v below minimum %v", value, *d.Minimum)}
	}
	if d.Maximum != nil && value > *d.Maximum {
		return &ValidationError{Register: d.Name, Reason: fmt.Sprintf("value %v above maximum %v", value, *d.Maximum)}
	}
	return nil
}

func scaleOf(d Definition) float64 {
	if d.Scale == 0 {
		return 1.0
	}
	return d.Scale
}
