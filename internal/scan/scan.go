// Package scan discovers which unit addresses answer on an RTU bus.
package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	MinUnit = 1
	MaxUnit = 247

	MaxProbeCount = 125
)

var ErrInvalidOptions = errors.New("scan: invalid options")

// Prober is the part of the Modbus client the scan needs. A nil error means
// the unit answered.
type Prober interface {
	ReadHolding(unit byte, address, count uint16) ([]uint16, error)
}

// Options drives one scan. Progress and Cancelled are optional.
type Options struct {
	First        int
	Last         int
	ProbeAddress uint16
	ProbeCount   uint16

	// Progress is called after every probe with the number of addresses
	// probed so far and the size of the range.
	Progress func(scanned, total int)
	// Cancelled is polled between probes. Returning true stops the scan.
	Cancelled func() bool
}

// Result lists responding units in ascending order.
type Result struct {
	Units     []byte
	Scanned   int
	Total     int
	Cancelled bool
	Elapsed   time.Duration
}

// Found reports whether unit answered.
func (r Result) Found(unit byte) bool {
	for _, u := range r.Units {
		if u == unit {
			return true
		}
	}
	return false
}

// Ints returns the responding units as ints, for printing.
func (r Result) Ints() []int {
	out := make([]int, len(r.Units))
	for i, u := range r.Units {
		out[i] = int(u)
	}
	return out
}

func (o Options) validate() error {
	if o.First < MinUnit || o.Last > MaxUnit {
		return fmt.Errorf("%w: range %d..%d must lie within %d..%d", ErrInvalidOptions, o.First, o.Last, MinUnit, MaxUnit)
	}
	if o.First > o.Last {
		return fmt.Errorf("%w: first %d > last %d", ErrInvalidOptions, o.First, o.Last)
	}
	if o.ProbeCount < 1 || o.ProbeCount > MaxProbeCount {
		return fmt.Errorf("%w: probe count %d must be 1..%d", ErrInvalidOptions, o.ProbeCount, MaxProbeCount)
	}
	return nil
}

// Engine probes units one at a time. RS-485 is half-duplex, so there is never
// more than one request in flight.
type Engine struct {
	prober Prober
	logger zerolog.Logger
}

func NewEngine(prober Prober, logger zerolog.Logger) *Engine {
	return &Engine{
		prober: prober,
		logger: logger.With().Str("component", "scan").Logger(),
	}
}

// Scan probes opts.First..opts.Last with FC03. Cancellation through ctx or
// opts.Cancelled returns the partial result with a nil error.
func (e *Engine) Scan(ctx context.Context, opts Options) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	res := Result{Total: opts.Last - opts.First + 1}

	e.logger.Info().
		Int("first", opts.First).
		Int("last", opts.Last).
		Uint16("probe_addr", opts.ProbeAddress).
		Uint16("probe_count", opts.ProbeCount).
		Msg("scan started")

	for unit := opts.First; unit <= opts.Last; unit++ {
		if cancelled(ctx, opts) {
			res.Cancelled = true
			break
		}

		if _, err := e.prober.ReadHolding(byte(unit), opts.ProbeAddress, opts.ProbeCount); err == nil {
			res.Units = append(res.Units, byte(unit))
			e.logger.Debug().Int("unit", unit).Msg("unit answered")
		}
		res.Scanned++

		if opts.Progress != nil {
			opts.Progress(res.Scanned, res.Total)
		}
	}

	res.Elapsed = time.Since(start)
	ev := e.logger.Info()
	if res.Cancelled {
		ev = ev.Bool("cancelled", true)
	}
	ev.Int("scanned", res.Scanned).Ints("found", res.Ints()).Dur("elapsed", res.Elapsed).Msg("scan complete")

	return res, nil
}

func cancelled(ctx context.Context, opts Options) bool {
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return opts.Cancelled != nil && opts.Cancelled()
}
