package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tetragramaton/smh-rtu/internal/client/modbus"
	"github.com/tetragramaton/smh-rtu/internal/client/serial"
	"github.com/tetragramaton/smh-rtu/internal/device"
	"github.com/tetragramaton/smh-rtu/internal/profile"
	"github.com/tetragramaton/smh-rtu/internal/register"
	"github.com/tetragramaton/smh-rtu/internal/scan"
)

var errUsage = errors.New("usage error")

// serialFlags registers the connection flags on fs, defaulting to def.
func serialFlags(fs *flag.FlagSet, def serial.ConnectionParams) func() serial.ConnectionParams {
	port := fs.String("port", def.Port, "serial device")
	baud := fs.Int("baud", def.BaudRate, "baud rate")
	parity := fs.String("parity", def.Parity, "parity: N, E or O")
	stop := fs.Int("stopbits", def.StopBits, "stop bits: 1 or 2")
	data := fs.Int("databits", def.DataBits, "data bits: 7 or 8")
	timeout := fs.Duration("timeout", def.Timeout, "response timeout")

	return func() serial.ConnectionParams {
		return serial.ConnectionParams{
			Port:     *port,
			BaudRate: *baud,
			Parity:   strings.ToUpper(*parity),
			StopBits: *stop,
			DataBits: *data,
			Timeout:  *timeout,
		}
	}
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	return nil
}

func (h *MainHandler) runPorts(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("ports", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print the list as JSON")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	ports, err := serial.ListPorts()
	if err != nil {
		return err
	}
	h.Logger.Debug().Int("count", len(ports)).Msg("ports enumerated")

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ports)
	}
	if len(ports) == 0 {
		fmt.Fprintln(os.Stdout, "no serial ports found")
		return nil
	}
	for _, p := range ports {
		line := p.Device
		if p.USB {
			line += fmt.Sprintf("  usb %s:%s", p.VID, p.PID)
			if p.SerialNumber != "" {
				line += " sn " + p.SerialNumber
			}
		}
		if p.Description != "" {
			line += "  " + p.Description
		}
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}

func (h *MainHandler) runScan(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	params := serialFlags(fs, h.Env.Serial)
	first := fs.Int("first", scan.MinUnit, "first unit address")
	last := fs.Int("last", scan.MaxUnit, "last unit address")
	addr := fs.Uint("addr", 0, "probe register address")
	count := fs.Uint("count", 1, "probe register count")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *addr > 0xFFFF || *count > 0xFFFF {
		return fmt.Errorf("%w: addr and count must fit 16 bits", errUsage)
	}

	if err := h.connect(params()); err != nil {
		return err
	}

	engine := scan.NewEngine(h.Modbus, h.Logger)
	res, err := engine.Scan(ctx, scan.Options{
		First:        *first,
		Last:         *last,
		ProbeAddress: uint16(*addr),
		ProbeCount:   uint16(*count),
		Progress: func(scanned, total int) {
			if scanned%10 == 0 || scanned == total {
				h.Logger.Info().Int("scanned", scanned).Int("total", total).Msg("scan progress")
			}
		},
	})
	if err != nil {
		return err
	}

	if res.Cancelled {
		fmt.Fprintf(os.Stdout, "scan cancelled after %d of %d addresses\n", res.Scanned, res.Total)
	}
	if len(res.Units) == 0 {
		fmt.Fprintln(os.Stdout, "no units answered")
		return nil
	}
	for _, u := range res.Units {
		fmt.Fprintf(os.Stdout, "unit %d\n", u)
	}
	return nil
}

type profileFlags struct {
	dir      *string
	key      *string
	register *string
}

func newProfileFlags(fs *flag.FlagSet, h *MainHandler) profileFlags {
	return profileFlags{
		dir:      fs.String("profile-dir", h.Env.Monitor.ProfileDir, "directory of YAML device profiles"),
		key:      fs.String("profile", h.Env.Monitor.Profile, "profile key brand:model"),
		register: fs.String("register", "", "profile register name, or \"all\" for read"),
	}
}

func (pf profileFlags) load(h *MainHandler) (profile.Profile, error) {
	profiles := profile.LoadDir(*pf.dir, h.Logger)
	p, ok := profiles[*pf.key]
	if !ok {
		return profile.Profile{}, fmt.Errorf("%w: profile %q not found in %s", errUsage, *pf.key, *pf.dir)
	}
	return p, nil
}

func (pf profileFlags) definition(p profile.Profile) (register.Definition, error) {
	d, ok := p.Register(*pf.register)
	if !ok {
		return register.Definition{}, fmt.Errorf("%w: register %q not in profile %s", errUsage, *pf.register, p.Key())
	}
	return d, nil
}

func (h *MainHandler) runRead(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("read", flag.ContinueOnError)
	params := serialFlags(fs, h.Env.Serial)
	unit := fs.Int("unit", h.Env.Monitor.UnitID, "unit address 1..247")
	fc := fs.Int("fc", 3, "function code: 3 holding, 4 input")
	addr := fs.Uint("addr", 0, "start register address")
	count := fs.Uint("count", 1, "register count")
	pf := newProfileFlags(fs, h)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *unit < 0 || *unit > 0xFF || *addr > 0xFFFF || *count > 0xFFFF {
		return fmt.Errorf("%w: unit, addr or count out of range", errUsage)
	}

	if *pf.register != "" {
		p, err := pf.load(h)
		if err != nil {
			return err
		}
		if err := h.connect(params()); err != nil {
			return err
		}
		if *pf.register == "all" {
			var failed error
			for _, r := range device.ReadAll(h.Modbus, byte(*unit), p) {
				if r.Err != nil {
					fmt.Fprintf(os.Stdout, "%-20s error: %v\n", r.Register.Name, r.Err)
					failed = r.Err
					continue
				}
				fmt.Fprintf(os.Stdout, "%-20s %g %s\n", r.Register.Name, r.Value, r.Register.Unit)
			}
			return failed
		}
		d, err := pf.definition(p)
		if err != nil {
			return err
		}
		v, err := device.Read(h.Modbus, byte(*unit), d)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s = %g %s\n", d.Name, v, d.Unit)
		return nil
	}

	if err := h.connect(params()); err != nil {
		return err
	}
	var (
		words []uint16
		err   error
	)
	switch byte(*fc) {
	case modbus.FuncReadHolding:
		words, err = h.Modbus.ReadHolding(byte(*unit), uint16(*addr), uint16(*count))
	case modbus.FuncReadInput:
		words, err = h.Modbus.ReadInput(byte(*unit), uint16(*addr), uint16(*count))
	default:
		return fmt.Errorf("%w: function code %d must be 3 or 4", errUsage, *fc)
	}
	if err != nil {
		return err
	}
	for i, w := range words {
		fmt.Fprintf(os.Stdout, "0x%04x: 0x%04x (%d)\n", int(*addr)+i, w, w)
	}
	return nil
}

// parseWords parses a comma separated list of 16-bit values; 0x prefixes
// are accepted.
func parseWords(s string) ([]uint16, error) {
	var out []uint16
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseUint(f, 0, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: bad register value %q", errUsage, f)
		}
		out = append(out, uint16(v))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no values given", errUsage)
	}
	return out, nil
}

func (h *MainHandler) runWrite(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("write", flag.ContinueOnError)
	params := serialFlags(fs, h.Env.Serial)
	unit := fs.Int("unit", h.Env.Monitor.UnitID, "unit address 1..247")
	addr := fs.Uint("addr", 0, "start register address")
	value := fs.String("value", "", "engineering value for -register, or comma separated raw words")
	pf := newProfileFlags(fs, h)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *unit < 0 || *unit > 0xFF || *addr > 0xFFFF {
		return fmt.Errorf("%w: unit or addr out of range", errUsage)
	}

	if *pf.register != "" {
		p, err := pf.load(h)
		if err != nil {
			return err
		}
		d, err := pf.definition(p)
		if err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(*value), 64)
		if err != nil {
			return fmt.Errorf("%w: bad value %q", errUsage, *value)
		}
		// gates run before the port is opened
		if err := register.CheckWritable(d); err != nil {
			return err
		}
		if err := register.CheckRange(d, v); err != nil {
			return err
		}
		if err := register.CheckFits(d, v); err != nil {
			return err
		}
		if err := h.connect(params()); err != nil {
			return err
		}
		if err := device.Write(h.Modbus, byte(*unit), d, v); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s <- %g %s\n", d.Name, v, d.Unit)
		return nil
	}

	words, err := parseWords(*value)
	if err != nil {
		return err
	}
	if err := h.connect(params()); err != nil {
		return err
	}
	if len(words) == 1 {
		err = h.Modbus.WriteSingleRegister(byte(*unit), uint16(*addr), words[0])
	} else {
		err = h.Modbus.WriteMultipleRegisters(byte(*unit), uint16(*addr), words)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "wrote %d register(s) at 0x%04x\n", len(words), *addr)
	return nil
}

func (h *MainHandler) runLoopback(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("loopback", flag.ContinueOnError)
	params := serialFlags(fs, h.Env.Serial)
	payload := fs.String("payload", hex.EncodeToString(serial.DefaultLoopbackPayload), "hex bytes to send")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	data, err := hex.DecodeString(*payload)
	if err != nil || len(data) == 0 {
		return fmt.Errorf("%w: bad hex payload %q", errUsage, *payload)
	}

	start := time.Now()
	ok, err := serial.Loopback(params(), data)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("loopback failed: sent %x, echo missing or different (is TX bridged to RX?)", data)
	}
	fmt.Fprintf(os.Stdout, "loopback ok: %x in %s\n", data, time.Since(start).Round(time.Millisecond))
	return nil
}

func (h *MainHandler) runRaw(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("raw", flag.ContinueOnError)
	params := serialFlags(fs, h.Env.Serial)
	frame := fs.String("frame", "", "hex request without CRC: unit, function code, data, e.g. 010300000001")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	req, err := hex.DecodeString(*frame)
	if err != nil || len(req) < 2 {
		return fmt.Errorf("%w: bad hex frame %q", errUsage, *frame)
	}

	// raw frames bypass the client, so the port is opened here directly
	tr, err := serial.Open(params())
	if err != nil {
		return err
	}
	defer tr.Close()

	x, err := tr.Exchange(req)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "tx % x\nrx % x\nfunction 0x%02x data % x\n", x.Request, x.Response, x.Function, x.Data)
	return nil
}

func (h *MainHandler) runMonitor(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("monitor", flag.ContinueOnError)
	params := serialFlags(fs, h.Env.Serial)
	settings := h.Env.Monitor
	fs.StringVar(&settings.DeviceID, "device", settings.DeviceID, "device id used in MQTT topics")
	fs.IntVar(&settings.UnitID, "unit", settings.UnitID, "unit address 1..247")
	fs.IntVar(&settings.IntervalSec, "interval", settings.IntervalSec, "poll interval in seconds")
	fs.StringVar(&settings.ProfileDir, "profile-dir", settings.ProfileDir, "directory of YAML device profiles")
	fs.StringVar(&settings.Profile, "profile", settings.Profile, "profile key brand:model")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if settings.UnitID < int(modbus.MinUnit) || settings.UnitID > int(modbus.MaxUnit) {
		return fmt.Errorf("%w: unit %d must be 1..247", errUsage, settings.UnitID)
	}

	p, ok := profile.LoadDir(settings.ProfileDir, h.Logger)[settings.Profile]
	if !ok {
		return fmt.Errorf("%w: profile %q not found in %s", errUsage, settings.Profile, settings.ProfileDir)
	}

	link := params()
	if err := h.connect(link); err != nil {
		return err
	}

	mon, err := InitMonitor(h)
	if err != nil {
		return err
	}
	return mon.Run(ctx, settings, p, link)
}

// report logs a command failure and maps it to an exit code.
func (h *MainHandler) report(cmd string, err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	ev := h.Logger.Error().Err(err).Str("command", cmd)

	var (
		protoErr *modbus.ProtocolError
		valErr   *register.ValidationError
	)
	switch {
	case errors.Is(err, errUsage):
		ev.Msg("invalid invocation")
		return exitUsage
	case errors.As(err, &protoErr) && protoErr.Code() != 0:
		ev.Uint16("exception", protoErr.Code()).Msg("device returned an exception")
	case errors.As(err, &valErr):
		ev.Str("register", valErr.Register).Msg("write rejected")
	case errors.Is(err, modbus.ErrTimeout):
		ev.Msg("no response from unit")
	default:
		ev.Msg("command failed")
	}
	return exitFail
}
