package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: rtu-probe <command> [flags]

commands:
  ports     list serial devices present on this host
  scan      probe unit addresses and list the ones that answer
  read      read raw registers or decode profile registers
  write     write raw registers or encode a profile register
  raw       send one hex request (CRC added) and print the response
  loopback  check a serial adapter with TX and RX bridged
  monitor   poll a profile and publish readings over MQTT

Connection defaults come from MODBUS_PORT, MODBUS_BAUD, MODBUS_PARITY,
MODBUS_STOPBITS, MODBUS_DATABITS and MODBUS_TIMEOUT_MS.
Run "rtu-probe <command> -h" for command flags.
`

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(exitUsage)
	}

	handler, err := InitMainHandler()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFail)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := handler.Handle(ctx, os.Args[1], os.Args[2:])
	stop()
	os.Exit(code)
}

func (h *MainHandler) Handle(ctx context.Context, cmd string, args []string) int {
	defer h.Modbus.Close()

	var run func(context.Context, []string) error
	switch cmd {
	case "ports":
		run = h.runPorts
	case "scan":
		run = h.runScan
	case "read":
		run = h.runRead
	case "write":
		run = h.runWrite
	case "raw":
		run = h.runRaw
	case "loopback":
		run = h.runLoopback
	case "monitor":
		run = h.runMonitor
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		return exitUsage
	}

	if err := run(ctx, args); err != nil {
		return h.report(cmd, err)
	}
	return exitOK
}
