package serial

import (
	"fmt"
	"sort"

	bugst "go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// PortInfo describes one serial device present on the host.
type PortInfo struct {
	Device       string `json:"device"`
	Description  string `json:"description,omitempty"`
	USB          bool   `json:"usb"`
	VID          string `json:"vid,omitempty"`
	PID          string `json:"pid,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
}

var (
	detailedPorts = enumerator.GetDetailedPortsList
	portNames     = bugst.GetPortsList
)

// ListPorts enumerates serial devices sorted by device path. USB details
// are filled when the platform enumerator provides them; otherwise only the
// device names are returned.
func ListPorts() ([]PortInfo, error) {
	details, err := detailedPorts()
	if err == nil {
		out := make([]PortInfo, 0, len(details))
		for _, d := range details {
			if d == nil {
				continue
			}
			out = append(out, PortInfo{
				Device:       d.Name,
				Description:  d.Product,
				USB:          d.IsUSB,
				VID:          d.VID,
				PID:          d.PID,
				SerialNumber: d.SerialNumber,
			})
		}
		sortPorts(out)
		return out, nil
	}

	names, nerr := portNames()
	if nerr != nil {
		return nil, fmt.Errorf("serial: list ports: %w", nerr)
	}
	out := make([]PortInfo, 0, len(names))
	for _, n := range names {
		out = append(out, PortInfo{Device: n})
	}
	sortPorts(out)
	return out, nil
}

func sortPorts(ports []PortInfo) {
	sort.Slice(ports, func(i, j int) bool { return ports[i].Device < ports[j].Device })
}
