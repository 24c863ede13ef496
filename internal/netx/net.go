// Package netx answers "is this device online?" from local interface state.
package netx

import (
	"net"
)

// InterfaceChecker reports the device as online when at least one
// non-loopback interface is both up and running. It never touches the
// network.
type InterfaceChecker struct {
	interfaces func() ([]net.Interface, error)
}

func NewInterfaceChecker() *InterfaceChecker {
	return &InterfaceChecker{interfaces: net.Interfaces}
}

func (c *InterfaceChecker) IsOnline() bool {
	list, err := c.interfaces()
	if err != nil {
		return false
	}
	for _, iface := range list {
		if usable(iface.Flags) {
			return true
		}
	}
	return false
}

func usable(f net.Flags) bool {
	return f&net.FlagUp != 0 && f&net.FlagRunning != 0 && f&net.FlagLoopback == 0
}

// Static is a fixed answer, for tests and for forcing offline mode.
type Static bool

func (s Static) IsOnline() bool { return bool(s) }
