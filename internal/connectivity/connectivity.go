// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package connectivity

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// =============================================================================
// DIALOG TEXT
// =============================================================================

// Text shown by the blocking dialog when no transport is active.
const (
	DialogTitle   = "No Internet Connection"
	DialogMessage = "Please check your internet connection."
	DialogAction  = "OK"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrNoTransport is returned by Require when no interface can carry traffic.
var ErrNoTransport = errors.New("no active network transport")

// =============================================================================
// STATUS
// =============================================================================

// Status is the outcome of a connectivity check.
type Status int

const (
	// Unknown means the check itself failed.
	Unknown Status = iota
	// Online means at least one transport is active.
	Online
	// Offline means no transport is active.
	Offline
)

// String returns a lowercase name for logs.
func (s Status) String() string {
	switch s {
	case Online:
		return "online"
	case Offline:
		return "offline"
	default:
		return "unknown"
	}
}

// Blocks reports whether the status should block the chat screen.
// A failed check does not block; the request path reports real failures.
func (s Status) Blocks() bool {
	return s == Offline
}

// =============================================================================
// CHECKERS
// =============================================================================

// Checker reports whether any network transport is active.
type Checker interface {
	Check(ctx context.Context) (Status, error)
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context) (Status, error)

// Check calls f(ctx).
func (f CheckerFunc) Check(ctx context.Context) (Status, error) {
	return f(ctx)
}

// Fixed returns a Checker that always reports status.
func Fixed(status Status) Checker {
	return CheckerFunc(func(context.Context) (Status, error) {
		return status, nil
	})
}

// Iface is the slice of net.Interface data the checker needs.
type Iface struct {
	Name  string
	Flags net.Flags
	Addrs []net.Addr
}

// InterfaceChecker treats the host as online when a non-loopback interface
// is up and carries a unicast address.
type InterfaceChecker struct {
	// list enumerates interfaces; replaced in tests.
	list func() ([]Iface, error)
}

// NewInterfaceChecker returns a checker over the host's real interfaces.
func NewInterfaceChecker() *InterfaceChecker {
	return &InterfaceChecker{list: systemInterfaces}
}

// Check inspects the interface list. Interfaces whose addresses cannot be
// read are skipped.
func (c *InterfaceChecker) Check(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Unknown, err
	}

	ifaces, err := c.list()
	if err != nil {
		return Unknown, fmt.Errorf("list interfaces: %w", err)
	}

	for _, iface := range ifaces {
		if Active(iface) {
			return Online, nil
		}
	}
	return Offline, nil
}

// Active reports whether a single interface can carry outbound traffic.
func Active(iface Iface) bool {
	if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
		return false
	}
	for _, addr := range iface.Addrs {
		if isUsableUnicast(addr) {
			return true
		}
	}
	return false
}

func isUsableUnicast(addr net.Addr) bool {
	var ip net.IP
	switch v := addr.(type) {
	case *net.IPNet:
		ip = v.IP
	case *net.IPAddr:
		ip = v.IP
	default:
		return false
	}
	if ip == nil || ip.IsLoopback() || ip.IsUnspecified() {
		return false
	}
	// IPv6 link-local addresses exist on every up interface, even unplugged ones.
	if ip.To4() == nil && ip.IsLinkLocalUnicast() {
		return false
	}
	return ip.IsGlobalUnicast() || ip.IsLinkLocalUnicast()
}

func systemInterfaces() ([]Iface, error) {
	raw, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make([]Iface, 0, len(raw))
	for _, ni := range raw {
		addrs, err := ni.Addrs()
		if err != nil {
			continue
		}
		out = append(out, Iface{Name: ni.Name, Flags: ni.Flags, Addrs: addrs})
	}
	return out, nil
}

// =============================================================================
// GUARDS
// =============================================================================

// Require runs the checker and returns ErrNoTransport when offline.
// Check failures are returned wrapped; callers may treat them as online.
func Require(ctx context.Context, c Checker) error {
	status, err := c.Check(ctx)
	if err != nil {
		return fmt.Errorf("connectivity check: %w", err)
	}
	if status.Blocks() {
		return ErrNoTransport
	}
	return nil
}
