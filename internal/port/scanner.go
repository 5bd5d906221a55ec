package port

import (
	"fmt"
	"net"
)

// DefaultStorybookPort is the port `storybook dev` listens on unless the
// project's storybook script passes `-p`.
const DefaultStorybookPort = 6006

// nextPortWindow bounds the search for an alternative port. Storybook itself
// only offers the next free port, so a short window is enough to name it.
const nextPortWindow = 100

// Scanner checks whether specific ports are available on the host machine.
//
// It uses the operating system's network stack (net.Listen / net.ListenPacket)
// to determine if a port is free. Asking the OS directly is more reliable
// than parsing /proc/net/* or running `lsof` or `ss`, which may need
// elevated permissions or may not be installed at all (Windows).
//
// The struct is stateless. It is a struct rather than bare functions so that
// options such as a bind address can be added without breaking callers.
type Scanner struct{}

// NewScanner creates a new Scanner instance.
// No configuration is needed yet; the constructor keeps call sites stable
// when options are added.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsPortAvailable checks whether a single port is free on the host machine.
//
// For TCP, it attempts net.Listen("tcp", ":port"). For UDP, it attempts
// net.ListenPacket("udp", ":port"). If the bind succeeds the port is
// available, and the listener is closed immediately.
//
// The check binds to all interfaces (":port" rather than "127.0.0.1:port")
// because the Storybook dev server binds to all interfaces by default, so
// a process holding the port on any interface blocks it.
//
// Parameters:
//   - port: the port number to check (1-65535)
//   - protocol: "tcp" or "udp"
//
// Returns true if the port is free, false if it is already in use or invalid.
func (s *Scanner) IsPortAvailable(port int, protocol string) bool {
	addr := fmt.Sprintf(":%d", port)

	switch protocol {
	case "tcp":
		// net.Listen fails with "address already in use" when another
		// process holds the port.
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return false
		}
		// Only availability is tested; no connection is ever accepted.
		defer func() { _ = listener.Close() }()
		return true

	case "udp":
		// UDP is connectionless, so the check uses ListenPacket (which
		// returns a PacketConn) instead of Listen.
		conn, err := net.ListenPacket("udp", addr)
		if err != nil {
			return false
		}
		defer func() { _ = conn.Close() }()
		return true

	default:
		// Unknown protocol: report unavailable.
		return false
	}
}

// FindAvailablePort scans a range of ports and returns the first available one.
//
// The scan is sequential from startPort to endPort (inclusive). This matches
// what Storybook does when its port is taken: it offers the next free port
// above the default.
//
// Parameters:
//   - startPort: the first port to check (inclusive)
//   - endPort: the last port to check (inclusive)
//   - protocol: "tcp" or "udp"
//
// Returns the first available port number, or an error if none is found.
func (s *Scanner) FindAvailablePort(startPort, endPort int, protocol string) (int, error) {
	for port := startPort; port <= endPort; port++ {
		if s.IsPortAvailable(port, protocol) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available %s port found in range %d-%d", protocol, startPort, endPort)
}

// PortStatus describes the Storybook port before a launch.
// It is included in the run command's JSON output.
type PortStatus struct {
	// Port is the port that was checked.
	Port int `json:"port"`

	// Available is true when Port is free.
	Available bool `json:"available"`

	// Next is the first free port after Port, when Port is taken and one
	// was found within the search window. Zero otherwise.
	Next int `json:"next,omitempty"`
}

// CheckStorybookPort reports whether the Storybook dev server port is free
// and, when it is not, the next free TCP port Storybook is likely to offer.
//
// The result is informational. The run command logs a warning for a taken
// port and launches anyway; Storybook prompts the user for the alternative.
//
// Parameters:
//   - port: the port the dev server will try first (usually DefaultStorybookPort)
func (s *Scanner) CheckStorybookPort(port int) PortStatus {
	status := PortStatus{Port: port, Available: s.IsPortAvailable(port, "tcp")}
	if status.Available {
		return status
	}
	if next, err := s.FindAvailablePort(port+1, port+nextPortWindow, "tcp"); err == nil {
		status.Next = next
	}
	return status
}
