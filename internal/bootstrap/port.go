package bootstrap

import "math/rand/v2"

// Ephemeral port range handed to the application: [MinPort, MaxPort).
const (
	MinPort = 49152
	MaxPort = 65500
)

// PortProperty is the configuration key overridden with the allocated
// port.
const PortProperty = "http.test-port"

// IntN returns a pseudo-random number in [0, n).
type IntN func(n int) int

// AllocatePort picks a pseudo-random port in [MinPort, MaxPort). A nil
// intN uses math/rand/v2.
func AllocatePort(intN IntN) int {
	if intN == nil {
		intN = rand.IntN
	}
	return MinPort + intN(MaxPort-MinPort)
}
