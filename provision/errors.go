package provision

import (
	"fmt"

	"github.com/ltefleet/go-credprov/credblob"
)

// InfeasibleWriteError reports a flash byte that cannot take its target
// value without an erase. The write it would have been part of was never
// attempted.
type InfeasibleWriteError struct {
	// Addr is the absolute flash address of the offending byte
	Addr uint32

	// Value is the byte value the write needed
	Value byte
}

func (e *InfeasibleWriteError) Error() string {
	return fmt.Sprintf("flash write infeasible at 0x%X: cannot program 0x%02X without erase", e.Addr, e.Value)
}

// IdentityLengthError reports a device identity that does not fit the
// fixed-size region field.
type IdentityLengthError struct {
	// Got is the sanitized identity length
	Got int
}

func (e *IdentityLengthError) Error() string {
	return fmt.Sprintf("device identity is %d bytes, field holds exactly %d", e.Got, credblob.IdentityLen)
}
