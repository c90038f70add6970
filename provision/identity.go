package provision

import (
	"fmt"

	"github.com/ltefleet/go-credprov/credblob"
)

// WriteIdentity persists the device identity into the region's fixed
// identity field. The write is all-or-nothing: every byte is
// feasibility-checked first and nothing is programmed unless the whole
// identity can land. A rerun with the same identity is a no-op at the
// flash level, since reprogramming identical bytes is always feasible.
func (p *Provisioner) WriteIdentity(identity string) error {
	if len(identity) != credblob.IdentityLen {
		return &IdentityLengthError{Got: len(identity)}
	}

	addr := p.cfg.Layout.IdentityAddr()
	for i := 0; i < len(identity); i++ {
		if !p.store.CanWrite(addr+uint32(i), identity[i]) {
			return &InfeasibleWriteError{Addr: addr + uint32(i), Value: identity[i]}
		}
	}

	if err := p.store.Write(addr, []byte(identity)); err != nil {
		return fmt.Errorf("write identity: %w", err)
	}
	return nil
}
