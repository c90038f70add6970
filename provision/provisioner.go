package provision

import (
	"context"
	"fmt"

	"github.com/ltefleet/go-credprov/credblob"
	"github.com/ltefleet/go-credprov/nvm"
)

// Commander is the modem control surface the run sequence needs:
// powering the modem down and reading its identity.
// atmodem.Modem implements it.
type Commander interface {
	PowerOff(ctx context.Context) error
	ReadIdentity(ctx context.Context) (string, error)
}

// KeyStore accepts credential records into the modem's secure store.
// atmodem.Modem implements it.
type KeyStore interface {
	WriteCredential(ctx context.Context, tag uint32, kind credblob.Kind, payload []byte) error
}

// Provisioner runs the one-shot credential provisioning sequence against
// a modem and the flash region staged by the host tool.
type Provisioner struct {
	modem Commander
	keys  KeyStore
	store nvm.Store
	cfg   Config
}

// New returns a Provisioner driving modem and keys against the staged
// region in store. A single atmodem.Modem typically serves as both modem
// and keys.
func New(modem Commander, keys KeyStore, store nvm.Store, opts ...Option) *Provisioner {
	if modem == nil {
		panic("modem cannot be nil")
	}
	if keys == nil {
		panic("key store cannot be nil")
	}
	if store == nil {
		panic("flash store cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Provisioner{modem: modem, keys: keys, store: store, cfg: cfg}
}

// Result summarizes one provisioning run.
type Result struct {
	// Identity is the device identity read from the modem; empty when the
	// read failed
	Identity string

	// IdentityErr records an identity read or persist failure. Identity
	// trouble never blocks credential forwarding.
	IdentityErr error

	// Credentials is the outcome of the credential forwarding stage
	Credentials *CredentialResult
}

// Run executes the full provisioning sequence: power the modem down, read
// and persist the device identity, then forward staged credentials and
// record the outcome.
//
// A power-off failure aborts the run, since the key store rejects writes
// while the modem is active. Identity failures are recorded in the Result
// but do not block the credential stage. An error return means the run
// itself could not proceed; a key-store rejection is a recorded outcome,
// reported through Result.Credentials, not an error.
func (p *Provisioner) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	log := p.cfg.Logger

	p.emit(Event{Phase: PhasePowerOff})
	log.Info("powering modem down")
	if err := p.modem.PowerOff(ctx); err != nil {
		return res, fmt.Errorf("power off modem: %w", err)
	}

	p.emit(Event{Phase: PhaseIdentity})
	identity, err := p.modem.ReadIdentity(ctx)
	if err != nil {
		res.IdentityErr = fmt.Errorf("read identity: %w", err)
		log.Warn("identity read failed", "err", err)
	} else {
		res.Identity = identity
		log.Info("read device identity", "identity", identity)
		if err := p.WriteIdentity(identity); err != nil {
			res.IdentityErr = err
			log.Warn("identity persist failed", "err", err)
		}
	}

	cres, err := p.WriteCredentials(ctx)
	res.Credentials = cres
	if err != nil {
		return res, err
	}

	p.emit(Event{Phase: PhaseComplete})
	log.Info("provisioning run finished", "outcome", cres.Outcome.String())
	return res, nil
}

func (p *Provisioner) emit(e Event) {
	if p.cfg.OnEvent != nil {
		p.cfg.OnEvent(e)
	}
}
