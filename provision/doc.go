// Package provision orchestrates one-shot TLS credential provisioning into
// a cellular modem's secure key store.
//
// # Overview
//
// A host tool stages a credential region (see package credblob) into flash
// before this code runs. Provisioner then executes the complete sequence:
//
//  1. Power the modem down (key-store writes require it)
//  2. Read the device identity and persist it into the region
//  3. Walk the staged records and forward each to the key store
//  4. Record the outcome as the region's completion code
//
// The completion code is the write-once guard that makes the whole
// operation idempotent: once any attempt has recorded an outcome, a later
// invocation is a guaranteed no-op until the host tool erases the region.
// A region with nothing staged is also a no-op, but deliberately leaves
// the completion code blank so that staging real data later still works.
//
// # Basic Usage
//
//	modem := atmodem.New(port)
//	prov := provision.New(modem, modem, store)
//	result, err := prov.Run(ctx)
//
// # Configuration Options
//
//	prov := provision.New(modem, modem, store,
//	    provision.WithLayout(credblob.NewLayout(0x2B000)),
//	    provision.WithLogger(logger),
//	    provision.WithEventCallback(eventFunc),
//	)
//
// # Failure Model
//
// The first key-store rejection aborts the record loop; records after it
// are never attempted, and the rejection's code becomes the completion
// code. There is no retry anywhere: re-staging and re-triggering is the
// host tool's job. Writes to the identity and completion fields are
// feasibility-checked per byte first and never attempted when the flash
// cannot accept the value without an erase.
//
// # Hardware Independence
//
// Provisioner only sees three seams: the Commander and KeyStore
// collaborator interfaces (both implemented by atmodem.Modem) and the
// nvm.Store the region lives in. Hosted runs wire the same code to
// atmodem.SimModem and nvm.MemFlash.
package provision
