// Package nvm abstracts the non-volatile medium the credential region
// lives in.
//
// The Store interface captures the three capabilities the provisioning
// logic needs: reading a byte range, asking whether a byte can be
// programmed to a given value without an erase, and a synchronous write
// that returns once the medium reports the data durable. Nothing in this
// package erases; erase is the external host tool's authority.
//
// MemFlash is a hosted stand-in for the real medium. It models the one
// physical property the provisioning logic depends on: programming can
// only clear bits, so a byte can transition to a new value only if the new
// value keeps every zero bit zero. The real hardware's busy-poll on write
// completion collapses to an immediate return here.
package nvm
