package nvm

// Store is a durable byte store addressed with absolute flash addresses.
//
// Implementations for real hardware wrap the flash controller's byte/word
// programming and completion polling; MemFlash provides a hosted
// simulation behind the same seam.
type Store interface {
	// ReadAt fills p from the store starting at addr. It returns the
	// number of bytes read and an error if the range is not readable.
	ReadAt(p []byte, addr uint32) (int, error)

	// CanWrite reports whether the byte at addr can transition to value
	// without an erase. Writes known to be infeasible must never be
	// attempted; callers check first.
	CanWrite(addr uint32, value byte) bool

	// Write programs data at addr and blocks until the medium reports the
	// write durable. There is no partial-write signaling; a call either
	// completes or fails as a whole.
	Write(addr uint32, data []byte) error
}
