package credblob

import "encoding/binary"

// Completion is the decoded completion code field. The raw field unions a
// "never attempted" sentinel with an ordinary result code; decoding it once
// here keeps sentinel comparisons out of the rest of the code.
type Completion struct {
	// Attempted reports whether a prior run recorded an outcome
	Attempted bool

	// Code is the recorded outcome; only meaningful when Attempted is true
	Code int32
}

// DecodeCompletion interprets a raw completion field value.
func DecodeCompletion(raw uint32) Completion {
	if raw == BlankCompletion {
		return Completion{}
	}
	return Completion{Attempted: true, Code: int32(raw)}
}

// Encode returns the raw field value for the completion state.
func (c Completion) Encode() uint32 {
	if !c.Attempted {
		return BlankCompletion
	}
	return uint32(c.Code)
}

// RecordCount is the decoded record count field. Both 0x00 and the reserved
// 0xFF value mean nothing is staged.
type RecordCount struct {
	// Staged reports whether the region holds records to process
	Staged bool

	// N is the number of staged records; zero unless Staged is true
	N int
}

// DecodeRecordCount interprets a raw record count field value.
func DecodeRecordCount(raw byte) RecordCount {
	if raw == 0 || raw == ErrorRecordCount {
		return RecordCount{}
	}
	return RecordCount{Staged: true, N: int(raw)}
}

// Header is the decoded fixed-size region header. Records follow at
// HeaderSize and are walked separately with a Cursor.
type Header struct {
	// Fingerprint is the staging sentinel. The firmware-side state machine
	// does not check it; validating it is the staging tool's contract.
	Fingerprint uint32

	// Completion is the decoded write-once completion guard
	Completion Completion

	// Identity is the raw device identity slot (0xFF-filled until written)
	Identity [IdentityLen]byte

	// Count is the decoded record count
	Count RecordCount
}

// ParseHeader decodes the fixed region header from buf.
func ParseHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, &ShortRegionError{Got: len(buf)}
	}

	hdr := &Header{
		Fingerprint: binary.LittleEndian.Uint32(buf[offFingerprint:]),
		Completion:  DecodeCompletion(binary.LittleEndian.Uint32(buf[offCompletion:])),
		Count:       DecodeRecordCount(buf[offCount]),
	}
	copy(hdr.Identity[:], buf[offIdentity:offIdentity+IdentityLen])

	return hdr, nil
}

// Fingerprinted reports whether the region carries the staging fingerprint.
func (h *Header) Fingerprinted() bool {
	return h.Fingerprint == Fingerprint
}

// IdentityString returns the identity slot as a string, or "" if the slot
// is still blank (erased flash).
func (h *Header) IdentityString() string {
	for _, b := range h.Identity {
		if b == 0xFF {
			return ""
		}
	}
	return string(h.Identity[:])
}
