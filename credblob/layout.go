package credblob

// Region layout constants. Offsets are relative to the region base address.
const (
	// Fingerprint marks a region staged by the host tool
	Fingerprint uint32 = 0xCA5CAD1A

	// BlankCompletion is the completion field value of a never-processed region
	BlankCompletion uint32 = 0xFFFFFFFF

	// ErrorRecordCount is the reserved count value meaning "nothing staged",
	// alongside a plain zero. 0xFF is also the erased-flash byte value.
	ErrorRecordCount byte = 0xFF

	// IdentityLen is the fixed length of the device identity field (IMEI)
	IdentityLen = 15

	// HeaderSize is the fixed region header size:
	// Fingerprint(4) + Completion(4) + Identity(15) + Count(1)
	HeaderSize = 4 + 4 + IdentityLen + 1

	// RecordHeaderSize is the fixed per-record header size:
	// Tag(4) + Kind(1) + Length(2)
	RecordHeaderSize = 4 + 1 + 2

	// RegionSize is the size of the credential region: one flash page.
	// The host tool stages the region at a page boundary and erases it
	// page-wise after verification.
	RegionSize = 4096

	// DefaultBaseAddr is the flash address the region is staged at
	DefaultBaseAddr uint32 = 0x2B000
)

// Field offsets within the region.
const (
	offFingerprint = 0
	offCompletion  = 4
	offIdentity    = 8
	offCount       = offIdentity + IdentityLen
)

// Layout resolves the absolute flash addresses of the region fields from a
// base address. It is constructed once and passed explicitly to every
// component that touches the region; there is no ambient global layout.
type Layout struct {
	// Base is the flash address the region starts at
	Base uint32
}

// NewLayout returns the layout of a region staged at base.
func NewLayout(base uint32) Layout {
	return Layout{Base: base}
}

// FingerprintAddr returns the address of the fingerprint field.
func (l Layout) FingerprintAddr() uint32 { return l.Base + offFingerprint }

// CompletionAddr returns the address of the completion code field.
func (l Layout) CompletionAddr() uint32 { return l.Base + offCompletion }

// IdentityAddr returns the address of the device identity field.
func (l Layout) IdentityAddr() uint32 { return l.Base + offIdentity }

// CountAddr returns the address of the record count field.
func (l Layout) CountAddr() uint32 { return l.Base + offCount }

// FirstRecordAddr returns the address of the first credential record.
func (l Layout) FirstRecordAddr() uint32 { return l.Base + HeaderSize }

// End returns the first address past the region.
func (l Layout) End() uint32 { return l.Base + RegionSize }
