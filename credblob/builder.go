package credblob

import "encoding/binary"

// Encoding limits.
const (
	// MaxPayloadLen is the largest payload the 16-bit length field can carry
	MaxPayloadLen = 0xFFFF

	// MaxRecords is the largest encodable record count; 0xFF is reserved
	MaxRecords = 0xFE
)

// AppendRecord appends the wire encoding of r to dst and returns the
// extended slice. The caller must ensure the payload fits MaxPayloadLen;
// Builder.Add enforces this for staged regions.
func AppendRecord(dst []byte, r *Record) []byte {
	var hdr [RecordHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], r.Tag)
	hdr[4] = byte(r.Kind)
	binary.LittleEndian.PutUint16(hdr[5:], uint16(len(r.Payload)))

	dst = append(dst, hdr[:]...)
	return append(dst, r.Payload...)
}

// EncodeRecord returns the wire encoding of a single record.
func EncodeRecord(r *Record) []byte {
	return AppendRecord(nil, r)
}

// Builder assembles a stageable credential region: fingerprint, blank
// completion code, blank identity slot, record count, records. This is the
// host-tool side of the format; the firmware side only ever writes the
// completion and identity fields.
type Builder struct {
	records []*Record
}

// NewBuilder returns an empty region builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends one credential record to the region.
func (b *Builder) Add(tag uint32, kind Kind, payload []byte) error {
	if len(payload) > MaxPayloadLen {
		return &PayloadTooLargeError{Size: len(payload)}
	}
	if len(b.records) >= MaxRecords {
		return &TooManyRecordsError{Count: len(b.records) + 1}
	}

	p := make([]byte, len(payload))
	copy(p, payload)
	b.records = append(b.records, &Record{Tag: tag, Kind: kind, Payload: p})
	return nil
}

// Len returns the number of records added so far.
func (b *Builder) Len() int {
	return len(b.records)
}

// Region encodes the staged region. The result is exactly HeaderSize plus
// the encoded records; callers staging a full flash page pad with 0xFF.
func (b *Builder) Region() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[offFingerprint:], Fingerprint)
	binary.LittleEndian.PutUint32(buf[offCompletion:], BlankCompletion)
	for i := 0; i < IdentityLen; i++ {
		buf[offIdentity+i] = 0xFF
	}
	buf[offCount] = byte(len(b.records))

	for _, r := range b.records {
		buf = AppendRecord(buf, r)
	}

	if len(buf) > RegionSize {
		return nil, &RegionOverflowError{Size: len(buf)}
	}
	return buf, nil
}

// Image encodes the staged region padded to a full flash page with 0xFF,
// ready to program at the region base address.
func (b *Builder) Image() ([]byte, error) {
	region, err := b.Region()
	if err != nil {
		return nil, err
	}

	img := make([]byte, RegionSize)
	for i := range img {
		img[i] = 0xFF
	}
	copy(img, region)
	return img, nil
}
