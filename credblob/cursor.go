package credblob

import "encoding/binary"

// Cursor walks back-to-back credential records in a byte slice. Each Next
// call consumes exactly one record and leaves the cursor at the next
// record's tag. The cursor is forward-only and knows nothing about how many
// records exist; the caller drives it with the region's record count.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor returns a cursor positioned at the first record in buf.
// buf starts at the first record's tag, not at the region header.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Next decodes one record and advances past it.
//
// The record layout is [Tag(4)][Kind(1)][Length(2)][Payload(Length)],
// little-endian. Unlike the raw flash walk this cursor replaces, every read
// is bounds-checked against the staged bytes: a record that runs past the
// end returns a TruncatedRecordError and leaves the cursor unmoved.
func (c *Cursor) Next() (*Record, error) {
	if c.Remaining() < RecordHeaderSize {
		return nil, &TruncatedRecordError{Offset: c.off, Need: RecordHeaderSize, Have: c.Remaining()}
	}

	tag := binary.LittleEndian.Uint32(c.buf[c.off:])
	kind := Kind(c.buf[c.off+4])
	length := int(binary.LittleEndian.Uint16(c.buf[c.off+5:]))

	if c.Remaining()-RecordHeaderSize < length {
		return nil, &TruncatedRecordError{
			Offset: c.off,
			Need:   RecordHeaderSize + length,
			Have:   c.Remaining(),
		}
	}

	rec := &Record{
		Tag:     tag,
		Kind:    kind,
		Payload: make([]byte, length),
	}
	copy(rec.Payload, c.buf[c.off+RecordHeaderSize:c.off+RecordHeaderSize+length])

	c.off += RecordHeaderSize + length
	return rec, nil
}

// Offset returns the cursor position relative to the first record.
func (c *Cursor) Offset() int {
	return c.off
}

// Remaining returns the number of bytes left under the cursor.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.off
}
