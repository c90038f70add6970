// Package credblob defines the persistent credential region format and
// provides parsing and encoding for it.
//
// # Region Format
//
// The credential region is a single flash page staged by an external host
// tool at a fixed base address (0x2B000 by default). All multi-byte fields
// are little-endian:
//
//	[Fingerprint(4)][Completion(4)][Identity(15)][Count(1)][Records...]
//
// Field details:
//
//	Fingerprint  0xCA5CAD1A, written by the staging tool
//	Completion   0xFFFFFFFF while the region has never been processed;
//	             any other value is the recorded outcome of an attempt
//	Identity     15 ASCII bytes, written by the firmware from the modem,
//	             0xFF-filled until then
//	Count        number of records that follow; 0x00 and 0xFF both mean
//	             "nothing staged"
//
// Record Format (back-to-back, no padding, no terminator):
//
//	[Tag(4)][Kind(1)][Length(2)][Payload(Length)]
//
// Example record:
//
//	D2040000 03 0800 4341464542414245
//	  D2040000 = Tag 1234 (little-endian)
//	  03 = Kind (PSK)
//	  0800 = Length 8 (little-endian)
//	  4341464542414245 = Payload ("CAFEBABE")
//
// # Usage
//
// Decode the staged header, then walk the records with a cursor:
//
//	hdr, err := credblob.ParseHeader(region)
//	if err != nil {
//	    return err
//	}
//
//	cur := credblob.NewCursor(region[credblob.HeaderSize:])
//	for i := 0; i < hdr.Count.N; i++ {
//	    rec, err := cur.Next()
//	    if err != nil {
//	        return err
//	    }
//	    // forward rec.Tag, rec.Kind, rec.Payload
//	}
//
// The cursor is bounds-checked: Next never reads past the supplied slice
// and returns a TruncatedRecordError instead. The record count is the only
// end-of-list marker; the cursor itself has no idea how many records exist.
//
// # Encoding
//
// Build a region for staging with Builder, or re-encode decoded records
// with AppendRecord:
//
//	b := credblob.NewBuilder()
//	b.Add(1234, credblob.KindPSK, []byte("CAFEBABE"))
//	region, err := b.Region()
package credblob
