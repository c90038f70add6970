package credblob

import "fmt"

// ShortRegionError indicates a byte slice too small to hold a region header.
type ShortRegionError struct {
	Got int
}

func (e *ShortRegionError) Error() string {
	return fmt.Sprintf("region too short: got %d bytes, header needs %d", e.Got, HeaderSize)
}

// TruncatedRecordError indicates a record that runs past the end of the
// staged bytes. Offset is relative to the first record.
type TruncatedRecordError struct {
	Offset int
	Need   int
	Have   int
}

func (e *TruncatedRecordError) Error() string {
	return fmt.Sprintf("truncated record at offset %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}

// PayloadTooLargeError indicates a payload that cannot be encoded in the
// record's 16-bit length field.
type PayloadTooLargeError struct {
	Size int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload too large: %d bytes, maximum is %d", e.Size, MaxPayloadLen)
}

// TooManyRecordsError indicates a record count that cannot be encoded.
type TooManyRecordsError struct {
	Count int
}

func (e *TooManyRecordsError) Error() string {
	return fmt.Sprintf("too many records: %d, maximum is %d", e.Count, MaxRecords)
}

// RegionOverflowError indicates an encoded region larger than one flash page.
type RegionOverflowError struct {
	Size int
}

func (e *RegionOverflowError) Error() string {
	return fmt.Sprintf("encoded region is %d bytes, exceeds the %d byte page", e.Size, RegionSize)
}
