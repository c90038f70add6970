package credblob

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCompletion(t *testing.T) {
	tests := []struct {
		name      string
		raw       uint32
		attempted bool
		code      int32
	}{
		{name: "blank", raw: BlankCompletion, attempted: false},
		{name: "success", raw: 0, attempted: true, code: 0},
		{name: "failure code", raw: 7, attempted: true, code: 7},
		{name: "negative code", raw: 0xFFFFFFFE, attempted: true, code: -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DecodeCompletion(tt.raw)
			assert.Equal(t, tt.attempted, c.Attempted)
			if tt.attempted {
				assert.Equal(t, tt.code, c.Code)
			}
			assert.Equal(t, tt.raw, c.Encode())
		})
	}
}

func TestDecodeRecordCount(t *testing.T) {
	assert.False(t, DecodeRecordCount(0).Staged)
	assert.False(t, DecodeRecordCount(ErrorRecordCount).Staged)

	c := DecodeRecordCount(5)
	assert.True(t, c.Staged)
	assert.Equal(t, 5, c.N)

	c = DecodeRecordCount(0xFE)
	assert.True(t, c.Staged)
	assert.Equal(t, 254, c.N)
}

func TestParseHeader(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add(1234, KindPSK, []byte("CAFEBABE")))
	region, err := b.Region()
	require.NoError(t, err)

	hdr, err := ParseHeader(region)
	require.NoError(t, err)

	assert.True(t, hdr.Fingerprinted())
	assert.False(t, hdr.Completion.Attempted)
	assert.Equal(t, "", hdr.IdentityString())
	assert.True(t, hdr.Count.Staged)
	assert.Equal(t, 1, hdr.Count.N)
}

func TestParseHeaderCompletionAndIdentity(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add(1, KindPSK, []byte("x")))
	region, err := b.Region()
	require.NoError(t, err)

	binary.LittleEndian.PutUint32(region[offCompletion:], 7)
	copy(region[offIdentity:], "352656100367872")

	hdr, err := ParseHeader(region)
	require.NoError(t, err)

	assert.True(t, hdr.Completion.Attempted)
	assert.Equal(t, int32(7), hdr.Completion.Code)
	assert.Equal(t, "352656100367872", hdr.IdentityString())
}

func TestParseHeaderShortRegion(t *testing.T) {
	_, err := ParseHeader(make([]byte, HeaderSize-1))

	var serr *ShortRegionError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, HeaderSize-1, serr.Got)
}

func TestLayoutAddresses(t *testing.T) {
	l := NewLayout(DefaultBaseAddr)

	assert.Equal(t, uint32(0x2B000), l.FingerprintAddr())
	assert.Equal(t, uint32(0x2B004), l.CompletionAddr())
	assert.Equal(t, uint32(0x2B008), l.IdentityAddr())
	assert.Equal(t, uint32(0x2B017), l.CountAddr())
	assert.Equal(t, uint32(0x2B018), l.FirstRecordAddr())
	assert.Equal(t, uint32(0x2C000), l.End())
}
