package provision

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltefleet/go-credprov/credblob"
	"github.com/ltefleet/go-credprov/nvm"
)

func TestWriteCredentialsSingleRecord(t *testing.T) {
	flash := stagedFlash(t, func(b *credblob.Builder) {
		require.NoError(t, b.Add(1234, credblob.KindPSK, []byte("CAFEBABE")))
	})
	keys := newFakeKeyStore()
	p := New(&fakeModem{identity: testIdentity}, keys, flash)

	res, err := p.WriteCredentials(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, res.Outcome)
	assert.Equal(t, CodeSuccess, res.Code)
	assert.Equal(t, 1, res.Written)
	assert.NoError(t, res.Err)

	require.Len(t, keys.writes, 1)
	assert.Equal(t, uint32(1234), keys.writes[0].tag)
	assert.Equal(t, credblob.KindPSK, keys.writes[0].kind)
	assert.Equal(t, []byte("CAFEBABE"), keys.writes[0].payload)

	hdr := regionHeader(t, flash)
	assert.True(t, hdr.Completion.Attempted)
	assert.Equal(t, CodeSuccess, hdr.Completion.Code)
}

// A recorded completion code makes every later pass a no-op, byte for byte.
func TestWriteCredentialsCompletionGuard(t *testing.T) {
	flash := stagedFlash(t, func(b *credblob.Builder) {
		require.NoError(t, b.Add(1234, credblob.KindPSK, []byte("CAFEBABE")))
	})
	keys := newFakeKeyStore()
	p := New(&fakeModem{identity: testIdentity}, keys, flash)

	ctx := context.Background()
	_, err := p.WriteCredentials(ctx)
	require.NoError(t, err)
	require.Len(t, keys.writes, 1)
	before := flash.Snapshot()

	res, err := p.WriteCredentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyCompleted, res.Outcome)
	assert.Equal(t, CodeSuccess, res.Code)
	assert.Zero(t, res.Written)
	assert.Len(t, keys.writes, 1)
	assert.Equal(t, before, flash.Snapshot())
}

func TestWriteCredentialsNothingStaged(t *testing.T) {
	flash := stagedFlash(t, nil)
	keys := newFakeKeyStore()
	p := New(&fakeModem{identity: testIdentity}, keys, flash)

	res, err := p.WriteCredentials(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeNothingStaged, res.Outcome)
	assert.Empty(t, keys.writes)

	// The completion code stays blank so the region can still be staged.
	hdr := regionHeader(t, flash)
	assert.False(t, hdr.Completion.Attempted)
}

// A fully erased page never had anything staged: the count reads 0xFF.
func TestWriteCredentialsBlankRegion(t *testing.T) {
	flash := nvm.NewMemFlash(credblob.DefaultBaseAddr, credblob.RegionSize)
	keys := newFakeKeyStore()
	p := New(&fakeModem{identity: testIdentity}, keys, flash)

	res, err := p.WriteCredentials(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeNothingStaged, res.Outcome)
	assert.Empty(t, keys.writes)
	assert.False(t, regionHeader(t, flash).Completion.Attempted)
}

func TestWriteCredentialsStopsAtFirstRejection(t *testing.T) {
	flash := stagedFlash(t, func(b *credblob.Builder) {
		require.NoError(t, b.Add(1, credblob.KindRootCA, []byte("first")))
		require.NoError(t, b.Add(2, credblob.KindRootCA, []byte("second")))
		require.NoError(t, b.Add(3, credblob.KindRootCA, []byte("third")))
	})
	keys := newFakeKeyStore()
	keys.failAt = 1
	keys.failWith = &codedErr{code: 7}
	p := New(&fakeModem{identity: testIdentity}, keys, flash)

	res, err := p.WriteCredentials(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, int32(7), res.Code)
	assert.Equal(t, 1, res.Written)
	assert.Error(t, res.Err)

	// Only the record before the rejection landed.
	require.Len(t, keys.writes, 1)
	assert.Equal(t, uint32(1), keys.writes[0].tag)

	hdr := regionHeader(t, flash)
	assert.True(t, hdr.Completion.Attempted)
	assert.Equal(t, int32(7), hdr.Completion.Code)
}

func TestWriteCredentialsUncodedFailure(t *testing.T) {
	flash := stagedFlash(t, func(b *credblob.Builder) {
		require.NoError(t, b.Add(1, credblob.KindPSK, []byte("x")))
	})
	keys := newFakeKeyStore()
	keys.failAt = 0
	keys.failWith = errors.New("port went away")
	p := New(&fakeModem{identity: testIdentity}, keys, flash)

	res, err := p.WriteCredentials(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, CodeExternalFailure, res.Code)
	assert.Zero(t, res.Written)
	assert.Equal(t, CodeExternalFailure, regionHeader(t, flash).Completion.Code)
}

func TestWriteCredentialsTruncatedRecord(t *testing.T) {
	// Hand-built region: count claims one record whose declared payload
	// length runs past the end of the page.
	img := make([]byte, credblob.RegionSize)
	for i := range img {
		img[i] = 0xFF
	}
	binary.LittleEndian.PutUint32(img[0:], credblob.Fingerprint)
	binary.LittleEndian.PutUint32(img[4:], credblob.BlankCompletion)
	img[23] = 1
	binary.LittleEndian.PutUint32(img[24:], 42)     // tag
	img[28] = byte(credblob.KindClientCert)         // kind
	binary.LittleEndian.PutUint16(img[29:], 0xFFFF) // length
	flash := nvm.NewMemFlashFromImage(credblob.DefaultBaseAddr, img)

	keys := newFakeKeyStore()
	p := New(&fakeModem{identity: testIdentity}, keys, flash)

	res, err := p.WriteCredentials(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeTruncated, res.Outcome)
	assert.Equal(t, CodeTruncated, res.Code)
	assert.Zero(t, res.Written)
	var terr *credblob.TruncatedRecordError
	require.ErrorAs(t, res.Err, &terr)
	assert.Empty(t, keys.writes)

	assert.Equal(t, CodeTruncated, regionHeader(t, flash).Completion.Code)
}

// A reported code of -1 encodes to the blank sentinel. Recording it
// verbatim would leave the region unguarded, so it must land as the
// external-failure code and still arm the write-once guard.
func TestWriteCredentialsSentinelAliasingFailureCode(t *testing.T) {
	flash := stagedFlash(t, func(b *credblob.Builder) {
		require.NoError(t, b.Add(1, credblob.KindPSK, []byte("x")))
	})
	keys := newFakeKeyStore()
	keys.failAt = 0
	keys.failWith = &codedErr{code: -1}
	p := New(&fakeModem{identity: testIdentity}, keys, flash)

	ctx := context.Background()
	res, err := p.WriteCredentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, CodeExternalFailure, res.Code)

	hdr := regionHeader(t, flash)
	require.True(t, hdr.Completion.Attempted)
	assert.Equal(t, CodeExternalFailure, hdr.Completion.Code)

	// A second pass must hit the guard, not re-forward the record.
	res, err = p.WriteCredentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyCompleted, res.Outcome)
	assert.Empty(t, keys.writes)
}

func TestFailureCode(t *testing.T) {
	assert.Equal(t, int32(514), failureCode(&codedErr{code: 514}))
	assert.Equal(t, CodeExternalFailure, failureCode(errors.New("plain")))
	assert.Equal(t, CodeExternalFailure, failureCode(&codedErr{code: -1}))
}
