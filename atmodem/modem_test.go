package atmodem

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltefleet/go-credprov/credblob"
)

func TestBuildWriteCredentialCmd(t *testing.T) {
	cmd := BuildWriteCredentialCmd(1234, credblob.KindPSK, []byte("CAFEBABE"))
	assert.Equal(t, `AT%CMNG=0,1234,3,"CAFEBABE"`, cmd)
}

func TestModemPowerOff(t *testing.T) {
	sim := NewSimModem("352656100367872")
	m := New(sim)

	require.NoError(t, m.PowerOff(context.Background()))
	assert.True(t, sim.PoweredOff)
}

func TestModemReadIdentity(t *testing.T) {
	sim := NewSimModem("352656100367872")
	m := New(sim)

	identity, err := m.ReadIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "352656100367872", identity)
}

// A scripted port carrying stray control bytes: the identity must come out
// printable-only.
func TestModemReadIdentitySanitizes(t *testing.T) {
	port := &scriptedPort{}
	port.response.WriteString("AT+CGSN\r\n")      // echo
	port.response.WriteString("\r\n")             // blank framing line
	port.response.WriteString("\x02352656100367872\x03\r\n")
	port.response.WriteString("OK\r\n")

	identity, err := New(port).ReadIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "352656100367872", identity)
}

func TestModemWriteCredential(t *testing.T) {
	sim := NewSimModem("352656100367872")
	sim.PoweredOff = true
	m := New(sim)

	err := m.WriteCredential(context.Background(), 1234, credblob.KindPSK, []byte("CAFEBABE"))
	require.NoError(t, err)

	require.Len(t, sim.Stored, 1)
	assert.Equal(t, uint32(1234), sim.Stored[0].Tag)
	assert.Equal(t, credblob.KindPSK, sim.Stored[0].Kind)
	assert.Equal(t, []byte("CAFEBABE"), sim.Stored[0].Payload)
}

// A quote in the payload would break the command framing; it must be
// rejected before anything reaches the port.
func TestModemWriteCredentialRejectsQuotedPayload(t *testing.T) {
	sim := NewSimModem("352656100367872")
	sim.PoweredOff = true
	m := New(sim)

	err := m.WriteCredential(context.Background(), 9, credblob.KindPSK, []byte(`ab"cd`))
	var perr *PayloadError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, uint32(9), perr.Tag)
	assert.Empty(t, sim.Stored)
}

func TestModemWriteCredentialWhileActive(t *testing.T) {
	sim := NewSimModem("352656100367872")
	m := New(sim)

	err := m.WriteCredential(context.Background(), 1, credblob.KindPSK, []byte("x"))
	var cme *CMEError
	require.ErrorAs(t, err, &cme)
	assert.Equal(t, CMENotAllowed, cme.Code)
	assert.Empty(t, sim.Stored)
}

func TestModemWriteCredentialInjectedFailure(t *testing.T) {
	sim := NewSimModem("352656100367872")
	sim.PoweredOff = true
	sim.FailIndex = 1
	sim.FailCode = 7
	m := New(sim)

	ctx := context.Background()
	require.NoError(t, m.WriteCredential(ctx, 1, credblob.KindPSK, []byte("first")))

	err := m.WriteCredential(ctx, 2, credblob.KindPSK, []byte("second"))
	var cme *CMEError
	require.ErrorAs(t, err, &cme)
	assert.Equal(t, int32(7), cme.Code)
	require.Len(t, sim.Stored, 1)
}

func TestModemUnknownCommand(t *testing.T) {
	sim := NewSimModem("352656100367872")
	m := New(sim)

	_, err := m.Execute(context.Background(), "AT+NOPE")
	var cerr *CommandError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "AT+NOPE", cerr.Cmd)
}

// scriptedPort replays a canned response regardless of what is written.
type scriptedPort struct {
	response bytes.Buffer
}

func (p *scriptedPort) Write(b []byte) (int, error) { return len(b), nil }
func (p *scriptedPort) Read(b []byte) (int, error)  { return p.response.Read(b) }
