package atmodem

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/ltefleet/go-credprov/credblob"
)

// StoredCredential is one credential accepted by the simulated key store.
type StoredCredential struct {
	Tag     uint32
	Kind    credblob.Kind
	Payload []byte
}

// SimModem simulates the modem side of the AT dialogue over io.ReadWriter,
// so hosted runs and tests exercise the same Modem code path as real
// hardware. It answers AT+CFUN=0, AT+CGSN and AT%CMNG writes, enforces the
// powered-down rule for key-store writes, and can inject a failure for a
// chosen credential write.
type SimModem struct {
	mu sync.Mutex

	// Identity is returned for AT+CGSN
	Identity string

	// FailIndex is the 0-based credential write to reject; -1 never fails
	FailIndex int

	// FailCode is the CME error code used for the injected failure
	FailCode int32

	// PoweredOff records whether AT+CFUN=0 has been received
	PoweredOff bool

	// Stored holds every accepted credential in arrival order
	Stored []StoredCredential

	writes int
	out    bytes.Buffer
}

// NewSimModem returns a simulated modem reporting the given identity.
func NewSimModem(identity string) *SimModem {
	return &SimModem{Identity: identity, FailIndex: -1}
}

// Write accepts one command line and queues the response.
func (s *SimModem) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd := strings.TrimSpace(string(p))
	switch {
	case cmd == CmdPowerOff:
		s.PoweredOff = true
		s.reply(finalOK)
	case cmd == CmdReadIdentity:
		s.reply(s.Identity, finalOK)
	case strings.HasPrefix(cmd, "AT%CMNG="):
		s.handleCredentialWrite(cmd)
	default:
		s.reply(finalError)
	}
	return len(p), nil
}

// Read drains queued response bytes.
func (s *SimModem) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Read(p)
}

func (s *SimModem) handleCredentialWrite(cmd string) {
	if !s.PoweredOff {
		// The real key store rejects writes while the modem is active.
		s.reply(fmt.Sprintf("%s %d", cmeErrPrefix, CMENotAllowed))
		return
	}

	idx := s.writes
	s.writes++
	if idx == s.FailIndex {
		s.reply(fmt.Sprintf("%s %d", cmeErrPrefix, s.FailCode))
		return
	}

	cred, ok := parseCredentialWrite(cmd)
	if !ok {
		s.reply(finalError)
		return
	}
	s.Stored = append(s.Stored, cred)
	s.reply(finalOK)
}

// parseCredentialWrite decodes AT%CMNG=0,<tag>,<type>,"<content>".
func parseCredentialWrite(cmd string) (StoredCredential, bool) {
	args := strings.TrimPrefix(cmd, "AT%CMNG=")
	parts := strings.SplitN(args, ",", 4)
	if len(parts) != 4 || parts[0] != strconv.Itoa(credentialWriteOpcode) {
		return StoredCredential{}, false
	}

	tag, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return StoredCredential{}, false
	}
	kind, err := strconv.ParseUint(parts[2], 10, 8)
	if err != nil {
		return StoredCredential{}, false
	}

	content := parts[3]
	if len(content) < 2 || content[0] != '"' || content[len(content)-1] != '"' {
		return StoredCredential{}, false
	}

	return StoredCredential{
		Tag:     uint32(tag),
		Kind:    credblob.Kind(kind),
		Payload: []byte(content[1 : len(content)-1]),
	}, true
}

func (s *SimModem) reply(lines ...string) {
	for _, l := range lines {
		s.out.WriteString(l)
		s.out.WriteString("\r\n")
	}
}
