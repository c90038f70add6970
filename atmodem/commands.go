package atmodem

import (
	"fmt"

	"github.com/ltefleet/go-credprov/credblob"
)

// Commands consumed during provisioning.
const (
	// CmdPowerOff sets the modem to minimum functionality. The key store
	// rejects writes while the modem is active, so this always runs first.
	CmdPowerOff = "AT+CFUN=0"

	// CmdReadIdentity requests the device IMEI
	CmdReadIdentity = "AT+CGSN"
)

// credentialWriteOpcode is the %CMNG opcode for writing a credential.
const credentialWriteOpcode = 0

// BuildWriteCredentialCmd constructs the key-store write command for one
// credential record:
//
//	AT%CMNG=0,<tag>,<type>,"<content>"
//
// The payload is passed through verbatim inside the quotes; callers
// must reject quote-bearing payloads first (Modem.WriteCredential does).
func BuildWriteCredentialCmd(tag uint32, kind credblob.Kind, payload []byte) string {
	return fmt.Sprintf("AT%%CMNG=%d,%d,%d,\"%s\"", credentialWriteOpcode, tag, byte(kind), payload)
}
