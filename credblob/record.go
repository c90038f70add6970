package credblob

import "fmt"

// Kind discriminates the role of a credential within its tag group.
// Values match the modem key-management credential types.
type Kind byte

const (
	// KindRootCA is a root CA certificate
	KindRootCA Kind = 0

	// KindClientCert is a client certificate
	KindClientCert Kind = 1

	// KindClientKey is a client private key
	KindClientKey Kind = 2

	// KindPSK is a TLS pre-shared key
	KindPSK Kind = 3

	// KindPSKIdentity is the identity string paired with a pre-shared key
	KindPSKIdentity Kind = 4
)

// String returns a human-readable name for the credential kind.
func (k Kind) String() string {
	switch k {
	case KindRootCA:
		return "root-ca"
	case KindClientCert:
		return "client-cert"
	case KindClientKey:
		return "client-key"
	case KindPSK:
		return "psk"
	case KindPSKIdentity:
		return "psk-id"
	default:
		return fmt.Sprintf("unknown-kind-0x%02X", byte(k))
	}
}

// Record is a single credential to forward to the modem key store.
type Record struct {
	// Tag groups related credentials, e.g. all parts of one TLS identity
	Tag uint32

	// Kind is the credential's role within the tag group
	Kind Kind

	// Payload is the opaque credential content. Its length is encoded as
	// the record's 16-bit length field; the payload is not interpreted here.
	Payload []byte
}
