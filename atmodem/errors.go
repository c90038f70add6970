package atmodem

import "fmt"

// CME error codes the key store is known to return.
const (
	// CMENotFound: no credential at the given tag/type
	CMENotFound int32 = 513

	// CMENoAccess: access to the credential denied
	CMENoAccess int32 = 514

	// CMEMemoryFull: the credential store is full
	CMEMemoryFull int32 = 515

	// CMENotAllowed: operation not allowed while the modem is active
	CMENotAllowed int32 = 518
)

// CMEError is a "+CME ERROR: <code>" final result from the modem.
type CMEError struct {
	// Code is the numeric CME error code
	Code int32
}

func (e *CMEError) Error() string {
	return fmt.Sprintf("+CME ERROR %d (%s)", e.Code, cmeErrorName(e.Code))
}

// FailureCode returns the numeric code to record as the region's
// completion code when this error aborts the provisioning loop.
func (e *CMEError) FailureCode() int32 {
	return e.Code
}

// cmeErrorName returns a human-readable name for a CME error code.
func cmeErrorName(code int32) string {
	switch code {
	case CMENotFound:
		return "not found"
	case CMENoAccess:
		return "no access"
	case CMEMemoryFull:
		return "memory full"
	case CMENotAllowed:
		return "not allowed in active state"
	default:
		return "unknown error"
	}
}

// PayloadError reports credential content that cannot be framed inside
// the command's quoted argument. Nothing is sent to the modem.
type PayloadError struct {
	// Tag is the credential's tag
	Tag uint32
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("credential tag %d: payload contains a quote character", e.Tag)
}

// CommandError is a bare "ERROR" final result, with no code attached.
type CommandError struct {
	// Cmd is the command that failed, when known
	Cmd string
}

func (e *CommandError) Error() string {
	if e.Cmd == "" {
		return "modem returned ERROR"
	}
	return fmt.Sprintf("%s failed: modem returned ERROR", e.Cmd)
}
