package atmodem

import (
	"strconv"
	"strings"
)

// Final result line markers.
const (
	finalOK      = "OK"
	finalError   = "ERROR"
	cmeErrPrefix = "+CME ERROR:"
	printableMin = 32
	printableMax = 126
)

// Sanitize strips every byte outside the printable ASCII range. Modem
// responses arrive with CR/LF framing and occasionally stray control
// bytes; only the printable content is used.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= printableMin && s[i] <= printableMax {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// ParseFinalResult classifies a response line. It returns final=false for
// payload lines. For final lines, err is nil for "OK", a *CommandError for
// "ERROR", and a *CMEError for "+CME ERROR: <code>".
func ParseFinalResult(line string) (final bool, err error) {
	switch {
	case line == finalOK:
		return true, nil
	case line == finalError:
		return true, &CommandError{}
	case strings.HasPrefix(line, cmeErrPrefix):
		rest := strings.TrimSpace(strings.TrimPrefix(line, cmeErrPrefix))
		code, perr := strconv.ParseInt(rest, 10, 32)
		if perr != nil {
			// Malformed code still terminates the response.
			return true, &CommandError{}
		}
		return true, &CMEError{Code: int32(code)}
	default:
		return false, nil
	}
}
