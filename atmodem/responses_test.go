package atmodem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "clean", in: "352656100367872", want: "352656100367872"},
		{name: "crlf framing", in: "\r\n352656100367872\r\n", want: "352656100367872"},
		{name: "control bytes", in: "35\x0026\x0156100367872\x7f", want: "352656100367872"},
		{name: "space kept", in: "a b", want: "a b"},
		{name: "empty", in: "\r\n\x00", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestParseFinalResult(t *testing.T) {
	final, err := ParseFinalResult("OK")
	assert.True(t, final)
	assert.NoError(t, err)

	final, err = ParseFinalResult("ERROR")
	assert.True(t, final)
	var cerr *CommandError
	require.ErrorAs(t, err, &cerr)

	final, err = ParseFinalResult("+CME ERROR: 513")
	assert.True(t, final)
	var cme *CMEError
	require.ErrorAs(t, err, &cme)
	assert.Equal(t, int32(513), cme.Code)
	assert.Equal(t, int32(513), cme.FailureCode())

	final, err = ParseFinalResult("352656100367872")
	assert.False(t, final)
	assert.NoError(t, err)

	// Malformed code still terminates the exchange.
	final, err = ParseFinalResult("+CME ERROR: banana")
	assert.True(t, final)
	require.ErrorAs(t, err, &cerr)
}

func TestCMEErrorMessage(t *testing.T) {
	assert.Contains(t, (&CMEError{Code: CMEMemoryFull}).Error(), "memory full")
	assert.Contains(t, (&CMEError{Code: 999}).Error(), "unknown error")
}
