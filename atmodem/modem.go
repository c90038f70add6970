package atmodem

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ltefleet/go-credprov/credblob"
)

// Modem drives the AT dialogue over any io.ReadWriter carrying the modem's
// command channel. It implements both collaborator roles the provisioning
// driver needs: power/identity control and the credential key store.
type Modem struct {
	port io.ReadWriter
	r    *bufio.Reader
}

// New returns a Modem speaking over port.
// The port must implement io.ReadWriter for communication with the modem.
func New(port io.ReadWriter) *Modem {
	if port == nil {
		panic("port cannot be nil")
	}
	return &Modem{port: port, r: bufio.NewReader(port)}
}

// Execute sends one command and collects the response payload lines up to
// the final result line. A non-OK final result is returned as the error.
func (m *Modem) Execute(ctx context.Context, cmd string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := io.WriteString(m.port, cmd+"\r\n"); err != nil {
		return nil, fmt.Errorf("write command: %w", err)
	}

	var payload []string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := m.r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		line := strings.TrimRight(raw, "\r\n")
		if line == "" || line == cmd {
			// Blank framing line or command echo.
			continue
		}

		final, ferr := ParseFinalResult(line)
		if !final {
			payload = append(payload, line)
			continue
		}
		if cerr, ok := ferr.(*CommandError); ok && cerr.Cmd == "" {
			cerr.Cmd = cmd
		}
		return payload, ferr
	}
}

// PowerOff sets the modem to minimum functionality. The credential store
// only accepts writes while the modem is powered down.
func (m *Modem) PowerOff(ctx context.Context) error {
	_, err := m.Execute(ctx, CmdPowerOff)
	return err
}

// ReadIdentity reads the device identity (IMEI) and sanitizes it down to
// printable ASCII.
func (m *Modem) ReadIdentity(ctx context.Context) (string, error) {
	lines, err := m.Execute(ctx, CmdReadIdentity)
	if err != nil {
		return "", err
	}

	identity := Sanitize(strings.Join(lines, ""))
	if identity == "" {
		return "", fmt.Errorf("empty identity response")
	}
	return identity, nil
}

// WriteCredential forwards one credential record to the modem key store.
// A key-store rejection surfaces as a *CMEError carrying the modem's code.
// A payload containing a quote character cannot be framed and is rejected
// with a *PayloadError before anything is sent.
func (m *Modem) WriteCredential(ctx context.Context, tag uint32, kind credblob.Kind, payload []byte) error {
	if bytes.IndexByte(payload, '"') >= 0 {
		return &PayloadError{Tag: tag}
	}
	_, err := m.Execute(ctx, BuildWriteCredentialCmd(tag, kind, payload))
	return err
}
