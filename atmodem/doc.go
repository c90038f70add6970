// Package atmodem implements the textual command/response protocol used to
// control the modem during credential provisioning.
//
// # Protocol Overview
//
// Commands are single lines terminated with CRLF. The modem answers with
// zero or more payload lines followed by a final result line:
//
//	Command:  AT+CGSN<CR><LF>
//	Response: 352656100367872<CR><LF>
//	          OK<CR><LF>
//
// Final result lines are "OK", "ERROR", or "+CME ERROR: <code>". Payload
// bytes outside the printable ASCII range are stripped before use.
//
// Three commands are used here:
//
//	AT+CFUN=0              power the modem down (required before key writes)
//	AT+CGSN                read the device identity (IMEI)
//	AT%CMNG=0,<tag>,<type>,"<content>"   write one credential to the key store
//
// # Usage
//
// Modem wraps any io.ReadWriter carrying the AT dialogue (a UART, a USB
// CDC port, or SimModem for hosted runs):
//
//	modem := atmodem.New(port)
//	if err := modem.PowerOff(ctx); err != nil {
//	    return err
//	}
//	imei, err := modem.ReadIdentity(ctx)
//
// # Error Handling
//
// A "+CME ERROR: <code>" final result is returned as a *CMEError carrying
// the numeric code, which the provisioning state machine records as the
// region's completion code. A bare "ERROR" is returned as a *CommandError.
package atmodem
