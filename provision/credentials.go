package provision

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ltefleet/go-credprov/credblob"
)

// Completion codes recorded into the region. Positive codes come from the
// key store verbatim; negative codes are reserved for conditions detected
// here. -1 is never used: its raw encoding collides with the blank
// completion sentinel.
const (
	// CodeSuccess means every staged record was accepted
	CodeSuccess int32 = 0

	// CodeTruncated means a staged record ran past the region end
	CodeTruncated int32 = -2

	// CodeExternalFailure means a key-store write failed without a
	// modem-reported code
	CodeExternalFailure int32 = -3
)

// Outcome classifies the credential stage of a run.
type Outcome int

const (
	// OutcomeAlreadyCompleted means a prior run recorded an outcome; the
	// write-once guard made this run a no-op
	OutcomeAlreadyCompleted Outcome = iota

	// OutcomeNothingStaged means the region holds no records; the
	// completion code was left blank
	OutcomeNothingStaged

	// OutcomeSuccess means every staged record was forwarded and accepted
	OutcomeSuccess

	// OutcomeTruncated means the staged data ended mid-record
	OutcomeTruncated

	// OutcomeFailed means the key store rejected a record
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAlreadyCompleted:
		return "already completed"
	case OutcomeNothingStaged:
		return "nothing staged"
	case OutcomeSuccess:
		return "success"
	case OutcomeTruncated:
		return "truncated"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// CredentialResult is the outcome of one credential forwarding pass.
type CredentialResult struct {
	// Outcome classifies what the pass did
	Outcome Outcome

	// Code is the completion code now recorded in the region. For
	// OutcomeAlreadyCompleted it is the prior run's code; for
	// OutcomeNothingStaged it is meaningless.
	Code int32

	// Written counts the records the key store accepted this pass
	Written int

	// Err is the failure that stopped the pass, if any
	Err error
}

// WriteCredentials forwards the staged records to the key store and
// records the outcome as the region's completion code.
//
// An already-recorded completion code makes the whole call a no-op; a
// region with nothing staged is also a no-op but leaves the code blank.
// Otherwise the staged records are forwarded in order and the pass stops
// at the first rejection or truncation, recording its code. Records after
// a failure are never attempted.
//
// The returned error reports only infrastructure trouble (unreadable
// region, unwritable completion field); key-store rejections are recorded
// outcomes, reported through the CredentialResult.
func (p *Provisioner) WriteCredentials(ctx context.Context) (*CredentialResult, error) {
	log := p.cfg.Logger
	layout := p.cfg.Layout

	region := make([]byte, credblob.RegionSize)
	if _, err := p.store.ReadAt(region, layout.Base); err != nil {
		return nil, fmt.Errorf("read credential region at 0x%X: %w", layout.Base, err)
	}

	hdr, err := credblob.ParseHeader(region)
	if err != nil {
		return nil, fmt.Errorf("parse credential region: %w", err)
	}

	if hdr.Completion.Attempted {
		log.Info("provisioning already attempted, skipping", "code", hdr.Completion.Code)
		return &CredentialResult{Outcome: OutcomeAlreadyCompleted, Code: hdr.Completion.Code}, nil
	}
	if !hdr.Count.Staged {
		log.Info("no credentials staged")
		return &CredentialResult{Outcome: OutcomeNothingStaged}, nil
	}

	res := p.forwardRecords(ctx, region[credblob.HeaderSize:], hdr.Count.N)
	if err := p.writeCompletion(res.Code); err != nil {
		return res, err
	}
	log.Info("recorded completion code", "code", res.Code, "written", res.Written)
	return res, nil
}

// forwardRecords walks count staged records and stops at the first
// failure, returning the result carrying the code to record.
func (p *Provisioner) forwardRecords(ctx context.Context, records []byte, count int) *CredentialResult {
	log := p.cfg.Logger
	cur := credblob.NewCursor(records)

	for i := 0; i < count; i++ {
		rec, err := cur.Next()
		if err != nil {
			log.Error("staged record truncated", "record", i+1, "err", err)
			return &CredentialResult{Outcome: OutcomeTruncated, Code: CodeTruncated, Written: i, Err: err}
		}

		p.emit(Event{Phase: PhaseCredentials, Record: i + 1, TotalRecords: count})
		log.Info("writing credential",
			"record", i+1, "total", count,
			"tag", rec.Tag, "kind", rec.Kind.String(), "len", len(rec.Payload))

		if err := p.keys.WriteCredential(ctx, rec.Tag, rec.Kind, rec.Payload); err != nil {
			code := failureCode(err)
			log.Error("key store rejected credential",
				"record", i+1, "tag", rec.Tag, "code", code, "err", err)
			return &CredentialResult{Outcome: OutcomeFailed, Code: code, Written: i, Err: err}
		}
	}

	return &CredentialResult{Outcome: OutcomeSuccess, Code: CodeSuccess, Written: count}
}

// writeCompletion records code into the region's completion field. Every
// byte is feasibility-checked first; an infeasible byte aborts the write
// before anything is programmed.
func (p *Provisioner) writeCompletion(code int32) error {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], credblob.Completion{Attempted: true, Code: code}.Encode())

	addr := p.cfg.Layout.CompletionAddr()
	for i, b := range raw {
		if !p.store.CanWrite(addr+uint32(i), b) {
			return &InfeasibleWriteError{Addr: addr + uint32(i), Value: b}
		}
	}

	if err := p.store.Write(addr, raw[:]); err != nil {
		return fmt.Errorf("write completion code: %w", err)
	}
	return nil
}

// failureCode maps a key-store error to the completion code to record.
// Errors carrying a modem-reported code expose it through FailureCode;
// anything else records the generic external-failure code. A reported
// code whose raw encoding matches the blank sentinel would make the
// completion write a flash no-op and void the write-once guard, so it
// is recorded as an external failure instead.
func failureCode(err error) int32 {
	var coded interface{ FailureCode() int32 }
	if !errors.As(err, &coded) {
		return CodeExternalFailure
	}

	code := coded.FailureCode()
	if uint32(code) == credblob.BlankCompletion {
		return CodeExternalFailure
	}
	return code
}
