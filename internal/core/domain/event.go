package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventVersion is the current audit event schema version
const EventVersion = 1

// EventSource identifies the component that emitted an event
type EventSource string

const (
	SourceAPI     EventSource = "api"
	SourceScanner EventSource = "scanner"
)

// Audit event names. The set is closed: emission of anything else is
// rejected by Validate.
const (
	EventInitiated     = "upload.initiated"
	EventChunkReceived = "upload.chunk.received"
	EventScanStarted   = "upload.scan.started"
	EventScanCompleted = "upload.scan.completed"
	EventScanFailed    = "upload.scan.failed"
	EventFinalized     = "upload.finalized"
	EventFailed        = "upload.failed"
	EventPublished     = "upload.published"
)

var eventNames = map[string]struct{}{
	EventInitiated:     {},
	EventChunkReceived: {},
	EventScanStarted:   {},
	EventScanCompleted: {},
	EventScanFailed:    {},
	EventFinalized:     {},
	EventFailed:        {},
	EventPublished:     {},
}

var eventSources = map[EventSource]struct{}{
	SourceAPI:     {},
	SourceScanner: {},
}

// failureReasons whitelists the values accepted in payload["reason"]. It
// covers the full finalize reason taxonomy plus the scanner-side reasons, so
// every reason actually emitted passes validation.
var failureReasons = map[string]struct{}{
	ReasonInvalidFilename:    {},
	ReasonFinalizeInProgress: {},
	ReasonFinalizeLocked:     {},
	ReasonMissingChunks:      {},
	ReasonOrphanUpload:       {},
	ReasonSizeMismatch:       {},
	ReasonFSRace:             {},
	ReasonContractMismatch:   {},
	ReasonScannerUnavailable: {},
	ReasonInternal:           {},
	"scanner_timeout":        {},
	"infected_file":          {},
	"integrity_mismatch":     {},
	"internal_error":         {},
}

// UploadEvent is one append-only audit record. Events are never mutated or
// deleted; they are the only durable record of why an upload ended in a given
// state.
type UploadEvent struct {
	EventName    string         `json:"event_name"`
	EventVersion int            `json:"event_version"`
	UploadID     uuid.UUID      `json:"upload_id"`
	Source       EventSource    `json:"source"`
	Payload      map[string]any `json:"payload"`
	CreatedAt    time.Time      `json:"created_at"`
}

// NewEvent builds an UploadEvent at the current schema version.
func NewEvent(name string, uploadID uuid.UUID, source EventSource, payload map[string]any) UploadEvent {
	if payload == nil {
		payload = map[string]any{}
	}
	return UploadEvent{
		EventName:    name,
		EventVersion: EventVersion,
		UploadID:     uploadID,
		Source:       source,
		Payload:      payload,
		CreatedAt:    time.Now().UTC(),
	}
}

// Validate rejects unknown event names, sources and payload reasons at
// emission time, before the event reaches any sink.
func (e UploadEvent) Validate() error {
	if _, ok := eventNames[e.EventName]; !ok {
		return fmt.Errorf("invalid event_name: %s", e.EventName)
	}

	if _, ok := eventSources[e.Source]; !ok {
		return fmt.Errorf("invalid source: %s", e.Source)
	}

	if e.UploadID == uuid.Nil {
		return fmt.Errorf("invalid upload_id")
	}

	if reason, ok := e.Payload["reason"]; ok {
		r, isString := reason.(string)
		if !isString {
			return fmt.Errorf("invalid failure reason: %v", reason)
		}
		if _, known := failureReasons[r]; !known {
			return fmt.Errorf("invalid failure reason: %s", r)
		}
	}

	return nil
}
