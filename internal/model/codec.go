package model

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrRecordTooLarge is returned when a record being encoded exceeds its MaxSize.
	ErrRecordTooLarge = errors.New("record exceeds maximum size")
	// ErrCorruptRecord is returned when stored bytes cannot be decoded,
	// including stored values longer than MaxSize.
	ErrCorruptRecord = errors.New("corrupt record")
)

// Record is implemented by every stored entity type.
//
// MarshalBinary must be deterministic and lossless: decoding its output with
// the matching UnmarshalBinary yields an equal value. Encodings longer than
// MaxSize are rejected on both paths.
type Record interface {
	encoding.BinaryMarshaler
	MaxSize() int
}

// marshalRecord encodes v as compact JSON with HTML escaping disabled.
// Struct fields are emitted in declaration order, so output is deterministic.
func marshalRecord(kind string, v any, maxSize int) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshal %s: %w", kind, err)
	}
	// Encoder adds a trailing newline, remove it
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	if len(data) > maxSize {
		return nil, fmt.Errorf("marshal %s: %w (%d > %d bytes)", kind, ErrRecordTooLarge, len(data), maxSize)
	}
	return data, nil
}

// unmarshalRecord decodes data produced by marshalRecord into v.
// Unknown fields are rejected so schema drift is caught on read.
func unmarshalRecord(kind string, data []byte, maxSize int, v any) error {
	if len(data) > maxSize {
		return fmt.Errorf("unmarshal %s: %w: %d > %d bytes", kind, ErrCorruptRecord, len(data), maxSize)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("unmarshal %s: %w: %w", kind, ErrCorruptRecord, err)
	}
	return nil
}
