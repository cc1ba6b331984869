package session

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	recordFormatVersionCurrent = 1
)

// ErrUnsupportedSchema is returned when a persisted record carries an
// unknown schema version.
var ErrUnsupportedSchema = errors.New("unsupported session schema version")

// ErrCorruptRecord is returned when a persisted record cannot be decoded.
var ErrCorruptRecord = errors.New("corrupt session record")

// Encode serializes r as a schema byte followed by its JSON form.
func Encode(r Record) ([]byte, error) {
	if len(r.Identity) == 0 {
		return nil, errors.New("record identity required")
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(payload)+1)
	out = append(out, recordFormatVersionCurrent)
	out = append(out, payload...)
	return out, nil
}

// Decode parses data produced by [Encode].
func Decode(data []byte) (Record, error) {
	if len(data) < 2 {
		return Record{}, ErrCorruptRecord
	}

	switch data[0] {
	case recordFormatVersionCurrent:
	default:
		return Record{}, fmt.Errorf("%w: %d", ErrUnsupportedSchema, data[0])
	}

	var r Record
	if err := json.Unmarshal(data[1:], &r); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if len(r.Identity) == 0 {
		return Record{}, fmt.Errorf("%w: missing identity", ErrCorruptRecord)
	}
	return r, nil
}
