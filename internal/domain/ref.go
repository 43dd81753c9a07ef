package domain

import (
	"bytes"
	"encoding/json"
)

// Ref is a reference to another entity that MecaLink returns either as a
// bare id or as the populated object.
type Ref[T any] struct {
	ID    string
	Value *T
}

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}

	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref[T]{ID: id}
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.Value = &v
	r.ID = ""
	if e, ok := any(v).(interface{ EntityID() string }); ok {
		r.ID = e.EntityID()
	}

	return nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Value != nil {
		return json.Marshal(r.Value)
	}
	if r.ID != "" {
		return json.Marshal(r.ID)
	}

	return []byte("null"), nil
}

func (r Ref[T]) Populated() bool { return r.Value != nil }
