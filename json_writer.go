package cryptofolio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter builds a JSON object with a stable field order, so that the
// persisted collections diff nicely between two saves.
// Its zero value is ready to use.
type jsonObjectWriter struct {
	fields bytes.Buffer
	err    error
}

// Append adds a field. Both key and value are encoded with json.Marshal; the
// first failure is kept and reported by MarshalJSON.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	k, _ := json.Marshal(key)
	v, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("cannot encode field %s: %w", k, err)
		return w
	}
	if w.fields.Len() > 0 {
		w.fields.WriteByte(',')
	}
	w.fields.Write(k)
	w.fields.WriteByte(':')
	w.fields.Write(v)
	return w
}

// Optional appends a field only if value is not its type's zero value.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON returns the object built so far.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, w.fields.Len()+2)
	out = append(out, '{')
	out = append(out, w.fields.Bytes()...)
	return append(out, '}'), nil
}
