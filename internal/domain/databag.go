package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrNonScalarValue = errors.New("data values must be strings, numbers or booleans")

const dateLayout = "2006-01-02"

type Kind int

const (
	KindString Kind = iota + 1
	KindNumber
	KindBool
	KindDate
)

// Value is a single scalar held in a DataBag.
type Value struct {
	kind Kind
	s    string
	n    float64
	b    bool
	t    time.Time
}

func String(s string) Value { return Value{kind: KindString, s: s} }

func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

func (v Value) Kind() Kind { return v.kind }

// Text renders the value the way it would appear in a form input.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDate:
		return formatDate(v.t)
	default:
		return ""
	}
}

// Float returns the numeric reading of the value. Strings holding a number
// count as numbers; this is how values posted by HTML forms arrive.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.n, true
	case KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func (v Value) IsEmpty() bool {
	return v.kind == 0 || (v.kind == KindString && strings.TrimSpace(v.s) == "")
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return []byte(strconv.FormatFloat(v.n, 'f', -1, 64)), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindDate:
		return json.Marshal(formatDate(v.t))
	default:
		return json.Marshal(v.s)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch x := raw.(type) {
	case string:
		*v = String(x)
	case bool:
		*v = Bool(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return fmt.Errorf("invalid number %s: %w", x, err)
		}
		*v = Number(n)
	default:
		return ErrNonScalarValue
	}

	return nil
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(time.RFC3339)
}

// DataBag is an ordered set of named scalar values. Keys keep the order in
// which they were first set, and that order survives a JSON round trip.
type DataBag struct {
	keys   []string
	values map[string]Value
}

func (b *DataBag) Set(key string, v Value) {
	if b.values == nil {
		b.values = make(map[string]Value)
	}
	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.values[key] = v
}

func (b DataBag) Get(key string) (Value, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Text returns the text of key, or "" when it is absent.
func (b DataBag) Text(key string) string {
	v, ok := b.values[key]
	if !ok {
		return ""
	}
	return v.Text()
}

func (b DataBag) Keys() []string {
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	return keys
}

func (b DataBag) Len() int {
	return len(b.keys)
}

func (b DataBag) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := b.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (b *DataBag) UnmarshalJSON(data []byte) error {
	*b = DataBag{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("data must be a JSON object")
	}

	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errors.New("data keys must be strings")
		}

		var raw json.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return err
		}

		var v Value
		if err = v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("data.%s: %w", key, err)
		}
		b.Set(key, v)
	}

	if _, err = dec.Token(); err != nil {
		return err
	}

	return nil
}
