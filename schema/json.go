package schema

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

var _ json.MarshalerTo = (*Node)(nil)

// MarshalJSONTo writes n as JSON, keeping object keys in declaration order.
func (n *Node) MarshalJSONTo(enc *jsontext.Encoder) error {
	if n == nil {
		return enc.WriteToken(jsontext.Null)
	}
	switch n.kind {
	case KindNull:
		return enc.WriteToken(jsontext.Null)
	case KindBool:
		return enc.WriteToken(jsontext.Bool(n.text == "true"))
	case KindString:
		return enc.WriteToken(jsontext.String(n.text))
	case KindNumber:
		return writeNumber(enc, n.text)
	case KindArray:
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for _, item := range n.items {
			if err := item.MarshalJSONTo(enc); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndArray)
	case KindObject:
		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return err
		}
		for _, key := range n.keys {
			if err := enc.WriteToken(jsontext.String(key)); err != nil {
				return err
			}
			if err := n.props[key].MarshalJSONTo(enc); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndObject)
	}
	return fmt.Errorf("unknown node kind %d", n.kind)
}

// writeNumber converts YAML number spellings (0x1F, 1_000, .5) into JSON numbers.
func writeNumber(enc *jsontext.Encoder, text string) error {
	if v := jsontext.Value(text); v.IsValid() {
		return enc.WriteValue(v)
	}
	clean := strings.ReplaceAll(text, "_", "")
	if i, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return enc.WriteToken(jsontext.Int(i))
	}
	if f, err := strconv.ParseFloat(clean, 64); err == nil {
		return enc.WriteToken(jsontext.Float(f))
	}
	return enc.WriteToken(jsontext.String(text))
}

// JSON returns the compact JSON encoding of n.
func (n *Node) JSON() ([]byte, error) {
	return json.Marshal(n)
}

// Canonical returns the RFC 8785 canonical JSON form of n. Two nodes with the
// same canonical form are structurally identical regardless of key order.
func (n *Node) Canonical() ([]byte, error) {
	data, err := n.JSON()
	if err != nil {
		return nil, err
	}
	v := jsontext.Value(data)
	if err := v.Canonicalize(); err != nil {
		return nil, err
	}
	return v, nil
}

// Equal reports whether n and other describe the same JSON value.
func (n *Node) Equal(other *Node) bool {
	if n == other {
		return true
	}
	a, err := n.Canonical()
	if err != nil {
		return false
	}
	b, err := other.Canonical()
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}
