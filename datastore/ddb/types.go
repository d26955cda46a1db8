/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"time"

	"github.com/suparena/gridstore/codec"
	"github.com/suparena/gridstore/datastore"
	"github.com/suparena/gridstore/registry"
)

// A value of an overridden type is stored as a map of the codec name and the
// encoded string.
const (
	codecAttr = "_codec"
	valueAttr = "_value"
)

var _ datastore.TypeOverrider = (*Dialect)(nil)

// OverrideType stores times and byte slices through the codec registry.
func (d *Dialect) OverrideType(value any) (string, bool) {
	return overrideType(value)
}

func overrideType(value any) (string, bool) {
	switch value.(type) {
	case time.Time:
		return codec.Timestamp.CodecName(), true
	case []byte:
		return codec.Blob.CodecName(), true
	}
	return "", false
}

// encodeValue replaces every overridden value, including those nested in
// rows and role maps, by its codec envelope.
func encodeValue(v any) (any, error) {
	if name, ok := overrideType(v); ok {
		c, err := registry.GetCodec(name)
		if err != nil {
			return nil, err
		}
		s, err := c.EncodeValue(v)
		if err != nil {
			return nil, err
		}
		return map[string]any{codecAttr: name, valueAttr: s}, nil
	}

	switch x := v.(type) {
	case map[string]any:
		return encodeMap(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			e, err := encodeValue(x[i])
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	case []map[string]any:
		out := make([]any, len(x))
		for i := range x {
			e, err := encodeMap(x[i])
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	case map[string][]map[string]any:
		out := make(map[string]any, len(x))
		for k, rows := range x {
			e, err := encodeValue(rows)
			if err != nil {
				return nil, err
			}
			out[k] = e
		}
		return out, nil
	}
	return v, nil
}

func encodeMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, e := range m {
		enc, err := encodeValue(e)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = enc
	}
	return out, nil
}

// decodeEnvelope decodes m when it is a codec envelope.
func decodeEnvelope(m map[string]any) (any, bool, error) {
	if len(m) != 2 {
		return nil, false, nil
	}
	name, ok := m[codecAttr].(string)
	if !ok {
		return nil, false, nil
	}
	s, ok := m[valueAttr].(string)
	if !ok {
		return nil, false, nil
	}
	c, err := registry.GetCodec(name)
	if err != nil {
		return nil, true, err
	}
	v, err := c.DecodeValue(s)
	return v, true, err
}
