/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
)

// TimeLayout is the wire layout of ISO8601Time values.
const TimeLayout = "15:04:05.000Z07:00"

// Codec is the type-erased view of a StringMapped codec, used by the codec
// registry.
type Codec interface {
	CodecName() string
	EncodeValue(v any) (string, error)
	DecodeValue(s string) (any, error)
}

// StringMapped stores values of T as strings in the backend.
type StringMapped[T any] struct {
	Name   string
	Encode func(T) (string, error)
	Decode func(string) (T, error)
}

// CodecName returns the registered name of the codec.
func (c StringMapped[T]) CodecName() string { return c.Name }

// EncodeValue encodes v, which must be a T.
func (c StringMapped[T]) EncodeValue(v any) (string, error) {
	tv, ok := v.(T)
	if !ok {
		var zero T
		return "", fmt.Errorf("codec %s: expected %T, got %T", c.Name, zero, v)
	}
	return c.Encode(tv)
}

// DecodeValue decodes s into a T.
func (c StringMapped[T]) DecodeValue(s string) (any, error) {
	v, err := c.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("codec %s: %w", c.Name, err)
	}
	return v, nil
}

// ISO8601Date stores the UTC calendar date of a time as 2006-01-02.
var ISO8601Date = StringMapped[time.Time]{
	Name: "iso8601_date",
	Encode: func(t time.Time) (string, error) {
		return strfmt.Date(t.UTC()).String(), nil
	},
	Decode: func(s string) (time.Time, error) {
		var d strfmt.Date
		if err := d.UnmarshalText([]byte(s)); err != nil {
			return time.Time{}, err
		}
		return time.Time(d).UTC(), nil
	},
}

// ISO8601Time stores the UTC time of day with millisecond precision.
var ISO8601Time = StringMapped[time.Time]{
	Name: "iso8601_time",
	Encode: func(t time.Time) (string, error) {
		return t.UTC().Format(TimeLayout), nil
	},
	Decode: func(s string) (time.Time, error) {
		t, err := time.Parse(TimeLayout, s)
		if err != nil {
			return time.Time{}, err
		}
		return t.UTC(), nil
	},
}

// ISO8601DateTime stores a UTC timestamp as RFC 3339 with milliseconds.
var ISO8601DateTime = StringMapped[time.Time]{
	Name: "iso8601_datetime",
	Encode: func(t time.Time) (string, error) {
		return t.UTC().Format(strfmt.RFC3339Millis), nil
	},
	Decode: func(s string) (time.Time, error) {
		dt, err := strfmt.ParseDateTime(s)
		if err != nil {
			return time.Time{}, err
		}
		return time.Time(dt).UTC(), nil
	},
}

// Timestamp stores a UTC timestamp as RFC 3339 with nanoseconds, so values
// read back are equal to the ones written.
var Timestamp = StringMapped[time.Time]{
	Name: "rfc3339_timestamp",
	Encode: func(t time.Time) (string, error) {
		return t.UTC().Format(time.RFC3339Nano), nil
	},
	Decode: func(s string) (time.Time, error) {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, err
		}
		return t.UTC(), nil
	},
}

// Blob stores binary values as base64 strings.
var Blob = StringMapped[[]byte]{
	Name: "blob",
	Encode: func(b []byte) (string, error) {
		text, err := strfmt.Base64(b).MarshalText()
		if err != nil {
			return "", err
		}
		return string(text), nil
	},
	Decode: func(s string) ([]byte, error) {
		var b strfmt.Base64
		if err := b.UnmarshalText([]byte(s)); err != nil {
			return nil, err
		}
		return []byte(b), nil
	},
}

// Builtin returns the codecs every registry starts with.
func Builtin() []Codec {
	return []Codec{ISO8601Date, ISO8601Time, ISO8601DateTime, Timestamp, Blob}
}
