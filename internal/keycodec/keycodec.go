/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package keycodec encodes key components into escaped strings that can be
// joined with reserved separators without ambiguity.
package keycodec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// Separator joins the components of a composite key.
	Separator = ':'
	// PairSeparator joins a column name with its value.
	PairSeparator = '='
	// ListSeparator joins column pairs.
	ListSeparator = ','

	escapeChar = '\\'
	tagChar    = '#'
)

// ErrMalformed is returned when an encoded string cannot be decoded.
var ErrMalformed = errors.New("keycodec: malformed encoded key")

func isReserved(c byte) bool {
	return c == escapeChar || c == Separator || c == PairSeparator || c == ListSeparator
}

// Escape backslash-escapes every reserved character of s.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if isReserved(s[i]) {
			b.WriteByte(escapeChar)
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Unescape reverses Escape.
func Unescape(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == escapeChar {
			i++
			if i == len(s) || !isReserved(s[i]) {
				return "", fmt.Errorf("%w: dangling escape in %q", ErrMalformed, s)
			}
			b.WriteByte(s[i])
			continue
		}
		if isReserved(c) {
			return "", fmt.Errorf("%w: unescaped %q in %q", ErrMalformed, c, s)
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// Split cuts s at every unescaped occurrence of sep. The parts keep their
// escapes so they can be split again with a different separator.
func Split(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case escapeChar:
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// Join escapes every part and joins them with Separator.
func Join(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = Escape(p)
	}
	return strings.Join(escaped, string(Separator))
}

// FormatValue renders a key value as an unescaped string. Strings are kept
// verbatim unless they start with the tag character; every other supported
// type carries a one letter type tag so that values of different types never
// render the same way.
func FormatValue(v any) (string, error) {
	switch tv := v.(type) {
	case string:
		if strings.HasPrefix(tv, string(tagChar)) {
			return "#s" + tv, nil
		}
		return tv, nil
	case bool:
		return "#b" + strconv.FormatBool(tv), nil
	case int:
		return "#i" + strconv.FormatInt(int64(tv), 10), nil
	case int8:
		return "#i" + strconv.FormatInt(int64(tv), 10), nil
	case int16:
		return "#i" + strconv.FormatInt(int64(tv), 10), nil
	case int32:
		return "#i" + strconv.FormatInt(int64(tv), 10), nil
	case int64:
		return "#i" + strconv.FormatInt(tv, 10), nil
	case uint:
		return "#u" + strconv.FormatUint(uint64(tv), 10), nil
	case uint8:
		return "#u" + strconv.FormatUint(uint64(tv), 10), nil
	case uint16:
		return "#u" + strconv.FormatUint(uint64(tv), 10), nil
	case uint32:
		return "#u" + strconv.FormatUint(uint64(tv), 10), nil
	case uint64:
		return "#u" + strconv.FormatUint(tv, 10), nil
	case float32:
		return "#f" + strconv.FormatFloat(float64(tv), 'g', -1, 32), nil
	case float64:
		return "#f" + strconv.FormatFloat(tv, 'g', -1, 64), nil
	case time.Time:
		return "#t" + tv.UTC().Format(time.RFC3339Nano), nil
	default:
		return "", fmt.Errorf("keycodec: unsupported key value type %T", v)
	}
}

// ParseValue reverses FormatValue. Integers come back as int64, unsigned
// integers as uint64 and floats as float64.
func ParseValue(s string) (any, error) {
	if !strings.HasPrefix(s, string(tagChar)) {
		return s, nil
	}
	if len(s) < 2 {
		return nil, fmt.Errorf("%w: missing type tag in %q", ErrMalformed, s)
	}
	body := s[2:]
	switch s[1] {
	case 's':
		return body, nil
	case 'b':
		return strconv.ParseBool(body)
	case 'i':
		return strconv.ParseInt(body, 10, 64)
	case 'u':
		return strconv.ParseUint(body, 10, 64)
	case 'f':
		return strconv.ParseFloat(body, 64)
	case 't':
		return time.Parse(time.RFC3339Nano, body)
	default:
		return nil, fmt.Errorf("%w: unknown type tag %q", ErrMalformed, s[1])
	}
}

// Supported reports whether v can be used as a key value.
func Supported(v any) bool {
	_, err := FormatValue(v)
	return err == nil
}

// EncodeColumns renders ordered name/value pairs as
// "name1=value1,name2=value2" with every name and value escaped.
func EncodeColumns(names []string, values []any) (string, error) {
	if len(names) != len(values) {
		return "", fmt.Errorf("keycodec: %d column names for %d values", len(names), len(values))
	}
	var b strings.Builder
	for i, name := range names {
		v, err := FormatValue(values[i])
		if err != nil {
			return "", fmt.Errorf("column %q: %w", name, err)
		}
		if i > 0 {
			b.WriteByte(ListSeparator)
		}
		b.WriteString(Escape(name))
		b.WriteByte(PairSeparator)
		b.WriteString(Escape(v))
	}
	return b.String(), nil
}

// DecodeColumns reverses EncodeColumns.
func DecodeColumns(s string) ([]string, []any, error) {
	if s == "" {
		return nil, nil, nil
	}
	pairs := Split(s, ListSeparator)
	names := make([]string, 0, len(pairs))
	values := make([]any, 0, len(pairs))
	for _, pair := range pairs {
		nv := Split(pair, PairSeparator)
		if len(nv) != 2 {
			return nil, nil, fmt.Errorf("%w: column pair %q", ErrMalformed, pair)
		}
		name, err := Unescape(nv[0])
		if err != nil {
			return nil, nil, err
		}
		raw, err := Unescape(nv[1])
		if err != nil {
			return nil, nil, err
		}
		v, err := ParseValue(raw)
		if err != nil {
			return nil, nil, err
		}
		names = append(names, name)
		values = append(values, v)
	}
	return names, values, nil
}
