/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/gridstore/errors"
)

// attribute is one named value of an update.
type attribute struct {
	name  string
	value any
}

// updateExpression collects the clauses of an UpdateItem expression with
// positional placeholders.
type updateExpression struct {
	set          []string
	remove       []string
	add          []string
	names        map[string]string
	values       map[string]types.AttributeValue
	placeholders map[string]string
}

func newUpdateExpression() *updateExpression {
	return &updateExpression{
		names:        make(map[string]string),
		values:       make(map[string]types.AttributeValue),
		placeholders: make(map[string]string),
	}
}

func (u *updateExpression) name(attr string) string {
	if p, ok := u.placeholders[attr]; ok {
		return p
	}
	p := fmt.Sprintf("#f%d", len(u.placeholders))
	u.placeholders[attr] = p
	u.names[p] = attr
	return p
}

func (u *updateExpression) value(v any) (string, error) {
	av, err := marshalValue(v)
	if err != nil {
		return "", err
	}
	p := fmt.Sprintf(":v%d", len(u.values))
	u.values[p] = av
	return p, nil
}

// Set adds "name = value".
func (u *updateExpression) Set(attr string, v any) error {
	p, err := u.value(v)
	if err != nil {
		return errors.NewValidationError(attr, err.Error())
	}
	u.set = append(u.set, fmt.Sprintf("%s = %s", u.name(attr), p))
	return nil
}

// SetIfNotExists adds "name = if_not_exists(name, value)".
func (u *updateExpression) SetIfNotExists(attr string, v any) error {
	p, err := u.value(v)
	if err != nil {
		return errors.NewValidationError(attr, err.Error())
	}
	n := u.name(attr)
	u.set = append(u.set, fmt.Sprintf("%s = if_not_exists(%s, %s)", n, n, p))
	return nil
}

// Remove adds name to the REMOVE clause.
func (u *updateExpression) Remove(attr string) {
	u.remove = append(u.remove, u.name(attr))
}

// Add adds "name value" to the ADD clause.
func (u *updateExpression) Add(attr string, v any) error {
	p, err := u.value(v)
	if err != nil {
		return errors.NewValidationError(attr, err.Error())
	}
	u.add = append(u.add, fmt.Sprintf("%s %s", u.name(attr), p))
	return nil
}

// Build renders the expression. It fails when no clause was added.
func (u *updateExpression) Build() (string, map[string]string, map[string]types.AttributeValue, error) {
	var clauses []string
	if len(u.set) > 0 {
		clauses = append(clauses, "SET "+strings.Join(u.set, ", "))
	}
	if len(u.remove) > 0 {
		clauses = append(clauses, "REMOVE "+strings.Join(u.remove, ", "))
	}
	if len(u.add) > 0 {
		clauses = append(clauses, "ADD "+strings.Join(u.add, ", "))
	}
	if len(clauses) == 0 {
		return "", nil, nil, errors.NewValidationError("update", "no updates provided")
	}
	values := u.values
	if len(values) == 0 {
		values = nil
	}
	return strings.Join(clauses, " "), u.names, values, nil
}

// buildUpdateExpression renders SET clauses for sets and REMOVE clauses for
// removes, in the given order.
func buildUpdateExpression(sets []attribute, removes []string) (string, map[string]string, map[string]types.AttributeValue, error) {
	u := newUpdateExpression()
	for _, a := range sets {
		if err := u.Set(a.name, a.value); err != nil {
			return "", nil, nil, err
		}
	}
	for _, name := range removes {
		u.Remove(name)
	}
	return u.Build()
}

// marshalValue converts a column value to an attribute value. Nil becomes
// NULL and overridden types are encoded with their codec.
func marshalValue(v any) (types.AttributeValue, error) {
	if v == nil {
		return &types.AttributeValueMemberNULL{Value: true}, nil
	}
	enc, err := encodeValue(v)
	if err != nil {
		return nil, err
	}
	av, err := attributevalue.Marshal(enc)
	if err != nil {
		return nil, fmt.Errorf("unsupported value of type %T: %w", v, err)
	}
	return av, nil
}

func useNumber(o *attributevalue.DecoderOptions) { o.UseNumber = true }

// unmarshalItem decodes an item keeping numbers exact.
func unmarshalItem(item map[string]types.AttributeValue) (map[string]any, error) {
	var out map[string]any
	err := attributevalue.UnmarshalMapWithOptions(item, &out, useNumber)
	if err != nil {
		return nil, err
	}
	for k, v := range out {
		if out[k], err = normalize(v); err != nil {
			return nil, fmt.Errorf("attribute %s: %w", k, err)
		}
	}
	return out, nil
}

// normalize turns decoded numbers into int64 when integral, float64
// otherwise, and decodes codec envelopes.
func normalize(v any) (any, error) {
	var err error
	switch x := v.(type) {
	case attributevalue.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		if f, err := x.Float64(); err == nil {
			return f, nil
		}
		return string(x), nil
	case []any:
		for i := range x {
			if x[i], err = normalize(x[i]); err != nil {
				return nil, err
			}
		}
		return x, nil
	case map[string]any:
		if decoded, ok, err := decodeEnvelope(x); ok {
			return decoded, err
		}
		for k := range x {
			if x[k], err = normalize(x[k]); err != nil {
				return nil, err
			}
		}
		return x, nil
	}
	return v, nil
}
