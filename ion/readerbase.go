/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package ion

import (
	"math"
	"math/big"
	"time"
)

// reader holds the state shared by the binary and text readers: the
// position in the current value stream (in terms of container nesting),
// whether we've hit the end of the current container, and the currently
// decoded value, if any.
//
// The binary and text readers each embed a reader and fill in valueType,
// value, annotations, and fieldNameSymbol as they scan; the typed
// accessors below interpret whatever the embedding reader left there.
type reader struct {
	ctx ctxstack
	eof bool
	err error

	cat Catalog
	lst SymbolTable

	fieldNameSymbol SymbolToken
	annotations     []string
	valueType       Type
	value           interface{}

	warnings []error
}

// Warnings returns the non-fatal issues noticed so far, such as a negative
// zero integer in the input, which decodes successfully but is something a
// conformant writer would never produce.
func (r *reader) Warnings() []error {
	return r.warnings
}

func (r *reader) addWarning(err error) {
	r.warnings = append(r.warnings, err)
}

// Err returns the error that caused the most recent call to Next to
// return false, if any.
func (r *reader) Err() error {
	return r.err
}

// Type returns the current value's type.
func (r *reader) Type() Type {
	return r.valueType
}

// IsNull returns true if the current value is null.
func (r *reader) IsNull() bool {
	return r.valueType != NoType && r.value == nil
}

// FieldName returns the current value's field name, or "" if the current
// value isn't inside a struct or its field name has no known text.
func (r *reader) FieldName() string {
	if r.fieldNameSymbol.Text == nil {
		return ""
	}
	return *r.fieldNameSymbol.Text
}

// Annotations returns the current value's annotations.
func (r *reader) Annotations() []string {
	return r.annotations
}

// BoolValue returns the current value as a bool.
func (r *reader) BoolValue() (bool, error) {
	if r.valueType != BoolType {
		return false, &UsageError{"Reader.BoolValue", "value is not a bool"}
	}
	if r.value == nil {
		return false, nil
	}
	return r.value.(bool), nil
}

// IntSize returns the size of integer needed to losslessly hold the
// current value.
func (r *reader) IntSize() (IntSize, error) {
	if r.valueType != IntType {
		return NullInt, &UsageError{"Reader.IntSize", "value is not an int"}
	}
	if r.value == nil {
		return NullInt, nil
	}

	switch v := r.value.(type) {
	case int64:
		if v > math.MaxInt32 || v < math.MinInt32 {
			return Int64, nil
		}
		return Int32, nil
	case *big.Int:
		if v.IsInt64() {
			if v.Cmp(maxInt32) > 0 || v.Cmp(minInt32) < 0 {
				return Int64, nil
			}
			return Int32, nil
		}
		return BigInt, nil
	}
	return BigInt, nil
}

// IntValue returns the current value as an int.
func (r *reader) IntValue() (int, error) {
	i, err := r.Int64Value()
	if err != nil {
		return 0, err
	}
	if i > math.MaxInt32 || i < math.MinInt32 {
		return 0, &OverflowError{"Reader.IntValue", i}
	}
	return int(i), nil
}

// Int64Value returns the current value as an int64.
func (r *reader) Int64Value() (int64, error) {
	if r.valueType != IntType {
		return 0, &UsageError{"Reader.Int64Value", "value is not an int"}
	}
	if r.value == nil {
		return 0, nil
	}

	switch v := r.value.(type) {
	case int64:
		return v, nil
	case *big.Int:
		if !v.IsInt64() {
			return 0, &OverflowError{"Reader.Int64Value", v}
		}
		return v.Int64(), nil
	}
	return 0, &UsageError{"Reader.Int64Value", "value is not an int"}
}

// BigIntValue returns the current value as a big.Int.
func (r *reader) BigIntValue() (*big.Int, error) {
	if r.valueType != IntType {
		return nil, &UsageError{"Reader.BigIntValue", "value is not an int"}
	}
	if r.value == nil {
		return nil, nil
	}

	switch v := r.value.(type) {
	case int64:
		return big.NewInt(v), nil
	case *big.Int:
		return v, nil
	}
	return nil, &UsageError{"Reader.BigIntValue", "value is not an int"}
}

// FloatValue returns the current value as a float64.
func (r *reader) FloatValue() (float64, error) {
	if r.valueType != FloatType {
		return 0, &UsageError{"Reader.FloatValue", "value is not a float"}
	}
	if r.value == nil {
		return 0, nil
	}
	return r.value.(float64), nil
}

// DecimalValue returns the current value as a Decimal.
func (r *reader) DecimalValue() (*Decimal, error) {
	if r.valueType != DecimalType {
		return nil, &UsageError{"Reader.DecimalValue", "value is not a decimal"}
	}
	if r.value == nil {
		return nil, nil
	}
	return r.value.(*Decimal), nil
}

// TimeValue returns the current value as a time.Time.
func (r *reader) TimeValue() (time.Time, error) {
	if r.valueType != TimestampType {
		return time.Time{}, &UsageError{"Reader.TimeValue", "value is not a timestamp"}
	}
	if r.value == nil {
		return time.Time{}, nil
	}
	switch v := r.value.(type) {
	case time.Time:
		return v, nil
	case Timestamp:
		return v.DateTime, nil
	}
	return time.Time{}, &UsageError{"Reader.TimeValue", "value is not a timestamp"}
}

// TimestampValue returns the current value as a Timestamp, preserving the
// precision and offset kind it was read with.
func (r *reader) TimestampValue() (Timestamp, error) {
	if r.valueType != TimestampType {
		return Timestamp{}, &UsageError{"Reader.TimestampValue", "value is not a timestamp"}
	}
	if r.value == nil {
		return Timestamp{}, nil
	}
	switch v := r.value.(type) {
	case time.Time:
		return NewSimpleTimestamp(v, Nanosecond), nil
	case Timestamp:
		return v, nil
	}
	return Timestamp{}, &UsageError{"Reader.TimestampValue", "value is not a timestamp"}
}

// StringValue returns the current value as a string. This default
// implementation is used by the text reader, whose symbols are already
// resolved to text (or a bare sid) at parse time; the binary reader
// overrides this to resolve symbol ids against the current symbol table.
func (r *reader) StringValue() (string, error) {
	if r.valueType != StringType && r.valueType != SymbolType {
		return "", &UsageError{"Reader.StringValue", "value is not a string"}
	}
	if r.value == nil {
		return "", nil
	}

	switch v := r.value.(type) {
	case string:
		return v, nil
	case *SymbolToken:
		return symbolTokenText(*v)
	case SymbolToken:
		return symbolTokenText(v)
	}
	return "", &UsageError{"Reader.StringValue", "value is not a string"}
}

// symbolTokenText returns a symbol token's text, or an UnknownSymbolError
// if the token has neither text nor a resolvable sid.
func symbolTokenText(st SymbolToken) (string, error) {
	if st.Text != nil {
		return *st.Text, nil
	}
	if st.LocalSID == 0 {
		return "", &UnknownSymbolError{SID: 0}
	}
	return "", &UnknownSymbolError{SID: st.LocalSID}
}

// FieldNameSymbol returns the current value's field name as a SymbolToken.
func (r *reader) FieldNameSymbol() (SymbolToken, error) {
	return r.fieldNameSymbol, nil
}

// SymbolValue returns the current value as a SymbolToken.
func (r *reader) SymbolValue() (SymbolToken, error) {
	if r.valueType != SymbolType {
		return symbolTokenUndefined, &UsageError{"Reader.SymbolValue", "value is not a symbol"}
	}
	if r.value == nil {
		return symbolTokenUndefined, nil
	}

	switch v := r.value.(type) {
	case SymbolToken:
		return v, nil
	case *SymbolToken:
		return *v, nil
	}
	return symbolTokenUndefined, &UsageError{"Reader.SymbolValue", "value is not a symbol"}
}

// ByteValue returns the current value as a byte slice.
func (r *reader) ByteValue() ([]byte, error) {
	if r.valueType != BlobType && r.valueType != ClobType {
		return nil, &UsageError{"Reader.ByteValue", "value is not a lob"}
	}
	if r.value == nil {
		return nil, nil
	}
	return r.value.([]byte), nil
}

// Clear resets the per-value state in preparation for reading the next one.
func (r *reader) Clear() {
	r.fieldNameSymbol = symbolTokenUndefined
	r.annotations = nil
	r.valueType = NoType
	r.value = nil
}

var (
	maxInt32 = big.NewInt(math.MaxInt32)
	minInt32 = big.NewInt(math.MinInt32)
)
