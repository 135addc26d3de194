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
	"math/big"
)

// A Value is a materialized Ion value: a single tagged variant over the
// eleven Ion types, carrying its own annotations. It's the bridge between a
// streaming Reader/Writer and a value tree an application can hold onto,
// inspect, and mutate without driving a cursor.
//
// Reference implementations in other languages reach for dynamic subclasses
// of the host language's native int/dict/list (tagging a plain value with
// ion_type and annotations at runtime). Go has no such mechanism, and bolting
// metadata onto a native type after the fact isn't idiomatic here; a single
// struct that owns exactly one of its fields at a time, selected by Type,
// does the same job without runtime subclassing.
type Value struct {
	typ         Type
	isNull      bool
	annotations []SymbolToken

	boolVal      bool
	intVal       *big.Int
	floatVal     float64
	decimalVal   *Decimal
	timestampVal Timestamp
	symbolVal    SymbolToken
	stringVal    string
	lobVal       []byte
	seqVal       []*Value
	structVal    []StructField
}

// A StructField pairs a field name with its value inside a Value of
// StructType. Order is preserved, including repeated names, per the data
// model's struct field ordering invariant.
type StructField struct {
	Name  SymbolToken
	Value *Value
}

// NewNullValue returns a typed null of the given Ion type.
func NewNullValue(t Type) *Value {
	return &Value{typ: t, isNull: true}
}

// NewBoolValue returns a Value wrapping a bool.
func NewBoolValue(val bool) *Value {
	return &Value{typ: BoolType, boolVal: val}
}

// NewIntValue returns a Value wrapping an arbitrary-precision integer.
func NewIntValue(val *big.Int) *Value {
	return &Value{typ: IntType, intVal: val}
}

// NewFloatValue returns a Value wrapping a float64.
func NewFloatValue(val float64) *Value {
	return &Value{typ: FloatType, floatVal: val}
}

// NewDecimalValue returns a Value wrapping a Decimal.
func NewDecimalValue(val *Decimal) *Value {
	return &Value{typ: DecimalType, decimalVal: val}
}

// NewTimestampValue returns a Value wrapping a Timestamp.
func NewTimestampValue(val Timestamp) *Value {
	return &Value{typ: TimestampType, timestampVal: val}
}

// NewSymbolValue returns a Value wrapping a symbol token. Unlike string or
// list, a symbol is always wrapped rather than projected onto a bare Go
// string, because its identity (text vs. sid) would otherwise be
// indistinguishable from an ordinary string value.
func NewSymbolValue(val SymbolToken) *Value {
	return &Value{typ: SymbolType, symbolVal: val}
}

// NewStringValue returns a Value wrapping a string.
func NewStringValue(val string) *Value {
	return &Value{typ: StringType, stringVal: val}
}

// NewClobValue returns a Value wrapping clob bytes. Always wrapped: a clob's
// bytes carry text semantics but aren't UTF-8 text, and are textually
// ambiguous with both string and blob at the syntax level.
func NewClobValue(val []byte) *Value {
	return &Value{typ: ClobType, lobVal: val}
}

// NewBlobValue returns a Value wrapping blob bytes.
func NewBlobValue(val []byte) *Value {
	return &Value{typ: BlobType, lobVal: val}
}

// NewListValue returns a Value wrapping an ordered sequence of child values.
func NewListValue(vals []*Value) *Value {
	return &Value{typ: ListType, seqVal: vals}
}

// NewSexpValue returns a Value wrapping an ordered sequence of child values.
// Always wrapped: textually, a sexp is only distinguished from a list by its
// delimiters, so a bare []*Value projection would lose that distinction.
func NewSexpValue(vals []*Value) *Value {
	return &Value{typ: SexpType, seqVal: vals}
}

// NewStructValue returns a Value wrapping an ordered, possibly-repeating set
// of struct fields.
func NewStructValue(fields []StructField) *Value {
	return &Value{typ: StructType, structVal: fields}
}

// Type returns this value's Ion type.
func (v *Value) Type() Type {
	return v.typ
}

// IsNull reports whether this value is a typed null.
func (v *Value) IsNull() bool {
	return v.isNull
}

// Annotations returns this value's annotations, in encounter order.
func (v *Value) Annotations() []SymbolToken {
	return v.annotations
}

// WithAnnotations returns a shallow copy of v with its annotations replaced.
func (v *Value) WithAnnotations(annotations ...SymbolToken) *Value {
	cp := *v
	cp.annotations = annotations
	return &cp
}

// BoolValue returns this value's bool, failing if it is not a non-null bool.
func (v *Value) BoolValue() (bool, error) {
	if v.typ != BoolType || v.isNull {
		return false, &UsageError{"Value.BoolValue", "value is not a non-null bool"}
	}
	return v.boolVal, nil
}

// IntValue returns this value's arbitrary-precision integer, failing if it
// is not a non-null int.
func (v *Value) IntValue() (*big.Int, error) {
	if v.typ != IntType || v.isNull {
		return nil, &UsageError{"Value.IntValue", "value is not a non-null int"}
	}
	return v.intVal, nil
}

// FloatValue returns this value's float64, failing if it is not a non-null
// float.
func (v *Value) FloatValue() (float64, error) {
	if v.typ != FloatType || v.isNull {
		return 0, &UsageError{"Value.FloatValue", "value is not a non-null float"}
	}
	return v.floatVal, nil
}

// DecimalValue returns this value's Decimal, failing if it is not a non-null
// decimal.
func (v *Value) DecimalValue() (*Decimal, error) {
	if v.typ != DecimalType || v.isNull {
		return nil, &UsageError{"Value.DecimalValue", "value is not a non-null decimal"}
	}
	return v.decimalVal, nil
}

// TimestampValue returns this value's Timestamp, failing if it is not a
// non-null timestamp.
func (v *Value) TimestampValue() (Timestamp, error) {
	if v.typ != TimestampType || v.isNull {
		return Timestamp{}, &UsageError{"Value.TimestampValue", "value is not a non-null timestamp"}
	}
	return v.timestampVal, nil
}

// SymbolValue returns this value's symbol token, failing if it is not a
// non-null symbol.
func (v *Value) SymbolValue() (SymbolToken, error) {
	if v.typ != SymbolType || v.isNull {
		return SymbolToken{}, &UsageError{"Value.SymbolValue", "value is not a non-null symbol"}
	}
	return v.symbolVal, nil
}

// StringValue returns this value's string, failing if it is not a non-null
// string.
func (v *Value) StringValue() (string, error) {
	if v.typ != StringType || v.isNull {
		return "", &UsageError{"Value.StringValue", "value is not a non-null string"}
	}
	return v.stringVal, nil
}

// LobValue returns this value's bytes, failing if it is not a non-null clob
// or blob.
func (v *Value) LobValue() ([]byte, error) {
	if (v.typ != ClobType && v.typ != BlobType) || v.isNull {
		return nil, &UsageError{"Value.LobValue", "value is not a non-null lob"}
	}
	return v.lobVal, nil
}

// SequenceValues returns this value's children, failing if it is not a
// non-null list or sexp.
func (v *Value) SequenceValues() ([]*Value, error) {
	if (v.typ != ListType && v.typ != SexpType) || v.isNull {
		return nil, &UsageError{"Value.SequenceValues", "value is not a non-null list or sexp"}
	}
	return v.seqVal, nil
}

// StructFields returns this value's fields in encounter order, failing if
// it is not a non-null struct.
func (v *Value) StructFields() ([]StructField, error) {
	if v.typ != StructType || v.isNull {
		return nil, &UsageError{"Value.StructFields", "value is not a non-null struct"}
	}
	return v.structVal, nil
}

// Load drives r to the next value and materializes it (and, for a
// container, everything beneath it) into a Value tree. It returns
// (nil, nil) at end of stream.
func Load(r Reader) (*Value, error) {
	if !r.Next() {
		if err := r.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return loadCurrent(r)
}

// LoadAll drives r to end of stream, materializing every top-level value.
func LoadAll(r Reader) ([]*Value, error) {
	var vals []*Value
	for {
		v, err := Load(r)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return vals, nil
		}
		vals = append(vals, v)
	}
}

func loadCurrent(r Reader) (*Value, error) {
	var annos []SymbolToken
	for _, a := range r.Annotations() {
		annos = append(annos, NewSymbolTokenFromString(a))
	}

	typ := r.Type()

	if r.IsNull() {
		return (&Value{typ: typ, isNull: true}).WithAnnotations(annos...), nil
	}

	switch typ {
	case BoolType:
		val, err := r.BoolValue()
		if err != nil {
			return nil, err
		}
		return NewBoolValue(val).WithAnnotations(annos...), nil

	case IntType:
		size, err := r.IntSize()
		if err != nil {
			return nil, err
		}
		var n *big.Int
		switch size {
		case Int32:
			v, err := r.IntValue()
			if err != nil {
				return nil, err
			}
			n = big.NewInt(int64(v))
		case Int64:
			v, err := r.Int64Value()
			if err != nil {
				return nil, err
			}
			n = big.NewInt(v)
		default:
			n, err = r.BigIntValue()
			if err != nil {
				return nil, err
			}
		}
		return NewIntValue(n).WithAnnotations(annos...), nil

	case FloatType:
		val, err := r.FloatValue()
		if err != nil {
			return nil, err
		}
		return NewFloatValue(val).WithAnnotations(annos...), nil

	case DecimalType:
		val, err := r.DecimalValue()
		if err != nil {
			return nil, err
		}
		return NewDecimalValue(val).WithAnnotations(annos...), nil

	case TimestampType:
		val, err := r.TimestampValue()
		if err != nil {
			return nil, err
		}
		return NewTimestampValue(val).WithAnnotations(annos...), nil

	case SymbolType:
		val, err := r.SymbolValue()
		if err != nil {
			return nil, err
		}
		return NewSymbolValue(val).WithAnnotations(annos...), nil

	case StringType:
		val, err := r.StringValue()
		if err != nil {
			return nil, err
		}
		return NewStringValue(val).WithAnnotations(annos...), nil

	case ClobType, BlobType:
		val, err := r.ByteValue()
		if err != nil {
			return nil, err
		}
		return (&Value{typ: typ, lobVal: val}).WithAnnotations(annos...), nil

	case ListType, SexpType:
		if err := r.StepIn(); err != nil {
			return nil, err
		}
		children, err := loadChildren(r)
		if err != nil {
			return nil, err
		}
		if err := r.StepOut(); err != nil {
			return nil, err
		}
		return (&Value{typ: typ, seqVal: children}).WithAnnotations(annos...), nil

	case StructType:
		if err := r.StepIn(); err != nil {
			return nil, err
		}
		fields, err := loadFields(r)
		if err != nil {
			return nil, err
		}
		if err := r.StepOut(); err != nil {
			return nil, err
		}
		return NewStructValue(fields).WithAnnotations(annos...), nil

	default:
		return nil, &UsageError{"Load", "unrecognized Ion type"}
	}
}

func loadChildren(r Reader) ([]*Value, error) {
	var children []*Value
	for r.Next() {
		child, err := loadCurrent(r)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, r.Err()
}

func loadFields(r Reader) ([]StructField, error) {
	var fields []StructField
	for r.Next() {
		name := r.FieldName()
		val, err := loadCurrent(r)
		if err != nil {
			return nil, err
		}
		fields = append(fields, StructField{Name: NewSymbolTokenFromString(name), Value: val})
	}
	return fields, r.Err()
}

// Dump writes v (and, for a container, everything beneath it) to w.
func Dump(w Writer, v *Value) error {
	if len(v.annotations) > 0 {
		if err := w.Annotations(v.annotations...); err != nil {
			return err
		}
	}

	if v.isNull {
		return w.WriteNullType(v.typ)
	}

	switch v.typ {
	case BoolType:
		return w.WriteBool(v.boolVal)

	case IntType:
		return w.WriteBigInt(v.intVal)

	case FloatType:
		return w.WriteFloat(v.floatVal)

	case DecimalType:
		return w.WriteDecimal(v.decimalVal)

	case TimestampType:
		return w.WriteTimestamp(v.timestampVal)

	case SymbolType:
		return w.WriteSymbol(v.symbolVal)

	case StringType:
		return w.WriteString(v.stringVal)

	case ClobType:
		return w.WriteClob(v.lobVal)

	case BlobType:
		return w.WriteBlob(v.lobVal)

	case ListType:
		if err := w.BeginList(); err != nil {
			return err
		}
		for _, child := range v.seqVal {
			if err := Dump(w, child); err != nil {
				return err
			}
		}
		return w.EndList()

	case SexpType:
		if err := w.BeginSexp(); err != nil {
			return err
		}
		for _, child := range v.seqVal {
			if err := Dump(w, child); err != nil {
				return err
			}
		}
		return w.EndSexp()

	case StructType:
		if err := w.BeginStruct(); err != nil {
			return err
		}
		for _, field := range v.structVal {
			if err := w.FieldName(field.Name); err != nil {
				return err
			}
			if err := Dump(w, field.Value); err != nil {
				return err
			}
		}
		return w.EndStruct()

	default:
		return &UsageError{"Dump", "unrecognized Ion type"}
	}
}
