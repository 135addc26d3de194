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
	"bufio"
	"bytes"
	"io"
	"math/big"
	"strings"
	"time"
)

// A Reader reads a stream of Ion values.
//
// Next positions the Reader on the next value in the stream, after which the
// typed accessors and StepIn/StepOut may be used to inspect it. The zero
// position is before the first value in the stream; Next must be called at
// least once before anything else is meaningful.
//
//	var r Reader
//	for r.Next() {
//		switch r.Type() {
//		case StringType:
//			v, err := r.StringValue()
//		}
//	}
//	if err := r.Err(); err != nil {
//		return err
//	}
type Reader interface {
	// Next advances the Reader to the next value in the stream, returning
	// true if it succeeded and false if it has hit the end of the current
	// stream or container, or an error occurred. Err distinguishes between
	// the two latter cases.
	Next() bool

	// Err returns the error that caused the most recent call to Next to
	// return false, if any.
	Err() error

	// StepIn steps into the current value, which must be a non-null
	// container. On success the Reader is positioned before the first
	// value in the container.
	StepIn() error

	// StepOut steps out of the container the Reader is currently stepped
	// into, positioning it after that container in the enclosing stream.
	StepOut() error

	// SymbolTable returns the symbol table currently in effect.
	SymbolTable() SymbolTable

	// Type returns the type of the current value, or NoType if the Reader
	// is not currently positioned on a value.
	Type() Type

	// IsNull returns true if the current value is null (of any type).
	IsNull() bool

	// FieldName returns the field name of the current value, if the Reader
	// is currently positioned inside a struct.
	FieldName() string

	// FieldNameSymbol returns the field name of the current value as a
	// SymbolToken, if the Reader is currently positioned inside a struct.
	FieldNameSymbol() (SymbolToken, error)

	// Annotations returns the annotations on the current value.
	Annotations() []string

	// BoolValue returns the current value as a bool.
	BoolValue() (bool, error)

	// IntSize returns the smallest native integer size that can losslessly
	// hold the current value.
	IntSize() (IntSize, error)

	// IntValue returns the current value as an int.
	IntValue() (int, error)

	// Int64Value returns the current value as an int64.
	Int64Value() (int64, error)

	// BigIntValue returns the current value as a big.Int.
	BigIntValue() (*big.Int, error)

	// FloatValue returns the current value as a float64.
	FloatValue() (float64, error)

	// DecimalValue returns the current value as a Decimal.
	DecimalValue() (*Decimal, error)

	// TimeValue returns the current value as a time.Time, discarding its
	// original precision and offset kind.
	TimeValue() (time.Time, error)

	// TimestampValue returns the current value as a Timestamp, preserving
	// the precision and offset kind (UTC, local, or unspecified) it was
	// read with.
	TimestampValue() (Timestamp, error)

	// StringValue returns the current value as a string. Valid for both
	// StringType and SymbolType values.
	StringValue() (string, error)

	// SymbolValue returns the current value as a SymbolToken.
	SymbolValue() (SymbolToken, error)

	// ByteValue returns the current value as a byte slice. Valid for both
	// BlobType and ClobType values.
	ByteValue() ([]byte, error)

	// Warnings returns the non-fatal issues noticed in the stream so far
	// (e.g. a negative zero integer), in the order they were encountered.
	// Unlike Err, these don't stop the Reader.
	Warnings() []error
}

// NewReader creates a new Ion reader of the appropriate type by peeking
// at the first several bytes of input for a binary version marker.
func NewReader(in io.Reader) Reader {
	return NewReaderCat(in, nil)
}

// NewReaderStr creates a new reader over the given Ion text.
func NewReaderStr(str string) Reader {
	return NewReader(strings.NewReader(str))
}

// NewReaderBytes creates a new reader over the given bytes, text or binary.
func NewReaderBytes(in []byte) Reader {
	return NewReader(bytes.NewReader(in))
}

// NewReaderCat creates a new reader that resolves imported shared symbol
// tables against the given catalog.
func NewReaderCat(in io.Reader, cat Catalog) Reader {
	br := bufio.NewReader(in)

	// Peek at the first four bytes to determine whether this is a binary
	// or text stream.
	bs, err := br.Peek(4)
	if err == nil && bs[0] == 0xE0 && bs[1] == 0x01 && bs[2] == 0x00 && bs[3] == 0xEA {
		return newBinaryReaderBuf(br, cat)
	}

	return newTextReaderBuf(br, cat)
}
