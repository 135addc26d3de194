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
	"encoding/base64"
	"fmt"
	"io"
	"math/big"
)

// TextWriterOpts defines a set of bit flag options for text writers.
type TextWriterOpts uint8

const (
	// TextWriterQuietFinish disables emiting a newline in Finish(). Convenient if you
	// know you're only emiting one datagram; dangerous if there's a chance you're going
	// to emit another datagram using the same Writer.
	TextWriterQuietFinish TextWriterOpts = 1

	// TextWriterPretty enables pretty-printing mode.
	TextWriterPretty TextWriterOpts = 2
)

// textWriter is a writer that writes human-readable text
type textWriter struct {
	writer
	opts           TextWriterOpts
	needsSeparator bool
	emptyContainer bool
	emptyStream    bool
	indent         int

	lstb     SymbolTableBuilder
	wroteLST bool
}

// NewTextWriter returns a new text writer. If shared symbol tables are given,
// a local symbol table importing them is written before the first value.
func NewTextWriter(out io.Writer, sts ...SharedSymbolTable) Writer {
	return NewTextWriterOpts(out, 0, sts...)
}

// NewTextWriterOpts returns a new text writer with the given options.
func NewTextWriterOpts(out io.Writer, opts TextWriterOpts, sts ...SharedSymbolTable) Writer {
	return &textWriter{
		writer:      writer{out: out},
		opts:        opts,
		emptyStream: true,
		lstb:        NewSymbolTableBuilder(sts...),
	}
}

// WriteNull writes an untyped null.
func (w *textWriter) WriteNull() error {
	return w.writeValue("Writer.WriteNull", textNulls[NoType], writeRawString)
}

// WriteNullType writes a typed null.
func (w *textWriter) WriteNullType(t Type) error {
	return w.writeValue("Writer.WriteNullType", textNulls[t], writeRawString)
}

// WriteBool writes a boolean value.
func (w *textWriter) WriteBool(val bool) error {
	str := "false"
	if val {
		str = "true"
	}
	return w.writeValue("Writer.WriteBool", str, writeRawString)
}

// WriteInt writes an integer value.
func (w *textWriter) WriteInt(val int64) error {
	return w.writeValue("Writer.WriteInt", fmt.Sprintf("%d", val), writeRawString)
}

// WriteUint writes an unsigned integer value.
func (w *textWriter) WriteUint(val uint64) error {
	return w.writeValue("Writer.WriteUint", fmt.Sprintf("%d", val), writeRawString)
}

// WriteBigInt writes a (big) integer value.
func (w *textWriter) WriteBigInt(val *big.Int) error {
	return w.writeValue("Writer.WriteBigInt", val.String(), writeRawString)
}

// WriteFloat writes a floating-point value.
func (w *textWriter) WriteFloat(val float64) error {
	return w.writeValue("Writer.WriteFloat", formatFloat(val), writeRawString)
}

// WriteDecimal writes an arbitrary-precision decimal value.
func (w *textWriter) WriteDecimal(val *Decimal) error {
	return w.writeValue("Writer.WriteDecimal", val.String(), writeRawString)
}

// WriteTimestamp writes a timestamp.
func (w *textWriter) WriteTimestamp(val Timestamp) error {
	return w.writeValue("Writer.WriteTimestamp", val.String(), writeRawString)
}

// WriteSymbol writes a symbol given a SymbolToken.
func (w *textWriter) WriteSymbol(val SymbolToken) error {
	return w.writeContent("Writer.WriteSymbol", func(out io.Writer) error {
		return writeSymbolToken(val, out)
	})
}

// WriteSymbolFromString writes a symbol given a string.
func (w *textWriter) WriteSymbolFromString(val string) error {
	return w.writeValue("Writer.WriteSymbolFromString", val, writeSymbol)
}

// writeSymbolToken writes a token's text as a symbol, or $<sid> if it has no text.
func writeSymbolToken(st SymbolToken, out io.Writer) error {
	if st.Text == nil {
		return writeRawString(fmt.Sprintf("$%d", st.LocalSID), out)
	}
	return writeSymbol(*st.Text, out)
}

// WriteString writes a string.
func (w *textWriter) WriteString(val string) error {
	return w.writeContent("Writer.WriteString", func(out io.Writer) error {
		if err := writeRawChar('"', out); err != nil {
			return err
		}
		if err := writeEscapedString(val, out); err != nil {
			return err
		}
		return writeRawChar('"', out)
	})
}

// WriteClob writes a clob.
func (w *textWriter) WriteClob(val []byte) error {
	return w.writeContent("Writer.WriteClob", func(out io.Writer) error {
		if err := writeRawString("{{\"", out); err != nil {
			return err
		}
		for _, c := range val {
			if c < 32 || c == '\\' || c == '"' || c > 0x7F {
				if err := writeEscapedChar(c, out); err != nil {
					return err
				}
			} else {
				if err := writeRawChar(c, out); err != nil {
					return err
				}
			}
		}
		return writeRawString("\"}}", out)
	})
}

// WriteBlob writes a blob.
func (w *textWriter) WriteBlob(val []byte) error {
	return w.writeContent("Writer.WriteBlob", func(out io.Writer) error {
		if err := writeRawString("{{", out); err != nil {
			return err
		}

		enc := base64.NewEncoder(base64.StdEncoding, out)
		if _, err := enc.Write(val); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}

		return writeRawString("}}", out)
	})
}

// writeContent begins a value, lets fn write its textual body, and closes it out.
// WriteString/WriteClob/WriteBlob all follow this same begin/write/end shape, just
// with different bodies, so they share it instead of repeating the sticky-error
// bookkeeping three times over.
func (w *textWriter) writeContent(api string, fn func(out io.Writer) error) error {
	if w.err != nil {
		return w.err
	}
	if w.err = w.beginValue(api); w.err != nil {
		return w.err
	}

	if w.err = fn(w.out); w.err != nil {
		return w.err
	}

	w.endValue()
	return nil
}

// containerDelims maps each container kind to the API name and delimiter
// byte its begin/end methods need.
var containerDelims = map[ctx]struct {
	beginAPI, endAPI string
	open, close      byte
}{
	ctxInList:   {"Writer.BeginList", "Writer.EndList", '[', ']'},
	ctxInSexp:   {"Writer.BeginSexp", "Writer.EndSexp", '(', ')'},
	ctxInStruct: {"Writer.BeginStruct", "Writer.EndStruct", '{', '}'},
}

// BeginList begins writing a list.
func (w *textWriter) BeginList() error { return w.beginContainer(ctxInList) }

// EndList finishes writing a list.
func (w *textWriter) EndList() error { return w.endContainer(ctxInList) }

// BeginSexp begins writing an s-expression.
func (w *textWriter) BeginSexp() error { return w.beginContainer(ctxInSexp) }

// EndSexp finishes writing an s-expression.
func (w *textWriter) EndSexp() error { return w.endContainer(ctxInSexp) }

// BeginStruct begins writing a struct.
func (w *textWriter) BeginStruct() error { return w.beginContainer(ctxInStruct) }

// EndStruct finishes writing a struct.
func (w *textWriter) EndStruct() error { return w.endContainer(ctxInStruct) }

func (w *textWriter) beginContainer(t ctx) error {
	if w.err == nil {
		d := containerDelims[t]
		w.err = w.begin(d.beginAPI, t, d.open)
	}
	return w.err
}

func (w *textWriter) endContainer(t ctx) error {
	if w.err == nil {
		d := containerDelims[t]
		w.err = w.end(d.endAPI, t, d.close)
	}
	return w.err
}

// Finish finishes writing the current datagram.
func (w *textWriter) Finish() error {
	if w.err != nil {
		return w.err
	}
	if w.ctx.peek() != ctxAtTopLevel {
		return &UsageError{"Writer.Finish", "not at top level"}
	}

	if !w.emptyStream && w.opts&TextWriterQuietFinish == 0 {
		if w.err = writeRawChar('\n', w.out); w.err != nil {
			return w.err
		}
		w.needsSeparator = false
		w.emptyStream = true
	}

	w.clear()
	return nil
}

// pretty returns true if we're pretty-printing.
func (w *textWriter) pretty() bool {
	return w.opts&TextWriterPretty == TextWriterPretty
}

// writeValue writes a stringified value to the output stream.
func (w *textWriter) writeValue(api string, val string, fn func(string, io.Writer) error) error {
	return w.writeContent(api, func(out io.Writer) error {
		return fn(val, out)
	})
}

// beginValue begins the process of writing a value, by writing out
// a separator (if needed), field name (if in a struct), and type
// annotations (if any).
func (w *textWriter) beginValue(api string) error {
	// We have to record/empty these before calling w.lst.WriteTo(), which
	// will end up using/modifying them.
	name := w.fieldName
	as := w.annotations
	w.clear()

	// If we have a local symbol table and haven't written it out yet, do that now.
	if !w.wroteLST {
		w.wroteLST = true
		lst := w.lstb.Build()
		if err := lst.WriteTo(w); err != nil {
			return err
		}
	}

	if w.needsSeparator {
		if err := w.writeSeparator(); err != nil {
			return err
		}
	}

	if w.emptyContainer {
		if w.pretty() {
			if err := writeRawChar('\n', w.out); err != nil {
				return err
			}
		}
	}

	if w.pretty() {
		if err := w.writeIndent(); err != nil {
			return err
		}
	}

	if w.IsInStruct() {
		w.fieldName = name
		if err := w.writeFieldName(api); err != nil {
			return err
		}
	}

	w.annotations = append(w.annotations, as...)
	if len(w.annotations) > 0 {
		if err := w.writeAnnotations(); err != nil {
			return err
		}
	}

	return nil
}

// writeSeparator writes out the character or characters that separate values.
func (w *textWriter) writeSeparator() error {
	var sep string

	switch w.ctx.peek() {
	case ctxInStruct, ctxInList:
		// In a struct or a list, values are separated by commas.
		if w.pretty() {
			sep = ",\n"
		} else {
			sep = ","
		}

	case ctxInSexp:
		// In an sexp, values are separated by whitespace.
		if w.pretty() {
			sep = "\n"
		} else {
			sep = " "
		}

	default:
		// At the top level, values are separated by newlines.
		sep = "\n"
	}

	return writeRawString(sep, w.out)
}

// writeFieldName writes a field name inside a struct.
func (w *textWriter) writeFieldName(api string) error {
	if w.fieldName == nil {
		return &UsageError{api, "field name not set"}
	}
	name := w.fieldName
	w.fieldName = nil

	if err := writeSymbolToken(*name, w.out); err != nil {
		return err
	}

	sep := ":"
	if w.pretty() {
		sep = ": "
	}

	return writeRawString(sep, w.out)
}

// writeAnnotations writes out the annotations for a value.
func (w *textWriter) writeAnnotations() error {
	as := w.annotations
	w.annotations = nil

	for _, a := range as {
		if err := writeSymbolToken(a, w.out); err != nil {
			return err
		}
		if err := writeRawString("::", w.out); err != nil {
			return err
		}
	}

	return nil
}

// endValue finishes the process of writing a value.
func (w *textWriter) endValue() {
	w.needsSeparator = true
	w.emptyContainer = false
	w.emptyStream = false
}

// begin starts writing a container of the given type.
func (w *textWriter) begin(api string, t ctx, c byte) error {
	if err := w.beginValue(api); err != nil {
		return err
	}

	w.ctx.push(t)
	w.indent++
	w.needsSeparator = false
	w.emptyContainer = true

	return writeRawChar(c, w.out)
}

// end finishes writing a container of the given type
func (w *textWriter) end(api string, t ctx, c byte) error {
	if w.ctx.peek() != t {
		return &UsageError{api, "not in that kind of container"}
	}

	w.indent--

	if !w.emptyContainer && w.pretty() {
		if err := writeRawChar('\n', w.out); err != nil {
			return err
		}
		if err := w.writeIndent(); err != nil {
			return err
		}
	}

	if err := writeRawChar(c, w.out); err != nil {
		return err
	}

	w.clear()
	w.ctx.pop()
	w.endValue()

	return nil
}

// writeIndent writes out tabs to indent a pretty-printed value.
func (w *textWriter) writeIndent() error {
	for i := 0; i < w.indent; i++ {
		if err := writeRawChar('\t', w.out); err != nil {
			return err
		}
	}
	return nil
}
