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
	"fmt"
	"strconv"
)

const (
	// The placeholder for when a symbol token has no symbol ID.
	SymbolIDUnknown = -1
)

// ImportSource is a reference to a SID within a shared symbol table.
type ImportSource struct {
	// The name of the shared symbol table that this token refers to.
	Table string
	// The ID of the interned symbol text within the shared SymbolTable.
	// This must be greater than 1.
	SID int64
}

func newSource(table string, sid int64) *ImportSource {
	value := ImportSource{
		Table: table,
		SID:   sid,
	}
	return &value
}

// Equal figures out if two import sources are equal for each component.
func (is *ImportSource) Equal(o *ImportSource) bool {
	return is.Table == o.Table && is.SID == o.SID
}

// A symbolic token for Ion.
// Symbol tokens are the values that annotations, field names, and the textual content of Ion symbol values.
// The `nil` value for SymbolToken is $0.
type SymbolToken struct {
	// The string text of the token or nil if unknown.
	Text *string
	// LocalSID is the local symbol ID associated with the token.
	LocalSID int64
	// The shared symbol table location that this token came from, or nil if undefined.
	Source *ImportSource
}

var (
	// symbolTokenUndefined is the sentinel for invalid tokens.
	// The `nil` value is actually $0 which is a defined token.
	symbolTokenUndefined = SymbolToken{
		LocalSID: SymbolIDUnknown,
	}
)

func (st *SymbolToken) String() string {
	text := "nil"
	if st.Text != nil {
		text = fmt.Sprintf("%q", *st.Text)
	}

	source := "nil"
	if st.Source != nil {
		source = fmt.Sprintf("{%q %d}", st.Source.Table, st.Source.SID)
	}

	return fmt.Sprintf("{%s %d %s}", text, st.LocalSID, source)
}

// Equal figures out if two symbol tokens are equal for each component.
func (st *SymbolToken) Equal(o *SymbolToken) bool {
	if st.Text == nil || o.Text == nil {
		if st.Text == nil && o.Text == nil && st.LocalSID == o.LocalSID {
			return true
		}
		return false
	}
	return *st.Text == *o.Text && st.LocalSID == o.LocalSID
}

// NewSymbolToken creates a SymbolToken for the given text, resolving its
// local ID against st if possible. A nil st, or text that st doesn't know
// about, produces a token with an unknown local ID.
func NewSymbolToken(st SymbolTable, text string) (SymbolToken, error) {
	if st == nil {
		return SymbolToken{Text: &text, LocalSID: SymbolIDUnknown}, nil
	}

	id, ok := st.FindByName(text)
	if !ok {
		return SymbolToken{Text: &text, LocalSID: SymbolIDUnknown}, nil
	}
	return SymbolToken{Text: &text, LocalSID: int64(id)}, nil
}

// NewSymbolTokenFromString creates a SymbolToken wrapping the given text,
// with no known local ID.
func NewSymbolTokenFromString(text string) SymbolToken {
	return SymbolToken{Text: &text, LocalSID: SymbolIDUnknown}
}

// symbolIdentifier reports whether sym is a symbol identifier, "$" followed
// by decimal digits (e.g. "$10"), and if so returns the SID it names.
func symbolIdentifier(sym string) (int64, bool) {
	if len(sym) < 2 || sym[0] != '$' {
		return SymbolIDUnknown, false
	}
	sid, err := strconv.ParseUint(sym[1:], 10, 63)
	if err != nil {
		return SymbolIDUnknown, false
	}
	return int64(sid), true
}
