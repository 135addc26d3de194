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
	"reflect"
	"strings"
)

// A field is a reflectively-accessed field of a struct type.
type field struct {
	name        string
	typ         reflect.Type
	path        []int
	omitEmpty   bool
	hint        Type
	annotations bool
}

// fieldOptionHints maps a recognized ion-tag option to the Type it hints
// the field's value should be encoded/decoded as.
var fieldOptionHints = map[string]Type{
	"symbol": SymbolType,
	"clob":   ClobType,
	"sexp":   SexpType,
}

func (f *field) setopts(opts string) {
	for _, o := range strings.Split(opts, ",") {
		switch {
		case o == "omitempty":
			f.omitEmpty = true
		case o == "annotations":
			f.annotations = true
		default:
			if hint, ok := fieldOptionHints[o]; ok {
				f.hint = hint
			}
		}
	}
}

// A fielder maps out the fields of a type.
type fielder struct {
	fields []field
	index  map[string]bool
}

// FieldsFor returns the fields of the given struct type.
// https://github.com/amazon-ion/ion-go/issues/117
func fieldsFor(t reflect.Type) []field {
	fldr := fielder{index: map[string]bool{}}
	fldr.inspect(t, nil)
	return fldr.fields
}

// Inspect recursively inspects a type to determine all of its fields.
func (f *fielder) inspect(t reflect.Type, path []int) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !visible(&sf) {
			continue
		}

		if tag := sf.Tag.Get("ion"); tag != "-" {
			f.inspectField(sf, i, path, tag)
		}
	}
}

// inspectField handles a single, non-hidden struct field: either recursing
// into it (anonymous struct embedding) or recording it as a leaf field.
func (f *fielder) inspectField(sf reflect.StructField, index int, path []int, tag string) {
	name, opts := parseIonTag(tag)

	newpath := append(append([]int{}, path...), index)

	ft := sf.Type
	if ft.Name() == "" && ft.Kind() == reflect.Ptr {
		ft = ft.Elem()
	}

	if name == "" && sf.Anonymous && ft.Kind() == reflect.Struct {
		f.inspect(ft, newpath)
		return
	}

	if name == "" {
		name = sf.Name
	}
	if f.index[name] {
		panic(fmt.Sprintf("too many fields named %v", name))
	}
	f.index[name] = true

	fld := field{name: name, typ: ft, path: newpath}
	fld.setopts(opts)
	f.fields = append(f.fields, fld)
}

// Visible returns true if the given StructField should show up in the output.
func visible(sf *reflect.StructField) bool {
	if sf.Anonymous && embedsStruct(sf.Type) {
		// Fields of embedded structs are visible even if the struct type itself is not.
		return true
	}
	return sf.PkgPath == ""
}

func embedsStruct(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// ParseIonTag parses a `ion:"..."` field tag, returning the name and opts.
func parseIonTag(tag string) (name, opts string) {
	name, opts, _ = strings.Cut(tag, ",")
	return name, opts
}
