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
	"bytes"
	"fmt"
	"testing"
)

type Item struct {
	ID          int    `ion:"id"`
	Name        string `ion:"name"`
	Description string `ion:"description"`
}

func TestCatalog(t *testing.T) {
	sst := NewSharedSymbolTable("item", 1, []string{
		"item",
		"id",
		"name",
		"description",
	})

	buf := bytes.Buffer{}
	out := NewBinaryWriter(&buf, sst)

	for i := 0; i < 10; i++ {
		out.Annotation("item")
		MarshalTo(out, &Item{
			ID:          i,
			Name:        fmt.Sprintf("Item %v", i),
			Description: fmt.Sprintf("The %vth test item", i),
		})
	}
	if err := out.Finish(); err != nil {
		t.Fatal(err)
	}

	bs := buf.Bytes()

	sys := System{Catalog: NewCatalog(sst)}
	in := sys.NewReaderBytes(bs)

	i := 0
	for ; ; i++ {
		item := Item{}
		err := UnmarshalFrom(in, &item)
		if err == ErrNoInput {
			break
		}
		if err != nil {
			t.Fatal(err)
		}

		if item.ID != i {
			t.Errorf("expected id=%v, got %v", i, item.ID)
		}
	}

	if i != 10 {
		t.Errorf("expected i=10, got %v", i)
	}
}

func TestBasicCatalogFindExactAndLatest(t *testing.T) {
	v1 := NewSharedSymbolTable("foo", 1, []string{"a"})
	v2 := NewSharedSymbolTable("foo", 2, []string{"a", "b"})
	v3 := NewSharedSymbolTable("foo", 3, []string{"a", "b", "c"})
	bar := NewSharedSymbolTable("bar", 1, []string{"x"})

	cat := NewCatalog(v1, v3, v2, bar)

	if got := cat.FindExact("foo", 2); got != v2 {
		t.Errorf("expected FindExact(foo, 2) to return v2, got %v", got)
	}
	if got := cat.FindExact("foo", 4); got != nil {
		t.Errorf("expected FindExact(foo, 4) to return nil, got %v", got)
	}
	if got := cat.FindExact("nonexistent", 1); got != nil {
		t.Errorf("expected FindExact(nonexistent, 1) to return nil, got %v", got)
	}

	if got := cat.FindLatest("foo"); got != v3 {
		t.Errorf("expected FindLatest(foo) to return v3, got %v", got)
	}
	if got := cat.FindLatest("bar"); got != bar {
		t.Errorf("expected FindLatest(bar) to return bar, got %v", got)
	}
	if got := cat.FindLatest("nonexistent"); got != nil {
		t.Errorf("expected FindLatest(nonexistent) to return nil, got %v", got)
	}
}
