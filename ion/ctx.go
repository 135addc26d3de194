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

import "fmt"

// ctx is the current reader or writer context: which kind of container (if
// any) the reader/writer is presently nested inside of.
type ctx uint8

const (
	ctxAtTopLevel ctx = iota
	ctxInStruct
	ctxInList
	ctxInSexp
)

// ctxContainerTypes pairs each non-top-level ctx with the container Type it
// corresponds to, so the two directions of the mapping stay in lockstep
// instead of being two switches that can drift apart.
var ctxContainerTypes = [...]struct {
	c ctx
	t Type
}{
	{ctxInStruct, StructType},
	{ctxInList, ListType},
	{ctxInSexp, SexpType},
}

func ctxToContainerType(c ctx) Type {
	for _, pair := range ctxContainerTypes {
		if pair.c == c {
			return pair.t
		}
	}
	return NoType
}

func containerTypeToCtx(t Type) ctx {
	for _, pair := range ctxContainerTypes {
		if pair.t == t {
			return pair.c
		}
	}
	panic(fmt.Sprintf("type %v is not a container type", t))
}

// ctxstack tracks the chain of containers a reader or writer is nested
// inside of, innermost last.
type ctxstack struct {
	arr []ctx
}

// depth reports how many containers deep the stack currently is.
func (c *ctxstack) depth() int {
	return len(c.arr)
}

// peek returns the innermost context, or ctxAtTopLevel if the stack is empty.
func (c *ctxstack) peek() ctx {
	if d := c.depth(); d > 0 {
		return c.arr[d-1]
	}
	return ctxAtTopLevel
}

// push descends into a new, innermost context.
func (c *ctxstack) push(next ctx) {
	c.arr = append(c.arr, next)
}

// pop ascends back out of the innermost context.
func (c *ctxstack) pop() {
	d := c.depth()
	if d == 0 {
		panic("pop called at top level")
	}
	c.arr = c.arr[:d-1]
}
