/* Copyright 2019 Amazon.com, Inc. or its affiliates. All Rights Reserved. */

// Package ion implements the Ion data format: a set of data types, a
// textual notation for values of those types, and a binary notation for
// the same values.
//
// Reading and writing go through the Reader and Writer interfaces, which
// present the same API over both notations. NewReader picks a text or
// binary Reader by sniffing the input for a binary version marker;
// NewTextWriter and NewBinaryWriter pick the Writer explicitly. A
// SymbolTable (local, built as a stream is read or written, or shared,
// distributed out-of-band and looked up through a Catalog) maps between a
// symbol's text and the integer ID the binary notation actually encodes.
//
// See http://amzn.github.io/ion-docs/docs/spec.html for the format itself.
package ion
