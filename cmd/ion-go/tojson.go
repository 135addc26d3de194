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

package main

import (
	"context"
	"encoding/base64"
	"math"
	"strings"

	goccyjson "github.com/goccy/go-json"
	"github.com/ion-toolkit/ion-go/ion"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func tojsonCommand() *cli.Command {
	return &cli.Command{
		Name:      "tojson",
		Usage:     "projects an Ion value stream onto JSON (lossy; see IonToJSONEncoder rules)",
		ArgsUsage: "[-o OUTPUT] [INPUT]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write output to `FILE` instead of stdout"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			log, err := loggerFromCmd(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return runToJSON(log, cmd)
		},
	}
}

func runToJSON(log *zap.Logger, cmd *cli.Command) (err error) {
	in, err := openToJSONInput(cmd)
	if err != nil {
		return err
	}
	defer func() { err = closeAccumulate(err, in) }()

	out, err := OpenOutput(cmd.String("output"))
	if err != nil {
		return err
	}
	defer func() { err = closeAccumulate(err, out) }()

	r := ion.NewReader(in)
	enc := goccyjson.NewEncoder(out)

	for r.Next() {
		val, err := projectToJSON(r)
		if err != nil {
			return err
		}
		if err := enc.Encode(val); err != nil {
			return err
		}
	}
	if err := r.Err(); err != nil {
		return err
	}

	log.Debug("tojson finished")
	return nil
}

func openToJSONInput(cmd *cli.Command) (interface{ Read([]byte) (int, error) }, error) {
	if cmd.Args().Len() > 0 {
		return OpenInput(cmd.Args().Get(0))
	}
	return stdin{}, nil
}

type closer interface {
	Close() error
}

func closeAccumulate(err error, c interface{}) error {
	cl, ok := c.(closer)
	if !ok {
		return err
	}
	if cerr := cl.Close(); err == nil {
		return cerr
	}
	return err
}

// projectToJSON converts the Ion value the reader is currently positioned on
// into a value suitable for JSON encoding, following the type-projection
// rules of the Python reference implementation's IonToJSONEncoder: null.* ->
// null, symbol/timestamp/clob -> string, decimal/int/float -> number (NaN and
// +-inf collapse to null), struct -> object (last field wins on name clash),
// list/sexp -> array.
func projectToJSON(r ion.Reader) (interface{}, error) {
	if r.IsNull() {
		return nil, nil
	}

	switch r.Type() {
	case ion.BoolType:
		return r.BoolValue()

	case ion.IntType:
		size, err := r.IntSize()
		if err != nil {
			return nil, err
		}
		switch size {
		case ion.Int32:
			return r.IntValue()
		case ion.Int64:
			return r.Int64Value()
		default:
			return r.BigIntValue()
		}

	case ion.FloatType:
		val, err := r.FloatValue()
		if err != nil {
			return nil, err
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, nil
		}
		return val, nil

	case ion.DecimalType:
		return r.DecimalValue()

	case ion.TimestampType:
		ts, err := projectTimestamp(r)
		if err != nil {
			return nil, err
		}
		return ts.Format(), nil

	case ion.SymbolType:
		val, err := r.SymbolValue()
		if err != nil {
			return nil, err
		}
		if val.Text == nil {
			return nil, &ion.UnknownSymbolError{SID: val.LocalSID}
		}
		return *val.Text, nil

	case ion.StringType:
		return r.StringValue()

	case ion.ClobType:
		val, err := r.ByteValue()
		if err != nil {
			return nil, err
		}
		var sb strings.Builder
		for _, b := range val {
			sb.WriteRune(rune(b))
		}
		return sb.String(), nil

	case ion.BlobType:
		val, err := r.ByteValue()
		if err != nil {
			return nil, err
		}
		return base64.StdEncoding.EncodeToString(val), nil

	case ion.ListType, ion.SexpType:
		return projectSequenceToJSON(r)

	case ion.StructType:
		return projectStructToJSON(r)

	default:
		return nil, &ion.UsageError{API: "tojson", Msg: "unrecognized Ion type"}
	}
}

func projectTimestamp(r ion.Reader) (ion.Timestamp, error) {
	return r.TimestampValue()
}

func projectSequenceToJSON(r ion.Reader) ([]interface{}, error) {
	if err := r.StepIn(); err != nil {
		return nil, err
	}

	seq := []interface{}{}
	for r.Next() {
		val, err := projectToJSON(r)
		if err != nil {
			return nil, err
		}
		seq = append(seq, val)
	}

	if err := r.Err(); err != nil {
		return nil, err
	}
	return seq, r.StepOut()
}

func projectStructToJSON(r ion.Reader) (map[string]interface{}, error) {
	if err := r.StepIn(); err != nil {
		return nil, err
	}

	obj := map[string]interface{}{}
	for r.Next() {
		name := r.FieldName()
		val, err := projectToJSON(r)
		if err != nil {
			return nil, err
		}
		// Ion structs may repeat a field name; JSON objects may not, so the
		// last occurrence wins, matching dict(struct_items) in the reference
		// implementation.
		obj[name] = val
	}

	if err := r.Err(); err != nil {
		return nil, err
	}
	return obj, r.StepOut()
}
