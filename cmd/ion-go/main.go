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
	"fmt"
	"os"

	"github.com/ion-toolkit/ion-go/ion"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// gitCommit and buildTime are overridden at build time via -ldflags.
var (
	gitCommit = "unknown"
	buildTime = ""
)

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func loggerFromCmd(cmd *cli.Command) (*zap.Logger, error) {
	return newLogger(cmd.Bool("debug"))
}

// main is the main entry point for ion-go.
func main() {
	app := &cli.Command{
		Name:            "ion-go",
		Usage:           "read, re-encode and inspect Ion data streams",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "enable verbose (development) logging"},
		},
		Commands: []*cli.Command{
			versionCommand(),
			processCommand(),
			tojsonCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "prints version information about this tool",
		Action: func(_ context.Context, cmd *cli.Command) error {
			return printVersion()
		},
	}
}

// printVersion prints (in ion) the version info for this tool.
func printVersion() error {
	w := ion.NewTextWriterOpts(os.Stdout, ion.TextWriterPretty)

	if err := w.BeginStruct(); err != nil {
		return err
	}
	{
		if err := w.FieldName(ion.NewSymbolTokenFromString("version")); err != nil {
			return err
		}
		if err := w.WriteString(gitCommit); err != nil {
			return err
		}

		if err := w.FieldName(ion.NewSymbolTokenFromString("build_time")); err != nil {
			return err
		}

		buildtime, err := ion.NewTimestampFromStr(buildTime, ion.Second, ion.UTC)
		if err == nil {
			if err := w.WriteTimestamp(buildtime); err != nil {
				return err
			}
		} else {
			if err := w.WriteString("unknown-buildtime"); err != nil {
				return err
			}
		}
	}
	if err := w.EndStruct(); err != nil {
		return err
	}

	return w.Finish()
}

func processCommand() *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "reads the input file(s) and re-writes the contents in the specified format",
		ArgsUsage: "[-o OUTPUT] [-f FORMAT] [-e ERRORFILE] [INPUT...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write output to `FILE` instead of stdout"},
			&cli.StringFlag{Name: "output-format", Aliases: []string{"f"}, Usage: "output `FORMAT`: pretty (default), text, binary, events, none"},
			&cli.StringFlag{Name: "error-report", Aliases: []string{"e"}, Usage: "write an error report to `FILE` instead of stderr"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			log, err := loggerFromCmd(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return process(log, flagsToProcessArgs(cmd))
		},
	}
}

// flagsToProcessArgs re-flattens the cli.Command's parsed flags and positional
// arguments into the argument slice that newProcessor parses directly.
func flagsToProcessArgs(cmd *cli.Command) []string {
	var args []string
	if v := cmd.String("output"); v != "" {
		args = append(args, "-o", v)
	}
	if v := cmd.String("output-format"); v != "" {
		args = append(args, "-f", v)
	}
	if v := cmd.String("error-report"); v != "" {
		args = append(args, "-e", v)
	}
	args = append(args, cmd.Args().Slice()...)
	return args
}
