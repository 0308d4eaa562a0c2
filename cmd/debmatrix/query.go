/*
Copyright © 2025 debmatrix contributors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debmatrix/debmatrix/errors"
	"github.com/debmatrix/debmatrix/logging"
	"github.com/debmatrix/debmatrix/query"
)

var (
	queryListKeys bool
	queryFormat   string
	queryPretty   bool
	queryOS       string
	queryArch     string
)

var queryCmd = &cobra.Command{
	Use:   "query [keys...]",
	Short: "Answer named queries over the settings and build matrix",
	Long: `Query computes named read-only values from the settings document for
use in a CI orchestration graph and prints one rendered value per key.

Examples:
  # The full CI build matrix as JSON
  debmatrix query matrix

  # Image name and tag for one combination
  debmatrix query --version 22.04 --architecture amd64 image-name image-tag

  # Discover available keys
  debmatrix query --list-keys`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&queryListKeys, "list-keys", false, "List available query keys with their descriptions")
	queryCmd.Flags().StringVar(&queryFormat, "format", "auto", "Output format (str, json, yaml)")
	queryCmd.Flags().BoolVar(&queryPretty, "pretty", false, "Indent JSON output")
	queryCmd.Flags().StringVar(&queryOS, "version", "", "OS selector (codename or release) for combination-scoped keys")
	queryCmd.Flags().StringVar(&queryArch, "architecture", "", "Architecture for combination-scoped keys")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	// Structured output is consumed by CI steps; keep log chatter off
	// stdout-adjacent noise unless the caller asked for plain strings.
	if queryFormat != query.FormatStr {
		logger.SetQuiet(true)
	}

	registry := query.NewRegistry()

	if queryListKeys {
		for _, entry := range registry.List() {
			logger.Output(fmt.Sprintf("%-16s %s", entry.Name, entry.Description))
		}
		return nil
	}

	if len(args) == 0 {
		return errors.Usage("no query keys given (use --list-keys to discover them)")
	}

	settings, err := settingsFromContext(cmd)
	if err != nil {
		return err
	}

	if (queryOS == "") != (queryArch == "") {
		return errors.Usage("--version and --architecture must be given together")
	}
	if queryOS != "" {
		if err := settings.SelectCombination(queryOS, queryArch); err != nil {
			return err
		}
	}

	for _, key := range args {
		entry, err := registry.Lookup(key)
		if err != nil {
			return err
		}

		value, err := entry.Func(settings)
		if err != nil {
			return err
		}

		rendered, err := query.Render(value, queryFormat, queryPretty)
		if err != nil {
			return err
		}
		logger.Output(rendered)
	}

	return nil
}
