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

package query

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/debmatrix/debmatrix/errors"
)

// Output formats accepted by Render. FormatAuto picks JSON for structured
// values and a plain string otherwise.
const (
	FormatAuto = "auto"
	FormatStr  = "str"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Render serializes a query value for stdout. pretty selects two-space
// indentation for JSON output and is ignored elsewhere.
func Render(v interface{}, format string, pretty bool) (string, error) {
	switch format {
	case FormatAuto, "":
		if isStructured(v) {
			return renderJSON(v, pretty)
		}
		return fmt.Sprintf("%v", v), nil
	case FormatStr:
		return fmt.Sprintf("%v", v), nil
	case FormatJSON:
		return renderJSON(v, pretty)
	case FormatYAML:
		out, err := sigsyaml.Marshal(v)
		if err != nil {
			return "", errors.Wrap("render yaml", "", err)
		}
		return strings.TrimRight(string(out), "\n"), nil
	default:
		return "", errors.Usage("unknown output format %q (want str, json or yaml)", format)
	}
}

func renderJSON(v interface{}, pretty bool) (string, error) {
	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return "", errors.Wrap("render json", "", err)
	}
	return string(out), nil
}

// isStructured reports whether v is a list, mapping or struct rather than a
// scalar.
func isStructured(v interface{}) bool {
	if v == nil {
		return false
	}

	typ := reflect.TypeOf(v)
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	switch typ.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		return true
	default:
		return false
	}
}
