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

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(levelStr string, quiet, verbose bool) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	l := New(levelStr, "plain", quiet, verbose)
	console := &bytes.Buffer{}
	stdout := &bytes.Buffer{}
	l.SetConsole(console)
	l.SetStdout(stdout)
	return l, console, stdout
}

func TestLogger_JSONFormat(t *testing.T) {
	l := New("info", "json", false, false)
	console := &bytes.Buffer{}
	l.SetConsole(console)

	l.Info("matrix has %d entries", 3)

	var line map[string]string
	assert.NoError(t, json.Unmarshal(console.Bytes(), &line))
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "matrix has 3 entries", line["msg"])
	assert.NotEmpty(t, line["time"])
}

func TestLogger_DefaultHidesDebug(t *testing.T) {
	l, console, _ := newTestLogger("info", false, false)

	l.Debug("hidden %d", 1)
	l.Info("shown %d", 2)

	out := console.String()
	assert.NotContains(t, out, "hidden 1")
	assert.Contains(t, out, "[INFO] shown 2")
}

func TestLogger_VerboseShowsDebug(t *testing.T) {
	l, console, _ := newTestLogger("info", false, true)

	l.Debug("now visible")
	assert.Contains(t, console.String(), "[DEBUG] now visible")
}

func TestLogger_DebugLevelShowsDebug(t *testing.T) {
	l, console, _ := newTestLogger("debug", false, false)

	l.Debug("level driven")
	assert.Contains(t, console.String(), "[DEBUG] level driven")
}

func TestLogger_QuietShowsOnlyErrors(t *testing.T) {
	l, console, _ := newTestLogger("info", true, false)

	l.Info("suppressed")
	l.Warn("also suppressed")
	l.Errorf("kept: %v", errors.New("boom"))

	out := console.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, "[ERROR] kept: boom")
}

func TestLogger_SetQuietToggles(t *testing.T) {
	l, console, _ := newTestLogger("info", false, false)

	l.SetQuiet(true)
	l.Info("quiet now")
	assert.NotContains(t, console.String(), "quiet now")

	l.SetQuiet(false)
	l.Info("loud again")
	assert.Contains(t, console.String(), "loud again")
}

func TestLogger_OutputBypassesQuiet(t *testing.T) {
	l, console, stdout := newTestLogger("info", true, false)

	l.Output("data for the pipeline")

	assert.Equal(t, "data for the pipeline\n", stdout.String())
	assert.Empty(t, console.String())
}

func TestLogger_PrintNoNewline(t *testing.T) {
	l, _, stdout := newTestLogger("info", false, false)

	l.Print("raw")
	assert.Equal(t, "raw", stdout.String())
}

func TestFromContext_RoundTrip(t *testing.T) {
	l, console, _ := newTestLogger("info", false, false)
	ctx := WithLogger(context.Background(), l)

	InfoContext(ctx, "through context")
	assert.Contains(t, console.String(), "through context")

	// A bare context still yields a usable logger.
	assert.NotNil(t, FromContext(context.Background()))
}

func TestErrorErr_NilIsNoop(t *testing.T) {
	l, console, _ := newTestLogger("info", false, false)

	l.ErrorErr(nil)
	assert.Empty(t, console.String())
}
