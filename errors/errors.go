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

// Package errors provides error wrapping utilities and the failure kinds
// surfaced by the debmatrix CLI. Every error reaching the CLI boundary maps
// to exit code 1; the kinds exist so callers and tests can distinguish bad
// configuration from bad invocation from a failing external command.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Check with errors.Is.
var (
	// ErrConfiguration indicates a missing or invalid settings file.
	ErrConfiguration = errors.New("configuration error")

	// ErrUsage indicates an invalid invocation: unknown query key, unset
	// required environment variable, or reading a combination-scoped value
	// before selecting a combination.
	ErrUsage = errors.New("usage error")

	// ErrExternalCommand indicates a non-zero exit from an external CLI.
	ErrExternalCommand = errors.New("external command failed")

	// ErrNotFound indicates a lookup miss, such as an artifact directory
	// whose codename is absent from the matrix.
	ErrNotFound = errors.New("not found")
)

// Wrap wraps an error with a descriptive action and optional detail.
// It returns a formatted error in the form "failed to <action> [(<detail>)]: <error>".
//
// Example usage:
//
//	if err := parseFile(path); err != nil {
//	    return errors.Wrap("parse settings", path, err)
//	}
func Wrap(action, detail string, err error) error {
	if err == nil {
		return nil
	}

	if detail != "" {
		return fmt.Errorf("failed to %s (%s): %w", action, detail, err)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// Configuration returns a formatted error matching ErrConfiguration.
func Configuration(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// Usage returns a formatted error matching ErrUsage.
func Usage(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// External returns a formatted error matching ErrExternalCommand.
func External(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrExternalCommand, fmt.Sprintf(format, args...))
}

// NotFound returns a formatted error matching ErrNotFound.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's chain matches target.
// Re-exported so callers do not need to import both this package and the
// standard library errors package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
