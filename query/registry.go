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

// Package query exposes named read-only queries over the distro settings and
// build matrix, for use in CI orchestration graphs. Queries are registered
// in a declarative table so dispatch is a checked lookup and --list-keys
// enumerates exactly what is dispatchable.
package query

import (
	"encoding/json"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/debmatrix/debmatrix/config"
	"github.com/debmatrix/debmatrix/distro"
	"github.com/debmatrix/debmatrix/errors"
)

// Func computes one query value. Values must be JSON-serializable.
type Func func(s *distro.Settings) (interface{}, error)

// Entry is one named query with its one-line description.
type Entry struct {
	Name        string
	Description string
	Func        Func
}

// Registry is the table of available queries, iterated in declaration order
// for both listing and dispatch.
type Registry struct {
	entries []Entry
	byName  map[string]int
}

// NewRegistry builds the registry of built-in queries.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]int)}

	r.register("matrix",
		"Full CI build matrix, one record per OS/architecture combination",
		queryMatrix)
	r.register("os-matrix",
		"OS entries merged with the project's global settings",
		queryOSMatrix)
	r.register("image-names",
		"Docker image name for every matrix combination",
		queryImageNames)
	r.register("image-name",
		"Docker image name for the selected combination (requires --version and --architecture)",
		func(s *distro.Settings) (interface{}, error) { return s.ImageName() })
	r.register("image-tag",
		"Docker image tag for the selected combination (requires --version and --architecture)",
		func(s *distro.Settings) (interface{}, error) { return s.ImageTag() })
	r.register("registry-target",
		"Fully qualified registry reference for the selected combination",
		func(s *distro.Settings) (interface{}, error) { return s.RegistryTarget() })
	r.register("package",
		"Debian source package name",
		func(s *distro.Settings) (interface{}, error) { return s.Doc.Package, nil })
	r.register("project-name",
		"Human-facing project name",
		func(s *distro.Settings) (interface{}, error) { return s.Doc.ProjectName, nil })
	r.register("github-context",
		"Raw GitHub Actions context imported from GITHUB_CONTEXT",
		queryGitHubContext)

	return r
}

func (r *Registry) register(name, description string, fn Func) {
	r.byName[name] = len(r.entries)
	r.entries = append(r.entries, Entry{Name: name, Description: description, Func: fn})
}

// List returns the entries in declaration order.
func (r *Registry) List() []Entry {
	return r.entries
}

// Lookup returns the query for name. An unknown name is a usage error; when
// a registered name is close, the error suggests it.
func (r *Registry) Lookup(name string) (Entry, error) {
	if idx, ok := r.byName[name]; ok {
		return r.entries[idx], nil
	}

	if suggestion := r.closestName(name); suggestion != "" {
		return Entry{}, errors.Usage("unknown query key %q (did you mean %q?)", name, suggestion)
	}
	return Entry{}, errors.Usage("unknown query key %q", name)
}

// closestName returns the registered name with the smallest edit distance
// from name, or "" when nothing is close enough to be a plausible typo.
func (r *Registry) closestName(name string) string {
	const maxDistance = 3

	best := ""
	bestDistance := maxDistance + 1
	for _, entry := range r.entries {
		if d := fuzzy.LevenshteinDistance(name, entry.Name); d < bestDistance {
			best = entry.Name
			bestDistance = d
		}
	}
	return best
}

func queryMatrix(s *distro.Settings) (interface{}, error) {
	return s.Matrix.Combinations(), nil
}

// queryOSMatrix merges every top-level document key except the matrix itself
// and its combination filter into each OS entry, so a per-OS CI job sees the
// project-global settings alongside its own. Optional keys absent from the
// document stay absent from the output.
func queryOSMatrix(s *distro.Settings) (interface{}, error) {
	globals, err := toMap(s.Doc)
	if err != nil {
		return nil, err
	}
	delete(globals, "matrix")
	delete(globals, "allowedCombinations")

	merged := make([]map[string]interface{}, 0, len(s.Doc.Matrix))
	for i := range s.Doc.Matrix {
		entry, err := toMap(&s.Doc.Matrix[i])
		if err != nil {
			return nil, err
		}
		for key, value := range globals {
			entry[key] = value
		}
		merged = append(merged, entry)
	}
	return merged, nil
}

func toMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap("encode settings document", "", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap("decode settings document", "", err)
	}
	return m, nil
}

// queryImageNames walks every combination, activates it and reads the image
// name, so the result reflects the same templating the build itself uses.
func queryImageNames(s *distro.Settings) (interface{}, error) {
	names := make([]string, 0, s.Matrix.Len())
	for _, combo := range s.Matrix.Combinations() {
		if err := s.SelectCombination(combo.Release, combo.Architecture); err != nil {
			return nil, err
		}
		name, err := s.ImageName()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func queryGitHubContext(s *distro.Settings) (interface{}, error) {
	raw, err := s.Env.Require(config.EnvGitHubContext)
	if err != nil {
		return nil, err
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, errors.Usage("%s is not valid JSON: %v", config.EnvGitHubContext, err)
	}
	return parsed, nil
}
