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

package distro

import (
	"fmt"
	"strings"

	"github.com/debmatrix/debmatrix/errors"
)

// Combination is one (architecture, release) cell of the expanded build
// matrix. The vendor is lowercased; ArtifactNameBase is
// {package}-{vendor}-{release}-{architecture}.
type Combination struct {
	Vendor           string `json:"vendor"`
	Release          string `json:"release"`
	Codename         string `json:"codename"`
	Architecture     string `json:"architecture"`
	BaseImage        string `json:"baseImage"`
	ArtifactNameBase string `json:"artifactNameBase"`
}

type comboKey struct {
	Architecture string
	Release      string
}

// Matrix is the expanded build matrix. Iteration over Combinations follows
// the document's declaration order so downstream CI matrices are
// reproducible; Go maps alone would not give that guarantee.
type Matrix struct {
	combos     []Combination
	byKey      map[comboKey]int
	byCodename map[string]*OSEntry
	byRelease  map[string]*OSEntry
}

// BuildMatrix expands the document's OS entries into one Combination per
// (architecture, release) pair. A duplicate pair is a configuration error:
// the upload router and the CI matrix both key on it, and a silent overwrite
// would publish packages to the wrong channel.
func BuildMatrix(doc *Document) (*Matrix, error) {
	allowed, err := parseAllowedCombinations(doc.AllowedCombinations)
	if err != nil {
		return nil, err
	}

	m := &Matrix{
		byKey:      make(map[comboKey]int),
		byCodename: make(map[string]*OSEntry),
		byRelease:  make(map[string]*OSEntry),
	}

	for i := range doc.Matrix {
		entry := &doc.Matrix[i]
		m.byCodename[strings.ToLower(entry.Codename)] = entry
		m.byRelease[entry.Release] = entry

		for _, arch := range entry.Architectures {
			key := comboKey{Architecture: arch, Release: entry.Release}
			if allowed != nil && !allowed[key] {
				continue
			}
			if prev, ok := m.byKey[key]; ok {
				return nil, errors.Configuration(
					"duplicate matrix combination %s/%s (declared for both %s and %s)",
					arch, entry.Release, m.combos[prev].Codename, entry.Codename)
			}

			vendor := strings.ToLower(entry.Vendor)
			m.byKey[key] = len(m.combos)
			m.combos = append(m.combos, Combination{
				Vendor:           vendor,
				Release:          entry.Release,
				Codename:         entry.Codename,
				Architecture:     arch,
				BaseImage:        entry.BaseImage,
				ArtifactNameBase: fmt.Sprintf("%s-%s-%s-%s", doc.Package, vendor, entry.Release, arch),
			})
		}
	}

	return m, nil
}

// parseAllowedCombinations parses "release/architecture" filter entries.
// An empty list means every combination is allowed.
func parseAllowedCombinations(filters []string) (map[comboKey]bool, error) {
	if len(filters) == 0 {
		return nil, nil
	}

	allowed := make(map[comboKey]bool, len(filters))
	for _, filter := range filters {
		release, arch, ok := strings.Cut(filter, "/")
		if !ok || release == "" || arch == "" {
			return nil, errors.Configuration("invalid allowedCombinations entry %q (want release/architecture)", filter)
		}
		allowed[comboKey{Architecture: arch, Release: release}] = true
	}
	return allowed, nil
}

// Combinations returns the matrix cells in declaration order. The returned
// slice is shared; callers must not modify it.
func (m *Matrix) Combinations() []Combination {
	return m.combos
}

// Len returns the number of combinations.
func (m *Matrix) Len() int {
	return len(m.combos)
}

// Lookup returns the combination for an (architecture, release) pair.
func (m *Matrix) Lookup(architecture, release string) (Combination, bool) {
	idx, ok := m.byKey[comboKey{Architecture: architecture, Release: release}]
	if !ok {
		return Combination{}, false
	}
	return m.combos[idx], true
}

// LookupCodename returns the OS entry for a codename, matched
// case-insensitively.
func (m *Matrix) LookupCodename(codename string) (*OSEntry, bool) {
	entry, ok := m.byCodename[strings.ToLower(codename)]
	return entry, ok
}

// LookupRelease returns the OS entry for a release identifier.
func (m *Matrix) LookupRelease(release string) (*OSEntry, bool) {
	entry, ok := m.byRelease[release]
	return entry, ok
}
