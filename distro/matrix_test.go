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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debmatrix/debmatrix/errors"
)

func testDocument() *Document {
	return &Document{
		Package:     "ethercat",
		ProjectName: "EtherCAT",
		Matrix: []OSEntry{
			{
				Vendor:        "Ubuntu",
				Release:       "18.04",
				Codename:      "bionic",
				BaseImage:     "ubuntu:18.04",
				Architectures: []string{"amd64", "arm64"},
			},
			{
				Vendor:        "Ubuntu",
				Release:       "22.04",
				Codename:      "jammy",
				BaseImage:     "ubuntu:22.04",
				Architectures: []string{"amd64"},
			},
			{
				Vendor:        "Debian",
				Release:       "12",
				Codename:      "bookworm",
				BaseImage:     "debian:12",
				Architectures: []string{"amd64", "armhf"},
			},
		},
	}
}

func TestBuildMatrix_OneEntryPerPair(t *testing.T) {
	matrix, err := BuildMatrix(testDocument())
	require.NoError(t, err)

	assert.Equal(t, 5, matrix.Len())
	for _, combo := range matrix.Combinations() {
		found, ok := matrix.Lookup(combo.Architecture, combo.Release)
		require.True(t, ok)
		assert.Equal(t, combo, found)
	}
}

func TestBuildMatrix_ArtifactNameBase(t *testing.T) {
	matrix, err := BuildMatrix(testDocument())
	require.NoError(t, err)

	for _, combo := range matrix.Combinations() {
		want := "ethercat-" + combo.Vendor + "-" + combo.Release + "-" + combo.Architecture
		assert.Equal(t, want, combo.ArtifactNameBase)
	}

	combo, ok := matrix.Lookup("arm64", "18.04")
	require.True(t, ok)
	assert.Equal(t, "ethercat-ubuntu-18.04-arm64", combo.ArtifactNameBase)
}

func TestBuildMatrix_VendorLowercased(t *testing.T) {
	matrix, err := BuildMatrix(testDocument())
	require.NoError(t, err)

	combo, ok := matrix.Lookup("armhf", "12")
	require.True(t, ok)
	assert.Equal(t, "debian", combo.Vendor)
}

func TestBuildMatrix_DeclarationOrder(t *testing.T) {
	matrix, err := BuildMatrix(testDocument())
	require.NoError(t, err)

	var order []string
	for _, combo := range matrix.Combinations() {
		order = append(order, combo.Release+"/"+combo.Architecture)
	}
	assert.Equal(t, []string{
		"18.04/amd64", "18.04/arm64", "22.04/amd64", "12/amd64", "12/armhf",
	}, order)
}

func TestBuildMatrix_DuplicatePairFails(t *testing.T) {
	doc := testDocument()
	doc.Matrix = append(doc.Matrix, OSEntry{
		Vendor:        "Linuxmint",
		Release:       "22.04",
		Codename:      "wilma",
		BaseImage:     "linuxmint:22.04",
		Architectures: []string{"amd64"},
	})

	_, err := BuildMatrix(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConfiguration)
	assert.Contains(t, err.Error(), "amd64/22.04")
	assert.Contains(t, err.Error(), "jammy")
	assert.Contains(t, err.Error(), "wilma")
}

func TestBuildMatrix_AllowedCombinationsFilter(t *testing.T) {
	doc := testDocument()
	doc.AllowedCombinations = []string{"18.04/amd64", "12/armhf"}

	matrix, err := BuildMatrix(doc)
	require.NoError(t, err)

	assert.Equal(t, 2, matrix.Len())
	_, ok := matrix.Lookup("amd64", "22.04")
	assert.False(t, ok)
	_, ok = matrix.Lookup("armhf", "12")
	assert.True(t, ok)
}

func TestBuildMatrix_InvalidAllowedCombination(t *testing.T) {
	doc := testDocument()
	doc.AllowedCombinations = []string{"justarelease"}

	_, err := BuildMatrix(doc)
	assert.ErrorIs(t, err, errors.ErrConfiguration)
}

func TestMatrix_LookupCodenameCaseInsensitive(t *testing.T) {
	matrix, err := BuildMatrix(testDocument())
	require.NoError(t, err)

	for _, name := range []string{"bionic", "Bionic", "BIONIC"} {
		entry, ok := matrix.LookupCodename(name)
		require.True(t, ok, "codename %q", name)
		assert.Equal(t, "18.04", entry.Release)
	}

	_, ok := matrix.LookupCodename("zesty")
	assert.False(t, ok)
}

func TestMatrix_LookupRelease(t *testing.T) {
	matrix, err := BuildMatrix(testDocument())
	require.NoError(t, err)

	entry, ok := matrix.LookupRelease("12")
	require.True(t, ok)
	assert.Equal(t, "bookworm", entry.Codename)

	_, ok = matrix.LookupRelease("20.04")
	assert.False(t, ok)
}
