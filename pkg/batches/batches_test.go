package batches_test

import (
	"testing"

	"github.com/gnames/gnrecon/pkg/batches"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelimiterRune(t *testing.T) {
	tests := []struct {
		msg       string
		delimiter string
		res       rune
	}{
		{"default is comma", "", ','},
		{"explicit comma", ",", ','},
		{"comma by name", "comma", ','},
		{"tab escape", "\t", '\t'},
		{"tab by name", "tab", '\t'},
		{"semicolon", ";", ';'},
		{"pipe by name", "pipe", '|'},
		{"literal fallback", "#", '#'},
	}
	for _, v := range tests {
		b := batches.Batch{Delimiter: v.delimiter}
		assert.Equal(t, v.res, b.DelimiterRune(), v.msg)
	}
}

func TestManifestValidate(t *testing.T) {
	valid := batches.Manifest{Batches: []batches.Batch{
		{ID: "one", Path: "/data/one.csv"},
		{ID: "two", Path: "/data/two.tsv", Delimiter: "tab"},
	}}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		msg      string
		manifest batches.Manifest
	}{
		{
			msg:      "empty manifest",
			manifest: batches.Manifest{},
		},
		{
			msg: "missing id",
			manifest: batches.Manifest{Batches: []batches.Batch{
				{Path: "/data/one.csv"},
			}},
		},
		{
			msg: "duplicate id",
			manifest: batches.Manifest{Batches: []batches.Batch{
				{ID: "one", Path: "/data/one.csv"},
				{ID: "one", Path: "/data/two.csv"},
			}},
		},
		{
			msg: "missing path",
			manifest: batches.Manifest{Batches: []batches.Batch{
				{ID: "one"},
			}},
		},
	}
	for _, v := range tests {
		assert.Error(t, v.manifest.Validate(), v.msg)
	}
}

func TestManifestFind(t *testing.T) {
	m := batches.Manifest{Batches: []batches.Batch{
		{ID: "one", Path: "/data/one.csv"},
		{ID: "two", Path: "/data/two.csv"},
	}}

	b := m.Find("two")
	require.NotNil(t, b)
	assert.Equal(t, "/data/two.csv", b.Path)

	assert.Nil(t, m.Find("three"))
}
