package ioexport_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnrecon/internal/ioexport"
	"github.com/gnames/gnrecon/internal/iotest"
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedStore() *iotest.MemStore {
	return iotest.NewMemStore(
		schema.TaxonRecord{
			TaxonID:             "1",
			ScientificName:      "Animalia",
			CanonicalName:       "Animalia",
			TaxonRank:           "kingdom",
			ParentNameUsageID:   "1",
			AcceptedNameUsageID: "1",
			Kingdom:             "Animalia",
			KingdomID:           "1",
		},
		schema.TaxonRecord{
			TaxonID:             "2435099",
			ScientificName:      `Puma concolor (Linnaeus, 1771)`,
			CanonicalName:       "Puma concolor",
			TaxonRank:           "species",
			ParentNameUsageID:   "1",
			AcceptedNameUsageID: "2435099",
			KingdomID:           "1",
		},
	)
}

func TestExport(t *testing.T) {
	st := closedStore()
	path := filepath.Join(t.TempDir(), "taxa.csv")

	n, err := ioexport.New(st).Export(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	// Every field is quoted, including empty ones.
	assert.True(t, strings.HasPrefix(lines[0], `"taxonID",`))
	assert.Contains(t, lines[1], `"Animalia"`)
	assert.Contains(t, lines[2], `"Puma concolor (Linnaeus, 1771)"`)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, `"`), line)
		assert.True(t, strings.HasSuffix(line, `"`), line)
		assert.NotContains(t, line, `,,`)
	}
}

func TestExportQuotesEmbeddedQuotes(t *testing.T) {
	st := closedStore()
	st.Records["2435099"].VernacularName = `puma "cougar"`

	path := filepath.Join(t.TempDir(), "taxa.csv")
	_, err := ioexport.New(st).Export(context.Background(), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"puma ""cougar"""`)
}

func TestExportRefusesDanglingStore(t *testing.T) {
	st := closedStore()
	st.Records["2435099"].ParentNameUsageID = "999"

	path := filepath.Join(t.TempDir(), "taxa.csv")
	_, err := ioexport.New(st).Export(context.Background(), path)
	require.Error(t, err)

	var gnErr *gn.Error
	assert.ErrorAs(t, err, &gnErr)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportRefusesEmptyAccepted(t *testing.T) {
	st := closedStore()
	st.Records["2435099"].AcceptedNameUsageID = ""

	path := filepath.Join(t.TempDir(), "taxa.csv")
	_, err := ioexport.New(st).Export(context.Background(), path)
	assert.Error(t, err)
}

func TestExportRefusesEmptyParent(t *testing.T) {
	st := closedStore()
	st.Records["2435099"].ParentNameUsageID = ""

	path := filepath.Join(t.TempDir(), "taxa.csv")
	_, err := ioexport.New(st).Export(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parent")
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportRefusesNonSelfKingdom(t *testing.T) {
	st := closedStore()
	st.Records["1"].ParentNameUsageID = "2435099"

	path := filepath.Join(t.TempDir(), "taxa.csv")
	_, err := ioexport.New(st).Export(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kingdom")
}

func TestExportRefusesAuthorshipInCanonical(t *testing.T) {
	st := closedStore()
	st.Records["2435099"].CanonicalName = "Puma concolor (Linnaeus, 1771)"

	path := filepath.Join(t.TempDir(), "taxa.csv")
	_, err := ioexport.New(st).Export(context.Background(), path)
	assert.Error(t, err)
}
