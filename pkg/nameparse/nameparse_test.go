package nameparse_test

import (
	"testing"

	"github.com/gnames/gnrecon/pkg/nameparse"
	"github.com/gnames/gnrecon/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBinomial(t *testing.T) {
	p := nameparse.New()

	res, err := p.Parse("Parus major Linnaeus, 1758")
	require.NoError(t, err)

	assert.Equal(t, "Parus major", res.CanonicalName)
	assert.Equal(t, "Linnaeus, 1758", res.Authorship)
	assert.Equal(t, schema.RankSpecies, res.Rank)
	assert.True(t, res.RankInferred)
	assert.False(t, res.LowConfidence)
	assert.Equal(t, "major", res.SpecificEpithet)
}

func TestParseUninomial(t *testing.T) {
	p := nameparse.New()

	res, err := p.Parse("Quercus")
	require.NoError(t, err)

	assert.Equal(t, "Quercus", res.CanonicalName)
	assert.Equal(t, schema.RankGenus, res.Rank)
	assert.True(t, res.RankInferred)
	assert.Empty(t, res.Authorship)
}

func TestParseTrinomialRankHeuristic(t *testing.T) {
	p := nameparse.New()

	tests := []struct {
		msg     string
		name    string
		kingdom string
		rank    schema.Rank
	}{
		{
			msg:     "animal trinomial is subspecies",
			name:    "Felis silvestris catus",
			kingdom: "Animalia",
			rank:    schema.RankSubspecies,
		},
		{
			msg:     "plant trinomial is variety",
			name:    "Rosa canina dumalis",
			kingdom: "Plantae",
			rank:    schema.RankVariety,
		},
		{
			msg:     "unknown kingdom falls back to subspecies",
			name:    "Felis silvestris catus",
			kingdom: "",
			rank:    schema.RankSubspecies,
		},
	}

	for _, v := range tests {
		res, err := p.Parse(v.name, nameparse.OptKingdom(v.kingdom))
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.rank, res.Rank, v.msg)
		assert.True(t, res.RankInferred, v.msg)
		assert.True(t, res.LowConfidence, v.msg)
	}
}

func TestParseWithRankHint(t *testing.T) {
	p := nameparse.New()

	res, err := p.Parse(
		"Parus major", nameparse.OptRank(schema.RankSpecies))
	require.NoError(t, err)
	assert.Equal(t, schema.RankSpecies, res.Rank)
	assert.False(t, res.RankInferred)
	assert.False(t, res.LowConfidence)
}

func TestParseInfraspecificEpithets(t *testing.T) {
	p := nameparse.New()

	res, err := p.Parse(
		"Festuca rubra subsp. commutata",
		nameparse.OptRank(schema.RankSubspecies),
	)
	require.NoError(t, err)

	assert.Equal(t, "Festuca rubra commutata", res.CanonicalName)
	assert.Equal(t, "rubra", res.SpecificEpithet)
	assert.Equal(t, "commutata", res.InfraspecificEpithet)
}

func TestParseSurplusTokensBecomeAuthorship(t *testing.T) {
	p := nameparse.New()

	res, err := p.Parse(
		"Quercus robur", nameparse.OptRank(schema.RankGenus))
	require.NoError(t, err)

	assert.Equal(t, "Quercus", res.CanonicalName)
	assert.Equal(t, "robur", res.Authorship)
}

func TestParseErrors(t *testing.T) {
	p := nameparse.New()

	tests := []struct {
		msg  string
		name string
		opts []nameparse.Option
	}{
		{msg: "empty name", name: ""},
		{msg: "blank name", name: "   "},
		{
			msg:  "too few tokens for rank",
			name: "Parus major",
			opts: []nameparse.Option{
				nameparse.OptRank(schema.RankSubspecies)},
		},
	}

	for _, v := range tests {
		_, err := p.Parse(v.name, v.opts...)
		require.Error(t, err, v.msg)

		var parseErr *nameparse.ParseError
		assert.ErrorAs(t, err, &parseErr, v.msg)
	}
}

func TestPoolParse(t *testing.T) {
	pool := nameparse.NewPool(2)
	defer pool.Close()

	done := make(chan struct{})
	for range 4 {
		go func() {
			defer func() { done <- struct{}{} }()
			res, err := pool.Parse("Puma concolor")
			assert.NoError(t, err)
			assert.Equal(t, "Puma concolor", res.CanonicalName)
		}()
	}
	for range 4 {
		<-done
	}
}
