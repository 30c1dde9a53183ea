// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ordering_test

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/ordering"
)

// chiSquareCritical is the 0.001 critical value for 5 degrees of freedom.
const chiSquareCritical = 20.515

func titles(items []catalog.Item) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name()
	}
	return names
}

/*
TestSort_TitleLocaleAware orders titles case-insensitively by collation.
*/
func TestSort_TitleLocaleAware(t *testing.T) {
	items := []catalog.Item{{Title: "Banana"}, {Title: "apple"}, {Title: "Cherry"}}

	sorted := ordering.Sort(items, ordering.Spec{Key: ordering.KeyTitle, Order: ordering.OrderAsc}, 0)

	assert.Equal(t, []string{"apple", "Banana", "Cherry"}, titles(sorted))
	assert.Equal(t, []string{"Banana", "apple", "Cherry"}, titles(items))

	reversed := ordering.Sort(items, ordering.Spec{Key: ordering.KeyTitle, Order: ordering.OrderDesc}, 0)
	assert.Equal(t, []string{"Cherry", "Banana", "apple"}, titles(reversed))
}

/*
TestSort_Numeric checks counters and upload dates in both directions.
*/
func TestSort_Numeric(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []catalog.Item{
		{ID: 1, Rating: 2, OCount: 9, Uploaded: base.Add(2 * time.Hour)},
		{ID: 2, Rating: 5, OCount: 1, Uploaded: base},
		{ID: 3, Rating: 3, OCount: 4, Uploaded: base.Add(time.Hour)},
	}

	ids := func(sorted []catalog.Item) []int64 {
		out := make([]int64, len(sorted))
		for i, item := range sorted {
			out[i] = item.ID
		}
		return out
	}

	tests := []struct {
		spec     ordering.Spec
		expected []int64
	}{
		{ordering.Spec{Key: ordering.KeyRating, Order: ordering.OrderDesc}, []int64{2, 3, 1}},
		{ordering.Spec{Key: ordering.KeyRating, Order: ordering.OrderAsc}, []int64{1, 3, 2}},
		{ordering.Spec{Key: ordering.KeyOCount, Order: ordering.OrderDesc}, []int64{1, 3, 2}},
		{ordering.Spec{Key: ordering.KeyUploaded, Order: ordering.OrderAsc}, []int64{2, 3, 1}},
		{ordering.Default, []int64{1, 3, 2}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.spec.Key, tt.spec.Order), func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(ordering.Sort(items, tt.spec, 0)))
		})
	}
}

/*
TestSort_Stable keeps the input order of ties.
*/
func TestSort_Stable(t *testing.T) {
	items := []catalog.Item{{ID: 1, Rating: 3}, {ID: 2, Rating: 3}, {ID: 3, Rating: 5}, {ID: 4, Rating: 3}}

	sorted := ordering.Sort(items, ordering.Spec{Key: ordering.KeyRating, Order: ordering.OrderDesc}, 0)

	assert.Equal(t, int64(3), sorted[0].ID)
	assert.Equal(t, int64(1), sorted[1].ID)
	assert.Equal(t, int64(2), sorted[2].ID)
	assert.Equal(t, int64(4), sorted[3].ID)
}

/*
TestSort_RandomSeeded reproduces the same shuffle for the same seed.
*/
func TestSort_RandomSeeded(t *testing.T) {
	items := make([]catalog.Item, 50)
	for i := range items {
		items[i] = catalog.Item{ID: int64(i)}
	}

	spec := ordering.Spec{Key: ordering.KeyRandom}
	first := ordering.Sort(items, spec, 42)
	second := ordering.Sort(items, spec, 42)

	assert.Equal(t, first, second)
	assert.ElementsMatch(t, items, first)
	assert.Equal(t, int64(0), items[0].ID)
}

// permutationCounts runs shuffle over [0 1 2] and counts each permutation.
func permutationCounts(trials int, shuffle func([]int)) map[string]int {
	counts := make(map[string]int)
	for trial := 0; trial < trials; trial++ {
		values := []int{0, 1, 2}
		shuffle(values)
		counts[fmt.Sprint(values)]++
	}
	return counts
}

func chiSquare(counts map[string]int, trials int) float64 {
	expected := float64(trials) / 6
	statistic := 0.0
	for _, permutation := range []string{"[0 1 2]", "[0 2 1]", "[1 0 2]", "[1 2 0]", "[2 0 1]", "[2 1 0]"} {
		delta := float64(counts[permutation]) - expected
		statistic += delta * delta / expected
	}
	return statistic
}

/*
TestShuffle_Uniform checks Fisher-Yates against a chi-square bound, and shows
that a random-comparator sort fails the same bound.
*/
func TestShuffle_Uniform(t *testing.T) {
	const trials = 60000

	rng := ordering.NewRand(7)
	fair := permutationCounts(trials, func(values []int) { ordering.Shuffle(values, rng) })
	require.Len(t, fair, 6)
	assert.Less(t, chiSquare(fair, trials), chiSquareCritical)

	biasedRng := ordering.NewRand(7)
	biased := permutationCounts(trials, func(values []int) {
		slices.SortStableFunc(values, func(a, b int) int { return biasedRng.IntN(2)*2 - 1 })
	})
	assert.Greater(t, chiSquare(biased, trials), chiSquareCritical)
}

/*
TestParseKey covers aliases and normalisation defaults.
*/
func TestParseKey(t *testing.T) {
	key, ok := ordering.ParseKey("ocount")
	require.True(t, ok)
	assert.Equal(t, ordering.KeyOCount, key)

	_, ok = ordering.ParseKey("size")
	assert.False(t, ok)

	normalized := ordering.Spec{Key: "filename"}.Normalize()
	assert.Equal(t, ordering.Spec{Key: ordering.KeyTitle, Order: ordering.OrderDesc}, normalized)
}
