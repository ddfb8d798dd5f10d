package search

import (
	"testing"

	"github.com/poiesic/mentorit/catalog"
	"github.com/poiesic/mentorit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, report := catalog.New([]core.Mentor{
		{ID: "1", Name: "Ana", Category: "data", Skills: []string{"Python", "SQL"}, Price: 100, Rating: 4.5},
		{ID: "2", Name: "Ben", Category: "data", Skills: []string{"Python", "ML"}, Price: 200, Rating: 4.8},
		{ID: "3", Name: "Cai", Category: "design", Skills: []string{"Figma"}, Price: 50, Rating: 4.0},
	})
	require.Empty(t, report.Rejected)
	return cat
}

// richCatalog has ties on every sort key and a mix of facets.
func richCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, report := catalog.New([]core.Mentor{
		{ID: "a", Name: "Alice Moreau", Role: "Data Scientist", Company: "Acme", Category: "data",
			Country: "France", Skills: []string{"Python", "Pandas"}, Price: 120, Rating: 4.7, ExperienceYears: 8},
		{ID: "b", Name: "Bram de Vries", Role: "Backend Engineer", Company: "Globex", Category: "engineering",
			Country: "Netherlands", Skills: []string{"Go", "PostgreSQL"}, Price: 90, Rating: 4.7, ExperienceYears: 12},
		{ID: "c", Name: "Chen Wei", Role: "ML Engineer", Company: "Initech", Category: "data",
			Country: "Singapore", Skills: []string{"PyTorch", "Python"}, Price: 120, Rating: 4.9, ExperienceYears: 8},
		{ID: "d", Name: "Dara Okafor", Role: "Product Designer", Company: "Acme", Category: "design",
			Country: "Nigeria", Skills: []string{"Figma", "Research"}, Price: 60, Rating: 4.2, ExperienceYears: 5},
		{ID: "e", Name: "Eli Cohen", Role: "Engineering Manager", Company: "Hooli", Category: "engineering",
			Country: "France", Skills: []string{"Leadership", "Go"}, Price: 600, Rating: 5.0, ExperienceYears: 15},
		{ID: "f", Name: "Fatima Zahra", Role: "Analyst", Company: "Globex", Category: "data",
			Country: "Morocco", Skills: []string{"SQL", "Tableau"}, Price: 0, Rating: 0, ExperienceYears: 2},
	})
	require.Empty(t, report.Rejected)
	return cat
}

func ids(mentors []core.Mentor) []string {
	out := make([]string, len(mentors))
	for i, m := range mentors {
		out[i] = m.ID
	}
	return out
}

func TestMatches(t *testing.T) {
	m := core.Mentor{
		ID: "1", Name: "Alice Moreau", Role: "Data Scientist", Company: "Acme",
		Skills: []string{"Python", "Pandas"}, About: "Loves kubernetes", Category: "analytics",
	}

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"empty query", "", true},
		{"whitespace query", "   \t", true},
		{"name", "alice", true},
		{"role", "scientist", true},
		{"company", "ACME", true},
		{"skill substring", "pand", true},
		{"surrounding whitespace", "  python ", true},
		{"about is not searched", "kubernetes", false},
		{"category is not searched", "analytics", false},
		{"no match", "rust", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(m, tt.query))
		})
	}
}

func TestPasses(t *testing.T) {
	m := core.Mentor{
		ID: "1", Name: "Ana", Category: "data", Country: "Spain",
		Skills: []string{"Python", "SQL"}, Price: 100,
	}

	tests := []struct {
		name   string
		filter core.FilterState
		want   bool
	}{
		{"default filter", core.NewFilterState(), true},
		{"skill exact", core.NewFilterState(core.WithSkills("Python")), true},
		{"skill substring ignoring case", core.NewFilterState(core.WithSkills("pyth")), true},
		{"any selected skill", core.NewFilterState(core.WithSkills("Rust", "sql")), true},
		{"no selected skill", core.NewFilterState(core.WithSkills("Rust")), false},
		{"category", core.NewFilterState(core.WithCategories("design", "data")), true},
		{"category is case sensitive", core.NewFilterState(core.WithCategories("Data")), false},
		{"country", core.NewFilterState(core.WithCountries("Spain")), true},
		{"other country", core.NewFilterState(core.WithCountries("Kenya")), false},
		{"price inclusive min", core.NewFilterState(core.WithPriceRange(100, 150)), true},
		{"price inclusive max", core.NewFilterState(core.WithPriceRange(50, 100)), true},
		{"price outside", core.NewFilterState(core.WithPriceRange(101, 150)), false},
		{"facets combine with and", core.NewFilterState(core.WithSkills("Python"), core.WithCountries("Kenya")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Passes(m, tt.filter))
		})
	}
}

func TestDiscover_Scenario(t *testing.T) {
	cat := scenarioCatalog(t)

	q := NewQuery("python")
	q.Sort = core.SortRatingDesc
	assert.Equal(t, []string{"2", "1"}, ids(Discover(cat, q)))

	priced := NewQuery("")
	priced.Filters = core.NewFilterState(core.WithPriceRange(80, 150))
	assert.Equal(t, []string{"1"}, ids(Discover(cat, priced)))
}

func TestDiscover_DefaultPriceRangeExcludesExpensive(t *testing.T) {
	cat := richCatalog(t)
	got := ids(Discover(cat, NewQuery("")))
	assert.Equal(t, []string{"a", "b", "c", "d", "f"}, got)
}

func TestDiscover_NilCatalog(t *testing.T) {
	got := Discover(nil, NewQuery("anything"))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDiscover_Subsequence(t *testing.T) {
	cat := richCatalog(t)
	queries := []Query{
		NewQuery(""),
		NewQuery("engineer"),
		{Text: "go", Filters: core.NewFilterState(core.WithPriceRange(0, 1000)), Sort: core.SortRecommended},
		{Text: "", Filters: core.NewFilterState(core.WithCategories("data")), Sort: core.SortRecommended},
		{Text: "a", Filters: core.NewFilterState(core.WithCountries("France"), core.WithPriceRange(0, 1000)), Sort: core.SortRecommended},
	}

	for _, q := range queries {
		got := Discover(cat, q)
		// Unsorted results appear in catalog order
		last := -1
		for _, m := range got {
			pos := cat.Position(m.ID)
			require.NotEqual(t, -1, pos, "result %s not in catalog", m.ID)
			assert.Greater(t, pos, last, "query %q out of catalog order", q.Text)
			last = pos
		}
	}
}

func TestDiscover_Idempotent(t *testing.T) {
	cat := richCatalog(t)
	for _, key := range core.SortKeys() {
		q := Query{
			Text:    "e",
			Filters: core.NewFilterState(core.WithPriceRange(0, 1000)),
			Sort:    key,
		}
		first := Discover(cat, q)
		again, _ := catalog.New(first)
		assert.Equal(t, ids(first), ids(Discover(again, q)), "sort %s", key)
	}
}

func TestDiscover_DoesNotAliasCatalog(t *testing.T) {
	cat := scenarioCatalog(t)
	got := Discover(cat, NewQuery(""))
	require.NotEmpty(t, got)
	got[0].Name = "mutated"
	assert.Equal(t, "Ana", cat.At(0).Name)
}

func TestSort(t *testing.T) {
	cat := richCatalog(t)
	mentors := cat.Mentors()

	tests := []struct {
		key  core.SortKey
		want []string
	}{
		{core.SortRecommended, []string{"a", "b", "c", "d", "e", "f"}},
		{core.SortPriceAsc, []string{"f", "d", "b", "a", "c", "e"}},
		{core.SortPriceDesc, []string{"e", "a", "c", "b", "d", "f"}},
		{core.SortRatingDesc, []string{"e", "c", "a", "b", "d", "f"}},
		{core.SortExperienceDesc, []string{"e", "b", "a", "c", "d", "f"}},
		{core.SortKey("by-vibes"), []string{"a", "b", "c", "d", "e", "f"}},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Sort(mentors, tt.key)))
		})
	}
}

func TestSort_Stable(t *testing.T) {
	mentors := richCatalog(t).Mentors()
	for _, key := range core.SortKeys() {
		once := Sort(mentors, key)
		twice := Sort(once, key)
		assert.Equal(t, ids(once), ids(twice), "sort %s", key)
	}
}

func TestSort_LeavesInputUntouched(t *testing.T) {
	mentors := richCatalog(t).Mentors()
	before := ids(mentors)
	_ = Sort(mentors, core.SortPriceAsc)
	assert.Equal(t, before, ids(mentors))

	assert.NotNil(t, Sort(nil, core.SortPriceAsc))
}

func TestSimilar_Scenario(t *testing.T) {
	cat := scenarioCatalog(t)
	assert.Equal(t, []string{"2"}, ids(Similar(cat, "1", 3)))

	scored := SimilarScored(cat, "1", 3)
	require.Len(t, scored, 1)
	assert.Equal(t, 2, scored[0].Score)
}

func TestSimilar_Ranking(t *testing.T) {
	cat := richCatalog(t)

	// c: data + Python = 2, f: data = 1, a excluded as focal
	scored := SimilarScored(cat, "a", 10)
	require.Len(t, scored, 2)
	assert.Equal(t, "c", scored[0].Mentor.ID)
	assert.Equal(t, 2, scored[0].Score)
	assert.Equal(t, "f", scored[1].Mentor.ID)
	assert.Equal(t, 1, scored[1].Score)

	// e shares engineering and Go with b
	assert.Equal(t, []string{"e"}, ids(Similar(cat, "b", 1)))
}

func TestSimilar_CaseInsensitiveDistinctSkills(t *testing.T) {
	cat, _ := catalog.New([]core.Mentor{
		{ID: "1", Name: "A", Category: "x", Skills: []string{"Go", "SQL"}},
		{ID: "2", Name: "B", Category: "y", Skills: []string{"go", "GO", "sql"}},
	})
	scored := SimilarScored(cat, "1", 3)
	require.Len(t, scored, 1)
	assert.Equal(t, 2, scored[0].Score)
}

func TestSimilar_Bounds(t *testing.T) {
	cat := richCatalog(t)

	for _, m := range cat.Mentors() {
		for _, k := range []int{1, 2, 3, 10} {
			got := Similar(cat, m.ID, k)
			assert.LessOrEqual(t, len(got), k)
			assert.NotContains(t, ids(got), m.ID, "focal %s returned", m.ID)
		}
	}

	assert.Empty(t, Similar(cat, "missing", 3))
	assert.NotNil(t, Similar(cat, "missing", 3))
	assert.Empty(t, Similar(nil, "a", 3))
}

func TestSimilar_DefaultLimit(t *testing.T) {
	var mentors []core.Mentor
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		mentors = append(mentors, core.Mentor{ID: id, Name: id, Category: "data", Skills: []string{}})
	}
	cat, _ := catalog.New(mentors)

	assert.Len(t, Similar(cat, "1", 0), DefaultSimilarLimit)
	assert.Len(t, Similar(cat, "1", -2), DefaultSimilarLimit)
	assert.Equal(t, []string{"2", "3", "4"}, ids(Similar(cat, "1", 0)))
}
