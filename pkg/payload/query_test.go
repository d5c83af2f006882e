package payload_test

import (
	"strings"
	"testing"

	"github.com/payload-community/payload-go/pkg/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestQueryBuilder_Build(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    *payload.QueryBuilder
		expected map[string]any
	}{
		{
			name:     "empty query",
			query:    payload.NewQuery(),
			expected: map[string]any{},
		},
		{
			name:  "scalar options",
			query: payload.NewQuery().Limit(10).Page(2).Depth(1),
			expected: map[string]any{
				"limit": 10,
				"page":  2,
				"depth": 1,
			},
		},
		{
			name:  "locales use the literal hyphenated fallback key",
			query: payload.NewQuery().Locale("en").FallbackLocale("de"),
			expected: map[string]any{
				"locale":          "en",
				"fallback-locale": "de",
			},
		},
		{
			name:  "select joins with commas",
			query: payload.NewQuery().Select("title", "author"),
			expected: map[string]any{
				"select": "title,author",
			},
		},
		{
			name:  "sort appends across calls",
			query: payload.NewQuery().Sort("date").SortByDescending("title"),
			expected: map[string]any{
				"sort": "date,-title",
			},
		},
		{
			name:  "populate assigns instead of appending",
			query: payload.NewQuery().Populate("author").Populate("comments", "author"),
			expected: map[string]any{
				"populate": "comments,author",
			},
		},
		{
			name:  "where only present when clauses exist",
			query: payload.NewQuery().Where("title", payload.OpEquals, "foo"),
			expected: map[string]any{
				"where": map[string]any{"title": map[string]any{"equals": "foo"}},
			},
		},
		{
			name:  "disabled joins emit false",
			query: payload.NewQuery().Join(func(j *payload.JoinBuilder) { j.Disable() }),
			expected: map[string]any{
				"joins": false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt := tt
			t.Parallel()

			assert.Equal(t, tt.expected, tt.query.Build())
		})
	}
}

func TestQueryBuilder_Chaining(t *testing.T) {
	t.Parallel()

	query := payload.NewQuery().
		Limit(25).
		Page(3).
		Depth(2).
		Locale("en").
		Select("title").
		Select("author").
		Sort("createdAt").
		Where("status", payload.OpEquals, "published")

	built := query.Build()

	assert.Equal(t, 25, built["limit"])
	assert.Equal(t, 3, built["page"])
	assert.Equal(t, 2, built["depth"])
	assert.Equal(t, "en", built["locale"])
	assert.Equal(t, "title,author", built["select"])
	assert.Equal(t, "createdAt", built["sort"])
}

func TestQueryBuilder_SelectAppendsWhereSameFieldWhereOverwrites(t *testing.T) {
	t.Parallel()

	// The asymmetry is intentional: select accumulates, a repeated where on
	// the same field replaces the earlier comparison.
	query := payload.NewQuery().
		Select("title").
		Select("title").
		Where("title", payload.OpEquals, "a").
		Where("title", payload.OpEquals, "b")

	built := query.Build()

	assert.Equal(t, "title,title", built["select"])

	where, ok := built["where"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"equals": "b"}, where["title"])
}

func TestQueryBuilder_WhereWithOrGroupSerializes(t *testing.T) {
	t.Parallel()

	query := payload.NewQuery().
		Where("author", payload.OpEquals, "Alice").
		Or(func(g *payload.WhereBuilder) {
			g.Where("title", payload.OpContains, "Deckbuilding")
			g.Where("title", payload.OpContains, "Gloomhaven")
		})

	encoded := payload.NewEncoder().Stringify(query.Build())

	assert.Contains(t, encoded, "where[author][equals]=Alice")
	assert.Contains(t, encoded, "where[or][0][title][contains]=Deckbuilding&where[or][1][title][contains]=Gloomhaven")
}

func TestQueryBuilder_JoinSerializes(t *testing.T) {
	t.Parallel()

	query := payload.NewQuery().
		Join(func(j *payload.JoinBuilder) {
			j.Where("posts", "author", payload.OpEquals, "Alice").
				SortByDescending("posts", "title").
				Limit("posts", 1)
		})

	encoded := payload.NewEncoder().Stringify(query.Build())

	assert.Contains(t, encoded, "joins[posts][where][author][equals]=Alice")
	assert.Contains(t, encoded, "joins[posts][sort]=-title")
	assert.Contains(t, encoded, "joins[posts][limit]=1")
}

func TestQueryBuilder_BuildOmitsAbsentOptions(t *testing.T) {
	t.Parallel()

	built := payload.NewQuery().Limit(10).Build()

	assert.Equal(t, map[string]any{"limit": 10}, built)
	assert.NotContains(t, built, "where")
	assert.NotContains(t, built, "joins")
	assert.NotContains(t, built, "fallback-locale")
}

func TestQueryBuilder_BuildIsRepeatable(t *testing.T) {
	t.Parallel()

	query := payload.NewQuery().
		Limit(10).
		Where("title", payload.OpEquals, "foo").
		Join(func(j *payload.JoinBuilder) {
			j.Limit("posts", 1)
		})

	first := query.Build()
	second := query.Build()

	assert.Equal(t, first, second)

	encoder := payload.NewEncoder()
	assert.Equal(t, encoder.Stringify(first), encoder.Stringify(second))
}

func TestQueryBuilder_FullScenario(t *testing.T) {
	t.Parallel()

	query := payload.NewQuery().
		Limit(20).
		Select("title", "author").
		Sort("date").
		SortByDescending("title").
		FallbackLocale("en").
		Where("author", payload.OpEquals, "Alice")

	encoded := payload.NewEncoder().Stringify(query.Build())

	assert.True(t, strings.HasPrefix(encoded, "?"))
	assert.Contains(t, encoded, "select=title,author")
	assert.Contains(t, encoded, "sort=date,-title")
	assert.Contains(t, encoded, "fallback-locale=en")
	assert.Contains(t, encoded, "limit=20")
	assert.Contains(t, encoded, "where[author][equals]=Alice")
}
