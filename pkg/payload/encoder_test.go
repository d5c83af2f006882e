package payload_test

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/payload-community/payload-go/pkg/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestEncoder_Stringify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{
			name:     "empty object",
			input:    map[string]any{},
			expected: "",
		},
		{
			name:     "nil input",
			input:    nil,
			expected: "",
		},
		{
			name:     "non-container root",
			input:    "just a string",
			expected: "",
		},
		{
			name:     "flat primitives",
			input:    map[string]any{"limit": 10, "sort": "-title", "draft": true},
			expected: "?draft=true&limit=10&sort=-title",
		},
		{
			name:     "nested object",
			input:    map[string]any{"where": map[string]any{"author": map[string]any{"equals": "Alice"}}},
			expected: "?where[author][equals]=Alice",
		},
		{
			name: "array of objects",
			input: map[string]any{
				"where": map[string]any{
					"or": []any{
						map[string]any{"title": map[string]any{"contains": "Deckbuilding"}},
						map[string]any{"title": map[string]any{"contains": "Gloomhaven"}},
					},
				},
			},
			expected: "?where[or][0][title][contains]=Deckbuilding&where[or][1][title][contains]=Gloomhaven",
		},
		{
			name:     "deeply nested arrays",
			input:    map[string]any{"a": []any{[]any{map[string]any{"b": []any{1, 2}}}}},
			expected: "?a[0][0][b][0]=1&a[0][0][b][1]=2",
		},
		{
			name:     "comma stays literal",
			input:    map[string]any{"select": "title,author"},
			expected: "?select=title,author",
		},
		{
			name:     "spaces and reserved characters are escaped",
			input:    map[string]any{"q": "hello world & more"},
			expected: "?q=hello+world+%26+more",
		},
		{
			name:     "float formatting",
			input:    map[string]any{"score": 1.5},
			expected: "?score=1.5",
		},
		{
			name:     "null and unsupported values are skipped",
			input:    map[string]any{"a": nil, "c": func() {}, "d": make(chan int), "x": complex(1, 2), "e": "ok"},
			expected: "?e=ok",
		},
		{
			name:     "all values skipped yields empty string",
			input:    map[string]any{"a": nil, "b": nil},
			expected: "",
		},
		{
			name:     "nil array elements keep sibling indices",
			input:    map[string]any{"tags": []any{"a", nil, "c"}},
			expected: "?tags[0]=a&tags[2]=c",
		},
		{
			name:     "joins disabled sentinel",
			input:    map[string]any{"joins": false},
			expected: "?joins=false",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt := tt
			t.Parallel()

			result := payload.NewEncoder().Stringify(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestEncoder_Dates(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2023, 1, 2, 15, 4, 5, 0, time.UTC)
	result := payload.NewEncoder().Stringify(map[string]any{
		"where": map[string]any{"createdAt": map[string]any{"greater_than": createdAt}},
	})

	assert.Equal(t, "?where[createdAt][greater_than]=2023-01-02T15%3A04%3A05Z", result)
}

func TestEncoder_WithoutQueryPrefix(t *testing.T) {
	t.Parallel()

	encoder := payload.NewEncoder(payload.WithoutQueryPrefix())

	assert.Equal(t, "limit=10", encoder.Stringify(map[string]any{"limit": 10}))
	assert.Equal(t, "", encoder.Stringify(map[string]any{}))
}

func TestEncoder_StrictEncoding(t *testing.T) {
	t.Parallel()

	encoder := payload.NewEncoder(payload.WithStrictEncoding())

	result := encoder.Stringify(map[string]any{
		"select": "title,author",
		"where":  map[string]any{"author": map[string]any{"equals": "Alice"}},
	})

	assert.Equal(t, "?select=title%2Cauthor&where%5Bauthor%5D%5Bequals%5D=Alice", result)
}

// reconstruct rebuilds a nested structure from bracket-notation keys, the way
// the API parses them on the server side.
func reconstruct(t *testing.T, values url.Values) map[string]any {
	t.Helper()

	root := make(map[string]any)

	for key, vals := range values {
		path := strings.FieldsFunc(key, func(r rune) bool {
			return r == '[' || r == ']'
		})

		node := root
		for i, part := range path {
			if i == len(path)-1 {
				node[part] = vals[0]

				break
			}

			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}

			node = child
		}
	}

	return root
}

func TestEncoder_RoundTrip(t *testing.T) {
	t.Parallel()

	input := map[string]any{
		"limit": 25,
		"where": map[string]any{
			"author": map[string]any{"equals": "Alice"},
			"or": []any{
				map[string]any{"title": map[string]any{"contains": "Deckbuilding"}},
			},
		},
	}

	encoded := payload.NewEncoder(payload.WithoutQueryPrefix()).Stringify(input)

	values, err := url.ParseQuery(encoded)
	require.NoError(t, err)

	result := reconstruct(t, values)

	// Structure survives modulo string coercion of the leaves.
	assert.Equal(t, "25", result["limit"])

	where, ok := result["where"].(map[string]any)
	require.True(t, ok)

	author, ok := where["author"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Alice", author["equals"])

	orGroup, ok := where["or"].(map[string]any)
	require.True(t, ok)

	first, ok := orGroup["0"].(map[string]any)
	require.True(t, ok)

	title, ok := first["title"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Deckbuilding", title["contains"])
}
