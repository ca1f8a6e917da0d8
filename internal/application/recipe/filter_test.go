package recipe

import (
	"errors"
	"net/url"
	"testing"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	author := uuid.New()
	values, err := url.ParseQuery("tags=breakfast&tags=%20lunch%20&tags=&author=" + author.String() +
		"&is_favorited=1&is_in_shopping_cart=false&limit=6&unknown=x")
	require.NoError(t, err)

	params, err := ParseFilter(values)

	require.NoError(t, err)
	assert.Equal(t, []string{"breakfast", "lunch"}, params.Tags)
	require.NotNil(t, params.AuthorID)
	assert.Equal(t, author, *params.AuthorID)
	assert.True(t, params.IsFavorited)
	assert.False(t, params.IsInShoppingCart)
}

func TestParseFilter_Empty(t *testing.T) {
	params, err := ParseFilter(url.Values{})

	require.NoError(t, err)
	assert.Empty(t, params.Tags)
	assert.Nil(t, params.AuthorID)
	assert.False(t, params.IsFavorited)
	assert.False(t, params.IsInShoppingCart)
}

func TestParseFilter_Flags(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"0", false},
		{"false", false},
		{"FALSE", false},
		{"1", true},
		{"true", true},
		{" 1 ", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			params, err := ParseFilter(url.Values{ParamIsInShoppingCart: {tt.raw}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, params.IsInShoppingCart)
		})
	}
}

func TestParseFilter_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{"author not a uuid", url.Values{ParamAuthor: {"42"}}},
		{"favorited flag", url.Values{ParamIsFavorited: {"yes"}}},
		{"cart flag", url.Values{ParamIsInShoppingCart: {"2"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(tt.values)
			var domainErr *shared.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, shared.CodeValidation, domainErr.Code)
		})
	}
}
