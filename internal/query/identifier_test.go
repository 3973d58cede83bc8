package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	e := MustExtractor(nil)

	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{
			name:   "digit run",
			tokens: []string{"사건번호", "12345"},
			want:   []string{"12345"},
		},
		{
			name:   "digits plus case-type syllable",
			tokens: []string{"2020다", "판결"},
			want:   []string{"2020다"},
		},
		{
			name:   "statute name plus article digits",
			tokens: []string{"민법750", "해석"},
			want:   []string{"민법750"},
		},
		{
			name:   "full docket number",
			tokens: []string{"대법원", "2020다12345"},
			want:   []string{"2020다12345"},
		},
		{
			name:   "short digit run ignored",
			tokens: []string{"12", "조항"},
			want:   nil,
		},
		{
			name:   "plain korean ignored",
			tokens: []string{"근로자", "손해배상"},
			want:   nil,
		},
		{
			name:   "original order preserved",
			tokens: []string{"2020다12345", "계약", "민법750"},
			want:   []string{"2020다12345", "민법750"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.tokens))
		})
	}
}

func TestExtractor_DoesNotMutateInput(t *testing.T) {
	e := MustExtractor(nil)
	tokens := []string{"2020다12345", "손해배상"}
	_ = e.Extract(tokens)
	assert.Equal(t, []string{"2020다12345", "손해배상"}, tokens)
}

func TestNewExtractor(t *testing.T) {
	t.Run("custom patterns", func(t *testing.T) {
		e, err := NewExtractor([]string{`^[A-Z]{2}-[0-9]+$`})
		require.NoError(t, err)
		assert.Equal(t, []string{"AB-12"}, e.Extract([]string{"AB-12", "12345"}))
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := NewExtractor([]string{`[`})
		require.Error(t, err)
	})
}

func TestBuildPhrase(t *testing.T) {
	t.Run("two or more tokens", func(t *testing.T) {
		phrase, ok := BuildPhrase([]string{"근로자", "손해배상"})
		require.True(t, ok)
		assert.Equal(t, `"근로자 손해배상"`, phrase)
	})

	t.Run("single token", func(t *testing.T) {
		_, ok := BuildPhrase([]string{"근로자"})
		assert.False(t, ok)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := BuildPhrase(nil)
		assert.False(t, ok)
	})
}
