package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordFilter_Filter(t *testing.T) {
	f := NewKeywordFilter()

	tests := []struct {
		name  string
		in    []string
		limit int
		want  []string
	}{
		{name: "nil", in: nil, limit: 5, want: []string{}},
		{name: "trims and keeps first spelling", in: []string{" Courage ", "courage"}, limit: 5, want: []string{"Courage"}},
		{name: "limit counts kept tokens", in: []string{"a", "책", "용기", "희망", "가족"}, limit: 2, want: []string{"용기", "희망"}},
		{name: "no limit", in: []string{"용기", "희망", "가족"}, limit: 0, want: []string{"용기", "희망", "가족"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Labels(tt.in, tt.limit))
		})
	}
}

func TestKeywordFilter_CustomStopWords(t *testing.T) {
	f := NewKeywordFilterWithStopWords([]string{"Magic"})
	assert.True(t, f.IsStopWord(" magic"))
	assert.False(t, f.IsStopWord("책"))
	assert.Equal(t, []string{"책임"}, f.Labels([]string{"MAGIC", "책임"}, 5))
}
