package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petasbytes/sasa/internal/metrics"
)

func TestCountFeatures_Table(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want metrics.Features
	}{
		{"Empty", "", metrics.Features{}},
		{"ASCII", "hello world", metrics.Features{Bytes: 11, Runes: 11, Words: 2, Lines: 1}},
		{"Multibyte", "héllö 世界", metrics.Features{Bytes: 14, Runes: 8, Words: 2, Lines: 1}},
		{"Multiline_NoTrailing", "a\nb\ncd", metrics.Features{Bytes: 6, Runes: 6, Words: 3, Lines: 3}},
		{"Multiline_Trailing", "a\n", metrics.Features{Bytes: 2, Runes: 2, Words: 1, Lines: 2}},
		{"Tabs", "x\ty  z", metrics.Features{Bytes: 6, Runes: 6, Words: 3, Lines: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, metrics.CountFeatures(tc.in))
		})
	}
}

func TestFeatures_Map(t *testing.T) {
	m := metrics.CountFeatures("ab\ncd").Map()
	assert.Equal(t, map[string]any{"bytes": 5, "runes": 5, "words": 2, "lines": 2}, m)
}
