package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		expected string
	}{
		{
			name:     "plastic bottle",
			labels:   []string{"Plastic Bottle"},
			expected: "plastic",
		},
		{
			name:     "unknown object falls back to mixed",
			labels:   []string{"unknown object"},
			expected: "mixed",
		},
		{
			name:     "empty list falls back to mixed",
			labels:   []string{},
			expected: "mixed",
		},
		{
			name:     "nil list falls back to mixed",
			labels:   nil,
			expected: "mixed",
		},
		{
			// tire is declared before can/metal, so the bulk rule wins
			// even though "can" also matches.
			name:     "rule order breaks ties",
			labels:   []string{"old tire", "can"},
			expected: "bulk",
		},
		{
			name:     "case insensitive",
			labels:   []string{"TIRE"},
			expected: "bulk",
		},
		{
			name:     "substring containment",
			labels:   []string{"Automobile Tires"},
			expected: "bulk",
		},
		{
			name:     "glass bottle is glass, not plastic",
			labels:   []string{"Glass Bottle"},
			expected: "glass",
		},
		{
			name:     "bare bottle defaults to plastic",
			labels:   []string{"Bottle"},
			expected: "plastic",
		},
		{
			name:     "aluminum can",
			labels:   []string{"Aluminum Can"},
			expected: "metal",
		},
		{
			name:     "cardboard",
			labels:   []string{"Cardboard Box"},
			expected: "paper",
		},
		{
			name:     "later labels can still match earlier rules",
			labels:   []string{"Trash", "Styrofoam Cup"},
			expected: "plastic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Categorize(tt.labels))
		})
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	labels := []string{"old tire", "can", "Paper"}
	first := Categorize(labels)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Categorize(labels))
	}
}
