package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{
			name: "identical vectors",
			a:    []float64{1, 2, 3},
			b:    []float64{1, 2, 3},
			want: 1.0,
		},
		{
			name: "orthogonal vectors",
			a:    []float64{1, 0},
			b:    []float64{0, 1},
			want: 0.0,
		},
		{
			name: "opposite vectors",
			a:    []float64{1, 0},
			b:    []float64{-1, 0},
			want: -1.0,
		},
		{
			name: "both zero magnitude",
			a:    []float64{0, 0, 0},
			b:    []float64{0, 0, 0},
			want: 0.0,
		},
		{
			name: "one zero magnitude",
			a:    []float64{0, 0},
			b:    []float64{3, 4},
			want: 0.0,
		},
		{
			name: "dimension mismatch",
			a:    []float64{1, 2},
			b:    []float64{1, 2, 3},
			want: 0.0,
		},
		{
			name: "empty vectors",
			a:    nil,
			b:    nil,
			want: 0.0,
		},
		{
			name: "magnitude independent",
			a:    []float64{1, 1},
			b:    []float64{10, 10},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}
