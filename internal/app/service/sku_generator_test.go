package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ikkim/catalog-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type skuSet struct {
	taken map[string]uint
	err   error
	calls int
}

func newSkuSet(skus ...string) *skuSet {
	s := &skuSet{taken: make(map[string]uint)}
	for i, sku := range skus {
		s.taken[sku] = uint(i + 1)
	}
	return s
}

func (s *skuSet) SkuVariantExists(_ context.Context, sku string, excludeID uint) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	id, ok := s.taken[sku]
	return ok && id != excludeID, nil
}

func TestSkuCandidate(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		size   string
		color  string
		random []int
		want   string
	}{
		{"size and color", "ABC123", "Large", "Red", nil, "ABC123-LAR-RED"},
		{"size only", "ABC123", "xl", "", nil, "ABC123-XL"},
		{"color only", "ABC123", "", "navy blue", nil, "ABC123-NAV"},
		{"punctuation stripped", "ABC123", "1/2 inch", "b-l-a-c-k", nil, "ABC123-12I-BLA"},
		{"non ascii only yields no token", "ABC123", "큰", "", []int{0, 7}, "ABC123-07"},
		{"random suffix", "ABC123", "", "", []int{4, 2}, "ABC123-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			random := &util.FixedRandomSource{Values: tt.random}
			assert.Equal(t, tt.want, SkuCandidate(tt.base, tt.size, tt.color, random))
		})
	}
}

func TestSkuGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("free candidate", func(t *testing.T) {
		g := NewSkuGenerator(newSkuSet(), &util.FixedRandomSource{})

		sku, err := g.Generate(ctx, "ABC123", "Large", "Red")
		require.NoError(t, err)
		assert.Equal(t, "ABC123-LAR-RED", sku)
	})

	t.Run("collision appends counter", func(t *testing.T) {
		g := NewSkuGenerator(newSkuSet("ABC123-LAR-RED"), &util.FixedRandomSource{})

		sku, err := g.Generate(ctx, "ABC123", "Large", "Red")
		require.NoError(t, err)
		assert.Equal(t, "ABC123-LAR-RED-01", sku)
	})

	t.Run("counter grows past two digits", func(t *testing.T) {
		taken := []string{"X-LAR"}
		for i := 1; i <= 99; i++ {
			taken = append(taken, "X-LAR-"+twoDigits(i))
		}
		g := NewSkuGenerator(newSkuSet(taken...), &util.FixedRandomSource{})

		sku, err := g.Generate(ctx, "X", "Large", "")
		require.NoError(t, err)
		assert.Equal(t, "X-LAR-100", sku)
	})

	t.Run("own sku is excluded", func(t *testing.T) {
		index := newSkuSet("ABC123-LAR-RED")
		g := NewSkuGenerator(index, &util.FixedRandomSource{})

		sku, err := g.GenerateFrom(ctx, SkuRequest{BaseSku: "ABC123", Size: "Large", Color: "Red", ExcludeID: 1})
		require.NoError(t, err)
		assert.Equal(t, "ABC123-LAR-RED", sku)
	})

	t.Run("start suffix skips bare candidate", func(t *testing.T) {
		index := newSkuSet()
		g := NewSkuGenerator(index, &util.FixedRandomSource{})

		sku, err := g.GenerateFrom(ctx, SkuRequest{BaseSku: "ABC123", Size: "Large", Color: "Red", StartSuffix: 2})
		require.NoError(t, err)
		assert.Equal(t, "ABC123-LAR-RED-02", sku)
		assert.Equal(t, 1, index.calls)
	})

	t.Run("index failure", func(t *testing.T) {
		index := newSkuSet()
		index.err = errors.New("connection reset")
		g := NewSkuGenerator(index, &util.FixedRandomSource{})

		_, err := g.Generate(ctx, "ABC123", "Large", "Red")
		assert.ErrorIs(t, err, index.err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		g := NewSkuGenerator(newSkuSet("ABC123-LAR-RED"), &util.FixedRandomSource{})

		_, err := g.Generate(cctx, "ABC123", "Large", "Red")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func twoDigits(i int) string {
	return string([]byte{byte('0' + i/10), byte('0' + i%10)})
}
