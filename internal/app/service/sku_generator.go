package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ikkim/catalog-backend/pkg/util"
)

const skuTokenLength = 3

// SkuIndex answers whether a variant SKU is taken. Soft-deleted variants
// count as taking their SKU.
type SkuIndex interface {
	SkuVariantExists(ctx context.Context, sku string, excludeID uint) (bool, error)
}

type SkuRequest struct {
	BaseSku string
	Size    string
	Color   string
	// ExcludeID ignores the SKU of the variant being updated.
	ExcludeID uint
	// StartSuffix skips the bare candidate and starts suffixing at this
	// number. Used after losing an insert race.
	StartSuffix int
}

type SkuGenerator struct {
	index  SkuIndex
	random util.RandomSource
}

func NewSkuGenerator(index SkuIndex, random util.RandomSource) *SkuGenerator {
	if random == nil {
		random = util.NewRandomSource()
	}
	return &SkuGenerator{index: index, random: random}
}

// Generate returns an unused variant SKU such as "ABC123-LAR-RED". A taken
// candidate gets "-01", "-02" and so on appended until one is free.
func (g *SkuGenerator) Generate(ctx context.Context, baseSku, size, color string) (string, error) {
	return g.GenerateFrom(ctx, SkuRequest{BaseSku: baseSku, Size: size, Color: color})
}

func (g *SkuGenerator) GenerateFrom(ctx context.Context, req SkuRequest) (string, error) {
	candidate := SkuCandidate(req.BaseSku, req.Size, req.Color, g.random)

	if req.StartSuffix <= 0 {
		taken, err := g.index.SkuVariantExists(ctx, candidate, req.ExcludeID)
		if err != nil {
			return "", fmt.Errorf("check sku %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	suffix := req.StartSuffix
	if suffix < 1 {
		suffix = 1
	}
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		sku := fmt.Sprintf("%s-%02d", candidate, suffix)
		taken, err := g.index.SkuVariantExists(ctx, sku, req.ExcludeID)
		if err != nil {
			return "", fmt.Errorf("check sku %q: %w", sku, err)
		}
		if !taken {
			return sku, nil
		}
		suffix++
	}
}

// SkuCandidate builds the unsuffixed SKU. Size and color contribute their
// first three alphanumerics upper-cased. With neither, two random digits are
// appended so variants of the same product still differ.
func SkuCandidate(baseSku, size, color string, random util.RandomSource) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(baseSku))

	tokens := 0
	for _, part := range []string{size, color} {
		if token := skuToken(part); token != "" {
			b.WriteString("-")
			b.WriteString(token)
			tokens++
		}
	}

	if tokens == 0 {
		fmt.Fprintf(&b, "-%d%d", random.Intn(0, 9), random.Intn(0, 9))
	}
	return b.String()
}

func skuToken(s string) string {
	token := make([]byte, 0, skuTokenLength)
	for i := 0; i < len(s) && len(token) < skuTokenLength; i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			token = append(token, c-'a'+'A')
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			token = append(token, c)
		}
	}
	return string(token)
}
