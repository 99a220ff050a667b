package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FuseKota/omen-manage/model"
)

const sampleCatalog = `
products:
  - id: omen-1
    name: 狐面ホワイト
    category: OMEN
    salePrice: 500
    rentalAllowed: true
  - id: mingei-1
    name: 伝統狐面（金）
    category: MINGEI
    salePrice: 1000
    rentalAllowed: true
  - id: vinyl-1
    name: アニマル仮面セット
    category: VINYL
    salePrice: 300
    rentalAllowed: false
`

func TestLoad(t *testing.T) {
	r, err := Load([]byte(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, r.List(), 3)

	p, ok := r.ByID("vinyl-1")
	require.True(t, ok)
	require.Equal(t, model.CategoryVinyl, p.Category)
	require.Equal(t, 300, p.SalePrice)
	require.False(t, p.RentalAllowed)

	_, ok = r.ByID("omen-99")
	require.False(t, ok)
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":          `products: []`,
		"missing id":     "products:\n  - name: x\n    salePrice: 1",
		"negative price": "products:\n  - id: a\n    name: x\n    salePrice: -1",
		"duplicate id":   "products:\n  - id: a\n    name: x\n    salePrice: 1\n  - id: a\n    name: y\n    salePrice: 2",
		"bad yaml":       `{{`,
	}
	for name, raw := range cases {
		if _, err := Load([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
