package quotations

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/odyssey-erp/quotedesk/internal/catalog/products"
	"github.com/odyssey-erp/quotedesk/internal/catalog/spares"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestNewLineFromProduct(t *testing.T) {
	image := "pumps/p100.png"
	p := products.Product{
		ID:              7,
		Name:            "Pressure Pump",
		ModelNumber:     "PP-100",
		Price:           dec("1200"),
		DiscountedPrice: decimal.NewNullDecimal(dec("1000")),
		Image:           &image,
	}

	l := NewLineFromProduct(p, 2)
	assert.Equal(t, KindProduct, l.Kind)
	assert.Equal(t, int64(7), l.CatalogID)
	assert.Equal(t, "PP-100", *l.ModelNumber)
	assert.Equal(t, &image, l.Image)
	assertDecimal(t, "1200", l.Price)
	assertDecimal(t, "1000", l.DiscountedPrice)
	assertDecimal(t, "2000", l.Total)
	assertDecimal(t, "17", l.DiscountPercent())
}

func TestNewLineFromProductWithoutDiscount(t *testing.T) {
	l := NewLineFromProduct(products.Product{ID: 1, Name: "Valve", Price: dec("450")}, 0)
	assert.Equal(t, 1, l.Quantity)
	assert.Nil(t, l.ModelNumber)
	assertDecimal(t, "450", l.DiscountedPrice)
	assertDecimal(t, "450", l.Total)
}

func TestNewLineFromSpare(t *testing.T) {
	parent := int64(7)
	l := NewLineFromSpare(spares.Spare{ID: 3, Name: "Seal kit", Price: dec("120"), Stock: 4}, 3, &parent)
	assert.Equal(t, KindSpare, l.Kind)
	assert.Equal(t, &parent, l.ParentProductID)
	assertDecimal(t, "360", l.Total)
}

func TestLineTotalFollowsEveryMutation(t *testing.T) {
	l := NewLineFromSpare(spares.Spare{ID: 3, Name: "Seal kit", Price: dec("100")}, 1, nil)

	l.SetQuantity(4)
	assertDecimal(t, "400", l.Total)

	l.SetDiscountedPrice(dec("80.555"))
	assertDecimal(t, "80.56", l.DiscountedPrice)
	assertDecimal(t, "322.24", l.Total)

	l.ApplyDiscount(dec("25"))
	assertDecimal(t, "75", l.DiscountedPrice)
	assertDecimal(t, "300", l.Total)

	l.SetQuantity(-2)
	assert.Equal(t, 1, l.Quantity)
	assertDecimal(t, "75", l.Total)

	l.SetDiscountedPrice(dec("-5"))
	assertDecimal(t, "0", l.DiscountedPrice)
	assertDecimal(t, "0", l.Total)
}

func TestApplyDiscountClampsToListPrice(t *testing.T) {
	l := NewLineFromSpare(spares.Spare{ID: 1, Name: "Gasket", Price: dec("50")}, 2, nil)

	l.ApplyDiscount(dec("120"))
	assertDecimal(t, "0", l.DiscountedPrice)

	l.ApplyDiscount(dec("-10"))
	assertDecimal(t, "50", l.DiscountedPrice)
	assertDecimal(t, "100", l.Total)
}
