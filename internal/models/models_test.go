package models_test

import (
	"encoding/json"
	"testing"

	"pizzashop/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want models.Size
	}{
		{"Small", models.SizeSmall},
		{"s", models.SizeSmall},
		{"MEDIUM", models.SizeMedium},
		{"large", models.SizeLarge},
		{"Extra Large", models.SizeExtraLarge},
		{"extra_large", models.SizeExtraLarge},
		{"extra-large", models.SizeExtraLarge},
		{"XL", models.SizeExtraLarge},
	}
	for _, tt := range tests {
		got, err := models.ParseSize(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := models.ParseSize("Family")
	assert.Error(t, err)
	_, err = models.ParseSize("")
	assert.Error(t, err)
}

func TestPizzaPriceFor(t *testing.T) {
	p := models.Pizza{
		SmallPrice:      models.MustMoney("10"),
		MediumPrice:     models.MustMoney("12"),
		LargePrice:      models.MustMoney("14"),
		ExtraLargePrice: models.MustMoney("16"),
	}
	for i, size := range models.Sizes {
		price, err := p.PriceFor(size)
		require.NoError(t, err)
		assert.Equal(t, int64(10+2*i), price.IntPart())
	}
	_, err := p.PriceFor(models.Size("Family"))
	assert.Error(t, err)
}

func TestParseOrderStatus(t *testing.T) {
	got, err := models.ParseOrderStatus("  in the OVEN ")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInTheOven, got)

	_, err = models.ParseOrderStatus("Burnt")
	assert.Error(t, err)

	assert.True(t, models.StatusDelivered.Terminal())
	assert.True(t, models.StatusCancelled.Terminal())
	assert.False(t, models.StatusPending.Terminal())
}

func TestMoney(t *testing.T) {
	unit := models.MustMoney("10.10")
	total := unit.Times(3).Plus(models.MustMoney("0.2"))

	assert.Equal(t, "30.50", total.String())
	assert.True(t, total.EqualTo(models.MustMoney("30.5")))

	out, err := json.Marshal(struct {
		Total models.Money `json:"total"`
	}{total})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":"30.50"}`, string(out))

	var in struct {
		Total models.Money `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"total":"12.5"}`), &in))
	assert.Equal(t, "12.50", in.Total.String())

	_, err = models.NewMoney("twelve")
	assert.Error(t, err)
}

func TestSummarizeItems(t *testing.T) {
	assert.Equal(t, "", models.SummarizeItems(nil))
	assert.Equal(t, "Margherita (Small) x2, Pepperoni (Large) x1", models.SummarizeItems([]models.OrderItemView{
		{PizzaName: "Margherita", Size: models.SizeSmall, Quantity: 2},
		{PizzaName: "Pepperoni", Size: models.SizeLarge, Quantity: 1},
	}))
}

func TestCustomerContactToCustomer(t *testing.T) {
	c := models.CustomerContact{Name: "Ann", Phone: "555-0100", Address: "1 Main St", Email: "ann@example.com"}.ToCustomer()

	assert.Zero(t, c.ID)
	assert.Equal(t, "Ann", c.Name)
	assert.Equal(t, "555-0100", c.Phone)
	assert.Equal(t, "ann@example.com", c.Email)
}

func TestPlaceOrderRequestNormalize(t *testing.T) {
	req := models.PlaceOrderRequest{
		Customer: models.CustomerContact{Name: " Ann ", Phone: "\t555-0100 ", Address: " 1 Main St", Email: " ann@example.com "},
		Items: []models.CartLine{
			{PizzaName: "  Margherita ", Size: " small ", Quantity: 2},
			{PizzaID: 2, PizzaName: "   ", Size: "XL", Quantity: 1},
		},
		SpecialInstructions: "\n ring twice ",
	}

	got := req.Normalize()

	assert.Equal(t, models.CustomerContact{Name: "Ann", Phone: "555-0100", Address: "1 Main St", Email: "ann@example.com"}, got.Customer)
	assert.Equal(t, "Margherita", got.Items[0].PizzaName)
	assert.Equal(t, "small", got.Items[0].Size)
	assert.Empty(t, got.Items[1].PizzaName)
	assert.Equal(t, "ring twice", got.SpecialInstructions)
	// The caller's request is left as it was.
	assert.Equal(t, " Ann ", req.Customer.Name)
	assert.Equal(t, "  Margherita ", req.Items[0].PizzaName)
}
