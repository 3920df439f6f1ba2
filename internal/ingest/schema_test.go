package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMatchesAliasesAndCase(t *testing.T) {
	header := []string{"Ingredient Name", "UOM", "Qty/Shipment", "Monthly Shipments", "Delivery Frequency"}

	idx, err := shipmentsSchema.resolve(header)
	require.NoError(t, err)
	assert.Equal(t, 0, idx["ingredient"])
	assert.Equal(t, 1, idx["unit"])
	assert.Equal(t, 2, idx["qty_per_shipment"])
	assert.Equal(t, 3, idx["shipments_per_month"])
	assert.Equal(t, 4, idx["frequency"])
}

func TestResolveReportsAllMissingColumns(t *testing.T) {
	_, err := shipmentsSchema.resolve([]string{"ingredient", "unit"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qty_per_shipment")
	assert.Contains(t, err.Error(), "shipments_per_month")
	assert.Contains(t, err.Error(), "frequency")
}

func TestNormalizeColumnName(t *testing.T) {
	cases := map[string]string{
		"Qty per Shipment":  "qtypershipment",
		"qty_per_shipment":  "qtypershipment",
		" QTY-PER-SHIPMENT": "qtypershipment",
		"Max. Daily Sales":  "maxdailysales",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeColumnName(in), "input %q", in)
	}
}

func TestParseQuantity(t *testing.T) {
	v, err := parseQuantity("1,250.5")
	require.NoError(t, err)
	assert.InDelta(t, 1250.5, v, 1e-9)

	_, err = parseQuantity("")
	assert.Error(t, err)

	_, err = parseQuantity("abc")
	assert.Error(t, err)
}
