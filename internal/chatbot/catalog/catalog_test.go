package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"banking-chatbot/internal/chatbot/catalog"
	"banking-chatbot/internal/common/logger"
)

func TestResolve(t *testing.T) {
	assert.Equal(t, "Your card will arrive in 5-7 business days via standard mail.", catalog.Resolve(11))
	assert.Equal(t, "If your card was swallowed by an ATM, please report it immediately to customer support.", catalog.Resolve(18))
	assert.Contains(t, catalog.Resolve(0), "Activate Card")
}

func TestResolve_UnknownFallsBack(t *testing.T) {
	for _, id := range []int{-1, catalog.Size, 99, 1 << 20} {
		assert.Equal(t, catalog.Fallback, catalog.Resolve(id), "id %d", id)
	}
}

func TestTable_IsDenseAndNamed(t *testing.T) {
	all := catalog.All()
	require.Len(t, all, catalog.Size)

	names := make(map[string]bool, catalog.Size)
	for i, e := range all {
		assert.Equal(t, i, e.ID)
		assert.NotEmpty(t, e.Name)
		assert.NotEmpty(t, e.Response)
		assert.False(t, names[e.Name], "duplicate name %s", e.Name)
		names[e.Name] = true
	}

	name, ok := catalog.Name(18)
	assert.True(t, ok)
	assert.Equal(t, "card_swallowed", name)
}

func TestCrossCheck(t *testing.T) {
	mapping := make(map[int]string, catalog.Size)
	for _, e := range catalog.All() {
		mapping[e.ID] = e.Name
	}
	assert.Empty(t, catalog.CrossCheck(mapping, nil))

	mapping[3] = "atm"
	delete(mapping, 5)
	mapping[80] = "extra"

	core, logs := observer.New(zap.WarnLevel)
	got := catalog.CrossCheck(mapping, logger.NewZapAdapter(zap.New(core)))

	assert.Equal(t, []catalog.Mismatch{
		{ID: 3, Want: "atm_support", Got: "atm"},
		{ID: 5, Want: "balance_not_updated_after_bank_transfer"},
		{ID: 80, Got: "extra"},
	}, got)
	assert.Equal(t, 3, logs.Len())
}
