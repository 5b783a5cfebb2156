package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitRevenue(t *testing.T) {
	owner, reseller := SplitRevenue(10000, 2000)
	assert.Equal(t, int64(2000), owner)
	assert.Equal(t, int64(8000), reseller)

	// Truncation favors the reseller; the sum never drifts.
	owner, reseller = SplitRevenue(999, 3333)
	assert.Equal(t, int64(332), owner)
	assert.Equal(t, int64(667), reseller)

	owner, reseller = SplitRevenue(1, 9999)
	assert.Equal(t, int64(0), owner)
	assert.Equal(t, int64(1), reseller)

	owner, reseller = SplitRevenue(5000, 0)
	assert.Equal(t, int64(0), owner)
	assert.Equal(t, int64(5000), reseller)

	owner, reseller = SplitRevenue(5000, 10000)
	assert.Equal(t, int64(5000), owner)
	assert.Equal(t, int64(0), reseller)

	// Out-of-range bps clamp instead of corrupting the split.
	owner, reseller = SplitRevenue(5000, 12000)
	assert.Equal(t, int64(5000), owner)
	assert.Equal(t, int64(0), reseller)

	for _, revenue := range []int64{1, 7, 333, 12345, 9999999} {
		for _, bps := range []int32{1, 1500, 3333, 6666, 9999} {
			owner, reseller := SplitRevenue(revenue, bps)
			assert.Equal(t, revenue, owner+reseller)
			assert.GreaterOrEqual(t, owner, int64(0))
			assert.GreaterOrEqual(t, reseller, int64(0))
		}
	}
}

func TestEffectiveCommissionBps(t *testing.T) {
	override := int32(3500)
	global := &CommissionConfig{OwnerPercentBps: 2500}

	assert.Equal(t, int32(3500), EffectiveCommissionBps(&override, global))
	assert.Equal(t, int32(2500), EffectiveCommissionBps(nil, global))
	assert.Equal(t, DefaultOwnerPercentBps, EffectiveCommissionBps(nil, nil))

	// A zero override is treated as unset.
	zero := int32(0)
	assert.Equal(t, int32(2500), EffectiveCommissionBps(&zero, global))

	// Stored values outside the valid range clamp on read.
	huge := int32(20000)
	assert.Equal(t, MaxBps, EffectiveCommissionBps(&huge, nil))
	assert.Equal(t, MaxBps, EffectiveCommissionBps(nil, &CommissionConfig{OwnerPercentBps: 10001}))
}

func TestEffectiveSalePrice(t *testing.T) {
	price, source := EffectiveSalePrice(nil, 1500)
	assert.Equal(t, int64(1500), price)
	assert.Equal(t, PriceSourceDefault, source)

	price, source = EffectiveSalePrice(&PriceOverride{Price: 1200}, 1500)
	assert.Equal(t, int64(1200), price)
	assert.Equal(t, PriceSourceOverride, source)
}
