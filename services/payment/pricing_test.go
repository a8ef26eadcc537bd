package payment

import (
	"testing"

	"theeyouspace/models"

	"github.com/stretchr/testify/assert"
)

func TestGetPricingNormal(t *testing.T) {
	p := GetPricing(models.SessionTypeNormal)
	assert.Equal(t, int64(60000), p.BaseAmount)
	assert.Equal(t, int64(1300), p.PlatformFee)
	assert.Equal(t, int64(61300), p.TotalAmount)
	assert.Equal(t, int64(613), p.DisplayAmount)
	assert.Equal(t, "INR", p.Currency)
}

func TestGetPricingPriority(t *testing.T) {
	p := GetPricing(models.SessionTypePriority)
	assert.Equal(t, int64(100000), p.BaseAmount)
	assert.Equal(t, int64(2000), p.PlatformFee)
	assert.Equal(t, int64(102000), p.TotalAmount)
	assert.Equal(t, int64(1020), p.DisplayAmount)
}

func TestGetPricingUnknownFallsBackToNormal(t *testing.T) {
	assert.Equal(t, GetPricing(models.SessionTypeNormal), GetPricing("vip"))
}
