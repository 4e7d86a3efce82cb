package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCityInfoFor(t *testing.T) {
	mumbai := CityInfoFor("Mumbai")
	assert.Equal(t, 1, mumbai.Tier)
	assert.Equal(t, 0.80, mumbai.CongestionBase)

	guwahati := CityInfoFor("Guwahati")
	assert.Equal(t, 2, guwahati.Tier)
	assert.Equal(t, 0.45, guwahati.CongestionBase)

	// unlisted cities get the default descriptor
	assert.Equal(t, DefaultCity, CityInfoFor("Springfield"))
	assert.Equal(t, DefaultCity, CityInfoFor(""))
}

func TestCityTableNormalised(t *testing.T) {
	for city, ci := range Cities {
		assert.Contains(t, []int{1, 2}, ci.Tier, "city %s", city)
		assert.Greater(t, ci.Density, 0.0, "city %s", city)
		assert.LessOrEqual(t, ci.Density, 1.0, "city %s", city)
		assert.Greater(t, ci.CongestionBase, 0.0, "city %s", city)
		assert.LessOrEqual(t, ci.CongestionBase, 1.0, "city %s", city)
	}
}
