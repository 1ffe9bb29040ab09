package studio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/studio-engine/studio"
)

func TestMustParseMoney(t *testing.T) {
	assert.True(t, studio.MustParseMoney("14.9985").Equal(studio.Percent(studio.MustParseMoney("29.997"), 50)))
	assert.True(t, studio.MustParseMoney("0").IsZero())

	assert.Panics(t, func() { studio.MustParseMoney("12,50") })
	assert.Panics(t, func() { studio.MustParseMoney("") })
}
