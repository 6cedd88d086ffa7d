package rdc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cfreal/simplerdc/radiohal/radiohaltest"
)

func TestGateOnIsNoOpWhenDisabled(t *testing.T) {
	fake := radiohaltest.New()
	g := gate{radio: fake}
	g.on()
	assert.Equal(t, 0, fake.OnCalls)
	assert.False(t, g.radioOn)
}

func TestGateOnIsIdempotent(t *testing.T) {
	fake := radiohaltest.New()
	g := gate{enabled: true, radio: fake}
	g.on()
	g.on()
	g.on()
	assert.Equal(t, 1, fake.OnCalls)
	assert.True(t, g.radioOn)
}

func TestGateOffIsNoOpWhenAlreadyOff(t *testing.T) {
	fake := radiohaltest.New()
	g := gate{enabled: true, radio: fake}
	g.off()
	assert.Equal(t, 0, fake.OffCalls)
}

func TestGateOffIsNoOpWhenKeptOn(t *testing.T) {
	fake := radiohaltest.New()
	g := gate{enabled: true, keepRadioOn: true, radioOn: true, radio: fake}
	g.off()
	assert.Equal(t, 0, fake.OffCalls)
	assert.True(t, g.radioOn)
}

func TestGateOffTurnsRadioOff(t *testing.T) {
	fake := radiohaltest.New()
	g := gate{enabled: true, radioOn: true, radio: fake}
	g.off()
	assert.Equal(t, 1, fake.OffCalls)
	assert.False(t, g.radioOn)
}
