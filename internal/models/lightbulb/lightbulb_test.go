package lightbulb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iotwins/digitaltwin-runtime/internal/models/lightbulb"
)

func TestLowPowerStaysOff(t *testing.T) {
	a, slots := lightbulb.NewFactory().CreateDefault()
	assert.Equal(t, []string{lightbulb.SlotCurrentPowerDraw}, slots)

	a = a.InputChange(lightbulb.SlotCurrentPowerDraw, 0.3)
	assert.Equal(t, lightbulb.StateOff, a.StateName())
}

func TestPowerCyclesOnAndOff(t *testing.T) {
	a, _ := lightbulb.NewFactory().CreateDefault()

	a = a.InputChange(lightbulb.SlotCurrentPowerDraw, 0.7)
	assert.Equal(t, lightbulb.StateOn, a.StateName())

	a = a.InputChange(lightbulb.SlotCurrentPowerDraw, 0.3)
	assert.Equal(t, lightbulb.StateOff, a.StateName())
}

func TestSwitchCommands(t *testing.T) {
	a, _ := lightbulb.NewFactory().CreateDefault()

	a = a.Execute("SwitchOn", nil)
	assert.Equal(t, lightbulb.StateOn, a.StateName())

	a = a.Execute("SwitchOff", nil)
	assert.Equal(t, lightbulb.StateOff, a.StateName())
}

func TestCustomThreshold(t *testing.T) {
	a, _ := lightbulb.NewFactory().CreateWithParams([]byte(`{"threshold": 0.9}`))

	a = a.InputChange(lightbulb.SlotCurrentPowerDraw, 0.8)
	assert.Equal(t, lightbulb.StateOff, a.StateName())

	a = a.InputChange(lightbulb.SlotCurrentPowerDraw, 0.95)
	assert.Equal(t, lightbulb.StateOn, a.StateName())
}
