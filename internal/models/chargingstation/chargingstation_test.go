package chargingstation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iotwins/digitaltwin-runtime/internal/models/chargingstation"
)

func TestIdlePowerSpikeGoesToFault(t *testing.T) {
	a, _ := chargingstation.NewFactory().CreateDefault()

	a = a.InputChange(chargingstation.SlotCurrentPowerDraw, 10.0)
	assert.Equal(t, chargingstation.StateFault, a.StateName())
}

func TestVehicleDetectedGoesToConnected(t *testing.T) {
	a, _ := chargingstation.NewFactory().CreateDefault()

	a = a.Execute("VehicleDetected", nil)
	assert.Equal(t, chargingstation.StateConnected, a.StateName())
}

func TestChargingCompletesBackToConnected(t *testing.T) {
	a, _ := chargingstation.NewFactory().CreateDefault()

	a = a.Execute("VehicleDetected", nil).
		InputChange(chargingstation.SlotInputCurrent, 10.0).
		InputChange(chargingstation.SlotCurrentPowerDraw, 1.0)

	assert.Equal(t, chargingstation.StateConnected, a.StateName())
}

func TestOvercurrentGoesToFaultThenReset(t *testing.T) {
	a, _ := chargingstation.NewFactory().CreateDefault()

	a = a.Execute("VehicleDetected", nil).
		InputChange(chargingstation.SlotInputCurrent, 10.0).
		InputChange(chargingstation.SlotInputCurrent, 20.0)
	assert.Equal(t, chargingstation.StateFault, a.StateName())

	a = a.Execute("Reset", nil)
	assert.Equal(t, chargingstation.StateIdle, a.StateName())
}

func TestDisconnectReturnsToIdle(t *testing.T) {
	a, _ := chargingstation.NewFactory().CreateDefault()

	a = a.Execute("VehicleDetected", nil).Execute("VehicleDisconnected", nil)
	assert.Equal(t, chargingstation.StateIdle, a.StateName())
}

func TestParametersSurviveFullCycle(t *testing.T) {
	a, _ := chargingstation.NewFactory().CreateWithParams([]byte(`{"max_current": 32.0}`))
	initial := a.Param("max_current")

	a = a.Execute("VehicleDetected", nil).
		InputChange(chargingstation.SlotInputCurrent, 10.0).
		InputChange(chargingstation.SlotInputCurrent, 40.0).
		Execute("Reset", nil)

	assert.Equal(t, chargingstation.StateIdle, a.StateName())
	assert.Equal(t, initial, a.Param("max_current"))
}
