package aas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/iotwins/digitaltwin-runtime/internal/aas"
)

func parseShell(t *testing.T, doc string) *aas.Shell {
	t.Helper()
	var shell aas.Shell
	require.NoError(t, yaml.Unmarshal([]byte(doc), &shell))
	return &shell
}

func TestFindReferenceValue(t *testing.T) {
	shell := parseShell(t, `
id: "urn:aas:example"
id_short: "ExampleAAS"
submodels:
  - id: "urn:aas:example:submodel1"
    id_short: "Submodel1"
    elements:
      - element_type: "collection"
        id_short: "Collection1"
        value:
          - element_type: "referenceelement"
            id_short: "Ref1"
            value: "http://example.com/resource"
`)

	value, ok := shell.FindReferenceValue("Submodel1", "Collection1", "Ref1")
	require.True(t, ok)
	assert.Equal(t, "http://example.com/resource", value)

	_, ok = shell.FindReferenceValue("Submodel1", "Collection1", "NoSuchRef")
	assert.False(t, ok)

	_, ok = shell.FindReferenceValue("NoSuchSubmodel", "Collection1", "Ref1")
	assert.False(t, ok)
}

func TestFindElementsInCollection(t *testing.T) {
	shell := parseShell(t, `
id: "urn:aas:example"
id_short: "ExampleAAS"
submodels:
  - id: "urn:aas:example:submodel1"
    id_short: "IoTDataSources"
    elements:
      - element_type: "collection"
        id_short: "Sensors"
        value:
          - element_type: "property"
            id_short: "SensorID"
            value_type: "string"
            value: "Sensor123"
          - element_type: "collection"
            id_short: "NestedCollection"
            value:
              - element_type: "property"
                id_short: "SensorID"
                value_type: "string"
                value: "Sensor456"
          - element_type: "event"
            id_short: "Ignored"
`)

	ids := shell.FindElementsInCollection("IoTDataSources", "Sensors", "SensorID")
	assert.Equal(t, []string{"Sensor123", "Sensor456"}, ids)

	empty := shell.FindElementsInCollection("IoTDataSources", "NoSuchCollection", "SensorID")
	assert.Empty(t, empty)
}

func TestResolveSensorReference(t *testing.T) {
	shell := parseShell(t, `
id: "urn:aas:example"
id_short: "ExampleAAS"
submodels:
  - id: "urn:aas:example:submodel1"
    id_short: "urn:aas:example:submodel1"
    elements:
      - element_type: "collection"
        id_short: "SensorPowerAbsorption"
        value:
          - element_type: "property"
            id_short: "SensorID"
            value_type: "string"
            value: "urn:iot-sensor:powerAbs123"
`)

	sensorID, ok := shell.ResolveSensorReference("urn:aas:example:submodel1#SensorPowerAbsorption")
	require.True(t, ok)
	assert.Equal(t, "urn:iot-sensor:powerAbs123", sensorID)

	_, ok = shell.ResolveSensorReference("not-a-valid-reference")
	assert.False(t, ok)

	_, ok = shell.ResolveSensorReference("urn:aas:example:submodel1#NoSuchCollection")
	assert.False(t, ok)
}

func TestUnknownElementKindIsTolerated(t *testing.T) {
	shell := parseShell(t, `
id: "urn:aas:example"
id_short: "ExampleAAS"
submodels:
  - id: "urn:aas:example:submodel1"
    id_short: "Submodel1"
    elements:
      - element_type: "somethingfromthefuture"
        id_short: "Whatever"
      - element_type: "collection"
        id_short: "Collection1"
        value: []
`)

	require.Len(t, shell.Submodels, 1)
	assert.Len(t, shell.Submodels[0].Elements, 1)
}

func TestInvalidShortNamesAreReportedNotRejected(t *testing.T) {
	shell := parseShell(t, `
id: "urn:aas:example"
id_short: "ExampleAAS"
submodels:
  - id: "urn:aas:example:submodel1"
    id_short: "Submodel1"
    elements:
      - element_type: "collection"
        id_short: "9BadStart"
        value:
          - element_type: "property"
            id_short: "Good_Name"
            value_type: "string"
            value: "x"
`)

	invalid := aas.InvalidShortNames(shell)
	assert.Equal(t, []string{"9BadStart"}, invalid)
	// The shell itself still parses completely; validation never drops
	// the offending element.
	assert.Len(t, shell.Submodels[0].Elements, 1)
}
