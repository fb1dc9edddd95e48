// Package aas parses Asset Administration Shell descriptions and answers
// the small, fixed set of structural queries the rest of the runtime
// needs (see query.go). The tree is immutable after loading: nothing in
// this package ever mutates a Shell once LoadShell has returned it.
package aas

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// AssetID names a digital twin (by convention a colon-segmented URN whose
// 4th segment classifies the asset kind). DeviceID names a sensor or
// actuator on the bus. Both are opaque strings to this package.
type AssetID = string
type DeviceID = string

// Shell is a top-level Asset Administration Shell.
type Shell struct {
	ID          AssetID    `yaml:"id"`
	IDShort     string     `yaml:"id_short"`
	Description string     `yaml:"description,omitempty"`
	Submodels   []Submodel `yaml:"submodels"`
}

// Submodel groups related elements under one aspect of the asset (e.g.
// "PowerAndElectrical", "IoTDataSources").
type Submodel struct {
	ID       string      `yaml:"id"`
	IDShort  string      `yaml:"id_short"`
	Elements ElementList `yaml:"elements"`
}

// ElementKind tags the concrete type behind an Element.
type ElementKind string

const (
	KindProperty         ElementKind = "property"
	KindOperation        ElementKind = "operation"
	KindEvent            ElementKind = "event"
	KindCollection       ElementKind = "collection"
	KindReferenceElement ElementKind = "referenceelement"
)

// Element is the closed set of submodel element kinds a shell can carry.
type Element interface {
	ShortName() string
	Kind() ElementKind
}

// ElementList decodes a YAML sequence of elements into the right concrete
// Element type per entry, keyed by its element_type tag. Kinds it does
// not recognize are skipped rather than rejected, so a shell written
// against a newer element vocabulary still loads.
type ElementList []Element

type elementEnvelope struct {
	ElementType ElementKind `yaml:"element_type"`
}

func (el *ElementList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("aas: expected a sequence of elements, got kind %d", node.Kind)
	}
	result := make(ElementList, 0, len(node.Content))
	for _, item := range node.Content {
		var envelope elementEnvelope
		if err := item.Decode(&envelope); err != nil {
			return fmt.Errorf("aas: decoding element_type: %w", err)
		}
		var elem Element
		switch envelope.ElementType {
		case KindProperty:
			var p Property
			if err := item.Decode(&p); err != nil {
				return fmt.Errorf("aas: decoding property: %w", err)
			}
			elem = &p
		case KindOperation:
			var o Operation
			if err := item.Decode(&o); err != nil {
				return fmt.Errorf("aas: decoding operation: %w", err)
			}
			elem = &o
		case KindEvent:
			var e Event
			if err := item.Decode(&e); err != nil {
				return fmt.Errorf("aas: decoding event: %w", err)
			}
			elem = &e
		case KindCollection:
			var c Collection
			if err := item.Decode(&c); err != nil {
				return fmt.Errorf("aas: decoding collection: %w", err)
			}
			elem = &c
		case KindReferenceElement:
			var r ReferenceElement
			if err := item.Decode(&r); err != nil {
				return fmt.Errorf("aas: decoding referenceelement: %w", err)
			}
			elem = &r
		default:
			// Unknown element kind: tolerated for forward compatibility,
			// the element is dropped from the tree rather than failing
			// the whole file.
			continue
		}
		result = append(result, elem)
	}
	*el = result
	return nil
}

// ValueType tags the declared type of a Property or OperationVariable
// value. The actual decode of Value is driven by the YAML scalar's own
// tag, not by this field — it exists for round-tripping and readability
// of the shell file alongside the untagged value union.
type ValueType string

const (
	ValueTypeString ValueType = "string"
	ValueTypeInt    ValueType = "int"
	ValueTypeFloat  ValueType = "float"
	ValueTypeBool   ValueType = "bool"
	ValueTypeJSON   ValueType = "json"
)

// Value is a tagged union over the handful of scalar kinds a Property can
// carry, plus an escape hatch for arbitrary JSON/YAML structures.
type Value struct {
	Str  *string
	Int  *int64
	Flt  *float64
	Bool *bool
	JSON any
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		var m any
		if err := node.Decode(&m); err != nil {
			return fmt.Errorf("aas: decoding value: %w", err)
		}
		v.JSON = m
		return nil
	}
	switch node.Tag {
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return err
		}
		v.Int = &i
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		v.Flt = &f
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		v.Bool = &b
	default:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		v.Str = &s
	}
	return nil
}

// AsString returns the string payload of a Value, if it holds one.
func (v Value) AsString() (string, bool) {
	if v.Str == nil {
		return "", false
	}
	return *v.Str, true
}

// Property holds a typed value, e.g. "SensorID" or "CurrentPowerDraw".
type Property struct {
	IDShortField string    `yaml:"id_short"`
	ValueType    ValueType `yaml:"value_type"`
	ValueField   Value     `yaml:"value"`
}

func (p *Property) ShortName() string { return p.IDShortField }
func (p *Property) Kind() ElementKind { return KindProperty }

// OperationVariable is one input or output parameter of an Operation.
type OperationVariable struct {
	Name      string    `yaml:"name"`
	ValueType ValueType `yaml:"value_type"`
	Value     Value     `yaml:"value"`
}

// Operation describes an invocable operation with typed input/output
// variable lists. The runtime never calls one — it is carried purely as
// descriptive AAS data.
type Operation struct {
	IDShortField    string              `yaml:"id_short"`
	InputVariables  []OperationVariable `yaml:"input_variables"`
	OutputVariables []OperationVariable `yaml:"output_variables"`
}

func (o *Operation) ShortName() string { return o.IDShortField }
func (o *Operation) Kind() ElementKind { return KindOperation }

// Event is a name-only asynchronous notification point.
type Event struct {
	IDShortField string `yaml:"id_short"`
}

func (e *Event) ShortName() string { return e.IDShortField }
func (e *Event) Kind() ElementKind { return KindEvent }

// Collection recursively groups elements, e.g. "Sensors" under
// "IoTDataSources", or a per-slot group under "PowerAndElectrical".
type Collection struct {
	IDShortField string      `yaml:"id_short"`
	Value        ElementList `yaml:"value"`
}

func (c *Collection) ShortName() string { return c.IDShortField }
func (c *Collection) Kind() ElementKind { return KindCollection }

// ReferenceElement names a target (another submodel element, or an
// external entity like a sensor) by a string payload.
type ReferenceElement struct {
	IDShortField string `yaml:"id_short"`
	Value        string `yaml:"value"`
}

func (r *ReferenceElement) ShortName() string { return r.IDShortField }
func (r *ReferenceElement) Kind() ElementKind { return KindReferenceElement }
