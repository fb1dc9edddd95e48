package aas

import "strings"

// FindReferenceValue finds the submodel by short name, within it the
// first top-level collection with the given short name, then within
// that collection the first reference element with the given short
// name, and returns its string payload. Any missing step yields false.
func (s *Shell) FindReferenceValue(submodelShort, collectionShort, elementShort string) (string, bool) {
	sm := findSubmodelByShortName(s, submodelShort)
	if sm == nil {
		return "", false
	}
	coll := findTopLevelCollection(sm.Elements, collectionShort)
	if coll == nil {
		return "", false
	}
	for _, e := range coll.Value {
		if re, ok := e.(*ReferenceElement); ok && re.ShortName() == elementShort {
			return re.Value, true
		}
	}
	return "", false
}

// ResolveSensorReference parses ref as "<submodel_id>#<element_short>",
// locates the submodel by full ID, recursively finds a collection with
// the given short name, and returns the string value of the first
// "SensorID" property within it.
func (s *Shell) ResolveSensorReference(ref string) (DeviceID, bool) {
	parts := strings.Split(ref, "#")
	if len(parts) != 2 {
		return "", false
	}
	submodelID, elementShort := parts[0], parts[1]

	sm := findSubmodelByID(s, submodelID)
	if sm == nil {
		return "", false
	}

	var target *Collection
	for _, e := range sm.Elements {
		if c, ok := e.(*Collection); ok {
			if found := findCollectionByShortName(c, elementShort); found != nil {
				target = found
				break
			}
		}
	}
	if target == nil {
		return "", false
	}

	for _, e := range target.Value {
		if p, ok := e.(*Property); ok && p.ShortName() == "SensorID" {
			return p.ValueField.AsString()
		}
	}
	return "", false
}

// FindElementsInCollection locates the submodel and top-level collection
// by short name, then walks it recursively (depth-first, pre-order),
// collecting the string value of every property whose short name equals
// target. Nested collections are entered; other element kinds are
// skipped.
func (s *Shell) FindElementsInCollection(submodelShort, collectionShort, targetShort string) []string {
	sm := findSubmodelByShortName(s, submodelShort)
	if sm == nil {
		return nil
	}
	coll := findTopLevelCollection(sm.Elements, collectionShort)
	if coll == nil {
		return nil
	}
	var result []string
	gatherPropertyValues(coll, targetShort, &result)
	return result
}

func gatherPropertyValues(c *Collection, target string, out *[]string) {
	for _, e := range c.Value {
		switch v := e.(type) {
		case *Collection:
			gatherPropertyValues(v, target, out)
		case *Property:
			if v.ShortName() == target {
				if str, ok := v.ValueField.AsString(); ok {
					*out = append(*out, str)
				}
			}
		}
	}
}

func findSubmodelByShortName(s *Shell, short string) *Submodel {
	for i := range s.Submodels {
		if s.Submodels[i].IDShort == short {
			return &s.Submodels[i]
		}
	}
	return nil
}

func findSubmodelByID(s *Shell, id string) *Submodel {
	for i := range s.Submodels {
		if s.Submodels[i].ID == id {
			return &s.Submodels[i]
		}
	}
	return nil
}

func findTopLevelCollection(elements ElementList, short string) *Collection {
	for _, e := range elements {
		if c, ok := e.(*Collection); ok && c.ShortName() == short {
			return c
		}
	}
	return nil
}

// findCollectionByShortName recursively searches a collection (and
// itself) for a sub-collection with the given short name.
func findCollectionByShortName(c *Collection, target string) *Collection {
	if c.ShortName() == target {
		return c
	}
	for _, e := range c.Value {
		if sub, ok := e.(*Collection); ok {
			if found := findCollectionByShortName(sub, target); found != nil {
				return found
			}
		}
	}
	return nil
}
