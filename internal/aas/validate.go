package aas

import "regexp"

var shortNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.:-]*$`)

// InvalidShortNames walks every element in the shell (submodels and,
// recursively, collections) and returns the short names that don't
// match the expected pattern. It never rejects a shell on its own —
// callers log the result and continue, matching the AAS query layer's
// general "never raise" posture.
func InvalidShortNames(shell *Shell) []string {
	var invalid []string
	for _, sm := range shell.Submodels {
		if !shortNamePattern.MatchString(sm.IDShort) {
			invalid = append(invalid, sm.IDShort)
		}
		invalid = append(invalid, invalidShortNamesIn(sm.Elements)...)
	}
	return invalid
}

func invalidShortNamesIn(elements ElementList) []string {
	var invalid []string
	for _, el := range elements {
		if !shortNamePattern.MatchString(el.ShortName()) {
			invalid = append(invalid, el.ShortName())
		}
		if coll, ok := el.(*Collection); ok {
			invalid = append(invalid, invalidShortNamesIn(coll.Value)...)
		}
	}
	return invalid
}
