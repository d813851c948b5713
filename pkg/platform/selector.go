package platform

import (
	"regexp"
	"strings"

	"github.com/matzehuels/unidep/pkg/errors"
)

var (
	selectorPattern  = regexp.MustCompile(`#\s*\[([^\[\]]+)\]`)
	multipleBrackets = regexp.MustCompile(`#.*\].*\[`)
)

// ParseSelectorComment extracts the platforms named by a "# [sel ...]"
// annotation, using the default table. It returns nil when text carries no
// annotation.
func ParseSelectorComment(text string) ([]Platform, error) {
	return defaultTable.ParseSelectorComment(text)
}

// ParseSelectorComment extracts the platforms named by a "# [sel ...]"
// annotation. Every line of text is inspected; a line with more than one
// bracket group fails with MALFORMED_SELECTOR and any unknown token fails
// the whole parse with UNKNOWN_SELECTOR.
func (t *Table) ParseSelectorComment(text string) ([]Platform, error) {
	var found []Platform
	for _, line := range strings.Split(text, "\n") {
		sel, ok, err := selectorInLine(line)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		ps, err := t.ParseSelector(sel)
		if err != nil {
			return nil, err
		}
		found = append(found, ps...)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return Sort(found), nil
}

// SelectorFromComment returns the raw content of the bracket group in text,
// trimmed, or "" when there is none.
func SelectorFromComment(text string) (string, error) {
	for _, line := range strings.Split(text, "\n") {
		sel, ok, err := selectorInLine(line)
		if err != nil {
			return "", err
		}
		if ok {
			return sel, nil
		}
	}
	return "", nil
}

// ParseSelector resolves a whitespace separated list of selector tokens
// using the default table.
func ParseSelector(sel string) ([]Platform, error) {
	return defaultTable.ParseSelector(sel)
}

// ParseSelector resolves a whitespace separated list of selector tokens into
// the union of their platforms, sorted. An empty list yields nil.
func (t *Table) ParseSelector(sel string) ([]Platform, error) {
	var found []Platform
	for _, tok := range strings.Fields(sel) {
		ps, err := t.Platforms(Selector(tok))
		if err != nil {
			return nil, err
		}
		found = append(found, ps...)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return Sort(found), nil
}

func selectorInLine(line string) (string, bool, error) {
	if multipleBrackets.MatchString(line) {
		return "", false, errors.New(errors.ErrCodeMalformedSelector,
			"multiple bracketed selectors found in line: %q", line)
	}
	m := selectorPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false, nil
	}
	return strings.TrimSpace(m[1]), true, nil
}
