package state

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var searchFolder = cases.Fold()

// foldForSearch normalizes text so queries match regardless of case and
// composed/decomposed Unicode forms.
func foldForSearch(text string) string {
	return searchFolder.String(norm.NFC.String(text))
}

// commitSearch runs the entered query against every page and lands on the
// first match at or after the current page.
func (r *StateReducer) commitSearch(state *AppState) {
	query := state.SearchInput
	state.SearchInputActive = false
	state.SearchInput = ""
	if query == "" {
		return
	}

	d := usableDoc(state)
	if d == nil {
		return
	}

	needle := foldForSearch(query)
	var matches []SearchMatch
	for page := 0; page < d.PageCount; page++ {
		text, err := d.Source.PageText(page)
		if err != nil {
			// A page that fails extraction simply contributes no
			// matches; rendering may still work.
			continue
		}
		count := strings.Count(foldForSearch(text), needle)
		for i := 0; i < count; i++ {
			matches = append(matches, SearchMatch{Page: page})
		}
	}

	d.Search = &SearchState{Query: query, Matches: matches}
	if len(matches) == 0 {
		state.Notice = fmt.Sprintf("pattern not found: %s", query)
		return
	}

	d.Search.Index = firstMatchFrom(matches, d.Page)
	r.gotoPage(state, d, matches[d.Search.Index].Page)
}

// firstMatchFrom picks the first match on or after page, wrapping to the
// start when all matches are behind.
func firstMatchFrom(matches []SearchMatch, page int) int {
	for i, m := range matches {
		if m.Page >= page {
			return i
		}
	}
	return 0
}

// stepSearch advances through the match list with wraparound.
func (r *StateReducer) stepSearch(state *AppState, delta int) {
	state.PendingCount = 0
	d := usableDoc(state)
	if d == nil {
		return
	}
	if d.Search == nil || len(d.Search.Matches) == 0 {
		if d.Search != nil {
			state.Notice = fmt.Sprintf("pattern not found: %s", d.Search.Query)
		}
		return
	}
	n := len(d.Search.Matches)
	d.Search.Index = ((d.Search.Index+delta)%n + n) % n
	r.gotoPage(state, d, d.Search.Matches[d.Search.Index].Page)
}
