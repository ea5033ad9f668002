package state

import (
	"strings"
	"testing"
)

func typeQuery(t *testing.T, r *StateReducer, s *AppState, query string) {
	t.Helper()
	reduce(t, r, s, SearchStartAction{})
	for _, c := range query {
		reduce(t, r, s, SearchCharAction{Char: c})
	}
}

func TestSearchCommitNavigatesToFirstMatch(t *testing.T) {
	s, d := newTestState("alpha", "beta", "gamma needle", "needle delta", "epsilon")
	r := NewStateReducer(nil)

	typeQuery(t, r, s, "needle")
	reduce(t, r, s, SearchCommitAction{})

	if s.SearchInputActive {
		t.Error("commit must leave search entry")
	}
	if d.Search == nil || len(d.Search.Matches) != 2 {
		t.Fatalf("search state = %+v, want 2 matches", d.Search)
	}
	if d.Page != 2 {
		t.Errorf("landed on page %d, want first match page 2", d.Page)
	}
}

func TestSearchNextWrapsAround(t *testing.T) {
	s, d := newTestState("needle", "x", "needle", "x", "needle")
	r := NewStateReducer(nil)

	typeQuery(t, r, s, "needle")
	reduce(t, r, s, SearchCommitAction{})
	if d.Page != 0 {
		t.Fatalf("initial match on page %d, want 0", d.Page)
	}

	reduce(t, r, s, SearchNextAction{})
	if d.Page != 2 {
		t.Fatalf("n landed on %d, want 2", d.Page)
	}
	reduce(t, r, s, SearchNextAction{})
	if d.Page != 4 {
		t.Fatalf("n landed on %d, want 4", d.Page)
	}
	reduce(t, r, s, SearchNextAction{})
	if d.Page != 0 {
		t.Errorf("n past the last match landed on %d, want wraparound to 0", d.Page)
	}
}

func TestSearchPrevWrapsBackward(t *testing.T) {
	s, d := newTestState("needle", "x", "needle")
	r := NewStateReducer(nil)

	typeQuery(t, r, s, "needle")
	reduce(t, r, s, SearchCommitAction{})
	reduce(t, r, s, SearchPrevAction{})
	if d.Page != 2 {
		t.Errorf("N from the first match landed on %d, want wrap to 2", d.Page)
	}
}

func TestSearchIsCaseAndFoldInsensitive(t *testing.T) {
	s, d := newTestState("x", "The QUICK Straße")
	r := NewStateReducer(nil)

	typeQuery(t, r, s, "quick strasse")
	reduce(t, r, s, SearchCommitAction{})
	if d.Search == nil || len(d.Search.Matches) != 1 {
		t.Fatalf("case/fold-insensitive search found %+v", d.Search)
	}
	if d.Page != 1 {
		t.Errorf("landed on %d, want 1", d.Page)
	}
}

func TestSearchNoMatchesNotices(t *testing.T) {
	s, d := newTestState("alpha", "beta")
	r := NewStateReducer(nil)
	d.Page = 1

	typeQuery(t, r, s, "missing")
	reduce(t, r, s, SearchCommitAction{})

	if d.Page != 1 {
		t.Errorf("empty result moved the page to %d", d.Page)
	}
	if !strings.Contains(s.Notice, "pattern not found") {
		t.Errorf("notice = %q, want pattern-not-found", s.Notice)
	}

	// n after an empty search repeats the notice instead of moving.
	reduce(t, r, s, SearchNextAction{})
	if d.Page != 1 {
		t.Errorf("n after empty search moved to %d", d.Page)
	}
	if !strings.Contains(s.Notice, "pattern not found") {
		t.Errorf("notice = %q after n", s.Notice)
	}
}

func TestSearchEmptyQueryIsIgnored(t *testing.T) {
	s, d := newTestState("alpha")
	r := NewStateReducer(nil)

	reduce(t, r, s, SearchStartAction{}, SearchCommitAction{})
	if d.Search != nil {
		t.Errorf("empty query created search state %+v", d.Search)
	}
}

func TestSearchCancelClearsSearchState(t *testing.T) {
	s, d := newTestState("needle", "needle")
	r := NewStateReducer(nil)

	typeQuery(t, r, s, "needle")
	reduce(t, r, s, SearchCommitAction{})
	if d.Search == nil {
		t.Fatal("commit produced no search state")
	}

	typeQuery(t, r, s, "somethingelse")
	reduce(t, r, s, SearchCancelAction{})

	if s.SearchInputActive {
		t.Error("escape must leave search entry")
	}
	if d.Search != nil {
		t.Errorf("escape kept search state %+v", d.Search)
	}

	// n with no live search must stay put.
	page := d.Page
	reduce(t, r, s, SearchNextAction{})
	if d.Page != page {
		t.Errorf("n after a dismissed search moved to %d", d.Page)
	}
}

func TestEscapeInNeutralDismissesSearch(t *testing.T) {
	s, d := newTestState("needle", "needle")
	r := NewStateReducer(nil)

	typeQuery(t, r, s, "needle")
	reduce(t, r, s, SearchCommitAction{})
	reduce(t, r, s, CancelPendingAction{})

	if d.Search != nil {
		t.Errorf("escape kept search state %+v", d.Search)
	}
}

func TestSwitchingDocumentsClearsSearch(t *testing.T) {
	s, d := newTestState("needle", "needle")
	second := NewDocState(dummyIdentity("other"), &fakeSource{pages: []string{"x"}})
	s.Docs = append(s.Docs, second)
	r := NewStateReducer(nil)

	typeQuery(t, r, s, "needle")
	reduce(t, r, s, SearchCommitAction{})
	reduce(t, r, s, NextDocumentAction{})

	if s.Active != 1 {
		t.Fatalf("active = %d, want 1", s.Active)
	}
	if d.Search != nil {
		t.Errorf("focus change kept search state %+v on the previous document", d.Search)
	}
}

func TestSearchBackspaceEditsInput(t *testing.T) {
	s, _ := newTestState("alpha")
	r := NewStateReducer(nil)

	typeQuery(t, r, s, "abc")
	reduce(t, r, s, SearchBackspaceAction{})
	if s.SearchInput != "ab" {
		t.Errorf("input = %q, want %q", s.SearchInput, "ab")
	}
	reduce(t, r, s, SearchBackspaceAction{}, SearchBackspaceAction{}, SearchBackspaceAction{})
	if s.SearchInput != "" {
		t.Errorf("input = %q, want empty after over-deleting", s.SearchInput)
	}
}

func TestSearchStartsFromCurrentPage(t *testing.T) {
	s, d := newTestState("needle", "x", "needle", "x")
	r := NewStateReducer(nil)
	d.Page = 1

	typeQuery(t, r, s, "needle")
	reduce(t, r, s, SearchCommitAction{})
	if d.Page != 2 {
		t.Errorf("search from page 1 landed on %d, want the next match at 2", d.Page)
	}
}

func TestSearchToleratesExtractionFailures(t *testing.T) {
	src := &fakeSource{
		pages:    []string{"x", "bad", "needle"},
		textErrs: map[int]error{1: errTest},
	}
	d := NewDocState(dummyIdentity("doc"), src)
	s := &AppState{Docs: []*DocState{d}}
	r := NewStateReducer(nil)

	typeQuery(t, r, s, "needle")
	reduce(t, r, s, SearchCommitAction{})
	if d.Page != 2 {
		t.Errorf("extraction failure broke the scan; landed on %d", d.Page)
	}
}
