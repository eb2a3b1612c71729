package models

import (
	"strings"

	"golang.org/x/text/cases"
)

// FilterAll selects every status in FilterCriteria.
const FilterAll = "All"

// FilterCriteria describes the browse view filter.
type FilterCriteria struct {
	SearchTerm   string `json:"search_term"`
	Status       string `json:"status"` // FilterAll or an EntryStatus value
	ShowInactive bool   `json:"show_inactive"`
}

// DefaultFilter returns the criteria of the default browse view: all active entries.
func DefaultFilter() FilterCriteria {
	return FilterCriteria{Status: FilterAll}
}

// Apply returns the entries matching the criteria, preserving input order.
//
// A specific status shows every entry with that status regardless of visibility.
// Only when all statuses are selected does ShowInactive pick between the active
// and the inactive entries.
func (f FilterCriteria) Apply(entries []Entry) []Entry {
	status := f.Status
	if status == "" {
		status = FilterAll
	}

	fold := cases.Fold()
	term := fold.String(strings.TrimSpace(f.SearchTerm))

	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if status != FilterAll {
			if string(e.Status) != status {
				continue
			}
		} else if e.Active == f.ShowInactive {
			continue
		}

		if term != "" &&
			!strings.Contains(fold.String(e.Name), term) &&
			!strings.Contains(fold.String(e.Description), term) {
			continue
		}
		result = append(result, e)
	}
	return result
}

// ParseFilter builds criteria from raw query values. An unknown status falls
// back to FilterAll.
func ParseFilter(search, status, inactive string) FilterCriteria {
	f := DefaultFilter()
	f.SearchTerm = strings.TrimSpace(search)
	if st, ok := ParseEntryStatus(strings.TrimSpace(status)); ok {
		f.Status = string(st)
	}
	switch strings.ToLower(strings.TrimSpace(inactive)) {
	case "1", "true", "on", "yes":
		f.ShowInactive = true
	}
	return f
}
