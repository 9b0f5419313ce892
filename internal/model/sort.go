package model

import "strings"

type SortKey string

const (
	SortByDue     SortKey = "due"
	SortByCreated SortKey = "created"
	SortByStatus  SortKey = "status"
	// SortByID orders by id descending and is what any unrecognised key falls back to.
	SortByID SortKey = "id"
)

func (k SortKey) IsKnown() bool {
	switch k {
	case SortByDue, SortByCreated, SortByStatus, SortByID:
		return true
	default:
		return false
	}
}

func ParseSortKey(raw string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	if k.IsKnown() {
		return k
	}
	return SortByID
}

// SortKeys lists the keys in the order the interactive session cycles through them.
func SortKeys() []SortKey {
	return []SortKey{SortByDue, SortByCreated, SortByStatus, SortByID}
}
