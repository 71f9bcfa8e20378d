package search

import "github.com/tobiaswagner/gruppentool/internal/directory"

// Kind tags a search result as a person or a group row.
type Kind string

const (
	KindPerson Kind = "person"
	KindGroup  Kind = "group"
)

// Item is one ranked, deduplicated search result. Person items carry the
// names of matching groups the person belongs to; group items carry their
// resolved member ids.
type Item struct {
	Kind  Kind `json:"kind"`
	Score int  `json:"score"`

	Person     *directory.Person `json:"person,omitempty"`
	GroupNames []string          `json:"groupNames,omitempty"`

	Group     *directory.Group `json:"group,omitempty"`
	MemberIDs []string         `json:"memberIds,omitempty"`
	// Always serialized, so clients can tell an empty group from a person
	// row that has no count at all.
	MemberCount int `json:"memberCount"`
}
