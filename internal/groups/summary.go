package groups

import (
	"fmt"
	"strings"

	"github.com/tobiaswagner/gruppentool/internal/churchtools"
)

// Summary is the aggregate result of one workflow run.
type Summary struct {
	GroupID   string          `json:"groupId"`
	GroupName string          `json:"groupName"`
	Added     int             `json:"added"`
	Conflicts int             `json:"conflicts"`
	Failed    int             `json:"failed"`
	ChatAsked bool            `json:"chatAsked"`
	ChatOn    bool            `json:"chatOn"`
	Link      string          `json:"link"`
	Outcomes  []MemberOutcome `json:"outcomes"`
}

func newSummary(created churchtools.CreatedGroup, name string, chatAsked, chatOn bool, outcomes []MemberOutcome, webBase string) *Summary {
	s := &Summary{
		GroupID:   created.ID.String(),
		GroupName: name,
		ChatAsked: chatAsked,
		ChatOn:    chatOn,
		Outcomes:  outcomes,
	}
	for _, o := range outcomes {
		switch o.Status {
		case MemberAdded:
			s.Added++
		case MemberConflict:
			s.Conflicts++
		case MemberFailed:
			s.Failed++
		}
	}

	s.Link = created.Link()
	if s.Link == "" {
		s.Link = fmt.Sprintf("%s/groups/%s", strings.TrimRight(webBase, "/"), s.GroupID)
	}
	return s
}

// Message renders the one-sentence German result the widget shows.
func (s *Summary) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Gruppe \"%s\" wurde angelegt. %s hinzugefügt.", s.GroupName, pluralizePersons(s.Added))
	if s.Failed > 0 {
		fmt.Fprintf(&b, " %s fehlgeschlagen.", pluralizeJoins(s.Failed))
	}
	if s.ChatAsked {
		if s.ChatOn {
			b.WriteString(" Chat aktiviert.")
		} else {
			b.WriteString(" Chat konnte nicht aktiviert werden.")
		}
	}
	fmt.Fprintf(&b, " Link: %s", s.Link)
	return b.String()
}

func pluralizePersons(n int) string {
	if n == 1 {
		return "1 Person"
	}
	return fmt.Sprintf("%d Personen", n)
}

func pluralizeJoins(n int) string {
	if n == 1 {
		return "1 Beitritt"
	}
	return fmt.Sprintf("%d Beitritte", n)
}
