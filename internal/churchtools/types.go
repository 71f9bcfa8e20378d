package churchtools

import "encoding/json"

// ID decodes a ChurchTools identifier, which arrives as a JSON number or a
// string depending on the API version. Identifiers are opaque; they are kept
// as strings and only parsed where an endpoint requires a numeric value.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*id = ID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*id = ID(s)
	return nil
}

func (id ID) String() string { return string(id) }

// Person is a directory entry as returned by /whoami and /persons.
type Person struct {
	ID        ID     `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Group is a group record from /groups.
type Group struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// GroupType is a group category from /group/grouptypes.
type GroupType struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Role is a position within a group of a given type, from /group/roles.
type Role struct {
	ID          ID     `json:"id"`
	GroupTypeID ID     `json:"groupTypeId"`
	Name        string `json:"name"`
}

// GroupMember is one entry of /groups/{id}/members. Older instances carry a
// bare personId, newer ones embed a domain object.
type GroupMember struct {
	PersonID ID `json:"personId"`
	Person   struct {
		DomainIdentifier ID `json:"domainIdentifier"`
		DomainAttributes struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
		} `json:"domainAttributes"`
	} `json:"person"`
}

// CreateGroupRequest is the body of POST /groups.
type CreateGroupRequest struct {
	GroupTypeID     int    `json:"groupTypeId"`
	Name            string `json:"name"`
	SuperiorGroupID int    `json:"superiorGroupId,omitempty"`
	RoleID          int    `json:"roleId"`
	GroupStatusID   int    `json:"groupStatusId"`
	Visibility      string `json:"visibility,omitempty"`
}

// CreatedGroup is the response of POST /groups. The link fields are
// self-describing; Link picks the most specific one available.
type CreatedGroup struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Links struct {
		Frontend string `json:"frontend"`
		Self     string `json:"self"`
	} `json:"links"`
	FrontendURL string `json:"frontendUrl"`
}

// Link returns the best self-describing link of the created group, or the
// empty string when the response carried none.
func (g CreatedGroup) Link() string {
	switch {
	case g.FrontendURL != "":
		return g.FrontendURL
	case g.Links.Frontend != "":
		return g.Links.Frontend
	default:
		return g.Links.Self
	}
}

// envelope is the { data, meta } wrapper most collection endpoints use.
// Endpoints may also return a bare value; decodeData handles both.
type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta *meta           `json:"meta"`
}

type meta struct {
	Pagination *pagination `json:"pagination"`
}

type pagination struct {
	Current  int `json:"current"`
	LastPage int `json:"lastPage"`
}
