package directory

// Person is a directory entry with a stable opaque identifier. The display
// name is always derived, never stored.
type Person struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// DisplayName returns "First Last".
func (p Person) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

// Group is a named collection of persons.
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GroupType is a category of group; it constrains which roles are
// selectable.
type GroupType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Role is a position a person can hold within a group of a given type.
type Role struct {
	ID          string `json:"id"`
	GroupTypeID string `json:"groupTypeId"`
	Name        string `json:"name"`
}
