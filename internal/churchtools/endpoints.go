package churchtools

import (
	"context"
	"fmt"
)

// Login authenticates with username and password; the session cookie is kept
// in the client's cookie jar. Production setups use a login token instead,
// this exists for development against a local instance.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	if err := c.Post(ctx, "/login", body, nil); err != nil {
		return fmt.Errorf("logging in as %s: %w", username, err)
	}
	c.logger.Info().Str("username", username).Msg("logged in")
	return nil
}

// WhoAmI returns the person the current credentials belong to.
func (c *Client) WhoAmI(ctx context.Context) (Person, error) {
	var p Person
	if err := c.Get(ctx, "/whoami", nil, &p); err != nil {
		return Person{}, fmt.Errorf("fetching whoami: %w", err)
	}
	return p, nil
}

// Persons returns the full person directory, all pages merged.
func (c *Client) Persons(ctx context.Context) ([]Person, error) {
	persons, err := GetAllPages[Person](ctx, c, "/persons", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching persons: %w", err)
	}
	return persons, nil
}

// Groups returns all groups, all pages merged.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	groups, err := GetAllPages[Group](ctx, c, "/groups", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching groups: %w", err)
	}
	return groups, nil
}

// GroupTypes returns all group types. The endpoint is not paginated.
func (c *Client) GroupTypes(ctx context.Context) ([]GroupType, error) {
	var types []GroupType
	if err := c.Get(ctx, "/group/grouptypes", nil, &types); err != nil {
		return nil, fmt.Errorf("fetching group types: %w", err)
	}
	return types, nil
}

// Roles returns all group roles. The endpoint is not paginated.
func (c *Client) Roles(ctx context.Context) ([]Role, error) {
	var roles []Role
	if err := c.Get(ctx, "/group/roles", nil, &roles); err != nil {
		return nil, fmt.Errorf("fetching roles: %w", err)
	}
	return roles, nil
}

// GroupMembers returns the member list of one group, all pages merged.
func (c *Client) GroupMembers(ctx context.Context, groupID string) ([]GroupMember, error) {
	members, err := GetAllPages[GroupMember](ctx, c, "/groups/"+groupID+"/members", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching members of group %s: %w", groupID, err)
	}
	return members, nil
}

// CreateGroup creates a new group.
func (c *Client) CreateGroup(ctx context.Context, req CreateGroupRequest) (CreatedGroup, error) {
	var created CreatedGroup
	if err := c.Post(ctx, "/groups", req, &created); err != nil {
		return CreatedGroup{}, err
	}
	c.logger.Info().Str("group_id", created.ID.String()).Str("name", created.Name).Msg("group created")
	return created, nil
}

// TagGroup attaches a tag to a group.
func (c *Client) TagGroup(ctx context.Context, groupID, tag string) error {
	body := map[string]string{"name": tag}
	return c.Post(ctx, "/tags/group/"+groupID, body, nil)
}

// AddGroupMember adds a person to a group with the given role. A 409
// response means the person already is a member; callers detect that with
// IsConflict.
func (c *Client) AddGroupMember(ctx context.Context, groupID, personID string, roleID int) error {
	body := map[string]any{
		"groupTypeRoleId":   roleID,
		"groupMemberStatus": "active",
	}
	return c.Put(ctx, "/groups/"+groupID+"/members/"+personID, body, nil)
}

// EnableChat activates the chat for a group.
func (c *Client) EnableChat(ctx context.Context, groupID string, inviteMail bool) error {
	body := map[string]any{
		"enabled":    true,
		"inviteMail": inviteMail,
	}
	return c.Post(ctx, "/groups/"+groupID+"/chat", body, nil)
}
