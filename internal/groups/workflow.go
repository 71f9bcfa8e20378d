// Package groups runs the group-creation workflow: validate, create, tag,
// add members, optionally enable chat, summarize.
package groups

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tobiaswagner/gruppentool/internal/churchtools"
	"github.com/tobiaswagner/gruppentool/internal/directory"
)

// API is the slice of the ChurchTools client the workflow calls.
type API interface {
	CreateGroup(ctx context.Context, req churchtools.CreateGroupRequest) (churchtools.CreatedGroup, error)
	TagGroup(ctx context.Context, groupID, tag string) error
	AddGroupMember(ctx context.Context, groupID, personID string, roleID int) error
	EnableChat(ctx context.Context, groupID string, inviteMail bool) error
}

// Settings are the per-instance constants of the workflow.
type Settings struct {
	// TagName is attached to every created group; empty disables tagging.
	TagName string
	// ParentGroupID, GroupStatusID, and Visibility are sent with every
	// create call.
	ParentGroupID int
	GroupStatusID int
	Visibility    string
	// InviteMail is forwarded when chat is enabled.
	InviteMail bool
	// WebBaseURL builds the fallback group link when the create response
	// carries no self-describing link.
	WebBaseURL string
}

// Request is one group-creation submission.
type Request struct {
	Name         string `json:"name"`
	GroupTypeID  string `json:"groupTypeId"`
	SelfRoleID   string `json:"selfRoleId"`
	OthersRoleID string `json:"othersRoleId"`
	EnableChat   bool   `json:"enableChat"`
}

// MemberStatus classifies the outcome of one member-add call.
type MemberStatus string

const (
	// MemberAdded means the person was newly added.
	MemberAdded MemberStatus = "added"
	// MemberConflict means the person already was a member. Not an error,
	// but excluded from the added count.
	MemberConflict MemberStatus = "conflict"
	// MemberFailed means the add call failed. The workflow continues.
	MemberFailed MemberStatus = "failed"
)

// MemberOutcome is the independent result of one member addition.
type MemberOutcome struct {
	Person directory.Person `json:"person"`
	Status MemberStatus     `json:"status"`
	Err    error            `json:"-"`
}

// Workflow issues the group-creation calls against the API.
type Workflow struct {
	api      API
	settings Settings
	logger   zerolog.Logger
}

// NewWorkflow creates a Workflow.
func NewWorkflow(api API, settings Settings, logger zerolog.Logger) *Workflow {
	return &Workflow{
		api:      api,
		settings: settings,
		logger:   logger.With().Str("component", "groups").Logger(),
	}
}

// validated holds the parsed numeric ids of a request that passed
// validation.
type validated struct {
	name        string
	groupTypeID int
	selfRole    int
	othersRole  int
}

// Validate checks the request and reports the first violated rule.
func Validate(req Request) (validated, error) {
	var v validated

	v.name = strings.TrimSpace(req.Name)
	if v.name == "" {
		return v, &ValidationError{Field: "name", Message: "Bitte einen Gruppennamen angeben."}
	}

	typeID, err := strconv.Atoi(strings.TrimSpace(req.GroupTypeID))
	if err != nil || typeID <= 0 {
		return v, &ValidationError{Field: "groupTypeId", Message: "Bitte einen Gruppentyp wählen."}
	}
	v.groupTypeID = typeID

	selfRole, err := strconv.Atoi(strings.TrimSpace(req.SelfRoleID))
	if err != nil || selfRole <= 0 {
		return v, &ValidationError{Field: "selfRoleId", Message: "Bitte eine Rolle für dich wählen."}
	}
	v.selfRole = selfRole

	othersRole, err := strconv.Atoi(strings.TrimSpace(req.OthersRoleID))
	if err != nil || othersRole <= 0 {
		return v, &ValidationError{Field: "othersRoleId", Message: "Bitte eine Rolle für die anderen Mitglieder wählen."}
	}
	v.othersRole = othersRole

	return v, nil
}

// Run executes the workflow. Validation failures and a failed create call
// return an error before or instead of a summary; everything after the
// create is best effort and folds into the summary.
func (w *Workflow) Run(ctx context.Context, req Request, actingUserID string, selected []directory.Person) (*Summary, error) {
	v, err := Validate(req)
	if err != nil {
		return nil, err
	}

	created, err := w.api.CreateGroup(ctx, churchtools.CreateGroupRequest{
		GroupTypeID:     v.groupTypeID,
		Name:            v.name,
		SuperiorGroupID: w.settings.ParentGroupID,
		RoleID:          v.selfRole,
		GroupStatusID:   w.settings.GroupStatusID,
		Visibility:      w.settings.Visibility,
	})
	if err != nil {
		return nil, &RemoteCallError{Err: err}
	}
	groupID := created.ID.String()

	// Tagging is best effort and never surfaces in the summary.
	if w.settings.TagName != "" {
		if err := w.api.TagGroup(ctx, groupID, w.settings.TagName); err != nil {
			w.logger.Warn().Err(err).Str("group_id", groupID).Msg("tagging failed")
		}
	}

	// Everyone selected except the acting user joins in parallel, each with
	// an independent outcome.
	var others []directory.Person
	for _, p := range selected {
		if p.ID != actingUserID {
			others = append(others, p)
		}
	}
	outcomes := make([]MemberOutcome, len(others))
	var wg sync.WaitGroup
	for i, p := range others {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := w.api.AddGroupMember(ctx, groupID, p.ID, v.othersRole)
			switch {
			case err == nil:
				outcomes[i] = MemberOutcome{Person: p, Status: MemberAdded}
			case churchtools.IsConflict(err):
				outcomes[i] = MemberOutcome{Person: p, Status: MemberConflict}
			default:
				w.logger.Warn().Err(err).Str("person_id", p.ID).Msg("adding member failed")
				outcomes[i] = MemberOutcome{Person: p, Status: MemberFailed, Err: err}
			}
		}()
	}
	wg.Wait()

	chatEnabled := false
	if req.EnableChat {
		if err := w.api.EnableChat(ctx, groupID, w.settings.InviteMail); err != nil {
			w.logger.Warn().Err(err).Str("group_id", groupID).Msg("enabling chat failed")
		} else {
			chatEnabled = true
		}
	}

	summary := newSummary(created, v.name, req.EnableChat, chatEnabled, outcomes, w.settings.WebBaseURL)
	w.logger.Info().
		Str("group_id", groupID).
		Int("added", summary.Added).
		Int("conflicts", summary.Conflicts).
		Int("failed", summary.Failed).
		Bool("chat", chatEnabled).
		Msg("group creation finished")
	return summary, nil
}
