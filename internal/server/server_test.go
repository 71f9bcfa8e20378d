package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tobiaswagner/gruppentool/internal/churchtools"
	"github.com/tobiaswagner/gruppentool/internal/directory"
	"github.com/tobiaswagner/gruppentool/internal/groups"
	"github.com/tobiaswagner/gruppentool/internal/search"
)

// fakeSource serves canned reference data.
type fakeSource struct {
	persons []churchtools.Person
	groups  []churchtools.Group
	types   []churchtools.GroupType
	roles   []churchtools.Role
	members map[string][]churchtools.GroupMember
}

func (f *fakeSource) WhoAmI(ctx context.Context) (churchtools.Person, error) {
	return churchtools.Person{ID: "1", FirstName: "Max", LastName: "Mustermann"}, nil
}
func (f *fakeSource) Persons(ctx context.Context) ([]churchtools.Person, error) {
	return f.persons, nil
}
func (f *fakeSource) Groups(ctx context.Context) ([]churchtools.Group, error) {
	return f.groups, nil
}
func (f *fakeSource) GroupTypes(ctx context.Context) ([]churchtools.GroupType, error) {
	return f.types, nil
}
func (f *fakeSource) Roles(ctx context.Context) ([]churchtools.Role, error) {
	return f.roles, nil
}
func (f *fakeSource) GroupMembers(ctx context.Context, groupID string) ([]churchtools.GroupMember, error) {
	return f.members[groupID], nil
}

// fakeAPI answers the group-creation calls.
type fakeAPI struct {
	createErr error
	addedIDs  []string
}

func (f *fakeAPI) CreateGroup(ctx context.Context, req churchtools.CreateGroupRequest) (churchtools.CreatedGroup, error) {
	if f.createErr != nil {
		return churchtools.CreatedGroup{}, f.createErr
	}
	return churchtools.CreatedGroup{ID: "77"}, nil
}
func (f *fakeAPI) TagGroup(ctx context.Context, groupID, tag string) error { return nil }
func (f *fakeAPI) AddGroupMember(ctx context.Context, groupID, personID string, roleID int) error {
	f.addedIDs = append(f.addedIDs, personID)
	return nil
}
func (f *fakeAPI) EnableChat(ctx context.Context, groupID string, inviteMail bool) error {
	return nil
}

func newTestServer(t *testing.T, src directory.Source, api *fakeAPI) *Server {
	t.Helper()
	logger := zerolog.Nop()
	dir, err := directory.Load(context.Background(), src, logger, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	engine := search.NewEngine(dir, logger)
	workflow := groups.NewWorkflow(api, groups.Settings{
		TagName:       "Gruppentool",
		GroupStatusID: 1,
		Visibility:    "hidden",
		WebBaseURL:    "https://example.church.tools",
	}, logger)
	return New(Config{Port: 0}, dir, engine, workflow, logger)
}

func defaultSource() *fakeSource {
	var m churchtools.GroupMember
	m.PersonID = "2"
	return &fakeSource{
		persons: []churchtools.Person{
			{ID: "1", FirstName: "Max", LastName: "Mustermann"},
			{ID: "2", FirstName: "Anna", LastName: "Schmidt"},
		},
		groups: []churchtools.Group{{ID: "10", Name: "Jugend"}},
		types:  []churchtools.GroupType{{ID: "2", Name: "Kleingruppe"}},
		roles: []churchtools.Role{
			{ID: "9", GroupTypeID: "2", Name: "Leiter"},
			{ID: "16", GroupTypeID: "2", Name: "Teilnehmer"},
			{ID: "20", GroupTypeID: "3", Name: "Mitglied"},
		},
		members: map[string][]churchtools.GroupMember{"10": {m}},
	}
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return v
}

func openSession(t *testing.T, s *Server) string {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/sessions = %d", rec.Code)
	}
	return decode[map[string]string](t, rec)["id"]
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, defaultSource(), &fakeAPI{})
	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", rec.Code)
	}
}

func TestWhoami(t *testing.T) {
	s := newTestServer(t, defaultSource(), &fakeAPI{})
	rec := do(t, s, http.MethodGet, "/api/whoami", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/whoami = %d", rec.Code)
	}
	me := decode[directory.Person](t, rec)
	if me.ID != "1" || me.FirstName != "Max" {
		t.Errorf("whoami = %+v", me)
	}
}

func TestReferenceFiltersRolesByGroupType(t *testing.T) {
	s := newTestServer(t, defaultSource(), &fakeAPI{})
	rec := do(t, s, http.MethodGet, "/api/reference?groupTypeId=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/reference = %d", rec.Code)
	}
	ref := decode[struct {
		GroupTypes []directory.GroupType `json:"groupTypes"`
		Roles      []directory.Role      `json:"roles"`
	}](t, rec)
	if len(ref.GroupTypes) != 1 {
		t.Errorf("got %d group types, want 1", len(ref.GroupTypes))
	}
	if len(ref.Roles) != 2 {
		t.Fatalf("got %d roles, want the 2 of type 2", len(ref.Roles))
	}
	for _, r := range ref.Roles {
		if r.GroupTypeID != "2" {
			t.Errorf("role %s belongs to type %s", r.ID, r.GroupTypeID)
		}
	}
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t, defaultSource(), &fakeAPI{})
	rec := do(t, s, http.MethodGet, "/api/search?q=anna", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/search = %d", rec.Code)
	}
	items := decode[[]search.Item](t, rec)
	if len(items) != 1 || items[0].Person.FirstName != "Anna" {
		t.Errorf("search results = %+v, want Anna", items)
	}

	rec = do(t, s, http.MethodGet, "/api/search?q=", "")
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("empty query returned %q, want an empty array", body)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t, defaultSource(), &fakeAPI{})
	id := openSession(t, s)

	rec := do(t, s, http.MethodGet, "/api/sessions/"+id+"/selection", "")
	people := decode[[]directory.Person](t, rec)
	if len(people) != 1 || people[0].ID != "1" {
		t.Errorf("fresh session = %+v, want the acting user only", people)
	}

	rec = do(t, s, http.MethodDelete, "/api/sessions/"+id, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("DELETE session = %d, want 204", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/api/sessions/"+id+"/selection", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("dropped session answered %d, want 404", rec.Code)
	}
}

func TestUnknownSession(t *testing.T) {
	s := newTestServer(t, defaultSource(), &fakeAPI{})
	rec := do(t, s, http.MethodGet, "/api/sessions/nope/selection", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown session = %d, want 404", rec.Code)
	}
}

func TestSelectionAddAndRemove(t *testing.T) {
	s := newTestServer(t, defaultSource(), &fakeAPI{})
	id := openSession(t, s)

	rec := do(t, s, http.MethodPost, "/api/sessions/"+id+"/selection", `{"id":"2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add selection = %d", rec.Code)
	}
	people := decode[[]directory.Person](t, rec)
	if len(people) != 2 {
		t.Fatalf("selection = %+v, want 2 people", people)
	}
	// Names come from the directory, not the request body.
	for _, p := range people {
		if p.ID == "2" && p.FirstName != "Anna" {
			t.Errorf("added person = %+v, want the directory record", p)
		}
	}

	rec = do(t, s, http.MethodDelete, "/api/sessions/"+id+"/selection/1", "")
	people = decode[[]directory.Person](t, rec)
	if len(people) != 1 || people[0].ID != "2" {
		t.Errorf("after removing the acting user: %+v", people)
	}
}

func TestSelectionRejectsBadBody(t *testing.T) {
	s := newTestServer(t, defaultSource(), &fakeAPI{})
	id := openSession(t, s)

	for _, body := range []string{"", "{}", "not json"} {
		rec := do(t, s, http.MethodPost, "/api/sessions/"+id+"/selection", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q answered %d, want 400", body, rec.Code)
		}
	}
}

func TestToggleGroup(t *testing.T) {
	s := newTestServer(t, defaultSource(), &fakeAPI{})
	id := openSession(t, s)

	rec := do(t, s, http.MethodPost, "/api/sessions/"+id+"/selection/group",
		`{"groupId":"10","checked":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle group = %d: %s", rec.Code, rec.Body.String())
	}
	people := decode[[]directory.Person](t, rec)
	if len(people) != 2 {
		t.Fatalf("after check = %+v, want acting user + Anna", people)
	}

	rec = do(t, s, http.MethodPost, "/api/sessions/"+id+"/selection/group",
		`{"groupId":"10","checked":false}`)
	people = decode[[]directory.Person](t, rec)
	if len(people) != 1 || people[0].ID != "1" {
		t.Errorf("after uncheck = %+v, want the acting user only", people)
	}
}

func TestExportEndpoint(t *testing.T) {
	s := newTestServer(t, defaultSource(), &fakeAPI{})
	id := openSession(t, s)

	rec := do(t, s, http.MethodGet,
		"/api/sessions/"+id+"/export?typeId=2&name=Jugend+2026&chat=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"[Gruppen-Konfiguration]",
		"Typ: Kleingruppe (ID: 2)",
		"Name: Jugend 2026",
		"Chat aktiv: Ja",
		"1    Max Mustermann",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("export missing %q in:\n%s", want, body)
		}
	}
}

func TestCreateGroupValidationError(t *testing.T) {
	api := &fakeAPI{}
	s := newTestServer(t, defaultSource(), api)
	id := openSession(t, s)

	rec := do(t, s, http.MethodPost, "/api/sessions/"+id+"/groups",
		`{"name":"","groupTypeId":"2","selfRoleId":"9","othersRoleId":"16"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("create with empty name = %d, want 400", rec.Code)
	}
	resp := decode[map[string]string](t, rec)
	if resp["field"] != "name" {
		t.Errorf("field = %q, want name", resp["field"])
	}
	if resp["error"] == "" {
		t.Error("missing user-facing error message")
	}
	if len(api.addedIDs) != 0 {
		t.Error("members were added despite the validation failure")
	}
}

func TestCreateGroupRemoteFailure(t *testing.T) {
	api := &fakeAPI{createErr: &churchtools.APIError{
		Status:     http.StatusForbidden,
		Translated: "Keine Berechtigung.",
	}}
	s := newTestServer(t, defaultSource(), api)
	id := openSession(t, s)

	rec := do(t, s, http.MethodPost, "/api/sessions/"+id+"/groups",
		`{"name":"Jugend 2026","groupTypeId":"2","selfRoleId":"9","othersRoleId":"16"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("create = %d, want 502", rec.Code)
	}
	resp := decode[map[string]string](t, rec)
	if !strings.Contains(resp["error"], "Keine Berechtigung.") {
		t.Errorf("error = %q, want the translated API message", resp["error"])
	}
}

func TestCreateGroupSuccess(t *testing.T) {
	api := &fakeAPI{}
	s := newTestServer(t, defaultSource(), api)
	id := openSession(t, s)

	// Select Anna alongside the seeded acting user.
	do(t, s, http.MethodPost, "/api/sessions/"+id+"/selection", `{"id":"2"}`)

	rec := do(t, s, http.MethodPost, "/api/sessions/"+id+"/groups",
		`{"name":"Jugend 2026","groupTypeId":"2","selfRoleId":"9","othersRoleId":"16"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[struct {
		Summary groups.Summary `json:"summary"`
		Message string         `json:"message"`
	}](t, rec)
	if resp.Summary.Added != 1 {
		t.Errorf("added = %d, want 1 (acting user excluded)", resp.Summary.Added)
	}
	if want := fmt.Sprintf("Gruppe %q wurde angelegt.", "Jugend 2026"); !strings.Contains(resp.Message, want) {
		t.Errorf("message = %q, want it to start with %q", resp.Message, want)
	}
	if len(api.addedIDs) != 1 || api.addedIDs[0] != "2" {
		t.Errorf("added ids = %v, want [2]", api.addedIDs)
	}
}
