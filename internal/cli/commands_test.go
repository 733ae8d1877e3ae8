package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/labelschema/internal/database"
	"github.com/thenoetrevino/labelschema/internal/loader"
	"github.com/thenoetrevino/labelschema/internal/models"
	"github.com/thenoetrevino/labelschema/internal/schema"
	"github.com/thenoetrevino/labelschema/internal/testutil"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

const fixtureJSON = `{
  "colour_schemes": [
    {"id": 1, "active": true, "name": "natural", "human_name": "Natural"}
  ],
  "groups": [
    {"id": 2, "active": true, "group_name": "Vehicles", "group_classes": [
      {"id": 3, "active": true, "name": "car", "human_name": "Car",
       "colours": {"natural": {"html": "#112233"}, "default": {"html": "#445566"}}}
    ]}
  ]
}`

func dbPath(t *testing.T) string {
	return testutil.TempDBPath(t)
}

func writeFixture(t *testing.T, name string) string {
	return testutil.WriteSchemaFile(t, name, fixtureJSON)
}

func loadState(t *testing.T, path string) schema.State {
	t.Helper()
	src, err := loader.LoadFile(path)
	require.NoError(t, err)
	return src.State
}

// schemaServer is a fake update endpoint that assigns ids to placeholders
type schemaServer struct {
	mu      sync.Mutex
	actions []string
	nextID  int
	status  int
}

func newSchemaServer(t *testing.T) (*schemaServer, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &schemaServer{nextID: 100, status: http.StatusOK}
	r := gin.New()
	r.POST("/update", s.handle)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return s, srv
}

func (s *schemaServer) handle(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	action := c.PostForm("action")
	s.actions = append(s.actions, action)

	if s.status != http.StatusOK {
		c.String(s.status, "nope")
		return
	}

	var params struct {
		ColourSchemes []map[string]any `json:"colour_schemes"`
		Groups        []struct {
			ID           any              `json:"id"`
			GroupClasses []map[string]any `json:"group_classes"`
		} `json:"groups"`
	}
	if err := json.Unmarshal([]byte(c.PostForm("params")), &params); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "invalid params"})
		return
	}

	assign := func(id any, mapping gin.H) {
		if key, ok := id.(string); ok {
			mapping[key] = s.nextID
			s.nextID++
		}
	}

	switch action {
	case models.ActionUpdateColourSchemes:
		mapping := gin.H{}
		for _, cs := range params.ColourSchemes {
			assign(cs["id"], mapping)
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "id_mapping": mapping})
	case models.ActionUpdateLabelClassGroups:
		groups, classes := gin.H{}, gin.H{}
		for _, g := range params.Groups {
			assign(g.ID, groups)
			for _, lcls := range g.GroupClasses {
				assign(lcls["id"], classes)
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":                 "success",
			"group_id_mapping":       groups,
			"label_class_id_mapping": classes,
		})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "unknown action"})
	}
}

func (s *schemaServer) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.actions...)
}

// ============================================================================
// show
// ============================================================================

func TestShow_Raw(t *testing.T) {
	isolate(t)
	path := writeFixture(t, "schema.json")

	stdout, _, err := executeCommand("--db-path", dbPath(t), "show", path, "--raw")
	require.NoError(t, err)

	assert.Contains(t, stdout, "# Label schema")
	assert.Contains(t, stdout, "natural")
	assert.Contains(t, stdout, "Vehicles")
	assert.Contains(t, stdout, "#112233")
}

func TestShow_JSON(t *testing.T) {
	isolate(t)
	path := writeFixture(t, "schema.json")

	stdout, _, err := executeCommand("--db-path", dbPath(t), "--json", "show", path)
	require.NoError(t, err)

	src, err := loader.Decode(strings.NewReader(stdout), loader.FormatJSON)
	require.NoError(t, err)
	require.Len(t, src.State.ColourSchemes, 1)
	require.Len(t, src.State.Groups, 1)
	assert.Equal(t, "car", src.State.Groups[0].GroupClasses[0].Name)
}

func TestShow_YAML(t *testing.T) {
	isolate(t)
	path := writeFixture(t, "schema.json")

	stdout, _, err := executeCommand("--db-path", dbPath(t), "show", path, "--yaml")
	require.NoError(t, err)

	src, err := loader.Decode(strings.NewReader(stdout), loader.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "Vehicles", src.State.Groups[0].GroupName)
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	state := schema.State{
		ColourSchemes: []*models.ColourScheme{{ID: models.AssignedID(1), Active: false, Name: "night", HumanName: "Night | dark"}},
		Groups: []*models.LabelClassGroup{{
			ID: models.AssignedID(2), Active: true, GroupName: "Animals",
			GroupClasses: []*models.LabelClass{{
				ID: models.AssignedID(7), Active: true, Name: "cat", HumanName: "Cat",
				Colours: models.ColourMap{"night": {HTML: "#000011"}, "default": {HTML: "#808080"}},
			}},
		}},
	}

	md := RenderMarkdown("schema.yaml", state)
	assert.Contains(t, md, "Source: `schema.yaml`")
	assert.Contains(t, md, "## Colour schemes")
	assert.Contains(t, md, "Animals")
	assert.Contains(t, md, "#000011")
	assert.Contains(t, md, `Night \| dark`, "pipes inside cells are escaped")
}

func TestRenderMarkdown_Empty(t *testing.T) {
	t.Parallel()

	md := RenderMarkdown("", schema.State{})
	assert.Contains(t, md, "_No colour schemes._")
	assert.NotContains(t, md, "Source:")
}

// ============================================================================
// offline edits
// ============================================================================

func TestSchemeAdd_Offline(t *testing.T) {
	isolate(t)
	path := writeFixture(t, "schema.json")

	stdout, _, err := executeCommand("--db-path", dbPath(t), "scheme", "add", path, "artistic", "--offline")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Colour scheme 'artistic' added (saved locally)")

	state := loadState(t, path)
	require.Len(t, state.ColourSchemes, 2)
	added := state.ColourSchemes[1]
	assert.Equal(t, "artistic", added.Name)
	assert.Equal(t, "Artistic", added.HumanName)
	assert.True(t, added.ID.IsPlaceholder())

	car := state.Groups[0].GroupClasses[0]
	assert.Equal(t, models.DefaultColour, car.Colour("artistic"), "existing classes get the default colour")
	assert.Equal(t, "#112233", car.Colour("natural"))
}

func TestGroupAdd_OfflineQuietPrintsID(t *testing.T) {
	isolate(t)
	path := writeFixture(t, "schema.yaml")
	require.NoError(t, loader.Save(path, loadStateFromJSON(t)))

	stdout, _, err := executeCommand("--db-path", dbPath(t), "-q", "group", "add", path, "Animals", "--offline")
	require.NoError(t, err)

	state := loadState(t, path)
	require.Len(t, state.Groups, 2)
	assert.Equal(t, state.Groups[1].ID.String()+"\n", stdout)
	assert.Empty(t, state.Groups[1].GroupClasses)
}

func TestClassAdd_OfflineJSON(t *testing.T) {
	isolate(t)
	path := writeFixture(t, "schema.json")

	stdout, _, err := executeCommand("--db-path", dbPath(t), "--json", "class", "add", path, "Vehicles", "road_sign", "--offline")
	require.NoError(t, err)

	var out struct {
		Success bool              `json:"success"`
		Data    models.LabelClass `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.True(t, out.Success)
	assert.Equal(t, "road_sign", out.Data.Name)
	assert.Equal(t, "Road Sign", out.Data.HumanName)

	classes := loadState(t, path).Groups[0].GroupClasses
	require.Len(t, classes, 2)
	assert.Equal(t, models.DefaultColour, classes[1].Colour("natural"))
	assert.Equal(t, models.DefaultColour, classes[1].Colour(models.DefaultSchemeName))
}

func TestClassAdd_UnknownGroup(t *testing.T) {
	isolate(t)
	path := writeFixture(t, "schema.json")

	code, _, stderr := run("--db-path", dbPath(t), "class", "add", path, "Plants", "tree", "--offline")
	assert.Equal(t, ExitNotFound, code)
	assert.Contains(t, stderr, "Plants")
}

func TestClassSet_Offline(t *testing.T) {
	isolate(t)
	path := writeFixture(t, "schema.json")

	_, _, err := executeCommand("--db-path", dbPath(t), "class", "set", path, "car", "--active=false", "--human-name", "Automobile", "--offline")
	require.NoError(t, err)

	car := loadState(t, path).Groups[0].GroupClasses[0]
	assert.False(t, car.Active)
	assert.Equal(t, "Automobile", car.HumanName)
}

func TestClassSet_NoFields(t *testing.T) {
	isolate(t)
	path := writeFixture(t, "schema.json")

	code, _, _ := run("--db-path", dbPath(t), "class", "set", path, "car", "--offline")
	assert.Equal(t, ExitValidation, code)
}

func TestGroupSet_Rename(t *testing.T) {
	isolate(t)
	path := writeFixture(t, "schema.json")

	_, _, err := executeCommand("--db-path", dbPath(t), "group", "set", path, "Vehicles", "--rename", "Traffic", "--offline")
	require.NoError(t, err)

	assert.Equal(t, "Traffic", loadState(t, path).Groups[0].GroupName)
}

func TestSchemeSet_Deactivate(t *testing.T) {
	isolate(t)
	path := writeFixture(t, "schema.json")

	_, _, err := executeCommand("--db-path", dbPath(t), "scheme", "set", path, "natural", "--active=false", "--offline")
	require.NoError(t, err)

	assert.False(t, loadState(t, path).ColourSchemes[0].Active)
}

func TestColourSet(t *testing.T) {
	isolate(t)

	tests := []struct {
		name   string
		args   []string
		code   int
		colour string
	}{
		{name: "named scheme", args: []string{"car", "natural", "#FF0000"}, code: ExitSuccess, colour: "#FF0000"},
		{name: "default scheme", args: []string{"car", "default", "#00ff00"}, code: ExitSuccess, colour: "#112233"},
		{name: "invalid colour", args: []string{"car", "natural", "red"}, code: ExitValidation, colour: "#112233"},
		{name: "short colour", args: []string{"car", "natural", "#fff"}, code: ExitValidation, colour: "#112233"},
		{name: "unknown scheme", args: []string{"car", "night", "#FF0000"}, code: ExitNotFound, colour: "#112233"},
		{name: "unknown class", args: []string{"bus", "natural", "#FF0000"}, code: ExitNotFound, colour: "#112233"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, "schema.json")

			args := append([]string{"--db-path", dbPath(t), "colour", "set", path}, tt.args...)
			code, _, _ := run(append(args, "--offline")...)
			assert.Equal(t, tt.code, code)

			car := loadState(t, path).Groups[0].GroupClasses[0]
			assert.Equal(t, tt.colour, car.Colour("natural"))
		})
	}
}

func TestEdit_ResumeUsesDraft(t *testing.T) {
	isolate(t)
	path := writeFixture(t, "schema.json")
	db := dbPath(t)

	_, _, err := executeCommand("--db-path", db, "group", "add", path, "Animals", "--offline")
	require.NoError(t, err)

	// the file is put back; the draft still has the new group
	require.NoError(t, os.WriteFile(path, []byte(fixtureJSON), 0o644))

	stdout, _, err := executeCommand("--db-path", db, "show", path, "--raw", "--resume")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Animals")

	stdout, _, err = executeCommand("--db-path", db, "show", path, "--raw")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Animals")
}

func TestDiff_ShowsDraftChanges(t *testing.T) {
	isolate(t)
	path := writeFixture(t, "schema.json")
	db := dbPath(t)

	stdout, _, err := executeCommand("--db-path", db, "group", "add", path, "Animals", "--offline")
	require.NoError(t, err)
	require.NotEmpty(t, stdout)

	stdout, _, err = executeCommand("--db-path", db, "diff", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No differences found.")

	require.NoError(t, os.WriteFile(path, []byte(fixtureJSON), 0o644))

	stdout, _, err = executeCommand("--db-path", db, "diff", path, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, stdout, "+++ draft")

	var added, removed []string
	for _, line := range strings.Split(stdout, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added = append(added, line)
		case strings.HasPrefix(line, "-"):
			removed = append(removed, line)
		}
	}
	assert.Empty(t, removed)
	assert.Contains(t, strings.Join(added, "\n"), "group_name: Animals")
}

func TestDiff_NoDraft(t *testing.T) {
	isolate(t)
	path := writeFixture(t, "schema.json")

	code, _, stderr := run("--db-path", dbPath(t), "diff", path)
	assert.Equal(t, ExitNotFound, code)
	assert.Contains(t, stderr, "draft not found")
}

func TestSchemaDiff_Identical(t *testing.T) {
	t.Parallel()

	state := loadStateFromJSON(t)
	unified, err := schemaDiff(state, state, "a", "b")
	require.NoError(t, err)
	assert.Empty(t, unified)
}

// ============================================================================
// sync
// ============================================================================

func TestClassAdd_SyncsAndAppliesIDs(t *testing.T) {
	isolate(t)
	server, srv := newSchemaServer(t)
	path := writeFixture(t, "schema.json")

	stdout, _, err := executeCommand(
		"--db-path", dbPath(t),
		"--update-url", srv.URL+"/update",
		"--debounce", "1m",
		"class", "add", path, "Vehicles", "bus",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(1 ids assigned by the server)")

	assert.Equal(t, []string{models.ActionUpdateLabelClassGroups}, server.Actions())

	bus := loadState(t, path).Groups[0].GroupClasses[1]
	id, ok := bus.ID.Assigned()
	require.True(t, ok, "the server id is written back")
	assert.Equal(t, 100, id)
}

func TestPush_RemapsAndWritesFile(t *testing.T) {
	isolate(t)
	server, srv := newSchemaServer(t)
	path := writeFixture(t, "schema.json")
	db := dbPath(t)

	_, _, err := executeCommand("--db-path", db, "scheme", "add", path, "artistic", "--offline")
	require.NoError(t, err)
	_, _, err = executeCommand("--db-path", db, "group", "add", path, "Animals", "--offline")
	require.NoError(t, err)

	stdout, _, err := executeCommand("--db-path", db, "--update-url", srv.URL+"/update", "--json", "push", path)
	require.NoError(t, err)

	var out struct {
		Success bool `json:"success"`
		Data    struct {
			UpdateURL string `json:"update_url"`
			Remapped  int    `json:"remapped"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.True(t, out.Success)
	assert.Equal(t, 2, out.Data.Remapped)
	assert.Equal(t, srv.URL+"/update", out.Data.UpdateURL)

	assert.Equal(t, []string{models.ActionUpdateColourSchemes, models.ActionUpdateLabelClassGroups}, server.Actions())

	state := loadState(t, path)
	for _, cs := range state.ColourSchemes {
		assert.False(t, cs.ID.IsPlaceholder(), cs.Name)
	}
	for _, g := range state.Groups {
		assert.False(t, g.ID.IsPlaceholder(), g.GroupName)
	}
}

func TestPush_ServerFailure(t *testing.T) {
	isolate(t)
	server, srv := newSchemaServer(t)
	server.status = http.StatusBadRequest
	path := writeFixture(t, "schema.json")

	code, _, stderr := run("--db-path", dbPath(t), "--update-url", srv.URL+"/update", "--max-retries", "1", "push", path)
	assert.Equal(t, ExitSync, code)
	assert.Contains(t, stderr, "❌ Error:")
}

func TestPush_NoUpdateURL(t *testing.T) {
	isolate(t)
	path := writeFixture(t, "schema.json")

	code, _, stderr := run("--db-path", dbPath(t), "push", path)
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, errNoUpdateURL.Error())
	assert.Contains(t, stderr, "--update-url")
}

func TestHistory_JSON(t *testing.T) {
	isolate(t)
	_, srv := newSchemaServer(t)
	path := writeFixture(t, "schema.json")
	db := dbPath(t)

	_, _, err := executeCommand("--db-path", db, "--update-url", srv.URL+"/update", "push", path)
	require.NoError(t, err)

	stdout, _, err := executeCommand("--db-path", db, "--json", "history", path)
	require.NoError(t, err)

	var out struct {
		Success bool                   `json:"success"`
		Data    []*database.SyncRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Data, 2)
	for _, rec := range out.Data {
		assert.True(t, rec.Succeeded)
	}
}

func TestHistory_Empty(t *testing.T) {
	isolate(t)
	path := writeFixture(t, "schema.json")

	stdout, _, err := executeCommand("--db-path", dbPath(t), "history", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No updates recorded")
}

// ============================================================================
// config
// ============================================================================

func TestConfigInit_WritesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), ".labelschema.yaml")

	stdout, _, err := executeCommand("--update-url", "https://labels.example.com/update", "config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "update-url: https://labels.example.com/update")

	code, _, _ := run("config", "init", "--path", path)
	assert.Equal(t, ExitUsage, code, "existing files need --force")

	code, _, _ = run("config", "init", "--path", path, "--force")
	assert.Equal(t, ExitSuccess, code)
}

func TestConfigShow_MasksToken(t *testing.T) {
	isolate(t)

	stdout, _, err := executeCommand("--csrf-token", "secret", "--update-url", "https://labels.example.com/update", "config", "show")
	require.NoError(t, err)

	assert.Contains(t, stdout, "https://labels.example.com/update")
	assert.NotContains(t, stdout, "secret")
}

func TestConfigShow_ReadsDiscoveredFile(t *testing.T) {
	isolate(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "labelschema")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("update-url: https://from.file/update\n"), 0o644))

	stdout, _, err := executeCommand("--json", "config", "show")
	require.NoError(t, err)

	var out struct {
		Data struct {
			UpdateURL string `json:"updateUrl"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "https://from.file/update", out.Data.UpdateURL)
}

func loadStateFromJSON(t *testing.T) schema.State {
	t.Helper()
	src, err := loader.Decode(strings.NewReader(fixtureJSON), loader.FormatJSON)
	require.NoError(t, err)
	return src.State
}
