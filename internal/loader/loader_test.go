package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/labelschema/internal/models"
	"github.com/thenoetrevino/labelschema/internal/schema"
)

const stateJSON = `{
  "colour_schemes": [
    {"id": 1, "active": true, "name": "natural", "human_name": "Natural"},
    {"id": "4f1c2b9e-0000-4000-8000-000000000001", "active": false, "name": "night", "human_name": "Night"}
  ],
  "groups": [
    {"id": 3, "active": true, "group_name": "Animals", "group_classes": [
      {"id": 7, "active": true, "name": "cat", "human_name": "Cat",
       "colours": {"natural": {"html": "#112233"}, "default": {"html": "#445566"}}}
    ]}
  ]
}`

const stateYAML = `colour_schemes:
  - id: 1
    active: true
    name: natural
    human_name: Natural
groups:
  - id: null
    active: true
    group_name: Plants
    group_classes:
      - id: abc
        active: true
        name: tree
        human_name: Tree
        colours:
          natural:
            html: "#00AA00"
`

const hostingPage = `<!DOCTYPE html>
<html>
<head><title>Schema editor</title></head>
<body>
  <div id="schema_editor" data-update-url="/labelling/schema/update"></div>
  <script type="application/json" id="colour_schemes">[{"id": 1, "active": true, "name": "natural", "human_name": "Natural"}]</script>
  <script type="application/json" id="groups">[{"id": 2, "active": true, "group_name": "Animals", "group_classes": []}]</script>
</body>
</html>`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

// ============================================================================
// Files
// ============================================================================

func TestLoadFile_JSON(t *testing.T) {
	t.Parallel()

	src, err := LoadFile(writeFile(t, "schema.json", stateJSON))
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, src.Format)

	require.Len(t, src.State.ColourSchemes, 2)
	id, ok := src.State.ColourSchemes[0].ID.Assigned()
	assert.True(t, ok)
	assert.Equal(t, 1, id)
	assert.True(t, src.State.ColourSchemes[1].ID.IsPlaceholder())

	cat := src.State.Groups[0].GroupClasses[0]
	assert.Equal(t, "#112233", cat.Colour("natural"))
	assert.Equal(t, models.DefaultColour, cat.Colours["night"].HTML, "missing scheme entries are backfilled")
}

func TestLoadFile_YAML(t *testing.T) {
	t.Parallel()

	src, err := LoadFile(writeFile(t, "schema.yml", stateYAML))
	require.NoError(t, err)

	group := src.State.Groups[0]
	assert.True(t, group.ID.IsNone())
	assert.Equal(t, "Plants", group.GroupName)

	tree := group.GroupClasses[0]
	assert.Equal(t, "abc", tree.ID.Key())
	assert.Equal(t, "#00AA00", tree.Colour("natural"))
	assert.Equal(t, models.DefaultColour, tree.Colours["default"].HTML)
}

func TestLoadFile_EmptyYAML(t *testing.T) {
	t.Parallel()

	src, err := LoadFile(writeFile(t, "schema.yaml", ""))
	require.NoError(t, err)
	assert.NotNil(t, src.State.ColourSchemes)
	assert.NotNil(t, src.State.Groups)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(writeFile(t, "schema.txt", "{}"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "opening schema file")

	_, err = LoadFile(writeFile(t, "broken.json", `{"colour_schemes": [`))
	assert.ErrorContains(t, err, "parsing JSON")

	_, err = LoadFile(writeFile(t, "badid.json", `{"groups": [{"id": true}]}`))
	assert.Error(t, err)
}

func TestLoadFile_RejectsNullEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
		where   string
	}{
		{"null colour scheme", "schema.json", `{"colour_schemes": [null], "groups": []}`, "colour_schemes[0]"},
		{"null group", "schema.json", `{"colour_schemes": [], "groups": [null]}`, "groups[0]"},
		{
			"null label class", "schema.json",
			`{"colour_schemes": [], "groups": [{"id": 1, "group_name": "A", "group_classes": [{"id": 2, "name": "a"}, null]}]}`,
			"groups[0].group_classes[1]",
		},
		{"null group in YAML", "schema.yaml", "colour_schemes: []\ngroups:\n  - null\n", "groups[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFile(writeFile(t, tt.file, tt.content))
			require.ErrorIs(t, err, schema.ErrNullEntry)
			assert.ErrorContains(t, err, tt.where)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	orig, err := Decode(strings.NewReader(stateJSON), FormatJSON)
	require.NoError(t, err)

	for _, name := range []string{"out.json", "out.yaml"} {
		path := filepath.Join(t.TempDir(), "nested", name)
		require.NoError(t, Save(path, orig.State))

		loaded, err := LoadFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, orig.State, loaded.State, name)
	}
}

func TestSave_RejectsHTML(t *testing.T) {
	t.Parallel()

	err := Save(filepath.Join(t.TempDir(), "out.html"), schema.State{})
	assert.ErrorContains(t, err, "cannot write html")
}

// ============================================================================
// Hosting page
// ============================================================================

func TestParsePage(t *testing.T) {
	t.Parallel()

	src, err := ParsePage(strings.NewReader(hostingPage))
	require.NoError(t, err)

	assert.Equal(t, "/labelling/schema/update", src.UpdateURL)
	require.Len(t, src.State.ColourSchemes, 1)
	require.Len(t, src.State.Groups, 1)
	assert.Equal(t, "Animals", src.State.Groups[0].GroupName)
	assert.NotNil(t, src.State.Groups[0].GroupClasses)
}

func TestParsePage_Errors(t *testing.T) {
	t.Parallel()

	_, err := ParsePage(strings.NewReader(`<html><body><p>nothing here</p></body></html>`))
	assert.ErrorIs(t, err, ErrNoEmbeddedState)

	_, err = ParsePage(strings.NewReader(`<script type="application/json" id="groups">[{</script>`))
	assert.ErrorContains(t, err, "decoding #groups")

	_, err = ParsePage(strings.NewReader(`<div id="groups">[]</div>`))
	assert.ErrorContains(t, err, "expected a <script> element")

	_, err = ParsePage(strings.NewReader(`<script type="application/json" id="colour_schemes">[null]</script>`))
	assert.ErrorIs(t, err, schema.ErrNullEntry)

	_, err = ParsePage(strings.NewReader(`<script type="application/json" id="groups">[null]</script>`))
	assert.ErrorIs(t, err, schema.ErrNullEntry)
}

func TestFetch(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/labelling/schema", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(hostingPage))
	})
	router.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	pageURL := server.URL + "/labelling/schema"
	require.True(t, IsRemote(pageURL))

	src, err := Load(context.Background(), server.Client(), pageURL)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/labelling/schema/update", src.UpdateURL)
	assert.Equal(t, pageURL, src.Origin)
	assert.Len(t, src.State.ColourSchemes, 1)

	_, err = Fetch(context.Background(), server.Client(), server.URL+"/missing")
	assert.ErrorContains(t, err, "unexpected status")
}

func TestIsRemote(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRemote("https://example.com/schema"))
	assert.False(t, IsRemote("schema.json"))
	assert.False(t, IsRemote("/tmp/schema.json"))
	assert.False(t, IsRemote("file:///tmp/schema.json"))
}
