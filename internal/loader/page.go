package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Element ids used by the hosting page
const (
	colourSchemesElementID = "colour_schemes"
	groupsElementID        = "groups"
	editorElementID        = "schema_editor"
	updateURLAttr          = "data-update-url"
)

// ErrNoEmbeddedState is returned when a page carries neither state array
var ErrNoEmbeddedState = errors.New("page has no embedded colour_schemes or groups data")

// ParsePage extracts the embedded state from a hosting page. The update URL
// is taken from the data-update-url attribute of the #schema_editor element.
func ParsePage(r io.Reader) (*Source, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	src := &Source{Format: FormatHTML}
	found := false

	if n := findByID(doc, colourSchemesElementID); n != nil {
		if err := decodeScript(n, &src.State.ColourSchemes); err != nil {
			return nil, fmt.Errorf("decoding #%s: %w", colourSchemesElementID, err)
		}
		found = true
	}

	if n := findByID(doc, groupsElementID); n != nil {
		if err := decodeScript(n, &src.State.Groups); err != nil {
			return nil, fmt.Errorf("decoding #%s: %w", groupsElementID, err)
		}
		found = true
	}

	if !found {
		return nil, ErrNoEmbeddedState
	}

	if n := findByID(doc, editorElementID); n != nil {
		src.UpdateURL = getAttr(n, updateURLAttr)
	}

	if err := Normalize(&src.State); err != nil {
		return nil, err
	}
	return src, nil
}

// decodeScript decodes the JSON text of a <script type="application/json">.
func decodeScript(n *html.Node, v any) error {
	if n.Data != "script" {
		return fmt.Errorf("expected a <script> element, got <%s>", n.Data)
	}
	if t := getAttr(n, "type"); t != "" && t != "application/json" {
		return fmt.Errorf("unexpected script type %q", t)
	}

	text := strings.TrimSpace(getTextContent(n))
	if text == "" {
		return nil
	}
	return json.Unmarshal([]byte(text), v)
}

// findByID returns the first element with the given id attribute.
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && getAttr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func getTextContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
