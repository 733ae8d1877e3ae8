// Package loader reads and writes the initial schema state.
//
// The state is two arrays, colour_schemes and groups. They come from a JSON
// or YAML file, or from the HTML page that hosts the editor, which embeds
// them as <script type="application/json"> elements.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/labelschema/internal/models"
	"github.com/thenoetrevino/labelschema/internal/schema"
)

// Format is an on-disk encoding of the schema state
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

// maxPageSize bounds how much of a hosting page is read
const maxPageSize = 16 << 20

// ErrUnknownFormat is returned for file extensions that are not understood
var ErrUnknownFormat = errors.New("unknown schema file format (want .json, .yaml, .yml, .html or .htm)")

// Source is a loaded schema state and where it came from
type Source struct {
	State schema.State
	// UpdateURL is set when the hosting page advertises an update endpoint
	UpdateURL string
	Origin    string
	Format    Format
}

// FormatFromPath picks a format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// IsRemote reports whether location is an http(s) URL
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load reads location, which is either a file path or an http(s) URL of a
// hosting page.
func Load(ctx context.Context, client *http.Client, location string) (*Source, error) {
	if IsRemote(location) {
		return Fetch(ctx, client, location)
	}
	return LoadFile(location)
}

// LoadFile reads a schema file, choosing the decoder from its extension.
func LoadFile(path string) (*Source, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening schema file: %w", err)
	}
	defer f.Close()

	src, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	src.Origin = path
	return src, nil
}

// Decode reads a schema state in format from r.
func Decode(r io.Reader, format Format) (*Source, error) {
	var state schema.State

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&state); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&state); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	case FormatHTML:
		return ParsePage(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	if err := Normalize(&state); err != nil {
		return nil, err
	}
	return &Source{State: state, Format: format}, nil
}

// Fetch downloads a hosting page and extracts the embedded state. A relative
// update URL on the page is resolved against pageURL.
func Fetch(ctx context.Context, client *http.Client, pageURL string) (*Source, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", pageURL, resp.Status)
	}

	src, err := ParsePage(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pageURL, err)
	}
	src.Origin = pageURL

	if src.UpdateURL != "" {
		base, _ := url.Parse(pageURL)
		if ref, err := url.Parse(src.UpdateURL); err == nil {
			src.UpdateURL = base.ResolveReference(ref).String()
		}
	}
	return src, nil
}

// Save writes state to path, choosing the encoder from its extension.
// HTML is read-only.
func Save(path string, state schema.State) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, state, format); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Encode writes state to w in format.
func Encode(w io.Writer, state schema.State, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(state); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("cannot write %s schema files", format)
	}
}

// Normalize replaces nil lists with empty ones and backfills missing colour
// entries so every label class has one per scheme plus "default". A state
// with a null list entry is rejected with schema.ErrNullEntry.
func Normalize(state *schema.State) error {
	if err := state.Validate(); err != nil {
		return err
	}
	if state.ColourSchemes == nil {
		state.ColourSchemes = []*models.ColourScheme{}
	}
	if state.Groups == nil {
		state.Groups = []*models.LabelClassGroup{}
	}

	for _, g := range state.Groups {
		if g.GroupClasses == nil {
			g.GroupClasses = []*models.LabelClass{}
		}
		for _, c := range g.GroupClasses {
			if c.Colours == nil {
				c.Colours = models.ColourMap{}
			}
			for _, s := range state.ColourSchemes {
				if _, ok := c.Colours[s.Name]; !ok {
					c.Colours[s.Name] = models.Colour{HTML: models.DefaultColour}
				}
			}
			if _, ok := c.Colours[models.DefaultSchemeName]; !ok {
				c.Colours[models.DefaultSchemeName] = models.Colour{HTML: models.DefaultColour}
			}
		}
	}
	return nil
}
