// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thenoetrevino/labelschema/internal/models"
	"github.com/thenoetrevino/labelschema/internal/schema"
)

// SampleDocument returns a document with one colour scheme ("natural") and
// one group ("Vehicles") holding the classes car and truck. Every entity
// has a placeholder id.
func SampleDocument(t *testing.T) *schema.Document {
	t.Helper()

	natural, err := models.NewColourScheme("natural", "Natural")
	if err != nil {
		t.Fatalf("NewColourScheme: %v", err)
	}
	group, err := models.NewLabelClassGroup("Vehicles")
	if err != nil {
		t.Fatalf("NewLabelClassGroup: %v", err)
	}
	for _, name := range []string{"car", "truck"} {
		c, err := models.NewLabelClass(name, strings.ToUpper(name), []string{natural.Name})
		if err != nil {
			t.Fatalf("NewLabelClass: %v", err)
		}
		group.GroupClasses = append(group.GroupClasses, c)
	}

	return schema.New([]*models.ColourScheme{natural}, []*models.LabelClassGroup{group})
}

// WriteSchemaFile writes contents to name inside a fresh temp directory and
// returns the path.
func WriteSchemaFile(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("Failed to write schema file: %v", err)
	}
	return path
}

// TempDBPath returns a draft database path inside a fresh temp directory
func TempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "drafts.db")
}
