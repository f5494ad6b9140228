// Package catalogio imports and exports the catalog as YAML. Imported
// entries go through the same draft validation as the admin form.
package catalogio

import (
	"context"
	"fmt"
	"io"

	"github.com/glefebvre/cineflix/internal/draft"
	"github.com/glefebvre/cineflix/internal/errors"
	"github.com/glefebvre/cineflix/internal/models"
	"gopkg.in/yaml.v3"
)

// Document is the YAML file layout
type Document struct {
	Content []draft.Fields `yaml:"content"`
}

// Store is the persistence import and export need
type Store interface {
	ListContent(ctx context.Context) ([]models.Content, error)
	CreateContent(ctx context.Context, item *models.Content) error
}

// EntryError describes an entry that could not be imported
type EntryError struct {
	Index int
	Title string
	Err   error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("entry %d (%q): %v", e.Index, e.Title, errors.Message(e.Err))
}

// Report summarizes an import
type Report struct {
	Imported []string
	Failed   []EntryError
}

// Decode reads a catalog document
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return &doc, nil
		}
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "failed to parse catalog YAML")
	}
	return &doc, nil
}

// Import creates one content item per valid entry. Invalid entries are
// reported and skipped; a store failure aborts the import.
func Import(ctx context.Context, s Store, r io.Reader, defaultCategory string) (*Report, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for i, fields := range doc.Content {
		item, err := draft.New(defaultCategory).With(fields).Build()
		if err != nil {
			report.Failed = append(report.Failed, EntryError{Index: i, Title: fields.Title, Err: err})
			continue
		}
		if err := s.CreateContent(ctx, item); err != nil {
			return report, err
		}
		report.Imported = append(report.Imported, item.ID)
	}
	return report, nil
}

// Export writes every stored item, newest first
func Export(ctx context.Context, s Store, w io.Writer) (int, error) {
	items, err := s.ListContent(ctx)
	if err != nil {
		return 0, err
	}

	doc := Document{Content: make([]draft.Fields, 0, len(items))}
	for i := range items {
		doc.Content = append(doc.Content, draft.New("").Load(&items[i]).Fields())
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return 0, errors.Wrap(err, errors.CodeInternal, "failed to write catalog YAML")
	}
	if err := enc.Close(); err != nil {
		return 0, errors.Wrap(err, errors.CodeInternal, "failed to write catalog YAML")
	}
	return len(items), nil
}
