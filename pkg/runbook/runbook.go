// Package runbook loads ordered lists of bookstore calls from YAML/JSON files.
package runbook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Adda-Baaj/bookstore-client/pkg/bookstore"
	"gopkg.in/yaml.v3"
)

// Step is one call. Only the arguments its op needs are read.
type Step struct {
	Op       bookstore.Op `json:"op" yaml:"op"`
	ISBN     string       `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Author   string       `json:"author,omitempty" yaml:"author,omitempty"`
	Title    string       `json:"title,omitempty" yaml:"title,omitempty"`
	Username string       `json:"username,omitempty" yaml:"username,omitempty"`
	Review   string       `json:"review,omitempty" yaml:"review,omitempty"`
}

// Runbook is an ordered list of steps.
type Runbook struct {
	Steps []Step `json:"steps" yaml:"steps"`
}

// Default mirrors the example session the bookstore client was first written for.
func Default() Runbook {
	return Runbook{Steps: []Step{
		{Op: bookstore.OpListBooks},
		{Op: bookstore.OpBooksByAuthor, Author: "George Orwell"},
		{Op: bookstore.OpBooksByTitle, Title: "1984"},
		{Op: bookstore.OpBookByISBN, ISBN: "3"},
		{Op: bookstore.OpReviews, ISBN: "3"},
		{Op: bookstore.OpUpsertReview, ISBN: "3", Username: "hai", Review: "A timeless classic!"},
		{Op: bookstore.OpDeleteReview, ISBN: "3"},
	}}
}

// Load reads a runbook from path. An empty path yields Default.
func Load(path string) (Runbook, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return Runbook{}, fmt.Errorf("open runbook file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return Runbook{}, fmt.Errorf("read runbook file: %w", err)
	}

	rb, err := parseRunbook(raw, filepath.Ext(path))
	if err != nil {
		return Runbook{}, err
	}
	if len(rb.Steps) == 0 {
		return Runbook{}, errors.New("runbook file contains no steps")
	}

	for i := range rb.Steps {
		s := sanitizeStep(rb.Steps[i])
		if err := s.Validate(); err != nil {
			return Runbook{}, fmt.Errorf("steps[%d]: %w", i, err)
		}
		rb.Steps[i] = s
	}
	return rb, nil
}

type unmarshalFn func([]byte, any) error

func parseRunbook(data []byte, ext string) (Runbook, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var rb Runbook
		if err := d.fn(data, &rb); err != nil {
			errs = append(errs, fmt.Errorf("decode %s runbook: %w", d.name, err))
			continue
		}
		return rb, nil
	}

	if len(errs) > 0 {
		return Runbook{}, errors.Join(errs...)
	}
	return Runbook{}, errors.New("runbook file format not recognized (expected YAML or JSON)")
}

// sanitizeStep trims identifiers. Review text is left untouched.
func sanitizeStep(s Step) Step {
	s.Op = bookstore.Op(strings.ToLower(strings.TrimSpace(string(s.Op))))
	s.ISBN = strings.TrimSpace(s.ISBN)
	s.Author = strings.TrimSpace(s.Author)
	s.Title = strings.TrimSpace(s.Title)
	s.Username = strings.TrimSpace(s.Username)
	return s
}

// Validate checks the op is known and its required arguments are present.
func (s Step) Validate() error {
	if s.Op == "" {
		return errors.New("op is required")
	}
	if !s.Op.Valid() {
		return fmt.Errorf("unknown op %q", s.Op)
	}

	switch s.Op {
	case bookstore.OpBooksByAuthor:
		if s.Author == "" {
			return fmt.Errorf("author is required for %s", s.Op)
		}
	case bookstore.OpBooksByTitle:
		if s.Title == "" {
			return fmt.Errorf("title is required for %s", s.Op)
		}
	case bookstore.OpBookByISBN, bookstore.OpReviews, bookstore.OpDeleteReview:
		if s.ISBN == "" {
			return fmt.Errorf("isbn is required for %s", s.Op)
		}
	case bookstore.OpUpsertReview:
		if s.ISBN == "" || s.Username == "" {
			return fmt.Errorf("isbn and username are required for %s", s.Op)
		}
	}
	return nil
}
