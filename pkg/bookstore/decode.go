package bookstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Adda-Baaj/bookstore-client/internal/domain"
)

// decodeBooks accepts either a JSON array of books or an object keyed by ISBN,
// optionally wrapped as {"books": ...}. Server order is preserved.
func decodeBooks(body []byte) ([]domain.Book, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var books []domain.Book
		if err := json.Unmarshal(trimmed, &books); err != nil {
			return nil, fmt.Errorf("decode book list: %w", err)
		}
		return books, nil
	case '{':
		keys, fields, err := orderedObject(trimmed)
		if err != nil {
			return nil, fmt.Errorf("decode book map: %w", err)
		}
		if inner, ok := fields["books"]; ok && len(keys) == 1 {
			return decodeBooks(inner)
		}
		if _, ok := fields["title"]; ok {
			// A single record rather than a keyed collection.
			book, err := decodeBook(trimmed, "")
			if err != nil {
				return nil, err
			}
			return []domain.Book{book}, nil
		}

		books := make([]domain.Book, 0, len(keys))
		for _, key := range keys {
			var b domain.Book
			if err := json.Unmarshal(fields[key], &b); err != nil {
				return nil, fmt.Errorf("decode book %q: %w", key, err)
			}
			if b.ISBN == "" {
				b.ISBN = key
			}
			books = append(books, b)
		}
		return books, nil
	default:
		return nil, errors.New("decode books: expected JSON array or object")
	}
}

// decodeBook decodes a single book object; isbn fills a missing identifier.
func decodeBook(body []byte, isbn string) (domain.Book, error) {
	var b domain.Book
	if err := json.Unmarshal(bytes.TrimSpace(body), &b); err != nil {
		return domain.Book{}, fmt.Errorf("decode book: %w", err)
	}
	if b.ISBN == "" {
		b.ISBN = isbn
	}
	return b, nil
}

// decodeReviews accepts a JSON array of reviews or an object keyed by username
// whose values are review text (or review objects).
func decodeReviews(body []byte, isbn string) ([]domain.Review, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var reviews []domain.Review
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &reviews); err != nil {
			return nil, fmt.Errorf("decode review list: %w", err)
		}
	case '{':
		keys, fields, err := orderedObject(trimmed)
		if err != nil {
			return nil, fmt.Errorf("decode review map: %w", err)
		}
		if inner, ok := fields["reviews"]; ok && len(keys) == 1 && isContainer(inner) {
			return decodeReviews(inner, isbn)
		}

		reviews = make([]domain.Review, 0, len(keys))
		for _, key := range keys {
			r, err := decodeReviewEntry(key, fields[key])
			if err != nil {
				return nil, err
			}
			reviews = append(reviews, r)
		}
	default:
		return nil, errors.New("decode reviews: expected JSON array or object")
	}

	for i := range reviews {
		if reviews[i].ISBN == "" {
			reviews[i].ISBN = isbn
		}
	}
	return reviews, nil
}

func decodeReviewEntry(username string, raw json.RawMessage) (domain.Review, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return domain.Review{Username: username, Text: text}, nil
	}
	var r domain.Review
	if err := json.Unmarshal(raw, &r); err != nil {
		return domain.Review{}, fmt.Errorf("decode review by %q: %w", username, err)
	}
	if r.Username == "" {
		r.Username = username
	}
	return r, nil
}

// orderedObject splits a JSON object into its keys, in document order, and raw values.
func orderedObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, errors.New("expected JSON object")
	}

	var keys []string
	fields := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("value for %q: %w", key, err)
		}
		if _, dup := fields[key]; !dup {
			keys = append(keys, key)
		}
		fields[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, fields, nil
}

func isContainer(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}
