package bookstore

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeBookstore is an in-memory stand-in for the remote service.
// Unfiltered listings are keyed by ISBN; filtered ones are arrays.
type fakeBookstore struct {
	mu      sync.Mutex
	order   []string
	books   map[string]fakeBook
	reviews map[string]map[string]string
}

type fakeBook struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

func newFakeBookstore() *fakeBookstore {
	f := &fakeBookstore{
		books:   make(map[string]fakeBook),
		reviews: make(map[string]map[string]string),
	}
	f.add("1", "Things Fall Apart", "Chinua Achebe")
	f.add("2", "Fairy tales", "Hans Christian Andersen")
	f.add("3", "1984", "George Orwell")
	return f
}

func (f *fakeBookstore) add(isbn, title, author string) {
	f.order = append(f.order, isbn)
	f.books[isbn] = fakeBook{Title: title, Author: author}
	f.reviews[isbn] = map[string]string{}
}

func (f *fakeBookstore) serve(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /books", f.listBooks)
	mux.HandleFunc("GET /books/{isbn}", f.getBook)
	mux.HandleFunc("GET /review/{isbn}", f.getReviews)
	mux.HandleFunc("PUT /review/{isbn}", f.putReview)
	mux.HandleFunc("DELETE /review/{isbn}", f.deleteReviews)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (f *fakeBookstore) listBooks(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	author := r.URL.Query().Get("author")
	title := r.URL.Query().Get("title")
	if author == "" && title == "" {
		keyed := make(map[string]fakeBook, len(f.books))
		for isbn, b := range f.books {
			keyed[isbn] = b
		}
		writeJSON(w, http.StatusOK, keyed)
		return
	}

	out := []map[string]string{}
	for _, isbn := range f.order {
		b := f.books[isbn]
		if (author != "" && b.Author != author) || (title != "" && b.Title != title) {
			continue
		}
		out = append(out, map[string]string{"isbn": isbn, "title": b.Title, "author": b.Author})
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeBookstore) getBook(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.books[r.PathValue("isbn")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Book not found"})
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (f *fakeBookstore) getReviews(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reviews, ok := f.reviews[r.PathValue("isbn")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Book not found"})
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (f *fakeBookstore) putReview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Review   string `json:"review"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "username and review required"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	reviews, ok := f.reviews[r.PathValue("isbn")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Book not found"})
		return
	}
	reviews[body.Username] = body.Review
	writeJSON(w, http.StatusOK, map[string]string{"message": "Review saved"})
}

func (f *fakeBookstore) deleteReviews(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	isbn := r.PathValue("isbn")
	if _, ok := f.reviews[isbn]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Book not found"})
		return
	}
	f.reviews[isbn] = map[string]string{}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reviews deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
