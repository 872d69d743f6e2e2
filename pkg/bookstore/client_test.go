package bookstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Adda-Baaj/bookstore-client/internal/domain"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(srv.URL + "/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestClassifyIsStrictPartition(t *testing.T) {
	cases := map[int]Kind{
		200: Success,
		201: Success,
		204: Success,
		299: Success,
		404: NotFound,
		500: UnexpectedStatus,
		400: UnexpectedStatus,
		403: UnexpectedStatus,
		301: UnexpectedStatus,
		199: UnexpectedStatus,
	}
	for status, want := range cases {
		if got := Classify(status); got != want {
			t.Errorf("Classify(%d) = %s want %s", status, got, want)
		}
	}

	for _, status := range []int{200, 404, 500} {
		matches := 0
		for _, k := range []Kind{Success, NotFound, UnexpectedStatus} {
			if Classify(status) == k {
				matches++
			}
		}
		if matches != 1 {
			t.Errorf("status %d matched %d kinds", status, matches)
		}
	}
}

func TestGetBookByISBNReturnsSeededRecord(t *testing.T) {
	srv := newFakeBookstore().serve(t)
	c := newTestClient(t, srv)

	res := c.GetBookByISBN(context.Background(), "3")
	if res.Kind != Success {
		t.Fatalf("kind = %s status = %d", res.Kind, res.StatusCode)
	}
	want := domain.Book{ISBN: "3", Title: "1984", Author: "George Orwell"}
	if res.Value != want {
		t.Fatalf("got %#v want %#v", res.Value, want)
	}
}

func TestGetBookByISBNNotFound(t *testing.T) {
	srv := newFakeBookstore().serve(t)
	c := newTestClient(t, srv)

	res := c.GetBookByISBN(context.Background(), "999")
	if res.Kind != NotFound || res.StatusCode != http.StatusNotFound {
		t.Fatalf("kind = %s status = %d", res.Kind, res.StatusCode)
	}
	if res.Value != (domain.Book{}) {
		t.Fatalf("expected zero value on not found, got %#v", res.Value)
	}
	if !strings.Contains(res.Snippet(), "Book not found") {
		t.Fatalf("snippet = %q", res.Snippet())
	}
}

func TestListBooksByAuthorReturnsOnlyMatches(t *testing.T) {
	srv := newFakeBookstore().serve(t)
	c := newTestClient(t, srv)

	res := c.ListBooksByAuthor(context.Background(), "George Orwell")
	if res.Kind != Success {
		t.Fatalf("kind = %s", res.Kind)
	}
	if len(res.Value) != 1 || res.Value[0].ISBN != "3" {
		t.Fatalf("unexpected books %#v", res.Value)
	}
}

func TestListBooksByTitle(t *testing.T) {
	srv := newFakeBookstore().serve(t)
	c := newTestClient(t, srv)

	res := c.ListBooksByTitle(context.Background(), "Fairy tales")
	if res.Kind != Success || len(res.Value) != 1 || res.Value[0].ISBN != "2" {
		t.Fatalf("unexpected result kind=%s books=%#v", res.Kind, res.Value)
	}
}

func TestListAllBooksDecodesKeyedCollection(t *testing.T) {
	srv := newFakeBookstore().serve(t)
	c := newTestClient(t, srv)

	res := c.ListAllBooks(context.Background())
	if res.Kind != Success || res.DecodeErr != nil {
		t.Fatalf("kind = %s decode = %v", res.Kind, res.DecodeErr)
	}
	if len(res.Value) != 3 {
		t.Fatalf("expected 3 books, got %d", len(res.Value))
	}
	for _, b := range res.Value {
		if b.ISBN == "" || b.Title == "" {
			t.Fatalf("incomplete book %#v", b)
		}
	}
}

func TestUpsertReviewReplacesExisting(t *testing.T) {
	srv := newFakeBookstore().serve(t)
	c := newTestClient(t, srv)
	ctx := context.Background()

	if out := c.UpsertReview(ctx, "3", "hai", "A"); !out.OK() {
		t.Fatalf("first upsert: %s %d", out.Kind, out.StatusCode)
	}
	if out := c.UpsertReview(ctx, "3", "hai", "B"); !out.OK() {
		t.Fatalf("second upsert: %s %d", out.Kind, out.StatusCode)
	}

	res := c.ListReviews(ctx, "3")
	if res.Kind != Success {
		t.Fatalf("ListReviews kind = %s", res.Kind)
	}
	want := []domain.Review{{ISBN: "3", Username: "hai", Text: "B"}}
	if len(res.Value) != 1 || res.Value[0] != want[0] {
		t.Fatalf("got %#v want %#v", res.Value, want)
	}
}

func TestDeleteReviewWithoutReviewsIsNotAFault(t *testing.T) {
	srv := newFakeBookstore().serve(t)
	c := newTestClient(t, srv)

	out := c.DeleteReview(context.Background(), "1")
	if out.Kind != Success {
		t.Fatalf("kind = %s status = %d", out.Kind, out.StatusCode)
	}

	again := c.DeleteReview(context.Background(), "1")
	if again.Kind != Success {
		t.Fatalf("repeat delete kind = %s", again.Kind)
	}
}

func TestEveryOperationReportsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := newTestClient(t, srv)
	srv.Close()

	ctx := context.Background()
	outcomes := []Outcome{
		c.ListAllBooks(ctx).Outcome,
		c.ListBooksByAuthor(ctx, "George Orwell").Outcome,
		c.ListBooksByTitle(ctx, "1984").Outcome,
		c.GetBookByISBN(ctx, "3").Outcome,
		c.ListReviews(ctx, "3").Outcome,
		c.UpsertReview(ctx, "3", "hai", "A timeless classic!"),
		c.DeleteReview(ctx, "3"),
	}
	for _, out := range outcomes {
		if out.Kind != TransportError {
			t.Errorf("%s: kind = %s", out.Op, out.Kind)
		}
		if out.Err == nil {
			t.Errorf("%s: expected transport error message", out.Op)
		}
		if out.StatusCode != 0 {
			t.Errorf("%s: unexpected status %d", out.Op, out.StatusCode)
		}
	}
}

func TestUnexpectedStatusCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "database offline", http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	res := c.ListReviews(context.Background(), "3")
	if res.Kind != UnexpectedStatus || res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("kind = %s status = %d", res.Kind, res.StatusCode)
	}
	if !strings.Contains(string(res.Body), "database offline") {
		t.Fatalf("body = %q", res.Body)
	}
	if res.Value != nil {
		t.Fatalf("expected no decoded reviews, got %#v", res.Value)
	}
}

func TestRequestsTargetWellFormedURLs(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.RequestURI())
		mu.Unlock()
		if got := r.URL.Query().Get("author"); r.URL.Path == "/books" && got != "" && got != "Tom & Jerry" {
			t.Errorf("author query decoded as %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	c := newTestClient(t, srv)
	ctx := context.Background()

	c.ListAllBooks(ctx)
	c.ListBooksByAuthor(ctx, "Tom & Jerry")
	c.ListBooksByTitle(ctx, "1984")
	c.GetBookByISBN(ctx, "a/b")
	c.UpsertReview(ctx, "3", "hai", "ok")
	c.DeleteReview(ctx, "3")

	mu.Lock()
	defer mu.Unlock()
	want := []string{
		"GET /books",
		"GET /books?author=Tom+%26+Jerry",
		"GET /books?title=1984",
		"GET /books/a%2Fb",
		"PUT /review/3",
		"DELETE /review/3",
	}
	if len(seen) != len(want) {
		t.Fatalf("requests = %#v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("request[%d] = %q want %q", i, seen[i], want[i])
		}
	}
}

func TestSuccessWithBadPayloadKeepsKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	res := c.ListAllBooks(context.Background())
	if res.Kind != Success {
		t.Fatalf("kind = %s", res.Kind)
	}
	if res.DecodeErr == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:5000", "://bad"} {
		if _, err := New(raw); err == nil {
			t.Errorf("New(%q) expected error", raw)
		}
	}
}
