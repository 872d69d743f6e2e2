package bookstore

import (
	"net/http"
)

// Kind classifies the outcome of one call.
type Kind int

const (
	// Success is any 2xx response.
	Success Kind = iota
	// NotFound is a 404 response. It is reported, not treated as a failure.
	NotFound
	// UnexpectedStatus is any response that is neither 2xx nor 404.
	UnexpectedStatus
	// TransportError means no response was received at all.
	TransportError
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case NotFound:
		return "not_found"
	case UnexpectedStatus:
		return "unexpected_status"
	case TransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Classify maps a received status code to exactly one of Success, NotFound or
// UnexpectedStatus, checked in that order.
func Classify(status int) Kind {
	switch {
	case status >= 200 && status < 300:
		return Success
	case status == http.StatusNotFound:
		return NotFound
	default:
		return UnexpectedStatus
	}
}

// Op names a client operation.
type Op string

const (
	OpListBooks     Op = "list_books"
	OpBooksByAuthor Op = "books_by_author"
	OpBooksByTitle  Op = "books_by_title"
	OpBookByISBN    Op = "book_by_isbn"
	OpReviews       Op = "reviews"
	OpUpsertReview  Op = "upsert_review"
	OpDeleteReview  Op = "delete_review"
)

var opDescriptions = map[Op]string{
	OpListBooks:     "Fetching all books",
	OpBooksByAuthor: "Fetching books by author",
	OpBooksByTitle:  "Fetching books by title",
	OpBookByISBN:    "Fetching book by ISBN",
	OpReviews:       "Fetching book reviews",
	OpUpsertReview:  "Adding/updating review",
	OpDeleteReview:  "Deleting review",
}

// Description returns the human readable context used in log lines.
func (o Op) Description() string {
	if d, ok := opDescriptions[o]; ok {
		return d
	}
	return string(o)
}

// Valid reports whether o is one of the known operations.
func (o Op) Valid() bool {
	_, ok := opDescriptions[o]
	return ok
}

// Outcome describes what happened to a single call.
type Outcome struct {
	Op          Op
	Method      string
	Target      string
	Kind        Kind
	StatusCode  int
	Body        []byte
	ContentType string
	// Err is set for TransportError.
	Err error
	// DecodeErr is set when a 2xx payload could not be decoded. Kind stays Success.
	DecodeErr error
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool { return o.Kind == Success }

// Snippet returns a bounded, printable view of the response body.
func (o Outcome) Snippet() string { return responseSnippet(o.Body, o.ContentType) }

// Result is an Outcome plus the decoded payload for read operations.
type Result[T any] struct {
	Outcome
	Value T
}
