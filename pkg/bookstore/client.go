package bookstore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Adda-Baaj/bookstore-client/internal/domain"
	"github.com/Adda-Baaj/bookstore-client/pkg/httpclient"
)

const defaultTimeout = 10 * time.Second

// Logger defines the logging surface the client relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

// Client issues calls against a bookstore service. It holds no per-call state
// and is safe for concurrent use.
type Client struct {
	baseURL string
	http    httpclient.Client
	log     Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default resty transport.
func WithHTTPClient(c httpclient.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.log = l
		}
	}
}

// New builds a client for baseURL (scheme://host[:port]).
func New(baseURL string, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url %q must include scheme and host", baseURL)
	}

	c := &Client{
		baseURL: base,
		log:     noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(defaultTimeout)
	}
	return c, nil
}

// BaseURL returns the normalized base address.
func (c *Client) BaseURL() string { return c.baseURL }

// ListAllBooks fetches the whole collection.
func (c *Client) ListAllBooks(ctx context.Context) Result[[]domain.Book] {
	return fetch(ctx, c, OpListBooks, c.booksURL(nil), decodeBooks)
}

// ListBooksByAuthor lets the server filter by author; match semantics are the server's.
func (c *Client) ListBooksByAuthor(ctx context.Context, author string) Result[[]domain.Book] {
	return fetch(ctx, c, OpBooksByAuthor, c.booksURL(url.Values{"author": {author}}), decodeBooks)
}

// ListBooksByTitle lets the server filter by title.
func (c *Client) ListBooksByTitle(ctx context.Context, title string) Result[[]domain.Book] {
	return fetch(ctx, c, OpBooksByTitle, c.booksURL(url.Values{"title": {title}}), decodeBooks)
}

// GetBookByISBN fetches one record. A missing book yields NotFound.
func (c *Client) GetBookByISBN(ctx context.Context, isbn string) Result[domain.Book] {
	return fetch(ctx, c, OpBookByISBN, c.bookURL(isbn), func(body []byte) (domain.Book, error) {
		return decodeBook(body, isbn)
	})
}

// ListReviews fetches the reviews attached to a book, in server order.
func (c *Client) ListReviews(ctx context.Context, isbn string) Result[[]domain.Review] {
	return fetch(ctx, c, OpReviews, c.reviewURL(isbn), func(body []byte) ([]domain.Review, error) {
		return decodeReviews(body, isbn)
	})
}

// UpsertReview creates or replaces the review username holds for isbn.
func (c *Client) UpsertReview(ctx context.Context, isbn, username, text string) Outcome {
	body := map[string]string{
		"username": username,
		"review":   text,
	}
	return c.do(ctx, OpUpsertReview, http.MethodPut, c.reviewURL(isbn), body)
}

// DeleteReview removes the review(s) in the call's scope. Deleting nothing is not a fault.
func (c *Client) DeleteReview(ctx context.Context, isbn string) Outcome {
	return c.do(ctx, OpDeleteReview, http.MethodDelete, c.reviewURL(isbn), nil)
}

func (c *Client) booksURL(q url.Values) string {
	u := c.baseURL + "/books"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) bookURL(isbn string) string {
	return c.baseURL + "/books/" + url.PathEscape(isbn)
}

func (c *Client) reviewURL(isbn string) string {
	return c.baseURL + "/review/" + url.PathEscape(isbn)
}

// do performs one round trip and classifies it. It never returns an error.
func (c *Client) do(ctx context.Context, op Op, method, target string, body any) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	out := Outcome{Op: op, Method: method, Target: target}

	c.log.DebugObj("bookstore request", "request", map[string]any{
		"op":     string(op),
		"method": method,
		"url":    target,
	})

	resp, err := c.http.Do(ctx, httpclient.Request{Method: method, URL: target, Body: body})
	if err != nil {
		out.Kind = TransportError
		out.Err = err
		return out
	}

	out.StatusCode = resp.StatusCode()
	out.Body = resp.Body()
	if h := resp.Header(); h != nil {
		out.ContentType = h.Get("Content-Type")
	}
	out.Kind = Classify(out.StatusCode)
	return out
}

func fetch[T any](ctx context.Context, c *Client, op Op, target string, decode func([]byte) (T, error)) Result[T] {
	res := Result[T]{Outcome: c.do(ctx, op, http.MethodGet, target, nil)}
	if res.Kind != Success {
		return res
	}
	v, err := decode(res.Body)
	if err != nil {
		res.DecodeErr = err
		return res
	}
	res.Value = v
	return res
}
