package odoo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
)

const (
	commonPath = "/xmlrpc/2/common"
	objectPath = "/xmlrpc/2/object"

	// DefaultLimit is the page size used by Read when ReadOptions.Limit is zero
	DefaultLimit = 50
	// DefaultOrder is the sort order used by Read when ReadOptions.Order is empty
	DefaultOrder = "id desc"
)

// Credentials identify a user on an Odoo database
type Credentials struct {
	// BaseURL includes the scheme, e.g. https://odoo.example.org
	BaseURL  string
	Database string
	Username string
	// Password is the user password or an API key
	Password string
}

// Record is a single row as returned by the server. Its shape is server-defined.
type Record map[string]any

// ReadOptions holds the search_read parameters of Read
type ReadOptions struct {
	Domain []any
	Fields []string
	Offset int
	Limit  int
	Order  string
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the logger used to report failures and read totals
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTransport sets the HTTP round tripper shared by both endpoints
func WithTransport(t http.RoundTripper) Option {
	return func(c *Client) { c.transport = t }
}

// Client performs authenticated model calls against the XML-RPC API of an Odoo server
type Client struct {
	creds     Credentials
	common    rpcClient
	object    rpcClient
	transport http.RoundTripper
	logger    *slog.Logger
	uid       atomic.Int64 // 0 until authenticated
}

// New returns a Client for creds. It does not contact the server.
func New(creds Credentials, opts ...Option) (*Client, error) {
	c := &Client{creds: creds}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	commonURL, err := endpointURL(creds.BaseURL, commonPath)
	if err != nil {
		return nil, err
	}
	objectURL, err := endpointURL(creds.BaseURL, objectPath)
	if err != nil {
		return nil, err
	}

	if c.common, err = rpcCF.NewClient(commonURL, c.transport); err != nil {
		return nil, fmt.Errorf("error creating common endpoint client: %w", err)
	}
	if c.object, err = rpcCF.NewClient(objectURL, c.transport); err != nil {
		c.common.Close()
		return nil, fmt.Errorf("error creating object endpoint client: %w", err)
	}
	return c, nil
}

func endpointURL(base, path string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base url %q: scheme and host are required", base)
	}
	return u.String() + path, nil
}

// Close releases both endpoint clients
func (c *Client) Close() error {
	return errors.Join(c.common.Close(), c.object.Close())
}

// UID returns the user id obtained by authentication, if any
func (c *Client) UID() (int64, bool) {
	uid := c.uid.Load()
	return uid, uid != 0
}

// Authenticate obtains the user id for the configured credentials.
// It is a no-op once a user id is known.
func (c *Client) Authenticate(ctx context.Context) error {
	if _, ok := c.UID(); ok {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var reply any
	err := c.common.Call("authenticate", []any{c.creds.Database, c.creds.Username, c.creds.Password, map[string]any{}}, &reply)
	if err != nil {
		afe := &AuthenticationFailedError{Database: c.creds.Database, Username: c.creds.Username}
		if f, ok := asFault(err); ok {
			c.logger.Error("authentication failed", "database", c.creds.Database, "username", c.creds.Username, "fault", f.Message)
			afe.Fault = &f
		} else {
			c.logger.Error("unexpected error during authentication", "database", c.creds.Database, "username", c.creds.Username, "error", err)
			afe.Err = &TransportError{Endpoint: commonPath, Err: err}
		}
		return afe
	}

	uid, ok := toInt64(reply)
	if !ok || uid == 0 {
		// Odoo answers false instead of faulting on bad credentials
		c.logger.Error("authentication failed", "database", c.creds.Database, "username", c.creds.Username, "reply", reply)
		afe := &AuthenticationFailedError{Database: c.creds.Database, Username: c.creds.Username, Err: ErrInvalidCredentials}
		if b, isBool := reply.(bool); !isBool || b {
			afe.Err = fmt.Errorf("%w: authenticate returned %T", ErrUnexpectedReply, reply)
		}
		return afe
	}
	c.uid.Store(uid)
	c.logger.Debug("authenticated", "database", c.creds.Database, "username", c.creds.Username, "uid", uid)
	return nil
}

// Version returns the server version information. It does not require authentication.
func (c *Client) Version(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var reply any
	if err := c.common.Call("version", nil, &reply); err != nil {
		if f, ok := asFault(err); ok {
			c.logger.Error("version call failed", "fault", f.Message)
			return nil, &RemoteCallFailedError{Method: "version", Fault: f}
		}
		c.logger.Error("unexpected error during version call", "error", err)
		return nil, &TransportError{Endpoint: commonPath, Err: err}
	}
	info, ok := reply.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: version returned %T", ErrUnexpectedReply, reply)
	}
	return info, nil
}

// Invoke runs method on model with positional args and returns the decoded result.
func (c *Client) Invoke(ctx context.Context, model, method string, args []any) (any, error) {
	return c.InvokeKw(ctx, model, method, args, nil)
}

// InvokeKw is Invoke with keyword arguments. kwargs are only sent when non-empty.
func (c *Client) InvokeKw(ctx context.Context, model, method string, args []any, kwargs map[string]any) (any, error) {
	if err := c.Authenticate(ctx); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if args == nil {
		args = []any{}
	}

	uid, _ := c.UID()
	params := []any{c.creds.Database, uid, c.creds.Password, model, method, args}
	if len(kwargs) > 0 {
		params = append(params, kwargs)
	}

	var reply any
	if err := c.object.Call("execute_kw", params, &reply); err != nil {
		if f, ok := asFault(err); ok {
			c.logger.Error("odoo API call failed", "model", model, "method", method, "fault", f.Message)
			return nil, &RemoteCallFailedError{Model: model, Method: method, Fault: f}
		}
		c.logger.Error("unexpected error during odoo API call", "model", model, "method", method, "error", err)
		return nil, &TransportError{Endpoint: objectPath, Err: err}
	}
	return reply, nil
}

// Create creates a record of model and returns its id
func (c *Client) Create(ctx context.Context, model string, values map[string]any) (int64, error) {
	reply, err := c.Invoke(ctx, model, "create", []any{values})
	if err != nil {
		c.logFailure("create", model, err)
		return 0, err
	}
	id, ok := toInt64(reply)
	if !ok {
		return 0, fmt.Errorf("%w: create returned %T", ErrUnexpectedReply, reply)
	}
	return id, nil
}

// Read fetches every record of model matching opts.Domain, one page of opts.Limit
// records at a time, until the server returns an empty page. Pages are concatenated
// in request order; records shifting between pages on the server are not detected.
func (c *Client) Read(ctx context.Context, model string, opts ReadOptions) ([]Record, error) {
	domain := opts.Domain
	if domain == nil {
		domain = []any{}
	}
	fields := opts.Fields
	if fields == nil {
		fields = []string{}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	order := opts.Order
	if order == "" {
		order = DefaultOrder
	}

	var all []Record
	offset := opts.Offset
	for {
		reply, err := c.Invoke(ctx, model, "search_read", []any{domain, fields, offset, limit, order})
		if err != nil {
			c.logFailure("read", model, err)
			return nil, err
		}
		page, err := toRecords(reply)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			c.logger.Debug("no more records to retrieve", "model", model, "offset", offset)
			break
		}
		all = append(all, page...)
		offset += limit
	}
	c.logger.Info("records retrieved", "model", model, "total", len(all))
	if all == nil {
		all = []Record{}
	}
	return all, nil
}

// SearchCount returns the number of records of model matching domain
func (c *Client) SearchCount(ctx context.Context, model string, domain []any) (int64, error) {
	if domain == nil {
		domain = []any{}
	}
	reply, err := c.Invoke(ctx, model, "search_count", []any{domain})
	if err != nil {
		c.logFailure("count", model, err)
		return 0, err
	}
	n, ok := toInt64(reply)
	if !ok {
		return 0, fmt.Errorf("%w: search_count returned %T", ErrUnexpectedReply, reply)
	}
	return n, nil
}

// Update writes values to the record id of model
func (c *Client) Update(ctx context.Context, model string, id int64, values map[string]any) error {
	if _, err := c.Invoke(ctx, model, "write", []any{[]any{id}, values}); err != nil {
		c.logFailure("update", model, err)
		return err
	}
	return nil
}

// Delete removes the record id of model
func (c *Client) Delete(ctx context.Context, model string, id int64) error {
	if _, err := c.Invoke(ctx, model, "unlink", []any{[]any{id}}); err != nil {
		c.logFailure("delete", model, err)
		return err
	}
	return nil
}

func (c *Client) logFailure(op, model string, err error) {
	if msg, ok := FaultMessage(err); ok {
		c.logger.Error(op+" operation failed", "model", model, "fault", msg)
		return
	}
	c.logger.Error(op+" operation failed", "model", model, "error", err)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	}
	return 0, false
}

func toRecords(reply any) ([]Record, error) {
	if reply == nil {
		return nil, nil
	}
	items, ok := reply.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: search_read returned %T", ErrUnexpectedReply, reply)
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: search_read item is %T", ErrUnexpectedReply, item)
		}
		records = append(records, Record(m))
	}
	return records, nil
}
