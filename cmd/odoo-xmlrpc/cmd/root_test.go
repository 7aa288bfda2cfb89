package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/itdwgmbh/odoo-xmlrpc-go/internal/config"
	"github.com/itdwgmbh/odoo-xmlrpc-go/pkg/odoo"
)

type mockModelClient struct{ mock.Mock }

func (m *mockModelClient) Version(ctx context.Context) (map[string]any, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *mockModelClient) InvokeKw(ctx context.Context, model, method string, a []any, kw map[string]any) (any, error) {
	args := m.Called(ctx, model, method, a, kw)
	return args.Get(0), args.Error(1)
}

func (m *mockModelClient) Create(ctx context.Context, model string, values map[string]any) (int64, error) {
	args := m.Called(ctx, model, values)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockModelClient) Read(ctx context.Context, model string, opts odoo.ReadOptions) ([]odoo.Record, error) {
	args := m.Called(ctx, model, opts)
	return args.Get(0).([]odoo.Record), args.Error(1)
}

func (m *mockModelClient) SearchCount(ctx context.Context, model string, domain []any) (int64, error) {
	args := m.Called(ctx, model, domain)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockModelClient) Update(ctx context.Context, model string, id int64, values map[string]any) error {
	args := m.Called(ctx, model, id, values)
	return args.Error(0)
}

func (m *mockModelClient) Delete(ctx context.Context, model string, id int64) error {
	args := m.Called(ctx, model, id)
	return args.Error(0)
}

func (m *mockModelClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// setup points the configuration at the environment and swaps in a mock client
func setup(t *testing.T) *mockModelClient {
	t.Helper()
	t.Setenv(config.EnvURL, "https://odoo.example.org")
	t.Setenv(config.EnvDatabase, "testdb")
	t.Setenv(config.EnvUsername, "admin")
	t.Setenv(config.EnvPassword, "secret")
	t.Setenv(config.EnvLogLevel, "")

	var mClient mockModelClient
	mClient.On("Close").Return(nil)
	saved := newClient
	newClient = func(cfg *config.Config, logs io.Writer) (modelClient, error) {
		assert.Equal(t, "testdb", cfg.Database)
		return &mClient, nil
	}
	t.Cleanup(func() { newClient = saved })
	return &mClient
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := root.Execute()
	return out.String(), err
}

func TestCreateCmd(t *testing.T) {
	m := setup(t)
	m.On("Create", mock.Anything, "res.partner", map[string]any{"name": "Acme", "credit_limit": 2500.5}).
		Return(int64(42), nil)

	out, err := run(t, "create", "res.partner", "--values", `{"name": "Acme", "credit_limit": 2500.5}`)

	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
	m.AssertExpectations(t)
}

func TestCreateCmdInvalidValues(t *testing.T) {
	m := setup(t)

	_, err := run(t, "create", "res.partner", "--values", `["not", "an", "object"]`)

	assert.ErrorContains(t, err, "expected a JSON object")
	m.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestReadCmd(t *testing.T) {
	m := setup(t)
	opts := odoo.ReadOptions{
		Domain: []any{[]any{"customer_rank", ">", int64(0)}},
		Fields: []string{"name", "email"},
		Offset: 0,
		Limit:  10,
		Order:  odoo.DefaultOrder,
	}
	m.On("Read", mock.Anything, "res.partner", opts).
		Return([]odoo.Record{{"id": int64(1), "name": "Acme"}}, nil)

	out, err := run(t, "read", "res.partner", "--domain", `[["customer_rank", ">", 0]]`, "--fields", "name,email", "--limit", "10")

	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": 1, "name": "Acme"}]`, out)
	m.AssertExpectations(t)
}

func TestCountCmd(t *testing.T) {
	m := setup(t)
	m.On("SearchCount", mock.Anything, "res.partner", []any{}).Return(int64(3), nil)

	out, err := run(t, "count", "res.partner")

	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestUpdateCmd(t *testing.T) {
	m := setup(t)
	m.On("Update", mock.Anything, "res.partner", int64(42), map[string]any{"active": false}).Return(nil)

	_, err := run(t, "update", "res.partner", "42", "--values", `{"active": false}`)

	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestUpdateCmdInvalidID(t *testing.T) {
	m := setup(t)

	_, err := run(t, "update", "res.partner", "forty-two", "--values", `{}`)

	assert.ErrorContains(t, err, "invalid record id")
	m.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteCmdPropagatesFault(t *testing.T) {
	m := setup(t)
	fault := &odoo.RemoteCallFailedError{Model: "res.partner", Method: "unlink", Fault: odoo.Fault{Code: 2, Message: "in use"}}
	m.On("Delete", mock.Anything, "res.partner", int64(7)).Return(fault)

	_, err := run(t, "delete", "res.partner", "7")

	var rce *odoo.RemoteCallFailedError
	require.ErrorAs(t, err, &rce)
	assert.Equal(t, "in use", rce.Fault.Message)
	m.AssertExpectations(t)
}

func TestCallCmd(t *testing.T) {
	m := setup(t)
	m.On("InvokeKw", mock.Anything, "res.partner", "name_search", []any{"Acme"}, map[string]any{"limit": int64(5)}).
		Return([]any{[]any{int64(1), "Acme"}}, nil)

	out, err := run(t, "call", "res.partner", "name_search", "--args", `["Acme"]`, "--kwargs", `{"limit": 5}`)

	require.NoError(t, err)
	assert.JSONEq(t, `[[1, "Acme"]]`, out)
}

func TestServerVersionCmd(t *testing.T) {
	m := setup(t)
	m.On("Version", mock.Anything).Return(map[string]any{"server_version": "17.0"}, nil)

	out, err := run(t, "server-version")

	require.NoError(t, err)
	assert.JSONEq(t, `{"server_version": "17.0"}`, out)
}

func TestMissingConfiguration(t *testing.T) {
	setup(t)
	t.Setenv(config.EnvURL, "")

	_, err := run(t, "count", "res.partner")

	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "Version: "+Version)
}
