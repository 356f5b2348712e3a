// Package testserver runs the MCP server over HTTP against an in-memory
// database for end-to-end tests.
package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/OrionApplePie/ProjectsAutomation/internal/app"
	"github.com/OrionApplePie/ProjectsAutomation/internal/config"
	"github.com/OrionApplePie/ProjectsAutomation/internal/mcp"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	App    *app.App
	Token  string
}

// New starts an authenticated HTTP server with one API key, token, issued to
// operator.
func New(t *testing.T, token, operator string) *TestServer {
	t.Helper()

	cfg := config.Default()
	cfg.DB.Path = ":memory:"
	cfg.Transport.Mode = "http"
	cfg.Auth.Enabled = true

	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NoError(t, a.APIKeys.Create(context.Background(), token, operator))

	server := mcp.NewServer(mcp.Config{
		Services:      a.MCPServices(),
		Resolver:      a.APIKeys,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	ts := &TestServer{
		Server: httptest.NewServer(mcp.NewHTTPHandler(server)),
		App:    a,
		Token:  token,
	}

	t.Cleanup(func() {
		ts.Server.Close()
		_ = a.Close()
	})
	return ts
}

// ImportRoster loads a YAML roster straight into the database.
func (ts *TestServer) ImportRoster(t *testing.T, doc string) {
	t.Helper()
	_, err := ts.App.Importer.Import(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
}

// Connect opens a client session that sends token as a bearer token. An
// empty token sends no Authorization header.
func (ts *TestServer) Connect(t *testing.T, token string) *sdkmcp.ClientSession {
	t.Helper()

	transport := &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: token, next: http.DefaultTransport}},
	}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), transport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

type bearerTransport struct {
	token string
	next  http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if b.token == "" {
		return b.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.next.RoundTrip(req)
}
