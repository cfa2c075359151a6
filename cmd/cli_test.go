package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func isolateHome(t *testing.T) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv(credentialEnvVar, "")
}

func writeAccountsFixture(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "accounts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newSSOServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("refresh_token") != "good-offline-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"bearer-abc","expires_in":900}`))
	}))
	t.Cleanup(server.Close)
	return server
}

// newCaseServer serves canned cases per account id; ids listed in forbidden
// get a 403.
func newCaseServer(t *testing.T, forbidden map[string]bool) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var filter struct {
			AccountNumber string `json:"accountNumber"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&filter))

		if forbidden[filter.AccountNumber] {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cases":[
			{"caseNumber":"03400002","summary":"Cluster upgrade stuck","severity":"Urgent","status":"Waiting on Red Hat","product":"OpenShift","lastModifiedDate":"2026-03-01T18:30:00Z"},
			{"caseNumber":"03400001","summary":"Subscription question","severity":"Low","status":"Waiting on Customer","product":"RHEL","lastModifiedDate":"2026-02-27T09:00:00Z"}
		]}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestStatusHappyPathRendersSummaryAndRows(t *testing.T) {
	isolateHome(t)
	sso := newSSOServer(t)
	api := newCaseServer(t, nil)
	accounts := writeAccountsFixture(t, "accounts:\n  - id: \"111111\"\n    name: \"Acme Corp\"\n")

	stdout, _, err := executeCLI(t,
		"status", accounts, "good-offline-token",
		"--sso-url", sso.URL, "--api-url", api.URL,
	)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Total: 2")
	assert.Contains(t, stdout, "Waiting on Red Hat: 1")
	assert.Contains(t, stdout, "Waiting on Customer: 1")
	assert.Contains(t, stdout, "Acme Corp (111111)")
	assert.Contains(t, stdout, "03400002")
	assert.Contains(t, stdout, "Urgent")
}

func TestStatusInvalidCredentialExitsBeforeAnyTable(t *testing.T) {
	isolateHome(t)
	sso := newSSOServer(t)
	api := newCaseServer(t, nil)
	accounts := writeAccountsFixture(t, "accounts:\n  - id: \"111111\"\n")

	stdout, _, err := executeCLI(t,
		"status", accounts, "bad-token",
		"--sso-url", sso.URL, "--api-url", api.URL,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authenticate with Red Hat SSO")
	assert.Contains(t, err.Error(), "exchange_failed")
	assert.NotContains(t, stdout, "Total:")
}

func TestStatusPartialFailureKeepsHealthyAccount(t *testing.T) {
	isolateHome(t)
	sso := newSSOServer(t)
	api := newCaseServer(t, map[string]bool{"999999": true})
	accounts := writeAccountsFixture(t, "accounts:\n  - id: \"111111\"\n    name: \"Acme Corp\"\n  - id: \"999999\"\n    name: \"Initech\"\n")

	stdout, _, err := executeCLI(t,
		"status", accounts, "good-offline-token",
		"--sso-url", sso.URL, "--api-url", api.URL,
	)
	require.NoError(t, err, "a per-account failure must not fail the command")

	assert.Contains(t, stdout, "Acme Corp (111111)")
	assert.Contains(t, stdout, "03400002")
	assert.Contains(t, stdout, "Initech (999999)")
	assert.Contains(t, stdout, "fetch failed: forbidden")
}

func TestStatusJSONOutput(t *testing.T) {
	isolateHome(t)
	sso := newSSOServer(t)
	api := newCaseServer(t, nil)
	accounts := writeAccountsFixture(t, "accounts:\n  - id: \"111111\"\n    name: \"Acme Corp\"\n")

	stdout, _, err := executeCLI(t,
		"status", accounts, "good-offline-token",
		"--sso-url", sso.URL, "--api-url", api.URL,
		"--json",
	)
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"total\": 2")
	assert.Contains(t, stdout, "\"Waiting on Red Hat\": 1")
	assert.Contains(t, stdout, "https://access.redhat.com/support/cases/#/case/03400002")
}

func TestWatchMissingAccountsFileFailsFast(t *testing.T) {
	isolateHome(t)

	_, _, err := executeCLI(t, "watch", filepath.Join(t.TempDir(), "nope.yaml"), "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accounts file not found")
}

func TestWatchMissingCredentialFailsFast(t *testing.T) {
	isolateHome(t)
	accounts := writeAccountsFixture(t, "accounts:\n  - id: \"111111\"\n")

	_, _, err := executeCLI(t, "watch", accounts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline token missing")
	assert.Contains(t, err.Error(), credentialEnvVar)
}

func TestStatusCredentialFromEnvironment(t *testing.T) {
	isolateHome(t)
	sso := newSSOServer(t)
	api := newCaseServer(t, nil)
	accounts := writeAccountsFixture(t, "accounts:\n  - id: \"111111\"\n")
	t.Setenv(credentialEnvVar, "good-offline-token")

	stdout, _, err := executeCLI(t,
		"status", accounts,
		"--sso-url", sso.URL, "--api-url", api.URL,
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total: 2")
}

func TestUnknownSortKeyRejected(t *testing.T) {
	isolateHome(t)
	accounts := writeAccountsFixture(t, "accounts:\n  - id: \"111111\"\n")

	_, _, err := executeCLI(t, "status", accounts, "tok", "--sort", "alphabetical")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort key")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}
