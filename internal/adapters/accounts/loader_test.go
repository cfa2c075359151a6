package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avigier/rhcases/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAccountsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "accounts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadParsesAccountsInOrder(t *testing.T) {
	t.Parallel()

	path := writeAccountsFile(t, `accounts:
  - id: "123456"
    name: "Acme Corp"
  - id: "654321"
    name: "Globex"
`)

	accounts, err := Load(path)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, domain.Account{ID: "123456", Name: "Acme Corp"}, accounts[0])
	assert.Equal(t, domain.Account{ID: "654321", Name: "Globex"}, accounts[1])
}

func TestLoadDefaultsNameToID(t *testing.T) {
	t.Parallel()

	path := writeAccountsFile(t, `accounts:
  - id: "123456"
`)

	accounts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "123456", accounts[0].Name)
}

func TestLoadFailsFast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{name: "empty list", content: "accounts: []\n", wantMsg: "lists no accounts"},
		{name: "blank id", content: "accounts:\n  - id: \"\"\n    name: X\n", wantMsg: "empty id"},
		{name: "duplicate id", content: "accounts:\n  - id: a\n  - id: a\n", wantMsg: "duplicate account id"},
		{name: "not yaml", content: "{{{", wantMsg: "parse accounts file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeAccountsFile(t, tt.content)

			_, err := Load(path)
			require.Error(t, err)

			var cfgErr *domain.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, cfgErr.Error(), tt.wantMsg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "not found")
}
