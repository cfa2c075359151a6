// Package accounts loads the account list the dashboard watches. The file
// format follows the upstream convention:
//
//	accounts:
//	  - id: "123456"
//	    name: "Acme Corp"
package accounts

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/avigier/rhcases/internal/domain"
	"gopkg.in/yaml.v3"
)

type fileSchema struct {
	Accounts []accountSchema `yaml:"accounts"`
}

type accountSchema struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Load reads and validates the accounts file. Any problem is a
// *domain.ConfigError with a message actionable enough to fix the file;
// validation happens before the render loop ever starts.
func Load(path string) ([]domain.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &domain.ConfigError{Detail: fmt.Sprintf("accounts file not found: %s", path)}
		}
		return nil, &domain.ConfigError{Detail: fmt.Sprintf("read accounts file %s: %v", path, err)}
	}

	var file fileSchema
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &domain.ConfigError{Detail: fmt.Sprintf("parse accounts file %s: %v", path, err)}
	}

	if len(file.Accounts) == 0 {
		return nil, &domain.ConfigError{Detail: fmt.Sprintf("accounts file %s lists no accounts", path)}
	}

	seen := make(map[string]struct{}, len(file.Accounts))
	result := make([]domain.Account, 0, len(file.Accounts))
	for i, entry := range file.Accounts {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			return nil, &domain.ConfigError{Detail: fmt.Sprintf("account entry %d has an empty id", i+1)}
		}
		if _, dup := seen[id]; dup {
			return nil, &domain.ConfigError{Detail: fmt.Sprintf("duplicate account id %q", id)}
		}
		seen[id] = struct{}{}

		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = id
		}

		result = append(result, domain.Account{ID: domain.AccountID(id), Name: name})
	}

	return result, nil
}
