package session

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// TokenFile persists the bearer token between runs. Implementations must
// treat a missing token as empty, not as an error.
type TokenFile interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// savedToken is the on-disk shape. A named field keeps the file
// self-describing and leaves room for future additions.
type savedToken struct {
	AccessToken string `json:"access_token"`
}

// FileTokenStore keeps the token in a single JSON file under the data
// directory, created with owner-only permissions.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore persists the token at dir/token.json.
func NewFileTokenStore(dir string) *FileTokenStore {
	return &FileTokenStore{path: filepath.Join(dir, "token.json")}
}

// Load reads the saved token, returning "" when none exists.
func (f *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	var saved savedToken
	if err := json.Unmarshal(data, &saved); err != nil {
		return "", err
	}
	return saved.AccessToken, nil
}

// Save writes the token, creating the data directory if needed.
func (f *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(savedToken{AccessToken: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0600)
}

// Clear removes the token file. A missing file is not an error.
func (f *FileTokenStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
