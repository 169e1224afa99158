package app

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
)

const secretLength = 48

// loadOrGenerateSecret loads the HS256 signing secret from a file or
// generates and persists one if the file does not exist. Restarting with
// the same file keeps previously issued tokens valid.
func loadOrGenerateSecret(file string) ([]byte, error) {
	file = filepath.Clean(file)
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return nil, err
	}

	if _, err := os.Stat(file); os.IsNotExist(err) {
		raw := make([]byte, secretLength)
		if _, err := rand.Read(raw); err != nil {
			return nil, err
		}

		encoded := base64.RawURLEncoding.EncodeToString(raw)
		if err := os.WriteFile(file, []byte(encoded), 0600); err != nil {
			return nil, err
		}
		return []byte(encoded), nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return []byte(strings.TrimSpace(string(data))), nil
}
