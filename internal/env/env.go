package env

import (
	"fmt"

	"github.com/joho/godotenv"

	"envault/internal/logging"
)

// FillSecrets reads the keys declared in envFile and resolves each one
// against the fetched vault secrets. Keys missing from the vault payload are
// logged and skipped; the env file's own values are only placeholders and are
// never used.
func FillSecrets(envFile string, secrets map[string]string, logger *logging.Logger) (map[string]string, error) {
	declared, err := godotenv.Read(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
	}

	filled := make(map[string]string, len(declared))
	for key := range declared {
		value, ok := secrets[key]
		if !ok {
			logger.Warn("env.key_unmatched", "Key not found in vault, ignoring it", map[string]interface{}{
				"key": key,
			})
			continue
		}
		filled[key] = value
	}

	return filled, nil
}
