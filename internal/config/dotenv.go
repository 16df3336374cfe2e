package config

import (
	"bufio"
	"os"
	"strings"
)

// LoadDotEnv applies KEY=VALUE pairs from a .env file to the process
// environment. Variables already set in the environment win, so a real
// deployment overrides the file. A missing file is reported to the
// caller, who is free to ignore it; the pixmock binary does.
func LoadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}

	return scanner.Err()
}
