package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvKey is the environment variable the API key is read from by default.
const DefaultEnvKey = "OPENAI_API_KEY"

// Source supplies the API secret on demand. An empty secret is a valid value;
// checking it is the provider's job.
type Source interface {
	Secret() string
}

// Static always returns the same secret.
type Static string

func (s Static) Secret() string { return string(s) }

// Env reads the secret from an environment variable on every call.
type Env struct {
	Key string
}

func (e Env) Secret() string {
	return os.Getenv(e.Key)
}

// Func adapts a plain function into a Source.
type Func func() string

func (f Func) Secret() string { return f() }

// LoadDotenv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an error.
func LoadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load dotenv file %q: %w", path, err)
	}
	return nil
}

// FromEnv loads the optional dotenv file and returns an Env source for key.
func FromEnv(key, dotenvPath string) (Source, error) {
	if key == "" {
		key = DefaultEnvKey
	}
	if err := LoadDotenv(dotenvPath); err != nil {
		return nil, err
	}
	return Env{Key: key}, nil
}
