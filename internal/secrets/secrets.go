// Package secrets supplies credentials to data sources without the sources
// knowing where they are kept.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrSecretNotFound is returned when a provider has no value for a name.
var ErrSecretNotFound = errors.New("secret not found")

// Provider resolves a named secret.
type Provider interface {
	Secret(ctx context.Context, name string) ([]byte, error)
}

// EnvProvider reads secrets from environment variables named
// PREFIX_NAME, with the name upper-cased and non-alphanumerics replaced by '_'.
type EnvProvider struct {
	Prefix string
}

func (p EnvProvider) Secret(_ context.Context, name string) ([]byte, error) {
	key := p.key(name)
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil, fmt.Errorf("%w: %s", ErrSecretNotFound, key)
	}
	return []byte(v), nil
}

func (p EnvProvider) key(name string) string {
	var b strings.Builder
	if p.Prefix != "" {
		b.WriteString(strings.ToUpper(p.Prefix))
		b.WriteByte('_')
	}
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// FileProvider reads each secret from a file named after it inside Dir, as
// mounted by Docker or Kubernetes secrets. Trailing newlines are trimmed.
type FileProvider struct {
	Dir string
}

func (p FileProvider) Secret(_ context.Context, name string) ([]byte, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == ".." {
		return nil, fmt.Errorf("invalid secret name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(p.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read secret %s: %w", name, err)
	}
	return []byte(strings.TrimRight(string(data), "\r\n")), nil
}

// New returns the provider for a config kind: "env" (default) or "file".
func New(kind, dir, envPrefix string) (Provider, error) {
	switch kind {
	case "", "env":
		return EnvProvider{Prefix: envPrefix}, nil
	case "file":
		if dir == "" {
			return nil, fmt.Errorf("file secret provider requires a directory")
		}
		return FileProvider{Dir: dir}, nil
	default:
		return nil, fmt.Errorf("unknown secret provider %q", kind)
	}
}

// Optional resolves name when it is set; an empty name yields nil without error.
func Optional(ctx context.Context, p Provider, name string) ([]byte, error) {
	if name == "" {
		return nil, nil
	}
	return p.Secret(ctx, name)
}
