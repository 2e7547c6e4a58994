// Package artifact reads the sleep model's coefficient set from YAML.
package artifact

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/betterrest/internal/domain/predictor"
)

//go:embed sleep_calculator.yaml
var embedded []byte

// EmbeddedSource is the source name reported for the built-in artifact.
const EmbeddedSource = "embedded:sleep_calculator.yaml"

var requiredKeys = []string{
	"coefficients.wake",
	"coefficients.estimated_sleep",
	"coefficients.coffee",
	"coefficients.bias",
}

// Artifact is a parsed model file.
type Artifact struct {
	Name         string                 `koanf:"name" json:"name"`
	Version      int                    `koanf:"version" json:"version"`
	Target       string                 `koanf:"target" json:"target"`
	Coefficients predictor.Coefficients `koanf:"coefficients" json:"coefficients"`
}

// Loader reads an artifact from one provider. It satisfies predictor.Loader.
type Loader struct {
	source   string
	provider func() koanf.Provider
}

// File returns a Loader for the YAML (or JSON) artifact at path.
func File(path string) *Loader {
	return &Loader{
		source:   path,
		provider: func() koanf.Provider { return file.Provider(path) },
	}
}

// Embedded returns a Loader for the artifact compiled into the binary.
func Embedded() *Loader {
	return Bytes(EmbeddedSource, embedded)
}

// Bytes returns a Loader over an in-memory artifact.
func Bytes(source string, b []byte) *Loader {
	return &Loader{
		source:   source,
		provider: func() koanf.Provider { return bytesProvider(b) },
	}
}

// Source names where the artifact is read from.
func (l *Loader) Source() string { return l.source }

// Load implements predictor.Loader.
func (l *Loader) Load(ctx context.Context) (predictor.Coefficients, error) {
	a, err := l.Artifact(ctx)
	if err != nil {
		return predictor.Coefficients{}, err
	}
	return a.Coefficients, nil
}

// Artifact reads and parses the whole artifact.
func (l *Loader) Artifact(ctx context.Context) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, fmt.Errorf("%w: %s: %w", ErrModelArtifact, l.source, err)
	}

	k := koanf.New(".")
	if err := k.Load(l.provider(), yaml.Parser()); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			// Corrupt content will not heal on retry.
			err = fmt.Errorf("%w: %w", ErrIncompleteArtifact, err)
		}
		return Artifact{}, fmt.Errorf("%w: read %s: %w", ErrModelArtifact, l.source, err)
	}
	for _, key := range requiredKeys {
		if !k.Exists(key) {
			return Artifact{}, fmt.Errorf("%w: %s: %w: missing %s", ErrModelArtifact, l.source, ErrIncompleteArtifact, key)
		}
	}

	var a Artifact
	if err := k.UnmarshalWithConf("", &a, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Artifact{}, fmt.Errorf("%w: %s: %w: %w", ErrModelArtifact, l.source, ErrIncompleteArtifact, err)
	}
	if err := a.Coefficients.Validate(); err != nil {
		return Artifact{}, fmt.Errorf("%w: %s: %w: %w", ErrModelArtifact, l.source, ErrIncompleteArtifact, err)
	}
	return a, nil
}

// bytesProvider is a koanf.Provider over a byte slice.
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) { return b, nil }

func (b bytesProvider) Read() (map[string]any, error) {
	return nil, errors.New("bytes provider does not support Read")
}
