package artifact

import "errors"

var (
	// ErrModelArtifact wraps every artifact load failure.
	ErrModelArtifact = errors.New("model artifact")
	// ErrIncompleteArtifact marks an artifact that parsed but lacks a
	// coefficient. Retrying cannot fix it.
	ErrIncompleteArtifact = errors.New("incomplete model artifact")
)
