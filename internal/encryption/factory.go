package encryption

import (
	"fmt"

	"nutri-go/internal/config"
	"nutri-go/internal/nutri"
)

// NewSealerFromConfig creates a Sealer based on the archive config type.
func NewSealerFromConfig(cfg config.ArchiveConfig) (nutri.Sealer, error) {
	switch cfg.Type {
	case "age", "":
		return NewAgeSealer(cfg.WorkFactor), nil
	case "plain":
		return PlainSealer{}, nil
	default:
		return nil, fmt.Errorf("unknown archive encryption type: %q", cfg.Type)
	}
}
