package bootstrap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Vietnguyen696/LuongPheDuyet/internal/domain"
	"github.com/Vietnguyen696/LuongPheDuyet/internal/domain/models"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/constants"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/logging"
)

// catalogFile is the on-disk layout of a process catalog
type catalogFile struct {
	Processes []models.ProcessConfig `yaml:"processes"`
}

// ParseProcessCatalog builds a registry from YAML catalog content.
// Unknown keys and process types without a details variant are rejected.
func ParseProcessCatalog(data []byte) (*domain.ProcessRegistry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file catalogFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("process catalog is empty")
		}
		return nil, fmt.Errorf("failed to parse process catalog: %w", err)
	}
	if len(file.Processes) == 0 {
		return nil, fmt.Errorf("process catalog lists no processes")
	}

	for _, cfg := range file.Processes {
		if !constants.IsKnownProcessType(cfg.ID) {
			return nil, fmt.Errorf("process catalog: unsupported process type %q", cfg.ID)
		}
	}

	registry, err := domain.NewProcessRegistry(file.Processes...)
	if err != nil {
		return nil, fmt.Errorf("process catalog: %w", err)
	}
	return registry, nil
}

// LoadProcessCatalog reads and parses a YAML catalog file
func LoadProcessCatalog(path string) (*domain.ProcessRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read process catalog %s: %w", path, err)
	}
	return ParseProcessCatalog(data)
}

// InitializeRegistry returns the registry from path, or the built-in catalog when path is empty
func InitializeRegistry(path string, logger *zap.Logger) (*domain.ProcessRegistry, error) {
	logger = logging.OrNop(logger)
	if path == "" {
		logger.Info("📦 Using built-in process catalog", zap.Int("processes", len(domain.DefaultProcessConfigs)))
		return domain.DefaultProcessRegistry(), nil
	}

	registry, err := LoadProcessCatalog(path)
	if err != nil {
		return nil, err
	}
	logger.Info("📦 Process catalog loaded",
		zap.String("path", path),
		zap.Int("processes", len(registry.List())),
	)
	return registry, nil
}
