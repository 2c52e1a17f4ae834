package domain

import (
	"fmt"

	"github.com/Vietnguyen696/LuongPheDuyet/internal/domain/models"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/constants"
	appErrors "github.com/Vietnguyen696/LuongPheDuyet/pkg/errors"
)

// DefaultProcessConfigs is the built-in process catalog
var DefaultProcessConfigs = []models.ProcessConfig{
	{ID: constants.ProcessReward, Label: "Khen thưởng Đảng viên", Levels: constants.LevelsSingle},
	{ID: constants.ProcessDiscipline, Label: "Kỷ luật Đảng viên", Levels: constants.LevelsSingle},
	{ID: constants.ProcessMemberGrading, Label: "Xếp loại Đảng viên", Levels: constants.LevelsDouble},
	{ID: constants.ProcessOrgGrading, Label: "Xếp loại tổ chức Đảng", Levels: constants.LevelsSingle},
	{ID: constants.ProcessConfirmation, Label: "Công tác chuẩn y", Levels: constants.LevelsSingle},
	{ID: constants.ProcessTransfer, Label: "Chuyển sinh hoạt Đảng", Levels: constants.LevelsDouble},
	{ID: constants.ProcessAbroad, Label: "Đi nước ngoài", Levels: constants.LevelsDouble},
	{ID: constants.ProcessSupplementary, Label: "Phiếu bổ sung thông tin", Levels: constants.LevelsSingle},
}

// ProcessRegistry is the immutable catalog of process types.
// Lookups never default: an unregistered type is always an error.
type ProcessRegistry struct {
	ordered []models.ProcessConfig
	byID    map[constants.ProcessType]models.ProcessConfig
}

// NewProcessRegistry validates and indexes the given configs, keeping their order
func NewProcessRegistry(configs ...models.ProcessConfig) (*ProcessRegistry, error) {
	r := &ProcessRegistry{
		ordered: make([]models.ProcessConfig, 0, len(configs)),
		byID:    make(map[constants.ProcessType]models.ProcessConfig, len(configs)),
	}
	for _, cfg := range configs {
		if cfg.ID == "" {
			return nil, appErrors.NewValidationError("id", "process id is required")
		}
		if cfg.Levels != constants.LevelsSingle && cfg.Levels != constants.LevelsDouble {
			return nil, appErrors.NewValidationError("levels",
				fmt.Sprintf("process %s must have 1 or 2 levels, got %d", cfg.ID, cfg.Levels))
		}
		if _, exists := r.byID[cfg.ID]; exists {
			return nil, appErrors.NewValidationError("id", fmt.Sprintf("process %s is registered twice", cfg.ID))
		}
		r.ordered = append(r.ordered, cfg)
		r.byID[cfg.ID] = cfg
	}
	return r, nil
}

// DefaultProcessRegistry returns a registry seeded with the built-in catalog
func DefaultProcessRegistry() *ProcessRegistry {
	r, err := NewProcessRegistry(DefaultProcessConfigs...)
	if err != nil {
		panic(fmt.Sprintf("default process catalog is invalid: %v", err))
	}
	return r
}

// Get returns the config for a process type
func (r *ProcessRegistry) Get(t constants.ProcessType) (models.ProcessConfig, error) {
	cfg, ok := r.byID[t]
	if !ok {
		return models.ProcessConfig{}, appErrors.NewUnknownProcessTypeError(string(t))
	}
	return cfg, nil
}

// LevelsOf returns the approval chain length of a process type
func (r *ProcessRegistry) LevelsOf(t constants.ProcessType) (int, error) {
	cfg, err := r.Get(t)
	if err != nil {
		return 0, err
	}
	return cfg.Levels, nil
}

// LabelOf returns the display label of a process type
func (r *ProcessRegistry) LabelOf(t constants.ProcessType) (string, error) {
	cfg, err := r.Get(t)
	if err != nil {
		return "", err
	}
	return cfg.Label, nil
}

// List returns all configs in catalog order
func (r *ProcessRegistry) List() []models.ProcessConfig {
	out := make([]models.ProcessConfig, len(r.ordered))
	copy(out, r.ordered)
	return out
}
