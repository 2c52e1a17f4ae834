package utils

import (
	"strings"

	"github.com/Vietnguyen696/LuongPheDuyet/pkg/constants"
	"github.com/google/uuid"
)

// GenerateRecordID returns a short request id such as REQ-9F1C2A7B, derived from a UUID v4
func GenerateRecordID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	hex := strings.ReplaceAll(id.String(), "-", "")
	return constants.RecordIDPrefix + strings.ToUpper(hex[:8]), nil
}
