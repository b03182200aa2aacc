package services

import (
	"runtime"

	"ai-studio/backend/pkg/models"
)

// SystemService reports static process metadata.
type SystemService struct {
	version string
}

// NewSystemService creates a new SystemService.
func NewSystemService(version string) *SystemService {
	return &SystemService{version: version}
}

// Info returns platform, architecture and version. A fresh map is returned on
// every call.
func (s *SystemService) Info() models.SystemInfo {
	return models.SystemInfo{
		"platform": runtime.GOOS,
		"arch":     runtime.GOARCH,
		"version":  s.version,
	}
}
