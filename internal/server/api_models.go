package server

import (
	"github.com/raysh454/configlens/internal/platform"
)

// CompareRequest carries two raw configs to compare. Source and Target are
// whole files, not line arrays; the server splits them.
type CompareRequest struct {
	Source     string `json:"source" example:"interface Gi0/1\n switchport mode trunk"`
	Target     string `json:"target" example:"interface Gi0/1\n switchport mode access"`
	Platform   string `json:"platform" example:"CISCO_IOS"`
	Normalize  bool   `json:"normalize" example:"true"`
	Persist    bool   `json:"persist" example:"true"`
	SourceName string `json:"source_name" example:"router-a.cfg"`
	TargetName string `json:"target_name" example:"router-b.cfg"`
}

// ValidateRequest carries the three configs of a change validation.
type ValidateRequest struct {
	Running  string `json:"running"`
	Change   string `json:"change"`
	Expected string `json:"expected"`
	Platform string `json:"platform" example:"CISCO_IOS"`
}

// PlatformsResponse lists known platforms and the subset with full rule
// support.
type PlatformsResponse struct {
	Platforms []platform.Platform `json:"platforms"`
	Supported []platform.Platform `json:"supported"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"not found"`
}
