package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep runs Validate and then checks file access. configPath may be
// empty to skip the config file check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("files.download_dir", c.Files.DownloadDir, isDirectoryOrNotExist),
		c.validateLimits(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if strings.HasPrefix(c.API.BaseURL, "http://") {
		warnings = append(warnings, ValidationWarning{
			Category: "API",
			Item:     "base_url",
			Message:  "access tokens are sent over plain http",
		})
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// validateLimits checks that the extension limits are mutually consistent.
func (c *Config) validateLimits() error {
	var errs criterio.FieldErrorsBuilder

	if c.Extensions.MaxFixed > c.Extensions.MaxCustom {
		errs = errs.Append("extensions.max_fixed", fmt.Errorf("cannot exceed max_custom (%d)", c.Extensions.MaxCustom))
	}
	if c.Extensions.MaxLength > 255 {
		errs = errs.Append("extensions.max_length", fmt.Errorf("must be at most 255"))
	}

	return errs.ToError()
}
