package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/lia/internal/core/styles"
)

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, required),
		criterio.Run("theme", c.Theme, knownTheme),
		criterio.Run("display.date_format", c.Display.DateFormat, dateLayout),
	)
}

// ValidateDeep runs Validate and then checks the config file and store path
// on disk. The configPath argument may be empty to skip the config file check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("store_path", c.StorePath(), isFileOrNotExist),
	)
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

func knownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

// dateLayout rejects layouts that render a fixed date identically to the
// layout itself, which means no time directive was recognized.
func dateLayout(layout string) error {
	if err := required(layout); err != nil {
		return err
	}

	sample := time.Date(2019, 12, 2, 18, 0, 0, 0, time.UTC)
	if sample.Format(layout) == layout {
		return fmt.Errorf("layout %q contains no date or time directives", layout)
	}
	return nil
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

func isFileOrNotExist(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	return nil
}
