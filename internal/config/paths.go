// ABOUTME: Standard filesystem paths for ruyi-tui configuration
// ABOUTME: Resolves the user config dir for global and dotfile for project-local settings

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName     = "ruyi-tui"
	projectConfigName = ".ruyi-tui.yaml"
	globalConfigName  = "config.yaml"
)

// GlobalDir returns the user-global config directory
// (~/.config/ruyi-tui on Linux, following os.UserConfigDir).
func GlobalDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(base, globalDirName)
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), globalConfigName)
}

// ProjectConfigFile returns the path to the workspace-local config file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(projectRoot, projectConfigName)
}
