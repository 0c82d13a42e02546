// ABOUTME: Settings loading with global + project config deep merge
// ABOUTME: YAML-based; project values override global values

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds the merged configuration.
type Settings struct {
	Shell         string `yaml:"shell,omitempty"`           // POSIX shell for the session
	Ruyi          string `yaml:"ruyi,omitempty"`            // path to the ruyi binary
	SwitchDelayMS int    `yaml:"switch_delay_ms,omitempty"` // pause between deactivate and activate
	ProbeLimit    int    `yaml:"probe_limit,omitempty"`     // concurrent marker probes during scans
	NewsURL       string `yaml:"news_url,omitempty"`        // HTTP fallback news page
	Verbose       bool   `yaml:"verbose,omitempty"`
}

// Load reads and merges global and project-local settings. Project
// settings override global settings. Missing files are fine; a file that
// exists but fails to parse is an error.
func Load(projectRoot string) (*Settings, error) {
	global, err := loadFile(GlobalConfigFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return merge(global, project), nil
}

// SwitchDelay returns the configured switch delay, defaulting to 100ms.
// The delay is a heuristic mitigation for command ordering in the shell,
// not a guarantee; raising it trades latency for a wider safety margin.
func (s *Settings) SwitchDelay() time.Duration {
	if s.SwitchDelayMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(s.SwitchDelayMS) * time.Millisecond
}

// loadFile reads Settings from a YAML file. Returns zero Settings and the
// underlying error if the file does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge deep-merges project settings onto global settings. Non-zero
// project values override global values.
func merge(global, project *Settings) *Settings {
	if global == nil {
		global = &Settings{}
	}
	if project == nil {
		return global
	}

	result := *global

	if project.Shell != "" {
		result.Shell = project.Shell
	}
	if project.Ruyi != "" {
		result.Ruyi = project.Ruyi
	}
	if project.SwitchDelayMS != 0 {
		result.SwitchDelayMS = project.SwitchDelayMS
	}
	if project.ProbeLimit != 0 {
		result.ProbeLimit = project.ProbeLimit
	}
	if project.NewsURL != "" {
		result.NewsURL = project.NewsURL
	}
	if project.Verbose {
		result.Verbose = true
	}

	return &result
}
