// Package testutil provides shared test helpers for Toy Go tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScenariosDir is the relative path from the module root to the golden scenarios.
const ScenariosDir = "testdata/scenarios"

// Scenario represents a test scenario loaded from a scenario.json file.
type Scenario struct {
	Cmd       []string       `json:"cmd"`
	Stdin     string         `json:"stdin,omitempty"`
	Meta      *ScenarioMeta  `json:"meta,omitempty"`
	Expect    ExpectedResult `json:"expect"`
	TimeoutMs int            `json:"timeoutMs,omitempty"`
}

// ScenarioMeta holds optional scenario metadata.
type ScenarioMeta struct {
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ExpectedResult describes the expected outcome of running a scenario.
// A nil text field is not checked; a pointer to "" requires empty output.
type ExpectedResult struct {
	ExitCode       int             `json:"exitCode"`
	StdoutText     *string         `json:"stdoutText,omitempty"`
	StdoutContains string          `json:"stdoutContains,omitempty"`
	StderrText     *string         `json:"stderrText,omitempty"`
	StderrContains string          `json:"stderrContains,omitempty"`
	StderrJSON     json.RawMessage `json:"stderrJson,omitempty"`
}

// LoadScenario loads a scenario from a directory containing scenario.json.
func LoadScenario(dir string) (*Scenario, error) {
	data, err := os.ReadFile(filepath.Join(dir, "scenario.json"))
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListScenarios returns all scenario directories under the given root, sorted.
func ListScenarios(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			scenarioPath := filepath.Join(root, e.Name(), "scenario.json")
			if _, err := os.Stat(scenarioPath); err == nil {
				dirs = append(dirs, filepath.Join(root, e.Name()))
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// Flags returns the flag arguments of cmd.
func Flags(cmd []string) []string {
	var flags []string
	for _, arg := range cmd {
		if strings.HasPrefix(arg, "--") {
			flags = append(flags, arg)
		}
	}
	return flags
}

// HasFlag reports whether cmd contains flag.
func HasFlag(cmd []string, flag string) bool {
	for _, f := range Flags(cmd) {
		if f == flag {
			return true
		}
	}
	return false
}

// ReadProgramFile reads the program file referenced by the scenario cmd,
// the last argument that is not a flag. It returns an empty source when
// cmd names no file.
func ReadProgramFile(scenarioDir string, cmd []string) (string, string, error) {
	filename := ""
	for _, arg := range cmd {
		if !strings.HasPrefix(arg, "--") {
			filename = arg
		}
	}
	if filename == "" {
		return "", "", nil
	}
	source, err := os.ReadFile(filepath.Join(scenarioDir, filename))
	if err != nil {
		return "", "", err
	}
	return string(source), filename, nil
}
