// Package benchfmt reads, writes and compares benchmark summaries.
package benchfmt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Result is one benchmark with its metrics.
type Result struct {
	Name        string             `json:"name"`
	Category    string             `json:"category,omitempty"` // "standard", "scale", "other"
	Description string             `json:"description,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Summary is a set of results from one run.
type Summary struct {
	Timestamp string   `json:"timestamp"`
	CommitID  string   `json:"commit_id"`
	Branch    string   `json:"branch"`
	GoVersion string   `json:"go_version"`
	System    string   `json:"system,omitempty"`
	Results   []Result `json:"results"`
}

// NewSummary returns an empty summary stamped with the current time and Go version.
func NewSummary(commitID, branch string) Summary {
	return Summary{
		Timestamp: time.Now().Format(time.RFC3339),
		CommitID:  commitID,
		Branch:    branch,
		GoVersion: runtime.Version(),
		System:    runtime.GOOS + "/" + runtime.GOARCH,
		Results:   []Result{},
	}
}

// GitInfo reads the current branch and abbreviated commit from repoRoot/.git.
// It falls back to "local" and "dev" when they cannot be determined.
func GitInfo(repoRoot string) (commitID, branch string) {
	commitID = "local"
	branch = "dev"

	gitHead, err := os.ReadFile(filepath.Join(repoRoot, ".git", "HEAD"))
	if err != nil {
		return commitID, branch
	}
	headContent := strings.TrimSpace(string(gitHead))
	if headContent == "" {
		return commitID, branch
	}

	// For branches it looks like "ref: refs/heads/main"
	if !strings.HasPrefix(headContent, "ref: ") {
		return abbreviate(headContent), branch
	}
	refPath := strings.TrimPrefix(headContent, "ref: ")
	if strings.HasPrefix(refPath, "refs/heads/") {
		branch = strings.TrimPrefix(refPath, "refs/heads/")
	}
	if commitData, err := os.ReadFile(filepath.Join(repoRoot, ".git", refPath)); err == nil {
		commitID = abbreviate(strings.TrimSpace(string(commitData)))
	}
	return commitID, branch
}

func abbreviate(commit string) string {
	if len(commit) >= 8 {
		return commit[:8]
	}
	return commit
}

// Load reads a summary file.
func Load(path string) (Summary, error) {
	var s Summary
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read summary: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse summary %s: %w", path, err)
	}
	return s, nil
}

// Write stores a summary as indented JSON, creating parent directories.
func Write(path string, s Summary) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// Append adds result to the summary at path, keeping the existing header
// and results. A missing file starts a new summary for commitID/branch.
func Append(path string, result Result, commitID, branch string) (Summary, error) {
	summary, err := Load(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		summary = NewSummary(commitID, branch)
	default:
		return summary, err
	}

	summary.Results = append(summary.Results, result)
	if err := Write(path, summary); err != nil {
		return summary, err
	}
	return summary, nil
}
