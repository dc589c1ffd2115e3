package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// CreateRunFolder makes a fresh profile_{company}_{timestamp} folder under
// baseDir and returns its path.
func CreateRunFolder(baseDir, company string) (string, error) {
	name := fmt.Sprintf("profile_%s_%s", cleanName(company), time.Now().Format("20060102_150405"))
	dir := filepath.Join(baseDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create run folder: %w", err)
	}
	return dir, nil
}

// FindLatestRun returns the most recent run folder for company, if any.
func FindLatestRun(baseDir, company string) (string, bool) {
	pattern := filepath.Join(baseDir, fmt.Sprintf("profile_%s_*", cleanName(company)))
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return "", false
	}
	latest := ""
	var latestMod time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.IsDir() {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = m
			latestMod = info.ModTime()
		}
	}
	return latest, latest != ""
}

func cleanName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteRune('_')
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
