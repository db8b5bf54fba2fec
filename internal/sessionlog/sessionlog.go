// Package sessionlog allocates per-session log files under the project
// directory, writes timestamped entries, and applies retention. Ported
// from original_source/src-tauri/src/engine/logs.rs.
package sessionlog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Manager owns one session's log file for the duration of an engine run.
type Manager struct {
	projectID string
	logsDir   string
	file      *os.File
	writer    *bufio.Writer
	logPath   string
}

// NewManager returns a Manager rooted at logsDir for projectID. Call
// StartSession to create the log file.
func NewManager(projectID, logsDir string) *Manager {
	return &Manager{projectID: projectID, logsDir: logsDir}
}

// StartSession ensures logsDir exists and creates a new timestamped log
// file with a three-line header.
func (m *Manager) StartSession() error {
	if err := os.MkdirAll(m.logsDir, 0o755); err != nil {
		return fmt.Errorf("creating logs directory: %w", err)
	}

	now := time.Now().UTC()
	filename := now.Format("2006-01-02T15-04-05") + ".log"
	path := filepath.Join(m.logsDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating session log: %w", err)
	}

	m.file = f
	m.writer = bufio.NewWriter(f)
	m.logPath = path

	header := fmt.Sprintf("# ralphloop execution log\n# Started: %s\n# Project ID: %s\n\n",
		now.Format(time.RFC3339), m.projectID)
	if _, err := m.writer.WriteString(header); err != nil {
		return fmt.Errorf("writing session header: %w", err)
	}
	return m.writer.Flush()
}

// WriteEntry writes one redacted log line: "[#<iter>] HH:MM:SS [OUT|ERR] <content>".
func (m *Manager) WriteEntry(iteration int, content string, isStderr bool) error {
	if m.writer == nil {
		return nil
	}
	stream := "OUT"
	if isStderr {
		stream = "ERR"
	}
	clean := Sanitize(content)
	line := fmt.Sprintf("[#%d] %s [%s] %s\n", iteration, time.Now().Format("15:04:05"), stream, clean)
	if _, err := m.writer.WriteString(line); err != nil {
		return err
	}
	return m.writer.Flush()
}

// EndSession writes a footer with the final status and closes the file.
func (m *Manager) EndSession(status string) error {
	if m.writer == nil {
		return nil
	}
	footer := fmt.Sprintf("\n# Ended: %s\n# Status: %s\n", time.Now().UTC().Format(time.RFC3339), status)
	if _, err := m.writer.WriteString(footer); err != nil {
		m.file.Close()
		return err
	}
	if err := m.writer.Flush(); err != nil {
		m.file.Close()
		return err
	}
	return m.file.Close()
}

// LogPath returns the path of the current session's log file.
func (m *Manager) LogPath() string {
	return m.logPath
}

// CleanupOldLogs deletes log files under logsDir whose modification
// time is older than retentionDays, returning the number deleted.
func CleanupOldLogs(logsDir string, retentionDays int) (int, error) {
	entries, err := os.ReadDir(logsDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading logs directory: %w", err)
	}

	cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	deleted := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".log") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(logsDir, e.Name())); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}

// CleanupAllLogs iterates every project's logs directory under
// projectsRoot (each a UUID-named directory) and applies CleanupOldLogs,
// summing the deleted count. Non-UUID entries are skipped.
func CleanupAllLogs(projectsRoot string, retentionDays int, isProjectDir func(name string) bool) (int, error) {
	entries, err := os.ReadDir(projectsRoot)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading projects directory: %w", err)
	}

	total := 0
	for _, e := range entries {
		if !e.IsDir() || !isProjectDir(e.Name()) {
			continue
		}
		n, err := CleanupOldLogs(filepath.Join(projectsRoot, e.Name(), "logs"), retentionDays)
		if err != nil {
			continue
		}
		total += n
	}
	return total, nil
}
