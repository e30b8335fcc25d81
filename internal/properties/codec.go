package properties

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
)

// Entry is one key=value line of a settings file.
type Entry struct {
	Key   string
	Value string
}

// Parse reads settings content into entries, preserving file order.
// Comments and blank lines are skipped; repeated keys are returned as they appear.
func Parse(content string) ([]Entry, error) {
	var entries []Entry
	if content == "" {
		return entries, nil
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		key, value, ok, err := parseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf(messages.PropertiesLineErrorFmt, lineNo, err)
		}
		if !ok {
			continue
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf(messages.PropertiesReadFailedFmt, err)
	}
	return entries, nil
}

// Format renders entries as newline-terminated key=value lines.
func Format(entries []Entry) string {
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(entry.Key)
		b.WriteByte('=')
		b.WriteString(entry.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

// Patch merges updates into content. The first line for each updated key is
// rewritten in place, keys not yet present are appended, and any later lines
// for an updated key are dropped. When an update names the same key twice,
// the last value wins.
func Patch(content string, updates []Entry) string {
	if len(updates) == 0 {
		return content
	}

	var lines []string
	if content != "" {
		lines = strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	}

	firstIndex := make(map[string]int)
	for i, line := range lines {
		key, _, ok, err := parseLine(line)
		if err != nil || !ok {
			continue
		}
		if _, exists := firstIndex[key]; !exists {
			firstIndex[key] = i
		}
	}

	updatedKeys := make(map[string]bool)
	for _, entry := range updates {
		line := entry.Key + "=" + entry.Value
		if idx, ok := firstIndex[entry.Key]; ok {
			lines[idx] = line
		} else {
			lines = append(lines, line)
			firstIndex[entry.Key] = len(lines) - 1
		}
		updatedKeys[entry.Key] = true
	}

	filtered := make([]string, 0, len(lines))
	for i, line := range lines {
		key, _, ok, err := parseLine(line)
		if err == nil && ok && updatedKeys[key] && firstIndex[key] != i {
			continue
		}
		filtered = append(filtered, line)
	}
	return strings.Join(filtered, "\n") + "\n"
}

// Lookup returns the last value recorded for key.
func Lookup(entries []Entry, key string) (string, bool) {
	value, found := "", false
	for _, entry := range entries {
		if entry.Key == key {
			value, found = entry.Value, true
		}
	}
	return value, found
}

// parseLine parses a single settings line and returns key/value when present.
func parseLine(line string) (string, string, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "!") {
		return "", "", false, nil
	}
	idx := strings.Index(trimmed, "=")
	if idx <= 0 {
		return "", "", false, errors.New(messages.PropertiesExpectedKeyValue)
	}
	key := strings.TrimSpace(trimmed[:idx])
	if key == "" {
		return "", "", false, errors.New(messages.PropertiesExpectedKeyValue)
	}
	return key, strings.TrimSpace(trimmed[idx+1:]), true, nil
}
