package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// File names of the persisted streams.
const (
	WorkersFile     = "hr.workers.json"
	AssignmentsFile = "hr.assignments.json"
	HistoryFile     = "hr.history.json"
	CredentialsFile = "hr.credentials.json"
)

const streamVersion = "v1"

// Encode renders each stream as the versioned, indented JSON document written
// to disk, keyed by file name.
func Encode(r Roster) (map[string][]byte, error) {
	docs := []struct {
		file string
		key  string
		data any
	}{
		{WorkersFile, "workers", nonNil(r.Workers)},
		{AssignmentsFile, "assignments", nonNil(r.Assignments)},
		{HistoryFile, "history", nonNil(r.History)},
		{CredentialsFile, "credentials", nonNil(r.Credentials)},
	}
	out := make(map[string][]byte, len(docs))
	for _, d := range docs {
		// Field order is fixed: version first, then the stream.
		body, err := json.MarshalIndent(d.data, "  ", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", d.file, err)
		}
		doc := fmt.Sprintf("{\n  \"version\": %q,\n  %q: %s\n}\n", streamVersion, d.key, body)
		out[d.file] = []byte(doc)
	}
	return out, nil
}

// Write stores the four streams under dir, creating it if needed.
func Write(dir string, r Roster) error {
	docs, err := Encode(r)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create roster directory %s: %w", dir, err)
	}
	for _, name := range []string{WorkersFile, AssignmentsFile, HistoryFile, CredentialsFile} {
		if err := os.WriteFile(filepath.Join(dir, name), docs[name], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
