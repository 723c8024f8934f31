// Package snapshot persists the application state as a single versioned JSON
// document, replaced atomically on every save.
package snapshot

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"taskpad/internal/note"
	"taskpad/internal/task"
)

// SchemaVersion is the current on-disk format version.
const SchemaVersion = 1

//go:embed schema.json
var schemaJSON string

// Snapshot is the durable form of the whole application state.
type Snapshot struct {
	SchemaVersion int         `json:"schema_version"`
	NextTaskID    uint64      `json:"next_task_id"`
	NextNoteID    uint64      `json:"next_note_id"`
	Tasks         []task.Task `json:"tasks"`
	Notes         []note.Note `json:"notes"`
}

// Empty returns the snapshot of a first run: no records, counters at 1.
func Empty() *Snapshot {
	return &Snapshot{
		SchemaVersion: SchemaVersion,
		NextTaskID:    1,
		NextNoteID:    1,
		Tasks:         []task.Task{},
		Notes:         []note.Note{},
	}
}

// PersistenceError wraps a failed load or save with the file it touched.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource("snapshot.schema.json", strings.NewReader(schemaJSON)); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = compiler.Compile("snapshot.schema.json")
	})
	return compiledSchema, compileErr
}

// validate checks raw snapshot bytes against the embedded JSON Schema,
// falling back to minimal structural checks if the schema cannot be compiled.
func validate(data []byte) error {
	schema, err := compiled()
	if err != nil {
		var s Snapshot
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return validateMinimal(&s)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return firstSchemaError(err)
	}
	return nil
}

// validateMinimal performs the structural checks without JSON Schema.
func validateMinimal(s *Snapshot) error {
	if s.Tasks == nil {
		return fmt.Errorf("tasks: missing required field")
	}
	if s.Notes == nil {
		return fmt.Errorf("notes: missing required field")
	}
	if s.NextTaskID == 0 || s.NextNoteID == 0 {
		return fmt.Errorf("id counters must be at least 1")
	}
	for i, t := range s.Tasks {
		if t.ID == 0 {
			return fmt.Errorf("tasks[%d].id: missing required field", i)
		}
		if t.Text == "" {
			return fmt.Errorf("tasks[%d].text: missing required field", i)
		}
	}
	for i, n := range s.Notes {
		if n.ID == 0 {
			return fmt.Errorf("notes[%d].id: missing required field", i)
		}
		if n.Title == "" {
			return fmt.Errorf("notes[%d].title: missing required field", i)
		}
	}
	return nil
}

// firstSchemaError flattens a jsonschema validation tree to its most
// specific cause so the log line points at the offending location.
func firstSchemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := strings.TrimPrefix(ve.InstanceLocation, "#")
	loc = strings.Trim(loc, "/")
	if loc == "" {
		return fmt.Errorf("%s", ve.Message)
	}
	return fmt.Errorf("%s: %s", strings.ReplaceAll(loc, "/", "."), ve.Message)
}

// checkVersion rejects snapshots written by a newer, unknown format.
func checkVersion(s *Snapshot) error {
	if s.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported schema_version %d, expected %d", s.SchemaVersion, SchemaVersion)
	}
	return nil
}

// normalize fills nil record slices so the marshaled document always carries
// arrays, matching the schema.
func (s *Snapshot) normalize() {
	if s.Tasks == nil {
		s.Tasks = []task.Task{}
	}
	if s.Notes == nil {
		s.Notes = []note.Note{}
	}
}
