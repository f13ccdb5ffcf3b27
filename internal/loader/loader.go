// Package loader parses a JSON task-definition document into validated
// Definition records and constructs executable tasks from them. Parsing is
// permissive per spec §4.6/§6: unknown fields are ignored, malformed fields
// are warned-and-defaulted, and invalid ids drop the whole definition.
//
// Field extraction uses github.com/tidwall/gjson rather than
// encoding/json + struct tags, so a single malformed field never fails the
// whole document the way a strict Unmarshal would.
package loader

import (
	"os"
	"sort"

	"github.com/Anujyadav911/TaskWeave/internal/task"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
)

// Definition is the loader's output shape: a task definition as read from
// JSON, before it is turned into an executable Task.
type Definition struct {
	ID         int
	Name       string
	Priority   string // LOW, MEDIUM, or HIGH after validation
	MaxRetries int
	Type       string
	Params     map[string]string
}

const (
	minID = 1
	maxID = 1<<31 - 2
)

// Loader parses task-definition documents and builds Tasks from them via a
// payload catalog.
type Loader struct {
	logger  *zap.Logger
	catalog *task.Catalog
}

// New constructs a Loader. logger may be nil.
func New(logger *zap.Logger, catalog *task.Catalog) *Loader {
	return &Loader{logger: logger, catalog: catalog}
}

func (l *Loader) warn(msg string, fields ...zap.Field) {
	if l.logger != nil {
		l.logger.Warn(msg, fields...)
	}
}

// LoadFile reads and parses a task-definition document from path.
func (l *Loader) LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.LoadString(string(data))
}

// LoadString parses a task-definition document from a JSON string. It
// never returns an error for malformed individual task entries — only for
// a document that isn't valid JSON at all, or that lacks a "tasks" array.
func (l *Loader) LoadString(jsonStr string) ([]Definition, error) {
	if !gjson.Valid(jsonStr) {
		return nil, errInvalidJSON
	}

	root := gjson.Parse(jsonStr)
	tasksField := root.Get("tasks")
	if !tasksField.Exists() || !tasksField.IsArray() {
		return nil, errMissingTasks
	}

	var defs []Definition
	for _, entry := range tasksField.Array() {
		def, ok := l.parseDefinition(entry)
		if ok {
			defs = append(defs, def)
		}
	}
	return defs, nil
}

func (l *Loader) parseDefinition(entry gjson.Result) (Definition, bool) {
	def := Definition{Priority: "MEDIUM"}

	idField := entry.Get("id")
	if idField.Type != gjson.Number {
		l.warn("task missing required id field or invalid type")
		return Definition{}, false
	}
	id := int(idField.Int())
	if id < minID || id > maxID {
		l.warn("invalid task id, dropping definition", zap.Int("id", id))
		return Definition{}, false
	}
	def.ID = id

	if nameField := entry.Get("name"); nameField.Type == gjson.String {
		def.Name = nameField.String()
	}

	if prioField := entry.Get("priority"); prioField.Type == gjson.String {
		p := prioField.String()
		if _, ok := task.ParsePriority(p); ok {
			def.Priority = p
		} else {
			l.warn("invalid priority, defaulting to MEDIUM", zap.String("priority", p))
			def.Priority = "MEDIUM"
		}
	}

	def.MaxRetries = l.parseMaxRetries(entry)

	if typeField := entry.Get("type"); typeField.Type == gjson.String {
		def.Type = typeField.String()
	}

	def.Params = l.parseParams(entry.Get("params"))

	return def, true
}

func (l *Loader) parseMaxRetries(entry gjson.Result) int {
	field := entry.Get("max_retries")
	if field.Type != gjson.Number {
		field = entry.Get("maxRetries")
	}
	if field.Type != gjson.Number {
		return 0
	}
	retries := int(field.Int())
	if retries < 0 || retries > 100 {
		l.warn("invalid max_retries, clamping to 0", zap.Int("max_retries", retries))
		return 0
	}
	return retries
}

func (l *Loader) parseParams(field gjson.Result) map[string]string {
	params := make(map[string]string)
	if !field.IsObject() {
		return params
	}
	field.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.String:
			params[key.String()] = value.String()
		case gjson.Number:
			params[key.String()] = value.Raw
		case gjson.True, gjson.False:
			params[key.String()] = value.Raw
		default:
			// non-scalar entries are ignored per the validation table
		}
		return true
	})
	return params
}

// BuildTask constructs an executable Task from a Definition via the
// loader's payload catalog.
func (l *Loader) BuildTask(def Definition) *task.Task {
	priority, _ := task.ParsePriority(def.Priority)
	payload := l.catalog.Build(def.Type, def.Name, def.Params)
	t := task.New(def.ID, priority, payload, def.MaxRetries)
	t.Name = def.Name
	return t
}

// ParamsJSON re-serializes a definition's params into a JSON object string,
// built incrementally with github.com/tidwall/sjson so the persistence
// collaborator can store the original param document without round-tripping
// it through a struct tag set.
func (d Definition) ParamsJSON() (string, error) {
	doc := "{}"
	keys := make([]string, 0, len(d.Params))
	for k := range d.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var err error
	for _, k := range keys {
		doc, err = sjson.Set(doc, k, d.Params[k])
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

type loaderError string

func (e loaderError) Error() string { return string(e) }

const (
	errInvalidJSON  loaderError = "invalid JSON document"
	errMissingTasks loaderError = "invalid JSON: 'tasks' key not found or not an array"
)
