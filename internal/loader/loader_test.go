package loader

import (
	"testing"

	"github.com/Anujyadav911/TaskWeave/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader() *Loader {
	return New(nil, task.NewCatalog(nil))
}

func TestLoadStringRejectsMalformedJSON(t *testing.T) {
	l := newTestLoader()
	_, err := l.LoadString("{not json")
	assert.ErrorIs(t, err, errInvalidJSON)
}

func TestLoadStringRejectsMissingTasksArray(t *testing.T) {
	l := newTestLoader()
	_, err := l.LoadString(`{"foo": "bar"}`)
	assert.ErrorIs(t, err, errMissingTasks)
}

func TestLoadStringEmptyTasksArrayIsValid(t *testing.T) {
	l := newTestLoader()
	defs, err := l.LoadString(`{"tasks": []}`)
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestLoadStringDropsEntryWithoutID(t *testing.T) {
	l := newTestLoader()
	defs, err := l.LoadString(`{"tasks": [{"name": "no-id"}, {"id": 1, "name": "ok"}]}`)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, 1, defs[0].ID)
}

func TestLoadStringDropsOutOfRangeID(t *testing.T) {
	l := newTestLoader()
	defs, err := l.LoadString(`{"tasks": [{"id": 0}, {"id": -1}, {"id": 2147483647}, {"id": 5}]}`)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, 5, defs[0].ID)
}

func TestLoadStringDefaultsInvalidPriorityToMedium(t *testing.T) {
	l := newTestLoader()
	defs, err := l.LoadString(`{"tasks": [{"id": 1, "priority": "URGENT"}]}`)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "MEDIUM", defs[0].Priority)
}

func TestLoadStringClampsOutOfRangeMaxRetries(t *testing.T) {
	l := newTestLoader()
	defs, err := l.LoadString(`{"tasks": [{"id": 1, "max_retries": 500}, {"id": 2, "max_retries": -3}]}`)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, 0, defs[0].MaxRetries)
	assert.Equal(t, 0, defs[1].MaxRetries)
}

func TestLoadStringIgnoresNonScalarParams(t *testing.T) {
	l := newTestLoader()
	defs, err := l.LoadString(`{"tasks": [{"id": 1, "params": {"msg": "hi", "nested": {"a": 1}, "count": 3}}]}`)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "hi", defs[0].Params["msg"])
	assert.Equal(t, "3", defs[0].Params["count"])
	_, hasNested := defs[0].Params["nested"]
	assert.False(t, hasNested)
}

func TestBuildTaskWiresPriorityAndPayload(t *testing.T) {
	l := newTestLoader()
	def := Definition{ID: 7, Name: "demo", Priority: "HIGH", MaxRetries: 1, Type: "print", Params: map[string]string{"message": "hi"}}
	tk := l.BuildTask(def)

	assert.Equal(t, 7, tk.ID)
	assert.Equal(t, task.High, tk.Priority)
	assert.Equal(t, 1, tk.MaxRetries)
}

func TestParamsJSONRoundTripsScalarParams(t *testing.T) {
	def := Definition{ID: 1, Params: map[string]string{"a": "1", "b": "two"}}
	doc, err := def.ParamsJSON()
	require.NoError(t, err)
	assert.Contains(t, doc, `"a":"1"`)
	assert.Contains(t, doc, `"b":"two"`)
}
