package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogBuildUnknownTypeFallsBackToDefault(t *testing.T) {
	c := NewCatalog(nil)
	p := c.Build("no-such-type", "whatever", nil)
	assert.NoError(t, p.Execute())
}

func TestCatalogSleepPayloadParsesDuration(t *testing.T) {
	c := NewCatalog(nil)
	p := c.Build("sleep", "nap", map[string]string{"duration_ms": "1"})
	assert.NoError(t, p.Execute())
}

func TestCatalogRegisterOverridesConstructor(t *testing.T) {
	c := NewCatalog(nil)
	called := false
	c.Register("custom", func(name string, params map[string]string) Payload {
		return PayloadFunc(func() error {
			called = true
			return nil
		})
	})
	p := c.Build("custom", "x", nil)
	assert.NoError(t, p.Execute())
	assert.True(t, called)
}
