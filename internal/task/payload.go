package task

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Catalog maps a definition's "type" string to a constructor that builds a
// Payload from its params. Unknown types fall back to the default no-op
// print payload, per the validation table.
type Catalog struct {
	logger       *zap.Logger
	constructors map[string]func(name string, params map[string]string) Payload
}

// NewCatalog builds the built-in sleep/print payload catalog. logger may be
// nil, in which case the print payload writes to stdout without logging.
func NewCatalog(logger *zap.Logger) *Catalog {
	c := &Catalog{
		logger:       logger,
		constructors: make(map[string]func(string, map[string]string) Payload),
	}
	c.Register("sleep", c.newSleepPayload)
	c.Register("print", c.newPrintPayload)
	return c
}

// Register installs or replaces the constructor for a payload type,
// supporting pluggable catalogs beyond the illustrative built-ins.
func (c *Catalog) Register(typeName string, ctor func(name string, params map[string]string) Payload) {
	c.constructors[typeName] = ctor
}

// Build constructs a Payload for the given type/name/params, falling back
// to the default no-op print payload for unknown types.
func (c *Catalog) Build(typeName, name string, params map[string]string) Payload {
	if ctor, ok := c.constructors[typeName]; ok {
		return ctor(name, params)
	}
	return c.newDefaultPayload(name)
}

func (c *Catalog) newSleepPayload(_ string, params map[string]string) Payload {
	duration := 100 * time.Millisecond
	if v, ok := params["duration_ms"]; ok {
		if ms, err := strconv.Atoi(v); err == nil {
			duration = time.Duration(ms) * time.Millisecond
		}
	}
	return PayloadFunc(func() error {
		time.Sleep(duration)
		return nil
	})
}

func (c *Catalog) newPrintPayload(name string, params map[string]string) Payload {
	message := name
	if v, ok := params["message"]; ok {
		message = v
	}
	return PayloadFunc(func() error {
		if c.logger != nil {
			c.logger.Info("task payload", zap.String("message", message))
		} else {
			fmt.Println("[Task]", message)
		}
		return nil
	})
}

func (c *Catalog) newDefaultPayload(name string) Payload {
	return PayloadFunc(func() error {
		if c.logger != nil {
			c.logger.Info("task payload", zap.String("message", "Executing: "+name))
		} else {
			fmt.Println("[Task] Executing:", name)
		}
		return nil
	})
}
