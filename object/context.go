package object

import (
	"fmt"
	"log"

	"github.com/bodgit/rctobj/imagetable"
)

// Diagnostic is a single problem found while reading an object.
type Diagnostic struct {
	Code  imagetable.ErrorCode
	Text  string
	Fatal bool
}

func (d Diagnostic) String() string {
	level := "warning"
	if d.Fatal {
		level = "error"
	}
	return fmt.Sprintf("%s: %s (%s)", level, d.Text, d.Code)
}

// readContext collects the diagnostics for one object and echoes them to
// the logger.
type readContext struct {
	identifier  string
	logger      *log.Logger
	diagnostics []Diagnostic
	wasError    bool
	wasWarning  bool
}

func newReadContext(identifier string, logger *log.Logger) *readContext {
	return &readContext{
		identifier: identifier,
		logger:     logger,
	}
}

func (c *readContext) log(d Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
	if c.logger != nil {
		c.logger.Printf("[%s] %s\n", c.identifier, d)
	}
}

func (c *readContext) LogWarning(code imagetable.ErrorCode, text string) {
	c.wasWarning = true
	c.log(Diagnostic{Code: code, Text: text})
}

func (c *readContext) LogError(code imagetable.ErrorCode, text string) {
	c.wasError = true
	c.log(Diagnostic{Code: code, Text: text, Fatal: true})
}

func (c *readContext) WasError() bool {
	return c.wasError
}

func (c *readContext) WasWarning() bool {
	return c.wasWarning
}
