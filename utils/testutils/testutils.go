package testutils

import (
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/velora-engine/velora/logger"
)

func AssertEqual(t *testing.T, got, exp interface{}) {
	t.Helper()
	if !reflect.DeepEqual(exp, got) {
		t.Fatalf("expected\n%v\n got \n%v", exp, got)
	}
}

// CapturedLogs accumulates the output of logger.WarningLogger during a test.
type CapturedLogs struct {
	buf *bytes.Buffer
	old io.Writer
}

// CaptureLogs redirects logger.WarningLogger until Restore (or one of the
// Assert helpers) is called.
func CaptureLogs() *CapturedLogs {
	c := CapturedLogs{buf: new(bytes.Buffer), old: logger.WarningLogger.Writer()}
	logger.WarningLogger.SetOutput(c.buf)
	return &c
}

func (c *CapturedLogs) Restore() { logger.WarningLogger.SetOutput(c.old) }

// Logs restores the logger and returns the captured lines.
func (c *CapturedLogs) Logs() []string {
	c.Restore()
	s := strings.TrimSuffix(c.buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (c *CapturedLogs) AssertNoLogs(t *testing.T) {
	t.Helper()
	if logs := c.Logs(); len(logs) != 0 {
		t.Fatalf("expected no logs, got (%d): \n %s", len(logs), strings.Join(logs, "\n"))
	}
}
