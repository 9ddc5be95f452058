package monitoring

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// nil installs a no-op; it must not panic
	SetLogger(nil)
	Logf("test message")
}

func TestStage(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	n := 0
	func() {
		defer Stage("neighbors", time.Now(), &n)
		n = 42
	}()
	Stage("empty", time.Now(), nil)

	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "[neighbors] 42 rows") {
		t.Errorf("unexpected stage line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "[empty] 0 rows") {
		t.Errorf("unexpected stage line %q", lines[1])
	}
}
