package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Logf("polled port %d", 8090)
	if got != "polled port 8090" {
		t.Errorf("custom logger got %q", got)
	}

	// nil installs a no-op
	got = ""
	SetLogger(nil)
	Logf("ignored")
	if got != "" {
		t.Errorf("no-op logger forwarded %q", got)
	}
}

func TestSetVerbose(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(string, ...interface{}) { called = true })
	SetVerbose(false)
	Logf("muted")
	if called {
		t.Error("SetVerbose(false) should mute the previous logger")
	}

	SetVerbose(true)
	if Logf == nil {
		t.Fatal("Logf is nil after SetVerbose(true)")
	}
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()
	Logf("verbose message: %s", "value")
}
