package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet_Defaults(t *testing.T) {
	info := Get()

	if info.Version == "" || info.Commit == "" || info.BuildTime == "" {
		t.Errorf("Get() has empty fields: %+v", info)
	}
	if GoVersion == "" && info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want runtime fallback %q", info.GoVersion, runtime.Version())
	}
}

func TestGet_Injected(t *testing.T) {
	saved := []string{Version, Commit, GoVersion}
	defer func() { Version, Commit, GoVersion = saved[0], saved[1], saved[2] }()

	Version, Commit, GoVersion = "v1.2.3", "abc123", "go1.24.4"
	info := Get()
	if info.Version != "v1.2.3" || info.Commit != "abc123" || info.GoVersion != "go1.24.4" {
		t.Errorf("Get() = %+v", info)
	}
	if !strings.HasPrefix(String(), "v1.2.3 (abc123) built at ") {
		t.Errorf("String() = %q", String())
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent("portal-cli"); got != "portal-cli/"+Version {
		t.Errorf("UserAgent() = %q", got)
	}
}
