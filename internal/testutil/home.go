// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the platform home variable at dir and returns a cleanup
// function restoring the original value. Windows uses USERPROFILE, everything
// else uses HOME.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
//	}
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "USERPROFILE", dir)
	default:
		return MustSetenv(t, "HOME", dir)
	}
}

// IsolateUserDirs redirects every per-user location the launcher reads
// (home, XDG data/config, Windows app data) into dir so a test never sees the
// developer's real scripts or configuration.
func IsolateUserDirs(t testing.TB, dir string) {
	t.Helper()
	t.Cleanup(SetHomeDir(t, dir))
	t.Cleanup(MustSetenv(t, "XDG_DATA_HOME", dir+"/.local/share"))
	t.Cleanup(MustSetenv(t, "XDG_CONFIG_HOME", dir+"/.config"))
	if runtime.GOOS == "windows" {
		t.Cleanup(MustSetenv(t, "LOCALAPPDATA", dir))
		t.Cleanup(MustSetenv(t, "APPDATA", dir))
	}
}
