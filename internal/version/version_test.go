// SPDX-License-Identifier: MIT
package version

import "testing"

func TestString(t *testing.T) {
	old := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = old[0], old[1], old[2] })

	Version, Commit, Date = "v1.2.3", "abc1234", "2025-01-02"
	if got, want := String(), "v1.2.3 (commit: abc1234, built: 2025-01-02)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
