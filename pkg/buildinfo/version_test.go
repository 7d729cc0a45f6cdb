package buildinfo

import "testing"

func TestString(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)

	tests := []struct {
		commit string
		want   string
	}{
		{"none", "v1.0.0 (none, 2026-01-02)"},
		{"0123456789abcdef0123", "v1.0.0 (0123456789ab, 2026-01-02)"},
	}
	for _, tt := range tests {
		Version, Commit, Date = "v1.0.0", tt.commit, "2026-01-02"
		if got := String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
