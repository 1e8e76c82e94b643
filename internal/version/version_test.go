package version

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Version
	}{
		{
			name:  "simple version",
			input: "0.8.2",
			want:  &Version{Release: []int{0, 8, 2}},
		},
		{
			name:  "version with v prefix",
			input: "v0.8.2",
			want:  &Version{Release: []int{0, 8, 2}},
		},
		{
			name:  "version with prerelease",
			input: "1.0.0-rc.1",
			want:  &Version{Release: []int{1, 0, 0}, Prerelease: "rc.1"},
		},
		{
			name:  "two segment version",
			input: "1.0",
			want:  &Version{Release: []int{1, 0}},
		},
		{
			name:  "build metadata dropped",
			input: "1.2.3+build5",
			want:  &Version{Release: []int{1, 2, 3}},
		},
		{
			name:  "surrounding whitespace",
			input: "  v1.2.3 ",
			want:  &Version{Release: []int{1, 2, 3}},
		},
		{
			name:  "garbage segment degrades to zero",
			input: "1.x.3",
			want:  &Version{Release: []int{1, 0, 3}},
		},
		{
			name:  "empty string",
			input: "",
			want:  &Version{Release: []int{0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got.String() != tt.want.String() {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
			if len(got.Release) != len(tt.want.Release) {
				t.Errorf("Parse() release segments = %d, want %d", len(got.Release), len(tt.want.Release))
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"equal versions", "1.0.0", "1.0.0", 0},
		{"equal with v prefix", "v1.0.0", "1.0.0", 0},
		{"missing segments are zero", "1.0", "1.0.0", 0},
		{"major difference", "2.0.0", "1.9.9", 1},
		{"minor difference", "1.2.0", "1.10.0", -1},
		{"patch difference", "1.0.10", "1.0.2", 1},
		{"stable beats prerelease", "1.0.0", "1.0.0-beta", 1},
		{"prerelease below stable", "1.0.0-rc.1", "1.0.0", -1},
		{"alpha before beta", "1.0.0-alpha", "1.0.0-beta", -1},
		{"longer prerelease wins", "1.0.0-alpha.1", "1.0.0-alpha", 1},
		{"numeric prerelease compares as int", "1.0.0-rc.10", "1.0.0-rc.2", 1},
		{"numeric below alphanumeric", "1.0.0-1", "1.0.0-alpha", -1},
		{"build metadata ignored", "1.0.0+build1", "1.0.0+build2", 0},
		{"garbage degrades", "not-a-version", "0.0.0", -1},
		{"both garbage", "junk", "junk", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompareAntisymmetry(t *testing.T) {
	versions := []string{
		"0.0.1", "1.0", "1.0.0", "1.0.0-alpha", "1.0.0-alpha.1",
		"1.0.0-beta", "1.0.0-rc.1", "1.0.2", "1.0.10", "2.0.0",
		"v2.0.0", "garbage", "",
	}

	for _, a := range versions {
		for _, b := range versions {
			if got, want := Compare(a, b), -Compare(b, a); got != want {
				t.Errorf("Compare(%q, %q) = %d, but -Compare(%q, %q) = %d", a, b, got, b, a, want)
			}
		}
		if Compare(a, a) != 0 {
			t.Errorf("Compare(%q, %q) != 0", a, a)
		}
	}
}

func TestCompareTotalOrder(t *testing.T) {
	// Each entry is strictly newer than the one before it.
	ordered := []string{
		"0.9.0",
		"1.0.0-1",
		"1.0.0-alpha",
		"1.0.0-alpha.1",
		"1.0.0-beta",
		"1.0.0",
		"1.0.2",
		"1.0.10",
		"1.1.0",
	}

	for i := 1; i < len(ordered); i++ {
		if Compare(ordered[i], ordered[i-1]) != 1 {
			t.Errorf("Compare(%q, %q) = %d, want 1", ordered[i], ordered[i-1], Compare(ordered[i], ordered[i-1]))
		}
	}
}

func TestIsNewer(t *testing.T) {
	if !IsNewer("1.1.0", "1.0.0") {
		t.Error("IsNewer(1.1.0, 1.0.0) should be true")
	}
	if IsNewer("1.0.0", "1.0.0") {
		t.Error("IsNewer(1.0.0, 1.0.0) should be false")
	}
}

func TestAtLeast(t *testing.T) {
	tests := []struct {
		name string
		v    string
		min  string
		want bool
	}{
		{"above minimum", "14.2", "12.0", true},
		{"equal to minimum", "12.0", "12.0", true},
		{"below minimum", "11.4", "12.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AtLeast(tt.v, tt.min); got != tt.want {
				t.Errorf("AtLeast(%q, %q) = %v, want %v", tt.v, tt.min, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"v1.2.3", "1.2.3"},
		{"1.2.3", "1.2.3"},
		{" v1.2.3", "1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
