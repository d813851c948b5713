package platform

import (
	"slices"
	"sync"
	"testing"

	"github.com/matzehuels/unidep/pkg/errors"
)

func TestTableAll(t *testing.T) {
	want := []Platform{Linux64, LinuxAarch64, LinuxPPC64le, Osx64, OsxArm64, Win64}
	if got := Default().All(); !slices.Equal(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

func TestTablePlatforms(t *testing.T) {
	tests := []struct {
		sel  Selector
		want []Platform
	}{
		{"linux64", []Platform{Linux64}},
		{"aarch64", []Platform{LinuxAarch64}},
		{"arm64", []Platform{OsxArm64}},
		{"win", []Platform{Win64}},
		{"linux", []Platform{Linux64, LinuxAarch64, LinuxPPC64le}},
		{"osx", []Platform{Osx64, OsxArm64}},
		{"macos", []Platform{Osx64, OsxArm64}},
		{"unix", []Platform{Linux64, LinuxAarch64, LinuxPPC64le, Osx64, OsxArm64}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sel), func(t *testing.T) {
			got, err := Default().Platforms(tt.sel)
			if err != nil {
				t.Fatalf("Platforms(%q) error: %v", tt.sel, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Platforms(%q) = %v, want %v", tt.sel, got, tt.want)
			}
		})
	}
}

func TestTablePlatformsUnknown(t *testing.T) {
	_, err := Default().Platforms("foobar")
	if !errors.Is(err, errors.ErrCodeUnknownSelector) {
		t.Errorf("Platforms(foobar) error = %v, want %s", err, errors.ErrCodeUnknownSelector)
	}
}

func TestReverseMapIsInverse(t *testing.T) {
	tbl := Default()
	for _, p := range tbl.All() {
		for _, sel := range tbl.Selectors(p) {
			ps, err := tbl.Platforms(sel)
			if err != nil {
				t.Fatalf("Platforms(%q) error: %v", sel, err)
			}
			if !slices.Contains(ps, p) {
				t.Errorf("Platforms(%q) = %v, missing %s", sel, ps, p)
			}
		}
	}
	for _, sel := range tbl.Tokens() {
		ps, _ := tbl.Platforms(sel)
		if len(ps) == 0 {
			t.Errorf("selector %q maps to no platforms", sel)
		}
	}
}

func TestPrimarySelectorIsUnique(t *testing.T) {
	tbl := Default()
	for _, p := range tbl.All() {
		sel := tbl.PrimarySelector(p)
		ps, err := tbl.Platforms(sel)
		if err != nil {
			t.Fatalf("Platforms(%q) error: %v", sel, err)
		}
		if len(ps) != 1 || ps[0] != p {
			t.Errorf("PrimarySelector(%s) = %q denotes %v", p, sel, ps)
		}
	}
	if got := tbl.PrimarySelector("sunos-64"); got != "" {
		t.Errorf("PrimarySelector(sunos-64) = %q, want empty", got)
	}
}

func TestTableClass(t *testing.T) {
	tests := []struct {
		p    Platform
		want Class
	}{
		{Linux64, ClassLinux},
		{LinuxPPC64le, ClassLinux},
		{Osx64, ClassOsx},
		{OsxArm64, ClassOsx},
		{Win64, ClassWin},
	}
	for _, tt := range tests {
		if got := Default().Class(tt.p); got != tt.want {
			t.Errorf("Class(%s) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestTableMarker(t *testing.T) {
	tests := []struct {
		name string
		in   []Platform
		want string
	}{
		{"single", []Platform{Linux64}, "sys_platform == 'linux' and platform_machine == 'x86_64'"},
		{"windows", []Platform{Win64}, "sys_platform == 'win32' and platform_machine == 'AMD64'"},
		{"all linux", []Platform{LinuxPPC64le, Linux64, LinuxAarch64}, "sys_platform == 'linux'"},
		{"all osx", []Platform{OsxArm64, Osx64}, "sys_platform == 'darwin'"},
		{"unix", []Platform{Osx64, Linux64, LinuxAarch64, LinuxPPC64le, OsxArm64}, "sys_platform == 'linux' or sys_platform == 'darwin'"},
		{
			"mixed",
			[]Platform{Win64, Linux64},
			"sys_platform == 'linux' and platform_machine == 'x86_64' or sys_platform == 'win32' and platform_machine == 'AMD64'",
		},
		{"unknown skipped", []Platform{"sunos-64", OsxArm64}, "sys_platform == 'darwin' and platform_machine == 'arm64'"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Default().Marker(tt.in); got != tt.want {
				t.Errorf("Marker(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMarkerDoesNotReorderInput(t *testing.T) {
	in := []Platform{Win64, Linux64}
	Default().Marker(in)
	if in[0] != Win64 {
		t.Errorf("Marker reordered its input: %v", in)
	}
}

func TestTableValidate(t *testing.T) {
	if err := Default().Validate([]Platform{Linux64, Win64}); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
	err := Default().Validate([]Platform{Linux64, "linux-32"})
	if !errors.Is(err, errors.ErrCodeInvalidPlatform) {
		t.Errorf("Validate(linux-32) error = %v, want %s", err, errors.ErrCodeInvalidPlatform)
	}
	if Default().Valid(Wildcard) {
		t.Error("Valid(Wildcard) = true, want false")
	}
}

func TestWildcardString(t *testing.T) {
	if got := Wildcard.String(); got != "all platforms" {
		t.Errorf("Wildcard.String() = %q", got)
	}
	if got := Osx64.String(); got != "osx-64" {
		t.Errorf("Osx64.String() = %q", got)
	}
}

func TestTableConcurrentReads(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tbl := Default()
			for _, p := range tbl.All() {
				_ = tbl.Marker([]Platform{p})
				_, _ = tbl.Platforms(tbl.PrimarySelector(p))
			}
		}()
	}
	wg.Wait()
}
