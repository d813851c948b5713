package resolve

import (
	"strings"
	"testing"

	"github.com/matzehuels/unidep/pkg/deps"
	"github.com/matzehuels/unidep/pkg/platform"
)

func TestEntryExpandLeavesLoneWildcard(t *testing.T) {
	e := Entry{platform.Wildcard: {deps.Conda: spec("numpy", deps.Conda, "")}}
	e.Expand(platform.Default().All(), false)
	if len(e) != 1 {
		t.Errorf("len(entry) = %d, want 1", len(e))
	}
}

func TestEntryExpandDoesNotOverwrite(t *testing.T) {
	e := Entry{
		platform.Wildcard: {deps.Pip: spec("numpy", deps.Pip, "")},
		platform.Osx64:    {deps.Pip: spec("numpy", deps.Pip, "<2")},
	}
	e.Expand([]platform.Platform{platform.Linux64, platform.Osx64}, true)
	if got := e[platform.Osx64][deps.Pip].Pin; got != "<2" {
		t.Errorf("osx-64 pin = %q, want <2", got)
	}
	if _, ok := e[platform.Linux64]; !ok {
		t.Error("linux-64 not filled from wildcard")
	}
	if len(e) != 2 {
		t.Errorf("len(entry) = %d, want 2", len(e))
	}
}

func TestEntryExpandCopiesMaps(t *testing.T) {
	e := Entry{
		platform.Wildcard: {deps.Conda: spec("numpy", deps.Conda, "")},
		platform.Win64:    {deps.Conda: spec("numpy", deps.Conda, "")},
	}
	e.Expand([]platform.Platform{platform.Linux64, platform.Osx64, platform.Win64}, false)
	delete(e[platform.Linux64], deps.Conda)
	if _, ok := e[platform.Osx64][deps.Conda]; !ok {
		t.Error("expanded platforms share one ecosystem map")
	}
}

func TestCollapseIdenticalClass(t *testing.T) {
	s := spec("scipy", deps.Conda, ">=1.2.3")
	var c Collector
	got := Collapse("scipy", map[platform.Platform]deps.Spec{
		platform.Linux64:      s,
		platform.LinuxAarch64: s,
	}, nil, &c)
	if len(got) != 1 {
		t.Fatalf("len(Collapse()) = %d, want 1", len(got))
	}
	if _, ok := got[platform.Linux64]; !ok {
		t.Errorf("representative = %v, want linux-64", got)
	}
	if len(c.Warnings()) != 0 {
		t.Errorf("warnings = %v, want none", c.Warnings())
	}
}

func TestCollapseConflictingClass(t *testing.T) {
	var c Collector
	got := Collapse("cuda", map[platform.Platform]deps.Spec{
		platform.Linux64:      spec("cuda", deps.Conda, "=12"),
		platform.LinuxAarch64: spec("cuda", deps.Conda, "=11"),
		platform.LinuxPPC64le: spec("cuda", deps.Conda, "=12"),
		platform.OsxArm64:     spec("cuda", deps.Conda, ""),
	}, platform.Default(), &c)

	if len(got) != 2 {
		t.Fatalf("len(Collapse()) = %d, want 2", len(got))
	}
	if pin := got[platform.Linux64].Pin; pin != "=12" {
		t.Errorf("kept linux pin = %q, want =12", pin)
	}
	ws := c.Warnings()
	if len(ws) != 1 {
		t.Fatalf("warnings = %d, want 1", len(ws))
	}
	w := ws[0]
	if w.Kind != CoarsePlatformConflict || w.Class != platform.ClassLinux {
		t.Errorf("warning = %s on %s", w.Kind, w.Class)
	}
	if len(w.Discarded) != 1 || w.Discarded[0].Pin != "=11" {
		t.Errorf("discarded = %v, want the =11 spec once", w.Discarded)
	}
	if !strings.Contains(w.Message(), "'linux'") {
		t.Errorf("Message() = %q, missing class", w.Message())
	}
}

func TestCollapseBoundedByClasses(t *testing.T) {
	in := make(map[platform.Platform]deps.Spec)
	for i, p := range platform.Default().All() {
		in[p] = spec("x", deps.Conda, strings.Repeat("=", i+1)+"1")
	}
	got := Collapse("x", in, nil, nil)
	if len(got) != 3 {
		t.Errorf("len(Collapse()) = %d, want one per class (3)", len(got))
	}
}

func TestWarningMessages(t *testing.T) {
	tests := []struct {
		w    Warning
		want []string
	}{
		{
			Warning{
				Kind:      PlatformConflict,
				Package:   "numpy",
				Platform:  platform.Wildcard,
				Kept:      []deps.Spec{spec("numpy", deps.Conda, ">=2")},
				Discarded: []deps.Spec{spec("numpy", deps.Conda, ">=1")},
			},
			[]string{"all platforms", "'numpy >=2' (conda)", "'numpy >=1' (conda)"},
		},
		{
			Warning{
				Kind:     PinConflict,
				Package:  "pandas",
				Platform: platform.Linux64,
				Kept:     []deps.Spec{spec("pandas", deps.Conda, ">=1.1.0"), spec("pandas", deps.Pip, "<2.0")},
			},
			[]string{"'pandas'", "conda '>=1.1.0'", "pip '<2.0'", "both are retained"},
		},
	}
	for _, tt := range tests {
		msg := tt.w.Message()
		for _, sub := range tt.want {
			if !strings.Contains(msg, sub) {
				t.Errorf("%s Message() = %q, missing %q", tt.w.Kind, msg, sub)
			}
		}
	}
}

func TestObserverFunc(t *testing.T) {
	var got []Kind
	obs := ObserverFunc(func(w Warning) { got = append(got, w.Kind) })
	_, err := Resolve([]deps.Spec{
		spec("pandas", deps.Conda, ">=1"),
		spec("pandas", deps.Pip, "<2"),
	}, Options{Observer: obs})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(got) != 1 || got[0] != PinConflict {
		t.Errorf("observed = %v, want [%s]", got, PinConflict)
	}
}
