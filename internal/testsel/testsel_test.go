package testsel

import (
	"reflect"
	"testing"

	"github.com/arjun-kestrel/pydep/internal/globset"
)

func TestIsTestFileMatchesPrefixAndSuffix(t *testing.T) {
	cases := map[string]bool{
		"tests/test_app.py": true,
		"tests/app_test.py": true,
		"pkg/app.py":        false,
		"test_app.py":       true,
	}
	for path, want := range cases {
		if got := IsTestFile(path); got != want {
			t.Errorf("IsTestFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestSelectPartitionsImpactedAlwaysRunAndIgnored(t *testing.T) {
	impacted := map[string]struct{}{
		"tests/test_app.py":   {},
		"tests/test_flaky.py": {},
		"pkg/module.py":       {}, // not a test file, excluded regardless
	}
	workspace := []string{
		"tests/test_app.py",
		"tests/test_flaky.py",
		"tests/test_smoke.py",
		"pkg/module.py",
	}

	ignoreGlob, err := globset.New([]string{"tests/test_flaky.py"})
	if err != nil {
		t.Fatal(err)
	}
	alwaysRunGlob, err := globset.New([]string{"tests/test_smoke.py"})
	if err != nil {
		t.Fatal(err)
	}

	got := Select(impacted, workspace, ignoreGlob, alwaysRunGlob)

	if want := []string{"tests/test_app.py"}; !reflect.DeepEqual(got.Impacted, want) {
		t.Errorf("Impacted = %v, want %v", got.Impacted, want)
	}
	if want := []string{"tests/test_smoke.py"}; !reflect.DeepEqual(got.AlwaysRun, want) {
		t.Errorf("AlwaysRun = %v, want %v", got.AlwaysRun, want)
	}
	if want := []string{"tests/test_flaky.py"}; !reflect.DeepEqual(got.Ignored, want) {
		t.Errorf("Ignored = %v, want %v", got.Ignored, want)
	}
}

func TestSelectWithNilGlobsMatchesNothing(t *testing.T) {
	impacted := map[string]struct{}{"tests/test_app.py": {}}
	workspace := []string{"tests/test_app.py"}

	got := Select(impacted, workspace, nil, nil)
	if want := []string{"tests/test_app.py"}; !reflect.DeepEqual(got.Impacted, want) {
		t.Errorf("Impacted = %v, want %v", got.Impacted, want)
	}
	if len(got.AlwaysRun) != 0 {
		t.Errorf("AlwaysRun = %v, want empty with nil glob", got.AlwaysRun)
	}
	if len(got.Ignored) != 0 {
		t.Errorf("Ignored = %v, want empty with nil glob", got.Ignored)
	}
}
