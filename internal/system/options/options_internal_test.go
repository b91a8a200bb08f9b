// Released under an MIT license. See LICENSE.

package options

import (
	"testing"
)

func TestParseScript(t *testing.T) {
	parse([]string{"fixture.sylva", "a", "b"})

	if Script() != "fixture.sylva" {
		t.Errorf("script is %q", Script())
	}

	if Command() != "" {
		t.Errorf("command is %q", Command())
	}

	want := []string{"fixture.sylva", "a", "b"}
	got := Args()

	if len(got) != len(want) {
		t.Fatalf("args are %v", got)
	}

	for i, a := range want {
		if got[i] != a {
			t.Errorf("arg %d is %q, expected %q", i, got[i], a)
		}
	}
}

func TestParseCommand(t *testing.T) {
	parse([]string{"-c", "(+ 1 2)", "prog"})

	if Command() != "(+ 1 2)" {
		t.Errorf("command is %q", Command())
	}

	if Args()[0] != "prog" {
		t.Errorf("$0 is %q", Args()[0])
	}

	if Interactive() {
		t.Error("a -c invocation reported as interactive")
	}
}

func TestVersionIsReported(t *testing.T) {
	// docopt handles --version only when given a version string.
	if version == "" {
		t.Error("no version string is wired to the --version flag")
	}
}
