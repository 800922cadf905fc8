package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestVersion(t *testing.T) {
	if version == "" {
		t.Error("version should not be empty")
	}
}

func TestFlagsExist(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)

	expectedFlags := []string{"dparse", "interactive", "verbose", "prompt", "config", "op"}
	for _, flagName := range expectedFlags {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			t.Errorf("expected flag --%s to exist", flagName)
		}
	}
}

// execute runs the root command with the given stdin and arguments
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestStdinSummary(t *testing.T) {
	_, errOut, err := execute(t, "def f(x) x; f(1)")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(errOut, "parsed 2 items from <stdin>") {
		t.Errorf("expected a summary line, got %q", errOut)
	}
}

func TestDashReadsStdin(t *testing.T) {
	out, _, err := execute(t, "1 + 2", "--dparse", "-")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "(1 + 2);\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestDParseFlag(t *testing.T) {
	testFile := writeFile(t, "test.toy", "def main() 0")

	out, _, err := execute(t, "", "--dparse", testFile)
	if err != nil {
		t.Errorf("expected no error for -dparse, got %v", err)
	}
	if !strings.Contains(out, "def main() 0;") {
		t.Errorf("expected output to contain 'def main() 0;', got %q", out)
	}
}

func TestDParseFlagMultipleDefinitions(t *testing.T) {
	testFile := writeFile(t, "multi.toy", `extern sin(x)
def add(a b) a + b
add(sin(1), 2)`)

	out, _, err := execute(t, "", "--dparse", testFile)
	if err != nil {
		t.Errorf("expected no error for -dparse, got %v", err)
	}

	want := "extern sin(x);\ndef add(a b) (a + b);\nadd(sin(1), 2);\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestDParseCreatesOutputFile(t *testing.T) {
	testFile := writeFile(t, "prog.toy", "def one() 1")

	if _, _, err := execute(t, "", "--dparse", testFile); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	outputFile := filepath.Join(filepath.Dir(testFile), "prog.parsed.toy")
	content, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("expected output file %s to be created: %v", outputFile, err)
	}
	if string(content) != "def one() 1;\n" {
		t.Errorf("unexpected output file content %q", content)
	}
}

func TestDParseOutputReparses(t *testing.T) {
	input := `extern atan2(y x)
def f(a b c) a * b + c - a < b * (c + 1)
f(1, .5, 2.25)
atan2(f(1, 2, 3), 4)`

	first, _, err := execute(t, input, "--dparse")
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	second, _, err := execute(t, first, "--dparse")
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if first != second {
		t.Errorf("printed form is not a fixed point:\n%s\n---\n%s", first, second)
	}
}

func TestParsedOutputFilename(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"test.toy", "test.parsed.toy"},
		{"foo/bar.toy", "foo/bar.parsed.toy"},
		{"noext", "noext.parsed.toy"},
		{"file.txt", "file.txt.parsed.toy"},
	}

	for _, tc := range testCases {
		result := parsedOutputFilename(tc.input)
		if result != tc.expected {
			t.Errorf("parsedOutputFilename(%q) = %q, want %q", tc.input, result, tc.expected)
		}
	}
}

func TestFileNotFound(t *testing.T) {
	_, errOut, err := execute(t, "", "--dparse", "/nonexistent/file.toy")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
	if !strings.Contains(errOut, "error reading") {
		t.Errorf("expected error message about reading file, got %q", errOut)
	}
}

func TestSyntaxErrorsFail(t *testing.T) {
	testFile := writeFile(t, "bad.toy", "def foo(")

	_, errOut, err := execute(t, "", testFile)
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
	if !strings.Contains(errOut, testFile+":1:9: expected ')' in prototype, got EOF") {
		t.Errorf("expected a positioned diagnostic, got %q", errOut)
	}
	if !strings.Contains(errOut, "parsing failed with 1 errors") {
		t.Errorf("expected a failure summary, got %q", errOut)
	}
}

func TestVerbose(t *testing.T) {
	_, errOut, err := execute(t, "extern f(); def g() 1; g()", "-v")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := "ralph-toy: binary operators: *=40 +=20 -=20 <=10\n" +
		"Parsed an extern.\nParsed a function definition.\nParsed a top-level expression.\n"
	if errOut != want {
		t.Errorf("expected %q, got %q", want, errOut)
	}
}

func TestVerboseListsConfiguredOperators(t *testing.T) {
	_, errOut, err := execute(t, "a / b", "-v", "--op", "/=40", "--op", "+=30")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := "ralph-toy: binary operators: *=40 +=30 -=20 /=40 <=10\n"
	if !strings.HasPrefix(errOut, want) {
		t.Errorf("expected prefix %q, got %q", want, errOut)
	}
}

func TestInteractivePrompt(t *testing.T) {
	_, errOut, err := execute(t, "1; )", "-i")
	if err != nil {
		t.Fatalf("syntax errors should not fail an interactive session, got %v", err)
	}
	if !strings.HasPrefix(errOut, "ready> ready> ") {
		t.Errorf("expected prompts, got %q", errOut)
	}
	if strings.Contains(errOut, "parsing failed") || strings.Contains(errOut, "parsed ") {
		t.Errorf("interactive mode should not print summaries, got %q", errOut)
	}
}

func TestPromptFlagNeedsInteractive(t *testing.T) {
	_, errOut, err := execute(t, "1", "--prompt", "toy> ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Contains(errOut, "toy> ") {
		t.Errorf("prompt shown outside interactive mode: %q", errOut)
	}

	_, errOut, err = execute(t, "1", "-i", "--prompt", "toy> ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(errOut, "toy> ") || strings.Contains(errOut, "ready> ") {
		t.Errorf("expected custom prompt only, got %q", errOut)
	}
}

func TestOpFlag(t *testing.T) {
	out, _, err := execute(t, "a / b * c % d", "--dparse", "--op", "/=40", "--op", "%=40")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "(((a / b) * c) % d);\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestOpFlagInvalid(t *testing.T) {
	_, errOut, err := execute(t, "1", "--op", "(=10")
	if err == nil {
		t.Fatal("expected an error for a reserved operator")
	}
	if !strings.Contains(errOut, "invalid binary operator") {
		t.Errorf("expected an invalid operator message, got %q", errOut)
	}
}

func TestConfigFlag(t *testing.T) {
	cfgFile := writeFile(t, "toy.yaml", `prompt: "cfg> "
operators:
  "/": 40
  "+": 50
`)

	out, errOut, err := execute(t, "a + b / c", "--dparse", "-i", "--config", cfgFile)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "((a + b) / c);\n" {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(errOut, "cfg> ") {
		t.Errorf("expected prompt from config, got %q", errOut)
	}
}

func TestOpFlagOverridesConfig(t *testing.T) {
	cfgFile := writeFile(t, "toy.yaml", "operators:\n  \"/\": 10\n")

	out, _, err := execute(t, "a / b * c", "--dparse", "--config", cfgFile, "--op", "/=50")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "((a / b) * c);\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestConfigFlagMissingFile(t *testing.T) {
	_, errOut, err := execute(t, "1", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !os.IsNotExist(errors.Cause(err)) {
		t.Errorf("expected a not-exist cause, got %v", err)
	}
	if !strings.Contains(errOut, "reading config") {
		t.Errorf("expected a config error message, got %q", errOut)
	}
}

func resetFlags() {
	dParse = false
	interactive = false
	verbose = false
	prompt = defaultPrompt
	configPath = ""
	opFlags = nil
}

func TestNormalizeFlags(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "single-dash dparse",
			input:    []string{"-dparse", "test.toy"},
			expected: []string{"--dparse", "test.toy"},
		},
		{
			name:     "double-dash dparse unchanged",
			input:    []string{"--dparse", "test.toy"},
			expected: []string{"--dparse", "test.toy"},
		},
		{
			name:     "no flags",
			input:    []string{"test.toy"},
			expected: []string{"test.toy"},
		},
		{
			name:     "other flags unchanged",
			input:    []string{"-i", "-v", "test.toy"},
			expected: []string{"-i", "-v", "test.toy"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := normalizeFlags(tc.input)
			if len(result) != len(tc.expected) {
				t.Errorf("normalizeFlags(%v) = %v, want %v", tc.input, result, tc.expected)
				return
			}
			for i := range result {
				if result[i] != tc.expected[i] {
					t.Errorf("normalizeFlags(%v) = %v, want %v", tc.input, result, tc.expected)
					return
				}
			}
		})
	}
}
