package interp

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestBracesBalanced(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{"empty", "", true},
		{"no braces", "x := 1 + 2", true},
		{"balanced block", "func f() { return }", true},
		{"nested", "if a { if b { c() } }", true},
		{"open only", "func f() {", false},
		{"close only", "}", false},
		{"close before open", "} {", false},
		{"brace in string", `s := "{"`, true},
		{"brace in char literal", `c := '{'`, true},
		{"brace in raw string", "s := `{{{`", true},
		{"brace in line comment", "x := 1 // {\n", true},
		{"brace in block comment", "x := 1 /* { */", true},
		{"escaped quote inside string", `s := "\"{" + "}"`, true},
		{"string then real open", `s := "{"; if true {`, false},
		{"multiline balanced", "for i := 0; i < 3; i++ {\n\tf(i)\n}", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BracesBalanced(tt.code); got != tt.want {
				t.Errorf("BracesBalanced(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestStripNonCodePreservesNewlines(t *testing.T) {
	code := "a\n// comment line\nb\n/* block\nspanning */\nc"
	stripped := stripNonCode(code)
	if got, want := strings.Count(stripped, "\n"), strings.Count(code, "\n"); got != want {
		t.Errorf("stripped text has %d newlines, want %d", got, want)
	}
	if strings.Contains(stripped, "comment") || strings.Contains(stripped, "block") {
		t.Errorf("comment text survived stripping: %q", stripped)
	}
}

func TestLibExtension(t *testing.T) {
	tests := []struct {
		platform string
		want     string
	}{
		{"darwin", ".dylib"},
		{"windows", ".dll"},
		{"linux", ".so"},
		{"freebsd", ".so"},
	}
	for _, tt := range tests {
		if got := LibExtension(tt.platform); got != tt.want {
			t.Errorf("LibExtension(%q) = %q, want %q", tt.platform, got, tt.want)
		}
	}
}

var macroNameRe = regexp.MustCompile(`^[0-9a-f]{8}_[0-9]{12}\.C$`)

func TestMacroFilename(t *testing.T) {
	name := MacroFilename("void f() {}", ".C")
	if !macroNameRe.MatchString(name) {
		t.Errorf("MacroFilename = %q, want hash_timestamp.C shape", name)
	}

	// Same code, distinct invocations: the hash prefix repeats, the
	// timestamp keeps names unique across reruns.
	other := MacroFilename("different code", ".C")
	if name[:8] == other[:8] {
		t.Errorf("distinct code produced identical hash prefix %q", name[:8])
	}
}

func TestDumpToUniqueFile(t *testing.T) {
	dir := t.TempDir()
	path, err := DumpToUniqueFile("int x = 1;", dir, ".C")
	if err != nil {
		t.Fatalf("DumpToUniqueFile: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("file written to %q, want %q", filepath.Dir(path), dir)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading dumped file: %v", err)
	}
	if string(data) != "int x = 1;" {
		t.Errorf("dumped content = %q", data)
	}
}

func TestCheckOutputSwallowsFailure(t *testing.T) {
	var diag bytes.Buffer
	CheckOutput("definitely-not-a-command-rootbook", "Error invoking the macro compiler", &diag)
	got := diag.String()
	if !strings.Contains(got, "Error invoking the macro compiler") {
		t.Errorf("diagnostic missing error message: %q", got)
	}
	if !strings.Contains(got, "command was definitely-not-a-command-rootbook") {
		t.Errorf("diagnostic missing command echo: %q", got)
	}
}

func TestYaegiProcessLine(t *testing.T) {
	var out, errBuf bytes.Buffer
	ip, err := NewYaegi(&out, &errBuf)
	if err != nil {
		t.Fatalf("NewYaegi: %v", err)
	}

	errc, err := ip.ProcessLine("x := 41 + 1; _ = x")
	if errc != NoError || err != nil {
		t.Fatalf("ProcessLine = (%v, %v), want (NoError, nil)", errc, err)
	}

	errc, err = ip.ProcessLine("func broken() {")
	if errc != Processing {
		t.Errorf("incomplete input: errc = %v, want Processing", errc)
	}
	if err != nil {
		t.Errorf("incomplete input: err = %v, want nil", err)
	}

	errc, err = ip.ProcessLine("undefinedIdentifier()")
	if errc != Failure || err == nil {
		t.Errorf("bad input: (%v, %v), want (Failure, non-nil)", errc, err)
	}
}

func TestYaegiDeclareThenUse(t *testing.T) {
	ip, err := NewYaegi(nil, nil)
	if err != nil {
		t.Fatalf("NewYaegi: %v", err)
	}
	if err := ip.Declare("func double(x int) int { return x * 2 }"); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	errc, err := ip.ProcessLine("_ = double(21)")
	if errc != NoError || err != nil {
		t.Errorf("using declared function: (%v, %v)", errc, err)
	}
}

func TestYaegiCompileMacro(t *testing.T) {
	ip, err := NewYaegi(nil, nil)
	if err != nil {
		t.Fatalf("NewYaegi: %v", err)
	}
	path := filepath.Join(t.TempDir(), "macro.C")
	if err := os.WriteFile(path, []byte("func fromMacro() int { return 7 }"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ip.CompileMacro(path); err != nil {
		t.Fatalf("CompileMacro: %v", err)
	}
	errc, err := ip.ProcessLine("_ = fromMacro()")
	if errc != NoError || err != nil {
		t.Errorf("calling macro function: (%v, %v)", errc, err)
	}
}

func TestProcessCellReportsUnbalanced(t *testing.T) {
	ip, err := NewYaegi(nil, nil)
	if err != nil {
		t.Fatalf("NewYaegi: %v", err)
	}
	var diag bytes.Buffer
	ProcessCell(ip, "func f() {", &diag)
	if got := diag.String(); got != "Unbalanced braces. This cell was not processed.\n" {
		t.Errorf("diagnostic = %q", got)
	}
}

func TestProcessCellReportsEvalError(t *testing.T) {
	ip, err := NewYaegi(nil, nil)
	if err != nil {
		t.Fatalf("NewYaegi: %v", err)
	}
	var diag bytes.Buffer
	ProcessCell(ip, "nope()", &diag)
	if diag.Len() == 0 {
		t.Error("eval error produced no diagnostic")
	}
}

func TestInvokeMacroNonDarwin(t *testing.T) {
	// On darwin InvokeMacro shells out to the native toolchain; the embedded
	// path is only meaningful elsewhere.
	ip, err := NewYaegi(nil, nil)
	if err != nil {
		t.Fatalf("NewYaegi: %v", err)
	}
	var diag bytes.Buffer
	opts := MacroOptions{Dir: t.TempDir(), Diag: &diag}
	if err := InvokeMacro(ip, "func aclicFn() string { return \"ok\" }", opts); err != nil {
		t.Skipf("InvokeMacro failed (platform-dependent path): %v", err)
	}
	errc, err := ip.ProcessLine("_ = aclicFn()")
	if errc != NoError || err != nil {
		t.Errorf("calling compiled function: (%v, %v)", errc, err)
	}
}
