package magics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"rootbook/internal/interp"
)

// fakeInterp records which interpreter entry points ran.
type fakeInterp struct {
	processed []string
	declared  []string
	compiled  []string
	loaded    []string
	lineCode  interp.ErrCode
}

func (f *fakeInterp) ProcessLine(code string) (interp.ErrCode, error) {
	f.processed = append(f.processed, code)
	return f.lineCode, nil
}

func (f *fakeInterp) Declare(code string) error {
	f.declared = append(f.declared, code)
	return nil
}

func (f *fakeInterp) CompileMacro(path string) error {
	f.compiled = append(f.compiled, path)
	return nil
}

func (f *fakeInterp) LoadLibrary(path string) error {
	f.loaded = append(f.loaded, path)
	return nil
}

func newEnv(fi *fakeInterp, diag *bytes.Buffer, visState *bool) *Env {
	return &Env{
		Interp:     fi,
		EnableVis:  func() { *visState = true },
		DisableVis: func() { *visState = false },
		Diag:       diag,
	}
}

func TestSplitMagic(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantName string
		wantArgs []string
		wantBody string
	}{
		{"bare name", "cpp", "cpp", nil, ""},
		{"name with args", "cpp -d --aclic", "cpp", []string{"-d", "--aclic"}, ""},
		{"name and body", "cpp\nint x;", "cpp", nil, "int x;"},
		{"args and body", "cpp -a\nint x;\nint y;", "cpp", []string{"-a"}, "int x;\nint y;"},
		{"empty line with body", "\nint x;", "", nil, "int x;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args, body := splitMagic(tt.src)
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if diff := cmp.Diff(tt.wantArgs, args, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestDispatchPlainCell(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r)
	var diag bytes.Buffer
	vis := false
	env := newEnv(&fakeInterp{}, &diag, &vis)

	rest, handled, err := r.Dispatch(env, "x := 1")
	if err != nil {
		t.Fatal(err)
	}
	if handled {
		t.Error("magic-free cell reported handled")
	}
	if rest != "x := 1" {
		t.Errorf("rest = %q, want the whole cell", rest)
	}
}

func TestDispatchCellMagicConsumesCell(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r)
	var diag bytes.Buffer
	vis := false
	fi := &fakeInterp{}
	env := newEnv(fi, &diag, &vis)

	rest, handled, err := r.Dispatch(env, "%%cpp\nint x = 1;")
	if err != nil {
		t.Fatal(err)
	}
	if !handled || rest != "" {
		t.Errorf("Dispatch = (%q, %v), want (\"\", true)", rest, handled)
	}
	if len(fi.processed) != 1 || fi.processed[0] != "int x = 1;" {
		t.Errorf("processed = %v", fi.processed)
	}
}

func TestDispatchLineMagicKeepsBody(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r)
	var diag bytes.Buffer
	vis := false
	env := newEnv(&fakeInterp{}, &diag, &vis)

	rest, handled, err := r.Dispatch(env, "%jsroot on\ncanvasDraw()")
	if err != nil {
		t.Fatal(err)
	}
	if !handled {
		t.Error("line magic not handled")
	}
	if rest != "canvasDraw()" {
		t.Errorf("rest = %q, want the body after the magic line", rest)
	}
	if !vis {
		t.Error("%jsroot on did not enable visualisation")
	}
}

func TestDispatchUnknownMagic(t *testing.T) {
	r := NewRegistry()
	var diag bytes.Buffer
	vis := false
	env := newEnv(&fakeInterp{}, &diag, &vis)

	rest, handled, err := r.Dispatch(env, "%%nosuch\nbody text")
	if err != nil {
		t.Fatal(err)
	}
	if handled {
		t.Error("unknown magic reported handled")
	}
	if rest != "body text" {
		t.Errorf("rest = %q, want the body to still execute", rest)
	}
	if !strings.Contains(diag.String(), "Unknown cell magic %%nosuch") {
		t.Errorf("diagnostic = %q", diag.String())
	}
}

func TestDispatchLeadingWhitespace(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r)
	var diag bytes.Buffer
	vis := false
	fi := &fakeInterp{}
	env := newEnv(fi, &diag, &vis)

	_, handled, err := r.Dispatch(env, "  \n%%cpp\nint y;")
	if err != nil {
		t.Fatal(err)
	}
	if !handled {
		t.Error("magic after leading whitespace not recognized")
	}
}

func TestCppMagicDeclare(t *testing.T) {
	var diag bytes.Buffer
	vis := false
	fi := &fakeInterp{}
	env := newEnv(fi, &diag, &vis)

	if err := cppMagic(env, []string{"-d"}, "void helper();"); err != nil {
		t.Fatal(err)
	}
	if len(fi.declared) != 1 || fi.declared[0] != "void helper();" {
		t.Errorf("declared = %v", fi.declared)
	}
	if len(fi.processed) != 0 {
		t.Errorf("declare-only magic also processed: %v", fi.processed)
	}
}

func TestCppMagicUnknownOption(t *testing.T) {
	var diag bytes.Buffer
	vis := false
	fi := &fakeInterp{}
	env := newEnv(fi, &diag, &vis)

	if err := cppMagic(env, []string{"--bogus"}, "int z;"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(diag.String(), "Unknown %%cpp option --bogus") {
		t.Errorf("diagnostic = %q", diag.String())
	}
	// Unknown options are reported, the body still executes.
	if len(fi.processed) != 1 {
		t.Errorf("processed = %v, want the body executed anyway", fi.processed)
	}
}

func TestJsrootMagic(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantVis bool
		wantMsg bool
	}{
		{"no args defaults on", nil, true, false},
		{"on", []string{"on"}, true, false},
		{"off", []string{"off"}, false, false},
		{"garbage", []string{"maybe"}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diag bytes.Buffer
			vis := false
			env := newEnv(&fakeInterp{}, &diag, &vis)

			if err := jsrootMagic(env, tt.args, ""); err != nil {
				t.Fatal(err)
			}
			if vis != tt.wantVis {
				t.Errorf("vis = %v, want %v", vis, tt.wantVis)
			}
			if (diag.Len() > 0) != tt.wantMsg {
				t.Errorf("diagnostic = %q", diag.String())
			}
		})
	}
}
