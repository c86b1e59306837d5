package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"localfn/internal/diag"
	"localfn/internal/source"
)

func TestPathModes(t *testing.T) {
	bag, fs, _ := sampleBag(t)

	tests := []struct {
		name     string
		mode     PathMode
		base     string
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/project/decls/outer.lfn.toml:2:5:"},
		{name: "Relative path", mode: PathModeRelative, base: "/home/user/project", contains: "decls/outer.lfn.toml:2:5:"},
		{name: "Basename only", mode: PathModeBasename, contains: "outer.lfn.toml:2:5:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, BaseDir: tt.base}); err != nil {
				t.Fatal(err)
			}
			output := buf.String()
			if !strings.HasPrefix(output, tt.contains) {
				t.Errorf("Expected output to start with %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR SEM3143:") {
				t.Errorf("Expected severity and code, got:\n%s", output)
			}
		})
	}
}

func TestPrettySnippetAndCaret(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	want := "outer.lfn.toml:2:5: ERROR SEM3143: 'var' is not a valid return type for local function 'F'\n" +
		" 2 |     var F(Unknown x);\n" +
		"   |     ^~~\n" +
		"\n" +
		"outer.lfn.toml:2:11: ERROR SEM3005: unresolved type 'Unknown'\n" +
		" 2 |     var F(Unknown x);\n" +
		"   |           ^~~~~~~\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyNotesAndContext(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, Context: 1}); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	if !strings.Contains(output, " 1 | method Outer() {\n 2 |     var F(Unknown x);\n") {
		t.Errorf("Expected one line of context, got:\n%s", output)
	}
	if !strings.Contains(output, "  note: outer.lfn.toml:1:8: declared inside 'Outer'\n") {
		t.Errorf("Expected note line, got:\n%s", output)
	}
	if !strings.Contains(output, "   |        ^~~~~\n") {
		t.Errorf("Expected note caret under 'Outer', got:\n%s", output)
	}
}

func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	text := "method 処理() {\n}\n"
	id := fs.AddVirtual("wide.lfn.toml", []byte(text))
	start := uint32(len("method "))
	bag := diag.NewBag(1)
	bag.Add(diag.NewWarning(diag.SemaTypeParamShadow, source.Span{File: id, Start: start, End: start + uint32(len("処理"))}, "wide"))

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "   |        ^~~~\n") {
		t.Errorf("caret must cover the display width, got:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "WARNING SEM3112") {
		t.Errorf("Expected warning, got:\n%s", buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	var plain, colored bytes.Buffer
	if err := Pretty(&plain, bag, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if err := Pretty(&colored, bag, fs, PrettyOpts{Color: true}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output must not contain escapes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output must contain escapes")
	}
}

func TestPrettyTimingsWithoutLocation(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("a.lfn.toml", []byte("method A() {\n}\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings (bind): total 1.00 ms").
		WithNote(source.Span{}, `{"kind":"bind"}`))

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	want := "INFO OBS6001: timings (bind): total 1.00 ms\n  note: {\"kind\":\"bind\"}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestShort(t *testing.T) {
	bag, fs, _ := sampleBag(t)
	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, false); err != nil {
		t.Fatal(err)
	}
	want := "error SEM3143 /home/user/project/decls/outer.lfn.toml:2:5 'var' is not a valid return type for local function 'F'\n" +
		"error SEM3005 /home/user/project/decls/outer.lfn.toml:2:11 unresolved type 'Unknown'\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}
