package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"localfn/internal/source"
)

// shortLine is one rendered entry: "<severity> <code> <path>:<line>:<col> <message>".
type shortLine struct {
	label string
	code  string
	path  string
	pos   source.LineCol
	msg   string
}

func compareShort(a, b shortLine) int {
	return cmp.Or(
		cmp.Compare(a.path, b.path),
		cmp.Compare(a.pos.Line, b.pos.Line),
		cmp.Compare(a.pos.Col, b.pos.Col),
		cmp.Compare(a.label, b.label),
		cmp.Compare(a.code, b.code),
		cmp.Compare(a.msg, b.msg),
	)
}

// FormatShortDiagnostics renders one line per diagnostic (and per note when
// includeNotes is set), sorted by position. Diagnostics without a file, such
// as timings, are left out. Used by the short CLI format and golden tests.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var lines []shortLine
	for i := range diags {
		d := &diags[i]
		code := d.Code.ID()
		if l, ok := shortAt(fs, d.Primary); ok {
			l.label, l.code, l.msg = d.Severity.Label(), code, oneLine(d.Message)
			lines = append(lines, l)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if l, ok := shortAt(fs, n.Span); ok {
				l.label, l.code, l.msg = "note", code, oneLine(n.Msg)
				lines = append(lines, l)
			}
		}
	}
	slices.SortStableFunc(lines, compareShort)

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", l.label, l.code, l.path, l.pos.Line, l.pos.Col, l.msg)
	}
	return b.String()
}

func shortAt(fs *source.FileSet, sp source.Span) (shortLine, bool) {
	f := fs.Get(sp.File)
	if f == nil {
		return shortLine{}, false
	}
	start, _ := fs.Resolve(sp)
	p := filepath.ToSlash(f.Path)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return shortLine{path: p, pos: start}, true
}

func oneLine(msg string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg))
}
