package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"localfn/internal/diag"
	"localfn/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	pal := newPalette(opts.Color)
	var b strings.Builder
	for i := range bag.Items() {
		d := &bag.Items()[i]
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(location(fs, d.Primary, opts))
		b.WriteString(pal.severity(d.Severity).Sprint(d.Severity.String()))
		b.WriteByte(' ')
		b.WriteString(pal.code.Sprint(d.Code.ID()))
		b.WriteString(": ")
		b.WriteString(d.Message)
		b.WriteByte('\n')
		writeSnippet(&b, fs, d.Primary, opts.Context, pal)

		if !opts.ShowNotes && d.Code != diag.ObsTimings {
			continue
		}
		for _, n := range d.Notes {
			b.WriteString("  ")
			b.WriteString(pal.note.Sprint("note"))
			b.WriteString(": ")
			b.WriteString(location(fs, n.Span, opts))
			b.WriteString(n.Msg)
			b.WriteByte('\n')
			writeSnippet(&b, fs, n.Span, 0, pal)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// location renders "path:line:col: ", or nothing for spans without a file.
func location(fs *source.FileSet, sp source.Span, opts PrettyOpts) string {
	if fs == nil {
		return ""
	}
	f := fs.Get(sp.File)
	if f == nil {
		return ""
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d: ", displayPath(f, opts.PathMode, opts.BaseDir), start.Line, start.Col)
}

func writeSnippet(b *strings.Builder, fs *source.FileSet, sp source.Span, context uint8, pal palette) {
	if fs == nil {
		return
	}
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}
	gutterWidth := len(fmt.Sprint(start.Line))

	first := start.Line
	for range context {
		if first <= 1 {
			break
		}
		first--
	}
	for ln := first; ln < start.Line; ln++ {
		fmt.Fprintf(b, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), f.GetLine(ln))
	}
	fmt.Fprintf(b, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, start.Line), line)

	col := min(int(start.Col-1), len(line))
	stop := len(line)
	if end.Line == start.Line {
		stop = min(int(end.Col-1), len(line))
	}
	width := max(runewidth.StringWidth(line[col:max(col, stop)]), 1)
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(b, " %s %s%s\n",
		pal.gutter.Sprintf("%*s |", gutterWidth, ""),
		strings.Repeat(" ", runewidth.StringWidth(line[:col])),
		pal.caret.Sprint(marker))
}

// Short renders one line per diagnostic, the format golden tests compare.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	if bag == nil {
		return nil
	}
	out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
