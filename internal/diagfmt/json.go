package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"localfn/internal/diag"
	"localfn/internal/source"
)

// LocationJSON is a span with the file path rendered per PathMode. Line and
// column fields are filled only with IncludePositions.
type LocationJSON struct {
	File      string `json:"file" msgpack:"file"`
	StartByte uint32 `json:"start_byte" msgpack:"start_byte"`
	EndByte   uint32 `json:"end_byte" msgpack:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty" msgpack:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty" msgpack:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty" msgpack:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty" msgpack:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message" msgpack:"message"`
	Location LocationJSON `json:"location" msgpack:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity" msgpack:"severity"`
	Code     string       `json:"code" msgpack:"code"`
	Title    string       `json:"title" msgpack:"title"`
	Message  string       `json:"message" msgpack:"message"`
	Location LocationJSON `json:"location" msgpack:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty" msgpack:"notes,omitempty"`
}

// DiagnosticsOutput is the document written by JSON and MsgPack.
// Omitted counts diagnostics cut by JSONOpts.Max.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics" msgpack:"diagnostics"`
	Count       int              `json:"count" msgpack:"count"`
	Omitted     int              `json:"omitted,omitempty" msgpack:"omitted,omitempty"`
}

type locator struct {
	fs   *source.FileSet
	opts JSONOpts
}

// at renders span; spans without a known file keep only byte offsets.
func (l locator) at(span source.Span) LocationJSON {
	loc := LocationJSON{StartByte: span.Start, EndByte: span.End}
	if l.fs == nil {
		return loc
	}
	f := l.fs.Get(span.File)
	if f == nil {
		return loc
	}
	loc.File = displayPath(f, l.opts.PathMode, l.opts.BaseDir)
	if l.opts.IncludePositions {
		start, end := l.fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (l locator) diagnostic(d *diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Location: l.at(d.Primary),
	}
	// заметка таймингов и есть полезная нагрузка, её не прячем
	if l.opts.IncludeNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{Message: n.Msg, Location: l.at(n.Span)})
		}
	}
	return out
}

// BuildDiagnosticsOutput converts bag without serialising it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	if bag == nil {
		return out
	}
	items := bag.Items()
	keep := len(items)
	if opts.Max > 0 && opts.Max < keep {
		keep = opts.Max
	}
	l := locator{fs: fs, opts: opts}
	for i := range keep {
		out.Diagnostics = append(out.Diagnostics, l.diagnostic(&items[i]))
	}
	out.Count = keep
	out.Omitted = len(items) - keep
	return out
}

func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}

// MsgPack writes the same document as JSON for machine consumers.
func MsgPack(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	return msgpack.NewEncoder(w).Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
