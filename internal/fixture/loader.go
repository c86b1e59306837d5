package fixture

import (
	"fmt"
	"os"

	"fortio.org/safecast"

	"localfn/internal/ast"
	"localfn/internal/source"
)

// Loader turns fixtures into declarations in one shared builder. Loading is
// sequential; once it is done the builder is only read.
type Loader struct {
	Builder *ast.Builder
	Files   *source.FileSet

	methods   []ast.ItemID
	named     []string
	seenNamed map[string]struct{}
}

// NewLoader creates a loader over b and fs; nil arguments get fresh ones.
func NewLoader(b *ast.Builder, fs *source.FileSet) *Loader {
	if b == nil {
		b = ast.NewBuilder(ast.Hints{}, nil)
	}
	if fs == nil {
		fs = source.NewFileSet()
	}
	return &Loader{
		Builder:   b,
		Files:     fs,
		seenNamed: make(map[string]struct{}),
	}
}

// LoadFile reads and loads a fixture from disk.
func (l *Loader) LoadFile(path string) (source.FileID, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read fixture: %w", err)
	}
	return l.LoadBytes(path, content)
}

// LoadBytes decodes content and loads it under path.
func (l *Loader) LoadBytes(path string, content []byte) (source.FileID, error) {
	f, err := Decode(path, content)
	if err != nil {
		return 0, err
	}
	return l.Add(path, f), nil
}

// Add renders f, registers the text as a virtual file named path and
// allocates its declarations.
func (l *Loader) Add(path string, f *File) source.FileID {
	text, layouts := render(f)
	file := l.Files.AddVirtual(path, text)
	end, err := safecast.Conv[uint32](len(text))
	if err != nil {
		panic(fmt.Errorf("rendered fixture overflow: %w", err))
	}
	whole := source.Span{File: file, Start: 0, End: end}
	astFile := l.Builder.NewFile(whole, path)
	l.methods = append(l.methods, build(l.Builder, file, astFile, layouts)...)
	for _, name := range f.Types {
		if _, ok := l.seenNamed[name]; ok {
			continue
		}
		l.seenNamed[name] = struct{}{}
		l.named = append(l.named, name)
	}
	return file
}

// Methods lists every enclosing method loaded so far, in load order.
func (l *Loader) Methods() []ast.ItemID { return l.methods }

// NamedTypes lists the user-declared type names of every loaded fixture.
func (l *Loader) NamedTypes() []string { return l.named }
