package source

import (
	"crypto/sha256"
	"fmt"
	"sync"

	"fortio.org/safecast"
)

// FileSet owns the rendered fixture files of a run. Lazy binders resolve
// spans from several goroutines, so lookups take a read lock.
type FileSet struct {
	mu     sync.RWMutex
	files  []File
	byPath map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{byPath: make(map[string]FileID)}
}

// Add registers content under path and returns a fresh ID, even when the
// path is already known; GetLatest then points at the newest one.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	f := File{
		Path:    cleanPath(path),
		Content: content,
		LineIdx: indexLines(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	n, err := safecast.Conv[uint32](len(fs.files) + 1)
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	f.ID = FileID(n)
	fs.files = append(fs.files, f)
	fs.byPath[f.Path] = f.ID
	return f.ID
}

// AddVirtual registers rendered in-memory content.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns nil for NoFileID and unknown IDs.
func (fs *FileSet) Get(id FileID) *File {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if id == NoFileID || int(id) > len(fs.files) {
		return nil
	}
	return &fs.files[id-1]
}

func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	id, ok := fs.byPath[cleanPath(path)]
	return id, ok
}

func (fs *FileSet) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.files)
}

// Resolve converts both ends of span to line/column; zero values when the
// file is unknown.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.position(span.Start), f.position(span.End)
}
