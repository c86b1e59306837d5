package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"localfn/internal/diag"
	"localfn/internal/project"
	"localfn/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 2

// DiskCache хранит результаты связывания по хешу набора фикстур.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload stores the drained outcome of one run.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	// Fixtures (paths and hashes of the rendered declarations)
	FilePaths  []string
	FileHashes []project.Digest

	// Bound symbols in declaration order
	Symbols []CachedSymbol
}

// CachedSymbol is the drained outcome of one local function. Diagnostics
// are deduplicated and not capped by max_diagnostics.
type CachedSymbol struct {
	Name        string
	Signature   string
	Diagnostics []CachedDiagnostic
}

// CachedDiagnostic is a diagnostic with file ids replaced by paths.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Span     CachedSpan
	Notes    []CachedNote
}

// CachedNote mirrors diag.Note.
type CachedNote struct {
	Span CachedSpan
	Msg  string
}

// CachedSpan locates a span by path, since file ids differ between runs.
type CachedSpan struct {
	Path       string
	Start, End uint32
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	// результаты лежат в подкаталоге "binds", его удобно чистить отдельно
	return filepath.Join(c.dir, "binds", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmp)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(tmp, p); err != nil {
		return err
	}
	renamed = true
	return nil
}

// Get reads and deserializes a payload from the disk cache. Payloads written
// with another schema count as misses.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func cacheSpan(fs *source.FileSet, sp source.Span) CachedSpan {
	out := CachedSpan{Start: sp.Start, End: sp.End}
	if f := fs.Get(sp.File); f != nil {
		out.Path = f.Path
	}
	return out
}

func restoreSpan(fs *source.FileSet, cs CachedSpan) source.Span {
	sp := source.Span{Start: cs.Start, End: cs.End}
	if id, ok := fs.GetLatest(cs.Path); ok {
		sp.File = id
	}
	return sp
}

func toCached(fs *source.FileSet, ds []diag.Diagnostic) []CachedDiagnostic {
	out := make([]CachedDiagnostic, 0, len(ds))
	for i := range ds {
		d := &ds[i]
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Span:     cacheSpan(fs, d.Primary),
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Span: cacheSpan(fs, n.Span), Msg: n.Msg})
		}
		out = append(out, cd)
	}
	return out
}

func fromCached(fs *source.FileSet, cds []CachedDiagnostic) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(cds))
	for _, cd := range cds {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  restoreSpan(fs, cd.Span),
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: restoreSpan(fs, n.Span), Msg: n.Msg})
		}
		out = append(out, d)
	}
	return out
}

func newPayload(res *BindResult) *DiskPayload {
	payload := &DiskPayload{Schema: diskCacheSchemaVersion}
	for i := range res.Fixtures {
		payload.FilePaths = append(payload.FilePaths, res.Fixtures[i].Path)
		payload.FileHashes = append(payload.FileHashes, res.Fixtures[i].Hash)
	}
	payload.Symbols = make([]CachedSymbol, 0, len(res.Symbols))
	for i := range res.Symbols {
		sr := &res.Symbols[i]
		payload.Symbols = append(payload.Symbols, CachedSymbol{
			Name:        sr.QualifiedName(),
			Signature:   sr.Signature,
			Diagnostics: toCached(res.FileSet, sr.Diagnostics),
		})
	}
	return payload
}

// matches reports whether the payload was written for exactly these symbols.
func (p *DiskPayload) matches(syms []SymbolResult) bool {
	if len(p.Symbols) != len(syms) {
		return false
	}
	for i := range syms {
		if p.Symbols[i].Name != syms[i].QualifiedName() {
			return false
		}
	}
	return true
}

// restore fills every symbol's drained outcome from the payload and returns
// all diagnostics in declaration order, as drain does.
func (p *DiskPayload) restore(res *BindResult) []diag.Diagnostic {
	var all []diag.Diagnostic
	for i := range res.Symbols {
		sr := &res.Symbols[i]
		cs := &p.Symbols[i]
		sr.Signature = cs.Signature
		sr.Diagnostics = fromCached(res.FileSet, cs.Diagnostics)
		// modifier diagnostics from construction are part of the restored list
		sr.Symbol.DrainDiagnostics()
		all = append(all, sr.Diagnostics...)
	}
	return all
}
