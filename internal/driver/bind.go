package driver

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"localfn/internal/diag"
	"localfn/internal/findrefs"
	"localfn/internal/fixture"
	"localfn/internal/observ"
	"localfn/internal/project"
	"localfn/internal/sema"
	"localfn/internal/symbols"
	"localfn/internal/trace"
	"localfn/internal/types"
)

// ErrNoFixtures is returned when Bind is given nothing to load.
var ErrNoFixtures = errors.New("no fixtures to bind")

// Bind loads the fixtures at paths, builds a symbol for every local function,
// forces the lazy signature facts from opts.Race goroutines per symbol and
// drains the accumulated diagnostics into the result bag.
//
// Фазы: load → collect → bind → drain. Контекст проверяется между символами.
func Bind(ctx context.Context, paths []string, opts BindOptions) (*BindResult, error) {
	if len(paths) == 0 {
		return nil, ErrNoFixtures
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = diag.Unlimited
	}
	if opts.Race <= 0 {
		opts.Race = 1
	}
	clean := make([]string, 0, len(paths))
	for _, p := range paths {
		clean = append(clean, NormalizePath(p))
	}
	paths = clean

	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeRun, "bind_run", trace.ParentFrom(ctx))
	root.WithExtra("fixtures", strconv.Itoa(len(paths)))
	defer root.End("")

	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	begin := func(name string) (int, time.Time) {
		opts.Phases.start(name)
		emit(opts.Progress, Event{Stage: Stage(name), Status: StatusWorking})
		return timer.Begin(name), time.Now()
	}
	end := func(name string, idx int, started time.Time, note string) {
		opts.Phases.end(name, time.Since(started))
		timer.End(idx, note)
	}

	for _, p := range paths {
		emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}

	res := &BindResult{Bag: diag.NewBag(opts.MaxDiagnostics)}

	// load
	idx, started := begin("load")
	span := trace.Begin(tracer, trace.ScopePhase, "load", root.ID())
	loader, err := loadFixtures(ctx, paths, res, opts.Progress, span.ID())
	span.End("")
	end("load", idx, started, fmt.Sprintf("fixtures=%d", len(res.Fixtures)))
	if err != nil {
		return nil, err
	}
	res.FileSet = loader.Files
	res.Builder = loader.Builder
	res.Types = types.NewInterner(loader.Builder.StringsInterner)
	res.Binder = sema.NewSignatureBinder(loader.Builder, res.Types, loader.NamedTypes())
	res.Linker = findrefs.NewDeclarationLinker()
	res.Key = cacheKey(res.Fixtures)

	// collect
	idx, started = begin("collect")
	span = trace.Begin(tracer, trace.ScopePhase, "collect", root.ID())
	err = collect(ctx, loader, res, opts.Progress, span.ID())
	span.WithExtra("symbols", strconv.Itoa(len(res.Symbols)))
	span.End("")
	end("collect", idx, started, fmt.Sprintf("symbols=%d", len(res.Symbols)))
	if err != nil {
		return nil, err
	}

	var cached DiskPayload
	if opts.Cache != nil {
		hit, cacheErr := opts.Cache.Get(res.Key, &cached)
		if cacheErr != nil {
			trace.Point(tracer, trace.ScopePhase, "cache_error", root.ID(), cacheErr.Error())
		}
		res.CacheHit = hit && cacheErr == nil
		if res.CacheHit && !cached.matches(res.Symbols) {
			trace.Point(tracer, trace.ScopePhase, "cache_stale", root.ID(), res.Key.String())
			res.CacheHit = false
		}
	}

	if res.CacheHit {
		trace.Point(tracer, trace.ScopePhase, "cache_hit", root.ID(), res.Key.String())
		forwardAll(res.Bag, cached.restore(res))
		for i := range res.Fixtures {
			emit(opts.Progress, Event{File: res.Fixtures[i].Path, Stage: StageDrain, Status: fixtureStatus(res, res.Fixtures[i].Path)})
		}
	} else {
		// bind
		idx, started = begin("bind")
		span = trace.Begin(tracer, trace.ScopePhase, "bind", root.ID())
		span.WithExtra("race", strconv.Itoa(opts.Race))
		err = bindAll(ctx, res, opts, span.ID())
		span.End("")
		end("bind", idx, started, fmt.Sprintf("race=%d", opts.Race))
		if err != nil {
			return nil, err
		}

		// drain
		idx, started = begin("drain")
		span = trace.Begin(tracer, trace.ScopePhase, "drain", root.ID())
		all := drain(res)
		span.WithExtra("diagnostics", strconv.Itoa(len(all)))
		span.End("")
		end("drain", idx, started, fmt.Sprintf("diags=%d", len(all)))
		forwardAll(res.Bag, all)
		for i := range res.Fixtures {
			emit(opts.Progress, Event{File: res.Fixtures[i].Path, Stage: StageDrain, Status: fixtureStatus(res, res.Fixtures[i].Path)})
		}

		if opts.Cache != nil {
			if putErr := opts.Cache.Put(res.Key, newPayload(res)); putErr != nil {
				trace.Point(tracer, trace.ScopePhase, "cache_error", root.ID(), putErr.Error())
			}
		}
	}
	res.Bag.Sort()

	if timer != nil {
		report := timer.Report()
		res.Timing = &report
		appendTimingDiagnostic(res.Bag, "bind", report)
	}
	return res, nil
}

// NormalizePath returns p the way the FileSet stores it; progress events and
// results carry paths in this form.
func NormalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

func loadFixtures(ctx context.Context, paths []string, res *BindResult, sink ProgressSink, parent uint64) (*fixture.Loader, error) {
	tracer := trace.FromContext(ctx)
	loader := fixture.NewLoader(nil, nil)
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		span := trace.Begin(tracer, trace.ScopeFixture, "load_fixture", parent).WithExtra("path", p)
		emit(sink, Event{File: p, Stage: StageLoad, Status: StatusWorking})
		started := time.Now()
		id, err := loader.LoadFile(p)
		if err != nil {
			span.End(err.Error())
			emit(sink, Event{File: p, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: time.Since(started)})
			return nil, fmt.Errorf("load %s: %w", p, err)
		}
		span.End("")
		res.Fixtures = append(res.Fixtures, Fixture{
			Path:   p,
			FileID: id,
			Hash:   project.Digest(loader.Files.Get(id).Hash),
		})
	}
	return loader, nil
}

func collect(ctx context.Context, loader *fixture.Loader, res *BindResult, sink ProgressSink, parent uint64) error {
	tracer := trace.FromContext(ctx)
	for _, id := range loader.Methods() {
		if err := ctx.Err(); err != nil {
			return err
		}
		m, ok := symbols.NewOuterMethod(loader.Builder, id)
		if !ok {
			return fmt.Errorf("item %d is not a method", id)
		}
		res.Methods = append(res.Methods, m)
		path := ""
		if f := loader.Files.Get(m.Location().File); f != nil {
			path = f.Path
		}
		emit(sink, Event{File: path, Stage: StageCollect, Status: StatusWorking})
		for _, local := range m.Locals() {
			sym, err := symbols.NewLocalFunction(loader.Builder, local, m, res.Binder)
			if err != nil {
				return fmt.Errorf("collect %s in %s: %w", m.Name(), path, err)
			}
			trace.Point(tracer, trace.ScopeSymbol, "collect_symbol", parent, m.Name()+"."+sym.Name())
			res.Linker.Add(sym)
			res.Symbols = append(res.Symbols, SymbolResult{Path: path, Method: m, Symbol: sym})
		}
	}
	return nil
}

// bindAll forces every symbol. Each symbol is one task of the bounded group;
// inside a task race goroutines hit the same symbol at once.
func bindAll(ctx context.Context, res *BindResult, opts BindOptions, parent uint64) error {
	tracer := trace.FromContext(ctx)
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	remaining := make(map[string]*atomic.Int32, len(res.Fixtures))
	for i := range res.Fixtures {
		remaining[res.Fixtures[i].Path] = new(atomic.Int32)
	}
	for i := range res.Symbols {
		if c, ok := remaining[res.Symbols[i].Path]; ok {
			c.Add(1)
		}
	}
	for i := range res.Fixtures {
		p := res.Fixtures[i].Path
		emit(opts.Progress, Event{File: p, Stage: StageBind, Status: StatusWorking, Symbols: int(remaining[p].Load())})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(res.Symbols))))
	for i := range res.Symbols {
		sr := &res.Symbols[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			span := trace.Begin(tracer, trace.ScopeSymbol, "bind_symbol", parent).
				WithExtra("symbol", sr.QualifiedName())

			var racers errgroup.Group
			for r := range opts.Race {
				racers.Go(func() error {
					trace.Point(tracer, trace.ScopeSymbol, "racer", span.ID(), strconv.Itoa(r))
					sr.Symbol.ForceComplete()
					return nil
				})
			}
			if err := racers.Wait(); err != nil {
				span.End(err.Error())
				return err
			}
			sr.Signature = sr.Symbol.Signature()
			span.End(sr.Signature)

			if c, ok := remaining[sr.Path]; ok && c.Add(-1) == 0 {
				emit(opts.Progress, Event{File: sr.Path, Stage: StageDrain, Status: StatusWorking})
			}
			return nil
		})
	}
	return g.Wait()
}

// drain hands out each symbol's diagnostics once, collapsing repeats from
// racing computations, and returns them all in declaration order.
func drain(res *BindResult) []diag.Diagnostic {
	var all []diag.Diagnostic
	for i := range res.Symbols {
		sr := &res.Symbols[i]
		local := diag.NewBag(diag.Unlimited)
		diag.Forward(diag.NewDedupReporter(diag.BagReporter{Bag: local}), sr.Symbol.DrainDiagnostics())
		local.Sort()
		sr.Diagnostics = local.Items()
		all = append(all, sr.Diagnostics...)
	}
	return all
}

// forwardAll adds ds to bag once per code and primary span; the bag's limit applies.
func forwardAll(bag *diag.Bag, ds []diag.Diagnostic) {
	diag.Forward(diag.NewDedupReporter(diag.BagReporter{Bag: bag}), ds)
}

func fixtureStatus(res *BindResult, path string) Status {
	for i := range res.Bag.Items() {
		d := &res.Bag.Items()[i]
		if d.Severity < diag.SevError {
			continue
		}
		if f := res.FileSet.Get(d.Primary.File); f != nil && f.Path == path {
			return StatusError
		}
	}
	return StatusDone
}

func cacheKey(fixtures []Fixture) project.Digest {
	var schema project.Digest
	schema[0] = byte(diskCacheSchemaVersion)
	schema[1] = byte(diskCacheSchemaVersion >> 8)
	// cached spans are keyed by path, so the paths are part of the key
	hashes := make([]project.Digest, 0, 2*len(fixtures))
	for i := range fixtures {
		hashes = append(hashes, project.Digest(sha256.Sum256([]byte(fixtures[i].Path))), fixtures[i].Hash)
	}
	return project.Combine(schema, hashes...)
}
