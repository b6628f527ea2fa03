package loader

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/joeblew999/fontdue/pkg/log"
	"github.com/zeromicro/go-zero/core/threading"
)

// CSS custom properties written by ApplyPreviewFont
const (
	PreviewFontProperty     = "--preview-font"
	PreviewMonoFontProperty = "--preview-font-mono"
)

var (
	// ErrMissingURL is returned for stylesheet and upload fonts without a URL
	ErrMissingURL = errors.New("no url provided")
)

// State is the load state of one font id
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unloaded"
	}
}

// MarshalText renders the state by name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LoadError names the font that failed to load
type LoadError struct {
	FontID string
	Name   string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load font %s (%s): %v", e.Name, e.FontID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// BatchResult counts the outcome of LoadFonts
type BatchResult struct {
	Loaded int `json:"loaded"`
	Failed int `json:"failed"`
}

// Lifecycle loads fonts into a Host at most once per id. Failed fonts are
// not remembered as loaded and can be retried. Concurrent loads of the same
// id are not coordinated.
type Lifecycle struct {
	host   Host
	prober LocalProber

	mu      sync.Mutex
	states  map[string]State
	handles map[string]Handle
}

// New creates a lifecycle over host. prober may be nil, in which case local
// fonts are loaded without a probe.
func New(host Host, prober LocalProber) *Lifecycle {
	return &Lifecycle{
		host:    host,
		prober:  prober,
		states:  make(map[string]State),
		handles: make(map[string]Handle),
	}
}

// LoadFont materializes f into the host. It is a no-op when f is already
// loaded.
func (l *Lifecycle) LoadFont(ctx context.Context, f font.AppFont) error {
	if l.State(f.ID) == StateLoaded {
		return nil
	}

	start := time.Now()
	l.setState(f.ID, StateLoading)

	var err error
	switch f.Source {
	case font.SourceGoogle, font.SourceBunny, font.SourceFontshare, font.SourceCDN:
		err = l.loadStylesheet(ctx, f)
	case font.SourceSystem, font.SourceLocal:
		l.probeLocal(ctx, f)
	case font.SourceUpload:
		err = l.loadUpload(ctx, f)
	default:
		log.Warn("Unknown font source", "id", f.ID, "source", f.Source)
		err = fmt.Errorf("%w: %q", font.ErrUnknownSource, f.Source)
	}

	loadDuration.ObserveFloat(time.Since(start).Seconds(), string(f.Source))
	if err != nil {
		l.setState(f.ID, StateFailed)
		loadsTotal.Inc(string(f.Source), "failed")
		log.Error("Failed to load font", "id", f.ID, "name", f.Name, "error", err)
		return &LoadError{FontID: f.ID, Name: f.Name, Err: err}
	}

	l.setState(f.ID, StateLoaded)
	loadsTotal.Inc(string(f.Source), "loaded")
	return nil
}

func (l *Lifecycle) loadStylesheet(ctx context.Context, f font.AppFont) error {
	if f.URL == "" {
		return ErrMissingURL
	}

	if !l.hasHandle(f.ID) {
		h, err := l.host.InjectStylesheet(ctx, f.ID, f.URL)
		if err != nil {
			return err
		}
		l.setHandle(f.ID, h)
	}

	return l.host.FontsReady(ctx)
}

// probeLocal never fails: an absent family falls back to the stack
func (l *Lifecycle) probeLocal(ctx context.Context, f font.AppFont) {
	if l.prober == nil {
		return
	}
	ok, err := l.prober.Resolvable(ctx, f.Family)
	if err != nil || !ok {
		log.Warn("System font may not be available", "family", f.Family, "error", err)
	}
}

func (l *Lifecycle) loadUpload(ctx context.Context, f font.AppFont) error {
	if f.URL == "" {
		return ErrMissingURL
	}

	if !l.hasHandle(f.ID) {
		l.setHandle(f.ID, l.host.InjectStyle(f.ID, font.FontFaceCSS(f)))
	}

	return l.host.FontsReady(ctx)
}

// UnloadFont removes the injected resource of id and forgets its state
func (l *Lifecycle) UnloadFont(id string) {
	l.mu.Lock()
	h, ok := l.handles[id]
	delete(l.handles, id)
	delete(l.states, id)
	l.mu.Unlock()

	if ok && h != nil {
		h.Remove()
	}
}

// LoadFonts loads fonts in parallel. One failure never prevents the others
// from completing.
func (l *Lifecycle) LoadFonts(ctx context.Context, fonts []font.AppFont) BatchResult {
	var loaded, failed atomic.Int64

	group := threading.NewRoutineGroup()
	for _, f := range fonts {
		group.RunSafe(func() {
			if err := l.LoadFont(ctx, f); err != nil {
				failed.Add(1)
				return
			}
			loaded.Add(1)
		})
	}
	group.Wait()

	res := BatchResult{Loaded: int(loaded.Load()), Failed: int(failed.Load())}
	if res.Loaded+res.Failed < len(fonts) {
		// a panicking load is recovered by RunSafe without reporting
		res.Failed = len(fonts) - res.Loaded
	}
	if res.Failed > 0 {
		log.Warn("Some fonts failed to load", "failed", res.Failed, "loaded", res.Loaded)
	}
	return res
}

// ApplyPreviewFont points the preview properties at f
func (l *Lifecycle) ApplyPreviewFont(f font.AppFont) {
	family := font.PreviewFamily(f)
	l.host.SetProperty(PreviewFontProperty, family)
	if f.Category == font.CategoryMonospace {
		l.host.SetProperty(PreviewMonoFontProperty, family)
	}
}

// State returns the load state of id
func (l *Lifecycle) State(id string) State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.states[id]
}

// IsLoaded reports whether id is loaded
func (l *Lifecycle) IsLoaded(id string) bool {
	return l.State(id) == StateLoaded
}

// Loaded returns the loaded ids, sorted
func (l *Lifecycle) Loaded() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]string, 0, len(l.states))
	for id, s := range l.states {
		if s == StateLoaded {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Reset unloads every font
func (l *Lifecycle) Reset() {
	l.mu.Lock()
	handles := l.handles
	l.handles = make(map[string]Handle)
	l.states = make(map[string]State)
	l.mu.Unlock()

	for _, h := range handles {
		if h != nil {
			h.Remove()
		}
	}
}

func (l *Lifecycle) setState(id string, s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states[id] = s
}

func (l *Lifecycle) hasHandle(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.handles[id]
	return ok
}

func (l *Lifecycle) setHandle(id string, h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handles[id] = h
}
