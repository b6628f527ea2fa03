package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// NodeKind distinguishes injected head nodes
type NodeKind string

const (
	NodeLink  NodeKind = "link"
	NodeStyle NodeKind = "style"
)

// Node is a stylesheet link or inline style held by a Document
type Node struct {
	ID   string   `json:"id"`
	Kind NodeKind `json:"kind"`
	Href string   `json:"href,omitempty"`
	CSS  string   `json:"css,omitempty"`
}

// Document is a server-side Host. It keeps the injected head nodes in
// order plus the root custom properties, and renders them into pages.
// Stylesheets are verified by fetching them unless verification is off.
type Document struct {
	client  *http.Client
	limiter *rate.Limiter
	verify  bool

	mu    sync.RWMutex
	seq   uint64
	nodes []*docNode
	props map[string]string
}

type docNode struct {
	Node
	seq uint64
}

// DocumentOption configures a Document
type DocumentOption func(*Document)

// WithHTTPClient sets the client used to verify stylesheets
func WithHTTPClient(c *http.Client) DocumentOption {
	return func(d *Document) {
		d.client = c
	}
}

// WithRateLimit caps stylesheet fetches per second
func WithRateLimit(perSecond float64) DocumentOption {
	return func(d *Document) {
		if perSecond > 0 {
			d.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithoutVerification accepts stylesheets without fetching them
func WithoutVerification() DocumentOption {
	return func(d *Document) {
		d.verify = false
	}
}

// NewDocument creates an empty document host
func NewDocument(opts ...DocumentOption) *Document {
	d := &Document{
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Inf, 1),
		verify:  true,
		props:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// InjectStylesheet verifies url responds with 2xx and appends a link node
func (d *Document) InjectStylesheet(ctx context.Context, id, url string) (Handle, error) {
	if d.verify {
		if err := d.fetch(ctx, url); err != nil {
			stylesheetFetches.Inc("error")
			return nil, fmt.Errorf("failed to load stylesheet %s: %w", url, err)
		}
		stylesheetFetches.Inc("ok")
	}
	return d.add(Node{ID: "font-" + id, Kind: NodeLink, Href: url}), nil
}

func (d *Document) fetch(ctx context.Context, url string) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/css,*/*;q=0.1")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %s", resp.Status)
	}
	return nil
}

// InjectStyle appends an inline style node
func (d *Document) InjectStyle(id, css string) Handle {
	return d.add(Node{ID: "font-" + id, Kind: NodeStyle, CSS: css})
}

// FontsReady returns immediately; injection already waited for each
// stylesheet.
func (d *Document) FontsReady(ctx context.Context) error {
	return ctx.Err()
}

// SetProperty sets a root custom property
func (d *Document) SetProperty(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.props[name] = value
}

// Property returns a root custom property
func (d *Document) Property(name string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.props[name]
	return v, ok
}

// Head returns the injected nodes in insertion order
func (d *Document) Head() []Node {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Node, 0, len(d.nodes))
	for _, n := range d.nodes {
		out = append(out, n.Node)
	}
	return out
}

// RootStyle renders the custom properties as a :root rule
func (d *Document) RootStyle() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.props) == 0 {
		return ""
	}
	names := make([]string, 0, len(d.props))
	for name := range d.props {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %s;\n", name, d.props[name])
	}
	b.WriteString("}")
	return b.String()
}

func (d *Document) add(n Node) Handle {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	node := &docNode{Node: n, seq: d.seq}
	d.nodes = append(d.nodes, node)
	return &nodeHandle{doc: d, seq: node.seq}
}

type nodeHandle struct {
	doc *Document
	seq uint64
}

func (h *nodeHandle) Remove() {
	h.doc.mu.Lock()
	defer h.doc.mu.Unlock()
	h.doc.nodes = slices.DeleteFunc(h.doc.nodes, func(n *docNode) bool { return n.seq == h.seq })
}
