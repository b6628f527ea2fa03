// Package ui provides the Datastar-based web UI for fontdue.
package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/joeblew999/fontdue/internal/types"
	"github.com/joeblew999/fontdue/pkg/collection"
	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/joeblew999/fontdue/pkg/loader"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	data "maragu.dev/gomponents-datastar"
)

// Layout wraps content in the base HTML layout. Head nodes injected by the
// font loader and the root preview properties are rendered into <head>.
func Layout(title string, head []loader.Node, rootStyle string, content ...g.Node) g.Node {
	return h.HTML(
		h.Lang("en"),
		h.Head(
			h.Meta(h.Charset("utf-8")),
			h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
			h.TitleEl(g.Text(title)),
			h.Script(h.Type("module"), h.Src("https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.7/bundles/datastar.js")),
			h.StyleEl(h.Type("text/css"), g.Raw(styles)),
			HeadNodes(head),
			g.If(rootStyle != "", h.StyleEl(h.ID("fontdue-preview"), g.Raw(rootStyle))),
		),
		h.Body(
			h.Nav(h.Class("navbar"),
				h.Div(h.Class("nav-brand"), g.Text("fontdue")),
				h.Div(h.Class("nav-links"),
					h.A(h.Href("/"), g.Text("Collection")),
					h.A(h.Href("/catalog"), g.Text("Catalogs")),
					h.A(h.Href("/preview"), g.Text("Preview")),
					h.A(h.Href("/jobs"), g.Text("Refresh Jobs")),
				),
			),
			h.Main(h.Class("container"), g.Group(content)),
			h.Footer(h.Class("footer"),
				g.Text("fontdue - font collection manager"),
			),
		),
	)
}

// HeadNodes renders injected stylesheet links and inline font faces
func HeadNodes(nodes []loader.Node) g.Node {
	return g.Map(nodes, func(n loader.Node) g.Node {
		if n.Kind == loader.NodeStyle {
			return h.StyleEl(h.ID(n.ID), g.Raw(n.CSS))
		}
		return h.Link(h.ID(n.ID), h.Rel("stylesheet"), h.Href(n.Href))
	})
}

// CollectionPage renders the grouped collection.
func CollectionPage(groups collection.Groups, selected string, head []loader.Node) g.Node {
	return Layout("Collection - fontdue", head, "",
		data.Signals(map[string]any{
			"selected": selected,
			"result":   "",
		}),

		h.H1(g.Text("Your Fonts")),

		h.Div(h.Class("actions section"),
			h.A(h.Href("/catalog"), h.Button(g.Text("Browse Catalogs"))),
			h.A(h.Href("/api/v1/export"), h.Button(g.Text("Export"))),
			h.Button(
				data.On("click", "confirm('Reset the collection to the starter fonts?') && @post('/api/ui/reset')"),
				g.Text("Reset to Defaults"),
			),
		),
		h.Div(h.Class("result"), data.Show("$result"), data.Text("$result")),

		CollectionGroups(groups, selected),
	)
}

// CollectionGroups renders every non-empty group. It is also patched in
// place after mutations.
func CollectionGroups(groups collection.Groups, selected string) g.Node {
	sections := []struct {
		title string
		fonts []font.AppFont
	}{
		{"Favorites", groups.Favorites},
		{"Google Fonts", groups.Google},
		{"Bunny Fonts", groups.Bunny},
		{"Fontshare", groups.Fontshare},
		{"CDN", groups.CDN},
		{"System", groups.System},
		{"Uploaded", groups.Upload},
	}

	var nodes []g.Node
	for _, s := range sections {
		if len(s.fonts) == 0 {
			continue
		}
		nodes = append(nodes, h.Div(h.Class("section"),
			h.H2(g.Textf("%s (%d)", s.title, len(s.fonts))),
			h.Div(h.Class("font-grid"),
				g.Map(s.fonts, func(f font.AppFont) g.Node { return FontCard(f, f.ID == selected) }),
			),
		))
	}
	if len(nodes) == 0 {
		nodes = append(nodes, h.P(h.Class("hint"), g.Text("No fonts yet. Add some from the catalogs.")))
	}
	return h.Div(h.ID("collection-groups"), g.Group(nodes))
}

// FontCard renders one collection font with its actions.
func FontCard(f font.AppFont, selected bool) g.Node {
	star := "☆"
	if f.Favorite {
		star = "★"
	}
	return h.Div(h.Classes{"font-card": true, "active": selected},
		h.Div(h.Class("font-sample"), h.StyleAttr("font-family: "+font.PreviewFamily(f)), g.Text("Aa")),
		h.H3(g.Text(f.Name)),
		h.P(g.Text(string(f.Source)+" · "+string(f.Category)+" · "+weightsLabel(f.Weights))),
		h.Div(h.Class("card-actions"),
			h.Button(data.On("click", "@post('/api/ui/fonts/"+f.ID+"/favorite')"), g.Text(star)),
			h.Button(data.On("click", "@post('/api/ui/fonts/"+f.ID+"/select')"), g.Text("Select")),
			h.Button(h.Class("danger"), data.On("click", "@post('/api/ui/fonts/"+f.ID+"/delete')"), g.Text("Remove")),
		),
	)
}

// CatalogPage renders the catalog browser with live search.
func CatalogPage(categories []string) g.Node {
	categoryOptions := []g.Node{h.Option(h.Value("all"), g.Text("All categories"))}
	for _, c := range categories {
		categoryOptions = append(categoryOptions, h.Option(h.Value(c), g.Text(c)))
	}

	return Layout("Catalogs - fontdue", nil, "",
		data.Signals(map[string]any{
			"source":   string(font.SourceGoogle),
			"tier":     "curated",
			"query":    "",
			"category": "all",
			"loading":  true,
			"result":   "",
		}),
		data.Init("@get('/api/ui/catalog')"),

		h.H1(g.Text("Font Catalogs")),

		h.Div(h.Class("filter-bar"),
			g.Map(font.CatalogSources, func(s font.Source) g.Node {
				src := string(s)
				return h.Button(
					data.On("click", "$source = '"+src+"'; @get('/api/ui/catalog')"),
					data.Class("active", "$source === '"+src+"'"),
					g.Text(src),
				)
			}),
		),

		h.Div(h.Class("filter-bar"),
			h.Input(h.Type("search"), h.Placeholder("Search fonts..."), data.Bind("query"),
				data.On("input", "@get('/api/ui/catalog')"),
			),
			h.Select(data.Bind("category"), data.On("change", "@get('/api/ui/catalog')"),
				g.Group(categoryOptions),
			),
			h.Select(data.Bind("tier"), data.On("change", "@get('/api/ui/catalog')"),
				h.Option(h.Value("curated"), g.Text("Curated")),
				h.Option(h.Value("full"), g.Text("Full catalog")),
			),
		),

		h.Div(h.Class("result"), data.Show("$result"), data.Text("$result")),
		h.Div(h.Class("loading"), data.Show("$loading"),
			h.Span(h.Class("loading-spinner")),
			g.Text(" Loading catalog..."),
		),
		h.Div(h.ID("catalog-items"), data.Show("!$loading")),
	)
}

// CatalogItems renders catalog search results.
func CatalogItems(source font.Source, fonts []font.CatalogFont) g.Node {
	if len(fonts) == 0 {
		return h.Div(h.ID("catalog-items"), h.P(h.Class("hint"), g.Text("No fonts match")))
	}
	return h.Div(h.ID("catalog-items"), h.Class("font-grid"),
		g.Map(fonts, func(cf font.CatalogFont) g.Node {
			return h.Div(h.Class("font-card"),
				h.H3(g.Text(cf.Name)),
				h.P(g.Text(string(cf.Category)+" · "+weightsLabel(cf.Weights))),
				h.Button(
					data.On("click", "@post('/api/ui/catalog/"+string(source)+"/"+cf.ID+"/add')"),
					g.Text("Add"),
				),
			)
		}),
	)
}

// PreviewPage renders the selected font applied through the preview
// custom properties.
func PreviewPage(f font.AppFont, head []loader.Node, rootStyle string) g.Node {
	return Layout("Preview - fontdue", head, rootStyle,
		h.H1(g.Text("Preview: "+f.Name)),
		h.Div(h.Class("section preview"),
			h.P(h.Class("preview-display"), g.Text("The quick brown fox jumps over the lazy dog")),
			h.P(h.Class("preview-body"), g.Text("Sphinx of black quartz, judge my vow. 0123456789")),
			h.Pre(h.Class("preview-mono"), g.Text("func main() { fmt.Println(\"fontdue\") }")),
		),
		h.Div(h.Class("section"),
			h.H2(g.Text("Details")),
			h.P(g.Text("Family: "+f.Family)),
			h.P(g.Text("Source: "+string(f.Source))),
			h.P(g.Text("Weights: "+weightsLabel(f.Weights))),
			h.P(g.Text("Stack: "+font.PreviewFamily(f))),
		),
	)
}

// JobsPage renders the catalog refresh job monitor.
func JobsPage() g.Node {
	return Layout("Refresh Jobs - fontdue", nil, "",
		data.Signals(map[string]any{
			"stats":   map[string]int{},
			"filter":  "all",
			"loading": true,
			"result":  "",
		}),
		data.Init("@get('/api/ui/jobs')"),

		h.H1(g.Text("Catalog Refresh Jobs")),

		h.Div(h.Class("stats-grid"),
			StatCard("pending", "Pending"),
			StatCard("retry", "Retry"),
			StatCard("done", "Done"),
			StatCard("failed", "Failed"),
		),

		h.Div(h.Class("actions section"),
			h.Button(data.On("click", "@post('/api/ui/catalogs/google/refresh')"), g.Text("Refresh Google")),
			h.Button(data.On("click", "@post('/api/ui/catalogs/bunny/refresh')"), g.Text("Refresh Bunny")),
		),
		h.Div(h.Class("result"), data.Show("$result"), data.Text("$result")),

		h.Div(h.Class("filter-bar"),
			g.Map([]string{"all", "pending", "retry", "done", "failed"}, func(status string) g.Node {
				return h.Button(
					data.On("click", "$filter = '"+status+"'; @get('/api/ui/jobs')"),
					data.Class("active", "$filter === '"+status+"'"),
					g.Text(strings.ToUpper(status[:1])+status[1:]),
				)
			}),
		),

		h.Div(h.Class("refresh-bar"),
			data.OnInterval("@get('/api/ui/jobs')", data.ModifierDuration, data.Duration(5*time.Second)),
			g.Text("Auto-refresh: 5s"),
		),

		h.Div(h.ID("job-items"), data.Show("!$loading")),
	)
}

// StatCard renders a statistics card.
func StatCard(key, label string) g.Node {
	return h.Div(h.Class("stat-card"),
		h.Div(h.Class("stat-value"), data.Text("$stats."+key+" || 0")),
		h.Div(h.Class("stat-label"), g.Text(label)),
	)
}

// JobItems renders the refresh job table.
func JobItems(jobs []types.RefreshJobResponse) g.Node {
	if len(jobs) == 0 {
		return h.Div(h.ID("job-items"),
			h.P(h.Class("hint"), h.StyleAttr("padding:2rem;text-align:center;"), g.Text("No refresh jobs")),
		)
	}

	return h.Div(h.ID("job-items"), h.Class("section"),
		h.Table(
			h.THead(h.Tr(
				h.Th(g.Text("Source")),
				h.Th(g.Text("Status")),
				h.Th(g.Text("Attempts")),
				h.Th(g.Text("Fonts")),
				h.Th(g.Text("Created")),
				h.Th(g.Text("Error")),
			)),
			h.TBody(g.Map(jobs, func(j types.RefreshJobResponse) g.Node {
				return h.Tr(
					h.Td(g.Text(j.Source)),
					h.Td(h.Span(h.StyleAttr("font-weight:600;color:"+statusColor(j.Status)), g.Text(j.Status))),
					h.Td(g.Textf("%d/%d", j.Attempts, j.MaxAttempts)),
					h.Td(g.Textf("%d", j.FontCount)),
					h.Td(g.Text(j.CreatedAt)),
					h.Td(g.Text(j.Error)),
				)
			})),
		),
	)
}

func statusColor(status string) string {
	switch status {
	case "done":
		return "var(--success)"
	case "failed":
		return "var(--danger)"
	case "pending":
		return "var(--warning)"
	case "retry":
		return "var(--primary)"
	default:
		return "var(--text-muted)"
	}
}

func weightsLabel(weights []int) string {
	parts := make([]string, 0, len(weights))
	for _, w := range weights {
		parts = append(parts, strconv.Itoa(w))
	}
	return strings.Join(parts, ", ")
}

const styles = `
:root {
	--primary: #6366f1;
	--primary-dark: #4f46e5;
	--success: #10b981;
	--warning: #f59e0b;
	--danger: #ef4444;
	--bg: #f8fafc;
	--card-bg: #ffffff;
	--text: #1e293b;
	--text-muted: #64748b;
	--border: #e2e8f0;
	--preview-font: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
	--preview-font-mono: "SF Mono", Monaco, Consolas, monospace;
}

* {
	box-sizing: border-box;
	margin: 0;
	padding: 0;
}

body {
	font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
	background: var(--bg);
	color: var(--text);
	line-height: 1.6;
}

.navbar {
	background: var(--primary);
	color: white;
	padding: 1rem 2rem;
	display: flex;
	justify-content: space-between;
	align-items: center;
	box-shadow: 0 2px 4px rgba(0,0,0,0.1);
}

.nav-brand {
	font-size: 1.5rem;
	font-weight: bold;
}

.nav-links a {
	color: white;
	text-decoration: none;
	margin-left: 2rem;
	opacity: 0.9;
}

.container {
	max-width: 1200px;
	margin: 0 auto;
	padding: 2rem;
}

.footer {
	text-align: center;
	padding: 2rem;
	color: var(--text-muted);
	border-top: 1px solid var(--border);
	margin-top: 2rem;
}

h1 {
	margin-bottom: 1.5rem;
}

h2 {
	margin-bottom: 1rem;
	font-size: 1.25rem;
}

.section {
	background: var(--card-bg);
	border-radius: 12px;
	padding: 1.5rem;
	margin-bottom: 1.5rem;
	border: 1px solid var(--border);
}

.actions {
	display: flex;
	gap: 1rem;
	flex-wrap: wrap;
}

button {
	background: var(--primary);
	color: white;
	border: none;
	padding: 0.5rem 1rem;
	border-radius: 8px;
	cursor: pointer;
	font-size: 0.9rem;
	font-weight: 500;
}

button:hover {
	background: var(--primary-dark);
}

button.active {
	background: var(--primary-dark);
	box-shadow: inset 0 2px 4px rgba(0,0,0,0.2);
}

button.danger {
	background: var(--danger);
}

.font-grid {
	display: grid;
	grid-template-columns: repeat(auto-fill, minmax(220px, 1fr));
	gap: 1rem;
}

.font-card {
	background: var(--card-bg);
	border: 1px solid var(--border);
	border-radius: 10px;
	padding: 1rem;
}

.font-card.active {
	border-color: var(--primary);
	box-shadow: 0 0 0 2px rgba(99, 102, 241, 0.3);
}

.font-card h3 {
	font-size: 1rem;
	margin-bottom: 0.25rem;
}

.font-card p {
	font-size: 0.8rem;
	color: var(--text-muted);
	margin-bottom: 0.5rem;
}

.font-sample {
	font-size: 2.5rem;
	line-height: 1.2;
}

.card-actions {
	display: flex;
	gap: 0.5rem;
}

.stats-grid {
	display: grid;
	grid-template-columns: repeat(auto-fit, minmax(160px, 1fr));
	gap: 1.5rem;
	margin-bottom: 2rem;
}

.stat-card {
	background: var(--card-bg);
	border-radius: 12px;
	padding: 1.5rem;
	text-align: center;
	border: 1px solid var(--border);
}

.stat-value {
	font-size: 2.5rem;
	font-weight: bold;
	color: var(--primary);
}

.stat-label {
	color: var(--text-muted);
	font-size: 0.875rem;
	text-transform: uppercase;
	letter-spacing: 0.05em;
}

.filter-bar {
	display: flex;
	gap: 0.5rem;
	margin-bottom: 1rem;
}

.filter-bar input,
.filter-bar select {
	padding: 0.5rem 0.75rem;
	border: 1px solid var(--border);
	border-radius: 8px;
	font-size: 1rem;
}

.filter-bar input {
	flex: 1;
}

.refresh-bar {
	color: var(--text-muted);
	font-size: 0.875rem;
	margin-bottom: 1rem;
}

.hint {
	color: var(--text-muted);
	font-style: italic;
}

.loading {
	padding: 2rem;
	text-align: center;
	color: var(--text-muted);
}

.loading-spinner {
	display: inline-block;
	width: 16px;
	height: 16px;
	border: 2px solid var(--border);
	border-top-color: var(--primary);
	border-radius: 50%;
	animation: spin 1s linear infinite;
}

@keyframes spin {
	to { transform: rotate(360deg); }
}

.result {
	margin-bottom: 1rem;
	padding: 1rem;
	border-radius: 8px;
	background: var(--card-bg);
	border: 1px solid var(--border);
}

.preview-display {
	font-family: var(--preview-font);
	font-size: 3rem;
	line-height: 1.2;
	margin-bottom: 1rem;
}

.preview-body {
	font-family: var(--preview-font);
	font-size: 1.25rem;
	margin-bottom: 1rem;
}

.preview-mono {
	font-family: var(--preview-font-mono);
	background: var(--bg);
	padding: 1rem;
	border-radius: 8px;
}

table {
	width: 100%;
	border-collapse: collapse;
}

th, td {
	text-align: left;
	padding: 0.75rem 1rem;
	border-bottom: 1px solid var(--border);
	font-size: 0.875rem;
}

@media (max-width: 768px) {
	.nav-links a {
		margin-left: 1rem;
	}
}
`
