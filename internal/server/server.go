package server

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/joeblew999/fontdue/internal/config"
	"github.com/joeblew999/fontdue/internal/errorx"
	"github.com/joeblew999/fontdue/internal/handler"
	"github.com/joeblew999/fontdue/internal/svc"
	"github.com/joeblew999/fontdue/internal/ui"
	"github.com/joeblew999/fontdue/pkg/catalog"
	"github.com/joeblew999/fontdue/pkg/db"
	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
	"github.com/zeromicro/go-zero/core/proc"
	"github.com/zeromicro/go-zero/core/prometheus"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/mcp"
	"github.com/zeromicro/go-zero/rest"
)

// Server wraps the MCP server and font collection services.
type Server struct {
	config config.Config
	group  *service.ServiceGroup
}

// New creates a new server instance.
func New(c config.Config) (*Server, error) {
	// Register global error handler for proper HTTP status codes
	errorx.RegisterErrorHandler()

	// Enable go-zero prometheus metrics (required for metric.CounterVec/HistogramVec/GaugeVec to record)
	prometheus.Enable()

	// Create MCP server
	mcpServer := mcp.NewMcpServer(c.McpConf)

	// Parallel initialization: database opening and catalog checks are independent
	var database *db.DB

	err := mr.Finish(
		func() error {
			var e error
			database, e = db.Open(c.Database.Path)
			return e
		},
		func() error {
			return checkCatalogs(c.Catalogs.Dir)
		},
	)
	if err != nil {
		if database != nil {
			database.Close()
		}
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}

	svcCtx, err := svc.NewServiceContext(c, database)
	if err != nil {
		database.Close()
		return nil, err
	}
	if err := svcCtx.Bootstrap(context.Background()); err != nil {
		database.Close()
		return nil, err
	}

	// Register MCP tools
	RegisterMCPTools(mcpServer, svcCtx)

	// Create UI rest server (Datastar web UI) with CORS
	uiServer, err := rest.NewServer(c.UI.RestConf, rest.WithCors("*"))
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create UI server: %w", err)
	}

	uiHandlers := ui.NewHandlers(svcCtx)
	uiServer.AddRoutes(uiHandlers.Routes())
	uiServer.AddRoutes(uiHandlers.SSERoutes(), rest.WithSSE())

	// Create API rest server (JSON REST API) with CORS
	apiServer, err := rest.NewServer(c.API.RestConf, rest.WithCors("*"))
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create API server: %w", err)
	}

	handler.RegisterHandlers(apiServer, svcCtx)

	// Expose Prometheus metrics endpoint
	apiServer.AddRoute(rest.Route{
		Method:  http.MethodGet,
		Path:    "/metrics",
		Handler: promhttp.Handler().ServeHTTP,
	})

	// Watch the curated catalog directory for edits
	watchCtx, stopWatch := context.WithCancel(context.Background())
	if c.Catalogs.Dir != "" && c.Catalogs.Watch {
		go func() {
			if err := svcCtx.Catalogs.Watch(watchCtx, c.Catalogs.Dir); err != nil {
				logx.Errorf("Catalog watcher stopped: %v", err)
			}
		}()
	}

	// Register cleanup via proc shutdown listeners
	proc.AddShutdownListener(func() {
		logx.Info("Closing database")
		database.Close()
	})
	proc.AddShutdownListener(stopWatch)
	if svcCtx.Queue.Events != nil {
		proc.AddShutdownListener(func() {
			logx.Info("Flushing refresh events")
			svcCtx.Queue.Events.Flush()
		})
	}

	// Build service group: refresh + UI + API + MCP (stopped in reverse order)
	group := service.NewServiceGroup()
	group.Add(newRefreshService(svcCtx.Refresh, c.Refresh.Workers))
	group.Add(uiServer)
	group.Add(apiServer)
	group.Add(mcpServer)

	logx.Infow("fontdue server configured",
		logx.Field("mcp", fmt.Sprintf("http://%s:%d/sse", c.Host, c.Port)),
		logx.Field("ui", fmt.Sprintf("http://%s:%d", c.UI.Host, c.UI.Port)),
		logx.Field("api", fmt.Sprintf("http://%s:%d/api/v1", c.API.Host, c.API.Port)),
		logx.Field("storage", c.Storage.Driver),
		logx.Field("database", c.Database.Path),
	)

	return &Server{config: c, group: group}, nil
}

// checkCatalogs fails when the catalog directory is unusable and warns
// about curated catalogs that will degrade to empty ones.
func checkCatalogs(dir string) error {
	resources := catalog.DefaultResources()
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("catalog directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("catalog directory %s is not a directory", dir)
		}
		resources = os.DirFS(dir)
	}

	for _, source := range font.CatalogSources {
		if _, err := fs.Stat(resources, catalog.CuratedPath(source)); err != nil {
			logx.Errorf("Curated %s catalog unavailable, it will be empty: %v", source, err)
		}
	}
	return nil
}

// Start starts all services. Blocks until shutdown signal.
func (s *Server) Start() {
	s.group.Start()
}

// Stop stops all services.
func (s *Server) Stop() {
	s.group.Stop()
}
