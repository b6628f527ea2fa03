package server

import "github.com/joeblew999/fontdue/pkg/refresh"

// refreshService adapts refresh.Engine to the service.Service interface.
type refreshService struct {
	engine  *refresh.Engine
	workers int
}

func newRefreshService(engine *refresh.Engine, workers int) *refreshService {
	if workers <= 0 {
		workers = 1
	}
	return &refreshService{engine: engine, workers: workers}
}

func (s *refreshService) Start() {
	s.engine.Start(s.workers)
}

func (s *refreshService) Stop() {
	s.engine.Stop()
}
