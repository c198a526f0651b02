package server

func (s *Server) setupRoutes() {
	s.app.Get("/health", s.healthHandler)
	s.app.Post("/sync", s.syncHandler)
	s.app.Post("/dedup", s.dedupHandler)
	s.app.Get("/runs", s.runsHandler)
}
