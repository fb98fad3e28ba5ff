package server

import (
	"net/http"
)

// IndexHandler renders the home page
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := s.sessionFor(w, r)
		data := s.pageData(r, "Save together")
		if store.IsAuthenticated(r.Context()) {
			stage, _ := store.RegistrationStage(r.Context())
			data.Authenticated = true
			data.NextRoute = landingRoute(stage)
		}
		render(w, tmpl, http.StatusOK, data)
	}
}
