package api

import "net/http"

func (s *Server) handleLinkCode(w http.ResponseWriter, r *http.Request) {
	issued, err := s.linker.Issue(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, issued)
}
