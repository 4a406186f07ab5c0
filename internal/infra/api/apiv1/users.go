package apiv1

import (
	"net/http"

	"insuretech-wallet/internal/infra/api"
)

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.badRequest(w, r, "Validation failed (numeric string is expected)")
		return
	}
	user, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	api.WriteData(w, http.StatusOK, user)
}
