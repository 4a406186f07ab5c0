package apiv1

import (
	"net/http"

	"insuretech-wallet/internal/infra/api"
)

func (s *Server) listAvailableSlots(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathID(r, "planId")
	if !ok {
		s.badRequest(w, r, "Validation failed (numeric string is expected)")
		return
	}
	slots, err := s.slots.ListAvailable(r.Context(), planID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	api.WriteData(w, http.StatusOK, nonNil(slots))
}

func (s *Server) getSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.badRequest(w, r, "Validation failed (numeric string is expected)")
		return
	}
	slot, err := s.slots.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	api.WriteData(w, http.StatusOK, slot)
}
