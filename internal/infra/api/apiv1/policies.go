package apiv1

import (
	"net/http"
	"strconv"

	"insuretech-wallet/internal/infra/api"
	"insuretech-wallet/internal/usecase"
)

type activateRequest struct {
	UserID      *int64  `json:"userId"`
	Description *string `json:"description"`
}

func (s *Server) activate(w http.ResponseWriter, r *http.Request) {
	slotID, ok := pathID(r, "pendingPolicyId")
	if !ok {
		s.badRequest(w, r, "Validation failed (numeric string is expected)")
		return
	}
	var req activateRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.badRequest(w, r, err.Error())
		return
	}
	if req.UserID == nil || *req.UserID <= 0 {
		s.badRequest(w, r, "userId must be a positive number")
		return
	}
	in := usecase.ActivateInput{PendingSlotID: slotID, UserID: *req.UserID}
	if req.Description != nil {
		in.Description = *req.Description
	}

	policy, err := s.activation.Activate(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	api.WriteData(w, http.StatusCreated, policy)
}

// listPolicies filters by ?planId= and otherwise hands over to all, which is
// guarded separately.
func (s *Server) listPolicies(all http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("planId")
		if raw == "" {
			all.ServeHTTP(w, r)
			return
		}
		planID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || planID <= 0 {
			s.badRequest(w, r, "planId must be a positive number")
			return
		}
		policies, err := s.policies.ListByPlan(r.Context(), planID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		api.WriteData(w, http.StatusOK, nonNil(policies))
	}
}

func (s *Server) listAllPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := s.policies.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	api.WriteData(w, http.StatusOK, nonNil(policies))
}

func (s *Server) getPolicy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.badRequest(w, r, "Validation failed (numeric string is expected)")
		return
	}
	policy, err := s.policies.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	api.WriteData(w, http.StatusOK, policy)
}

func (s *Server) listPoliciesByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		s.badRequest(w, r, "Validation failed (numeric string is expected)")
		return
	}
	policies, err := s.policies.ListByUser(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	api.WriteData(w, http.StatusOK, nonNil(policies))
}
