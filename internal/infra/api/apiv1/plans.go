package apiv1

import (
	"net/http"
	"strings"

	"insuretech-wallet/internal/infra/api"
	"insuretech-wallet/internal/usecase"
)

type createPlanRequest struct {
	UserID      *int64  `json:"userId"`
	ProductID   *int64  `json:"productId"`
	Quantity    *int    `json:"quantity"`
	Description *string `json:"description"`
}

func (req createPlanRequest) validate() string {
	var problems []string
	if req.UserID == nil || *req.UserID <= 0 {
		problems = append(problems, "userId must be a positive number")
	}
	if req.ProductID == nil || *req.ProductID <= 0 {
		problems = append(problems, "productId must be a positive number")
	}
	if req.Quantity == nil || *req.Quantity <= 0 {
		problems = append(problems, "quantity must be a positive number")
	}
	return strings.Join(problems, "; ")
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.badRequest(w, r, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		s.badRequest(w, r, msg)
		return
	}
	in := usecase.PurchaseInput{UserID: *req.UserID, ProductID: *req.ProductID, Quantity: *req.Quantity}
	if req.Description != nil {
		in.Description = *req.Description
	}

	plan, err := s.purchase.Purchase(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	api.WriteData(w, http.StatusCreated, plan)
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.badRequest(w, r, "Validation failed (numeric string is expected)")
		return
	}
	plan, err := s.plans.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	api.WriteData(w, http.StatusOK, plan)
}

func (s *Server) listPlansByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		s.badRequest(w, r, "Validation failed (numeric string is expected)")
		return
	}
	plans, err := s.plans.ListByUser(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	api.WriteData(w, http.StatusOK, nonNil(plans))
}

// nonNil keeps empty collections as [] on the wire.
func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
