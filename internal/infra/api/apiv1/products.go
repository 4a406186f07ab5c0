package apiv1

import (
	"net/http"

	"insuretech-wallet/internal/infra/api"
)

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	api.WriteData(w, http.StatusOK, nonNil(products))
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.badRequest(w, r, "Validation failed (numeric string is expected)")
		return
	}
	product, err := s.products.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	api.WriteData(w, http.StatusOK, product)
}
