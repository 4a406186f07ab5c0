package apiv1

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"insuretech-wallet/internal/infra/api"
	"insuretech-wallet/internal/infra/logging"
	red "insuretech-wallet/internal/infra/redis"
	"insuretech-wallet/internal/usecase"
)

// Server holds the use cases behind the v1 routes.
type Server struct {
	purchase   usecase.PurchaseUseCase
	activation usecase.ActivationUseCase
	plans      usecase.PlanUseCase
	slots      usecase.SlotUseCase
	policies   usecase.PolicyUseCase
	products   usecase.ProductUseCase
	users      usecase.UserUseCase
	log        *zerolog.Logger
}

func NewServer(
	purchase usecase.PurchaseUseCase,
	activation usecase.ActivationUseCase,
	plans usecase.PlanUseCase,
	slots usecase.SlotUseCase,
	policies usecase.PolicyUseCase,
	products usecase.ProductUseCase,
	users usecase.UserUseCase,
	logger *zerolog.Logger,
) *Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Server{
		purchase:   purchase,
		activation: activation,
		plans:      plans,
		slots:      slots,
		policies:   policies,
		products:   products,
		users:      users,
		log:        logger,
	}
}

// RouterConfig carries the cross-cutting pieces of the router. Zero values disable them.
type RouterConfig struct {
	Timeout    time.Duration
	Limiter    api.Limiter
	RateLimit  int
	RateWindow time.Duration
	Auth       *api.AuthManager
	Metrics    http.Handler
	// Health reports dependency readiness for /health.
	Health func(ctx context.Context) error
}

// NewRouter mounts the v1 routes and middleware chain.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(
		api.TraceID(),
		api.RequestLog(s.log),
		api.Recover(s.log),
	)
	if cfg.Timeout > 0 {
		r.Use(api.Timeout(cfg.Timeout))
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.WriteError(w, r, http.StatusNotFound, "Cannot "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.WriteError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", s.health(cfg.Health))
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	limited := api.RateLimit(cfg.Limiter, cfg.RateLimit, cfg.RateWindow, red.ClientRouteKey, s.log)
	admin := api.AdminOnly(cfg.Auth, s.log)

	r.Route("/plans", func(r chi.Router) {
		r.With(limited).Post("/", s.createPlan)
		r.Get("/{id}", s.getPlan)
		r.Get("/user/{userId}", s.listPlansByUser)
	})
	r.Route("/pending-policies", func(r chi.Router) {
		r.Get("/plan/{planId}", s.listAvailableSlots)
		r.Get("/{id}", s.getSlot)
	})
	r.Route("/policies", func(r chi.Router) {
		r.With(limited).Post("/activate/{pendingPolicyId}", s.activate)
		r.Get("/", s.listPolicies(admin(http.HandlerFunc(s.listAllPolicies))))
		r.Get("/{id}", s.getPolicy)
		r.Get("/user/{userId}", s.listPoliciesByUser)
	})
	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.listProducts)
		r.Get("/{id}", s.getProduct)
	})
	r.Get("/users/{id}", s.getUser)
	return r
}

func (s *Server) health(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				l := logging.With(r.Context(), s.log)
				l.Warn().Err(err).Msg("health check failed")
				api.WriteError(w, r, http.StatusServiceUnavailable, "Service unavailable")
				return
			}
		}
		api.WriteData(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// fail logs server faults and writes the mapped failure envelope.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		l := logging.With(r.Context(), s.log)
		l.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	api.WriteError(w, r, code, messageFor(err))
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	api.WriteError(w, r, http.StatusBadRequest, msg)
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("request body is not valid JSON")
	}
	return nil
}
