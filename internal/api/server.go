// Package api is the HTTP surface of the report lifecycle.
package api

import (
	"context"
	"log"
	"net/http"

	"participium/internal/domain"
	"participium/internal/linking"
	"participium/internal/reports"

	"github.com/go-chi/chi/v5"
)

// ReportService is the lifecycle engine as seen by the HTTP handlers.
type ReportService interface {
	CreateReport(ctx context.Context, reporterID string, draft domain.Draft, limits domain.PhotoLimits) (*domain.Report, error)
	ApproveReport(ctx context.Context, reportID, approverID string, newCategory *domain.Category) (reports.ApproveResult, error)
	RejectReport(ctx context.Context, reportID, reason, approverID string) (*domain.Report, error)
	GetAllReports(ctx context.Context, actorID string, status *domain.Status, category *domain.Category) ([]domain.Report, error)
	GetMyAssignedReports(ctx context.Context, actorID string, status *domain.Status) ([]domain.Report, error)
	GetReport(ctx context.Context, actorID, reportID string) (*domain.Report, error)
	GetCategories() []domain.Category
	UpdateReportStatus(ctx context.Context, reportID, actorID string, newStatus domain.Status, reason, maintainerID string) (*domain.Report, error)
}

// LinkIssuer hands out Telegram link codes.
type LinkIssuer interface {
	Issue(ctx context.Context, userID string) (linking.Issued, error)
}

// Server wires the routes to their services.
type Server struct {
	reports   ReportService
	linker    LinkIssuer
	tokens    TokenValidator
	uploadDir string
	router    chi.Router
}

// NewServer builds the router. uploadDir may be empty when photos are not served locally.
func NewServer(reports ReportService, linker LinkIssuer, tokens TokenValidator, uploadDir string) *Server {
	if reports == nil || linker == nil || tokens == nil {
		log.Fatal("Report service, link issuer and token validator must be provided to NewServer")
	}
	s := &Server{
		reports:   reports,
		linker:    linker,
		tokens:    tokens,
		uploadDir: uploadDir,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.uploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadDir))))
	}

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.tokens))

		r.Route("/reports", func(r chi.Router) {
			r.Post("/", s.handleCreateReport)
			r.Get("/", s.handleListReports)
			r.Get("/categories", s.handleCategories)
			r.Get("/assigned/me", s.handleAssignedToMe)
			r.Get("/{id}", s.handleGetReport)
			r.Put("/{id}/approve", s.handleApprove)
			r.Put("/{id}/reject", s.handleReject)
			r.Put("/{id}/status", s.handleUpdateStatus)
		})

		r.Post("/users/me/telegram/link-code", s.handleLinkCode)
	})

	return r
}
