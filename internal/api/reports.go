package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"participium/internal/domain"
	"participium/internal/photos"
	"participium/internal/reports"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds request bodies; three inline photos fit comfortably.
const maxBodyBytes = 32 << 20

type createReportRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Location    *reports.LocationDTO `json:"location"`
	Address     string               `json:"address"`
	Photos      []string             `json:"photos"`
	IsAnonymous bool                 `json:"isAnonymous"`
}

type approveRequest struct {
	Category *string `json:"category"`
}

type approveResponse struct {
	Report         reports.ReportDTO `json:"report"`
	NoOfficerFound bool              `json:"noOfficerFound"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type statusRequest struct {
	Status       string `json:"status"`
	Reason       string `json:"reason"`
	MaintainerID string `json:"maintainerId"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	return readJSON(w, r, dst, false)
}

// decodeOptionalBody is decodeBody for endpoints where the body may be absent.
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	return readJSON(w, r, dst, true)
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	writeError(w, http.StatusBadRequest, "Invalid request body")
	return false
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	draft := domain.Draft{
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.Category(req.Category),
		Address:     req.Address,
		IsAnonymous: req.IsAnonymous,
	}
	if req.Location != nil {
		draft.Location = &domain.Location{Latitude: req.Location.Latitude, Longitude: req.Location.Longitude}
	}
	for _, uri := range req.Photos {
		data, err := photos.ParseDataURI(uri)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		draft.Photos = append(draft.Photos, data)
	}

	report, err := s.reports.CreateReport(r.Context(), ActorFromContext(r.Context()), draft, domain.WebPhotoLimits)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reports.ToDTO(report))
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	status, ok := statusFilter(w, r)
	if !ok {
		return
	}
	var category *domain.Category
	if raw := r.URL.Query().Get("category"); raw != "" {
		c := domain.Category(raw)
		if err := domain.ValidateCategory(c); err != nil {
			writeDomainError(w, r, err)
			return
		}
		category = &c
	}

	list, err := s.reports.GetAllReports(r.Context(), ActorFromContext(r.Context()), status, category)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.ToDTOs(list))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reports.GetCategories())
}

func (s *Server) handleAssignedToMe(w http.ResponseWriter, r *http.Request) {
	status, ok := statusFilter(w, r)
	if !ok {
		return
	}
	list, err := s.reports.GetMyAssignedReports(r.Context(), ActorFromContext(r.Context()), status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.ToDTOs(list))
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.GetReport(r.Context(), ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.ToDTO(report))
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if !decodeOptionalBody(w, r, &req) {
		return
	}
	var category *domain.Category
	if req.Category != nil && *req.Category != "" {
		c := domain.Category(*req.Category)
		category = &c
	}

	res, err := s.reports.ApproveReport(r.Context(), chi.URLParam(r, "id"), ActorFromContext(r.Context()), category)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, approveResponse{Report: reports.ToDTO(res.Report), NoOfficerFound: res.NoOfficerFound})
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	report, err := s.reports.RejectReport(r.Context(), chi.URLParam(r, "id"), req.Reason, ActorFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.ToDTO(report))
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	report, err := s.reports.UpdateReportStatus(r.Context(), chi.URLParam(r, "id"), ActorFromContext(r.Context()), status, req.Reason, req.MaintainerID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.ToDTO(report))
}

// statusFilter parses the optional ?status= query parameter.
func statusFilter(w http.ResponseWriter, r *http.Request) (*domain.Status, bool) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, true
	}
	st, err := domain.ParseStatus(raw)
	if err != nil {
		writeDomainError(w, r, err)
		return nil, false
	}
	return &st, true
}
