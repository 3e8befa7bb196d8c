package httpserver

import (
	"context"
	"fmt"
	"net/http"
)

// handleResource routes one resource request through the cache router
func (s *Server) handleResource(w http.ResponseWriter, r *http.Request) {
	var req ResourceRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		s.writeErrorResponse(w, "Missing required field: url", http.StatusBadRequest)
		return
	}

	resp, err := s.assets.Request(r.Context(), req.URL)
	if err != nil {
		// Only api-class failures with no cached fallback reach here
		s.writeErrorResponse(w, fmt.Sprintf("Resource unavailable: %v", err), http.StatusBadGateway)
		return
	}

	s.writeResponse(w, &ResourceResponse{
		Success:     true,
		Status:      resp.Status,
		ContentType: resp.ContentType,
		Body:        resp.Body,
		Class:       string(resp.Class),
		FromCache:   resp.FromCache,
		Fresh:       resp.Fresh,
		Synthetic:   resp.Synthetic,
	})
}

// handleRender enters an image into the progressive reveal pipeline
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Ref == "" || req.Source.URL == "" {
		s.writeErrorResponse(w, "Missing required fields: ref, source.url", http.StatusBadRequest)
		return
	}

	s.loader.Load(r.Context(), req.Ref, req.Source)
	s.writeResponse(w, map[string]interface{}{"success": true})
}

// handleAssignments returns the session's page-slot image assignment
func (s *Server) handleAssignments(w http.ResponseWriter, r *http.Request) {
	var req AssignmentsRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if len(req.Pool) == 0 {
		s.writeErrorResponse(w, "Missing required field: pool", http.StatusBadRequest)
		return
	}

	s.writeResponse(w, &AssignmentsResponse{
		Success:     true,
		Assignments: s.images.AssignImages(req.Pool),
	})
}

// handleProxyURL builds a rate-limited image proxy URL. The handler blocks
// for the remaining cooldown; requests are delayed, never dropped.
func (s *Server) handleProxyURL(w http.ResponseWriter, r *http.Request) {
	var req ProxyURLRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.FileID == "" {
		s.writeErrorResponse(w, "Missing required field: file_id", http.StatusBadRequest)
		return
	}

	cached := s.images.IsCached(req.FileID)
	url, err := s.images.BuildProxyURL(r.Context(), req.FileID, req.Size, req.Quality)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Proxy URL error: %v", err), http.StatusBadGateway)
		return
	}

	s.writeResponse(w, &ProxyURLResponse{
		Success: true,
		URL:     url,
		Cached:  cached,
	})
}

// handlePageReady triggers a warming pass; overlapping triggers are no-ops
func (s *Server) handlePageReady(w http.ResponseWriter, r *http.Request) {
	var req PageReadyRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}

	// The pass outlives this request, so it must not inherit its context
	started := false
	if !s.warm.IsWarming() {
		started = true
		go s.warm.Warm(context.Background(), req.Speculative)
	}

	s.writeResponse(w, &PageReadyResponse{
		Success: true,
		Started: started,
		State:   s.warm.State().String(),
	})
}

// handleScroll feeds a scroll-position update to the prefetcher
func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	var req ScrollRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}

	issued := s.prefetcher.OnScroll(r.Context(), req.Page, req.Depth, req.Images, req.NextPage)
	s.writeResponse(w, &ScrollResponse{Success: true, Issued: issued})
}

// handleNavigate records a completed navigation for the learning model
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.From == "" || req.To == "" {
		s.writeErrorResponse(w, "Missing required fields: from, to", http.StatusBadRequest)
		return
	}

	s.prefetcher.OnNavigate(req.From, req.To)
	s.writeResponse(w, map[string]interface{}{"success": true})
}

// handleConnection updates the reported connection profile
func (s *Server) handleConnection(w http.ResponseWriter, r *http.Request) {
	var req ConnectionRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}

	s.sampler.Update(req.Profile)
	s.writeResponse(w, map[string]interface{}{"success": true})
}

// handleMetric records one page-reported performance sample
func (s *Server) handleMetric(w http.ResponseWriter, r *http.Request) {
	var req MetricRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := s.monitor.Record(req.Kind, req.Value); err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.writeResponse(w, map[string]interface{}{"success": true})
}

// handlePerf returns the performance monitor snapshot
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, s.monitor.Snapshot())
}
