package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lukman83/catalog-scrap/internal/catalog"
	"github.com/lukman83/catalog-scrap/internal/models"
	"github.com/lukman83/catalog-scrap/internal/storage"
)

type scrapeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
	RunID   string `json:"run_id,omitempty"`
	Pages   int    `json:"pages"`
	Stop    string `json:"stop,omitempty"`
}

type productsResponse struct {
	Count    int              `json:"count"`
	Products []models.Product `json:"products"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	run, err := s.svc.Scrape(r.Context())
	if errors.Is(err, catalog.ErrRunInProgress) {
		respondJSON(w, http.StatusConflict, scrapeResponse{Message: err.Error()})
		return
	}
	if err != nil {
		resp := scrapeResponse{Message: err.Error()}
		if run != nil {
			resp.Count, resp.RunID, resp.Pages, resp.Stop = len(run.Products), run.ID, run.Pages, string(run.Stop)
		}
		respondJSON(w, http.StatusInternalServerError, resp)
		return
	}

	msg := fmt.Sprintf("Scraped %d products from %d pages", len(run.Products), run.Pages)
	if run.StopErr != nil {
		msg += fmt.Sprintf(" (stopped early: %v)", run.StopErr)
	}
	respondJSON(w, http.StatusOK, scrapeResponse{
		Success: true,
		Message: msg,
		Count:   len(run.Products),
		RunID:   run.ID,
		Pages:   run.Pages,
		Stop:    string(run.Stop),
	})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := catalog.ParseFilter(
		q.Get("available"),
		q.Get("colour"),
		q.Get("min_capacity_mb"),
		q.Get("max_price"),
		q.Get("q"),
		q.Get("limit"),
	)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, err := s.svc.Products(r.Context(), f)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no catalog stored yet, POST /scrape first")
		return
	}
	if err != nil {
		s.opts.Logger.Error().Err(err).Msg("reading catalog failed")
		respondError(w, http.StatusInternalServerError, "failed to read catalog")
		return
	}

	respondJSON(w, http.StatusOK, productsResponse{Count: len(products), Products: products})
}
