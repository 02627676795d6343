package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"pacelineAPI/internal/types/challenge"
	"pacelineAPI/services"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
	templateService  *services.TemplateService
}

func NewChallengeHandler(challengeService *services.ChallengeService, templateService *services.TemplateService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		templateService:  templateService,
	}
}

// GenerateSeasonChallenges replaces the whole challenge table with a fresh
// generation for the posted season. No store call happens unless the
// payload parses.
func (h *ChallengeHandler) GenerateSeasonChallenges(w http.ResponseWriter, r *http.Request) {
	var payload challenge.GeneratePayload
	if r.Body == nil {
		respondWithError(w, http.StatusBadRequest, "Bad request. No data found.")
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Bad request. No data found.")
		return
	}

	startDate, err := time.Parse("2006-01-02", payload.StartDate)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD")
		return
	}

	count, err := h.challengeService.ReplaceSeason(r.Context(), payload.SeasonID, startDate, payload.Buckets)
	if err != nil {
		log.Printf("Error processing season %s: %v", payload.SeasonID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to process data due to an internal error.")
		return
	}

	log.Printf("Season %s: generated %d challenges", payload.SeasonID, count)
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Challenges created successfully."})
}

// RefreshTemplates drops the in-memory template catalog and reloads it, so
// authoring changes land without a restart.
func (h *ChallengeHandler) RefreshTemplates(w http.ResponseWriter, r *http.Request) {
	h.templateService.Invalidate()

	templates, err := h.templateService.GetAll(r.Context())
	if err != nil {
		log.Printf("Error reloading templates: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to reload templates")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Template cache refreshed.",
		"count":   len(templates),
	})
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
