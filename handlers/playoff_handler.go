package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Cienszki/automatic-tournament-sub001/models"
	"github.com/Cienszki/automatic-tournament-sub001/services"
)

type PlayoffHandler struct {
	playoffService services.PlayoffService
}

func NewPlayoffHandler(playoffService services.PlayoffService) *PlayoffHandler {
	return &PlayoffHandler{playoffService: playoffService}
}

type initializePlayoffRequest struct {
	Name string `json:"name"`
}

func (h *PlayoffHandler) InitializeHandler(w http.ResponseWriter, r *http.Request) {
	var input initializePlayoffRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	playoff, err := h.playoffService.Initialize(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"playoff": playoff}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayoffHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	playoffs, err := h.playoffService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"playoffs": playoffs}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayoffHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	playoffID := chi.URLParam(r, "playoffID")

	playoff, err := h.playoffService.Get(r.Context(), playoffID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"playoff": playoff}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type assignTeamRequest struct {
	SlotID      string `json:"slot_id"`
	BracketType string `json:"bracket_type"`
	TeamID      string `json:"team_id"` // empty clears the slot
}

func (h *PlayoffHandler) AssignTeamHandler(w http.ResponseWriter, r *http.Request) {
	playoffID := chi.URLParam(r, "playoffID")

	var input assignTeamRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	playoff, err := h.playoffService.AssignTeam(r.Context(), playoffID,
		models.BracketType(input.BracketType), input.SlotID, input.TeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"playoff": playoff}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type setFormatRequest struct {
	Format string `json:"format"`
}

func (h *PlayoffHandler) SetFormatHandler(w http.ResponseWriter, r *http.Request) {
	playoffID := chi.URLParam(r, "playoffID")
	matchID := chi.URLParam(r, "matchID")

	var input setFormatRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	playoff, err := h.playoffService.SetFormat(r.Context(), playoffID, matchID, models.MatchFormat(input.Format))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"playoff": playoff}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayoffHandler) MarkLiveHandler(w http.ResponseWriter, r *http.Request) {
	playoffID := chi.URLParam(r, "playoffID")
	matchID := chi.URLParam(r, "matchID")

	playoff, err := h.playoffService.MarkLive(r.Context(), playoffID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"playoff": playoff}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type processResultRequest struct {
	WinnerID   string `json:"winner_id"`
	LoserID    string `json:"loser_id"`
	TeamAScore int    `json:"team_a_score"`
	TeamBScore int    `json:"team_b_score"`
}

func (h *PlayoffHandler) ProcessResultHandler(w http.ResponseWriter, r *http.Request) {
	playoffID := chi.URLParam(r, "playoffID")
	matchID := chi.URLParam(r, "matchID")

	var input processResultRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	playoff, err := h.playoffService.ProcessResult(r.Context(), playoffID, matchID,
		input.WinnerID, input.LoserID, input.TeamAScore, input.TeamBScore)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"playoff": playoff}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayoffHandler) CompleteSetupHandler(w http.ResponseWriter, r *http.Request) {
	playoffID := chi.URLParam(r, "playoffID")

	playoff, err := h.playoffService.CompleteSetup(r.Context(), playoffID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"playoff": playoff}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayoffHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	playoffID := chi.URLParam(r, "playoffID")

	playoff, err := h.playoffService.Reset(r.Context(), playoffID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"playoff": playoff}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
