package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Cienszki/automatic-tournament-sub001/brackets"
	"github.com/Cienszki/automatic-tournament-sub001/models"
	"github.com/Cienszki/automatic-tournament-sub001/repositories"
	"github.com/Cienszki/automatic-tournament-sub001/storage"
)

// PlayoffService is the admin-action surface over the playoff aggregate.
// Every mutation is a full read-modify-write cycle: load the aggregate,
// mutate in memory, save it back as one document. The repository rejects the
// save if another writer got in between.
type PlayoffService interface {
	Initialize(ctx context.Context, name string) (*models.PlayoffData, error)
	Get(ctx context.Context, playoffID string) (*models.PlayoffData, error)
	List(ctx context.Context) ([]*models.PlayoffData, error)
	AssignTeam(ctx context.Context, playoffID string, bracketType models.BracketType, slotID, teamID string) (*models.PlayoffData, error)
	SetFormat(ctx context.Context, playoffID, matchID string, format models.MatchFormat) (*models.PlayoffData, error)
	MarkLive(ctx context.Context, playoffID, matchID string) (*models.PlayoffData, error)
	ProcessResult(ctx context.Context, playoffID, matchID, winnerID, loserID string, teamAScore, teamBScore int) (*models.PlayoffData, error)
	CompleteSetup(ctx context.Context, playoffID string) (*models.PlayoffData, error)
	Reset(ctx context.Context, playoffID string) (*models.PlayoffData, error)
}

type playoffService struct {
	playoffRepo repositories.PlayoffRepository
	generator   brackets.Generator
	hub         *brackets.Hub
	uploader    storage.FileUploader
	logger      *slog.Logger
}

func NewPlayoffService(
	playoffRepo repositories.PlayoffRepository,
	generator brackets.Generator,
	hub *brackets.Hub,
	uploader storage.FileUploader,
	logger *slog.Logger,
) PlayoffService {
	return &playoffService{
		playoffRepo: playoffRepo,
		generator:   generator,
		hub:         hub,
		uploader:    uploader,
		logger:      logger,
	}
}

func (s *playoffService) Initialize(ctx context.Context, name string) (*models.PlayoffData, error) {
	if name == "" {
		return nil, ErrPlayoffNameRequired
	}

	playoff, err := s.generator.Generate(brackets.GenerateParams{
		ID:   primitive.NewObjectID().Hex(),
		Name: name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate bracket: %w", err)
	}

	if err := s.playoffRepo.Create(ctx, playoff); err != nil {
		return nil, fmt.Errorf("failed to persist new playoff: %w", err)
	}

	s.logger.Info("playoff initialized",
		slog.String("playoff_id", playoff.ID),
		slog.String("generator", s.generator.GetName()))
	return playoff, nil
}

func (s *playoffService) Get(ctx context.Context, playoffID string) (*models.PlayoffData, error) {
	return s.load(ctx, playoffID)
}

func (s *playoffService) List(ctx context.Context) ([]*models.PlayoffData, error) {
	playoffs, err := s.playoffRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list playoffs: %w", err)
	}
	if playoffs == nil {
		return []*models.PlayoffData{}, nil
	}
	return playoffs, nil
}

// AssignTeam writes teamID into the slot, or clears the slot when teamID is
// empty. No uniqueness check across slots: pre-tournament seeding hygiene
// belongs to the admin UI.
func (s *playoffService) AssignTeam(ctx context.Context, playoffID string, bracketType models.BracketType, slotID, teamID string) (*models.PlayoffData, error) {
	playoff, err := s.load(ctx, playoffID)
	if err != nil {
		return nil, err
	}

	slot, ok := playoff.Slot(slotID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, slotID)
	}
	if slot.BracketType != bracketType {
		return nil, fmt.Errorf("%w: slot %s is in the %s bracket", ErrSlotBracketMismatch, slotID, slot.BracketType)
	}

	slot.TeamID = teamID
	return s.save(ctx, playoff)
}

func (s *playoffService) SetFormat(ctx context.Context, playoffID, matchID string, format models.MatchFormat) (*models.PlayoffData, error) {
	if !models.ValidMatchFormat(format) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}

	playoff, err := s.load(ctx, playoffID)
	if err != nil {
		return nil, err
	}

	match, ok := playoff.Match(matchID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}

	match.Format = format
	return s.save(ctx, playoff)
}

// MarkLive flips a scheduled match to live. The transition is cosmetic and
// optional; ProcessResult completes a match straight from scheduled as well.
func (s *playoffService) MarkLive(ctx context.Context, playoffID, matchID string) (*models.PlayoffData, error) {
	playoff, err := s.load(ctx, playoffID)
	if err != nil {
		return nil, err
	}

	match, ok := playoff.Match(matchID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	if match.Status == models.MatchStatusCompleted {
		return nil, fmt.Errorf("%w: %s", ErrMatchAlreadyComplete, matchID)
	}

	match.Status = models.MatchStatusLive
	return s.save(ctx, playoff)
}

// ProcessResult records the outcome of a match, then advances the winner into
// the match's winner slot and the loser into its loser slot when one exists.
// Slots are resolved before anything is mutated, so an unresolvable
// reference aborts with the aggregate untouched.
//
// Calling this twice for the same match is a deliberate correction path: the
// second call overwrites the result and re-runs advancement.
func (s *playoffService) ProcessResult(ctx context.Context, playoffID, matchID, winnerID, loserID string, teamAScore, teamBScore int) (*models.PlayoffData, error) {
	playoff, err := s.load(ctx, playoffID)
	if err != nil {
		return nil, err
	}

	match, ok := playoff.Match(matchID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}

	winnerSlot, ok := playoff.Slot(match.WinnerSlotID)
	if !ok {
		return nil, fmt.Errorf("%w: winner slot %s of match %s", ErrSlotNotFound, match.WinnerSlotID, matchID)
	}
	var loserSlot *models.Slot
	if match.LoserSlotID != "" {
		loserSlot, ok = playoff.Slot(match.LoserSlotID)
		if !ok {
			return nil, fmt.Errorf("%w: loser slot %s of match %s", ErrSlotNotFound, match.LoserSlotID, matchID)
		}
	}

	match.Result = &models.MatchResult{
		WinnerID:    winnerID,
		LoserID:     loserID,
		TeamAScore:  teamAScore,
		TeamBScore:  teamBScore,
		CompletedAt: time.Now().UTC(),
	}
	match.Status = models.MatchStatusCompleted

	winnerSlot.TeamID = winnerID
	if loserSlot != nil {
		loserSlot.TeamID = loserID
	}
	// No loser slot means the loser is eliminated; absence from any future
	// slot is the only signal.

	s.logger.Info("match result processed",
		slog.String("playoff_id", playoffID),
		slog.String("match_id", matchID),
		slog.String("winner_id", winnerID),
		slog.String("loser_id", loserID))
	return s.save(ctx, playoff)
}

// CompleteSetup flips the one-way gate that unlocks the bracket for public
// display.
func (s *playoffService) CompleteSetup(ctx context.Context, playoffID string) (*models.PlayoffData, error) {
	playoff, err := s.load(ctx, playoffID)
	if err != nil {
		return nil, err
	}

	playoff.IsSetup = true
	return s.save(ctx, playoff)
}

// Reset destroys the aggregate and rebuilds a fresh topology under the same
// id and name. The outgoing document is archived to object storage first,
// best effort; resets are the remedy for a corrupt aggregate, so the load
// here skips validation on purpose.
func (s *playoffService) Reset(ctx context.Context, playoffID string) (*models.PlayoffData, error) {
	old, err := s.playoffRepo.GetByID(ctx, playoffID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayoffNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPlayoffNotFound, playoffID)
		}
		return nil, fmt.Errorf("failed to load playoff %s: %w", playoffID, err)
	}

	s.archiveSnapshot(ctx, old)

	fresh, err := s.generator.Generate(brackets.GenerateParams{
		ID:   old.ID,
		Name: old.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild bracket: %w", err)
	}

	if err := s.playoffRepo.Delete(ctx, playoffID); err != nil {
		return nil, fmt.Errorf("failed to delete playoff %s: %w", playoffID, err)
	}
	if err := s.playoffRepo.Create(ctx, fresh); err != nil {
		return nil, fmt.Errorf("failed to persist rebuilt playoff %s: %w", playoffID, err)
	}

	s.logger.Info("playoff reset", slog.String("playoff_id", playoffID))
	s.broadcast(fresh)
	return fresh, nil
}

func (s *playoffService) archiveSnapshot(ctx context.Context, playoff *models.PlayoffData) {
	if s.uploader == nil {
		return
	}
	data, err := json.MarshalIndent(playoff, "", "  ")
	if err != nil {
		s.logger.Error("failed to marshal playoff snapshot",
			slog.String("playoff_id", playoff.ID), slog.Any("error", err))
		return
	}
	key := fmt.Sprintf("snapshots/%s/%s.json", playoff.ID, time.Now().UTC().Format(time.RFC3339))
	if _, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(data)); err != nil {
		s.logger.Error("failed to archive playoff snapshot",
			slog.String("playoff_id", playoff.ID), slog.Any("error", err))
		return
	}
	s.logger.Info("playoff snapshot archived",
		slog.String("playoff_id", playoff.ID), slog.String("key", key))
}

func (s *playoffService) load(ctx context.Context, playoffID string) (*models.PlayoffData, error) {
	playoff, err := s.playoffRepo.GetByID(ctx, playoffID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayoffNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPlayoffNotFound, playoffID)
		}
		return nil, fmt.Errorf("failed to load playoff %s: %w", playoffID, err)
	}
	if err := brackets.Validate(playoff); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptTopology, err)
	}
	return playoff, nil
}

func (s *playoffService) save(ctx context.Context, playoff *models.PlayoffData) (*models.PlayoffData, error) {
	loadedVersion := playoff.Version
	playoff.Version = loadedVersion + 1
	playoff.Touch()

	err := s.playoffRepo.Update(ctx, playoff, loadedVersion)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrVersionConflict):
			return nil, ErrVersionConflict
		case errors.Is(err, repositories.ErrPlayoffNotFound):
			return nil, fmt.Errorf("%w: %s", ErrPlayoffNotFound, playoff.ID)
		}
		return nil, fmt.Errorf("failed to save playoff %s: %w", playoff.ID, err)
	}

	s.broadcast(playoff)
	return playoff, nil
}

func (s *playoffService) broadcast(playoff *models.PlayoffData) {
	if s.hub == nil {
		return
	}
	roomID := "playoff_" + playoff.ID
	s.hub.BroadcastToRoom(roomID, brackets.WebSocketMessage{
		Type:    brackets.MessageBracketUpdated,
		Payload: playoff,
		RoomID:  roomID,
	})
}
