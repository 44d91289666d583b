package gamification

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fitpulse/backend/internal/telemetry/tracing"
	"github.com/fitpulse/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=gamification_test

type gamificationService interface {
	RecordWorkout(ctx context.Context, userID string) (int, []Badge, error)
	RecordMeal(ctx context.Context, userID string) ([]Badge, error)
	RecordWater(ctx context.Context, userID string) ([]Badge, error)
	Read(ctx context.Context, userID string) (*Record, error)
}

type RecordActivityResponse struct {
	Streak         int      `json:"streak,omitempty"`
	UnlockedBadges []string `json:"unlockedBadges,omitempty"`
}

type Handler struct {
	service gamificationService
}

func NewHandler(service gamificationService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleRecordWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gamification.record-workout")
	defer span.End()

	userID := mux.Vars(r)["userID"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	streak, unlocked, err := handler.service.RecordWorkout(ctx, userID)
	if err != nil {
		log.Errorf("failed to record workout for %s: %s", userID, err)
		http.Error(w, "failed to record workout", http.StatusInternalServerError)
		return
	}

	handler.writeRecordResponse(w, RecordActivityResponse{
		Streak:         streak,
		UnlockedBadges: displayNames(unlocked),
	})
}

func (handler *Handler) HandleRecordMeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gamification.record-meal")
	defer span.End()

	userID := mux.Vars(r)["userID"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	unlocked, err := handler.service.RecordMeal(ctx, userID)
	if err != nil {
		log.Errorf("failed to record meal for %s: %s", userID, err)
		http.Error(w, "failed to record meal", http.StatusInternalServerError)
		return
	}

	handler.writeRecordResponse(w, RecordActivityResponse{
		UnlockedBadges: displayNames(unlocked),
	})
}

func (handler *Handler) HandleRecordWater(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gamification.record-water")
	defer span.End()

	userID := mux.Vars(r)["userID"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	unlocked, err := handler.service.RecordWater(ctx, userID)
	if err != nil {
		log.Errorf("failed to record water for %s: %s", userID, err)
		http.Error(w, "failed to record water", http.StatusInternalServerError)
		return
	}

	handler.writeRecordResponse(w, RecordActivityResponse{
		UnlockedBadges: displayNames(unlocked),
	})
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gamification.get")
	defer span.End()

	userID := mux.Vars(r)["userID"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	rec, err := handler.service.Read(ctx, userID)
	if err != nil {
		log.Errorf("failed to read gamification record for %s: %s", userID, err)
		http.Error(w, "failed to get gamification record", http.StatusInternalServerError)
		return
	}

	recJson, err := json.Marshal(rec)
	if err != nil {
		log.Errorf("failed to marshal gamification record: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, recJson, http.StatusOK)
}

func (handler *Handler) HandleGetBadgesCatalog(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gamification.badges-catalog")
	defer span.End()

	catalogJson, err := json.Marshal(Catalog())
	if err != nil {
		log.Errorf("failed to marshal badges catalog: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, catalogJson, http.StatusOK)
}

func (handler *Handler) writeRecordResponse(w http.ResponseWriter, resp RecordActivityResponse) {
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("failed to marshal record activity response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func displayNames(badges []Badge) []string {
	if len(badges) == 0 {
		return nil
	}
	names := make([]string, 0, len(badges))
	for _, b := range badges {
		names = append(names, b.DisplayName())
	}
	return names
}
