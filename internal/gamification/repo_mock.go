package gamification

import (
	"context"
	"time"
)

// in-memory store, used in unit tests and local development
type repoMock struct {
	records map[string]*Record
}

func NewMockRepo() *repoMock {
	return &repoMock{
		records: make(map[string]*Record),
	}
}

func (r *repoMock) Get(_ context.Context, userID string) (*Record, error) {
	rec, ok := r.records[userID]
	if !ok {
		return nil, ErrRecordNotFound
	}

	recCopy := *rec
	recCopy.Streaks = make(map[Category]int, len(rec.Streaks))
	for cat, streak := range rec.Streaks {
		recCopy.Streaks[cat] = streak
	}
	recCopy.LastActivity = make(map[Category]string, len(rec.LastActivity))
	for cat, day := range rec.LastActivity {
		recCopy.LastActivity[cat] = day
	}
	recCopy.Badges = append([]Badge(nil), rec.Badges...)

	return &recCopy, nil
}

func (r *repoMock) Create(_ context.Context, userID string, createdAt time.Time) error {
	if _, ok := r.records[userID]; ok {
		return nil
	}
	r.records[userID] = NewRecord(userID, createdAt)
	return nil
}

func (r *repoMock) IncrementCounter(_ context.Context, userID string, cat Category) (int, error) {
	rec := r.records[userID]
	rec.SetTotal(cat, rec.TotalFor(cat)+1)
	return rec.TotalFor(cat), nil
}

func (r *repoMock) SetStreak(_ context.Context, userID string, cat Category, streak int, day string) error {
	rec := r.records[userID]
	rec.Streaks[cat] = streak
	rec.LastActivity[cat] = day
	return nil
}

func (r *repoMock) AwardXP(_ context.Context, userID string, amount int, now time.Time) (int, error) {
	rec := r.records[userID]
	rec.XP += amount
	rec.LevelName = LevelFromXP(rec.XP)
	rec.UpdatedAt = now
	return rec.XP, nil
}

func (r *repoMock) AddBadges(_ context.Context, userID string, badges []Badge) error {
	rec := r.records[userID]
	for _, b := range badges {
		if !rec.HasBadge(b) {
			rec.Badges = append(rec.Badges, b)
		}
	}
	return nil
}
