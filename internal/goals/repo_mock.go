package goals

import (
	"context"
	"sort"
)

// in-memory goals repo, used in unit tests and local development
type repoMock struct {
	goals  map[int]*Goal
	nextID int
}

func NewMockGoalsRepo() *repoMock {
	return &repoMock{
		goals: make(map[int]*Goal),
	}
}

func (r *repoMock) Add(_ context.Context, goal *Goal) (*Goal, error) {
	r.nextID++
	goal.ID = r.nextID
	r.goals[goal.ID] = goal
	return goal, nil
}

func (r *repoMock) Get(_ context.Context, id int) (*Goal, error) {
	goal, ok := r.goals[id]
	if !ok {
		return nil, ErrGoalNotFound
	}
	return goal, nil
}

func (r *repoMock) Update(ctx context.Context, goal *Goal) error {
	if _, err := r.Get(ctx, goal.ID); err != nil {
		return err
	}
	r.goals[goal.ID] = goal
	return nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	if _, ok := r.goals[id]; !ok {
		return ErrGoalNotFound
	}
	delete(r.goals, id)
	return nil
}

func (r *repoMock) List(_ context.Context, userID string) ([]Goal, error) {
	userGoals := make([]Goal, 0)
	for _, g := range r.goals {
		if g.UserID == userID {
			userGoals = append(userGoals, *g)
		}
	}
	sort.Slice(userGoals, func(i, j int) bool {
		return userGoals[i].CreatedAt.After(userGoals[j].CreatedAt)
	})
	return userGoals, nil
}
