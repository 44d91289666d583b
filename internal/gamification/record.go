package gamification

import (
	"time"
)

// dayFormat is the calendar-day resolution used for streak bookkeeping.
// Two activities on the same calendar day must not double-count.
const dayFormat = "2006-01-02"

type Category string

const (
	CategoryWorkout Category = "workout"
	CategoryMeal    Category = "meal"
	CategoryWater   Category = "water"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryWorkout, CategoryMeal, CategoryWater:
		return true
	}
	return false
}

// Level thresholds, ascending by minimum XP.
type Level struct {
	Name  string
	MinXP int
}

var levels = []Level{
	{Name: "Bronze", MinXP: 0},
	{Name: "Silver", MinXP: 500},
	{Name: "Gold", MinXP: 1500},
	{Name: "Platinum", MinXP: 4000},
}

// LevelFromXP returns the name of the highest level whose threshold
// does not exceed the given XP.
func LevelFromXP(xp int) string {
	level := levels[0].Name
	for _, l := range levels {
		if xp >= l.MinXP {
			level = l.Name
		}
	}
	return level
}

// Fixed XP reward per activity category.
var xpRewards = map[Category]int{
	CategoryWorkout: 50,
	CategoryMeal:    15,
	CategoryWater:   5,
}

func XPReward(cat Category) int {
	return xpRewards[cat]
}

// Record is the per-user gamification state. One record per user,
// created lazily on the first recorded activity, never deleted.
type Record struct {
	UserID        string                `json:"userId"`
	XP            int                   `json:"xp"`
	LevelName     string                `json:"levelName"`
	Streaks       map[Category]int      `json:"streaks"`
	LastActivity  map[Category]string   `json:"lastActivity"`
	Badges        []Badge               `json:"badges"`
	TotalWorkouts int                   `json:"totalWorkouts"`
	TotalMeals    int                   `json:"totalMeals"`
	TotalWater    int                   `json:"totalWater"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

func NewRecord(userID string, createdAt time.Time) *Record {
	return &Record{
		UserID:       userID,
		LevelName:    LevelFromXP(0),
		Streaks:      map[Category]int{},
		LastActivity: map[Category]string{},
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func (r *Record) HasBadge(b Badge) bool {
	for _, owned := range r.Badges {
		if owned == b {
			return true
		}
	}
	return false
}

func (r *Record) SetTotal(cat Category, total int) {
	switch cat {
	case CategoryWorkout:
		r.TotalWorkouts = total
	case CategoryMeal:
		r.TotalMeals = total
	case CategoryWater:
		r.TotalWater = total
	}
}

func (r *Record) TotalFor(cat Category) int {
	switch cat {
	case CategoryWorkout:
		return r.TotalWorkouts
	case CategoryMeal:
		return r.TotalMeals
	case CategoryWater:
		return r.TotalWater
	}
	return 0
}

// NextStreak computes the new consecutive-day count for a category.
// Same-day repeats leave the streak unchanged; any prior activity day
// increments it. The streak never resets after a gap - lenient on
// purpose, kept as-is until product decides otherwise.
func NextStreak(current int, lastDay, today string) int {
	switch {
	case lastDay == "":
		return 1
	case lastDay == today:
		return current
	default:
		return current + 1
	}
}
