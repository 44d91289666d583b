package activities

import (
	"time"
)

type ActivityType string

const (
	TypeWorkout ActivityType = "workout"
	TypeMeal    ActivityType = "meal"
	TypeWater   ActivityType = "water"
)

func (t ActivityType) Valid() bool {
	switch t {
	case TypeWorkout, TypeMeal, TypeWater:
		return true
	}
	return false
}

// Activity is one logged event: a workout session, a meal, or a water
// intake. Quantity is type-dependent: minutes for workouts, kcal for
// meals, milliliters for water.
type Activity struct {
	ID        int               `json:"id"`
	UserID    string            `json:"userId"`
	Type      ActivityType      `json:"type"`
	Name      string            `json:"name"`
	Quantity  int               `json:"quantity"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

func NewWorkoutActivity(userID, name string, durationMinutes int) Activity {
	return Activity{
		UserID:   userID,
		Type:     TypeWorkout,
		Name:     name,
		Quantity: durationMinutes,
	}
}

func NewMealActivity(userID, name string, calories int) Activity {
	return Activity{
		UserID:   userID,
		Type:     TypeMeal,
		Name:     name,
		Quantity: calories,
	}
}

func NewWaterActivity(userID string, milliliters int) Activity {
	return Activity{
		UserID:   userID,
		Type:     TypeWater,
		Name:     "water",
		Quantity: milliliters,
	}
}
