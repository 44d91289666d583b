package goals

import (
	"time"
)

// Goal is a user-defined target, e.g. 4 workouts per week or 2000 ml
// of water per day. Progress tracking happens on the client, the
// backend just stores the definitions and the achieved flag.
type Goal struct {
	ID          int       `json:"id"`
	UserID      string    `json:"userId"`
	Category    string    `json:"category"`
	Target      int       `json:"target"`
	Period      string    `json:"period"`
	Description string    `json:"description,omitempty"`
	Achieved    bool      `json:"achieved"`
	CreatedAt   time.Time `json:"createdAt"`
}
