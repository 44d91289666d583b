package gamification

import (
	"time"
)

// Badge keys form a fixed, closed catalog shared with the mobile app.
// Changes must be additive only - never rename or remove a key while
// unlocked records exist in production.
type Badge string

const (
	BadgeFirstWorkout    Badge = "FIRST_WORKOUT"
	BadgeFirstMeal       Badge = "FIRST_MEAL"
	BadgeFirstWater      Badge = "FIRST_WATER"
	BadgeHydrationHero   Badge = "HYDRATION_HERO"
	BadgeWaterMaster     Badge = "WATER_MASTER"
	BadgeDoubleLog       Badge = "DOUBLE_LOG"
	BadgeTripleLog       Badge = "TRIPLE_LOG"
	BadgeEarlyBird       Badge = "EARLY_BIRD"
	BadgeNightOwl        Badge = "NIGHT_OWL"
	BadgeStreak3         Badge = "STREAK_3"
	BadgeStreak7         Badge = "STREAK_7"
	BadgeQuickStart      Badge = "QUICK_START"
	BadgeTestMaster      Badge = "TEST_MASTER"
	BadgePresentationPro Badge = "PRESENTATION_PRO"
)

var badgeDisplayNames = map[Badge]string{
	BadgeFirstWorkout:    "First Workout",
	BadgeFirstMeal:       "First Meal",
	BadgeFirstWater:      "First Sip",
	BadgeHydrationHero:   "Hydration Hero",
	BadgeWaterMaster:     "Water Master",
	BadgeDoubleLog:       "Double Log",
	BadgeTripleLog:       "Triple Log",
	BadgeEarlyBird:       "Early Bird",
	BadgeNightOwl:        "Night Owl",
	BadgeStreak3:         "On a Roll",
	BadgeStreak7:         "Week Warrior",
	BadgeQuickStart:      "Quick Start",
	BadgeTestMaster:      "Test Master",
	BadgePresentationPro: "Presentation Pro",
}

func (b Badge) DisplayName() string {
	if name, ok := badgeDisplayNames[b]; ok {
		return name
	}
	return string(b)
}

type CatalogEntry struct {
	Key         Badge  `json:"key"`
	DisplayName string `json:"displayName"`
}

// Catalog returns all known badges, in a stable order.
func Catalog() []CatalogEntry {
	all := []Badge{
		BadgeFirstWorkout, BadgeFirstMeal, BadgeFirstWater,
		BadgeHydrationHero, BadgeWaterMaster,
		BadgeDoubleLog, BadgeTripleLog,
		BadgeEarlyBird, BadgeNightOwl,
		BadgeStreak3, BadgeStreak7,
		BadgeQuickStart,
		BadgeTestMaster, BadgePresentationPro,
	}
	catalog := make([]CatalogEntry, 0, len(all))
	for _, b := range all {
		catalog = append(catalog, CatalogEntry{Key: b, DisplayName: b.DisplayName()})
	}
	return catalog
}

// EvaluateBadges is a pure function over the record state after the
// lifetime counter and streak for this event were already applied. It
// returns the badges to add, never ones already owned.
//
// Non-meta rules are evaluated first into a pending set; the meta
// badges then count owned plus pending, so a single activity can
// unlock a badge and the meta badge it pushes over the threshold in
// the same pass.
func EvaluateBadges(rec *Record, cat Category, now time.Time) []Badge {
	var pending []Badge
	inPending := func(b Badge) bool {
		for _, p := range pending {
			if p == b {
				return true
			}
		}
		return false
	}
	add := func(b Badge, unlocked bool) {
		if unlocked && !rec.HasBadge(b) && !inPending(b) {
			pending = append(pending, b)
		}
	}

	switch cat {
	case CategoryWorkout:
		add(BadgeFirstWorkout, rec.TotalWorkouts == 1)
	case CategoryMeal:
		add(BadgeFirstMeal, rec.TotalMeals == 1)
	case CategoryWater:
		add(BadgeFirstWater, rec.TotalWater == 1)
	}

	add(BadgeHydrationHero, rec.TotalWater >= 3)
	add(BadgeWaterMaster, rec.TotalWater >= 10)
	add(BadgeDoubleLog, rec.TotalWorkouts >= 2)
	add(BadgeTripleLog, rec.TotalWorkouts >= 3)
	add(BadgeEarlyBird, now.Hour() < 7)
	add(BadgeNightOwl, now.Hour() >= 20)
	add(BadgeStreak3, rec.Streaks[CategoryWorkout] >= 3)
	add(BadgeStreak7, rec.Streaks[CategoryWorkout] >= 7)
	add(BadgeQuickStart, now.Sub(rec.CreatedAt) <= 5*time.Minute)

	// meta badges, sequentially - TEST_MASTER counts towards PRESENTATION_PRO
	add(BadgeTestMaster, len(rec.Badges)+len(pending) >= 5)
	add(BadgePresentationPro, len(rec.Badges)+len(pending) >= 8)

	return pending
}
