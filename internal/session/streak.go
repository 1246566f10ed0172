package session

// BaseStreakMilestone is the first streak length worth celebrating. Every
// multiple of it is a milestone.
const BaseStreakMilestone = 5

// NextStreakMilestone returns the first milestone above current.
func NextStreakMilestone(current int) int {
	if current < 0 {
		current = 0
	}
	return (current/BaseStreakMilestone + 1) * BaseStreakMilestone
}

// IsStreakMilestone reports whether streak lands exactly on a milestone.
func IsStreakMilestone(streak int) bool {
	return streak > 0 && streak%BaseStreakMilestone == 0
}
