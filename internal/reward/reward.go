// Package reward converts final scores into sparks and high-score
// outcomes.
package reward

// Ten points buy one spark.
const exchangeRate = 10

// Sparks converts a final score to earned sparks, flooring negative or
// invalid input at zero.
func Sparks(score int) int {
	if score < 0 {
		return 0
	}
	return score / exchangeRate
}

// IsHighScore reports whether score beats the previous best. Ties do
// not count as a new high score.
func IsHighScore(score, previous int) bool {
	return score > previous
}
