// Package guard validates answer submissions against timing and
// plausibility bounds. A violation is fatal to the session: there is no
// recovery path, only deterrence.
package guard

import (
	"fmt"
	"time"

	"github.com/verte-zerg/mathsprint/internal/model"
)

const (
	// Minimum wall-clock gap between two submissions. A gap of exactly
	// this value is accepted.
	minSubmissionGap = 100 * time.Millisecond

	// Theoretical score ceiling: 15 points per second with 100% slack.
	maxPointsPerSecond = 15.0
	slackFactor        = 2.0

	// Minimum believable average time per problem.
	minAverageSolve = 250 * time.Millisecond
)

// Violation is a tamper signal. Any Violation invalidates the session.
type Violation struct {
	Reason string
}

func (v *Violation) Error() string {
	return "session invalidated: " + v.Reason
}

// Submission describes one answer submission to validate.
type Submission struct {
	Answer   int
	Op       model.Operator
	Score    int
	Attempts int // submissions so far, including this one

	SinceLast time.Duration
	Elapsed   time.Duration // since session start
}

// Check runs the guard checks in order and returns the first violation,
// or nil when the submission is plausible.
func Check(sub Submission) error {
	if sub.SinceLast < minSubmissionGap {
		return &Violation{Reason: fmt.Sprintf(
			"submission too fast (%dms < %dms minimum)",
			sub.SinceLast.Milliseconds(), minSubmissionGap.Milliseconds())}
	}

	allowed := sub.Elapsed.Seconds() * maxPointsPerSecond * slackFactor
	if float64(sub.Score) > allowed {
		return &Violation{Reason: fmt.Sprintf(
			"score impossible (%d > theoretical max %d)",
			sub.Score, int(allowed))}
	}

	if sub.Attempts > 0 {
		avg := sub.Elapsed / time.Duration(sub.Attempts)
		if avg < minAverageSolve {
			return &Violation{Reason: fmt.Sprintf(
				"average solve time too fast (%dms < %dms minimum)",
				avg.Milliseconds(), minAverageSolve.Milliseconds())}
		}
	}

	if !answerInRange(sub.Op, sub.Answer) {
		return &Violation{Reason: fmt.Sprintf(
			"invalid answer range: %d is impossible for this problem", sub.Answer)}
	}
	return nil
}

// answerInRange bounds submissions to values the generator could ever
// ask for, with generous headroom.
func answerInRange(op model.Operator, answer int) bool {
	switch op {
	case model.OpAdd, model.OpSub:
		return answer >= -100 && answer <= 200
	case model.OpMul:
		return answer >= 1 && answer <= 250
	case model.OpDiv:
		return answer >= 1 && answer <= 20
	}
	return false
}
