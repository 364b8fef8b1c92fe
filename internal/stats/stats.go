// Package stats contains play-history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/mathsprint/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a set of plays in one mode.
type Summary struct {
	Plays           int
	BestScore       int
	AvgScore        float64
	AvgAccuracy     float64
	BestStreak      int
	TotalProblems   int
	TotalCorrect    int
	TotalSparks     int
	PointsPerMinute float64
}

// Summarize computes aggregate metrics over the given plays.
func Summarize(recs []model.PlayRecord) Summary {
	var sum Summary
	sum.Plays = len(recs)
	if sum.Plays == 0 {
		return sum
	}

	var totalScore int
	var totalAcc float64
	var totalDuration time.Duration
	for _, r := range recs {
		totalScore += r.Score
		totalAcc += r.Accuracy()
		totalDuration += r.EndedAt.Sub(r.StartedAt)
		sum.TotalProblems += r.Problems
		sum.TotalCorrect += r.Correct
		sum.TotalSparks += r.Sparks
		if r.Score > sum.BestScore {
			sum.BestScore = r.Score
		}
		if r.BestStreak > sum.BestStreak {
			sum.BestStreak = r.BestStreak
		}
	}
	count := float64(sum.Plays)
	sum.AvgScore = float64(totalScore) / count
	sum.AvgAccuracy = totalAcc / count
	if minutes := totalDuration.Minutes(); minutes > 0 {
		sum.PointsPerMinute = float64(totalScore) / minutes
	}
	return sum
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the aggregate view for one mode.
func RenderSummary(w io.Writer, mode model.Mode, sum Summary, highScore int) error {
	if sum.Plays == 0 {
		_, err := fmt.Fprintf(w, "%s: no plays yet.\n", mode.Title())
		return err
	}
	lines := []string{
		mode.Title(),
		fmt.Sprintf("Plays: %d", sum.Plays),
		fmt.Sprintf("High Score: %d", highScore),
		fmt.Sprintf("Avg Score: %.1f", sum.AvgScore),
		fmt.Sprintf("Avg Accuracy: %.1f%%", sum.AvgAccuracy*100),
		fmt.Sprintf("Best Streak: %d", sum.BestStreak),
		fmt.Sprintf("Points/min: %.1f", sum.PointsPerMinute),
		fmt.Sprintf("Sparks Earned: %d", sum.TotalSparks),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistoryTable prints recent plays, newest first.
func RenderHistoryTable(w io.Writer, recs []model.PlayRecord) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No plays found.")
		return err
	}

	headers := []string{"When", "Mode", "Score", "Problems", "Accuracy", "Streak", "Sparks"}
	rows := make([][]string, 0, len(recs))
	for i := len(recs) - 1; i >= 0; i-- {
		r := recs[i]
		rows = append(rows, []string{
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Mode.Title(),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Problems),
			fmt.Sprintf("%.0f%%", r.Accuracy()*100),
			fmt.Sprintf("%d", r.BestStreak),
			fmt.Sprintf("%d", r.Sparks),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurves prints score and accuracy trends over the plays.
func RenderCurves(w io.Writer, recs []model.PlayRecord, window, width, height int, useColor bool) error {
	if len(recs) == 0 {
		return nil
	}
	scores := make([]float64, len(recs))
	accs := make([]float64, len(recs))
	for i, r := range recs {
		scores[i] = float64(r.Score)
		accs[i] = r.Accuracy() * 100
	}
	scores = MovingAverage(scores, window)
	accs = MovingAverage(accs, window)

	return PlotSeries(w, "Score Trend", []Series{
		{Name: "Score", Values: scores},
		{Name: "Accuracy", Values: accs},
	}, width, height, useColor)
}
