// Package problem generates arithmetic problems with difficulty scaling.
package problem

import (
	"fmt"

	"github.com/verte-zerg/mathsprint/internal/model"
	"github.com/verte-zerg/mathsprint/internal/rng"
)

// Answer hash constants. Not cryptographic, only a casual-tamper deterrent.
const (
	hashMultiplier = 7919
	hashModulus    = 999983
)

// Difficulty unlock thresholds for Survival mode operators.
const (
	survivalSubScore = 20
	survivalMulScore = 50
	survivalDivScore = 80
)

// Request carries the state that shapes the next problem.
type Request struct {
	Mode             model.Mode
	Score            int
	ProblemsAnswered int
	EnabledOps       []model.Operator
	ForcedOps        []model.Operator
	DisabledOps      []model.Operator
}

// HashAnswer obfuscates an answer for tamper-evidence checks.
func HashAnswer(answer int) int {
	return (answer * hashMultiplier) % hashModulus
}

// Generate picks an operator and operands for the request. The operator
// set is never empty: an impossible configuration falls back to addition.
func Generate(req Request, src rng.Source) model.Problem {
	ops := candidateOps(req)
	op := ops[pick(src, len(ops))]
	maxNum := difficultyCeiling(req)

	var a, b, answer int
	switch op {
	case model.OpAdd:
		a = pick(src, maxNum) + 1
		b = pick(src, maxNum) + 1
		answer = a + b
	case model.OpSub:
		// a >= 2 and b <= a, so results never go negative.
		a = pick(src, maxNum) + 2
		b = pick(src, a) + 1
		answer = a - b
	case model.OpMul:
		multMax := multCeiling(req.Mode, maxNum)
		a = pick(src, multMax) + 1
		b = pick(src, multMax) + 1
		answer = a * b
	case model.OpDiv:
		// Build the dividend from divisor and quotient so the division
		// is always exact.
		divMax := divCeiling(req.Mode, maxNum)
		b = pick(src, divMax) + 2
		answer = pick(src, divMax) + 2
		a = b * answer
	}

	return model.Problem{
		A:          a,
		B:          b,
		Op:         op,
		Answer:     answer,
		AnswerHash: HashAnswer(answer),
		Text:       fmt.Sprintf("%d %s %d = ?", a, op, b),
	}
}

func candidateOps(req Request) []model.Operator {
	var ops []model.Operator
	if len(req.ForcedOps) > 0 {
		ops = append(ops, req.ForcedOps...)
	} else {
		switch req.Mode {
		case model.ModeDaily:
			// Daily Challenge ignores player toggles for a consistent
			// mixed challenge.
			ops = []model.Operator{model.OpAdd, model.OpSub, model.OpMul, model.OpDiv}
		case model.ModeSurvival:
			ops = append(ops, model.OpAdd)
			if req.Score > survivalSubScore {
				ops = append(ops, model.OpSub)
			}
			if req.Score > survivalMulScore {
				ops = append(ops, model.OpMul)
			}
			if req.Score > survivalDivScore {
				ops = append(ops, model.OpDiv)
			}
		default:
			ops = append(ops, req.EnabledOps...)
		}
	}

	if len(req.DisabledOps) > 0 {
		disabled := make(map[model.Operator]struct{}, len(req.DisabledOps))
		for _, op := range req.DisabledOps {
			disabled[op] = struct{}{}
		}
		kept := ops[:0]
		for _, op := range ops {
			if _, ok := disabled[op]; !ok {
				kept = append(kept, op)
			}
		}
		ops = kept
	}

	if len(ops) == 0 {
		ops = []model.Operator{model.OpAdd}
	}
	return ops
}

func difficultyCeiling(req Request) int {
	switch req.Mode {
	case model.ModeDaily:
		// Start moderately challenging and ramp with each problem.
		ramp := req.ProblemsAnswered * 2
		if ramp > 40 {
			ramp = 40
		}
		return 18 + ramp
	case model.ModeEndless, model.ModeSurvival:
		switch {
		case req.Score < 40:
			return 10
		case req.Score < 100:
			return 20
		default:
			return 100
		}
	default:
		return 12
	}
}

func multCeiling(mode model.Mode, maxNum int) int {
	if mode == model.ModeDaily {
		return clamp(maxNum/2, 8, 15)
	}
	switch {
	case maxNum >= 100:
		return 15
	case maxNum >= 20:
		return 12
	default:
		return min(maxNum, 12)
	}
}

func divCeiling(mode model.Mode, maxNum int) int {
	if mode == model.ModeDaily {
		return clamp(maxNum/4, 6, 18)
	}
	return min(maxNum, 12)
}

// pick maps one random float onto [0, n).
func pick(src rng.Source, n int) int {
	return int(src.Next() * float64(n))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
