// Package rng supplies the random sources used by problem generation.
package rng

import (
	"math/rand"
	"time"
)

// Source yields pseudo-random floats in [0, 1).
type Source interface {
	Next() float64
}

// Uniform is a Source backed by math/rand.
type Uniform struct {
	rnd *rand.Rand
}

// NewUniform returns a Uniform seeded with the current time.
func NewUniform() *Uniform {
	return &Uniform{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Next implements Source.
func (u *Uniform) Next() float64 {
	return u.rnd.Float64()
}

// The LCG constants are shared by every client. Changing them breaks the
// guarantee that all players see the same daily sequence.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// Daily is a linear congruential generator seeded from a UTC calendar
// date. Two Daily sources built from the same date produce identical
// sequences, so every player worldwide sees the same problems that day.
type Daily struct {
	state int64
}

// NewDaily seeds a Daily source from the UTC date of now.
func NewDaily(now time.Time) *Daily {
	d := &Daily{}
	d.Reseed(now)
	return d
}

// Reseed resets the generator state from the UTC date of now.
func (d *Daily) Reseed(now time.Time) {
	utc := now.UTC()
	base := int64(utc.Year()*10000 + int(utc.Month())*100 + utc.Day())
	d.state = base % lcgModulus
	if d.state == 0 {
		d.state = 1
	}
}

// Next advances the LCG and returns a float in [0, 1).
func (d *Daily) Next() float64 {
	d.state = (d.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(d.state) / float64(lcgModulus)
}
