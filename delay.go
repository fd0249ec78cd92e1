package main

import (
	"math/rand"
	"time"
)

// Delayer injects the human-like pauses between browser interactions that
// keep the storefront's bot-detection heuristics quiet. Tests substitute a
// zero-delay implementation to run deterministically.
type Delayer interface {
	// Sleep pauses for a uniform random duration in [min, max] seconds.
	Sleep(min, max float64)
}

type humanDelayer struct {
	rand *rand.Rand
}

func newHumanDelayer() *humanDelayer {
	return &humanDelayer{rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (d *humanDelayer) Sleep(min, max float64) {
	duration := min + d.rand.Float64()*(max-min)
	time.Sleep(time.Duration(duration * float64(time.Second)))
}
