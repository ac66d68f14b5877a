package pin

import (
	"math/rand"
	"strconv"
)

const (
	codeMin = 100000
	codeMax = 999999
)

type Generator interface {
	Generate() string
}

// RandGenerator samples codes uniformly over [100000, 999999], so every
// code is exactly 6 digits.
type RandGenerator struct{}

func (g *RandGenerator) Generate() string {
	return strconv.Itoa(codeMin + rand.Intn(codeMax-codeMin+1))
}
