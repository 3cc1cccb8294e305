package mcts

// KomiController implements spec §4.L's komi adaptation: every time
// iterations cross a geometrically growing checkpoint (200, then x6), push
// komi two points toward the mover's side if their root win-rate is in the
// green zone, or snap it back if in the red zone, gated by a ratchet that
// prevents the value sawing back and forth.
type KomiController struct {
	Komi      int
	nextCheck int64
	ratchet   int // +1 after a green push, -1 after a red snap, 0 at rest
}

// NewKomiController starts the checkpoint schedule at 200 iterations.
func NewKomiController(initialKomi int) *KomiController {
	return &KomiController{Komi: initialKomi, nextCheck: 200}
}

// MaybeAdjust checks whether iterations has crossed the next checkpoint
// and, if so, adjusts komi from the mover's root win-rate. moverIsBlack
// selects which side "pushing toward their side" means increasing or
// decreasing Komi for (komi is always expressed as an addition to White's
// score, so pushing toward Black decreases it and pushing toward White
// increases it).
func (k *KomiController) MaybeAdjust(iterations int64, moverWinRate float64, moverIsBlack bool) {
	if iterations < k.nextCheck {
		return
	}
	k.nextCheck *= 6

	const greenZone = 0.55
	const redZone = 0.45

	switch {
	case moverWinRate > greenZone && k.ratchet >= 0:
		k.push(moverIsBlack, 2)
		k.ratchet = 1
	case moverWinRate < redZone:
		k.push(!moverIsBlack, 2)
		k.ratchet = -1
	}
}

func (k *KomiController) push(towardBlack bool, amount int) {
	if towardBlack {
		k.Komi -= amount
	} else {
		k.Komi += amount
	}
}
