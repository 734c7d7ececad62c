package classification

import "github.com/lox/riposte/poker"

// TextureType is a categorical board-texture classification, distinct from
// the coarser wetness score returned by AnalyzeBoardTexture. Where the
// wetness score answers "how dangerous," TextureType answers "dangerous in
// what specific way." The bladework bot reads AnalyzeBoardTexture, not
// ClassifyTexture.
type TextureType int

const (
	PairedDry TextureType = iota
	PairedCoordinated
	DoubleDraw
	CoordinatedWet
	SingleDraw
	RainbowDry
)

func (t TextureType) String() string {
	switch t {
	case PairedDry:
		return "paired_dry"
	case PairedCoordinated:
		return "paired_coordinated"
	case DoubleDraw:
		return "double_draw"
	case CoordinatedWet:
		return "coordinated_wet"
	case SingleDraw:
		return "single_draw"
	case RainbowDry:
		return "rainbow_dry"
	default:
		return "unknown"
	}
}

// ClassifyTexture assigns a single categorical TextureType to a board of
// three or more cards, combining pair, flush, and straight signals into one
// label rather than the additive wetness score.
func ClassifyTexture(board poker.Hand) TextureType {
	paired := countBoardPairs(board) >= 1
	flush := AnalyzeFlushPotential(board)
	straight := AnalyzeStraightPotential(board)

	hasFlushDraw := flush.MaxSuitCount >= 2
	hasStraightDraw := straight.ConnectedCards >= 2 || straight.Gaps <= 1

	switch {
	case paired && (hasFlushDraw || hasStraightDraw):
		return PairedCoordinated
	case paired:
		return PairedDry
	case hasFlushDraw && hasStraightDraw:
		return DoubleDraw
	case flush.MaxSuitCount >= 3 || straight.ConnectedCards >= 3:
		return CoordinatedWet
	case hasFlushDraw || hasStraightDraw:
		return SingleDraw
	default:
		return RainbowDry
	}
}
