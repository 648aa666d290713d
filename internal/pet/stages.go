package pet

import (
	perrors "github.com/tesso57/commit-pet/internal/errors"
)

// Color names a stage's display color. ui maps these onto terminal colors.
type Color string

const (
	ColorWhite   Color = "white"
	ColorYellow  Color = "yellow"
	ColorMagenta Color = "magenta"
	ColorRed     Color = "red"
)

// threshold is one closed window [minExp, maxExp] of the stage table.
// The top stage has open = true and no upper bound.
type threshold struct {
	stage  Stage
	minExp Exp
	maxExp Exp
	open   bool
	art    string
	color  Color
}

// Stage windows are game-balance constants, not a formula; tune them here.
var thresholds = []threshold{
	{
		stage:  StageEgg,
		minExp: 0,
		maxExp: 4,
		color:  ColorWhite,
		art: `  ╭───╮
  │ ● │
  ╰───╯`,
	},
	{
		stage:  StageChick,
		minExp: 5,
		maxExp: 14,
		color:  ColorYellow,
		art: `  ╭◝◜╮
  │˙◡˙│
  ╰─┬─╯
   ╱ ╲`,
	},
	{
		stage:  StageChicken,
		minExp: 15,
		maxExp: 29,
		color:  ColorMagenta,
		art: `  ╭─◜◝─╮
  │ ˙◡˙ │
  ├─┬─┬─┤
  │ │ │ │
  ╰─┴─┴─╯`,
	},
	{
		stage:  StageDragon,
		minExp: 30,
		open:   true,
		color:  ColorRed,
		art: `  ╭──🔥──╮
  │ ⚡◉◉⚡ │
  ├─╫─╫─╫─┤
  │ ╫ ╫ ╫ │
  ╰─🔥─🔥─╯`,
	},
}

func (t threshold) contains(exp Exp) bool {
	return exp >= t.minExp && (t.open || exp <= t.maxExp)
}

// ExpPerCommit is the default experience granted for a single commit.
const ExpPerCommit Exp = 1

// Stages returns the known stages, lowest first.
func Stages() []Stage {
	out := make([]Stage, 0, len(thresholds))
	for _, t := range thresholds {
		out = append(out, t.stage)
	}
	return out
}

func lookup(exp Exp) threshold {
	for _, t := range thresholds {
		if t.contains(exp) {
			return t
		}
	}
	// Unreachable while the table partitions [0, ∞).
	return thresholds[0]
}

// CalculateStage returns the stage whose window contains exp.
func CalculateStage(exp Exp) Stage {
	return lookup(exp).stage
}

type StageInfo struct {
	Stage Stage
	Art   string
	Color Color
	// NextStageExp is the minimum exp of the next stage; HasNext is false at the top.
	NextStageExp Exp
	HasNext      bool
}

// GetStageInfo returns display data for stage. An unknown stage is a
// programming error and is reported as KindPet.
func GetStageInfo(stage Stage) (StageInfo, error) {
	for i, t := range thresholds {
		if t.stage != stage {
			continue
		}
		info := StageInfo{Stage: t.stage, Art: t.art, Color: t.color}
		if i+1 < len(thresholds) {
			info.NextStageExp = thresholds[i+1].minExp
			info.HasNext = true
		}
		return info, nil
	}
	return StageInfo{}, perrors.Wrap(perrors.KindPet, perrors.ErrUnknownStage, "Unknown stage: "+string(stage))
}

// ProgressPercentage returns how far exp is through its stage window, floored, in [0,100].
// The top stage always reports 100.
func ProgressPercentage(exp Exp) int {
	t := lookup(exp)
	if t.open {
		return 100
	}
	span := int(t.maxExp-t.minExp) + 1
	return int(exp-t.minExp) * 100 / span
}

// NextStageRequirement returns the exp at which the next stage begins.
// ok is false at the top stage.
func NextStageRequirement(exp Exp) (next Exp, ok bool) {
	t := lookup(exp)
	if t.open {
		return 0, false
	}
	return t.maxExp + 1, true
}
