package pet

import (
	"fmt"
	"strings"
	"time"

	perrors "github.com/tesso57/commit-pet/internal/errors"
)

type Stage string

const (
	StageEgg     Stage = "egg"
	StageChick   Stage = "chick"
	StageChicken Stage = "chicken"
	StageDragon  Stage = "dragon"
)

func (s Stage) IsValid() bool {
	switch s {
	case StageEgg, StageChick, StageChicken, StageDragon:
		return true
	default:
		return false
	}
}

// Title returns the capitalised label used in the pet card ("Chick").
func (s Stage) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Exp is an accumulated, never negative, experience counter.
type Exp int

// NewExp validates v at the boundary; callers inside the package work with Exp directly.
func NewExp(v int) (Exp, error) {
	if v < 0 {
		return 0, perrors.Newf(perrors.KindValidation, "experience points cannot be negative: %d", v)
	}
	return Exp(v), nil
}

func (e Exp) Int() int { return int(e) }

// SHA is a full 40 character hexadecimal commit id. The zero value means "no commit".
type SHA string

const shaLength = 40

// ParseSHA trims nothing and accepts upper or lower case hex.
func ParseSHA(s string) (SHA, error) {
	if len(s) != shaLength {
		return "", perrors.Newf(perrors.KindValidation, "invalid commit SHA %q", s)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return "", perrors.Newf(perrors.KindValidation, "invalid commit SHA %q", s)
		}
	}
	return SHA(s), nil
}

func (s SHA) IsZero() bool { return s == "" }

// Short returns the abbreviated 7 character form used for display.
func (s SHA) Short() string {
	if len(s) < 7 {
		return string(s)
	}
	return string(s[:7])
}

func (s SHA) String() string { return string(s) }

// State is the persisted pet record.
type State struct {
	Stage     Stage
	Exp       Exp
	LastSHA   SHA
	UpdatedAt time.Time
}

// DefaultState is the record a brand new pet starts from.
func DefaultState(now time.Time) State {
	return State{
		Stage:     StageEgg,
		Exp:       0,
		UpdatedAt: now,
	}
}

// Validate checks the structural invariant of a record, including that the
// stage agrees with the experience it was computed from.
func (s State) Validate() error {
	if !s.Stage.IsValid() {
		return perrors.Wrap(perrors.KindValidation, perrors.ErrInvalidState, fmt.Sprintf("unknown stage %q", s.Stage))
	}
	if s.Exp < 0 {
		return perrors.Wrap(perrors.KindValidation, perrors.ErrInvalidState, fmt.Sprintf("negative experience %d", s.Exp))
	}
	if !s.LastSHA.IsZero() {
		if _, err := ParseSHA(string(s.LastSHA)); err != nil {
			return perrors.Wrap(perrors.KindValidation, perrors.ErrInvalidState, fmt.Sprintf("malformed lastSha %q", s.LastSHA))
		}
	}
	if want := CalculateStage(s.Exp); want != s.Stage {
		return perrors.Wrap(perrors.KindValidation, perrors.ErrInvalidState, fmt.Sprintf("stage %s does not match %d exp (want %s)", s.Stage, s.Exp, want))
	}
	return nil
}

type FeedResult struct {
	PreviousStage    Stage
	CurrentStage     Stage
	CommitCount      int
	ExperienceGained Exp
	TotalExp         Exp
}

// Evolved reports whether the feed moved the pet into a new stage.
func (r FeedResult) Evolved() bool {
	return r.PreviousStage != r.CurrentStage
}
