package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"

	"github.com/tesso57/commit-pet/internal/engine"
	"github.com/tesso57/commit-pet/internal/pet"
	"github.com/tesso57/commit-pet/internal/storage"
)

const progressWidth = 30

// Renderer turns engine results into terminal text.
type Renderer struct {
	Theme Theme
	// Emoji toggles decorative icons in headings and banners.
	Emoji bool
	Now   func() time.Time
}

// NewRenderer renders for out; monochrome disables color for out only.
func NewRenderer(out io.Writer, emoji, monochrome bool) Renderer {
	return Renderer{Theme: NewTheme(out, monochrome), Emoji: emoji, Now: time.Now}
}

func (r Renderer) icon(s string) string {
	if !r.Emoji {
		return ""
	}
	return s
}

func (r Renderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// LastFed formats t relative to now: "just now" under a minute, else "3 hours ago".
func (r Renderer) LastFed(t time.Time) string {
	now := r.now()
	if now.Sub(t) < time.Minute {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// PetCard is the ASCII pet with its stage and exp underneath.
func (r Renderer) PetCard(info pet.StageInfo, exp pet.Exp, lastFed time.Time) string {
	t := r.Theme
	style := t.StageStyle(info.Color)
	var b strings.Builder
	b.WriteString(style.Render(info.Art))
	b.WriteString("\n\n")
	b.WriteString(style.Bold(true).Render(info.Stage.Title()))
	b.WriteString(t.Muted.Render(" • "))
	b.WriteString(t.Muted.Render(fmt.Sprintf("%d EXP", exp)))
	b.WriteString("\n")
	b.WriteString(t.Muted.Render("Last fed: " + r.LastFed(lastFed)))
	return b.String()
}

// ProgressBar renders a fixed-width bar for percent in [0,100].
func (r Renderer) ProgressBar(percent int) string {
	bar := progress.New(
		progress.WithSolidFill(string(cGood)),
		progress.WithWidth(progressWidth),
		progress.WithoutPercentage(),
		progress.WithColorProfile(r.Theme.ColorProfile()),
	)
	return bar.ViewAs(float64(percent) / 100)
}

// Status renders the full status screen.
func (r Renderer) Status(res *engine.StatusResult) string {
	t := r.Theme
	var b strings.Builder
	b.WriteString(t.Panel.Render(t.Bold.Render("Commit Pet Status")))
	b.WriteString("\n\n")
	b.WriteString(r.PetCard(res.Info, res.State.Exp, res.State.UpdatedAt))
	b.WriteString("\n\n")
	b.WriteString(r.Progress(res))
	b.WriteString("\n\n")
	b.WriteString(t.Muted.Render("Config: " + res.ConfigPath))
	b.WriteString("\n")
	return b.String()
}

// Progress is the evolution progress block, or the max-level banner for a dragon.
func (r Renderer) Progress(res *engine.StatusResult) string {
	t := r.Theme
	if !res.HasNext {
		fire := r.icon(IconFire)
		banner := strings.TrimSpace(fire + " MAX LEVEL REACHED! " + fire)
		return t.Bad.Render(banner) + "\n" + t.Muted.Render("Your pet has evolved into a mighty dragon!")
	}
	remaining := int(res.Remaining())
	return "Progress to next stage: " + t.Good.Render(fmt.Sprintf("%d%%", res.Progress)) + "\n" +
		r.ProgressBar(res.Progress) + "\n" +
		t.Muted.Render(Plural(remaining, "more commit")+" to evolve!")
}

// Feed renders the outcome of a feed.
func (r Renderer) Feed(res *pet.FeedResult, info pet.StageInfo, fedAt time.Time) string {
	t := r.Theme
	var b strings.Builder
	if res.CommitCount == 0 {
		b.WriteString(t.Warn.Render("No new commits since last feeding!"))
		b.WriteString("\n")
		b.WriteString(t.Muted.Render("Make some commits and try again."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Fed your pet with %s!\n\n", t.Good.Render(Plural(res.CommitCount, "commit"))))
	if res.Evolved() {
		party := r.icon(IconParty)
		msg := fmt.Sprintf("Your pet evolved from %s to %s!", res.PreviousStage, res.CurrentStage)
		b.WriteString(t.Title.Render(strings.TrimSpace(party + " " + msg + " " + party)))
		b.WriteString("\n\n")
	}
	b.WriteString(r.PetCard(info, res.TotalExp, fedAt))
	b.WriteString("\n\n")
	b.WriteString(t.Muted.Render("Total EXP: ") + t.Bold.Render(fmt.Sprintf("%d", res.TotalExp)))
	b.WriteString("\n")
	return b.String()
}

// History renders journal rows as a list, newest first.
func (r Renderer) History(recs []storage.FeedRecord) string {
	t := r.Theme
	var b strings.Builder
	b.WriteString(t.Heading(r.icon(IconScroll), "Feed History"))
	b.WriteString("\n")
	if len(recs) == 0 {
		b.WriteString(t.Muted.Render("No feeds recorded yet."))
		b.WriteString("\n")
		return b.String()
	}
	for _, rec := range recs {
		line := fmt.Sprintf("- %s  +%d EXP (%s) → %d EXP  %s",
			t.Muted.Render(rec.FedAt.Local().Format("2006-01-02 15:04")),
			rec.ExpGained,
			Plural(rec.CommitCount, "commit"),
			rec.TotalExp,
			t.Muted.Render(rec.HeadSHA.Short()),
		)
		if rec.Evolved() {
			line += " " + t.BadgeEvolved() + " " + t.Gold.Render(fmt.Sprintf("%s → %s", rec.StageBefore, rec.StageAfter))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
