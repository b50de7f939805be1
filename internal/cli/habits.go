package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/streakly/internal/models"
)

type HabitsCmd struct {
	Verbose bool `short:"v" help:"Show icon, colour and notes."`
}

func (c *HabitsCmd) Run(ctx *Context) error {
	habits := ctx.Catalog.All()
	if len(habits) == 0 {
		ctx.Println("No habits found. Add some to your habit seed file (--habits).")
		return nil
	}

	for _, h := range habits {
		ctx.Printf("%-24s %-5s %-8s %s\n", h.Name, h.TrackingUnit, h.Frequency, ctx.Status.ProgressText(h))
		if c.Verbose {
			ctx.Printf("    icon: %s  color: %s\n", h.IconName, h.ColorHex)
			if h.Notes != "" {
				ctx.Printf("    notes: %s\n", h.Notes)
			}
		}
	}

	overall := ctx.Status.OverallFraction(habits)
	ctx.Printf("\nToday: %d%%%s\n", int(overall*100), completionMark(ctx.Status.IsComplete(habits)))
	return nil
}

func completionMark(done bool) string {
	if done {
		return " ✓"
	}
	return ""
}

type IconsCmd struct {
	Category string `short:"c" help:"Only show this category."`
	Search   string `short:"s" help:"Only show icons whose name contains this text."`
}

func (c *IconsCmd) Run(ctx *Context) error {
	categories := models.FilterIcons(c.Search)

	found := false
	for _, cat := range categories {
		if c.Category != "" && !strings.EqualFold(cat.Name, c.Category) {
			continue
		}
		found = true
		ctx.Printf("%s\n", cat.Name)
		for _, icon := range cat.Icons {
			ctx.Printf("  %s\n", icon)
		}
	}

	if !found {
		return fmt.Errorf("no icons match category %q and search %q", c.Category, c.Search)
	}
	return nil
}
