package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mmcdole/mcc/internal/codec"
	"github.com/mmcdole/mcc/internal/domain"
	"github.com/mmcdole/mcc/internal/tui/styles"
)

// RecipeRow renders a recipe as its title, total time and labels
func RecipeRow(r domain.Recipe, selected bool, width int) string {
	parts := []styles.RowPart{{Text: styles.Truncate(r.Title, max(width/2, 10))}}
	if total := r.Info.TotalTime(); total > 0 {
		parts = append(parts, styles.RowPart{
			Text:  "  " + codec.FromSeconds(total).String(),
			Style: &styles.DimStyle,
		})
	}
	if len(r.Tags) > 0 {
		parts = append(parts, styles.RowPart{
			Text:  "  #" + strings.Join(r.Tags, " #"),
			Style: &styles.AccentStyle,
		})
	}
	return styles.RenderListRow(parts, selected, width)
}

// ItemRows renders pantry items with their location and expiry
type ItemRows struct {
	Locations   map[string]string // Location ID -> name
	DateFormat  domain.DateFormat
	WarningDays int
	Now         func() time.Time
}

// Render renders one item row
func (r ItemRows) Render(item domain.Item, selected bool, width int) string {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}

	name := item.Name
	if item.Quantity > 1 {
		name = fmt.Sprintf("%s x%d", item.Name, item.Quantity)
	}
	parts := []styles.RowPart{{Text: styles.Truncate(name, max(width/3, 10))}}

	if loc, ok := r.Locations[item.LocationID]; ok {
		parts = append(parts, styles.RowPart{Text: "  @" + loc, Style: &styles.SubtitleStyle})
	}

	if item.Expiry != nil {
		parts = append(parts, styles.RowPart{
			Text: fmt.Sprintf("  %s (%s)", item.ExpiryString(r.DateFormat),
				humanize.RelTime(*item.Expiry, now, "ago", "from now")),
			Style: r.expiryStyle(item, now),
		})
	}

	if len(item.Labels) > 0 {
		parts = append(parts, styles.RowPart{
			Text:  "  #" + strings.Join(item.Labels, " #"),
			Style: &styles.AccentStyle,
		})
	}
	return styles.RenderListRow(parts, selected, width)
}

// expiryStyle flags expired items as errors and items expiring within the
// warning window as warnings
func (r ItemRows) expiryStyle(item domain.Item, now time.Time) *lipgloss.Style {
	switch {
	case item.IsExpired(now):
		return &styles.ErrorStyle
	case item.IsExpiredWithOffset(now, r.WarningDays):
		return &styles.WarningStyle
	default:
		return &styles.DimStyle
	}
}
