package domain

import (
	"fmt"
	"strings"
	"time"
)

// Location is a named place pantry items are kept in (fridge, cupboard...)
type Location struct {
	ID      string
	Name    string
	OwnerID string
}

// Item is a stocked pantry item
type Item struct {
	ID         string
	Name       string
	LocationID string
	Quantity   int
	Notes      string
	Expiry     *time.Time // Nil when the item does not expire
	Labels     []string
}

// IsExpired returns true if the item's expiry has been reached
func (i Item) IsExpired(now time.Time) bool {
	if i.Expiry == nil {
		return false
	}
	return !now.Before(*i.Expiry)
}

// IsExpiredWithOffset returns true if the item will have expired in days from now
func (i Item) IsExpiredWithOffset(now time.Time, days int) bool {
	if i.Expiry == nil {
		return false
	}
	return !now.AddDate(0, 0, days).Before(*i.Expiry)
}

// ExpiryString formats the expiry date in the local time zone, "" if unset
func (i Item) ExpiryString(format DateFormat) string {
	if i.Expiry == nil {
		return ""
	}
	return i.Expiry.Local().Format(format.Layout())
}

// DateFormat selects how dates are shown to the user
type DateFormat string

const (
	DateFormatYearMonthDay DateFormat = "ymd"
	DateFormatDayMonthYear DateFormat = "dmy"
	DateFormatMonthDayYear DateFormat = "mdy"
)

// Layout returns the time layout for the format (year-month-day if unknown)
func (f DateFormat) Layout() string {
	switch f {
	case DateFormatDayMonthYear:
		return "02/01/2006"
	case DateFormatMonthDayYear:
		return "01/02/2006"
	default:
		return "2006-01-02"
	}
}

// ParseDateFormat validates a configured date format name
func ParseDateFormat(s string) (DateFormat, error) {
	switch f := DateFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case DateFormatYearMonthDay, DateFormatDayMonthYear, DateFormatMonthDayYear:
		return f, nil
	case "":
		return DateFormatYearMonthDay, nil
	default:
		return "", fmt.Errorf("unknown date format %q (want ymd, dmy or mdy)", s)
	}
}

// CreateItem is the payload for stocking a new item in a location
type CreateItem struct {
	Name     string
	Quantity int
	Notes    string
	Expiry   *time.Time
	Labels   []string
}

// UpdateItem replaces an item's editable fields; LocationID moves it
type UpdateItem struct {
	Name       string
	LocationID string
	Quantity   int
	Notes      string
	Expiry     *time.Time
	Labels     []string
}

// UpdateFromItem builds a full update from an existing item
func UpdateFromItem(item Item) UpdateItem {
	return UpdateItem{
		Name:       item.Name,
		LocationID: item.LocationID,
		Quantity:   item.Quantity,
		Notes:      item.Notes,
		Expiry:     item.Expiry,
		Labels:     item.Labels,
	}
}
