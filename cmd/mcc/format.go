package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mmcdole/mcc/internal/codec"
	"github.com/mmcdole/mcc/internal/domain"
)

// formatAmount shows a stored amount as a fraction when one is close enough
func formatAmount(amount float64, approx codec.Approximator) string {
	if q, ok := approx.Approximate(amount); ok {
		return q.String()
	}
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// printRecipe writes the print view of a recipe
func printRecipe(w io.Writer, r domain.Recipe, approx codec.Approximator, imageURL string) {
	fmt.Fprintln(w, r.Title)
	fmt.Fprintln(w, strings.Repeat("=", len([]rune(r.Title))))
	if r.ShortDescription != "" {
		fmt.Fprintln(w, r.ShortDescription)
	}
	fmt.Fprintln(w)

	info := r.Info
	if info.PrepTime > 0 {
		fmt.Fprintf(w, "Prep:   %s\n", codec.FromSeconds(info.PrepTime))
	}
	if info.CookTime > 0 {
		fmt.Fprintf(w, "Cook:   %s\n", codec.FromSeconds(info.CookTime))
	}
	if total := info.TotalTime(); total > 0 {
		fmt.Fprintf(w, "Total:  %s\n", codec.FromSeconds(total))
	}
	if info.Yields != nil {
		fmt.Fprintf(w, "Makes:  %d %s\n", info.Yields.Value, info.Yields.UnitType)
	}
	var flags []string
	if info.Freezable {
		flags = append(flags, "freezable")
	}
	if info.MicrowaveOnly {
		flags = append(flags, "microwave only")
	}
	if len(flags) > 0 {
		fmt.Fprintf(w, "Notes:  %s\n", strings.Join(flags, ", "))
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(w, "Labels: %s\n", strings.Join(r.Tags, ", "))
	}
	if imageURL != "" {
		fmt.Fprintf(w, "Image:  %s\n", imageURL)
	}

	if len(r.Ingredients) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Ingredients")
		for _, ing := range r.Ingredients {
			line := strings.TrimSpace(strings.Join([]string{formatAmount(ing.Amount, approx), ing.UnitType, ing.Name}, " "))
			line = strings.Join(strings.Fields(line), " ")
			if ing.Description != "" {
				line += ", " + ing.Description
			}
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}

	if len(r.Steps) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Method")
		for i, step := range r.Steps {
			if step.Title != "" {
				fmt.Fprintf(w, "  %d. %s: %s\n", i+1, step.Title, step.Description)
			} else {
				fmt.Fprintf(w, "  %d. %s\n", i+1, step.Description)
			}
		}
	}

	if r.LongDescription != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, r.LongDescription)
	}
	if r.Source != "" {
		fmt.Fprintf(w, "\nSource: %s\n", r.Source)
	}
}

// printItem writes one pantry item on a line
func printItem(w io.Writer, item domain.Item, locations map[string]string, format domain.DateFormat) {
	line := fmt.Sprintf("%s  %s", item.ID, item.Name)
	if item.Quantity > 1 {
		line += fmt.Sprintf(" x%d", item.Quantity)
	}
	if name, ok := locations[item.LocationID]; ok {
		line += "  @" + name
	}
	if expiry := item.ExpiryString(format); expiry != "" {
		line += "  expires " + expiry
	}
	fmt.Fprintln(w, line)
}
