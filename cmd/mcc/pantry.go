package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmcdole/mcc/internal/domain"
	"github.com/mmcdole/mcc/internal/paging"
	"github.com/mmcdole/mcc/internal/search"
	"github.com/mmcdole/mcc/internal/tui"
)

func newPantryCmd(a *app) *cobra.Command {
	var (
		name     string
		location string
		labels   []string
		expired  bool
	)
	cmd := &cobra.Command{
		Use:   "pantry",
		Short: "Browse pantry items, or manage locations and items with a subcommand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.sessions.IsLoggedIn() {
				return domain.ErrNotAuthenticated
			}

			ctx, cancel := commandContext()
			defer cancel()
			overview, err := a.pantry.Overview(ctx, a.cfg.Lists.PantryPerPage)
			if err != nil {
				return err
			}

			filter := domain.PantryFilter{
				PerPageCount: a.cfg.Lists.PantryPerPage,
				Labels:       labels,
			}.WithName(name)
			if location != "" {
				loc, err := a.pantry.ResolveLocation(ctx, location)
				if err != nil {
					return err
				}
				filter.LocationID = &loc.ID
			}
			if cmd.Flags().Changed("expired") {
				filter.Expired = &expired
			}

			title := "Pantry"
			if n := len(overview.Expired); n > 0 {
				title = fmt.Sprintf("Pantry (%d expired)", n)
			}
			rows := tui.ItemRows{
				Locations:   locationNames(overview.Locations),
				DateFormat:  a.cfg.DateFormat(),
				WarningDays: a.cfg.Display.ExpiryWarningDays,
			}

			watcher := tui.NewSessionWatcher()
			a.sessions.AddObserver(watcher)
			model := tui.NewListModel(a.pantry.NewCollection(filter), tui.Options[domain.Item, domain.PantryFilter]{
				Title:      title,
				Noun:       "items",
				RenderRow:  rows.Render,
				WithSearch: domain.PantryFilter.WithName,
				SearchText: domain.PantryFilter.SearchText,
				Notices:    a.notices,
				Session:    watcher,
				Logger:     a.logger,
			})
			return runList(a, model)
		},
	}
	cmd.Flags().StringVarP(&name, "search", "s", "", "Only items whose name matches")
	cmd.Flags().StringVar(&location, "location", "", "Only items in this location (name or ID)")
	cmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "Only items with this label (repeatable)")
	cmd.Flags().BoolVar(&expired, "expired", false, "Only expired (or, with =false, unexpired) items")

	cmd.AddCommand(
		newPantryListCmd(a),
		newLocationsCmd(a),
		newAddLocationCmd(a),
		newRenameLocationCmd(a),
		newDeleteLocationCmd(a),
		newAddItemCmd(a),
		newEditItemCmd(a),
		newDeleteItemCmd(a),
	)
	return cmd
}

func locationNames(locations []domain.Location) map[string]string {
	names := make(map[string]string, len(locations))
	for _, loc := range locations {
		names[loc.ID] = loc.Name
	}
	return names
}

// parseExpiry reads a date in the configured format as local midnight.
// Empty text means no expiry.
func parseExpiry(text string, format domain.DateFormat) (*time.Time, error) {
	if text == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(format.Layout(), text, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry %q, expected %s: %w", text, format.Layout(), err)
	}
	return &t, nil
}

func newPantryListCmd(a *app) *cobra.Command {
	var (
		name     string
		location string
		expired  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every matching pantry item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			locations, err := a.pantry.Locations(ctx)
			if err != nil {
				return err
			}
			filter := domain.PantryFilter{PerPageCount: a.cfg.Lists.PantryPerPage}.WithName(name)
			if location != "" {
				loc, err := search.MatchLocation(location, locations)
				if err != nil {
					return err
				}
				filter.LocationID = &loc.ID
			}
			if cmd.Flags().Changed("expired") {
				filter.Expired = &expired
			}

			items, err := paging.All(ctx, a.pantry.FetchItems, filter, func(loaded int) {
				a.logger.Debug("loaded pantry items", "count", loaded)
			})
			if err != nil {
				return err
			}
			names := locationNames(locations)
			for _, item := range items {
				printItem(cmd.OutOrStdout(), item, names, a.cfg.DateFormat())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "search", "s", "", "Only items whose name matches")
	cmd.Flags().StringVar(&location, "location", "", "Only items in this location (name or ID)")
	cmd.Flags().BoolVar(&expired, "expired", false, "Only expired (or, with =false, unexpired) items")
	return cmd
}

func newLocationsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List pantry locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			locations, err := a.pantry.Locations(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(locations) == 0 {
				fmt.Fprintln(w, "No locations yet. Add one with `mcc pantry add-location <name>`.")
			}
			for _, loc := range locations {
				fmt.Fprintf(w, "%s  %s\n", loc.ID, loc.Name)
			}
			return nil
		},
	}
}

func newAddLocationCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add-location <name>",
		Short: "Add a pantry location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			loc, err := a.pantry.CreateLocation(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added location %s (%s)\n", loc.Name, loc.ID)
			return nil
		},
	}
}

func newRenameLocationCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename-location <location> <new-name>",
		Short: "Rename a pantry location",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			loc, err := a.pantry.RenameLocation(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed location %s to %s\n", loc.ID, loc.Name)
			return nil
		},
	}
}

func newDeleteLocationCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-location <location>",
		Short: "Delete a pantry location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(fmt.Sprintf("Delete location %q and its items?", args[0]), yes)
			if err != nil || !ok {
				return err
			}
			ctx, cancel := commandContext()
			defer cancel()
			loc, err := a.pantry.DeleteLocation(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted location %s\n", loc.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// itemFlags are the editable item fields shared by add-item and edit-item
type itemFlags struct {
	quantity int
	notes    string
	expires  string
	labels   []string
}

func (f *itemFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.quantity, "quantity", "q", 1, "How many")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free text notes")
	cmd.Flags().StringVarP(&f.expires, "expires", "e", "", "Expiry date in the configured date format")
	cmd.Flags().StringSliceVarP(&f.labels, "label", "l", nil, "Label (repeatable)")
}

func newAddItemCmd(a *app) *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:   "add-item <location> <name>",
		Short: "Stock an item in a location",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			expiry, err := parseExpiry(flags.expires, a.cfg.DateFormat())
			if err != nil {
				return err
			}
			ctx, cancel := commandContext()
			defer cancel()
			item, err := a.pantry.CreateItem(ctx, args[0], domain.CreateItem{
				Name:     args[1],
				Quantity: flags.quantity,
				Notes:    flags.notes,
				Expiry:   expiry,
				Labels:   flags.labels,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), "Added ")
			printItem(cmd.OutOrStdout(), *item, nil, a.cfg.DateFormat())
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newEditItemCmd(a *app) *cobra.Command {
	var (
		flags    itemFlags
		name     string
		location string
	)
	cmd := &cobra.Command{
		Use:   "edit-item <id>",
		Short: "Replace an item's fields",
		Long: `Replace every editable field of an item. Fields not given are cleared,
except the quantity which defaults to 1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expiry, err := parseExpiry(flags.expires, a.cfg.DateFormat())
			if err != nil {
				return err
			}
			ctx, cancel := commandContext()
			defer cancel()
			loc, err := a.pantry.ResolveLocation(ctx, location)
			if err != nil {
				return err
			}
			update := domain.UpdateItem{
				Name:       name,
				LocationID: loc.ID,
				Quantity:   flags.quantity,
				Notes:      flags.notes,
				Expiry:     expiry,
				Labels:     flags.labels,
			}
			if err := a.pantry.UpdateItem(ctx, args[0], update); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s in %s\n", name, loc.Name)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Item name")
	cmd.Flags().StringVar(&location, "location", "", "Location (name or ID)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}

func newDeleteItemCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-item <id>",
		Short: "Remove an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(fmt.Sprintf("Delete item %s?", args[0]), yes)
			if err != nil || !ok {
				return err
			}
			ctx, cancel := commandContext()
			defer cancel()
			if err := a.pantry.DeleteItem(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
