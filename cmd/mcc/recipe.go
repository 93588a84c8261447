package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/mcc/internal/codec"
	"github.com/mmcdole/mcc/internal/domain"
	"github.com/mmcdole/mcc/internal/service"
	"github.com/mmcdole/mcc/internal/tui"
)

func newRecipesCmd(a *app) *cobra.Command {
	var (
		search        string
		labels        []string
		freezable     bool
		microwaveOnly bool
	)
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Browse recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.sessions.IsLoggedIn() {
				return domain.ErrNotAuthenticated
			}

			filter := domain.RecipesFilter{
				PerPageCount: a.cfg.Lists.RecipesPerPage,
				Labels:       labels,
			}.WithTitle(search)
			if cmd.Flags().Changed("freezable") {
				filter.Freezable = &freezable
			}
			if cmd.Flags().Changed("microwave-only") {
				filter.MicrowaveOnly = &microwaveOnly
			}

			watcher := tui.NewSessionWatcher()
			a.sessions.AddObserver(watcher)
			model := tui.NewListModel(a.recipes.NewCollection(filter), tui.Options[domain.Recipe, domain.RecipesFilter]{
				Title:      "Recipes",
				Noun:       "recipes",
				RenderRow:  tui.RecipeRow,
				WithSearch: domain.RecipesFilter.WithTitle,
				SearchText: domain.RecipesFilter.SearchText,
				Notices:    a.notices,
				Session:    watcher,
				Logger:     a.logger,
			})
			return runList(a, model)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only recipes whose title matches")
	cmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "Only recipes with this label (repeatable)")
	cmd.Flags().BoolVar(&freezable, "freezable", false, "Only freezable recipes")
	cmd.Flags().BoolVar(&microwaveOnly, "microwave-only", false, "Only microwave-only recipes")
	return cmd
}

func newRecipeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Show and edit a single recipe",
	}
	cmd.AddCommand(
		newRecipeShowCmd(a),
		newRecipeNewCmd(a),
		newRecipeDeleteCmd(a),
		newRecipeImageCmd(a),
		newRecipeImageDeleteCmd(a),
		newRecipeAddIngredientCmd(a),
		newRecipeSetInfoCmd(a),
	)
	return cmd
}

func newRecipeShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			recipe, err := a.recipes.Get(ctx, args[0])
			if err != nil {
				return err
			}
			var imageURL string
			if s, ok := a.sessions.Current(); ok {
				imageURL = s.RecipeImageURL(recipe.ImageID)
			}
			printRecipe(cmd.OutOrStdout(), *recipe, a.cfg.Approximator(), imageURL)
			return nil
		},
	}
}

func newRecipeNewCmd(a *app) *cobra.Command {
	var (
		description string
		labels      []string
		source      string
	)
	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			recipe, err := a.recipes.Create(ctx, domain.CreateRecipe{
				Title:            args[0],
				ShortDescription: description,
				Tags:             labels,
				Source:           source,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created recipe %s (%s)\n", recipe.Title, recipe.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Short description")
	cmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "Label (repeatable)")
	cmd.Flags().StringVar(&source, "source", "", "Where the recipe comes from")
	return cmd
}

func newRecipeDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(fmt.Sprintf("Delete recipe %s?", args[0]), yes)
			if err != nil || !ok {
				return err
			}
			ctx, cancel := commandContext()
			defer cancel()
			if err := a.recipes.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newRecipeImageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "image <id> <file>",
		Short: "Upload an image for a recipe",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			imageID, err := a.recipes.UploadImage(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if s, ok := a.sessions.Current(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", s.RecipeImageURL(imageID))
			}
			return nil
		},
	}
}

func newRecipeImageDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "image-delete <id>",
		Short: "Remove a recipe's image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			if err := a.recipes.DeleteImage(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Image removed.")
			return nil
		},
	}
}

func newRecipeAddIngredientCmd(a *app) *cobra.Command {
	var input service.IngredientInput
	cmd := &cobra.Command{
		Use:   "add-ingredient <id> <name>",
		Short: "Append an ingredient to a recipe",
		Example: `  mcc recipe add-ingredient 42 flour --amount "1 1/2" --unit cups
  mcc recipe add-ingredient 42 eggs --amount 3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Name = args[1]
			ctx, cancel := commandContext()
			defer cancel()
			recipe, err := a.recipes.AddIngredient(ctx, args[0], input)
			if err != nil {
				return err
			}
			added := recipe.Ingredients[len(recipe.Ingredients)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s to %s\n",
				formatAmount(added.Amount, a.cfg.Approximator()), added.UnitType, added.Name, recipe.Title)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input.Amount, "amount", "a", "1", `Amount: "2", "1/2", "1 1/2" or "0.5"`)
	cmd.Flags().StringVarP(&input.UnitType, "unit", "u", "", "Unit, e.g. cups")
	cmd.Flags().StringVarP(&input.Description, "description", "d", "", "Preparation note, e.g. sifted")
	return cmd
}

func newRecipeSetInfoCmd(a *app) *cobra.Command {
	var (
		prep, cook    string
		yields        int
		yieldsUnit    string
		freezable     bool
		microwaveOnly bool
	)
	cmd := &cobra.Command{
		Use:     "set-info <id>",
		Short:   "Change a recipe's times, yield and handling flags",
		Example: `  mcc recipe set-info 42 --prep 15:00 --cook 1:10:00 --yields 4 --yields-unit servings`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var change service.InfoChange
			flags := cmd.Flags()

			if flags.Changed("prep") {
				d, err := codec.ParseClock(prep)
				if err != nil {
					return fmt.Errorf("invalid prep time: %w", err)
				}
				change.PrepTime = &d
			}
			if flags.Changed("cook") {
				d, err := codec.ParseClock(cook)
				if err != nil {
					return fmt.Errorf("invalid cook time: %w", err)
				}
				change.CookTime = &d
			}
			if flags.Changed("yields") || flags.Changed("yields-unit") {
				change.Yields = &domain.Yields{Value: yields, UnitType: yieldsUnit}
			}
			if flags.Changed("freezable") {
				change.Freezable = &freezable
			}
			if flags.Changed("microwave-only") {
				change.MicrowaveOnly = &microwaveOnly
			}

			ctx, cancel := commandContext()
			defer cancel()
			recipe, err := a.recipes.SetInfo(ctx, args[0], change)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: prep %s, cook %s, total %s\n", recipe.Title,
				codec.FromSeconds(recipe.Info.PrepTime),
				codec.FromSeconds(recipe.Info.CookTime),
				codec.FromSeconds(recipe.Info.TotalTime()))
			return nil
		},
	}
	cmd.Flags().StringVar(&prep, "prep", "", "Prep time as H:MM:SS or M:SS")
	cmd.Flags().StringVar(&cook, "cook", "", "Cook time as H:MM:SS or M:SS")
	cmd.Flags().IntVar(&yields, "yields", 0, "How many the recipe makes")
	cmd.Flags().StringVar(&yieldsUnit, "yields-unit", "", "What the yield counts, e.g. servings")
	cmd.Flags().BoolVar(&freezable, "freezable", false, "Whether the dish freezes well")
	cmd.Flags().BoolVar(&microwaveOnly, "microwave-only", false, "Whether the dish only needs a microwave")
	return cmd
}
