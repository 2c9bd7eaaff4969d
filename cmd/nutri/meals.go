package main

import (
	"fmt"

	"nutri-go/internal/nutri"

	"github.com/spf13/cobra"
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Record and browse meals",
}

var mealAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Record a meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		in := nutri.MealInput{Name: args[0]}
		in.Calories, _ = flags.GetFloat64("calories")
		in.Proteins, _ = flags.GetFloat64("proteins")
		in.Carbs, _ = flags.GetFloat64("carbs")
		in.Fats, _ = flags.GetFloat64("fats")
		photos, _ := flags.GetStringArray("photo")

		a, err := newApp(cmd, "AddMeal", args[0])
		if err != nil {
			return err
		}
		defer a.Close()

		meal, attached, err := a.AddMeal(cmd.Context(), in, photos)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded meal %s (%s, %.0f kcal) with %d photo(s)\n", meal.ID, meal.Name, meal.Calories, len(attached))
		return nil
	},
}

var mealPhotoCmd = &cobra.Command{
	Use:   "photo MEAL_ID PATH",
	Short: "Attach a photo to a meal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "AttachPhoto", args[0])
		if err != nil {
			return err
		}
		defer a.Close()

		photo, err := a.AttachPhoto(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Attached %s (%s)\n", photo.PhotoKey, photo.ContentType)
		return nil
	},
}

var mealListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meals",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := windowFromFlags(cmd)
		if err != nil {
			return err
		}

		a, err := newApp(cmd, "ListMeals", "")
		if err != nil {
			return err
		}
		defer a.Close()

		meals, err := a.ListMeals(cmd.Context(), w)
		if err != nil {
			return err
		}

		if len(meals) == 0 {
			fmt.Printf("No meals recorded (%s).\n", describeWindow(w))
			return nil
		}

		for _, m := range meals {
			fmt.Printf("%s  %s  %-24s  %6.0f kcal  P %5.1fg  C %5.1fg  F %5.1fg\n",
				m.ID,
				m.CreatedAt.Local().Format("2006-01-02 15:04"),
				m.Name,
				m.Calories,
				m.Proteins,
				m.Carbs,
				m.Fats,
			)
		}
		return nil
	},
}

var mealPhotosCmd = &cobra.Command{
	Use:   "photos MEAL_ID",
	Short: "Show signed URLs for a meal's photos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "PhotoURLs", "")
		if err != nil {
			return err
		}
		defer a.Close()

		urls, err := a.PhotoURLs(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if len(urls) == 0 {
			fmt.Println("No photos.")
			return nil
		}
		for _, u := range urls {
			fmt.Printf("%s\n  %s\n", u.Photo.PhotoKey, u.URL)
		}
		return nil
	},
}

var mealDeleteCmd = &cobra.Command{
	Use:   "delete MEAL_ID",
	Short: "Delete a meal and its photos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "DeleteMeal", args[0])
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteMeal(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted meal %s\n", args[0])
		return nil
	},
}

func addMealCommands(root *cobra.Command) {
	f := mealAddCmd.Flags()
	f.Float64P("calories", "k", 0, "Energy in kcal")
	f.Float64P("proteins", "p", 0, "Proteins in grams")
	f.Float64P("carbs", "c", 0, "Carbohydrates in grams")
	f.Float64P("fats", "f", 0, "Fats in grams")
	f.StringArray("photo", nil, "Photo file to attach (repeatable)")
	addRequestIDFlag(mealAddCmd)
	addRequestIDFlag(mealPhotoCmd)
	addRequestIDFlag(mealDeleteCmd)
	addWindowFlags(mealListCmd)

	mealCmd.AddCommand(mealAddCmd)
	mealCmd.AddCommand(mealPhotoCmd)
	mealCmd.AddCommand(mealListCmd)
	mealCmd.AddCommand(mealPhotosCmd)
	mealCmd.AddCommand(mealDeleteCmd)
	root.AddCommand(mealCmd)
}
