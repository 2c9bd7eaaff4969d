package main

import (
	"fmt"
	"math"
	"strings"

	"nutri-go/internal/nutri"

	"github.com/spf13/cobra"
)

// chartWidth is the number of cells the longest bar of the chart fills.
const chartWidth = 40

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show the calorie balance and recipe suggestions",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := windowFromFlags(cmd)
		if err != nil {
			return err
		}

		a, err := newApp(cmd, "Suggest", "")
		if err != nil {
			return err
		}
		defer a.Close()

		sug, err := a.Suggest(cmd.Context(), w)
		if sug == nil {
			return err
		}

		b := sug.Balance
		fmt.Printf("Period:    %s (%d meals, %d trainings)\n", describeWindow(w), sug.Meals, sug.Trainings)
		fmt.Printf("Consumed:  %.0f kcal\n", b.Consumed)
		fmt.Printf("Burned:    %.0f kcal\n", b.Burned)
		fmt.Printf("Deficit:   %.0f kcal\n", b.Deficit)
		fmt.Printf("Advice:    %s\n", b.Recommendation())
		fmt.Printf("Targets:   protein %.0fg, carbs %.0fg, fats %.0fg\n", sug.Targets.Protein, sug.Targets.Carbs, sug.Targets.Fats)

		if err != nil {
			// The balance above is still valid; only the recipe lookup failed.
			return err
		}
		if sug.Query == nil {
			fmt.Println("\nRecipe suggestions are off (no recipes api key).")
			return nil
		}
		if len(sug.Recipes) == 0 {
			fmt.Println("\nNo recipes match these targets.")
			return nil
		}
		fmt.Println("\nRecipes:")
		for _, r := range sug.Recipes {
			fmt.Printf("  %-40s %5.0f kcal  %s\n", r.Title, r.Calories, r.Image)
		}
		return nil
	},
}

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Fit calories burned against training duration",
	RunE: func(cmd *cobra.Command, args []string) error {
		predict, _ := cmd.Flags().GetFloat64Slice("predict")

		a, err := newApp(cmd, "FitModel", "")
		if err != nil {
			return err
		}
		defer a.Close()

		m, err := a.FitModel(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("calories = %.2f + %.2f * minutes\n", m.Intercept, m.Slope)
		if math.IsNaN(m.RSquared) {
			fmt.Printf("R² on %d held-out trainings: undefined\n", m.TestSize)
		} else {
			fmt.Printf("R² on %d held-out trainings: %.3f\n", m.TestSize, m.RSquared)
		}
		fmt.Printf("Trained on %d trainings\n", m.TrainSize)

		for _, d := range predict {
			fmt.Printf("%6.0f min -> %6.0f kcal\n", d, m.Predict(d))
		}
		return nil
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Chart daily calories consumed and burned",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := windowFromFlags(cmd)
		if err != nil {
			return err
		}

		a, err := newApp(cmd, "DailyCalories", "")
		if err != nil {
			return err
		}
		defer a.Close()

		days, err := a.DailyCalories(cmd.Context(), w)
		if err != nil {
			return err
		}
		if len(days) == 0 {
			fmt.Printf("Nothing recorded (%s).\n", describeWindow(w))
			return nil
		}
		fmt.Print(renderChart(days))
		return nil
	},
}

// renderChart draws one "+" bar for intake and one "-" bar for burn per day,
// scaled so the largest value spans chartWidth cells.
func renderChart(days []nutri.DayTotal) string {
	var peak float64
	for _, d := range days {
		peak = math.Max(peak, math.Max(d.Consumed, d.Burned))
	}

	bar := func(v float64, mark string) string {
		if peak == 0 {
			return ""
		}
		return strings.Repeat(mark, int(math.Round(v/peak*chartWidth)))
	}

	var sb strings.Builder
	for _, d := range days {
		fmt.Fprintf(&sb, "%s  in  %6.0f  %s\n", d.Day.Format(dateLayout), d.Consumed, bar(d.Consumed, "+"))
		fmt.Fprintf(&sb, "%s  out %6.0f  %s\n", strings.Repeat(" ", len(dateLayout)), d.Burned, bar(d.Burned, "-"))
	}
	return sb.String()
}

func addAnalysisCommands(root *cobra.Command) {
	addWindowFlags(suggestCmd)
	addWindowFlags(chartCmd)
	modelCmd.Flags().Float64Slice("predict", nil, "Durations in minutes to predict calories for")

	root.AddCommand(suggestCmd)
	root.AddCommand(modelCmd)
	root.AddCommand(chartCmd)
}
