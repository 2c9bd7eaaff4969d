package main

import (
	"fmt"
	"time"

	"nutri-go/internal/nutri"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

var trainingCmd = &cobra.Command{
	Use:   "training",
	Short: "Record and browse trainings",
}

var trainingAddCmd = &cobra.Command{
	Use:   "add TYPE",
	Short: "Record a training",
	Long:  "Record a training. TYPE is one of the names listed by nutri training types.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := nutri.ParseTrainingType(args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		rawDate, _ := flags.GetString("date")
		date := time.Now()
		if rawDate != "" {
			date, err = time.ParseInLocation(dateLayout, rawDate, time.Local)
			if err != nil {
				return fmt.Errorf("--date must look like %s: %w", dateLayout, err)
			}
		}
		in := nutri.TrainingInput{Type: kind, Date: date}
		in.Duration, _ = flags.GetFloat64("duration")
		in.CaloriesBurned, _ = flags.GetFloat64("calories")

		a, err := newApp(cmd, "AddTraining", string(kind))
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.AddTraining(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded training %s (%s, %.0f min, %.0f kcal)\n", id, kind, in.Duration, in.CaloriesBurned)
		return nil
	},
}

var trainingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trainings",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := windowFromFlags(cmd)
		if err != nil {
			return err
		}

		a, err := newApp(cmd, "ListTrainings", "")
		if err != nil {
			return err
		}
		defer a.Close()

		trainings, err := a.ListTrainings(cmd.Context(), w)
		if err != nil {
			return err
		}

		if len(trainings) == 0 {
			fmt.Printf("No trainings recorded (%s).\n", describeWindow(w))
			return nil
		}
		for _, t := range trainings {
			fmt.Printf("%s  %s  %-12s  %5.0f min  %6.0f kcal\n",
				t.ID,
				t.Date.Local().Format(dateLayout),
				t.Type,
				t.Duration,
				t.CaloriesBurned,
			)
		}
		return nil
	},
}

var trainingTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List training types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range nutri.TrainingTypes {
			fmt.Println(t)
		}
	},
}

func addTrainingCommands(root *cobra.Command) {
	f := trainingAddCmd.Flags()
	f.String("date", "", "Day of the training, "+dateLayout+" (default today)")
	f.Float64P("duration", "m", 0, "Duration in minutes")
	f.Float64P("calories", "k", 0, "Calories burned in kcal")
	addRequestIDFlag(trainingAddCmd)
	addWindowFlags(trainingListCmd)

	trainingCmd.AddCommand(trainingAddCmd)
	trainingCmd.AddCommand(trainingListCmd)
	trainingCmd.AddCommand(trainingTypesCmd)
	root.AddCommand(trainingCmd)
}
