package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/a010145456/FitTrackApp/internal/domain"
)

func (a *app) addCommand() *cobra.Command {
	var in domain.ExerciseInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an exercise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *domain.Service, out io.Writer) error {
				exercise, err := svc.AddExercise(ctx, in)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "added %s\n", exercise.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "exercise name")
	cmd.Flags().StringVar(&in.Duration, "duration", "", "duration in whole minutes")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every exercise",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *domain.Service, out io.Writer) error {
				exercises, err := svc.ListExercises(ctx)
				if err != nil {
					return err
				}
				if len(exercises) == 0 {
					_, err = fmt.Fprintln(out, "No exercises recorded.")
					return err
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tDURATION")
				for _, ex := range exercises {
					fmt.Fprintf(w, "%s\t%s\t%d min\n", ex.ID, ex.Name, ex.DurationMinutes)
				}
				return w.Flush()
			})
		},
	}
}

func (a *app) modifyCommand() *cobra.Command {
	var in domain.ExerciseInput
	cmd := &cobra.Command{
		Use:     "modify <id>",
		Aliases: []string{"update"},
		Short:   "Replace an exercise's name and duration",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *domain.Service, out io.Writer) error {
				exercise, err := svc.UpdateExercise(ctx, args[0], in)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "updated %s\n", exercise.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "exercise name")
	cmd.Flags().StringVar(&in.Duration, "duration", "", "duration in whole minutes")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}

func (a *app) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an exercise",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *domain.Service, out io.Writer) error {
				if err := svc.DeleteExercise(ctx, args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(out, "deleted %s\n", args[0])
				return err
			})
		},
	}
}
