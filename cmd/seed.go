package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the configured stores with generated employers and jobs",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().Int("employers", seed.DefaultEmployers, "number of employer accounts")
	seedCmd.Flags().Int("jobs", seed.DefaultJobs, "number of job postings")
	seedCmd.Flags().Uint64("seed", 1, "random seed for reproducible data")
	seedCmd.Flags().String("password", seed.DefaultPassword, "password of every generated employer")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	employers, _ := flags.GetInt("employers")
	jobCount, _ := flags.GetInt("jobs")
	rngSeed, _ := flags.GetUint64("seed")
	password, _ := flags.GetString("password")

	return withServices(cmd, func(svc *services, _ *Config, log *zap.Logger) error {
		res, err := seed.New(svc.users, svc.jobs, log).Run(cmd.Context(), seed.Options{
			Employers: employers,
			Jobs:      jobCount,
			Password:  password,
			Seed:      rngSeed,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %d employers and %d jobs\n", len(res.Employers), len(res.Jobs))
		return nil
	})
}
