package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/users"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	outputTable = "table"
	outputJSON  = "json"
)

var errAborted = errors.New("aborted by user")

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect and manage job postings",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs matching the facet flags, newest first",
	Args:  cobra.NoArgs,
	RunE:  runJobsList,
}

var jobsGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show a single job",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsGet,
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a job on behalf of its employer",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsDelete,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsListCmd, jobsGetCmd, jobsDeleteCmd)

	jobsCmd.PersistentFlags().StringP("output", "o", outputTable, "output format: table or json")
	addFilterFlags(jobsListCmd)
	jobsDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func writeOutput(cmd *cobra.Command, v any, table func(io.Writer) error) error {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case outputJSON:
		pretty, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
		return err
	case outputTable, "":
		return table(cmd.OutOrStdout())
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func runJobsList(cmd *cobra.Command, _ []string) error {
	f, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	return withServices(cmd, func(svc *services, _ *Config, _ *zap.Logger) error {
		list, err := svc.jobs.Query(cmd.Context(), f)
		if err != nil {
			return err
		}
		return writeOutput(cmd, list, func(w io.Writer) error { return printJobs(w, list) })
	})
}

func runJobsGet(cmd *cobra.Command, args []string) error {
	return withServices(cmd, func(svc *services, _ *Config, _ *zap.Logger) error {
		job, err := svc.jobs.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeOutput(cmd, job, func(w io.Writer) error { return printJobs(w, []*jobs.Job{job}) })
	})
}

func runJobsDelete(cmd *cobra.Command, args []string) error {
	autoApprove, _ := cmd.Flags().GetBool("yes")

	return withServices(cmd, func(svc *services, _ *Config, log *zap.Logger) error {
		ctx := cmd.Context()
		job, err := svc.jobs.Get(ctx, args[0])
		if err != nil {
			return err
		}

		if !autoApprove {
			prompt := promptui.Select{
				Label: fmt.Sprintf("Delete %q (%s)?", job.Title, job.ID),
				Items: []string{PromptYes, PromptNo},
			}
			_, answer, err := prompt.Run()
			if err != nil {
				return fmt.Errorf("prompt: %w", err)
			}
			if answer != PromptYes {
				return errAborted
			}
		}

		owner := users.Identity{UserID: job.EmployerID, Role: users.RoleEmployer}
		deleted, err := svc.jobs.Delete(ctx, owner, job.ID)
		if err != nil {
			return err
		}

		log.Info("job deleted", zap.String("job_id", deleted.ID), zap.String("title", deleted.Title))
		return nil
	})
}

// withServices loads config, wires the services and runs fn with them.
func withServices(cmd *cobra.Command, fn func(*services, *Config, *zap.Logger) error) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	config, err := loadConfig()
	if err != nil {
		return err
	}

	if backend(config.Storage.Jobs) == backendMemory {
		log.Warn("jobs storage is memory, data lives only as long as this command",
			zap.String("hint", "set storage.jobs to redis or mongo"))
	}

	svc, err := newServices(cmd.Context(), config, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	return fn(svc, config, log)
}
