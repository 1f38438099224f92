package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Work with seeker skills",
}

var skillsExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract skills from a plain text resume with the AI provider",
	Args:  cobra.NoArgs,
	RunE:  runSkillsExtract,
}

func init() {
	rootCmd.AddCommand(skillsCmd)
	skillsCmd.AddCommand(skillsExtractCmd)

	skillsExtractCmd.Flags().StringP("file", "f", "", "resume text file")
	skillsExtractCmd.Flags().StringP("output", "o", outputTable, "output format: table or json")
	skillsExtractCmd.MarkFlagRequired("file")
}

func runSkillsExtract(cmd *cobra.Command, _ []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	config, err := loadConfig()
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("file")
	found, err := extractFromFile(cmd, config, log, path)
	if err != nil {
		return err
	}

	return writeOutput(cmd, found, func(w io.Writer) error {
		for _, s := range found {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
		}
		return nil
	})
}
