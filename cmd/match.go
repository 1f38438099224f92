package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/matching"
	"github.com/spigell/jobmatch/internal/skills"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank jobs against a seeker's skills",
	Long: `Rank the jobs selected by the facet flags against the given skills.
Skills come from --skills, or are extracted from --resume-file with the
configured AI provider.`,
	Args: cobra.NoArgs,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringSlice("skills", nil, "seeker skills (comma separated)")
	matchCmd.Flags().String("resume-file", "", "plain text resume to extract skills from")
	matchCmd.Flags().StringP("output", "o", outputTable, "output format: table or json")
	addFilterFlags(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	f, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	seeker, _ := cmd.Flags().GetStringSlice("skills")
	resumeFile, _ := cmd.Flags().GetString("resume-file")
	if len(seeker) == 0 && resumeFile == "" {
		return fmt.Errorf("either --skills or --resume-file is required")
	}

	return withServices(cmd, func(svc *services, config *Config, log *zap.Logger) error {
		ctx := cmd.Context()

		if resumeFile != "" {
			extracted, err := extractFromFile(cmd, config, log, resumeFile)
			if err != nil {
				return err
			}
			seeker = append(seeker, extracted...)
		}
		seeker = skills.Normalize(seeker)
		log.Debug("matching", zap.Strings("skills", seeker))

		list, err := svc.jobs.Query(ctx, f)
		if err != nil {
			return err
		}

		matches := matching.Score(seeker, list)
		log.Info("matched jobs", zap.Int("candidates", len(list)), zap.Int("matches", len(matches)))
		return writeOutput(cmd, matches, func(w io.Writer) error { return printMatches(w, matches) })
	})
}

func extractFromFile(cmd *cobra.Command, config *Config, log *zap.Logger, path string) ([]string, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resume: %w", err)
	}

	extractor, err := newExtractor(cmd.Context(), config.AI, log)
	if err != nil {
		return nil, err
	}
	return extractor.ExtractSkills(cmd.Context(), string(text))
}
