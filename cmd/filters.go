package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/matching"
	"github.com/spigell/jobmatch/internal/skills"
)

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("type", "", "job type: full-time, part-time, contract or internship")
	cmd.Flags().String("field", "", "exact job field")
	cmd.Flags().String("employer", "", "employer id")
	cmd.Flags().String("active", "", "true or false; empty lists both")
	cmd.Flags().String("location", "", "case-insensitive location substring")
	cmd.Flags().StringP("search", "q", "", "case-insensitive title or description substring")
	cmd.Flags().StringSlice("require-skills", nil, "skills every job must list (comma separated)")
}

// filterFromFlags builds a filter from the facet flags. Empty flags place no
// constraint.
func filterFromFlags(cmd *cobra.Command) (jobs.Filter, error) {
	var f jobs.Filter
	flags := cmd.Flags()

	text := func(name string) *string {
		v, _ := flags.GetString(name)
		if v = strings.TrimSpace(v); v != "" {
			return &v
		}
		return nil
	}

	if t := text("type"); t != nil {
		f.Type = jobs.Ptr(jobs.Type(*t))
	}
	f.Field = text("field")
	f.EmployerID = text("employer")
	f.Location = text("location")
	f.SearchTerm = text("search")

	if raw := text("active"); raw != nil {
		active, err := strconv.ParseBool(*raw)
		if err != nil {
			return f, fmt.Errorf("--active must be true or false, got %q", *raw)
		}
		f.Active = &active
	}

	required, _ := flags.GetStringSlice("require-skills")
	f.Skills = skills.Normalize(required)
	return f, nil
}

func printJobs(w io.Writer, list []*jobs.Job) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tFIELD\tLOCATION\tACTIVE\tSKILLS")
	for _, j := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
			j.ID, j.Title, j.Type, j.Field, j.Location, j.Active, strings.Join(j.Skills, ", "))
	}
	return tw.Flush()
}

func printMatches(w io.Writer, list []matching.Match) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tID\tTITLE\tMATCHED")
	for _, m := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.MatchScore, m.ID, m.Title, strings.Join(m.MatchedSkills, ", "))
	}
	return tw.Flush()
}
