package main

import (
	"github.com/spf13/cobra"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/matching"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the requirements extracted from a job description",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobPath, _ := cmd.Flags().GetString("job")
		title, _ := cmd.Flags().GetString("title")

		description, err := readText(jobPath)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), matching.ExtractRequirements(title, description))
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("job", "-", "path to the job description, - for stdin")
	extractCmd.Flags().StringP("title", "t", "", "job title")
}
