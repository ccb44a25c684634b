package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rogersnm/plotline/internal/markdown"
	"github.com/rogersnm/plotline/internal/model"
	"github.com/spf13/cobra"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Show word counts and the daily log",
	RunE: func(cmd *cobra.Command, args []string) error {
		normal, total := eng.CountWords()
		fields := []string{
			markdown.RenderField("Manuscript", strconv.Itoa(normal)),
			markdown.RenderField("All scenes", strconv.Itoa(total)),
		}
		fmt.Print(markdown.RenderEntityHeader(eng.Store().Settings.Title, fields))
		fmt.Println(markdown.RenderWordLogTable(eng.Store().WordCountLog))
		return nil
	},
}

var wordsRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record today's word counts in the log",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		normal, total := eng.CountWords()
		if date == "" {
			date = time.Now().Format(model.DateLayout)
		}
		changed, err := eng.AppendLogEntry(date, normal, total)
		if err != nil {
			return err
		}
		if !changed {
			fmt.Println("Counts unchanged since the last entry")
			return nil
		}
		fmt.Printf("Recorded %d words (%d total) for %s\n", normal, total, date)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Count manuscript scenes by editing status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(markdown.RenderStatusTable(eng.StatusCounts()))
		return nil
	},
}

func init() {
	wordsRecordCmd.Flags().String("date", "", "log date as YYYY-MM-DD (defaults to today)")
	wordsCmd.AddCommand(wordsRecordCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(statusCmd)
}
