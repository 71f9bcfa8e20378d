package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tobiaswagner/gruppentool/internal/progress"
	"github.com/tobiaswagner/gruppentool/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one ranked search against the directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()

		dir, _, err := loadDirectory(cmd.Context(), cfg, logger, progress.NewReporter())
		if err != nil {
			return err
		}

		engine := search.NewEngine(dir, logger)
		items, err := engine.Search(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("Keine Treffer.")
			return nil
		}

		for _, item := range items {
			switch item.Kind {
			case search.KindGroup:
				fmt.Printf("%5d  Gruppe  %s (%d Mitglieder)\n", item.Score, item.Group.Name, item.MemberCount)
			case search.KindPerson:
				line := fmt.Sprintf("%5d  Person  %s (ID %s", item.Score, item.Person.DisplayName(), item.Person.ID)
				if len(item.GroupNames) > 0 {
					line += ", Gruppe: " + strings.Join(item.GroupNames, ", ")
				}
				fmt.Println(line + ")")
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
