package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tobiaswagner/gruppentool/internal/progress"
	"github.com/tobiaswagner/gruppentool/internal/selection"
)

var (
	exportName    string
	exportType    string
	exportChat    bool
	exportMembers []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the configuration and selection as a copy-paste text block",
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

		sel := selection.NewStore(dir.Me())
		for _, id := range exportMembers {
			p, ok := dir.PersonByID(id)
			if !ok {
				return fmt.Errorf("person %s not found in the directory", id)
			}
			sel.Add(p)
		}

		exportCfg := selection.ExportConfig{
			TypeID: exportType,
			Name:   exportName,
			Chat:   exportChat,
		}
		if gt, ok := dir.GroupTypeByID(exportType); ok {
			exportCfg.TypeLabel = gt.Name
		}

		fmt.Println(sel.Export(exportCfg))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportName, "name", "", "name of the planned group")
	exportCmd.Flags().StringVar(&exportType, "type", "", "group type id")
	exportCmd.Flags().BoolVar(&exportChat, "chat", false, "chat enabled")
	exportCmd.Flags().StringArrayVar(&exportMembers, "member", nil, "person id to include (repeatable)")
	rootCmd.AddCommand(exportCmd)
}
