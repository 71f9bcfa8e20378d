package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tobiaswagner/gruppentool/internal/groups"
	"github.com/tobiaswagner/gruppentool/internal/progress"
	"github.com/tobiaswagner/gruppentool/internal/selection"
)

var (
	createName       string
	createType       string
	createSelfRole   string
	createOthersRole string
	createChat       bool
	createMembers    []string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a group and invite the given members",
	Long: `Runs the full creation workflow from the terminal: the group is created,
tagged, the listed persons are added with the others-role, and the chat is
optionally enabled. The acting user becomes a member through the creator
role and is never added separately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()

		dir, client, err := loadDirectory(cmd.Context(), cfg, logger, progress.NewReporter())
		if err != nil {
			return err
		}

		sel := selection.NewStore(dir.Me())
		for _, id := range createMembers {
			p, ok := dir.PersonByID(id)
			if !ok {
				return fmt.Errorf("person %s not found in the directory", id)
			}
			sel.Add(p)
		}

		workflow := groups.NewWorkflow(client, workflowSettings(cfg), logger)
		summary, err := workflow.Run(cmd.Context(), groups.Request{
			Name:         createName,
			GroupTypeID:  createType,
			SelfRoleID:   createSelfRole,
			OthersRoleID: createOthersRole,
			EnableChat:   createChat,
		}, dir.Me().ID, sel.People())
		if err != nil {
			return err
		}

		fmt.Println(summary.Message())
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "name of the new group")
	createCmd.Flags().StringVar(&createType, "type", "", "group type id")
	createCmd.Flags().StringVar(&createSelfRole, "self-role", "", "role id for yourself")
	createCmd.Flags().StringVar(&createOthersRole, "others-role", "", "role id for the other members")
	createCmd.Flags().BoolVar(&createChat, "chat", false, "enable the group chat")
	createCmd.Flags().StringArrayVar(&createMembers, "member", nil, "person id to add (repeatable)")
	rootCmd.AddCommand(createCmd)
}
