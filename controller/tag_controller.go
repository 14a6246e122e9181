package controller

import (
	"github.com/spf13/cobra"

	"lot-backend/usecase"
)

type TagController struct {
	usecase func() *usecase.TagUsecase
}

func NewTagController(resolve func() *usecase.TagUsecase) *TagController {
	return &TagController{usecase: resolve}
}

func (c *TagController) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage tags",
	}
	cmd.PersistentFlags().String("owner", "", "owner id")
	_ = cmd.MarkPersistentFlagRequired("owner")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create NAME",
			Short: "Create a tag",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				tag, err := c.usecase().CreateTag(cmd.Context(), owner(cmd), args[0])
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), tag)
			},
		},
		c.listCommand(),
		&cobra.Command{
			Use:   "get ID",
			Short: "Show a tag",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				tag, err := c.usecase().GetTag(cmd.Context(), owner(cmd), id)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), tag)
			},
		},
		&cobra.Command{
			Use:   "update ID NAME",
			Short: "Rename a tag",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				tag, err := c.usecase().UpdateTag(cmd.Context(), owner(cmd), id, args[1])
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), tag)
			},
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a tag and unmap it from every item",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				deleted, err := c.usecase().DeleteTag(cmd.Context(), owner(cmd), id)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), map[string]int64{"id": deleted})
			},
		},
	)
	return cmd
}

func (c *TagController) listCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags, optionally those whose name contains a phrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			phrase, err := optional(cmd, "phrase", cmd.Flags().GetString)
			if err != nil {
				return err
			}
			tags, err := c.usecase().GetTags(cmd.Context(), owner(cmd), phrase)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), tags)
		},
	}
	cmd.Flags().String("phrase", "", "case-sensitive substring of the name")
	return cmd
}

func owner(cmd *cobra.Command) string {
	ownerID, _ := cmd.Flags().GetString("owner")
	return ownerID
}
