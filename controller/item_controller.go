package controller

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"lot-backend/model"
	"lot-backend/usecase"
)

type ItemController struct {
	usecase func() *usecase.ItemUsecase
}

func NewItemController(resolve func() *usecase.ItemUsecase) *ItemController {
	return &ItemController{usecase: resolve}
}

func (c *ItemController) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Manage items",
	}
	cmd.PersistentFlags().String("owner", "", "owner id")
	_ = cmd.MarkPersistentFlagRequired("owner")

	cmd.AddCommand(
		c.createCommand(),
		c.listCommand(),
		&cobra.Command{
			Use:   "get ID",
			Short: "Show an item with its tags and computed values",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				item, err := c.usecase().GetItem(cmd.Context(), owner(cmd), id)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), item)
			},
		},
		c.updateCommand(),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete an item",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				deleted, err := c.usecase().DeleteItem(cmd.Context(), owner(cmd), id)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), map[string]int64{"id": deleted})
			},
		},
	)
	return cmd
}

func (c *ItemController) createCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			in := model.NewItem{}
			in.Name, _ = f.GetString("name")
			in.PurchasedAt, _ = f.GetInt64("purchased-at")
			in.Value, _ = f.GetFloat64("value")
			in.CurrencyCode, _ = f.GetString("currency")
			in.LifeSpan, _ = f.GetInt64("life-span")

			var err error
			if in.Alias, err = optional(cmd, "alias", f.GetString); err != nil {
				return err
			}
			if in.Description, err = optional(cmd, "description", f.GetString); err != nil {
				return err
			}
			if in.Tags, err = tagsFromFlags(f); err != nil {
				return err
			}

			item, err := c.usecase().CreateItem(cmd.Context(), owner(cmd), in)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), item)
		},
	}
	f := cmd.Flags()
	f.String("name", "", "item name")
	f.String("alias", "", "alias")
	f.String("description", "", "description")
	f.Int64("purchased-at", 0, "purchase time, unix seconds")
	f.Float64("value", 0, "purchase value")
	f.String("currency", "", "ISO 4217 currency code")
	f.Int64("life-span", 0, "expected life span in seconds")
	addTagFlags(f)
	for _, name := range []string{"name", "purchased-at", "value", "currency", "life-span"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (c *ItemController) listCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opt, err := filterFromFlags(cmd)
			if err != nil {
				return err
			}
			page, err := c.usecase().GetItems(cmd.Context(), owner(cmd), opt)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), page)
		},
	}
	f := cmd.Flags()
	f.String("name", "", "case-sensitive substring of the name")
	f.String("alias", "", "case-sensitive substring of the alias")
	f.String("currency", "", "currency code")
	f.Bool("favorite", false, "only favorites (or non-favorites with =false)")
	f.Bool("archived", false, "only archived (or non-archived with =false)")
	for _, name := range []string{"purchased", "life-span", "life-span-left"} {
		f.Int64(name+"-min", 0, "inclusive lower bound of "+name)
		f.Int64(name+"-max", 0, "inclusive upper bound of "+name)
	}
	for _, name := range []string{"value", "current-value"} {
		f.Float64(name+"-min", 0, "inclusive lower bound of "+name)
		f.Float64(name+"-max", 0, "inclusive upper bound of "+name)
	}
	f.String("sort", string(model.SortAddedAt), "sort base")
	f.String("direction", string(model.Desc), "ASC or DESC")
	f.String("cursor", "", "cursor returned by the previous page")
	return cmd
}

func (c *ItemController) updateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update the given fields of an item; --tag and --tag-id toggle mappings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch, err := patchFromFlags(cmd)
			if err != nil {
				return err
			}
			item, err := c.usecase().UpdateItem(cmd.Context(), owner(cmd), id, patch)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), item)
		},
	}
	f := cmd.Flags()
	f.String("name", "", "item name")
	f.String("alias", "", "alias")
	f.String("description", "", "description")
	f.Int64("purchased-at", 0, "purchase time, unix seconds")
	f.Float64("value", 0, "purchase value")
	f.String("currency", "", "currency code")
	f.Int64("life-span", 0, "expected life span in seconds")
	f.Bool("favorite", false, "favorite flag")
	f.Bool("archived", false, "archived flag")
	addTagFlags(f)
	return cmd
}

func addTagFlags(f *pflag.FlagSet) {
	f.StringArray("tag", nil, "name of a tag to create (repeatable)")
	f.Int64Slice("tag-id", nil, "id of an existing tag (repeatable)")
}

func tagsFromFlags(f *pflag.FlagSet) ([]model.Tag, error) {
	names, err := f.GetStringArray("tag")
	if err != nil {
		return nil, err
	}
	ids, err := f.GetInt64Slice("tag-id")
	if err != nil {
		return nil, err
	}
	tags := make([]model.Tag, 0, len(names)+len(ids))
	for _, name := range names {
		tags = append(tags, model.Tag{ID: model.NewTagID, Name: name})
	}
	for _, id := range ids {
		tags = append(tags, model.Tag{ID: id})
	}
	return tags, nil
}

func patchFromFlags(cmd *cobra.Command) (model.ItemPatch, error) {
	f := cmd.Flags()
	var patch model.ItemPatch
	var err error
	if patch.Name, err = optional(cmd, "name", f.GetString); err != nil {
		return patch, err
	}
	if patch.Alias, err = optional(cmd, "alias", f.GetString); err != nil {
		return patch, err
	}
	if patch.Description, err = optional(cmd, "description", f.GetString); err != nil {
		return patch, err
	}
	if patch.PurchasedAt, err = optional(cmd, "purchased-at", f.GetInt64); err != nil {
		return patch, err
	}
	if patch.Value, err = optional(cmd, "value", f.GetFloat64); err != nil {
		return patch, err
	}
	if patch.CurrencyCode, err = optional(cmd, "currency", f.GetString); err != nil {
		return patch, err
	}
	if patch.LifeSpan, err = optional(cmd, "life-span", f.GetInt64); err != nil {
		return patch, err
	}
	if patch.IsFavorite, err = optional(cmd, "favorite", f.GetBool); err != nil {
		return patch, err
	}
	if patch.IsArchived, err = optional(cmd, "archived", f.GetBool); err != nil {
		return patch, err
	}
	patch.Tags, err = tagsFromFlags(f)
	return patch, err
}

func filterFromFlags(cmd *cobra.Command) (model.FilterOption, error) {
	f := cmd.Flags()
	var opt model.FilterOption
	var err error
	if opt.Name, err = optional(cmd, "name", f.GetString); err != nil {
		return opt, err
	}
	if opt.Alias, err = optional(cmd, "alias", f.GetString); err != nil {
		return opt, err
	}
	if opt.CurrencyCode, err = optional(cmd, "currency", f.GetString); err != nil {
		return opt, err
	}
	if opt.IsFavorite, err = optional(cmd, "favorite", f.GetBool); err != nil {
		return opt, err
	}
	if opt.IsArchived, err = optional(cmd, "archived", f.GetBool); err != nil {
		return opt, err
	}
	if opt.PurchasedAtRange, err = rangeFromFlags(cmd, "purchased", f.GetInt64); err != nil {
		return opt, err
	}
	if opt.LifeSpanRange, err = rangeFromFlags(cmd, "life-span", f.GetInt64); err != nil {
		return opt, err
	}
	if opt.LifeSpanLeftRange, err = rangeFromFlags(cmd, "life-span-left", f.GetInt64); err != nil {
		return opt, err
	}
	if opt.ValueRange, err = rangeFromFlags(cmd, "value", f.GetFloat64); err != nil {
		return opt, err
	}
	if opt.CurrentValueRange, err = rangeFromFlags(cmd, "current-value", f.GetFloat64); err != nil {
		return opt, err
	}

	base, _ := f.GetString("sort")
	direction, _ := f.GetString("direction")
	opt.Cursor = &model.Cursor{Base: model.SortBase(base), Direction: model.Direction(strings.ToUpper(direction))}
	if f.Changed("cursor") {
		opt.Cursor.Value, _ = f.GetString("cursor")
	}
	return opt, nil
}

func rangeFromFlags[T int64 | float64](cmd *cobra.Command, name string, get func(string) (T, error)) (*model.Range[T], error) {
	r := &model.Range[T]{}
	var err error
	if r.Min, err = optional(cmd, name+"-min", get); err != nil {
		return nil, err
	}
	if r.Max, err = optional(cmd, name+"-max", get); err != nil {
		return nil, err
	}
	if !r.IsSet() {
		return nil, nil
	}
	return r, nil
}
