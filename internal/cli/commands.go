package cli

import (
	"errors"
	"strconv"

	"github.com/fekuna/stockmanager/internal/model"
	"github.com/fekuna/stockmanager/internal/surface"
	"github.com/spf13/cobra"
)

func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List items, from the API or the fallback store when it is unreachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			items, source := a.list.Items()
			return RenderItems(cmd.OutOrStdout(), opts.Format, source, items, a.notices.T("list.empty", nil))
		},
	}
}

func NewAddCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an item",
		Long: `Create an item. Unset fields take the form defaults: today's date, category
"Outros", quantity 1 and unit "un".

Examples:
  stockctl add --name Arroz --brand "Tio João" --quantity 2 --unit kg --price 25.90`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			var applyErr error
			a.form.Change(func(it *model.Item) { applyErr = applyItemFlags(cmd.Flags(), it) })
			if applyErr != nil {
				return WrapExitError(ExitCommandError, "invalid flag", applyErr)
			}
			return saveForm(cmd, a, opts)
		},
	}
	bindItemFlags(cmd.Flags())
	return cmd
}

func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the fields given as flags on an item",
		Long: `Change an item. Only the fields given as flags change; the others keep their
current values. Ids are numbers for items on the server and local-<n> for items kept in
the fallback store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParseItemID(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid id", err)
			}
			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.list.Edit(id); err != nil {
				return WrapExitError(ExitFailure, "cannot edit "+id.String(), err)
			}
			var applyErr error
			a.form.Change(func(it *model.Item) { applyErr = applyItemFlags(cmd.Flags(), it) })
			if applyErr != nil {
				a.form.Cancel()
				return WrapExitError(ExitCommandError, "invalid flag", applyErr)
			}
			return saveForm(cmd, a, opts)
		},
	}
	bindItemFlags(cmd.Flags())
	return cmd
}

func saveForm(cmd *cobra.Command, a *app, opts *RootOptions) error {
	res, err := a.form.Save(cmd.Context())
	if errors.Is(err, surface.ErrInvalidDraft) {
		return WrapExitError(ExitFailure, "item not saved", err)
	}
	if err != nil {
		return err
	}
	return RenderWrite(cmd.OutOrStdout(), opts.Format, res)
}

func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParseItemID(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid id", err)
			}
			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			source := a.list.Remove(cmd.Context(), id)
			return RenderDelete(cmd.OutOrStdout(), opts.Format, id, source)
		},
	}
}

func NewProductsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "products [id]",
		Short: "List the canonical products known to the API, or show one by id",
		Long: `List the canonical products known to the API, or show one by id. Products are never
cached locally, so this command fails when the API is unreachable.

Exit codes: 3 when the API is unreachable, 4 when the product id does not exist.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int64
			if len(args) == 1 {
				parsed, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil || parsed <= 0 {
					return NewExitError(ExitCommandError, "invalid product id "+strconv.Quote(args[0]))
				}
				id = parsed
			}
			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if id != 0 {
				p, err := a.remote.GetProduct(cmd.Context(), id)
				if err != nil {
					return remoteExitError("get product", err)
				}
				return RenderProducts(cmd.OutOrStdout(), opts.Format, []model.Product{*p})
			}
			products, err := a.remote.ListProducts(cmd.Context())
			if err != nil {
				return remoteExitError("list products", err)
			}
			return RenderProducts(cmd.OutOrStdout(), opts.Format, products)
		},
	}
}
