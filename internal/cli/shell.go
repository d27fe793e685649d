package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fekuna/stockmanager/internal/coordinator"
	"github.com/fekuna/stockmanager/internal/model"
	"github.com/fekuna/stockmanager/internal/surface"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const shellHelp = `commands:
  list                 show the items
  reload               fetch the items again
  edit <id>            load an item into the form
  set <field> <value>  change a field of the form draft
  draft                show the form draft
  save                 create the draft, or update the item being edited
  cancel               stop editing and reset the form
  delete <id>          delete an item
  stats                show the sync counters of this session
  help                 show this text
  quit                 leave the shell
`

func NewShellCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session with a list and a form sharing one edit session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			a.list.OnReload(func(items []model.Item, source coordinator.Source) {
				fmt.Fprintf(out, "list refreshed: %d item(s) from %s\n", len(items), source)
			})
			return runShell(cmd, a, opts, cmd.InOrStdin(), out)
		},
	}
}

func runShell(cmd *cobra.Command, a *app, opts *RootOptions, in io.Reader, out io.Writer) error {
	ctx := cmd.Context()
	sc := bufio.NewScanner(in)
	fmt.Fprint(out, "stock> ")
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			fmt.Fprint(out, "stock> ")
			continue
		}

		var err error
		switch verb, rest := fields[0], fields[1:]; verb {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprint(out, shellHelp)
		case "list":
			items, source := a.list.Items()
			err = RenderItems(out, opts.Format, source, items, a.notices.T("list.empty", nil))
		case "reload":
			a.list.Reload(ctx)
		case "edit":
			err = withID(rest, func(id model.ItemID) error { return a.list.Edit(id) })
		case "set":
			if len(rest) < 1 {
				err = errors.New("usage: set <field> <value>")
				break
			}
			value := strings.Join(rest[1:], " ")
			a.form.Change(func(it *model.Item) { err = setField(it, rest[0], value) })
		case "draft":
			err = RenderItem(out, opts.Format, a.form.Draft())
		case "save":
			var res coordinator.Result
			res, err = a.form.Save(ctx)
			if err == nil {
				err = RenderWrite(out, opts.Format, res)
			}
		case "cancel":
			a.form.Cancel()
		case "delete":
			err = withID(rest, func(id model.ItemID) error {
				return RenderDelete(out, opts.Format, id, a.list.Remove(ctx, id))
			})
		case "stats":
			err = renderStats(out, a.registry)
		default:
			err = fmt.Errorf("unknown command %q, try help", verb)
		}

		if err != nil && !errors.Is(err, surface.ErrInvalidDraft) && !errors.Is(err, surface.ErrNotFound) {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		fmt.Fprint(out, "stock> ")
	}
	return sc.Err()
}

func withID(args []string, fn func(model.ItemID) error) error {
	if len(args) != 1 {
		return errors.New("expected one id")
	}
	id, err := model.ParseItemID(args[0])
	if err != nil {
		return err
	}
	return fn(id)
}

// renderStats prints every counter sample as name{labels} value.
func renderStats(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}
	return nil
}
