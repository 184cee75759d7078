package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/solutions-manager/internal/domain"
	"github.com/heartmarshall/solutions-manager/internal/service/session"
	"github.com/heartmarshall/solutions-manager/internal/view"
)

// rootCmd builds the command tree for one line. A fresh tree per line keeps
// flag values from leaking between commands.
func (c *Console) rootCmd(kind view.ScreenKind) *cobra.Command {
	root := &cobra.Command{
		Use:           "",
		Short:         "Solutions manager console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(c.quitCmd())

	if kind == view.ScreenMain {
		root.AddCommand(
			c.listCmd(),
			c.filtersCmd(),
			c.filterCmd(),
			c.sortCmd(),
			c.addCmd(),
			c.editCmd(),
			c.deleteCmd(),
			c.refreshCmd(),
			c.dismissCmd(),
			c.statsCmd(),
			c.signOutCmd(),
		)
		return root
	}

	root.AddCommand(
		c.authCmd("signin", view.ModeSignIn),
		c.authCmd("signup", view.ModeSignUp),
		c.modeCmd(),
		c.dismissCmd(),
	)
	return root
}

func (c *Console) quitCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "quit",
		Aliases: []string{"exit"},
		Short:   "Leave the console",
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return errQuit
		},
	}
}

func (c *Console) dismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss",
		Short: "Dismiss the current alert",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			c.coord.DismissAlert()
			return nil
		},
	}
}

// ---- auth screen ----

func (c *Console) authCmd(name string, mode view.AuthMode) *cobra.Command {
	short := "Sign in with email and password"
	if mode == view.ModeSignUp {
		short = "Create an account (password of at least 6 characters)"
	}
	return &cobra.Command{
		Use:   name + " [email]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.coord.Screen().AuthMode != mode {
				c.coord.ToggleAuthMode()
			}

			var email string
			if len(args) == 1 {
				email = args[0]
			} else {
				line, err := c.prompt.ReadLine("Email: ")
				if err != nil {
					return err
				}
				email = line
			}
			password, err := c.prompt.ReadPassword("Password: ")
			if err != nil {
				return err
			}

			err = c.coord.SubmitAuth(cmd.Context(), session.Credentials{Email: email, Password: password})
			if err == nil && mode == view.ModeSignUp && c.coord.Screen().Kind == view.ScreenAuth {
				fmt.Fprintln(c.out, "Check your email to confirm the account, then sign in.")
			}
			c.show()
			return nil
		},
	}
}

func (c *Console) modeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mode",
		Short: "Switch between sign in and sign up",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			c.coord.ToggleAuthMode()
			c.show()
			return nil
		},
	}
}

// ---- main screen ----

func (c *Console) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the solutions table",
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			c.show()
			return nil
		},
	}
}

func (c *Console) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload solutions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.coord.Refresh(cmd.Context())
			c.show()
			return nil
		},
	}
}

func (c *Console) filtersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "Open or close the filter panel",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			c.coord.ToggleFilters()
			c.show()
			return nil
		},
	}
}

func (c *Console) filterCmd() *cobra.Command {
	var department, team, health string

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter by department, digital team and health (\"all\" clears one)",
		Example: `  filter --department Sales
  filter --department "Investment Ops" --health Critical
  filter --team all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria := c.coord.Screen().Criteria
			var err error

			if cmd.Flags().Changed("department") {
				criteria.Department, err = parseCriterion(department, domain.ParseDepartment)
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("team") {
				criteria.DigitalTeam, err = parseCriterion(team, domain.ParseDigitalTeam)
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("health") {
				criteria.Health, err = parseCriterion(health, domain.ParseHealthCategory)
				if err != nil {
					return err
				}
			}

			if err := c.coord.SetCriteria(criteria); err != nil {
				return err
			}
			if !c.coord.Screen().FiltersOpen {
				c.render.filters(criteria)
			}
			c.show()
			return nil
		},
	}
	cmd.Flags().StringVar(&department, "department", "", "department owner")
	cmd.Flags().StringVar(&team, "team", "", "digital team owner")
	cmd.Flags().StringVar(&health, "health", "", "health score category")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every filter",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			c.coord.ClearCriteria()
			c.show()
			return nil
		},
	})
	return cmd
}

// parseCriterion maps "" and "all" to unset.
func parseCriterion[T ~string](raw string, parse func(string) (T, error)) (T, error) {
	if v := strings.TrimSpace(raw); v == "" || strings.EqualFold(v, "all") {
		var zero T
		return zero, nil
	}
	return parse(raw)
}

func (c *Console) sortCmd() *cobra.Command {
	keys := make([]string, len(domain.SortColumns))
	for i, col := range domain.SortColumns {
		keys[i] = col.String()
	}
	return &cobra.Command{
		Use:       "sort <column>",
		Short:     "Sort by a column; repeat to reverse",
		Long:      "Columns: " + strings.Join(keys, ", "),
		ValidArgs: keys,
		Args:      cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			col, err := domain.ParseSortColumn(args[0])
			if err != nil {
				return err
			}
			c.coord.ToggleSort(col)
			c.show()
			return nil
		},
	}
}

func (c *Console) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Add a solution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runForm(cmd.Context(), c.coord.OpenCreateForm())
		},
	}
}

func (c *Console) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <row>",
		Short: "Edit the solution at a table row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseRow(args[0])
			if err != nil {
				return err
			}
			form, err := c.coord.OpenEditForm(n)
			if err != nil {
				return err
			}
			return c.runForm(cmd.Context(), form)
		},
	}
}

func (c *Console) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <row>",
		Aliases: []string{"rm"},
		Short:   "Delete the solution at a table row",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseRow(args[0])
			if err != nil {
				return err
			}
			row, err := c.coord.Row(n)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Delete %q.\n", row.Name)

			deleted, err := c.coord.DeleteRow(cmd.Context(), n)
			if err != nil {
				return err
			}
			if deleted {
				fmt.Fprintln(c.out, c.render.pal.ok.Sprint("Deleted."))
			}
			c.show()
			return nil
		},
	}
}

func parseRow(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, domain.NewValidationError("row", "must be a row number")
	}
	return n, nil
}

func (c *Console) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show operation metrics",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if c.stats == nil {
				return errors.New("metrics are not enabled")
			}
			samples, err := c.stats.Snapshot()
			if err != nil {
				return err
			}
			c.render.stats(samples)
			return nil
		},
	}
}

func (c *Console) signOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.coord.SignOut(cmd.Context()); err != nil {
				c.show()
				return nil
			}
			fmt.Fprintln(c.out, "Signed out.")
			c.show()
			return nil
		},
	}
}
