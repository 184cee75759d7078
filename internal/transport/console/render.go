package console

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/heartmarshall/solutions-manager/internal/domain"
	"github.com/heartmarshall/solutions-manager/internal/observability"
	"github.com/heartmarshall/solutions-manager/internal/view"
)

// palette holds the colours used by the renderer. With colour disabled every
// entry prints plain text.
type palette struct {
	critical *color.Color
	healthy  *color.Color
	header   *color.Color
	alert    *color.Color
	ok       *color.Color
	muted    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		critical: color.New(color.FgRed),
		healthy:  color.New(color.FgGreen),
		// Same escape length as the health colours so tabwriter columns line up.
		header: color.New(color.FgWhite),
		alert:  color.New(color.FgRed, color.Bold),
		ok:     color.New(color.FgGreen),
		muted:  color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.critical, p.healthy, p.header, p.alert, p.ok, p.muted} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) health(h domain.HealthCategory) string {
	if h == domain.HealthCritical {
		return p.critical.Sprint(h)
	}
	return p.healthy.Sprint(h)
}

// renderer writes screens to the console output.
type renderer struct {
	out io.Writer
	pal palette
}

func (r renderer) alert(s view.Screen) {
	if s.Alert != "" {
		fmt.Fprintln(r.out, r.pal.alert.Sprint("! "+s.Alert))
	}
}

func (r renderer) authScreen(s view.Screen) {
	switch {
	case s.Pending:
		fmt.Fprintln(r.out, "Checking session...")
		return
	case s.AuthMode == view.ModeSignUp:
		fmt.Fprintln(r.out, "Sign up: signup <email>, 'mode' to switch to sign in")
	default:
		fmt.Fprintln(r.out, "Sign in: signin <email>, 'mode' to switch to sign up")
	}
	r.alert(s)
}

func (r renderer) mainScreen(s view.Screen) {
	fmt.Fprintf(r.out, "Signed in as %s\n", s.Identity.Email)
	r.alert(s)
	if s.FiltersOpen {
		r.filters(s.Criteria)
	}
	r.table(s)
}

func (r renderer) filters(c domain.Criteria) {
	show := func(v string) string {
		if v == "" {
			return "All"
		}
		return v
	}
	fmt.Fprintf(r.out, "Filters: Department=%s  Digital Team=%s  Health=%s\n",
		show(string(c.Department)), show(string(c.DigitalTeam)), show(string(c.Health)))
}

func (r renderer) table(s view.Screen) {
	if s.Loading {
		fmt.Fprintln(r.out, r.pal.muted.Sprint("Loading..."))
	}
	if len(s.Rows) == 0 {
		fmt.Fprintln(r.out, "No solutions found.")
		if s.Total > 0 {
			fmt.Fprintf(r.out, "%d hidden by filters.\n", s.Total)
		}
		return
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "#")
	for _, col := range domain.SortColumns {
		label := col.Label()
		if s.Sort.Column == col {
			if s.Sort.Desc {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		if col == domain.SortByHealth {
			label = r.pal.header.Sprint(label)
		}
		fmt.Fprintf(w, "\t%s", label)
	}
	fmt.Fprintln(w)

	for i, sol := range s.Rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			i+1,
			sol.Name,
			sol.DepartmentOwner,
			sol.DigitalTeamOwner,
			sol.YearCreated,
			r.pal.health(sol.HealthCategory),
			domain.FormatMoney(sol.ManualManagementCost),
			domain.FormatMoney(sol.BaseCost),
			domain.FormatMoney(sol.LicenseCost),
		)
	}
	_ = w.Flush()

	fmt.Fprintf(r.out, "%d of %d solutions\n", len(s.Rows), s.Total)
}

func (r renderer) stats(samples []observability.Sample) {
	if len(samples) == 0 {
		fmt.Fprintln(r.out, "No metrics recorded yet.")
		return
	}
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tLABELS\tVALUE")
	for _, s := range samples {
		labels := s.Labels
		if labels == "" {
			labels = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, labels, s.Value)
	}
	_ = w.Flush()
}
