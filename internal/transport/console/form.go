package console

import (
	"context"
	"fmt"

	"github.com/heartmarshall/solutions-manager/internal/domain"
	"github.com/heartmarshall/solutions-manager/internal/view"
)

// runForm walks the form inputs and submits. A failed save keeps the form
// and its values and offers another pass over the fields.
func (c *Console) runForm(ctx context.Context, form *view.Form) error {
	title := "New solution"
	if form.Mode() == view.FormEdit {
		title = "Edit " + form.Value(view.FieldName)
	}

	for {
		fmt.Fprintln(c.out, title+" (empty input keeps the value in brackets)")
		if err := c.fillForm(form); err != nil {
			c.coord.CloseForm()
			return err
		}

		err := c.coord.SubmitForm(ctx)
		if err == nil {
			fmt.Fprintln(c.out, c.render.pal.ok.Sprint("Saved."))
			c.show()
			return nil
		}

		fmt.Fprintln(c.out, c.render.pal.alert.Sprint("! "+domain.Message(err)))
		again, cerr := c.prompt.Confirm(ctx, "Edit the form again?")
		if cerr != nil || !again {
			c.coord.CloseForm()
			c.show()
			return nil
		}
	}
}

func (c *Console) fillForm(form *view.Form) error {
	for _, field := range view.FormFields {
		for {
			label := field.Label()
			if cur := form.Value(field); cur != "" {
				label += " [" + cur + "]"
			}
			line, err := c.prompt.ReadLine(label + ": ")
			if err != nil {
				return err
			}
			if line == "" {
				break
			}
			if err := form.Set(field, line); err != nil {
				fmt.Fprintln(c.out, "  "+domain.Message(err))
				continue
			}
			break
		}

		if field == view.FieldBaseCost {
			if preview := form.LicensePreview(); preview != "" {
				fmt.Fprintf(c.out, "License Cost (10%%): %s\n", preview)
			}
		}
	}
	return nil
}
