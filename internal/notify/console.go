package notify

import (
	"fmt"
	"io"

	"github.com/mwalton/price-tracker/internal/models"
)

// Console writes a human-readable summary of detected changes
type Console struct {
	out io.Writer
}

// NewConsole creates a console notifier writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// NotifyChanges prints the new-items section, then the price-updates
// section. Nothing is written when there are no changes.
func (c *Console) NotifyChanges(result *models.CheckResult) {
	if result == nil || result.Empty() {
		return
	}

	if len(result.NewItems) > 0 {
		fmt.Fprintln(c.out, "\nNew items tracked:")
		for _, item := range result.NewItems {
			fmt.Fprintf(c.out, "%s: %s %s\n", item.Title, item.Price.String(), item.Currency)
		}
	}

	if len(result.Updates) > 0 {
		fmt.Fprintln(c.out, "\nPrice updates:")
		for _, update := range result.Updates {
			fmt.Fprintf(c.out, "\n%s:\n", update.Title)
			fmt.Fprintf(c.out, "Old: %s %s\n", update.OldPrice.String(), update.Currency)
			fmt.Fprintf(c.out, "New: %s %s\n", update.NewPrice.String(), update.Currency)
			fmt.Fprintf(c.out, "Change: %.2f%%\n", update.PercentChange)
		}
	}

	fmt.Fprintln(c.out)
}
