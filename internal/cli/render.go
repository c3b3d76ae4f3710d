package cli

import (
	"fmt"

	"github.com/dmitrijs2005/cloudtasks/internal/taskrepo"
)

func statusText(completed bool) string {
	if completed {
		return "Done"
	}
	return "Not done"
}

// printTask renders one task with its 1-based position, status, description
// and creation time.
func (a *App) printTask(index int, item taskrepo.Item) {
	fmt.Fprintf(a.out, "%d) %s  [%s]\n", index, item.View.Title, statusText(item.View.Completed))
	fmt.Fprintf(a.out, "     Description: %s\n", item.View.Description)
	fmt.Fprintf(a.out, "     Created at: %s\n", item.View.CreatedAtDisplay)
	fmt.Fprintln(a.out)
}
