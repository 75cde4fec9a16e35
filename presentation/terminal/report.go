package terminal

import (
	"fmt"
	"io"
	"time"

	"storefront_automation/application/runner"
	"storefront_automation/domain/entities"

	"github.com/fatih/color"
)

var (
	passColor  = color.New(color.FgGreen, color.Bold)
	failColor  = color.New(color.FgRed, color.Bold)
	faintColor = color.New(color.Faint)
	valueColor = color.New(color.FgCyan)
)

func printResult(w io.Writer, res entities.RunResult) {
	if res.Status == entities.RunStatusPassed {
		passColor.Fprint(w, "PASS")
	} else {
		failColor.Fprint(w, "FAIL")
	}
	fmt.Fprintf(w, " %s", res.Scenario)
	if res.DataKey != "" {
		faintColor.Fprintf(w, " [%s]", res.DataKey)
	}
	fmt.Fprintf(w, " %s\n", res.Duration.Round(time.Millisecond))

	if res.Status == entities.RunStatusPassed {
		return
	}
	fmt.Fprintf(w, "     %s failure: %s\n", res.FailureKind, res.Message)
	if res.Screenshot != "" {
		fmt.Fprint(w, "     screenshot: ")
		valueColor.Fprintln(w, res.Screenshot)
	}
}

func printSummary(w io.Writer, results []entities.RunResult) {
	var passed int
	for _, res := range results {
		if res.Status == entities.RunStatusPassed {
			passed++
		}
	}
	fmt.Fprintln(w)
	c := passColor
	if passed != len(results) {
		c = failColor
	}
	c.Fprintf(w, "%d/%d scenarios passed\n", passed, len(results))
}

func printScenarios(w io.Writer, scenarios []runner.Scenario) {
	for _, sc := range scenarios {
		valueColor.Fprintf(w, "%-28s", sc.Name)
		faintColor.Fprintf(w, " %-28s", sc.DataKey)
		fmt.Fprintf(w, " %s\n", sc.Description)
	}
}
