// hazreport manages locally persisted hazard-report projects, option
// lists, and a vulnerability knowledge base, and renders a project's
// reports into a delivery document.
package main

import (
	"os"

	"hazreport/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
