package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "navmesh-planner",
		Short: "navigation mesh builder and job scheduler",
	}
	root.AddCommand(ServeCmd(), BuildCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
