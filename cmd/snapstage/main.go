package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/snapstage/snapstage/internal/version"
)

func main() {
	root := &cobra.Command{
		Use:   "snapstage",
		Short: "Chat image bridge for a local coding agent",
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and HTTP API",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}

	ver := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.GetInfo())
		},
	}

	root.AddCommand(serve, ver)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
