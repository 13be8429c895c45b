package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lorecast",
		Short: "Score location content for significance and narration tiering",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(scoreCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(methodsCmd())
	root.AddCommand(profileCmd())

	return root
}

func scoreCmd() *cobra.Command {
	var (
		jsonOutput bool
		listener   string
		hint       string
	)

	cmd := &cobra.Command{
		Use:   "score [file]",
		Short: "Score a passage of location text (file or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runScore(path, hint, listener, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output the full score breakdown as JSON")
	cmd.Flags().StringVar(&listener, "listener", "", "listener ID for personalized scoring")
	cmd.Flags().StringVar(&hint, "location", "", "optional location hint")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP scoring API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func methodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List detection methods and their calibration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMethods()
		},
	}
}

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage listener surprise-tolerance profiles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <listener-id> <tolerance>",
		Short: "Set a listener's surprise tolerance (0-5)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileSet(args[0], args[1])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <listener-id>",
		Short: "Show a listener's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileGet(args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored listener profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileList()
		},
	})

	return cmd
}
