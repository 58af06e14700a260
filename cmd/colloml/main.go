// Command colloml is ColloML's command-line front end: check a source
// tree against an object/variable schema, evaluate a single function
// call, assemble and validate an ILP problem from many such calls, or
// drop into an interactive REPL. Grounded on the teacher's cmd/ailang's
// version-variable/color-output conventions, restructured onto a
// github.com/spf13/cobra command tree per this module's CLI design.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version info, set by ldflags during build.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

var log = logrus.New()

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "colloml",
		Short:         "ColloML — a scheduling DSL compiled to ILP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newCheckCmd())
	root.AddCommand(newEvalCmd())
	root.AddCommand(newBuildCmd())
	root.AddCommand(newReplCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("%s %s (%s, built %s)\n", bold("colloml"), Version, Commit, BuildTime)
			return nil
		},
	}
}

func main() {
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
}
