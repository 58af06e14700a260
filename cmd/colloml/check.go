package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/collomatique/colloml-go/internal/check"
)

func newCheckCmd() *cobra.Command {
	var objectsPath, varsPath string

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "type-check a ColloML source tree without evaluating it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := loadSources(args)
			if err != nil {
				return err
			}
			objSchema, err := loadObjectSchema(objectsPath)
			if err != nil {
				return err
			}
			varSchema, err := loadVariableSchema(varsPath)
			if err != nil {
				return err
			}

			prog, warnings, errs := check.Check(context.Background(), sources, objSchema, varSchema)
			for _, w := range warnings {
				log.Warn(w.String())
			}
			if len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintln(os.Stderr, red(e.Code+":"), e.Message)
				}
				return fmt.Errorf("%d error(s)", len(errs))
			}
			fmt.Printf("%s %d module(s), %d function(s) checked\n", green("ok"), len(prog.Modules), len(prog.Functions))
			return nil
		},
	}
	cmd.Flags().StringVar(&objectsPath, "objects", "", "path to the object-type schema YAML file")
	cmd.Flags().StringVar(&varsPath, "vars", "", "path to the external decision-variable schema YAML file")
	return cmd
}
