package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/collomatique/colloml-go/internal/check"
	"github.com/collomatique/colloml-go/internal/eval"
)

func newEvalCmd() *cobra.Command {
	var objectsPath, varsPath, target string

	cmd := &cobra.Command{
		Use:   "eval <path>... --func module.function [args...]",
		Short: "evaluate one function call against a checked source tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if target == "" {
				return fmt.Errorf("--func is required")
			}
			module, fn, ok := splitModuleFunc(target)
			if !ok {
				return fmt.Errorf("--func must be module.function, got %q", target)
			}

			paths, callArgs := splitPathsAndArgs(cmd, args)
			sources, err := loadSources(paths)
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

			val, rep := eval.Eval(context.Background(), prog, noObjectEnv{}, module, fn, parseArgValues(callArgs))
			if rep != nil {
				return fmt.Errorf("%s: %s", rep.Code, rep.Message)
			}
			fmt.Printf("%s :: %s\n", val.String(), val.Type())
			return nil
		},
	}
	cmd.Flags().StringVar(&objectsPath, "objects", "", "path to the object-type schema YAML file")
	cmd.Flags().StringVar(&varsPath, "vars", "", "path to the external decision-variable schema YAML file")
	cmd.Flags().StringVar(&target, "func", "", "module.function to call")
	return cmd
}

// splitPathsAndArgs treats the leading run of positional arguments that
// name an existing file or directory as source paths, and everything from
// the first argument that does not as call arguments — letting `colloml eval src --func
// main.f 1 2 3` avoid a separate `--` separator for the common case.
func splitPathsAndArgs(cmd *cobra.Command, args []string) (paths, callArgs []string) {
	split := len(args)
	for i, a := range args {
		if _, err := os.Stat(a); err != nil {
			split = i
			break
		}
	}
	return args[:split], args[split:]
}
