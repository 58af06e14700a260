package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/collomatique/colloml-go/internal/check"
	"github.com/collomatique/colloml-go/internal/ilp"
)

// A --constraint flag value has the form "module.function(args...)" and is
// parsed by parseCallSpec; an --objective flag value additionally carries a
// weight and a sense, "module.function(args...):weight:min|max", and is
// parsed by parseObjectiveSpec.

func newBuildCmd() *cobra.Command {
	var (
		objectsPath, varsPath string
		constraintFlags       []string
		objectiveFlags        []string
	)

	cmd := &cobra.Command{
		Use:   "build <path>...",
		Short: "assemble an ILP problem from constraint/objective calls",
		Long: `build checks the given source tree, then evaluates every --constraint
and --objective call against it, accumulating the results into a single
ilp.Problem, validating it, and printing a summary. colloml never invokes
a solver on the assembled problem.`,
		Args: cobra.MinimumNArgs(1),
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

			builder, reports := ilp.NewProblemBuilder(prog, noObjectEnv{}, objSchema)
			if len(reports) > 0 {
				for _, r := range reports {
					fmt.Fprintln(os.Stderr, red(r.Code+":"), r.Message)
				}
				return fmt.Errorf("%d problem-builder error(s)", len(reports))
			}

			ctx := context.Background()
			for _, spec := range constraintFlags {
				module, fn, callArgs, err := parseCallSpec(spec)
				if err != nil {
					return err
				}
				if reps := builder.AddConstraint(ctx, module, fn, parseArgValues(callArgs)); len(reps) > 0 {
					return fmt.Errorf("%s: %s", reps[0].Code, reps[0].Message)
				}
			}
			for _, spec := range objectiveFlags {
				module, fn, callArgs, weight, sense, err := parseObjectiveSpec(spec)
				if err != nil {
					return err
				}
				if reps := builder.AddObjective(ctx, module, fn, parseArgValues(callArgs), weight, sense); len(reps) > 0 {
					return fmt.Errorf("%s: %s", reps[0].Code, reps[0].Message)
				}
			}

			problem := builder.Build()
			for _, w := range problem.Warnings() {
				log.Warn(w.String())
			}
			if reps := problem.Validate(); len(reps) > 0 {
				for _, r := range reps {
					fmt.Fprintln(os.Stderr, red(r.Code+":"), r.Message)
				}
				return fmt.Errorf("%d validation error(s)", len(reps))
			}

			fmt.Printf("%s %d atomic constraint(s), %d variable(s)", green("ok"),
				len(problem.Constraints.Atoms), len(problem.Variables()))
			if problem.HasObjective {
				fmt.Printf(", objective: %s\n", problem.Objective.String())
			} else {
				fmt.Println(", no objective")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&objectsPath, "objects", "", "path to the object-type schema YAML file")
	cmd.Flags().StringVar(&varsPath, "vars", "", "path to the external decision-variable schema YAML file")
	cmd.Flags().StringSliceVar(&constraintFlags, "constraint", nil, "module.function(args...) to fold in as constraints")
	cmd.Flags().StringSliceVar(&objectiveFlags, "objective", nil, "module.function(args...):weight:min|max to fold in as objective terms")
	return cmd
}

func parseCallSpec(spec string) (module, fn string, args []string, err error) {
	open := strings.IndexByte(spec, '(')
	if open < 0 || !strings.HasSuffix(spec, ")") {
		return "", "", nil, fmt.Errorf("malformed call spec %q, want module.function(args...)", spec)
	}
	module, fn, ok := splitModuleFunc(spec[:open])
	if !ok {
		return "", "", nil, fmt.Errorf("malformed call spec %q, want module.function(args...)", spec)
	}
	inner := spec[open+1 : len(spec)-1]
	if inner == "" {
		return module, fn, nil, nil
	}
	return module, fn, strings.Split(inner, ","), nil
}

func parseObjectiveSpec(spec string) (module, fn string, args []string, weight float64, sense ilp.Sense, err error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return "", "", nil, 0, 0, fmt.Errorf("malformed objective spec %q, want call(args...):weight:min|max", spec)
	}
	module, fn, args, err = parseCallSpec(parts[0])
	if err != nil {
		return "", "", nil, 0, 0, err
	}
	weight, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", "", nil, 0, 0, fmt.Errorf("malformed objective weight in %q: %w", spec, err)
	}
	switch parts[2] {
	case "min":
		sense = ilp.Minimize
	case "max":
		sense = ilp.Maximize
	default:
		return "", "", nil, 0, 0, fmt.Errorf("objective sense must be min or max, got %q", parts[2])
	}
	return module, fn, args, weight, sense, nil
}
