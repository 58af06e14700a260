package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/collomatique/colloml-go/internal/repl"
)

func newReplCmd() *cobra.Command {
	var objectsPath, varsPath string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "start an interactive ColloML session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			objSchema, err := loadObjectSchema(objectsPath)
			if err != nil {
				return err
			}
			varSchema, err := loadVariableSchema(varsPath)
			if err != nil {
				return err
			}
			r := repl.NewWithSchemas(objSchema, varSchema)
			r.SetVersion(Version, BuildTime)
			r.Start(os.Stdout)
			return nil
		},
	}
	cmd.Flags().StringVar(&objectsPath, "objects", "", "path to the object-type schema YAML file")
	cmd.Flags().StringVar(&varsPath, "vars", "", "path to the external decision-variable schema YAML file")
	return cmd
}
