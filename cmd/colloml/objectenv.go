package main

import (
	"context"
	"fmt"

	"github.com/collomatique/colloml-go/internal/eval"
)

// noObjectEnv is the CLI's default object environment: the command-line
// tool has no live domain model to query, so every object type reports
// an empty collection. A real embedding application supplies its own
// eval.ObjectEnv through the library API directly; this stub exists only
// so `colloml eval`/`colloml build` can run against programs that don't
// reference @[Type] collections.
type noObjectEnv struct{}

func (noObjectEnv) Collection(ctx context.Context, typeName string) ([]eval.ObjectValue, error) {
	return nil, nil
}

func (noObjectEnv) Field(ctx context.Context, handle eval.ObjectValue, field string) (eval.Value, error) {
	return nil, fmt.Errorf("colloml: no object environment is available from the command line (field %q requested)", field)
}
