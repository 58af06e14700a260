package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/collomatique/colloml-go/internal/eval"
	"github.com/collomatique/colloml-go/internal/schema"
)

// loadSources reads every .colloml file under each given path (a file or a
// directory, walked recursively) into the sources map check.Check expects,
// keyed by module name — the file's base name with its extension
// stripped, following the teacher's one-file-one-module convention
// (cmd/ailang's runFile reads a single file per invocation; colloml's
// module system needs every file in one Check call, so this generalises
// it to a recursive walk).
func loadSources(paths []string) (map[string]string, error) {
	sources := map[string]string{}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if err := addSourceFile(sources, path); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() || filepath.Ext(p) != ".colloml" {
				return nil
			}
			return addSourceFile(sources, p)
		})
		if err != nil {
			return nil, err
		}
	}
	return sources, nil
}

func addSourceFile(sources map[string]string, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	module := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sources[module] = string(content)
	return nil
}

func loadObjectSchema(path string) (schema.ObjectSchema, error) {
	if path == "" {
		return schema.ObjectSchema{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.ObjectSchema{}, err
	}
	return schema.ParseObjectSchema(data)
}

func loadVariableSchema(path string) (schema.VariableSchema, error) {
	if path == "" {
		return schema.VariableSchema{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.VariableSchema{}, err
	}
	return schema.ParseVariableSchema(data)
}

// parseArgValue interprets one CLI-supplied call argument as an
// eval.Value: an integer literal, `true`/`false`, or else a bare string.
// Richer argument shapes (lists, tuples, structs, object handles) are not
// expressible on the command line — the repl and library API are the
// paths to those.
func parseArgValue(s string) eval.Value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return eval.IntValue{Value: n}
	}
	switch s {
	case "true":
		return eval.BoolValue{Value: true}
	case "false":
		return eval.BoolValue{Value: false}
	}
	return eval.StringValue{Value: s}
}

func parseArgValues(args []string) []eval.Value {
	out := make([]eval.Value, len(args))
	for i, a := range args {
		out[i] = parseArgValue(a)
	}
	return out
}

// splitModuleFunc splits "module.function" into its two parts.
func splitModuleFunc(s string) (module, fn string, ok bool) {
	i := strings.LastIndex(s, ".")
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}
