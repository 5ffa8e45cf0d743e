package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/apiguide/internal/typeexpr"
)

func newTypecheckCmd(stdout io.Writer) *cobra.Command {
	var known []string

	cmd := &cobra.Command{
		Use:   "typecheck TYPE...",
		Short: "Validate doc-comment type expressions",
		Long: `Check each TYPE the way declared types in doc comments are checked: names
separated by "/", an optional trailing "...", each name a builtin type, a
dotted class name given with --known, optionally suffixed with "[]".`,
		Example: `  apiguide typecheck "String/Number..." "Ext.Panel[]" --known Ext.Panel`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypecheck(args, known, stdout)
		},
	}
	cmd.Flags().StringSliceVarP(&known, "known", "k", nil, "class names to accept besides the builtin types")
	return cmd
}

func runTypecheck(types, known []string, stdout io.Writer) error {
	v := typeexpr.New(known...)

	failed := 0
	for _, t := range types {
		err := v.Validate(t)
		if err == nil {
			_, _ = fmt.Fprintf(stdout, "ok     %s\n", t)
			continue
		}
		failed++

		var te *typeexpr.Error
		if errors.As(err, &te) {
			_, _ = fmt.Fprintf(stdout, "%-6s %s\n       %s^\n", te.Kind, t, strings.Repeat(" ", te.Offset))
			continue
		}
		_, _ = fmt.Fprintf(stdout, "error %s: %v\n", t, err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d types invalid", failed, len(types))
	}
	return nil
}
