// Package main provides integration tests for the codefmt CLI.
package main

import (
	"context"
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/bitshepherds/codefmt/internal/app"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"codefmt": func() {
			ctx := context.Background()
			if err := app.Run(ctx, os.Args, os.Stdout, os.Stderr, nil); err != nil {
				os.Exit(app.ExitCode(err))
			}
		},
	})
}

func TestScripts(t *testing.T) {
	t.Parallel()
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
