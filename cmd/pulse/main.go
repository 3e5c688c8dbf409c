// Package main provides the entry point for the pulse CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Aman-CERP/pulse/cmd/pulse/cmd"
	perrors "github.com/Aman-CERP/pulse/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprint(os.Stderr, perrors.FormatForCLI(err))
		os.Exit(1)
	}
}
