package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"hardsub/internal/api"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(1)
		}
		var apiErr *api.ErrorStatus
		if errors.As(err, &apiErr) {
			fmt.Fprintf(os.Stderr, "daemon rejected request: %s\n", apiErr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
