// Command productctl is the operator tool for productdesk.
package main

import (
	"context"
	"fmt"
	"os"

	"productdesk/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
