package main

import (
	"context"
	"fmt"
	"os"

	"github.com/andy/oficina/internal/app"
	"github.com/andy/oficina/internal/cli"
)

func main() {
	// If the user asked for help, avoid initializing the full app (which may prompt)
	skipInit := false
	for _, a := range os.Args[1:] {
		if a == "-h" || a == "--help" || a == "help" {
			skipInit = true
			break
		}
	}

	var a *app.App
	if !skipInit {
		var err error
		a, err = app.New(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize app: %v\n", err)
			os.Exit(cli.ExitCode(err))
		}
		cli.SetApp(a)
	}

	err := cli.Execute()
	// Close before exiting so the metrics textfile is written on failures too
	if a != nil {
		if cerr := a.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "failed to close app: %v\n", cerr)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}
