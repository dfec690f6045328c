package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/ftmpl/cli"
	"github.com/ardnew/ftmpl/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		log.Error(
			"run failed",
			slog.Any("error", err),
		) // LogValue renders *lang.Error attributes
		os.Exit(1)
	}
}
