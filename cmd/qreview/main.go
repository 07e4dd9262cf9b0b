package main

import (
	"os"

	"github.com/dshills/qreview/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
