package main

import (
	"os"

	"github.com/leotrv/dcf-calculator/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
