// fontdue CLI - font catalog and collection tool
package main

import (
	"os"

	"github.com/joeblew999/fontdue/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
