package main

import (
	"os"

	"github.com/yoanbernabeu/frankenboot/internal/boot"
	"github.com/yoanbernabeu/frankenboot/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(boot.ExitCode(err))
	}
}
