package main

import (
	"github.com/alecthomas/kong"

	"gribova.dev/Foodgram/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("Foodgram"), kong.Description("Foodgram is a recipe sharing service backend."))
	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug})
	ctx.FatalIfErrorf(err)
}
