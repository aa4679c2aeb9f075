// getcolour - Average colour of an image
//
// getcolour calculates the average colour of an image and prints it as
// RGB and HSL.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/getcolour/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
