package main

import (
	"fmt"

	"github.com/FocuswithJustin/textgrid/core/sqlite"
)

// VersionCmd prints version information.
type VersionCmd struct{}

func (v *VersionCmd) Run() error {
	info := sqlite.GetInfo()
	fmt.Fprintf(stdout, "textgrid version %s\n", version)
	fmt.Fprintf(stdout, "sqlite driver: %s (%s, %s)\n", info.DriverName, info.DriverType, info.Package)
	return nil
}
