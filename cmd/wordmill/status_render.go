package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

const (
	checkLabelWidth = 24
	checkIndent     = "  "
)

func renderCheckLine(name string, passed bool, detail string, colorize bool) string {
	status := "OK"
	if !passed {
		status = "FAIL"
	}
	if detail != "" {
		status = fmt.Sprintf("[%s] %s", status, detail)
	} else {
		status = fmt.Sprintf("[%s]", status)
	}
	base := fmt.Sprintf("%s%-*s %s", checkIndent, checkLabelWidth, name+":", status)
	if colorize {
		color := ansiGreen
		if !passed {
			color = ansiRed
		}
		return color + base + ansiReset
	}
	return base
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
