package main

import (
	"fmt"
	"io"

	"github.com/opal-lang/parseflow/perror"
)

// FormatError writes err to w, colored to taste. perror.Error already
// renders its own caret-highlighted snippet; other errors (I/O failures,
// usage errors) get the plain "Error: " prefix.
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}
	if pe, ok := err.(*perror.Error); ok {
		fmt.Fprintln(w, Colorize(pe.Error(), ColorRed, useColor))
		return
	}
	fmt.Fprintln(w, Colorize("Error: ", ColorRed, useColor)+err.Error())
}
