package main

import (
	"github.com/sqweek/dialog"
)

/// LoadDialog asks the user for a program image or assembly source file.
/// Returns dialog.ErrCancelled if the dialog was closed.
///
func LoadDialog() (string, error) {
	return dialog.File().
		Filter("CHIP-8 Programs", "ch8", "c8", "asm", "c8s").
		Title("Load CHIP-8 Program").
		Load()
}
