// Package main is the flexcalc command, an expression calculator.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
// Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
//
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/npillmayer/flexcalc"
	"github.com/npillmayer/flexcalc/flexcalc/cli"
)

func main() {
	var stop context.CancelFunc
	flexcalc.SignalContext, stop = signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cli.Execute()
}
