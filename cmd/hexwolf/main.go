// Command hexwolf speaks the Hex text protocol on stdin/stdout.
//
// The heavy lifting lives in internal/htp: per genmove request the engine
// races its iterative-deepening player against the exact solver on the
// shared transposition table, and answers with whichever concludes first.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/must"
	"golang.org/x/term"
	"k8s.io/klog/v2"

	"hexwolf/internal/hex"
	"hexwolf/internal/htp"
)

var flagBoardSize = flag.Int("size", hex.DefaultBoardSize, "Initial board size.")

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagBoardSize < hex.MinBoardSize || *flagBoardSize > hex.MaxBoardSize {
		exceptions.Panicf("invalid --size=%d, valid sizes are %d to %d",
			*flagBoardSize, hex.MinBoardSize, hex.MaxBoardSize)
	}

	engine := htp.NewEngine(*flagBoardSize)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		// Interactive session; the protocol itself stays on stdout.
		fmt.Fprintf(os.Stderr, "hexwolf %s on a %dx%d board, type list_commands for help\n",
			htp.Version, *flagBoardSize, *flagBoardSize)
	}
	must.M(engine.Run(os.Stdin, os.Stdout))
}
