// Package htp implements the synchronous Hex text protocol: one request
// line in, one =success / ?failure response out. It owns the wiring between
// the game record, the parameter registry, the time controller, the swap
// check and the play-and-solve race.
package htp

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"hexwolf/internal/eval"
	"hexwolf/internal/game"
	"hexwolf/internal/params"
	"hexwolf/internal/race"
	"hexwolf/internal/search"
	"hexwolf/internal/solver"
	"hexwolf/internal/swap"
	"hexwolf/internal/timectl"
	"hexwolf/internal/tt"
)

// DefaultTableBits sizes the transposition table before the operator tunes
// tt_bits.
const DefaultTableBits = 16

// Version reported by the version command.
const Version = "1.0.0"

// Handler implements one protocol command.
type Handler func(args []string) (string, error)

// Engine is the protocol front end. Commands execute strictly one at a
// time; no handler ever panics the process, failures surface as ? lines.
type Engine struct {
	game      *game.Game
	player    *search.Player
	solver    *solver.Solver
	coord     *race.Coordinator
	clock     *timectl.Controller
	swapCheck *swap.Checker
	registry  *params.Registry

	useSwapCheck bool
	commands     map[string]Handler
	quit         bool
}

// NewEngine wires an engine around a fresh game of the given board size.
func NewEngine(boardSize int) *Engine {
	evaluator := eval.Connectivity{}
	e := &Engine{
		game:         game.New(boardSize),
		player:       search.New(evaluator),
		solver:       solver.New(),
		clock:        timectl.New(),
		swapCheck:    swap.New(evaluator),
		useSwapCheck: true,
		commands:     make(map[string]Handler),
	}
	e.player.SetTable(tt.New(DefaultTableBits))
	e.coord = race.New(e.player, e.solver)
	e.registry = e.buildRegistry()
	e.registerCoreCommands()
	e.registerWolveCommands()
	return e
}

// Game exposes the game record, mainly for front ends and tests.
func (e *Engine) Game() *game.Game { return e.game }

// Player exposes the heuristic player, mainly for front ends and tests.
func (e *Engine) Player() *search.Player { return e.player }

// Register adds a protocol command. Later registrations replace earlier
// ones of the same name.
func (e *Engine) Register(name string, h Handler) {
	e.commands[name] = h
}

// Execute runs a single command by name, exactly as the protocol loop
// would.
func (e *Engine) Execute(name string, args ...string) (string, error) {
	h, ok := e.commands[name]
	if !ok {
		return "", errors.Errorf("unknown command: %s", name)
	}
	return h(args)
}

// Run reads commands from in until quit or EOF, writing one response per
// request. Protocol failures are reported inline; only I/O errors abort
// the loop.
func (e *Engine) Run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for !e.quit && scanner.Scan() {
		id, name, args, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		result, err := e.Execute(name, args...)
		if err != nil {
			klog.V(1).Infof("command %s failed: %v", name, err)
		}
		if werr := writeResponse(out, id, result, err); werr != nil {
			return werr
		}
	}
	return scanner.Err()
}

// parseLine splits a request into optional numeric id, command name and
// arguments. Comments run from '#' to end of line.
func parseLine(line string) (id int, name string, args []string, ok bool) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, "", nil, false
	}
	id = -1
	if n, err := strconv.Atoi(fields[0]); err == nil && len(fields) > 1 {
		id = n
		fields = fields[1:]
	}
	return id, fields[0], fields[1:], true
}

func writeResponse(w io.Writer, id int, result string, err error) error {
	status, body := "=", strings.TrimRight(result, "\n")
	if err != nil {
		status, body = "?", err.Error()
	}
	var werr error
	if id >= 0 {
		_, werr = fmt.Fprintf(w, "%s%d %s\n\n", status, id, body)
	} else {
		_, werr = fmt.Fprintf(w, "%s %s\n\n", status, body)
	}
	return werr
}

// commandNames returns every registered command, sorted.
func (e *Engine) commandNames() []string {
	names := make([]string, 0, len(e.commands))
	for name := range e.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
