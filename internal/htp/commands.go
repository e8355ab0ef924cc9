package htp

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"hexwolf/internal/hex"
	"hexwolf/internal/race"
)

func (e *Engine) registerCoreCommands() {
	e.Register("protocol_version", func([]string) (string, error) { return "2", nil })
	e.Register("name", func([]string) (string, error) { return "hexwolf", nil })
	e.Register("version", func([]string) (string, error) { return Version, nil })
	e.Register("list_commands", e.cmdListCommands)
	e.Register("known_command", e.cmdKnownCommand)
	e.Register("quit", e.cmdQuit)
	e.Register("boardsize", e.cmdBoardSize)
	e.Register("clear_board", e.cmdClearBoard)
	e.Register("showboard", e.cmdShowBoard)
	e.Register("play", e.cmdPlay)
	e.Register("genmove", e.cmdGenMove)
	e.Register("undo", e.cmdUndo)
	e.Register("time_left", e.cmdTimeLeft)
}

func (e *Engine) cmdListCommands([]string) (string, error) {
	var sb []byte
	for _, name := range e.commandNames() {
		sb = append(sb, name...)
		sb = append(sb, '\n')
	}
	return string(sb), nil
}

func (e *Engine) cmdKnownCommand(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected a command name")
	}
	_, ok := e.commands[args[0]]
	return strconv.FormatBool(ok), nil
}

func (e *Engine) cmdQuit([]string) (string, error) {
	e.quit = true
	return "", nil
}

func (e *Engine) cmdBoardSize(args []string) (string, error) {
	if len(args) < 1 || len(args) > 2 {
		return "", errors.New("expected a board size")
	}
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return "", errors.Errorf("invalid board size %q", args[0])
	}
	if len(args) == 2 && args[1] != args[0] {
		return "", errors.New("only square boards are supported")
	}
	if size < hex.MinBoardSize || size > hex.MaxBoardSize {
		return "", errors.Errorf("board size %d outside [%d, %d]",
			size, hex.MinBoardSize, hex.MaxBoardSize)
	}
	e.game.Reset(size)
	return "", nil
}

func (e *Engine) cmdClearBoard([]string) (string, error) {
	e.game.Reset(e.game.Position().Size())
	return "", nil
}

func (e *Engine) cmdPlay(args []string) (string, error) {
	if len(args) != 2 {
		return "", errors.New("expected color and move")
	}
	color, err := hex.ParseColor(args[0])
	if err != nil {
		return "", err
	}
	pos := e.game.Position()
	if color != pos.ToPlay() {
		return "", errors.Errorf("it is %s's turn", pos.ToPlay())
	}
	m, err := hex.ParseMove(args[1], pos.Size())
	if err != nil {
		return "", err
	}
	if m == hex.Resign {
		return "", errors.New("cannot play a resignation")
	}
	return "", e.game.Play(m)
}

func (e *Engine) cmdUndo([]string) (string, error) {
	return "", e.game.Undo()
}

// cmdTimeLeft updates the mover's clock: "time_left color seconds".
func (e *Engine) cmdTimeLeft(args []string) (string, error) {
	if len(args) != 2 {
		return "", errors.New("expected color and seconds")
	}
	color, err := hex.ParseColor(args[0])
	if err != nil {
		return "", err
	}
	seconds, err := strconv.ParseFloat(args[1], 64)
	if err != nil || seconds < 0 {
		return "", errors.Errorf("invalid time %q", args[1])
	}
	e.game.SetTimeLeft(color, time.Duration(seconds*float64(time.Second)))
	return "", nil
}

// cmdGenMove drives the full move pipeline: swap check, time budget, then
// the play-and-solve race. The chosen move is played on the game record
// and the mover's clock debited.
func (e *Engine) cmdGenMove(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected a color argument")
	}
	color, err := hex.ParseColor(args[0])
	if err != nil {
		return "", err
	}
	pos := e.game.Position()
	if color != pos.ToPlay() {
		return "", errors.Errorf("it is %s's turn", pos.ToPlay())
	}
	if pos.IsTerminal() {
		return "resign", nil
	}

	// Pie rule: an advantageous opening is taken over outright, skipping
	// budget and search entirely.
	if e.useSwapCheck && e.swapCheck.ShouldSwap(pos) {
		if err := e.game.Play(hex.Swap); err != nil {
			return "", err
		}
		klog.Infof("game %s: playing swap", e.game.ID())
		return hex.MoveString(hex.Swap, pos.Size()), nil
	}

	remaining := e.game.TimeRemaining(color)
	budget := e.clock.TimeForMove(pos, remaining)
	klog.V(1).Infof("game %s: budget %s of %s remaining", e.game.ID(), budget, remaining)

	start := time.Now()
	outcome := e.coord.GenMove(context.Background(), pos, budget)
	e.game.Debit(color, time.Since(start))

	m := outcome.Result.Move
	if m == hex.Resign || m == hex.NoMove {
		return "resign", nil
	}
	if err := e.game.Play(m); err != nil {
		return "", err
	}
	if outcome.Kind == race.Proven {
		klog.Infof("game %s: %s (proven %s)", e.game.ID(),
			hex.MoveString(m, pos.Size()), winLoss(outcome.Result.Score))
	}
	return hex.MoveString(m, pos.Size()), nil
}

func winLoss(score float32) string {
	if score > 0 {
		return "win"
	}
	return "loss"
}
