package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/guox18/jless/internal/clipboard"
	"github.com/guox18/jless/internal/config"
	"github.com/guox18/jless/internal/jsontree"
	"github.com/guox18/jless/internal/logger"
	"github.com/guox18/jless/internal/viewer"
)

// App is the top-level runtime for jless.
type App struct {
	path  string
	lines bool
}

// sigQuit is posted as an interrupt payload when a termination signal
// arrives.
type sigQuit struct{}

// New parses the command-line arguments: an optional --lines/-l mode
// switch and at most one input path ("-" or nothing means stdin).
func New(args []string) (*App, error) {
	a := &App{}
	for _, arg := range args {
		switch arg {
		case "--lines", "-l":
			a.lines = true
		case "-h", "--help":
			return nil, errUsage
		default:
			if len(arg) > 1 && arg[0] == '-' {
				return nil, fmt.Errorf("unknown flag %q", arg)
			}
			if a.path != "" {
				return nil, fmt.Errorf("unexpected argument %q", arg)
			}
			a.path = arg
		}
	}
	return a, nil
}

var errUsage = fmt.Errorf("usage: jless [--lines] [file]")

func (a *App) Run() error {
	runtime.LockOSThread()

	if os.Getenv("JLESS_DEBUG") != "" {
		if err := logger.Init(true); err == nil {
			defer logger.Close()
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// A named file is read up front so a bad path fails before the
	// screen takes over; stdin is drained behind the loading indicator.
	useStdin := a.path == "" || a.path == "-"
	docName := "(stdin)"
	var data []byte
	if !useStdin {
		data, err = os.ReadFile(a.path)
		if err != nil {
			return err
		}
		docName = filepath.Base(a.path)
	}
	mode := jsontree.ModeJSON
	if a.lines {
		mode = jsontree.ModeLines
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	defer s.Fini()

	tree := jsontree.NewTree(mode)
	v := viewer.New(tree, docName, cfg)
	v.LoadSearchHistory()
	v.SetYankFunc(clipboard.Copy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var frags <-chan jsontree.Fragment
	if useStdin {
		frags = jsontree.ParseStreamReader(ctx, os.Stdin, mode)
	} else {
		frags = jsontree.ParseStream(ctx, data, mode)
	}
	tree.BeginGrow()
	v.SetLoading(true)
	logger.Info("parse started", "doc", docName, "lines_mode", a.lines)

	// Wake the event loop periodically so freshly parsed fragments show
	// up without requiring a keypress.
	stopWake := make(chan struct{})
	defer close(stopWake)
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopWake:
				return
			case <-ticker.C:
				_ = s.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		if _, ok := <-sig; ok {
			_ = s.PostEvent(tcell.NewEventInterrupt(sigQuit{}))
		}
	}()

	// The event loop is the only goroutine that touches the tree; the
	// parser hands over self-contained fragments through the channel.
	// A parse failure that left nothing to display ends the session.
	parsing := true
	var parseErr error
	drain := func() error {
		for parsing {
			select {
			case f, ok := <-frags:
				if !ok {
					parsing = false
					tree.EndGrow()
					v.SetLoading(false)
					v.TreeChanged()
					logger.Info("parse finished", "nodes", tree.Len(), "lines", tree.TotalLines())
					if fatalParse(tree, parseErr) {
						return parseErr
					}
					return nil
				}
				if err := tree.Apply(f); err != nil {
					parseErr = err
					v.SetStatus(err.Error())
					logger.Warn("parse error", "err", err)
				}
			default:
				return nil
			}
		}
		return nil
	}

	if err := drain(); err != nil {
		return err
	}
	v.Render(s)
	for {
		ev := s.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if v.HandleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			v.HandleMouse(ev)
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			if _, ok := ev.Data().(sigQuit); ok {
				return nil
			}
		}
		if err := drain(); err != nil {
			return err
		}
		v.Render(s)
	}
}

// fatalParse reports whether a failed parse left nothing worth showing.
// A partial tree keeps the session alive with the error on the prompt
// line; an empty one exits with the error instead of a blank screen.
func fatalParse(tree *jsontree.Tree, parseErr error) bool {
	return parseErr != nil && tree.Len() == 0
}

