// Package shell is the interactive front-end: load sketches into a session,
// recognize them, render the pipeline stages and export reports.
package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/pkg/errors"

	"github.com/juruen/quickdraw/archive"
	"github.com/juruen/quickdraw/classifier"
	"github.com/juruen/quickdraw/config"
	"github.com/juruen/quickdraw/predict"
	"github.com/juruen/quickdraw/preprocess"
)

var errNoClassifier = errors.New("no classifier configured, set classifier.url or QUICKDRAW_CLASSIFIER_URL")

type ShellCtxt struct {
	Config     *config.Config
	Pipeline   *preprocess.Pipeline
	Labels     classifier.LabelSet
	Dispatcher *predict.Dispatcher
	JSONOutput bool

	session *archive.Zip
}

func (ctx *ShellCtxt) prompt() string {
	return fmt.Sprintf("[quickdraw %d]>", len(ctx.Session().Items))
}

// Session returns the sketches loaded so far.
func (ctx *ShellCtxt) Session() *archive.Zip {
	if ctx.session == nil {
		ctx.session = archive.NewZip()
		ctx.session.Content.Labels = ctx.Labels
	}
	return ctx.session
}

func (ctx *ShellCtxt) dispatcher() (*predict.Dispatcher, error) {
	if ctx.Dispatcher == nil {
		return nil, errNoClassifier
	}
	return ctx.Dispatcher, nil
}

// item resolves a 1-based sketch index.
func (ctx *ShellCtxt) item(arg string) (*archive.Item, error) {
	items := ctx.Session().Items
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(items) {
		return nil, errors.Errorf("no sketch %q, have %d", arg, len(items))
	}
	return items[n-1], nil
}

// items resolves indexes, all sketches when args is empty.
func (ctx *ShellCtxt) items(args []string) ([]*archive.Item, error) {
	if len(args) == 0 {
		items := ctx.Session().Items
		if len(items) == 0 {
			return nil, errors.New("no sketches loaded")
		}
		return items, nil
	}
	var items []*archive.Item
	for _, arg := range args {
		item, err := ctx.item(arg)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func setCustomCompleter(shell *ishell.Shell) {
	cmdCompleter := make(cmdToCompleter)
	for _, cmd := range shell.Cmds() {
		cmdCompleter[cmd.Name] = cmd.Completer
	}
	shell.CustomCompleter(shellPathCompleter{cmdCompleter})
}

func RunShell(ctx *ShellCtxt, args []string) error {
	shell := ishell.New()

	shell.SetPrompt(ctx.prompt())

	shell.AddCmd(loadCmd(ctx))
	shell.AddCmd(lsCmd(ctx))
	shell.AddCmd(rmCmd(ctx))
	shell.AddCmd(recognizeCmd(ctx))
	shell.AddCmd(batchCmd(ctx))
	shell.AddCmd(renderCmd(ctx))
	shell.AddCmd(exportCmd(ctx))
	shell.AddCmd(saveCmd(ctx))
	shell.AddCmd(labelsCmd(ctx))
	shell.AddCmd(challengeCmd(ctx))
	shell.AddCmd(configCmd(ctx))
	shell.AddCmd(tokenCmd(ctx))
	shell.AddCmd(versionCmd(ctx))

	setCustomCompleter(shell)

	if len(args) > 0 {
		return shell.Process(args...)
	}

	shell.Printf("quickdraw - sketch recognition shell (%d labels)\n", len(ctx.Labels))
	shell.Run()
	return nil
}

type cmdToCompleter map[string]func([]string) []string

type shellPathCompleter struct {
	cmdCompleter cmdToCompleter
}

func (ic shellPathCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	words := strings.Fields(string(line))
	if len(words) == 0 || (len(words) == 1 && !strings.HasSuffix(string(line), " ")) {
		return completeWith(ic.commands(), words), lastLen(words)
	}
	completer := ic.cmdCompleter[words[0]]
	if completer == nil {
		return nil, 0
	}
	args := words[1:]
	if strings.HasSuffix(string(line), " ") {
		args = append(args, "")
	}
	return completeWith(completer(args), args), lastLen(args)
}

func (ic shellPathCompleter) commands() []string {
	names := make([]string, 0, len(ic.cmdCompleter))
	for name := range ic.cmdCompleter {
		names = append(names, name)
	}
	return names
}

func lastLen(words []string) int {
	if len(words) == 0 {
		return 0
	}
	return len(words[len(words)-1])
}

func completeWith(candidates, words []string) [][]rune {
	prefix := ""
	if len(words) > 0 {
		prefix = words[len(words)-1]
	}
	var out [][]rune
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			out = append(out, []rune(c[len(prefix):]))
		}
	}
	return out
}

// createFsEntryCompleter completes local file names.
func createFsEntryCompleter() func([]string) []string {
	return func(args []string) []string {
		dir := "."
		if len(args) > 0 {
			dir = filepath.Dir(args[len(args)-1])
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil
		}
		var names []string
		for _, e := range entries {
			name := e.Name()
			if dir != "." {
				name = filepath.Join(dir, name)
			}
			if e.IsDir() {
				name += "/"
			}
			names = append(names, name)
		}
		return names
	}
}

// createIndexCompleter completes sketch indexes of the session.
func createIndexCompleter(ctx *ShellCtxt) func([]string) []string {
	return func(args []string) []string {
		n := len(ctx.Session().Items)
		indexes := make([]string, n)
		for i := range indexes {
			indexes[i] = strconv.Itoa(i + 1)
		}
		return indexes
	}
}
