package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/juruen/quickdraw/archive"
	"github.com/juruen/quickdraw/encoding/sketch"
)

// loadFile adds a .json, .lines or .zip file to the session and returns the
// number of sketches added.
func loadFile(ctx *ShellCtxt, path, expected string) (int, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		file, err := os.Open(path)
		if err != nil {
			return 0, err
		}
		defer file.Close()

		fi, err := file.Stat()
		if err != nil {
			return 0, err
		}

		zip := &archive.Zip{}
		if err := zip.Read(file, fi.Size()); err != nil {
			return 0, err
		}
		session := ctx.Session()
		session.Items = append(session.Items, zip.Items...)
		return len(zip.Items), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	s, err := sketch.Decode(path, data)
	if err != nil {
		return 0, err
	}
	if s.Width == 0 || s.Height == 0 {
		s.Width, s.Height = ctx.Config.Canvas.Width, ctx.Config.Canvas.Height
	}
	if expected == "" {
		expected = expectedFromName(path)
	}
	ctx.Session().Add(s, expected)
	return 1, nil
}

// expectedFromName takes the object from names like apple_3.json.
func expectedFromName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if i := strings.IndexAny(base, "_-."); i > 0 {
		base = base[:i]
	}
	return strings.ToLower(base)
}

func loadCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "load",
		Help:      "load sketches into the session, usage: load [--expected label] <file.json|file.lines|session.zip>...",
		Completer: createFsEntryCompleter(),
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("load", flag.ContinueOnError)
			var expected string
			flagSet.StringVarP(&expected, "expected", "e", "", "object the sketch is supposed to show")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}
			args := flagSet.Args()

			if len(args) == 0 {
				c.Err(errors.New("missing source file"))
				return
			}

			for _, path := range args {
				n, err := loadFile(ctx, path, expected)
				if err != nil {
					c.Err(fmt.Errorf("failed to load %s: %w", path, err))
					return
				}
				c.Printf("loaded %d sketch(es) from %s\n", n, path)
			}
			c.SetPrompt(ctx.prompt())
		},
	}
}
