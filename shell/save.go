package shell

import (
	"errors"
	"os"

	"github.com/abiosoft/ishell"
)

func saveCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "save",
		Help:      "save the session as a zip archive, usage: save <out.zip>",
		Completer: createFsEntryCompleter(),
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(errors.New("missing output file"))
				return
			}

			file, err := os.Create(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			defer file.Close()

			session := ctx.Session()
			if err := session.Write(file); err != nil {
				c.Err(err)
				return
			}
			c.Printf("saved %d sketch(es) to %s\n", len(session.Items), c.Args[0])
		},
	}
}
