package shell

import (
	"errors"
	"slices"
	"strconv"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/juruen/quickdraw/archive"
)

func rmCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "rm",
		Help:      "remove sketches from the session, usage: rm [-a] <n>...",
		Completer: createIndexCompleter(ctx),
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("rm", flag.ContinueOnError)
			all := flagSet.BoolP("all", "a", false, "remove every sketch")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}
			argRest := flagSet.Args()

			session := ctx.Session()
			if *all {
				session.Items = nil
				c.SetPrompt(ctx.prompt())
				return
			}
			if len(argRest) < 1 {
				c.Err(errors.New("missing param"))
				return
			}

			drop := make(map[*archive.Item]bool)
			for _, target := range argRest {
				item, err := ctx.item(target)
				if err != nil {
					c.Err(err)
					return
				}
				drop[item] = true
			}

			session.Items = slices.DeleteFunc(session.Items, func(item *archive.Item) bool {
				return drop[item]
			})
			c.Println("removed " + strconv.Itoa(len(drop)))
			c.SetPrompt(ctx.prompt())
		},
	}
}
