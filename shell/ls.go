package shell

import (
	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"
)

func lsCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "ls",
		Help: "list the sketches of the session",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("ls", flag.ContinueOnError)
			jsonOutput := flagSet.Bool("json", ctx.JSONOutput, "print JSON")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}

			items := ctx.Session().Items
			if *jsonOutput {
				out := make([]SketchJSON, len(items))
				for i, item := range items {
					out[i] = SketchToJSON(i+1, item)
				}
				if err := printJSON(c, out); err != nil {
					c.Err(err)
				}
				return
			}

			for i, item := range items {
				displayItem(c, i+1, item)
			}
		},
	}
}
