package shell

import (
	"errors"
	"strings"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/google/uuid"
	flag "github.com/ogier/pflag"

	"github.com/juruen/quickdraw/auth"
	"github.com/juruen/quickdraw/version"
)

func labelsCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "labels",
		Help: "list the classes of the model",
		Func: func(c *ishell.Context) {
			if ctx.JSONOutput {
				if err := printJSON(c, ctx.Labels); err != nil {
					c.Err(err)
				}
				return
			}
			c.Println(strings.Join(ctx.Labels, " "))
		},
	}
}

func challengeCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "challenge",
		Help: "pick a random object to draw",
		Func: func(c *ishell.Context) {
			c.Printf("round %s: draw a %s\n", uuid.New().String(), ctx.Labels.Random())
		},
	}
}

func configCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "config",
		Help: "print the effective configuration",
		Func: func(c *ishell.Context) {
			var b strings.Builder
			if err := ctx.Config.Write(&b); err != nil {
				c.Err(err)
				return
			}
			c.Print(b.String())
		},
	}
}

func tokenCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "token",
		Help: "issue an API bearer token, usage: token [--ttl 24h] <subject>",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("token", flag.ContinueOnError)
			ttl := flagSet.Duration("ttl", 24*time.Hour, "token lifetime")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}
			args := flagSet.Args()
			if len(args) != 1 {
				c.Err(errors.New("missing subject"))
				return
			}
			secret := ctx.Config.Server.AuthSecret
			if secret == "" {
				c.Err(errors.New("server.auth_secret is not set"))
				return
			}

			token, err := auth.Issue([]byte(secret), args[0], *ttl)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(token)
		},
	}
}

func versionCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "version",
		Help: "show version",
		Func: func(c *ishell.Context) {
			c.Println(version.Version)
		},
	}
}
