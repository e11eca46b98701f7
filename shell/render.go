package shell

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/juruen/quickdraw/archive"
	"github.com/juruen/quickdraw/preprocess"
)

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runPipeline(ctx *ShellCtxt, item *archive.Item) (*preprocess.Result, error) {
	return ctx.Pipeline.Run(scaledPoints(ctx, item))
}

func renderCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "render",
		Help:      "write a pipeline stage of a sketch as PNG, usage: render [--stage tensor] [--scale 4] <n> <out.png>",
		Completer: createFsEntryCompleter(),
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("render", flag.ContinueOnError)
			stage := flagSet.StringP("stage", "s", "tensor", fmt.Sprintf("stage to render %v", preprocess.Stages))
			scale := flagSet.IntP("scale", "x", 4, "upscale factor")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}
			args := flagSet.Args()
			if len(args) != 2 {
				c.Err(errors.New("usage: render <n> <out.png>"))
				return
			}

			item, err := ctx.item(args[0])
			if err != nil {
				c.Err(err)
				return
			}

			res, err := runPipeline(ctx, item)
			if err != nil {
				c.Err(err)
				return
			}
			img, err := res.Stage(*stage)
			if err != nil {
				c.Err(err)
				return
			}
			if *scale > 1 {
				img = preprocess.Upscale(img, *scale)
			}

			if err := writePNG(args[1], img); err != nil {
				c.Err(fmt.Errorf("failed to write %s: %w", args[1], err))
				return
			}

			c.Printf("%s: box %+v, area %d, threshold %d", args[1], res.Location.Box, res.Location.Area, res.Threshold)
			if res.Location.Fallback {
				c.Print(" (fallback)")
			}
			c.Println()
		},
	}
}
