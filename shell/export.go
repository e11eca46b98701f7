package shell

import (
	"errors"
	"fmt"
	"os"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/juruen/quickdraw/annotations"
	"github.com/juruen/quickdraw/log"
	"github.com/juruen/quickdraw/preprocess"
)

func exportCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "export",
		Help:      "write a PDF report of sketches, usage: export [-n] <out.pdf> [n]...",
		Completer: createFsEntryCompleter(),
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("export", flag.ContinueOnError)
			pageNumbers := flagSet.BoolP("page-numbers", "n", false, "add page numbers")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}
			args := flagSet.Args()
			if len(args) == 0 {
				c.Err(errors.New("missing output file"))
				return
			}

			items, err := ctx.items(args[1:])
			if err != nil {
				c.Err(err)
				return
			}

			pages := make([]annotations.Page, 0, len(items))
			for _, item := range items {
				page := annotations.Page{Title: item.Expected, Sketch: item.Sketch, Prediction: item.Prediction}
				if page.Title == "" {
					page.Title = item.ID
				}
				if res, err := runPipeline(ctx, item); err == nil {
					page.Tensor = preprocess.Upscale(preprocess.Denormalize(res.Tensor), 2)
				} else {
					log.Trace.Printf("export: %s: %v", item.ID, err)
				}
				pages = append(pages, page)
			}

			options := annotations.PdfGeneratorOptions{
				AddPageNumbers: *pageNumbers,
				LineWidth:      ctx.Pipeline.Params().LineWidth(),
			}
			if err := annotations.CreatePdfGenerator(args[0], options).Generate(pages); err != nil {
				os.Remove(args[0])
				c.Err(fmt.Errorf("failed to export: %w", err))
				return
			}
			c.Printf("wrote %d page(s) to %s\n", len(pages), args[0])
		},
	}
}
