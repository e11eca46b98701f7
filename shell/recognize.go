package shell

import (
	"context"
	"fmt"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/juruen/quickdraw/archive"
	"github.com/juruen/quickdraw/model"
	"github.com/juruen/quickdraw/predict"
	"github.com/juruen/quickdraw/preprocess"
)

func isCorrect(item *archive.Item) bool {
	return predict.Check(item.Prediction, item.Expected)
}

func recognizeCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "recognize",
		Help:      "classify sketches of the session, usage: recognize [--top N] [n]...",
		Completer: createIndexCompleter(ctx),
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("recognize", flag.ContinueOnError)
			top := flagSet.IntP("top", "t", 3, "number of ranked labels to show")
			jsonOutput := flagSet.Bool("json", ctx.JSONOutput, "print JSON")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}

			d, err := ctx.dispatcher()
			if err != nil {
				c.Err(err)
				return
			}
			items, err := ctx.items(flagSet.Args())
			if err != nil {
				c.Err(err)
				return
			}

			sketches := make([][]model.Point, len(items))
			for i, item := range items {
				sketches[i] = scaledPoints(ctx, item)
			}

			results := d.PredictBatch(context.Background(), sketches)

			var out []SketchJSON
			for i, item := range items {
				res := results[i]
				if res.Prediction != nil {
					item.Prediction = res.Prediction
				}
				if *jsonOutput {
					out = append(out, SketchToJSON(i+1, item))
					continue
				}
				c.Printf("[%s] ", item.ID)
				if res.Err != nil {
					c.Println(fmt.Sprintf("failed: %v", res.Err))
					continue
				}
				displayPrediction(c, res.Prediction, *top)
				if item.Expected != "" {
					c.Printf("  expected %s:%s\n", item.Expected, mark(item))
				}
			}
			if *jsonOutput {
				if err := printJSON(c, out); err != nil {
					c.Err(err)
				}
			}
		},
	}
}

// scaledPoints maps a sketch onto the configured canvas.
func scaledPoints(ctx *ShellCtxt, item *archive.Item) []model.Point {
	p := ctx.Pipeline.Params()
	return preprocess.Scale(item.Sketch.Points(), item.Sketch.Width, item.Sketch.Height, p.CanvasWidth, p.CanvasHeight)
}
