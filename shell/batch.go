package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/juruen/quickdraw/encoding/sketch"
	"github.com/juruen/quickdraw/model"
)

// BatchReport summarizes a recognized directory.
type BatchReport struct {
	Files    int            `json:"files"`
	Failed   int            `json:"failed"`
	Correct  int            `json:"correct"`
	Accuracy float64        `json:"accuracy"`
	PerLabel map[string]int `json:"correct_per_label"`
}

func batchCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "batch",
		Help:      "load every sketch of a directory and report accuracy, usage: batch <dir>",
		Completer: createFsEntryCompleter(),
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("batch", flag.ContinueOnError)
			jsonOutput := flagSet.Bool("json", ctx.JSONOutput, "print JSON")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}
			args := flagSet.Args()
			if len(args) != 1 {
				c.Err(errors.New("missing directory"))
				return
			}

			d, err := ctx.dispatcher()
			if err != nil {
				c.Err(err)
				return
			}

			entries, err := os.ReadDir(args[0])
			if err != nil {
				c.Err(err)
				return
			}

			first := len(ctx.Session().Items)
			for _, e := range entries {
				ext := strings.ToLower(filepath.Ext(e.Name()))
				if e.IsDir() || (ext != sketch.ExtJSON && ext != sketch.ExtLines) {
					continue
				}
				if _, err := loadFile(ctx, filepath.Join(args[0], e.Name()), ""); err != nil {
					c.Err(fmt.Errorf("failed to load %s: %w", e.Name(), err))
					return
				}
			}
			items := ctx.Session().Items[first:]
			if len(items) == 0 {
				c.Err(errors.New("no sketches found"))
				return
			}
			c.SetPrompt(ctx.prompt())

			sketches := make([][]model.Point, len(items))
			for i, item := range items {
				sketches[i] = scaledPoints(ctx, item)
			}
			results := d.PredictBatch(context.Background(), sketches)

			report := BatchReport{Files: len(items), PerLabel: map[string]int{}}
			for i, item := range items {
				if results[i].Err != nil {
					report.Failed++
					continue
				}
				item.Prediction = results[i].Prediction
				if isCorrect(item) {
					report.Correct++
					report.PerLabel[item.Expected]++
				}
			}
			report.Accuracy = float64(report.Correct) / float64(report.Files)

			if *jsonOutput {
				if err := printJSON(c, report); err != nil {
					c.Err(err)
				}
				return
			}
			c.Printf("%d sketches, %d failed, %d correct (%.1f%%)\n",
				report.Files, report.Failed, report.Correct, report.Accuracy*100)
		},
	}
}
