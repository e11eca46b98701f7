package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/juruen/quickdraw/annotations"
	"github.com/juruen/quickdraw/archive"
	"github.com/juruen/quickdraw/config"
	"github.com/juruen/quickdraw/encoding/sketch"
	"github.com/juruen/quickdraw/preprocess"
)

func main() {
	inputName := flag.String("i", "", "file to convert (.lines, .json or .zip)")
	outputName := flag.String("o", "", "output filename")
	extract := flag.String("e", "", "extract, p - pdf report, a - text summary, or a stage name "+strings.Join(preprocess.Stages, "|"))
	configPath := flag.String("config", "", "config file")
	flag.Parse()

	path, required := *configPath, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}
	cfg, err := config.Load(path, required)
	if err == nil {
		switch *extract {
		case "a":
			err = summary(cfg, *inputName, *outputName)
		case "":
			fallthrough
		case "p":
			err = convert(cfg, *inputName, *outputName)
		default:
			err = stage(cfg, *inputName, *outputName, *extract)
		}
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readItems loads every sketch of a .lines, .json or .zip file.
func readItems(cfg *config.Config, inputName string) ([]*archive.Item, error) {
	if inputName == "" {
		return nil, errors.New("missing input file")
	}

	if strings.EqualFold(filepath.Ext(inputName), ".zip") {
		file, err := os.Open(inputName)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		fi, err := file.Stat()
		if err != nil {
			return nil, err
		}
		zip := &archive.Zip{}
		if err := zip.Read(file, fi.Size()); err != nil {
			return nil, err
		}
		return zip.Items, nil
	}

	data, err := os.ReadFile(inputName)
	if err != nil {
		return nil, err
	}
	s, err := sketch.Decode(inputName, data)
	if err != nil {
		return nil, err
	}
	if s.Width == 0 || s.Height == 0 {
		s.Width, s.Height = cfg.Canvas.Width, cfg.Canvas.Height
	}
	item := archive.NewZip().Add(s, "")
	item.Expected = strings.TrimSuffix(filepath.Base(inputName), filepath.Ext(inputName))
	return []*archive.Item{item}, nil
}

func run(cfg *config.Config, pipeline *preprocess.Pipeline, item *archive.Item) (*preprocess.Result, error) {
	points := preprocess.Scale(item.Sketch.Points(), item.Sketch.Width, item.Sketch.Height,
		cfg.Canvas.Width, cfg.Canvas.Height)
	return pipeline.Run(points)
}

func outputFor(inputName, outputName, ext string) string {
	if outputName != "" {
		return outputName
	}
	return strings.TrimSuffix(inputName, filepath.Ext(inputName)) + ext
}

func summary(cfg *config.Config, inputName, outputName string) error {
	items, err := readItems(cfg, inputName)
	if err != nil {
		return err
	}
	pipeline, err := preprocess.New(cfg.Params())
	if err != nil {
		return err
	}

	f, err := os.Create(outputFor(inputName, outputName, ".txt"))
	if err != nil {
		return err
	}
	defer f.Close()

	for index, item := range items {
		fmt.Fprintf(f, "Sketch %d %s\n", index+1, item.Expected)
		fmt.Fprintf(f, " strokes:%d points:%d canvas:%dx%d\n",
			len(item.Sketch.Strokes), item.Sketch.NumPoints(), item.Sketch.Width, item.Sketch.Height)
		if item.Prediction != nil {
			fmt.Fprintf(f, " prediction:%s %.3f\n", item.Prediction.Label, item.Prediction.Confidence)
		}

		res, err := run(cfg, pipeline, item)
		if err != nil {
			fmt.Fprintf(f, " error: %v\n", err)
			continue
		}
		box := res.Location.Box
		fmt.Fprintf(f, " X:%d Y:%d W:%d H:%d\t area:%d components:%d fallback:%t\n",
			box.X, box.Y, box.Width, box.Height, res.Location.Area, res.Location.Components, res.Location.Fallback)
	}

	return nil
}

func stage(cfg *config.Config, inputName, outputName, name string) error {
	items, err := readItems(cfg, inputName)
	if err != nil {
		return err
	}
	pipeline, err := preprocess.New(cfg.Params())
	if err != nil {
		return err
	}

	output := outputFor(inputName, outputName, "."+name+".png")
	for index, item := range items {
		res, err := run(cfg, pipeline, item)
		if err != nil {
			return fmt.Errorf("sketch %d: %w", index+1, err)
		}
		img, err := res.Stage(name)
		if err != nil {
			return err
		}

		path := output
		if len(items) > 1 {
			path = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(output, ".png"), index+1, ".png")
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("can't create outputfile %w", err)
		}
		err = png.Encode(f, preprocess.Upscale(img, 4))
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func convert(cfg *config.Config, inputName, outputName string) error {
	items, err := readItems(cfg, inputName)
	if err != nil {
		return err
	}
	pipeline, err := preprocess.New(cfg.Params())
	if err != nil {
		return err
	}

	pages := make([]annotations.Page, 0, len(items))
	for _, item := range items {
		page := annotations.Page{Title: item.Expected, Sketch: item.Sketch, Prediction: item.Prediction}
		if res, err := run(cfg, pipeline, item); err == nil {
			page.Tensor = preprocess.Upscale(preprocess.Denormalize(res.Tensor), 2)
		}
		pages = append(pages, page)
	}

	options := annotations.PdfGeneratorOptions{
		AddPageNumbers: true,
	}
	gen := annotations.CreatePdfGenerator(outputFor(inputName, outputName, ".pdf"), options)
	return gen.Generate(pages)
}
