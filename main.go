package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/juruen/quickdraw/classifier"
	"github.com/juruen/quickdraw/config"
	"github.com/juruen/quickdraw/log"
	"github.com/juruen/quickdraw/predict"
	"github.com/juruen/quickdraw/preprocess"
	"github.com/juruen/quickdraw/shell"
)

func parseOfflineCommands(cmd []string) bool {
	if len(cmd) == 0 {
		return false
	}
	switch cmd[0] {
	case "version", "labels", "config", "render", "load", "ls", "save", "export", "token", "challenge":
		return true
	}
	return false
}

func main() {
	configPath := flag.String("config", "", "config file, defaults to $QUICKDRAW_CONFIG or the user config dir")
	serverMode := flag.Bool("server", false, "run as HTTP server")
	port := flag.Int("port", 0, "server port, overrides the config")
	jsonOutput := flag.Bool("json", false, "print results as JSON")
	flag.Parse()

	log.InitLog()

	path, required := *configPath, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: ", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pipeline, err := preprocess.New(cfg.Params())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: ", err)
		os.Exit(1)
	}

	labels, err := cfg.Labels(filepath.Dir(path))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: ", err)
		os.Exit(1)
	}

	args := flag.Args()
	needsClassifier := *serverMode || !parseOfflineCommands(args)

	var dispatcher *predict.Dispatcher
	if cfg.Classifier.URL != "" && needsClassifier {
		dispatcher, err = newDispatcher(cfg, pipeline, labels)
		if err != nil {
			log.Error.Printf("classifier: %v", err)
			if *serverMode {
				os.Exit(1)
			}
		}
	}

	if *serverMode {
		if dispatcher == nil {
			log.Error.Fatal("server mode needs a classifier, set classifier.url or QUICKDRAW_CLASSIFIER_URL")
		}
		runServerMode(cfg, dispatcher)
		return
	}

	ctx := &shell.ShellCtxt{
		Config:     cfg,
		Pipeline:   pipeline,
		Labels:     labels,
		Dispatcher: dispatcher,
		JSONOutput: *jsonOutput,
	}
	if err := shell.RunShell(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, "Error: ", err)
		os.Exit(1)
	}
}

func newDispatcher(cfg *config.Config, pipeline *preprocess.Pipeline, labels classifier.LabelSet) (*predict.Dispatcher, error) {
	httpClient := &http.Client{Timeout: cfg.Classifier.Timeout}

	ctx := context.Background()
	if cfg.Classifier.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Classifier.Timeout)
		defer cancel()
	}

	client, err := classifier.NewClient(ctx, cfg.Classifier.URL, cfg.Classifier.Model, httpClient)
	if err != nil {
		return nil, err
	}

	if meta := client.Metadata(); len(meta.Classes) > 0 && len(meta.Classes) != len(labels) {
		log.Warning.Printf("classifier reports %d classes, %d labels configured", len(meta.Classes), len(labels))
	}

	return predict.New(pipeline, client, labels,
		predict.WithConcurrency(cfg.Concurrency),
		predict.WithTimeout(cfg.Classifier.Timeout))
}
