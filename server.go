package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/juruen/quickdraw/auth"
	"github.com/juruen/quickdraw/config"
	"github.com/juruen/quickdraw/log"
	"github.com/juruen/quickdraw/model"
	"github.com/juruen/quickdraw/predict"
	"github.com/juruen/quickdraw/preprocess"
	"github.com/juruen/quickdraw/version"
)

const maxBodySize = 4 << 20

type ApiServer struct {
	cfg        *config.Config
	dispatcher *predict.Dispatcher
}

type ErrorResponse struct {
	Error string      `json:"error"`
	Data  interface{} `json:"data,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// DrawingRequest is the body of the drawing endpoints. Width and Height are
// the size of the canvas the points were captured on; zero means the
// configured canvas.
type DrawingRequest struct {
	Drawing []model.Point `json:"drawing"`
	Object  string        `json:"object"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
}

type RecognizeResponse struct {
	Prediction     string         `json:"prediction"`
	Confidence     float64        `json:"confidence"`
	ExpectedObject string         `json:"expected_object"`
	IsCorrect      bool           `json:"is_correct"`
	Ranked         []model.Ranked `json:"ranked"`
	Fallback       bool           `json:"fallback"`
}

func NewApiServer(cfg *config.Config, dispatcher *predict.Dispatcher) *ApiServer {
	return &ApiServer{cfg: cfg, dispatcher: dispatcher}
}

func (s *ApiServer) writeError(w http.ResponseWriter, status int, err error) {
	s.writeErrorData(w, status, err, nil)
}

func (s *ApiServer) writeErrorData(w http.ResponseWriter, status int, err error, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error(), Data: data})
}

func (s *ApiServer) writeSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SuccessResponse{Data: data})
}

// readDrawing decodes the request and maps its points onto the configured canvas.
func (s *ApiServer) readDrawing(w http.ResponseWriter, r *http.Request) (*DrawingRequest, []model.Point, bool) {
	var req DrawingRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %v", err))
		return nil, nil, false
	}
	if len(req.Drawing) == 0 {
		s.writeError(w, http.StatusBadRequest, errors.New("No drawing data provided"))
		return nil, nil, false
	}
	if req.Width < 0 || req.Height < 0 {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid canvas size %dx%d", req.Width, req.Height))
		return nil, nil, false
	}

	points := req.Drawing
	if req.Width > 0 && req.Height > 0 {
		points = preprocess.Scale(points, req.Width, req.Height, s.cfg.Canvas.Width, s.cfg.Canvas.Height)
	}
	return &req, points, true
}

// POST /api/recognize-drawing
func (s *ApiServer) handleRecognize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, points, ok := s.readDrawing(w, r)
	if !ok {
		return
	}

	out, err := s.dispatcher.Dispatch(r.Context(), points)
	switch {
	case errors.Is(err, predict.ErrEmptyInput):
		s.writeError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, predict.ErrClassifierFailure):
		log.Error.Printf("recognize-drawing: %v", err)
		s.writeErrorData(w, http.StatusBadGateway, err, recognizeResponse(req, out))
		return
	case err != nil:
		log.Error.Printf("recognize-drawing: %v", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := recognizeResponse(req, out)
	log.Info.Printf("recognize-drawing: expected %q, predicted %q (%.3f)", req.Object, resp.Prediction, resp.Confidence)
	s.writeSuccess(w, resp)
}

func recognizeResponse(req *DrawingRequest, out *predict.Outcome) RecognizeResponse {
	pred := model.Unknown()
	fallback := false
	if out != nil {
		if out.Prediction != nil {
			pred = out.Prediction
		}
		fallback = out.Preprocess.Location.Fallback
	}
	return RecognizeResponse{
		Prediction:     pred.Label,
		Confidence:     pred.Confidence,
		ExpectedObject: req.Object,
		IsCorrect:      predict.Check(pred, req.Object),
		Ranked:         pred.Ranked,
		Fallback:       fallback,
	}
}

// POST /api/preprocess?stage=<stage>&scale=<n>
func (s *ApiServer) handlePreprocess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	stage := query.Get("stage")
	if stage == "" {
		stage = "tensor"
	}
	scale := 1
	if v := query.Get("scale"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 16 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid scale %q", v))
			return
		}
		scale = n
	}

	_, points, ok := s.readDrawing(w, r)
	if !ok {
		return
	}

	res, err := s.dispatcher.Pipeline().Run(points)
	if errors.Is(err, preprocess.ErrEmptyInput) {
		s.writeError(w, http.StatusBadRequest, err)
		return
	} else if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	img, err := res.Stage(stage)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if scale > 1 {
		img = preprocess.Upscale(img, scale)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Content-Box", fmt.Sprintf("%d,%d,%d,%d",
		res.Location.Box.X, res.Location.Box.Y, res.Location.Box.Width, res.Location.Box.Height))
	w.Header().Set("X-Content-Fallback", strconv.FormatBool(res.Location.Fallback))
	if err := png.Encode(w, img); err != nil {
		log.Error.Printf("preprocess: failed to encode png: %v", err)
	}
}

// GET /api/model-info
func (s *ApiServer) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	shape := s.dispatcher.InputShape()
	pipelineShape := s.dispatcher.Pipeline().Shape()
	s.writeSuccess(w, map[string]interface{}{
		"input_shape":    shape[:],
		"pipeline_shape": pipelineShape[:],
		"classes":        s.dispatcher.Labels(),
		"num_classes":    len(s.dispatcher.Labels()),
		"canvas":         s.cfg.Canvas,
	})
}

// GET /api/random-object
func (s *ApiServer) handleRandomObject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeSuccess(w, map[string]string{
		"object":   s.dispatcher.Labels().Random(),
		"round_id": uuid.New().String(),
	})
}

// GET /api/version
func (s *ApiServer) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeSuccess(w, map[string]string{"version": version.Version})
}

func (s *ApiServer) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/api/recognize-drawing", s.handleRecognize)
	api.HandleFunc("/api/preprocess", s.handlePreprocess)
	api.HandleFunc("/api/model-info", s.handleModelInfo)
	api.HandleFunc("/api/random-object", s.handleRandomObject)
	api.HandleFunc("/api/version", s.handleVersion)

	mux := http.NewServeMux()
	mux.Handle("/api/", auth.Middleware([]byte(s.cfg.Server.AuthSecret), api))

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Root endpoint with API documentation
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
	<title>quickdraw REST API</title>
</head>
<body>
	<h1>quickdraw REST API</h1>
	<h2>Endpoints:</h2>
	<ul>
		<li>POST /api/recognize-drawing - Classify a drawing</li>
		<li>POST /api/preprocess - Render a pipeline stage as PNG</li>
		<li>GET /api/model-info - Model input shape and classes</li>
		<li>GET /api/random-object - Pick an object to draw</li>
		<li>GET /api/version - Get version</li>
	</ul>
</body>
</html>
		`)
	})

	return mux
}

func runServerMode(cfg *config.Config, dispatcher *predict.Dispatcher) {
	server := NewApiServer(cfg, dispatcher)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info.Printf("Starting HTTP server on port %d", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil {
		log.Error.Fatalf("Server failed: %v", err)
	}
}
