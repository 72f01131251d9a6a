package main

import (
	"crypto/tls"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"agrisense/chat"
	"agrisense/crop"
	"agrisense/db"
	"agrisense/metrics"
	"agrisense/rainfall"
	"agrisense/utils"

	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type apiError struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

type recommendResponse struct {
	Status string `json:"status"`
	crop.Summary
}

type healthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	ModelStatus string `json:"model_status"`
}

const (
	serviceName         = "AgriSense — Crop Recommendation API"
	modelNotLoadedMsg   = "ML model is not loaded. Please run the train_model command to train and save the model before starting the API."
	validationFailedMsg = "Input validation failed."
	notFoundMsg         = "Endpoint not found. Use POST /api/recommend."
	methodNotAllowedMsg = "Method not allowed. The /api/recommend endpoint accepts POST only."
	internalErrorMsg    = "An unexpected error occurred."
)

func writeJSON(w http.ResponseWriter, endpoint string, status int, payload interface{}) {
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode JSON response: %v", err)
	}
	metrics.RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

func writeJSONError(w http.ResponseWriter, endpoint string, status int, message string) {
	writeJSON(w, endpoint, status, apiError{Status: "error", Message: message})
}

func corsHeaders(w http.ResponseWriter, methods string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Allow-Methods", methods)
	w.Header().Set("Access-Control-Allow-Credentials", "true")
}

// newHealthHandler serves the "/" health check and turns every unknown
// path into a JSON 404 instead of the default HTML page.
func newHealthHandler(rc *recommender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		corsHeaders(w, "GET, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if r.URL.Path != "/" {
			writeJSONError(w, "404", http.StatusNotFound, notFoundMsg)
			return
		}

		if r.Method != http.MethodGet {
			writeJSONError(w, "/", http.StatusMethodNotAllowed, methodNotAllowedMsg)
			return
		}

		modelStatus := "not loaded"
		if rc.modelLoaded() {
			modelStatus = "loaded"
		}
		writeJSON(w, "/", http.StatusOK, healthResponse{
			Status:      "ok",
			Service:     serviceName,
			ModelStatus: modelStatus,
		})
	}
}

func newRecommendHandler(rc *recommender) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		corsHeaders(w, "POST, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if r.Method != http.MethodPost {
			writeJSONError(w, "/api/recommend", http.StatusMethodNotAllowed, methodNotAllowedMsg)
			return
		}

		// Never let a pipeline bug escape as an HTML 500.
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic in recommend handler", slog.Any("panic", rec))
				writeJSONError(w, "/api/recommend", http.StatusInternalServerError, internalErrorMsg)
			}
		}()

		if !rc.modelLoaded() {
			writeJSONError(w, "/api/recommend", http.StatusServiceUnavailable, modelNotLoadedMsg)
			return
		}

		var payload map[string]any
		decoder := json.NewDecoder(r.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&payload); err != nil {
			payload = nil // validation reports the malformed body
		}

		summary, validationErrs, err := rc.Analyze(ctx, payload)
		if len(validationErrs) > 0 {
			writeJSON(w, "/api/recommend", http.StatusBadRequest, apiError{
				Status:  "error",
				Message: validationFailedMsg,
				Errors:  validationErrs,
			})
			return
		}
		if err != nil {
			utils.LogError(ctx, "recommendation pipeline failed", err)
			writeJSONError(w, "/api/recommend", http.StatusInternalServerError, internalErrorMsg)
			return
		}

		writeJSON(w, "/api/recommend", http.StatusOK, recommendResponse{
			Status:  "success",
			Summary: *summary,
		})
	}
}

type adviceRequest struct {
	Message string         `json:"message"`
	Reading map[string]any `json:"reading,omitempty"`
}

type adviceResponse struct {
	Status string `json:"status"`
	Advice string `json:"advice"`
}

// newAdviceHandler forwards a question, optionally grounded on a fresh
// recommendation for the supplied reading, to the agronomy assistant.
func newAdviceHandler(rc *recommender, advisor *chat.GeminiClient) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		corsHeaders(w, "POST, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if r.Method != http.MethodPost {
			writeJSONError(w, "/api/advice", http.StatusMethodNotAllowed, methodNotAllowedMsg)
			return
		}

		if advisor == nil {
			writeJSONError(w, "/api/advice", http.StatusServiceUnavailable, "Advice service is not configured. Set GEMINI_API_KEY to enable it.")
			return
		}

		var req adviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
			writeJSONError(w, "/api/advice", http.StatusBadRequest, "A non-empty 'message' field is required.")
			return
		}

		var summary *crop.Summary
		if req.Reading != nil && rc.modelLoaded() {
			if s, validationErrs, err := rc.Analyze(ctx, req.Reading); err == nil && len(validationErrs) == 0 {
				summary = s
			}
		}

		advice, err := advisor.GenerateAdvice(req.Message, summary)
		if err != nil {
			logger.ErrorContext(ctx, "advice generation failed", slog.Any("error", err))
			writeJSONError(w, "/api/advice", http.StatusInternalServerError, internalErrorMsg)
			return
		}

		writeJSON(w, "/api/advice", http.StatusOK, adviceResponse{Status: "success", Advice: advice})
	}
}

func serve(protocol, port string) {
	protocol = strings.ToLower(protocol)
	var allowOriginFunc = func(r *http.Request) bool {
		return true
	}

	modelPath := utils.GetEnv("CROP_MODEL_PATH", filepath.Join("model", "crop_model.json"))
	scalerPath := utils.GetEnv("CROP_SCALER_PATH", filepath.Join("model", "scaler.json"))
	neighbourCountStr := utils.GetEnv("CROP_MODEL_K", strconv.Itoa(crop.DefaultNeighbourCount))
	k, err := strconv.Atoi(neighbourCountStr)
	if err != nil {
		log.Fatalf("invalid CROP_MODEL_K value '%s': %v", neighbourCountStr, err)
	}

	// A missing model is not fatal: the API starts and answers 503 on
	// /api/recommend until artifacts are trained.
	engine, err := crop.LoadEngine(modelPath, scalerPath, k)
	if err != nil {
		log.Printf("WARNING: failed to load model artifacts: %v", err)
		log.Println("The server will start but /api/recommend will return 503 until the model is trained.")
		engine = nil
	} else {
		stats := engine.Stats()
		log.Printf("Loaded %d prototypes across %d crops from %s", stats.PrototypeCount, stats.CropCount, modelPath)
	}

	var weather rainfall.WeatherSource
	if apiKey := utils.GetEnv("WEATHER_API_KEY", ""); apiKey != "" {
		weather = rainfall.NewOWMClient(apiKey)
	} else {
		log.Println("WEATHER_API_KEY not set, rainfall estimation will skip the weather tier")
	}

	var climatology rainfall.ClimatologyStore
	dbClient, err := db.NewDBClient()
	if err != nil {
		log.Printf("WARNING: climatology database unavailable: %v", err)
	} else {
		defer dbClient.Close()
		climatology = dbClient
	}

	estimator := rainfall.NewEstimator(weather, climatology)
	rc := newRecommender(engine, estimator)

	var advisor *chat.GeminiClient
	if advisor, err = chat.NewGeminiClient(); err != nil {
		log.Printf("Advice endpoint disabled: %v", err)
		advisor = nil
	}

	server := socketio.NewServer(&engineio.Options{
		PingTimeout:  60 * time.Second,
		PingInterval: 25 * time.Second,
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: allowOriginFunc,
			},
			&polling.Transport{
				CheckOrigin: allowOriginFunc,
			},
		},
	})

	controller := newSocketController(rc)

	server.OnConnect("/", func(socket socketio.Conn) error {
		socket.SetContext("")
		log.Printf("CONNECTED: %s, remote addr: %s\n", socket.ID(), socket.RemoteAddr())
		controller.emitModelInfo(socket)
		return nil
	})

	server.OnEvent("/", "requestModelInfo", func(socket socketio.Conn) {
		controller.emitModelInfo(socket)
	})

	server.OnEvent("/", "newReading", func(socket socketio.Conn, msg string) {
		// Run handler in goroutine to prevent blocking, with panic recovery
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("panic in handleNewReading for socket %s: %v\n", socket.ID(), r)
					socket.Emit("analysisError", map[string]string{"message": internalErrorMsg})
				}
			}()
			controller.handleNewReading(socket, msg)
		}()
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.Println("meet error:", e)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Printf("Socket disconnected - ID: %s, Reason: %s\n", s.ID(), reason)
	})

	go func() {
		if err := server.Serve(); err != nil {
			log.Fatalf("socketio listen error: %s\n", err)
		}
	}()
	defer server.Close()

	serveHTTPS := protocol == "https"

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server)
	mux.HandleFunc("/api/recommend", newRecommendHandler(rc))
	mux.HandleFunc("/api/advice", newAdviceHandler(rc, advisor))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", newHealthHandler(rc))

	serveHTTP(server, serveHTTPS, port, mux)
}

func serveHTTP(socketServer *socketio.Server, serveHTTPS bool, port string, handler http.Handler) {
	if handler == nil {
		handler = socketServer
	}
	if serveHTTPS {
		httpsAddr := ":" + port
		httpsServer := &http.Server{
			Addr: httpsAddr,
			TLSConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			Handler: handler,
		}

		certKey := utils.GetEnv("CERT_KEY", "")
		certFile := utils.GetEnv("CERT_FILE", "")
		if certKey == "" || certFile == "" {
			log.Fatal("Missing cert")
		}

		log.Printf("Starting HTTPS server on %s\n", httpsAddr)
		if err := httpsServer.ListenAndServeTLS(certFile, certKey); err != nil {
			log.Fatalf("HTTPS server ListenAndServeTLS: %v", err)
		}
	}

	log.Printf("Starting HTTP server on port %v", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("HTTP server ListenAndServe: %v", err)
	}
}
