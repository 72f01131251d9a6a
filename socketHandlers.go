package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"agrisense/crop"
	"agrisense/utils"

	socketio "github.com/googollee/go-socket.io"
	"github.com/mdobak/go-xerrors"
)

// socketController feeds live sensor readings through the same pipeline
// the HTTP handler uses and pushes results back over the socket.
type socketController struct {
	rc *recommender
}

func newSocketController(rc *recommender) *socketController {
	return &socketController{rc: rc}
}

func (c *socketController) emitModelInfo(socket socketio.Conn) {
	if !c.rc.modelLoaded() {
		socket.Emit("modelInfo", crop.ModelStats{})
		return
	}
	socket.Emit("modelInfo", c.rc.engine.Stats())
}

func (c *socketController) handleNewReading(socket socketio.Conn, readingData string) {
	logger := utils.GetLogger()
	ctx := context.Background()

	if readingData == "" {
		logger.ErrorContext(ctx, "no data received in newReading event",
			slog.String("socketID", socket.ID()))
		socket.Emit("analysisError", map[string]string{"message": "no sensor data received"})
		return
	}

	if !c.rc.modelLoaded() {
		socket.Emit("analysisError", map[string]string{"message": modelNotLoadedMsg})
		return
	}

	var payload map[string]any
	decoder := json.NewDecoder(strings.NewReader(readingData))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		payload = nil // validation reports the malformed payload
	}

	summary, validationErrs, err := c.rc.Analyze(ctx, payload)
	if len(validationErrs) > 0 {
		socket.Emit("analysisError", map[string]any{
			"message": validationFailedMsg,
			"errors":  validationErrs,
		})
		return
	}
	if err != nil {
		err := xerrors.New(err)
		logger.ErrorContext(ctx, "socket recommendation failed", slog.Any("error", err))
		socket.Emit("analysisError", map[string]string{"message": internalErrorMsg})
		return
	}

	logger.InfoContext(ctx, "served socket recommendation",
		slog.String("socketID", socket.ID()),
		slog.String("topCrop", summary.Recommendations[0].Crop),
		slog.Float64("latencyMs", summary.LatencyMs),
	)
	socket.Emit("recommendation", summary)
}
