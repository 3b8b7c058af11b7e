package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/tkrenz/planweld/plan"
)

// newHTTPServer creates an HTTP server with all endpoints
func newHTTPServer(a *App) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		segments, _, _ := a.snapshot()
		w.Header().Set("Content-Type", "application/json")
		status := struct {
			Status      string    `json:"status"`
			Timestamp   time.Time `json:"timestamp"`
			HasDocument bool      `json:"hasDocument"`
			MQTT        bool      `json:"mqttConnected"`
		}{
			Status:      "ok",
			Timestamp:   time.Now(),
			HasDocument: len(segments) > 0,
			MQTT:        a.MQTTClient != nil && a.MQTTClient.IsConnected(),
		}
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("Error encoding health status: %v", err)
		}
	})

	// Vector preview of the last processed document
	mux.HandleFunc("/preview.svg", func(w http.ResponseWriter, r *http.Request) {
		renderer, ok := a.previewRenderer()
		if !ok {
			http.Error(w, "No document processed yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-cache")
		if err := renderer.RenderToSVG(w); err != nil {
			log.Printf("Error encoding preview SVG: %v", err)
		}
	})

	// Raster preview of the last processed document
	mux.HandleFunc("/preview.png", func(w http.ResponseWriter, r *http.Request) {
		renderer, ok := a.previewRenderer()
		if !ok {
			http.Error(w, "No document processed yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		if err := renderer.RenderToPNG(w); err != nil {
			log.Printf("Error encoding preview PNG: %v", err)
		}
	})

	// Detected rooms of the last processed document
	mux.HandleFunc("/rooms.geojson", func(w http.ResponseWriter, r *http.Request) {
		segments, _, rooms := a.snapshot()
		if len(segments) == 0 {
			http.Error(w, "No document processed yet", http.StatusServiceUnavailable)
			return
		}
		fc := plan.RoomsToFeatureCollection(rooms, a.loadConfig().Scale)
		w.Header().Set("Content-Type", "application/geo+json")
		w.Header().Set("Cache-Control", "no-cache")
		if err := json.NewEncoder(w).Encode(fc); err != nil {
			log.Printf("Error encoding rooms GeoJSON: %v", err)
		}
	})

	// Default route serves HTML page embedding the SVG preview
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = fmt.Fprint(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>planweld</title>
<style>
*{margin:0;padding:0;box-sizing:border-box}
html,body{width:100%;height:100%;overflow:hidden;background:#1a1a1a}
img{display:block;width:100vw;height:100vh;object-fit:contain}
</style>
</head>
<body>
<img src="/preview.svg" alt="Plan Preview">
</body>
</html>`)
	})

	// Wrap mux with logging middleware
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[HTTP] %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
		mux.ServeHTTP(w, r)
	})
}

// previewRenderer builds a renderer over the last processed drawing.
func (a *App) previewRenderer() (*plan.PreviewRenderer, bool) {
	segments, result, rooms := a.snapshot()
	if len(segments) == 0 || result == nil {
		return nil, false
	}
	renderer := plan.NewPreviewRenderer(segments, result, rooms, a.loadConfig().Scale)
	if a.GridSpacing > 0 {
		renderer.GridSpacingPx = a.GridSpacing
	}
	return renderer, true
}
