package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/tkrenz/planweld/plan"
)

// App encapsulates the application state and dependencies
type App struct {
	Config     *plan.Config
	MQTTClient *plan.MQTTClient
	Publisher  *plan.ResultPublisher

	// Last processed drawing, served by the HTTP preview endpoints.
	mu           sync.RWMutex
	lastSegments []plan.Segment
	lastResult   *plan.RefineResult
	lastRooms    []plan.RoomPolygon

	// CLI flags
	ConfigFile   string
	InputFile    string
	OutputFile   string
	ResultFile   string
	LightPreset  bool
	UseRefined   bool
	ApplyRooms   bool
	DetectRooms  bool
	RenderFormat string
	GridSpacing  float64
	HttpPort     int
	MqttMode     bool
	HttpMode     bool
}

// NewApp creates a new App instance
func NewApp() *App {
	return &App{}
}

// ApplyOptions applies CLI options to the App instance
func (a *App) ApplyOptions(opts AppOptions) {
	a.ConfigFile = opts.ConfigFile
	a.InputFile = opts.InputFile
	a.OutputFile = opts.OutputFile
	a.ResultFile = opts.ResultFile
	a.LightPreset = opts.LightPreset
	a.UseRefined = opts.UseRefined
	a.ApplyRooms = opts.ApplyRooms
	a.DetectRooms = opts.DetectRooms
	a.RenderFormat = opts.RenderFormat
	a.GridSpacing = opts.GridSpacing
	a.HttpPort = opts.HttpPort
	a.MqttMode = opts.MqttMode
	a.HttpMode = opts.HttpMode
}

// loadConfig loads the config file when it exists, otherwise the defaults.
func (a *App) loadConfig() *plan.Config {
	if a.Config != nil {
		return a.Config
	}
	if _, err := os.Stat(a.ConfigFile); err == nil {
		config, err := plan.LoadConfig(a.ConfigFile)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", a.ConfigFile, err)
		}
		if err := config.Validate(); err != nil {
			log.Fatalf("Invalid config %s: %v", a.ConfigFile, err)
		}
		log.Printf("Loaded config from %s", a.ConfigFile)
		a.Config = config
	} else {
		a.Config = plan.DefaultConfig()
	}
	return a.Config
}

// refineParams selects the configured pipeline parameters or the light
// overlap-cleanup preset.
func (a *App) refineParams() plan.RefineParams {
	if a.LightPreset {
		return plan.LightOverlapParams()
	}
	return a.loadConfig().Refine
}

// loadInput reads the input document and flattens it to segments.
func (a *App) loadInput() (*plan.Document, []plan.Segment) {
	if a.InputFile == "" {
		log.Fatal("No input document (use -input plan.json)")
	}
	doc, err := plan.LoadDocument(a.InputFile)
	if err != nil {
		log.Fatalf("Error loading %s: %v", a.InputFile, err)
	}
	config := a.loadConfig()
	segments := doc.Segments(config.LayerFilter())
	fmt.Printf("Loaded %s: %d items, %d segments\n", a.InputFile, len(doc.Items), len(segments))
	return doc, segments
}

// RunRefine runs the cleanup pipeline on the input document and writes the
// refined document and/or the raw result.
func (a *App) RunRefine() {
	doc, segments := a.loadInput()

	result := plan.Refine(segments, a.refineParams())
	fmt.Printf("Refined: %d replaced, %d closures, %d deleted (%d edits)\n",
		len(result.Replacements), len(result.Closures), len(result.Deletions), result.EditCount())

	if a.ResultFile != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("Error encoding result: %v", err)
		}
		if err := os.WriteFile(a.ResultFile, data, 0644); err != nil {
			log.Fatalf("Error writing %s: %v", a.ResultFile, err)
		}
		fmt.Printf("Wrote result: %s\n", a.ResultFile)
	}

	if a.OutputFile != "" {
		refined := doc.ApplyRefine(result)
		if err := refined.Save(a.OutputFile); err != nil {
			log.Fatalf("Error writing %s: %v", a.OutputFile, err)
		}
		fmt.Printf("Wrote refined document: %s\n", a.OutputFile)
	}

	if a.ResultFile == "" && a.OutputFile == "" {
		// Nothing else asked for; print the result to stdout.
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("Error encoding result: %v", err)
		}
		fmt.Println(string(data))
	}
}

// RunRooms detects rooms in the input document and writes them as GeoJSON,
// or appends them to the document when -apply is set.
func (a *App) RunRooms() {
	doc, segments := a.loadInput()
	config := a.loadConfig()

	roomInput := segments
	if a.UseRefined {
		result := plan.Refine(segments, a.refineParams())
		roomInput = plan.RefinedSegments(segments, result)
		fmt.Printf("Refined first: %d segments in, %d out\n", len(segments), len(roomInput))
	}

	rooms := plan.DetectRooms(roomInput, config.Rooms, config.Scale)
	fmt.Printf("Detected %d room(s)\n", len(rooms))
	for i, room := range rooms {
		fmt.Printf("  room %d: %.2f m²\n", i, config.Scale.AreaM2(room.AreaPx2))
	}

	if a.ApplyRooms {
		if a.OutputFile == "" {
			log.Fatal("-apply requires -output")
		}
		added := doc.AppendRooms(rooms)
		if err := doc.Save(a.OutputFile); err != nil {
			log.Fatalf("Error writing %s: %v", a.OutputFile, err)
		}
		fmt.Printf("Wrote document with %d room polygon(s): %s\n", added, a.OutputFile)
		return
	}

	fc := plan.RoomsToFeatureCollection(rooms, config.Scale)
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		log.Fatalf("Error encoding rooms: %v", err)
	}
	if a.OutputFile != "" {
		if err := os.WriteFile(a.OutputFile, data, 0644); err != nil {
			log.Fatalf("Error writing %s: %v", a.OutputFile, err)
		}
		fmt.Printf("Wrote rooms GeoJSON: %s\n", a.OutputFile)
	} else {
		fmt.Println(string(data))
	}
}

// RunRender renders a preview image of the input, its refinement, and the
// detected rooms.
func (a *App) RunRender() {
	_, segments := a.loadInput()
	config := a.loadConfig()

	result := plan.Refine(segments, a.refineParams())

	var rooms []plan.RoomPolygon
	if a.DetectRooms {
		rooms = plan.DetectRooms(plan.RefinedSegments(segments, result), config.Rooms, config.Scale)
		fmt.Printf("Detected %d room(s)\n", len(rooms))
	}

	renderer := plan.NewPreviewRenderer(segments, result, rooms, config.Scale)
	renderer.GridSpacingPx = a.GridSpacing

	format := a.RenderFormat
	if format != "svg" && format != "png" {
		log.Fatalf("Invalid format: %s (must be svg or png)", format)
	}

	outputPath := a.OutputFile
	if outputPath == "" {
		outputPath = "preview." + format
	} else if !strings.HasSuffix(outputPath, "."+format) {
		outputPath = strings.TrimSuffix(outputPath, ".svg")
		outputPath = strings.TrimSuffix(outputPath, ".png") + "." + format
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		log.Fatalf("Error creating output file %s: %v", outputPath, err)
	}
	defer func() {
		if err := outFile.Close(); err != nil {
			log.Printf("Warning: error closing output file %s: %v", outputPath, err)
		}
	}()

	if format == "svg" {
		err = renderer.RenderToSVG(outFile)
	} else {
		err = renderer.RenderToPNG(outFile)
	}
	if err != nil {
		log.Fatalf("Error rendering %s: %v", outputPath, err)
	}
	fmt.Printf("Created preview: %s\n", outputPath)
}

// RunService starts the combined MQTT and/or HTTP service
func (a *App) RunService() {
	fmt.Println("Starting planweld service...")

	config := a.loadConfig()

	// Seed the preview state from -input if given, so the HTTP endpoints
	// have something to serve before the first MQTT document arrives.
	if a.InputFile != "" {
		doc, err := plan.LoadDocument(a.InputFile)
		if err != nil {
			log.Printf("Warning: failed to load initial document %s: %v", a.InputFile, err)
		} else {
			a.processDocument("local", doc)
			fmt.Printf("Loaded initial document from %s\n", a.InputFile)
		}
	}

	if a.MqttMode {
		handler := func(sourceID string, doc *plan.Document, err error) {
			if err != nil {
				log.Printf("Error receiving document for %s: %v", sourceID, err)
				return
			}
			result, rooms := a.processDocument(sourceID, doc)

			if a.Publisher != nil {
				if err := a.Publisher.PublishResult(sourceID, result); err != nil {
					log.Printf("Error publishing result for %s: %v", sourceID, err)
				}
				if err := a.Publisher.PublishRooms(sourceID, rooms, config.Scale); err != nil {
					log.Printf("Error publishing rooms for %s: %v", sourceID, err)
				}
			}
		}

		mqttClient, err := plan.InitMQTT(config, handler)
		if err != nil {
			log.Fatalf("Failed to initialize MQTT: %v", err)
		}
		if mqttClient == nil {
			log.Fatal("MQTT broker not configured (set mqtt.broker in config.yaml or MQTT_BROKER)")
		}
		a.MQTTClient = mqttClient

		a.Publisher = plan.NewResultPublisher(mqttClient.GetClient(), config.MQTT.PublishPrefix)
		fmt.Println("MQTT result publisher initialized")
	}

	if a.HttpMode {
		httpServer := newHTTPServer(a)
		go func() {
			addr := fmt.Sprintf("0.0.0.0:%d", a.HttpPort)
			log.Printf("[HTTP] Starting server on %s", addr)
			if err := http.ListenAndServe(addr, httpServer); err != nil {
				log.Fatalf("[HTTP] Server error: %v", err)
			}
		}()
	}

	fmt.Println("\nService Running")
	fmt.Println("===============")

	if a.MqttMode {
		fmt.Println("\nMQTT:")
		fmt.Println("  Subscribed topics:")
		for _, src := range config.MQTT.Sources {
			fmt.Printf("    - %s (%s)\n", src.Topic, src.ID)
		}
		publishPrefix := config.MQTT.PublishPrefix
		if publishPrefix == "" {
			publishPrefix = "planweld"
		}
		fmt.Printf("  Publishing results to: %s/{sourceID}/result\n", publishPrefix)
		fmt.Printf("  Publishing rooms to:   %s/{sourceID}/rooms\n", publishPrefix)
	}

	if a.HttpMode {
		fmt.Printf("\nHTTP endpoints (port %d):\n", a.HttpPort)
		fmt.Println("  GET /health        - Health check")
		fmt.Println("  GET /preview.svg   - Vector preview of the last document")
		fmt.Println("  GET /preview.png   - Raster preview of the last document")
		fmt.Println("  GET /rooms.geojson - Detected rooms of the last document")
	}

	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	fmt.Println("\nShutting down service...")
	if a.MQTTClient != nil {
		a.MQTTClient.Disconnect()
	}
	fmt.Println("Service stopped")
}

// processDocument runs the full pipeline on a document and stores the
// outcome for the HTTP preview endpoints.
func (a *App) processDocument(sourceID string, doc *plan.Document) (*plan.RefineResult, []plan.RoomPolygon) {
	config := a.loadConfig()

	segments := doc.Segments(config.LayerFilter())
	result := plan.Refine(segments, a.refineParams())
	rooms := plan.DetectRooms(plan.RefinedSegments(segments, result), config.Rooms, config.Scale)

	log.Printf("%s: %d segments -> %d replaced, %d closures, %d deleted, %d room(s)",
		sourceID, len(segments),
		len(result.Replacements), len(result.Closures), len(result.Deletions), len(rooms))

	a.mu.Lock()
	a.lastSegments = segments
	a.lastResult = result
	a.lastRooms = rooms
	a.mu.Unlock()

	return result, rooms
}

// snapshot returns the last processed drawing for the HTTP endpoints.
func (a *App) snapshot() ([]plan.Segment, *plan.RefineResult, []plan.RoomPolygon) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastSegments, a.lastResult, a.lastRooms
}
