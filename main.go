package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// Version is set at build time via -ldflags
var Version = "dev"

// AppOptions carries the parsed CLI flags into the App.
type AppOptions struct {
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

// appRunner is the dispatch surface of App, split out so run() can be tested
// with a mock.
type appRunner interface {
	ApplyOptions(opts AppOptions)
	RunRefine()
	RunRooms()
	RunRender()
	RunService()
}

func run(args []string, out io.Writer, app appRunner) error {
	fs := flag.NewFlagSet("planweld", flag.ContinueOnError)
	fs.SetOutput(out)

	configFile := fs.String("config", "config.yaml", "Path to configuration file")
	inputFile := fs.String("input", "", "Input scene document (JSON)")
	outputFile := fs.String("output", "", "Output file (document, GeoJSON, or image depending on mode)")
	resultFile := fs.String("result", "", "Also write the raw refine result JSON to this path")

	refineMode := fs.Bool("refine", false, "Run the segment cleanup pipeline on -input")
	lightMode := fs.Bool("light", false, "Use the light overlap-cleanup preset instead of the full pipeline")
	roomsMode := fs.Bool("rooms", false, "Run room detection on -input")
	useRefined := fs.Bool("refined", true, "Detect rooms on refined geometry (false = raw segments)")
	applyRooms := fs.Bool("apply", false, "Write detected rooms into the output document instead of GeoJSON")

	renderMode := fs.Bool("render", false, "Render a preview image of the input and its refinement")
	renderFormat := fs.String("format", "svg", "Render format: svg or png")
	gridSpacing := fs.Float64("grid-spacing", 25.0, "Preview grid line spacing in drawing pixels (0 disables)")

	mqttMode := fs.Bool("mqtt", false, "Run MQTT service mode for live document refinement")
	httpMode := fs.Bool("http", false, "Enable HTTP server for serving previews")
	httpPort := fs.Int("http-port", 8080, "HTTP server port (default 8080)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintf(out, "planweld version: %s\n", Version)

	app.ApplyOptions(AppOptions{
		ConfigFile:   *configFile,
		InputFile:    *inputFile,
		OutputFile:   *outputFile,
		ResultFile:   *resultFile,
		LightPreset:  *lightMode,
		UseRefined:   *useRefined,
		ApplyRooms:   *applyRooms,
		DetectRooms:  *roomsMode,
		RenderFormat: *renderFormat,
		GridSpacing:  *gridSpacing,
		HttpPort:     *httpPort,
		MqttMode:     *mqttMode,
		HttpMode:     *httpMode,
	})

	switch {
	case *renderMode:
		app.RunRender()
	case *roomsMode:
		app.RunRooms()
	case *refineMode:
		app.RunRefine()
	case *mqttMode || *httpMode:
		app.RunService()
	default:
		fmt.Fprintln(out, "planweld: floor plan segment cleanup and room inference")
		fmt.Fprintln(out, "Use -input plan.json -refine -output refined.json to clean up a drawing")
		fmt.Fprintln(out, "Use -input plan.json -rooms -output rooms.geojson to detect rooms")
		fmt.Fprintln(out, "Use -input plan.json -render -format svg to render a preview")
		fmt.Fprintln(out, "Use -mqtt to run MQTT service mode")
		fmt.Fprintln(out, "Use -http to run the HTTP preview server")
		fmt.Fprintln(out, "Use -mqtt -http to run both together")
		fmt.Fprintln(out, "\nConfiguration:")
		fmt.Fprintln(out, "  config.yaml - pipeline parameters, scale, and MQTT settings")
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, NewApp()); err != nil {
		os.Exit(2)
	}
}
