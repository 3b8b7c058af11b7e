package main

import (
	"bytes"
	"strings"
	"testing"
)

type mockApp struct {
	opts   AppOptions
	called map[string]bool
}

func newMockApp() *mockApp {
	return &mockApp{called: make(map[string]bool)}
}

func (m *mockApp) ApplyOptions(opts AppOptions) { m.opts = opts }
func (m *mockApp) RunRefine()                   { m.called["RunRefine"] = true }
func (m *mockApp) RunRooms()                    { m.called["RunRooms"] = true }
func (m *mockApp) RunRender()                   { m.called["RunRender"] = true }
func (m *mockApp) RunService()                  { m.called["RunService"] = true }

func TestRun_Flags(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		expectedCalled string
		verifyOpts     func(*testing.T, AppOptions)
	}{
		{
			name:           "Refine",
			args:           []string{"--refine", "--input", "plan.json", "--output", "out.json"},
			expectedCalled: "RunRefine",
			verifyOpts: func(t *testing.T, opts AppOptions) {
				if opts.InputFile != "plan.json" {
					t.Errorf("expected InputFile plan.json, got %s", opts.InputFile)
				}
				if opts.OutputFile != "out.json" {
					t.Errorf("expected OutputFile out.json, got %s", opts.OutputFile)
				}
			},
		},
		{
			name:           "RefineLightPreset",
			args:           []string{"--refine", "--light", "--input", "plan.json", "--result", "result.json"},
			expectedCalled: "RunRefine",
			verifyOpts: func(t *testing.T, opts AppOptions) {
				if !opts.LightPreset {
					t.Error("expected LightPreset true")
				}
				if opts.ResultFile != "result.json" {
					t.Errorf("expected ResultFile result.json, got %s", opts.ResultFile)
				}
			},
		},
		{
			name:           "Rooms",
			args:           []string{"--rooms", "--input", "plan.json", "--refined=false", "--apply"},
			expectedCalled: "RunRooms",
			verifyOpts: func(t *testing.T, opts AppOptions) {
				if opts.UseRefined {
					t.Error("expected UseRefined false")
				}
				if !opts.ApplyRooms {
					t.Error("expected ApplyRooms true")
				}
				if !opts.DetectRooms {
					t.Error("expected DetectRooms true")
				}
			},
		},
		{
			name:           "Render",
			args:           []string{"--render", "--input", "plan.json", "--format", "png", "--grid-spacing", "50"},
			expectedCalled: "RunRender",
			verifyOpts: func(t *testing.T, opts AppOptions) {
				if opts.RenderFormat != "png" {
					t.Errorf("expected RenderFormat png, got %s", opts.RenderFormat)
				}
				if opts.GridSpacing != 50 {
					t.Errorf("expected GridSpacing 50, got %f", opts.GridSpacing)
				}
			},
		},
		{
			name:           "RenderBeatsRooms",
			args:           []string{"--render", "--rooms", "--input", "plan.json"},
			expectedCalled: "RunRender",
			verifyOpts: func(t *testing.T, opts AppOptions) {
				if !opts.DetectRooms {
					t.Error("expected DetectRooms true so the render includes rooms")
				}
			},
		},
		{
			name:           "MqttMode",
			args:           []string{"--mqtt", "--http", "--http-port", "9090"},
			expectedCalled: "RunService",
			verifyOpts: func(t *testing.T, opts AppOptions) {
				if !opts.MqttMode {
					t.Error("expected MqttMode true")
				}
				if !opts.HttpMode {
					t.Error("expected HttpMode true")
				}
				if opts.HttpPort != 9090 {
					t.Errorf("expected HttpPort 9090, got %d", opts.HttpPort)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newMockApp()
			var out bytes.Buffer
			err := run(tt.args, &out, app)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}

			if !app.called[tt.expectedCalled] {
				t.Errorf("expected %s to be called", tt.expectedCalled)
			}

			if tt.verifyOpts != nil {
				tt.verifyOpts(t, app.opts)
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	app := newMockApp()
	var out bytes.Buffer
	err := run([]string{"--help"}, &out, app)
	if err == nil {
		t.Error("expected error from --help, got nil")
	}
	if !strings.Contains(out.String(), "Usage of planweld") {
		t.Errorf("expected usage info in output, got: %s", out.String())
	}
}

func TestRun_Default(t *testing.T) {
	app := newMockApp()
	var out bytes.Buffer
	err := run([]string{}, &out, app)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(out.String(), "planweld version: "+Version) {
		t.Errorf("expected output to contain version, got: %s", out.String())
	}
	if !strings.Contains(out.String(), "segment cleanup") {
		t.Errorf("expected usage hints, got: %s", out.String())
	}
	if len(app.called) != 0 {
		t.Errorf("no mode flags should call nothing, got %v", app.called)
	}
}
