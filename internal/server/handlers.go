package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/ironsheep/pov-bitmap-mcp/internal/imaging"
	"github.com/ironsheep/pov-bitmap-mcp/internal/ledmap"
	"github.com/ironsheep/pov-bitmap-mcp/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "led_convert_grid").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// Built-in settings used when no profile of the requested mode applies.
var (
	defaultGrid = ledmap.Settings{
		Mode:       ledmap.ModeGrid,
		Resolution: 16,
		Threshold:  ledmap.DefaultThreshold,
	}
	defaultPolar = ledmap.Settings{
		Mode:       ledmap.ModePolar,
		Resolution: 72,
		Divisions:  150,
		Threshold:  ledmap.DefaultThreshold,
	}
)

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.debug {
			log.Printf("tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "led_image_info":
		return s.handleImageInfo(args)

	// Conversion
	case "led_convert_grid":
		return s.handleConvert(args, ledmap.ModeGrid)
	case "led_convert_polar":
		return s.handleConvert(args, ledmap.ModePolar)
	case "led_convert_batch":
		return s.handleConvertBatch(args)
	case "led_pattern":
		return s.handlePattern(args)

	// Output
	case "led_render_code":
		return s.handleRenderCode(args)
	case "led_preview":
		return s.handlePreview(args)

	// Session and configuration
	case "led_session_list":
		return s.handleSessionList(args)
	case "led_session_clear":
		return s.handleSessionClear(args)
	case "led_profiles":
		return s.handleProfiles(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Information ===

type imageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Conversion ===

// settingsArgs carries per-call overrides. Nil fields keep the profile value.
type settingsArgs struct {
	Profile        string   `json:"profile"`
	Resolution     *int     `json:"resolution"`
	NumLeds        *int     `json:"num_leds"`
	Divisions      *int     `json:"divisions"`
	Threshold      *int     `json:"threshold"`
	Invert         *bool    `json:"invert"`
	WorkingSize    *int     `json:"working_size"`
	Brightness     *float64 `json:"brightness"`
	LineShift      *int     `json:"line_shift"`
	Filter         *string  `json:"filter"`
	ToneBrightness *float64 `json:"tone_brightness"`
	Contrast       *float64 `json:"contrast"`
	Gamma          *float64 `json:"gamma"`
}

// resolveSettings starts from the named profile (or the configured default
// profile when it matches mode, or the built-in defaults) and applies the
// explicit overrides in a.
func (s *Server) resolveSettings(a settingsArgs, mode ledmap.Mode) (ledmap.Settings, error) {
	base := defaultGrid
	if mode == ledmap.ModePolar {
		base = defaultPolar
	}

	if p, ok := s.cfg.Profile(a.Profile); ok {
		switch {
		case p.Mode == mode:
			base = p.Settings
		case a.Profile != "":
			return ledmap.Settings{}, fmt.Errorf("profile %s is %s, not %s", a.Profile, p.Mode, mode)
		}
	} else if a.Profile != "" {
		return ledmap.Settings{}, fmt.Errorf("unknown profile: %s", a.Profile)
	}

	st := base
	if a.Resolution != nil {
		st.Resolution = *a.Resolution
	}
	if a.NumLeds != nil && mode == ledmap.ModePolar {
		st.Resolution = *a.NumLeds
	}
	if a.Divisions != nil {
		st.Divisions = *a.Divisions
	}
	if a.Threshold != nil {
		st.Threshold = *a.Threshold
	}
	if a.Invert != nil {
		st.Invert = *a.Invert
	}
	if a.WorkingSize != nil {
		st.WorkingSize = *a.WorkingSize
	}
	if a.Brightness != nil {
		st.Brightness = *a.Brightness
	}
	if a.LineShift != nil {
		st.LineShift = *a.LineShift
	}
	if a.Filter != nil {
		st.Filter = *a.Filter
	}
	if a.ToneBrightness != nil {
		st.Adjust.Brightness = *a.ToneBrightness
	}
	if a.Contrast != nil {
		st.Adjust.Contrast = *a.Contrast
	}
	if a.Gamma != nil {
		st.Adjust.Gamma = *a.Gamma
	}
	return st, st.Validate()
}

type convertArgs struct {
	Path string `json:"path"`
	Name string `json:"name"`
	settingsArgs
}

func (s *Server) handleConvert(args json.RawMessage, mode ledmap.Mode) (interface{}, error) {
	var a convertArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	st, err := s.resolveSettings(a.settingsArgs, mode)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	name := imaging.NameFromPath(a.Path)
	if a.Name != "" {
		name = imaging.SanitizeName(a.Name)
	}

	out, err := ledmap.Convert(name, img, st)
	if err != nil {
		return nil, err
	}
	s.session.Put(out)
	if s.debug {
		log.Printf("converted %s mode=%s bytes=%d", out.Name, out.Mode, out.TotalBytes)
	}
	return out, nil
}

type convertBatchArgs struct {
	Paths []string `json:"paths"`
	Mode  string   `json:"mode"`
	settingsArgs
}

// BatchEntry reports one image of a batch conversion.
type BatchEntry struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
	TotalBytes int    `json:"total_bytes,omitempty"`
}

// BatchResponse is the led_convert_batch result. Entries follow the order of
// the submitted paths.
type BatchResponse struct {
	Mode      string       `json:"mode"`
	Entries   []BatchEntry `json:"entries"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}

func (s *Server) handleConvertBatch(args json.RawMessage) (interface{}, error) {
	var a convertBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, errors.New("paths must not be empty")
	}

	mode := ledmap.ModeGrid
	if a.Mode != "" {
		m, err := ledmap.ParseMode(a.Mode)
		if err != nil {
			return nil, err
		}
		mode = m
	}
	st, err := s.resolveSettings(a.settingsArgs, mode)
	if err != nil {
		return nil, err
	}

	names := imaging.UniqueNames(a.Paths)
	items := make([]ledmap.BatchItem, len(a.Paths))
	for i, p := range a.Paths {
		img, err := s.cache.Load(p)
		items[i] = ledmap.BatchItem{Name: names[i], Image: img, Err: err}
	}

	results := ledmap.ConvertBatch(context.Background(), items, st, s.cfg.Workers)

	resp := &BatchResponse{Mode: mode.String(), Entries: make([]BatchEntry, len(results))}
	for i, r := range results {
		e := BatchEntry{Name: r.Name, Path: a.Paths[i]}
		if r.Err != nil {
			e.Error = r.Err.Error()
			resp.Failed++
		} else {
			e.OK = true
			e.TotalBytes = r.Image.TotalBytes
			s.session.Put(r.Image)
			resp.Succeeded++
		}
		resp.Entries[i] = e
	}
	if s.debug {
		log.Printf("batch mode=%s ok=%d failed=%d", resp.Mode, resp.Succeeded, resp.Failed)
	}
	return resp, nil
}

type patternArgs struct {
	Shape      string   `json:"shape"`
	Name       string   `json:"name"`
	NumLeds    int      `json:"num_leds"`
	Divisions  int      `json:"divisions"`
	Size       int      `json:"size"`
	Color      string   `json:"color"`
	Brightness *float64 `json:"brightness"`
}

func (s *Server) handlePattern(args json.RawMessage) (interface{}, error) {
	var a patternArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Shape == "" {
		a.Shape = string(ledmap.ShapeCircle)
	}
	if a.NumLeds == 0 {
		a.NumLeds = defaultPolar.Resolution
	}
	if a.Divisions == 0 {
		a.Divisions = defaultPolar.Divisions
	}
	if a.Size == 0 {
		a.Size = a.NumLeds * 3 / 8
	}
	if a.Color == "" {
		a.Color = "#00FFFF"
	}
	brightness := 0.5
	if a.Brightness != nil {
		brightness = *a.Brightness
	}

	c, err := imaging.ParseHexColor(a.Color)
	if err != nil {
		return nil, err
	}
	p, err := ledmap.Pattern(ledmap.PatternSpec{
		Shape:      ledmap.Shape(a.Shape),
		NumLeds:    a.NumLeds,
		Divisions:  a.Divisions,
		Size:       a.Size,
		Color:      c,
		Brightness: brightness,
	})
	if err != nil {
		return nil, err
	}

	name := a.Shape
	if a.Name != "" {
		name = a.Name
	}
	out := ledmap.NewPolarImage(imaging.SanitizeName(name), p)
	s.session.Put(out)
	return out, nil
}

// === Output ===

type renderCodeArgs struct {
	Format     string   `json:"format"`
	Names      []string `json:"names"`
	WithColors bool     `json:"with_colors"`
	ColorOrder string   `json:"color_order"`
}

// CodeResult is the led_render_code result.
type CodeResult struct {
	Format     string   `json:"format"`
	Images     []string `json:"images"`
	TotalBytes int      `json:"total_bytes"`
	Code       string   `json:"code"`
}

func (s *Server) handleRenderCode(args json.RawMessage) (interface{}, error) {
	var a renderCodeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	format, err := render.ParseFormat(a.Format)
	if err != nil {
		return nil, err
	}
	images, err := s.selectImages(a.Names)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, errors.New("no converted images in session")
	}

	code, err := render.CodeString(images, render.Options{
		Format:     format,
		WithColors: a.WithColors,
		Order:      render.ColorOrder(a.ColorOrder),
	})
	if err != nil {
		return nil, err
	}

	res := &CodeResult{Format: string(format), Code: code}
	for _, img := range images {
		res.Images = append(res.Images, img.Name)
		res.TotalBytes += img.TotalBytes
	}
	return res, nil
}

// selectImages returns the named session images in the given order, or the
// whole session when names is empty.
func (s *Server) selectImages(names []string) ([]*ledmap.ConvertedImage, error) {
	if len(names) == 0 {
		return s.session.List(), nil
	}
	out := make([]*ledmap.ConvertedImage, 0, len(names))
	for _, n := range names {
		img, ok := s.session.Get(n)
		if !ok {
			return nil, fmt.Errorf("no converted image named %s", n)
		}
		out = append(out, img)
	}
	return out, nil
}

type previewArgs struct {
	Name  string `json:"name"`
	Size  int    `json:"size"`
	Color bool   `json:"color"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, ok := s.session.Get(a.Name)
	if !ok {
		return nil, fmt.Errorf("no converted image named %s", a.Name)
	}
	if a.Size == 0 {
		a.Size = s.cfg.PreviewSize
	}
	return render.Preview(img, render.PreviewOptions{Size: a.Size, Color: a.Color})
}

// === Session and Configuration ===

// SessionEntry summarizes one stored image.
type SessionEntry struct {
	Name       string `json:"name"`
	Mode       string `json:"mode"`
	TotalBytes int    `json:"total_bytes"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	NumLeds    int    `json:"num_leds,omitempty"`
	Divisions  int    `json:"divisions,omitempty"`
}

func (s *Server) handleSessionList(_ json.RawMessage) (interface{}, error) {
	list := s.session.List()
	entries := make([]SessionEntry, len(list))
	for i, img := range list {
		e := SessionEntry{Name: img.Name, Mode: img.Mode.String(), TotalBytes: img.TotalBytes}
		if img.Grid != nil {
			e.Width, e.Height = img.Grid.Width, img.Grid.Height
		}
		if img.Polar != nil {
			e.NumLeds, e.Divisions = img.Polar.NumLeds, img.Polar.Divisions
		}
		entries[i] = e
	}
	return map[string]interface{}{"images": entries}, nil
}

type sessionClearArgs struct {
	Names []string `json:"names"`
}

func (s *Server) handleSessionClear(args json.RawMessage) (interface{}, error) {
	var a sessionClearArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	var removed int
	if len(a.Names) == 0 {
		removed = s.session.Clear()
		s.cache.Clear()
	} else {
		removed = s.session.Remove(a.Names...)
	}
	return map[string]interface{}{"removed": removed}, nil
}

// ProfileInfo describes one configured profile.
type ProfileInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Settings    ledmap.Settings `json:"settings"`
}

func (s *Server) handleProfiles(_ json.RawMessage) (interface{}, error) {
	names := s.cfg.ProfileNames()
	profiles := make([]ProfileInfo, 0, len(names))
	for _, n := range names {
		p := s.cfg.Profiles[n]
		profiles = append(profiles, ProfileInfo{Name: n, Description: p.Description, Settings: p.Settings})
	}
	return map[string]interface{}{
		"default_profile": s.cfg.DefaultProfile,
		"profiles":        profiles,
	}, nil
}
