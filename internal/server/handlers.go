package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/photoflow/internal/format"
	"github.com/ironsheep/photoflow/internal/imaging"
	"github.com/ironsheep/photoflow/internal/viewer"
)

// ToolCallParams represents the parameters for a tools/call request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "photo_open_directory").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall runs a tool and wraps its result in the content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool failures are reported as a JSON-RPC error with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		log.Info().Err(err).Str("tool", params.Name).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return resultResponse(req.ID, map[string]interface{}{
		"content": []textContent{{Type: "text", Text: mustMarshalJSON(result)}},
	})
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Browsing
	case "photo_open_directory":
		return s.handleOpenDirectory(ctx, args)
	case "photo_select":
		return s.handleSelect(ctx, args)
	case "photo_next":
		return s.navigate(ctx, viewer.NextPhoto{})
	case "photo_previous":
		return s.navigate(ctx, viewer.PreviousPhoto{})
	case "photo_current":
		return currentResult(s.app.Snapshot()), nil

	// Inspection
	case "photo_detect_format":
		return s.handleDetectFormat(args)
	case "photo_info":
		return s.handleInfo(args)
	case "photo_sample_color":
		return s.handleSampleColor(args)
	case "photo_export":
		return s.handleExport(args)

	// Cache
	case "cache_stats":
		return s.handleCacheStats(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

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

func mustMarshalJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": "failed to marshal result: %s"}`, err)
	}
	return string(data)
}

// decodeArgs unmarshals tool arguments. Missing arguments leave v unchanged.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// navigationResult describes the viewer after a browsing tool has settled.
type navigationResult struct {
	Index   int               `json:"index"`
	Count   int               `json:"count"`
	Photo   *viewer.PhotoView `json:"photo,omitempty"`
	Loading int               `json:"loading"`
	Error   string            `json:"error,omitempty"`
}

func currentResult(state viewer.State) *navigationResult {
	res := &navigationResult{
		Index:   state.Current,
		Count:   len(state.Photos),
		Loading: state.Loading,
		Error:   state.Error,
	}
	if p, ok := state.CurrentPhoto(); ok {
		res.Photo = &p
	}
	return res
}

// navigate dispatches msg and waits for the viewer to finish the work it
// caused, including the decode of the newly selected photo.
func (s *Server) navigate(ctx context.Context, msg viewer.Msg) (*navigationResult, error) {
	s.app.Dispatch(msg)

	ctx, cancel := context.WithTimeout(ctx, s.settleTimeout)
	defer cancel()
	if err := s.app.Settled(ctx); err != nil {
		return nil, fmt.Errorf("viewer did not settle: %w", err)
	}
	return currentResult(s.app.Snapshot()), nil
}

type openDirectoryArgs struct {
	Dir string `json:"dir"`
}

func (s *Server) handleOpenDirectory(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a openDirectoryArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Dir == "" {
		return nil, errors.New("dir is required")
	}

	res, err := s.navigate(ctx, viewer.LoadDirectory{Dir: a.Dir})
	if err != nil {
		return nil, err
	}

	state := s.app.Snapshot()
	return &openDirectoryResult{navigationResult: *res, Photos: state.Photos}, nil
}

type openDirectoryResult struct {
	navigationResult
	Photos []viewer.PhotoView `json:"photos"`
}

type selectArgs struct {
	Index *int `json:"index"`
}

func (s *Server) handleSelect(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a selectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Index == nil {
		return nil, errors.New("index is required")
	}
	if count := len(s.app.Snapshot().Photos); *a.Index < 0 || *a.Index >= count {
		return nil, fmt.Errorf("index %d out of range (0-%d)", *a.Index, count-1)
	}
	return s.navigate(ctx, viewer.PhotoSelected{Index: *a.Index})
}

type pathArgs struct {
	Path string `json:"path"`
}

type detectFormatResult struct {
	Path   string           `json:"path"`
	Format format.ImageType `json:"format"`
	Raw    bool             `json:"raw"`
}

func (s *Server) handleDetectFormat(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	kind, err := format.Detect(a.Path)
	if err != nil {
		return nil, err
	}
	return &detectFormatResult{Path: a.Path, Format: kind, Raw: kind.IsRaw()}, nil
}

func (s *Server) handleInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// image returns the decoded pixels of path, or of the viewer's current photo
// when path is empty.
func (s *Server) image(path string) (string, *imaging.DecodedImage, error) {
	if path != "" {
		img, err := s.cache.GetOrDecode(path)
		return path, img, err
	}

	current, img, ok := s.app.CurrentImage()
	if !ok {
		if current == "" {
			return "", nil, errors.New("no photo selected")
		}
		return "", nil, fmt.Errorf("current photo %s is not loaded", current)
	}
	return current, img, nil
}

type samplePoint struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Radius int    `json:"radius"`
	Label  string `json:"label"`
}

type sampleColorArgs struct {
	Path   string        `json:"path"`
	X      *int          `json:"x"`
	Y      *int          `json:"y"`
	Radius int           `json:"radius"`
	Points []samplePoint `json:"points"`
}

type sampleColorResult struct {
	Path string `json:"path"`
	*imaging.ColorResult
}

type sampleColorsResult struct {
	Path string `json:"path"`
	*imaging.MultiColorResult
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Points) == 0 && (a.X == nil || a.Y == nil) {
		return nil, errors.New("x and y, or points, are required")
	}

	path, img, err := s.image(a.Path)
	if err != nil {
		return nil, err
	}

	if len(a.Points) > 0 {
		points := make([]imaging.LabeledPoint, len(a.Points))
		for i, p := range a.Points {
			points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Radius: p.Radius, Label: p.Label}
		}
		res, err := imaging.SampleColorsMulti(img, points)
		if err != nil {
			return nil, err
		}
		return &sampleColorsResult{Path: path, MultiColorResult: res}, nil
	}

	res, err := imaging.SampleArea(img, *a.X, *a.Y, a.Radius)
	if err != nil {
		return nil, err
	}
	return &sampleColorResult{Path: path, ColorResult: res}, nil
}

type exportArgs struct {
	Path      string  `json:"path"`
	Output    string  `json:"output"`
	Scale     float64 `json:"scale"`
	MaxWidth  int     `json:"max_width"`
	MaxHeight int     `json:"max_height"`
}

type exportResult struct {
	Source string `json:"source"`
	*imaging.ExportResult
}

func (s *Server) handleExport(args json.RawMessage) (interface{}, error) {
	a := exportArgs{Scale: 1.0}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, errors.New("output is required")
	}

	source, img, err := s.image(a.Path)
	if err != nil {
		return nil, err
	}

	if a.MaxWidth > 0 || a.MaxHeight > 0 {
		w, h := a.MaxWidth, a.MaxHeight
		if w <= 0 {
			w = img.Width
		}
		if h <= 0 {
			h = img.Height
		}
		if img, err = imaging.Thumbnail(img, w, h); err != nil {
			return nil, err
		}
	}

	res, err := imaging.Export(img, a.Output, a.Scale)
	if err != nil {
		return nil, err
	}
	return &exportResult{Source: source, ExportResult: res}, nil
}

type cacheStatsArgs struct {
	Clear bool   `json:"clear"`
	Evict string `json:"evict"`
}

func (s *Server) handleCacheStats(args json.RawMessage) (interface{}, error) {
	var a cacheStatsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	if a.Evict != "" {
		s.cache.Evict(a.Evict)
	}
	if a.Clear {
		s.cache.Clear()
	}
	return s.cache.Stats(), nil
}
