package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App) *MCPServer {
	mcpServer := server.NewMCPServer(
		"ytkit-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	// search_videos tool
	s.mcpServer.AddTool(mcp.NewTool("search_videos",
		mcp.WithDescription("Search YouTube videos by free-text query. Returns a numbered list with title, URL, upload date, duration, and view count."),
		mcp.WithString("query",
			mcp.Description("Search query"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 10)"),
		),
	), s.handleSearchVideos)

	// get_channel_videos tool
	s.mcpServer.AddTool(mcp.NewTool("get_channel_videos",
		mcp.WithDescription("List a YouTube channel's videos through a local cache. By default only videos newer than the cache are fetched and appended; cached videos are never dropped. Returns JSON records."),
		mcp.WithString("channel_url",
			mcp.Description("YouTube channel URL, e.g. https://www.youtube.com/@somechannel"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of records returned (0 returns all); the cache always keeps the full listing"),
		),
		mcp.WithBoolean("force_update",
			mcp.Description("Refetch the full listing even when cached"),
		),
		mcp.WithBoolean("fetch_only_new",
			mcp.Description("Fetch only videos newer than the cache (default true)"),
		),
	), s.handleGetChannelVideos)

	// get_video_info tool
	s.mcpServer.AddTool(mcp.NewTool("get_video_info",
		mcp.WithDescription("Get a single video's metadata. Set transcript=true to include its transcript: served from the local cache when available, otherwise transcribed with OpenAI Whisper (PAID, requires OPENAI_API_KEY)."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or ID"),
			mcp.Required(),
		),
		mcp.WithBoolean("transcript",
			mcp.Description("Include the video transcript (may incur Whisper API costs)"),
		),
	), s.handleGetVideoInfo)

	// transcribe_videos tool
	s.mcpServer.AddTool(mcp.NewTool("transcribe_videos",
		mcp.WithDescription("Transcribe a set of YouTube videos given as a comma-separated URL list. Cached transcripts are served for free; the rest are transcribed with OpenAI Whisper (PAID) and cached. Always ask the user before transcribing many videos."),
		mcp.WithString("urls",
			mcp.Description("Comma-separated YouTube video URLs"),
			mcp.Required(),
		),
	), s.handleTranscribeVideos)
}

// handleSearchVideos implements the search_videos tool
func (s *MCPServer) handleSearchVideos(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reqID := uuid.NewString()

	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required and must be a string"), nil
	}
	limit := request.GetInt("limit", s.app.config.SearchLimit)

	MCPLogInfo("[%s] search_videos query=%q limit=%d", reqID, query, limit)

	videos, err := s.app.youtube.Search(ctx, query, limit)
	if err != nil {
		MCPLogError("[%s] search failed: %v", reqID, err)
		return mcp.NewToolResultErrorFromErr("search error", err), nil
	}
	if len(videos) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(fmt.Sprintf("No videos found for %q.", query))},
		}, nil
	}

	MCPLogInfo("[%s] search_videos returned %d results", reqID, len(videos))
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(FormatVideoList(videos))},
	}, nil
}

// handleGetChannelVideos implements the get_channel_videos tool
func (s *MCPServer) handleGetChannelVideos(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reqID := uuid.NewString()

	channelURL, err := request.RequireString("channel_url")
	if err != nil {
		return mcp.NewToolResultError("channel_url parameter is required and must be a string"), nil
	}

	opts := SyncOptions{
		Limit:        request.GetInt("limit", 0),
		ForceUpdate:  request.GetBool("force_update", false),
		FetchOnlyNew: request.GetBool("fetch_only_new", true),
	}

	MCPLogInfo("[%s] get_channel_videos url=%s limit=%d force=%t new=%t",
		reqID, channelURL, opts.Limit, opts.ForceUpdate, opts.FetchOnlyNew)

	videos, err := s.app.ChannelVideos(ctx, channelURL, opts)
	if err != nil {
		MCPLogError("[%s] channel sync failed: %v", reqID, err)
		return mcp.NewToolResultErrorFromErr("could not fetch channel videos", err), nil
	}
	if len(videos) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent("No videos found for this channel.")},
		}, nil
	}

	out, err := RecordsJSON(videos)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("encoding error", err), nil
	}

	MCPLogInfo("[%s] get_channel_videos returned %d records", reqID, len(videos))
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(out)},
	}, nil
}

// handleGetVideoInfo implements the get_video_info tool
func (s *MCPServer) handleGetVideoInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reqID := uuid.NewString()

	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}
	withTranscript := request.GetBool("transcript", false)

	MCPLogInfo("[%s] get_video_info url=%s transcript=%t", reqID, url, withTranscript)

	// MCP callers have no terminal; transcription proceeds without an
	// interactive prompt.
	metadata, transcript, err := s.app.VideoInfo(ctx, url, withTranscript, true)
	if err != nil {
		MCPLogError("[%s] video info failed: %v", reqID, err)
		return mcp.NewToolResultErrorFromErr("metadata error", err), nil
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Title: %s\n", metadata.Title))
	buf.WriteString(fmt.Sprintf("Channel: %s\n", metadata.Channel))
	if d := formatUploadDate(metadata.UploadDate); d != "" {
		buf.WriteString(fmt.Sprintf("Uploaded: %s\n", d))
	}
	buf.WriteString(fmt.Sprintf("Duration: %.0f seconds\n", metadata.Duration))
	if metadata.ViewCount > 0 {
		buf.WriteString(fmt.Sprintf("Views: %d\n", metadata.ViewCount))
	}
	buf.WriteString(fmt.Sprintf("Has Captions: %t\n", metadata.HasCaptions))
	if len(metadata.Tags) > 0 {
		buf.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(metadata.Tags, ", ")))
	}
	if len(metadata.Categories) > 0 {
		buf.WriteString(fmt.Sprintf("Categories: %s\n", strings.Join(metadata.Categories, ", ")))
	}
	buf.WriteString(fmt.Sprintf("Description: %s\n", metadata.Description))
	if transcript != "" {
		buf.WriteString(fmt.Sprintf("\nTranscript:\n%s\n", transcript))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleTranscribeVideos implements the transcribe_videos tool
func (s *MCPServer) handleTranscribeVideos(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reqID := uuid.NewString()

	csv, err := request.RequireString("urls")
	if err != nil {
		return mcp.NewToolResultError("urls parameter is required and must be a string"), nil
	}

	urls := ParseURLSet(csv)
	if len(urls) == 0 {
		return mcp.NewToolResultError("urls parameter contained no URLs"), nil
	}

	MCPLogInfo("[%s] transcribe_videos count=%d", reqID, len(urls))

	results, skipped, err := s.app.TranscribeVideos(ctx, urls, true)
	if err != nil {
		MCPLogError("[%s] transcription failed: %v", reqID, err)
		return mcp.NewToolResultErrorFromErr("transcription error", err), nil
	}

	cached := 0
	for _, r := range results {
		if r.Cached {
			cached++
		}
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Transcribed %d video(s), %d served from cache.\n", len(results), cached))
	for _, r := range results {
		buf.WriteString(fmt.Sprintf("\nVIDEO %s (%s):\n%s\n", r.VideoID, r.URL, r.Transcript))
	}
	if len(skipped) > 0 {
		buf.WriteString("\nSkipped:\n")
		for _, sk := range skipped {
			buf.WriteString(fmt.Sprintf("- %s\n", sk))
		}
	}

	MCPLogInfo("[%s] transcribe_videos done results=%d skipped=%d", reqID, len(results), len(skipped))
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(addr)
	}

	// Default to stdio transport
	return server.ServeStdio(s.mcpServer)
}

// GetServer returns the underlying MCP server for advanced configuration
func (s *MCPServer) GetServer() *server.MCPServer {
	return s.mcpServer
}
