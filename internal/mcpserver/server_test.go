package mcpserver

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/block"
	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/service"
	"github.com/starford/ansuz/internal/testutil"
)

const testBaseURL = "http://localhost:8080"

func testServer(t *testing.T) (*Server, *service.Service, string) {
	t.Helper()

	dataDir := t.TempDir()
	st, _ := testutil.TestStore(t)
	svc := service.New(st, testutil.TestDB(t), nil)
	return New(svc, dataDir, testBaseURL), svc, dataDir
}

func seedNotebook(t *testing.T, svc *service.Service) string {
	t.Helper()
	nb, err := svc.CreateNotebook(context.Background(), "", "work")
	if err != nil {
		t.Fatalf("CreateNotebook: %v", err)
	}
	return nb.ID
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_notebooks":
		result, err = srv.listNotebooks(ctx, req)
	case "list_pages":
		result, err = srv.listPages(ctx, req)
	case "read_page":
		result, err = srv.readPage(ctx, req)
	case "create_page":
		result, err = srv.createPage(ctx, req)
	case "update_page":
		result, err = srv.updatePage(ctx, req)
	case "search_pages":
		result, err = srv.searchPages(ctx, req)
	case "get_block_contract":
		result, err = srv.getBlockContract(ctx, req)
	case "upload_asset":
		result, err = srv.uploadAsset(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndReadPage(t *testing.T) {
	srv, svc, _ := testServer(t)
	nbID := seedNotebook(t, svc)

	r := callTool(t, srv, "create_page", map[string]interface{}{
		"notebook_id": nbID,
		"title":       "standup",
		"content":     "hello\n\n- [x] done\n",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "created: ") {
		t.Fatalf("create result = %q", text)
	}

	pages, err := svc.ListPages(context.Background(), nbID)
	if err != nil || len(pages) != 1 {
		t.Fatalf("ListPages = %v, %v", pages, err)
	}

	r = callTool(t, srv, "read_page", map[string]interface{}{
		"notebook_id": nbID,
		"page_id":     pages[0].ID,
	})
	text = resultText(r)
	if !strings.HasPrefix(text, "checksum: ") {
		t.Errorf("read result missing checksum header: %q", text)
	}
	if !strings.Contains(text, "hello\n\n- [x] done\n") {
		t.Errorf("read result = %q", text)
	}
}

func TestUpdatePageChecksum(t *testing.T) {
	srv, svc, _ := testServer(t)
	nbID := seedNotebook(t, svc)
	ctx := context.Background()

	p, err := svc.CreatePage(ctx, nbID, "", "notes", block.List{block.Text{Text: "v1"}})
	if err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "update_page", map[string]interface{}{
		"notebook_id": nbID,
		"page_id":     p.ID,
		"content":     "v2\n",
		"checksum":    p.Checksum,
	})
	if r.IsError {
		t.Fatalf("update with matching checksum failed: %q", resultText(r))
	}

	// The old checksum is stale now.
	r = callTool(t, srv, "update_page", map[string]interface{}{
		"notebook_id": nbID,
		"page_id":     p.ID,
		"content":     "v3\n",
		"checksum":    p.Checksum,
	})
	if !r.IsError {
		t.Error("expected error for stale checksum")
	}
}

func TestListNotebooksAndPages(t *testing.T) {
	srv, svc, _ := testServer(t)
	nbID := seedNotebook(t, svc)
	if _, err := svc.CreatePage(context.Background(), nbID, "", "a", nil); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "list_notebooks", map[string]interface{}{})
	if text := resultText(r); !strings.Contains(text, nbID) {
		t.Errorf("list_notebooks = %q", text)
	}

	r = callTool(t, srv, "list_pages", map[string]interface{}{"notebook_id": nbID})
	if text := resultText(r); !strings.Contains(text, `"a"`) {
		t.Errorf("list_pages = %q", text)
	}
}

func TestReadPageMissing(t *testing.T) {
	srv, svc, _ := testServer(t)
	nbID := seedNotebook(t, svc)

	r := callTool(t, srv, "read_page", map[string]interface{}{
		"notebook_id": nbID,
		"page_id":     "nope",
	})
	if !r.IsError {
		t.Error("expected error for missing page")
	}
}

func TestSearchPages(t *testing.T) {
	srv, svc, _ := testServer(t)
	nbID := seedNotebook(t, svc)
	if _, err := svc.CreatePage(context.Background(), nbID, "", "find", block.List{block.Text{Text: "uniquetoken here"}}); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "search_pages", map[string]interface{}{"query": "uniquetoken"})
	if text := resultText(r); !strings.Contains(text, "find") {
		t.Errorf("search = %q", text)
	}
}

func TestGetBlockContract(t *testing.T) {
	srv, _, _ := testServer(t)
	r := callTool(t, srv, "get_block_contract", map[string]interface{}{})
	if text := resultText(r); !strings.Contains(text, "Block Format Contract") {
		t.Errorf("contract = %q", text)
	}
}

func TestUploadAsset_DataURI(t *testing.T) {
	srv, _, dataDir := testServer(t)

	// Minimal valid PNG header so magic byte validation passes.
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	r := callTool(t, srv, "upload_asset", map[string]interface{}{
		"url":      uri,
		"filename": "dot.png",
	})
	if r.IsError {
		t.Fatalf("upload failed: %q", resultText(r))
	}
	fileURL := testBaseURL + "/attachments/dot.png"
	if text := resultText(r); !strings.Contains(text, "[dot.png]("+fileURL+")") {
		t.Errorf("upload result = %q", text)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "attachments", "dot.png")); err != nil {
		t.Errorf("file not on disk: %v", err)
	}

	// The returned link must survive in page content as a file block.
	got := markdown.Parse("[dot.png](" + fileURL + ")")
	want := block.List{block.File{URL: fileURL}}
	if !got.Equal(want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestUploadAsset_RejectsBadExtension(t *testing.T) {
	srv, _, _ := testServer(t)

	uri := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake"))
	r := callTool(t, srv, "upload_asset", map[string]interface{}{
		"url":      uri,
		"filename": "evil.sh",
	})
	if !r.IsError {
		t.Error("expected error for disallowed extension")
	}
}
