package bridge

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xuanyanwow/GoNavi-sub000/internal/database"
	"github.com/xuanyanwow/GoNavi-sub000/pkg/types"
)

// dialTestBridge starts a bridge over an in-memory sqlite database and
// returns a connected client.
func dialTestBridge(t *testing.T) *websocket.Conn {
	t.Helper()

	backend, err := database.OpenSQLite(context.Background(), &types.Config{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(backend.Close)

	srv := httptest.NewServer(NewServer(backend, 100, 10*time.Second))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

// awaitResponse reads frames until the response matching id arrives,
// collecting pushed meta-updates into pushed along the way.
func awaitResponse(t *testing.T, ws *websocket.Conn, id string, pushed *[]Response) Response {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		ws.SetReadDeadline(time.Now().Add(10 * time.Second))
		var resp Response
		if err := ws.ReadJSON(&resp); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		if resp.Op == OpMetaUpdate {
			if pushed != nil {
				*pushed = append(*pushed, resp)
			}
			continue
		}
		if resp.ID == id {
			return resp
		}
		t.Fatalf("response for %q while waiting for %q", resp.ID, id)
	}
	t.Fatalf("no response for %q", id)
	return Response{}
}

func send(t *testing.T, ws *websocket.Conn, req Request) {
	t.Helper()
	if err := ws.WriteJSON(req); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

func TestBridgeRunAndMetaPush(t *testing.T) {
	ws := dialTestBridge(t)

	var pushed []Response
	send(t, ws, Request{ID: "1", Op: OpRun, SQL: `
		CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT);
		INSERT INTO people (id, name) VALUES (1, 'ada'), (2, 'bob');
		SELECT * FROM people`})
	resp := awaitResponse(t, ws, "1", &pushed)
	if resp.Error != "" {
		t.Fatalf("run failed: %s", resp.Error)
	}
	if got, want := len(resp.Statements), 3; got != want {
		t.Fatalf("statement count = %d, want %d", got, want)
	}

	sel := resp.Statements[2]
	if sel.Table != "people" {
		t.Errorf("detected table = %q, want %q", sel.Table, "people")
	}
	if !sel.Limited {
		t.Error("bare SELECT was not row-capped")
	}
	if sel.Result == nil || sel.Result.Set == nil || len(sel.Result.Set.Rows) != 2 {
		t.Fatalf("select result = %+v, want 2 rows", sel.Result)
	}

	// the metadata push for the editable grid arrives asynchronously
	for len(pushed) == 0 {
		send(t, ws, Request{ID: "sync", Op: OpMeta, Table: "people"})
		awaitResponse(t, ws, "sync", &pushed)
		if len(pushed) == 0 {
			time.Sleep(10 * time.Millisecond)
		}
	}
	update := pushed[0]
	if update.Generation != resp.Generation {
		t.Errorf("pushed generation = %d, want %d", update.Generation, resp.Generation)
	}
	if update.Index != 3 || update.Table != "people" {
		t.Errorf("pushed update = index %d table %q, want index 3 table people", update.Index, update.Table)
	}
	if update.Meta == nil || strings.Join(update.Meta.PKColumns, ",") != "id" {
		t.Errorf("pushed meta = %+v, want pk [id]", update.Meta)
	}
}

func TestBridgeRunErrorHaltsAndReports(t *testing.T) {
	ws := dialTestBridge(t)

	send(t, ws, Request{ID: "1", Op: OpRun, SQL: "SELECT 1; SELECT * FROM nowhere; SELECT 2"})
	resp := awaitResponse(t, ws, "1", nil)
	if resp.Error == "" {
		t.Fatal("expected a run error")
	}
	if !strings.Contains(resp.Error, "nowhere") {
		t.Errorf("error %q does not carry the backend message", resp.Error)
	}
	statuses := make([]string, len(resp.Statements))
	for i, s := range resp.Statements {
		statuses[i] = s.Status.String()
	}
	if got, want := strings.Join(statuses, ","), "succeeded,failed,skipped"; got != want {
		t.Errorf("statuses = %q, want %q", got, want)
	}
}

func TestBridgeApply(t *testing.T) {
	ws := dialTestBridge(t)

	send(t, ws, Request{ID: "1", Op: OpRun, SQL: "CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)"})
	if resp := awaitResponse(t, ws, "1", nil); resp.Error != "" {
		t.Fatalf("create failed: %s", resp.Error)
	}

	batch := &types.MutationBatch{
		Inserts: []types.Row{
			{"id": types.Int(1), "v": types.Text("a")},
			{"id": types.Int(2), "v": types.Text("b")},
		},
	}
	send(t, ws, Request{ID: "2", Op: OpApply, Table: "t", Batch: batch})
	resp := awaitResponse(t, ws, "2", nil)
	if resp.Error != "" {
		t.Fatalf("apply failed: %s", resp.Error)
	}
	if resp.Affected != 2 {
		t.Errorf("affected = %d, want 2", resp.Affected)
	}

	send(t, ws, Request{ID: "3", Op: OpRun, SQL: "SELECT count(*) AS n FROM t"})
	verify := awaitResponse(t, ws, "3", nil)
	rows := verify.Statements[0].Result.Set.Rows
	if got := rows[0]["n"].NormalizedString(); got != "2" {
		t.Errorf("count after apply = %s, want 2", got)
	}
}

func TestBridgeMetaOp(t *testing.T) {
	ws := dialTestBridge(t)

	send(t, ws, Request{ID: "1", Op: OpRun, SQL: "CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)"})
	if resp := awaitResponse(t, ws, "1", nil); resp.Error != "" {
		t.Fatalf("create failed: %s", resp.Error)
	}

	send(t, ws, Request{ID: "2", Op: OpMeta, Table: "kv"})
	resp := awaitResponse(t, ws, "2", nil)
	if resp.Error != "" {
		t.Fatalf("meta failed: %s", resp.Error)
	}
	if resp.Meta == nil || len(resp.Meta.Columns) != 2 {
		t.Fatalf("meta = %+v, want 2 columns", resp.Meta)
	}
}

func TestBridgeRejectsMalformedRequests(t *testing.T) {
	ws := dialTestBridge(t)

	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"unknown op", Request{ID: "1", Op: "explode"}, "unknown operation"},
		{"apply without table", Request{ID: "2", Op: OpApply, Batch: &types.MutationBatch{}}, "requires table"},
		{"meta without table", Request{ID: "3", Op: OpMeta}, "requires table"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			send(t, ws, tt.req)
			resp := awaitResponse(t, ws, tt.req.ID, nil)
			if !strings.Contains(resp.Error, tt.want) {
				t.Errorf("error = %q, want it to contain %q", resp.Error, tt.want)
			}
		})
	}
}
