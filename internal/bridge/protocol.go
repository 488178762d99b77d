package bridge

import (
	"github.com/xuanyanwow/GoNavi-sub000/internal/database"
	"github.com/xuanyanwow/GoNavi-sub000/internal/runner"
	"github.com/xuanyanwow/GoNavi-sub000/pkg/types"
)

// Operations a client may request. OpMetaUpdate is server-initiated:
// it carries the result of an asynchronous metadata fetch and is never
// sent by clients.
const (
	OpRun        = "run"
	OpApply      = "apply"
	OpMeta       = "meta"
	OpMetaUpdate = "meta-update"
)

// Request is one client frame. ID is an opaque correlation token the
// response echoes back; SQL, Table, and Batch are read per operation.
type Request struct {
	ID    string               `json:"id"`
	Op    string               `json:"op"`
	SQL   string               `json:"sql,omitempty"`
	Table string               `json:"table,omitempty"`
	Batch *types.MutationBatch `json:"batch,omitempty"`
}

// Response is one server frame: the answer to a request (matching ID)
// or a pushed meta-update (empty ID). Error carries the backend's
// message verbatim; when it is set the payload fields are empty.
type Response struct {
	ID         string                 `json:"id,omitempty"`
	Op         string                 `json:"op"`
	Generation uint64                 `json:"generation,omitempty"`
	Index      int                    `json:"index,omitempty"`
	Table      string                 `json:"table,omitempty"`
	Statements []*runner.StatementRun `json:"statements,omitempty"`
	Meta       *database.TableMeta    `json:"meta,omitempty"`
	Affected   int64                  `json:"affected,omitempty"`
	Error      string                 `json:"error,omitempty"`
}
