package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/Anaswara-Rajesh/kanban-board/internal/dto"
	"github.com/Anaswara-Rajesh/kanban-board/internal/repo"
	"github.com/Anaswara-Rajesh/kanban-board/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *repo.MemoryKV) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()
	kv := repo.NewMemoryKV()
	svc := service.NewBoardService(repo.NewKVTaskRepo(kv, "", logger), logger)
	if err := svc.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	r := gin.New()
	NewTaskHandler(svc).Register(r)
	return r, kv
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := sonic.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func createTask(t *testing.T, r http.Handler, title string) dto.TaskResponse {
	t.Helper()
	rec := do(r, http.MethodPost, "/tasks", `{"title":"`+title+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create %q: status %d body %s", title, rec.Code, rec.Body.String())
	}
	return decode[dto.TaskResponse](t, rec)
}

func TestCreateAndList(t *testing.T) {
	r, kv := newTestRouter(t)
	a := createTask(t, r, "A")
	b := createTask(t, r, "B")
	if a.Column != "todo" || a.ID == "" || a.ID == b.ID {
		t.Fatalf("unexpected tasks: %#v %#v", a, b)
	}

	rec := do(r, http.MethodGet, "/tasks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	list := decode[dto.ListTasksResponse](t, rec)
	if len(list.Items) != 2 || list.Items[0].Title != "A" || list.Items[1].Title != "B" {
		t.Fatalf("unexpected list: %#v", list)
	}

	raw, ok, _ := kv.Get(context.Background(), repo.DefaultKey)
	if !ok || !strings.Contains(raw, `"title":"B"`) {
		t.Fatalf("board not persisted: %q", raw)
	}
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	r, _ := newTestRouter(t)
	for _, body := range []string{`{"title":"   "}`, `{"description":"x"}`} {
		rec := do(r, http.MethodPost, "/tasks", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
	}
	list := decode[dto.ListTasksResponse](t, do(r, http.MethodGet, "/tasks", ""))
	if len(list.Items) != 0 {
		t.Fatalf("expected no tasks, got %#v", list.Items)
	}
}

func TestUpdate(t *testing.T) {
	r, _ := newTestRouter(t)
	a := createTask(t, r, "A")

	rec := do(r, http.MethodPatch, "/tasks/"+a.ID, `{"title":"A2","description":"details"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", rec.Code, rec.Body.String())
	}
	got := decode[dto.TaskResponse](t, rec)
	if got.ID != a.ID || got.Title != "A2" || got.Description != "details" || got.Column != "todo" {
		t.Fatalf("unexpected task: %#v", got)
	}

	if rec := do(r, http.MethodPatch, "/tasks/"+a.ID, `{"title":""}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("blank title: expected 400, got %d", rec.Code)
	}
	if rec := do(r, http.MethodPatch, "/tasks/nope", `{"title":"X"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", rec.Code)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	r, _ := newTestRouter(t)
	a := createTask(t, r, "A")

	if rec := do(r, http.MethodDelete, "/tasks/"+a.ID, ""); rec.Code != http.StatusPreconditionRequired {
		t.Fatalf("unconfirmed delete: expected 428, got %d", rec.Code)
	}
	if rec := do(r, http.MethodDelete, "/tasks/"+a.ID+"?confirm=false", ""); rec.Code != http.StatusPreconditionRequired {
		t.Fatalf("declined delete: expected 428, got %d", rec.Code)
	}
	if list := decode[dto.ListTasksResponse](t, do(r, http.MethodGet, "/tasks", "")); len(list.Items) != 1 {
		t.Fatalf("task should survive unconfirmed delete")
	}

	if rec := do(r, http.MethodDelete, "/tasks/"+a.ID+"?confirm=true", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("confirmed delete: expected 204, got %d", rec.Code)
	}
	if rec := do(r, http.MethodDelete, "/tasks/"+a.ID+"?confirm=true", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("repeat delete: expected 404, got %d", rec.Code)
	}
}

func TestDropMovesBetweenColumns(t *testing.T) {
	r, _ := newTestRouter(t)
	a := createTask(t, r, "Write plan")

	rec := do(r, http.MethodPost, "/board/inProgress/drop", `{"id":"`+a.ID+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("drop: status %d body %s", rec.Code, rec.Body.String())
	}
	if got := decode[dto.TaskResponse](t, rec); got.Column != "inProgress" {
		t.Fatalf("unexpected column %q", got.Column)
	}

	todo := decode[dto.ListTasksResponse](t, do(r, http.MethodGet, "/board/todo", ""))
	if len(todo.Items) != 0 {
		t.Fatalf("todo should be empty: %#v", todo.Items)
	}
	inProgress := decode[dto.ListTasksResponse](t, do(r, http.MethodGet, "/board/inProgress", ""))
	if len(inProgress.Items) != 1 || inProgress.Items[0].ID != a.ID {
		t.Fatalf("inProgress should hold the task: %#v", inProgress.Items)
	}

	if rec := do(r, http.MethodPost, "/board/archive/drop", `{"id":"`+a.ID+`"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad column: expected 400, got %d", rec.Code)
	}
	if rec := do(r, http.MethodPost, "/board/done/drop", `{"id":"missing"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", rec.Code)
	}
	if rec := do(r, http.MethodPost, "/board/done/drop", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing id: expected 400, got %d", rec.Code)
	}
}

func TestBoardGroupsByColumn(t *testing.T) {
	r, _ := newTestRouter(t)
	a := createTask(t, r, "A")
	createTask(t, r, "B")
	do(r, http.MethodPost, "/board/done/drop", `{"id":"`+a.ID+`"}`)

	rec := do(r, http.MethodGet, "/board", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("board: status %d", rec.Code)
	}
	board := decode[dto.BoardResponse](t, rec)
	if len(board.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %#v", board)
	}
	want := []struct {
		id, title string
		count     int
	}{{"todo", "To Do", 1}, {"inProgress", "In Progress", 0}, {"done", "Done", 1}}
	for i, w := range want {
		col := board.Columns[i]
		if col.ID != w.id || col.Title != w.title || col.Count != w.count || len(col.Tasks) != w.count {
			t.Fatalf("column %d: got %#v want %+v", i, col, w)
		}
	}
	if rec := do(r, http.MethodGet, "/board/later", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad column view: expected 400, got %d", rec.Code)
	}
}

func TestReloadReadsStorage(t *testing.T) {
	r, kv := newTestRouter(t)
	createTask(t, r, "A")
	_ = kv.Set(context.Background(), repo.DefaultKey, `{"version":1,"tasks":[{"id":"x","title":"X","column":"done"}]}`)

	rec := do(r, http.MethodPost, "/board/reload", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reload: status %d", rec.Code)
	}
	list := decode[dto.ListTasksResponse](t, do(r, http.MethodGet, "/tasks", ""))
	if len(list.Items) != 1 || list.Items[0].ID != "x" {
		t.Fatalf("unexpected board after reload: %#v", list.Items)
	}
}

func TestLongTitleAndDescriptionAccepted(t *testing.T) {
	r, _ := newTestRouter(t)
	title := strings.Repeat("a", 201)
	desc := strings.Repeat("d", 2001)

	rec := do(r, http.MethodPost, "/tasks", `{"title":"`+title+`","description":"`+desc+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body.String())
	}
	created := decode[dto.TaskResponse](t, rec)
	if created.Title != title || created.Description != desc {
		t.Fatalf("long fields were altered: %d/%d chars", len(created.Title), len(created.Description))
	}

	longer := strings.Repeat("b", 500)
	rec = do(r, http.MethodPatch, "/tasks/"+created.ID, `{"title":"`+longer+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", rec.Code, rec.Body.String())
	}
	if got := decode[dto.TaskResponse](t, rec); got.Title != longer {
		t.Fatalf("update title length = %d", len(got.Title))
	}
}
