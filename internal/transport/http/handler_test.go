package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chessrules/internal/core"
	"chessrules/internal/service"
	"chessrules/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, store *storage.Store) (*fiber.App, *service.Service) {
	t.Helper()
	svc := service.New(store)
	t.Cleanup(func() { _ = svc.Shutdown(time.Second) })
	return NewFiberApp(svc, 0), svc
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func createGame(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, data := do(t, app, "POST", "/api/v1/games", "")
	require.Equal(t, fiber.StatusCreated, status, string(data))
	return decode[GameResponse](t, data).GameID
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t, nil)
	status, data := do(t, app, "GET", "/health", "")
	assert.Equal(t, fiber.StatusOK, status)

	body := decode[map[string]any](t, data)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "disabled", body["storage"])
}

func TestCreateAndGetGame(t *testing.T) {
	app, _ := newTestApp(t, nil)
	id := createGame(t, app)

	status, data := do(t, app, "GET", "/api/v1/games/"+id, "")
	require.Equal(t, fiber.StatusOK, status)
	resp := decode[GameResponse](t, data)
	assert.Equal(t, id, resp.GameID)
	assert.Equal(t, "white", resp.Game.ActiveColor)
	assert.Equal(t, "in_progress", resp.Game.State)
	assert.Empty(t, resp.Moves)
	assert.Nil(t, resp.LastMove)

	status, data = do(t, app, "GET", "/api/v1/games", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []string{id}, decode[GameListResponse](t, data).Games)
}

func TestRestoreGameFromRecord(t *testing.T) {
	app, _ := newTestApp(t, nil)
	body := `{"record":{"board":[
		{"square":"e1","kind":"king","color":"white"},
		{"square":"e8","kind":"king","color":"black"},
		{"square":"a7","kind":"pawn","color":"white"}],
		"activeColor":"white","state":"in_progress","castling":"-","moveCount":40}}`

	status, data := do(t, app, "POST", "/api/v1/games", body)
	require.Equal(t, fiber.StatusCreated, status, string(data))
	resp := decode[GameResponse](t, data)
	assert.Equal(t, 40, resp.Game.MoveCount)
	assert.Len(t, resp.Game.Board, 3)

	status, _ = do(t, app, "POST", "/api/v1/games", `{"record":{"board":[],"activeColor":"white"}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestPossibleMovesEndpoint(t *testing.T) {
	app, _ := newTestApp(t, nil)
	id := createGame(t, app)

	status, data := do(t, app, "GET", "/api/v1/games/"+id+"/moves/g1", "")
	require.Equal(t, fiber.StatusOK, status)
	resp := decode[PossibleMovesResponse](t, data)
	assert.True(t, resp.Selectable)
	assert.Equal(t, []string{"f3", "h3"}, resp.Moves)

	status, data = do(t, app, "GET", "/api/v1/games/"+id+"/moves/e7", "")
	require.Equal(t, fiber.StatusOK, status)
	resp = decode[PossibleMovesResponse](t, data)
	assert.False(t, resp.Selectable)
	assert.Equal(t, []string{}, resp.Moves)

	status, data = do(t, app, "GET", "/api/v1/games/"+id+"/moves/z9", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, core.CodeInvalidInput, decode[ErrorResponse](t, data).Code)
}

func TestMakeMoveEndpoint(t *testing.T) {
	app, _ := newTestApp(t, nil)
	id := createGame(t, app)

	status, data := do(t, app, "POST", "/api/v1/games/"+id+"/moves", `{"from":"e2","to":"e4"}`)
	require.Equal(t, fiber.StatusOK, status, string(data))
	resp := decode[GameResponse](t, data)
	assert.Equal(t, "black", resp.Game.ActiveColor)
	assert.Equal(t, "e3", resp.Game.EnPassant)
	assert.Equal(t, []string{"e2e4"}, resp.Moves)
	require.NotNil(t, resp.LastMove)
	assert.Equal(t, "white", resp.LastMove.Player)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"wrong color", `{"from":"e4","to":"e5"}`, fiber.StatusBadRequest, core.CodeWrongColor},
		{"empty square", `{"from":"e5","to":"e4"}`, fiber.StatusBadRequest, core.CodeNoPiece},
		{"illegal", `{"from":"e7","to":"e4"}`, fiber.StatusBadRequest, core.CodeIllegalMove},
		{"bad square", `{"from":"x7","to":"e5"}`, fiber.StatusBadRequest, core.CodeInvalidInput},
		{"missing field", `{"from":"e7"}`, fiber.StatusBadRequest, core.CodeInvalidRequest},
		{"malformed json", `{"from":`, fiber.StatusBadRequest, core.CodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := do(t, app, "POST", "/api/v1/games/"+id+"/moves", tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, data).Code)
		})
	}
}

func TestCaptureReportedInLastMove(t *testing.T) {
	app, _ := newTestApp(t, nil)
	id := createGame(t, app)
	for _, body := range []string{`{"from":"e2","to":"e4"}`, `{"from":"d7","to":"d5"}`} {
		status, _ := do(t, app, "POST", "/api/v1/games/"+id+"/moves", body)
		require.Equal(t, fiber.StatusOK, status)
	}

	status, data := do(t, app, "POST", "/api/v1/games/"+id+"/moves", `{"from":"e4","to":"d5"}`)
	require.Equal(t, fiber.StatusOK, status)
	resp := decode[GameResponse](t, data)
	require.NotNil(t, resp.LastMove)
	assert.Equal(t, "pawn", resp.LastMove.Captured)
}

func TestGameOverConflict(t *testing.T) {
	app, _ := newTestApp(t, nil)
	id := createGame(t, app)
	for _, body := range []string{
		`{"from":"f2","to":"f3"}`, `{"from":"e7","to":"e5"}`,
		`{"from":"g2","to":"g4"}`, `{"from":"d8","to":"h4"}`,
	} {
		status, data := do(t, app, "POST", "/api/v1/games/"+id+"/moves", body)
		require.Equal(t, fiber.StatusOK, status, string(data))
	}

	status, data := do(t, app, "GET", "/api/v1/games/"+id, "")
	require.Equal(t, fiber.StatusOK, status)
	resp := decode[GameResponse](t, data)
	assert.Equal(t, "checkmate", resp.Game.State)
	assert.Equal(t, "white", resp.Game.StateColor)

	status, data = do(t, app, "POST", "/api/v1/games/"+id+"/moves", `{"from":"a2","to":"a3"}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, core.CodeGameOver, decode[ErrorResponse](t, data).Code)
}

func TestPromotionAndUndoEndpoints(t *testing.T) {
	app, _ := newTestApp(t, nil)
	id := createGame(t, app)

	status, data := do(t, app, "PUT", "/api/v1/games/"+id+"/promotion", `{"kind":"knight"}`)
	require.Equal(t, fiber.StatusOK, status, string(data))
	assert.Equal(t, "knight", decode[GameResponse](t, data).Game.Promotion["white"])

	status, data = do(t, app, "PUT", "/api/v1/games/"+id+"/promotion", `{"kind":"king"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, core.CodeInvalidInput, decode[ErrorResponse](t, data).Code)

	status, data = do(t, app, "POST", "/api/v1/games/"+id+"/undo", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, core.CodeInvalidInput, decode[ErrorResponse](t, data).Code)

	for _, body := range []string{`{"from":"e2","to":"e4"}`, `{"from":"e7","to":"e5"}`} {
		status, _ := do(t, app, "POST", "/api/v1/games/"+id+"/moves", body)
		require.Equal(t, fiber.StatusOK, status)
	}

	status, data = do(t, app, "POST", "/api/v1/games/"+id+"/undo", `{"count":2}`)
	require.Equal(t, fiber.StatusOK, status, string(data))
	resp := decode[GameResponse](t, data)
	assert.Equal(t, 0, resp.Game.MoveCount)
	assert.Empty(t, resp.Moves)

	status, data = do(t, app, "POST", "/api/v1/games/"+id+"/undo", `{"count":0}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, core.CodeInvalidInput, decode[ErrorResponse](t, data).Code)
}

func TestBoardRenderings(t *testing.T) {
	app, _ := newTestApp(t, nil)
	id := createGame(t, app)

	status, data := do(t, app, "GET", "/api/v1/games/"+id+"/board", "")
	require.Equal(t, fiber.StatusOK, status)
	board := decode[BoardResponse](t, data).Board
	assert.Contains(t, board, "r n b q k b n r")
	assert.True(t, strings.HasSuffix(board, "  a b c d e f g h\n"))

	status, _ = do(t, app, "POST", "/api/v1/games/"+id+"/moves", `{"from":"e2","to":"e4"}`)
	require.Equal(t, fiber.StatusOK, status)

	req := httptest.NewRequest("GET", "/api/v1/games/"+id+"/board.svg", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	svgData, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(svgData), "<svg")
	assert.Contains(t, string(svgData), `id="e4"`)
}

func TestLongPollReturnsWhenBehind(t *testing.T) {
	app, _ := newTestApp(t, nil)
	id := createGame(t, app)
	status, _ := do(t, app, "POST", "/api/v1/games/"+id+"/moves", `{"from":"e2","to":"e4"}`)
	require.Equal(t, fiber.StatusOK, status)

	status, data := do(t, app, "GET", "/api/v1/games/"+id+"?wait=true&moveCount=0", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, decode[GameResponse](t, data).Game.MoveCount)

	status, _ = do(t, app, "GET", "/api/v1/games/"+id+"?wait=true&moveCount=abc", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestDeleteAndNotFound(t *testing.T) {
	app, _ := newTestApp(t, nil)
	id := createGame(t, app)

	status, _ := do(t, app, "DELETE", "/api/v1/games/"+id, "")
	assert.Equal(t, fiber.StatusNoContent, status)

	status, data := do(t, app, "GET", "/api/v1/games/"+id, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, core.CodeGameNotFound, decode[ErrorResponse](t, data).Code)

	status, _ = do(t, app, "DELETE", "/api/v1/games/"+id, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, data = do(t, app, "GET", "/api/v1/games/not-a-uuid", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, core.CodeInvalidRequest, decode[ErrorResponse](t, data).Code)
}

func TestContentTypeRejected(t *testing.T) {
	app, _ := newTestApp(t, nil)
	id := createGame(t, app)

	req := httptest.NewRequest("POST", "/api/v1/games/"+id+"/moves", strings.NewReader("from=e2&to=e4"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestJournalEndpoint(t *testing.T) {
	app, _ := newTestApp(t, nil)
	id := createGame(t, app)
	status, data := do(t, app, "GET", "/api/v1/games/"+id+"/journal", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, core.CodeStorageDisabled, decode[ErrorResponse](t, data).Code)

	store, err := storage.NewStore(storage.MemoryDSN(t.Name()))
	require.NoError(t, err)
	require.NoError(t, store.InitDB())

	app, _ = newTestApp(t, store)
	id = createGame(t, app)
	status, _ = do(t, app, "POST", "/api/v1/games/"+id+"/moves", `{"from":"e2","to":"e4"}`)
	require.Equal(t, fiber.StatusOK, status)

	require.Eventually(t, func() bool {
		status, data := do(t, app, "GET", "/api/v1/games/"+id+"/journal", "")
		if status != fiber.StatusOK {
			return false
		}
		return len(decode[JournalResponse](t, data).Moves) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
