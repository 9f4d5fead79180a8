package sim

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(NewStore(nil), "crane", zerolog.Nop()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string, out any) int {
	t.Helper()
	res, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestServer_Index(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")

	var page strings.Builder
	_, _ = page.ReadFrom(res.Body)
	assert.Contains(t, page.String(), `data-testid="Play"`)
	assert.Contains(t, page.String(), `aria-label="Close"`)
	assert.Contains(t, page.String(), "Tile-module_tile")
}

func TestServer_PlayGame(t *testing.T) {
	srv := newTestServer(t)

	var created newGameRes
	require.Equal(t, http.StatusCreated, post(t, srv.URL+"/api/games", `{}`, &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, DefaultRows, created.Rows)

	guessURL := srv.URL + "/api/games/" + created.ID + "/guesses"

	var bad errorRes
	assert.Equal(t, http.StatusBadRequest, post(t, guessURL, `{"guess":"qwert"}`, &bad))
	assert.Equal(t, "not_in_list", bad.Error)
	assert.Equal(t, http.StatusBadRequest, post(t, guessURL, `{"guess":"abc"}`, &bad))
	assert.Equal(t, "invalid_guess", bad.Error)
	assert.Equal(t, http.StatusBadRequest, post(t, guessURL, `{`, &bad))
	assert.Equal(t, "bad_json", bad.Error)

	var g guessRes
	require.Equal(t, http.StatusOK, post(t, guessURL, `{"guess":"slate"}`, &g))
	assert.Equal(t, "aacac", g.Result)
	assert.Equal(t, []string{"absent", "absent", "correct", "absent", "correct"}, g.Marks)
	assert.Equal(t, StatePlaying, g.State)

	require.Equal(t, http.StatusOK, post(t, guessURL, `{"guess":"crane"}`, &g))
	assert.Equal(t, StateWon, g.State)

	assert.Equal(t, http.StatusConflict, post(t, guessURL, `{"guess":"crane"}`, &bad))
	assert.Equal(t, "game_finished", bad.Error)

	res, err := http.Get(srv.URL + "/api/games/" + created.ID)
	require.NoError(t, err)
	defer res.Body.Close()
	var view gameRes
	require.NoError(t, json.NewDecoder(res.Body).Decode(&view))
	assert.Equal(t, StateWon, view.State)
	assert.Equal(t, "crane", view.Answer)
	require.Len(t, view.Guesses, 2)
	assert.Equal(t, guessView{Word: "slate", Result: "aacac"}, view.Guesses[0])
}

func TestServer_ExplicitAnswer(t *testing.T) {
	srv := newTestServer(t)

	var created newGameRes
	require.Equal(t, http.StatusCreated, post(t, srv.URL+"/api/games", `{"answer":"slope"}`, &created))

	var g guessRes
	require.Equal(t, http.StatusOK, post(t, srv.URL+"/api/games/"+created.ID+"/guesses", `{"guess":"slope"}`, &g))
	assert.Equal(t, StateWon, g.State)

	var bad errorRes
	assert.Equal(t, http.StatusBadRequest, post(t, srv.URL+"/api/games", `{"answer":"nope"}`, &bad))
}

func TestServer_NotFound(t *testing.T) {
	srv := newTestServer(t)

	var bad errorRes
	assert.Equal(t, http.StatusNotFound, post(t, srv.URL+"/api/games/missing/guesses", `{"guess":"crane"}`, &bad))
	assert.Equal(t, "not_found", bad.Error)

	res, err := http.Get(srv.URL + "/nowhere")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
