// Package telegramtest runs a fake Telegram Bot API for tests. It answers
// sendMessage, editMessageText and answerCallbackQuery and records every call.
package telegramtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

// Call is one recorded Bot API request.
type Call struct {
	Method string
	Params map[string]any
}

// Param returns a request parameter as a string.
func (c Call) Param(name string) string {
	v, ok := c.Params[name]
	if !ok {
		return ""
	}
	if s, isString := v.(string); isString {
		return s
	}
	return fmt.Sprint(v)
}

// FakeAPI is an http.Handler that imitates the Bot API.
type FakeAPI struct {
	mu      sync.Mutex
	calls   []Call
	nextID  int
	failure string
}

// New starts a fake API and returns a synchronous offline bot talking to it.
func New(t testing.TB) (*FakeAPI, *tele.Bot) {
	t.Helper()

	api := &FakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	bot, err := tele.NewBot(tele.Settings{
		URL:         srv.URL,
		Token:       "123:test",
		Offline:     true,
		Synchronous: true,
	})
	require.NoError(t, err)
	return api, bot
}

// FailWith makes every following request fail with the given Bot API
// description, e.g. "Forbidden: bot was blocked by the user". Empty resets.
func (a *FakeAPI) FailWith(description string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failure = description
}

// Calls returns the recorded requests of the given method.
func (a *FakeAPI) Calls(method string) []Call {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []Call
	for _, c := range a.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (a *FakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params := map[string]any{}
	_ = json.NewDecoder(r.Body).Decode(&params)
	method := path.Base(r.URL.Path)

	a.mu.Lock()
	a.calls = append(a.calls, Call{Method: method, Params: params})
	failure := a.failure
	a.nextID++
	messageID := a.nextID
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failure != "" {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error_code": 400, "description": failure})
		return
	}

	switch method {
	case "sendMessage", "editMessageText":
		chatID, _ := strconv.ParseInt(Call{Params: params}.Param("chat_id"), 10, 64)
		if id, err := strconv.Atoi(Call{Params: params}.Param("message_id")); err == nil {
			messageID = id
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"result": map[string]any{
				"message_id": messageID,
				"date":       0,
				"chat":       map[string]any{"id": chatID, "type": "channel"},
				"text":       params["text"],
			},
		})
	default:
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": true})
	}
}
