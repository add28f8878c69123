package builtin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/byrencheema/tappy/pkg/browseruse"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

func providerClient(t *testing.T, handler http.Handler, profileID string) *browseruse.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return browseruse.New(browseruse.Config{
		APIKey:          "test-key",
		BaseURL:         server.URL,
		ProfileID:       profileID,
		RequestTimeout:  5 * time.Second,
		PollInterval:    time.Millisecond,
		PollMaxInterval: 5 * time.Millisecond,
		TaskDeadline:    time.Second,
	})
}

func TestDataRetrievalHandlerExecute(t *testing.T) {
	client := providerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/skills/weather-forecast/execute", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{
				"success": true,
				"data":    map[string]any{"location": "Austin"},
			},
		})
	}), "")

	handler := NewDataRetrievalHandler(weatherConfig(), client, formatWeather)
	result := handler.Execute(context.Background(), map[string]any{"location": "Austin"})

	assert.Equal(t, skilltypes.StatusCompleted, result.Status)
	assert.Equal(t, "weather-forecast", result.SkillID)
	assert.Equal(t, skilltypes.KindDataRetrieval, result.Kind)
	assert.True(t, handler.ValidateOutput(result.Output))
}

func TestDataRetrievalHandlerFailure(t *testing.T) {
	client := providerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}), "")

	handler := NewDataRetrievalHandler(weatherConfig(), client, formatWeather)
	result := handler.Execute(context.Background(), map[string]any{"location": "Austin"})

	assert.True(t, result.Failed())
	assert.NotEmpty(t, result.Error)
	assert.False(t, handler.ValidateOutput(result.Output))
}

func TestActionHandlerRequiresProfile(t *testing.T) {
	client := providerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the provider")
	}), "")

	handler := NewActionHandler(xPostConfig(), client, formatXPost, xPostTask)
	result := handler.Execute(context.Background(), map[string]any{"content": "hello"})

	assert.True(t, result.Failed())
	assert.Equal(t, "configuration", result.Metadata["error_kind"])
	assert.Contains(t, result.Error, "browser profile")
}

func TestActionHandlerHappyPath(t *testing.T) {
	mux := http.NewServeMux()
	var released atomic.Int32

	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "session-1"})
	})
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		task, _ := body["task"].(string)
		assert.Contains(t, task, "hello world")
		json.NewEncoder(w).Encode(map[string]any{"id": "task-1"})
	})
	mux.HandleFunc("/tasks/task-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": "task-1", "status": "finished", "isSuccess": true,
			"output": "Posted the tweet", "steps": []any{1, 2, 3},
		})
	})
	mux.HandleFunc("/sessions/session-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.NotFound(w, r)
			return
		}
		released.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})

	client := providerClient(t, mux, "profile-1")
	handler := NewActionHandler(xPostConfig(), client, formatXPost, xPostTask)
	result := handler.Execute(context.Background(), map[string]any{"content": "hello world"})

	assert.Equal(t, skilltypes.StatusCompleted, result.Status)
	assert.Equal(t, "completed", result.Metadata["session_state"])
	assert.Equal(t, "task-1", result.Metadata["task_id"])
	assert.Equal(t, 3, result.Metadata["steps"])
	assert.Equal(t, int32(1), released.Load())
}

func TestActionHandlerReleasesSessionOnSubmitFailure(t *testing.T) {
	mux := http.NewServeMux()
	var released atomic.Int32

	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "session-1"})
	})
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "invalid task", http.StatusUnprocessableEntity)
	})
	mux.HandleFunc("/sessions/session-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.NotFound(w, r)
			return
		}
		released.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})

	client := providerClient(t, mux, "profile-1")
	handler := NewActionHandler(xPostConfig(), client, formatXPost, xPostTask)
	result := handler.Execute(context.Background(), map[string]any{"content": "hello"})

	assert.True(t, result.Failed())
	assert.Equal(t, "created", result.Metadata["session_state"])
	assert.Equal(t, int32(1), released.Load())
}

func TestActionHandlerTimeout(t *testing.T) {
	mux := http.NewServeMux()
	var released atomic.Int32

	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "session-1"})
	})
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "task-1"})
	})
	mux.HandleFunc("/tasks/task-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "task-1", "status": "started"})
	})
	mux.HandleFunc("/sessions/session-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.NotFound(w, r)
			return
		}
		released.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})

	client := providerClient(t, mux, "profile-1")
	handler := NewActionHandler(xPostConfig(), client, formatXPost, xPostTask)
	result := handler.Execute(context.Background(), map[string]any{"content": "hello"})

	assert.True(t, result.Failed())
	assert.Equal(t, "timed_out", result.Metadata["session_state"])
	assert.Contains(t, result.Error, "deadline")
	assert.Equal(t, int32(1), released.Load())
}

func TestActionHandlerTaskFailed(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "session-1"})
	})
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "task-1"})
	})
	mux.HandleFunc("/tasks/task-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": "task-1", "status": "failed", "isSuccess": false,
			"output": "login challenge could not be solved",
		})
	})
	mux.HandleFunc("/sessions/session-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	client := providerClient(t, mux, "profile-1")
	handler := NewActionHandler(xPostConfig(), client, formatXPost, xPostTask)
	result := handler.Execute(context.Background(), map[string]any{"content": "hello"})

	assert.True(t, result.Failed())
	assert.Equal(t, "failed", result.Metadata["session_state"])
	assert.Equal(t, "login challenge could not be solved", result.Error)
}
