//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func TestRemoteAPI_MainEndpoints(t *testing.T) {
	baseURL := strings.TrimRight(envOr("E2E_BASE_URL", "http://localhost:8080"), "/")
	client := &http.Client{Timeout: 20 * time.Second}
	suffix := time.Now().UTC().Format("20060102150405")
	first, second := "E2E Ramen "+suffix, "E2E Tacos "+suffix

	t.Run("health", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodGet, baseURL+"/api/health", nil)
		if status != http.StatusOK {
			t.Fatalf("health status=%d body=%s", status, string(body))
		}
	})

	t.Run("create meal rejects bad difficulty", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/create-meal", map[string]any{
			"meal": "E2E Broken " + suffix, "cuisine": "None", "price": 5, "difficulty": "EXTREME",
		})
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d body=%s", status, string(body))
		}
	})

	t.Run("create prep battle leaderboard ops", func(t *testing.T) {
		var ids []float64
		for _, req := range []map[string]any{
			{"meal": first, "cuisine": "Japanese", "price": 13.5, "difficulty": "HIGH"},
			{"meal": second, "cuisine": "Mexican", "price": 9.25, "difficulty": "LOW"},
		} {
			status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/create-meal", req)
			if status != http.StatusCreated {
				t.Fatalf("create status=%d body=%s", status, string(body))
			}
			var created map[string]any
			if err := json.Unmarshal(body, &created); err != nil {
				t.Fatalf("unmarshal create: %v body=%s", err, string(body))
			}
			id, _ := asMap(created["meal"])["id"].(float64)
			ids = append(ids, id)
		}
		t.Cleanup(func() {
			for _, id := range ids {
				doRequest(client, http.MethodDelete, fmt.Sprintf("%s/api/delete-meal/%d", baseURL, int64(id)), nil)
			}
		})

		status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/clear-combatants", nil)
		if status != http.StatusOK {
			t.Fatalf("clear combatants status=%d body=%s", status, string(body))
		}
		for _, name := range []string{first, second} {
			status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/prep-combatant", map[string]any{"meal": name})
			if status != http.StatusOK {
				t.Fatalf("prep %s status=%d body=%s", name, status, string(body))
			}
		}

		status, body = mustJSON(t, client, http.MethodGet, baseURL+"/api/battle", nil)
		if status != http.StatusOK {
			t.Fatalf("battle status=%d body=%s", status, string(body))
		}
		var fight map[string]any
		if err := json.Unmarshal(body, &fight); err != nil {
			t.Fatalf("unmarshal battle: %v body=%s", err, string(body))
		}
		winner, _ := fight["winner"].(string)
		if winner != first && winner != second {
			t.Fatalf("unexpected winner %q", winner)
		}

		status, body = mustJSON(t, client, http.MethodGet, baseURL+"/api/get-combatants", nil)
		if status != http.StatusOK {
			t.Fatalf("get combatants status=%d body=%s", status, string(body))
		}
		var combatants map[string]any
		if err := json.Unmarshal(body, &combatants); err != nil {
			t.Fatalf("unmarshal combatants: %v body=%s", err, string(body))
		}
		if left := asSlice(combatants["combatants"]); len(left) != 1 {
			t.Fatalf("expected one surviving combatant, got %v", left)
		}

		status, body = mustJSON(t, client, http.MethodGet, baseURL+"/api/leaderboard?sort=win_pct", nil)
		if status != http.StatusOK {
			t.Fatalf("leaderboard status=%d body=%s", status, string(body))
		}
		var board map[string]any
		if err := json.Unmarshal(body, &board); err != nil {
			t.Fatalf("unmarshal leaderboard: %v body=%s", err, string(body))
		}
		if len(asSlice(board["leaderboard"])) == 0 {
			t.Fatalf("expected leaderboard entries")
		}

		status, body = mustJSON(t, client, http.MethodGet, baseURL+"/ops/kpi", nil)
		if status != http.StatusOK {
			t.Fatalf("kpi status=%d body=%s", status, string(body))
		}
		var kpi map[string]any
		if err := json.Unmarshal(body, &kpi); err != nil {
			t.Fatalf("unmarshal kpi: %v body=%s", err, string(body))
		}
		if _, ok := kpi["battle_total"]; !ok {
			t.Fatalf("expected battle_total in kpi response")
		}
	})
}

func mustJSON(t *testing.T, client *http.Client, method, url string, body map[string]any) (int, []byte) {
	t.Helper()
	status, respBody, err := doRequest(client, method, url, body)
	if err != nil {
		t.Fatalf("%s %s request failed: %v", method, url, err)
	}
	return status, respBody
}

func doRequest(client *http.Client, method, url string, body map[string]any) (int, []byte, error) {
	var payloadBytes []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		payloadBytes = b
	}

	var lastStatus int
	var lastBody []byte
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		var payload io.Reader
		if len(payloadBytes) > 0 {
			payload = bytes.NewReader(payloadBytes)
		}
		req, err := http.NewRequest(method, url, payload)
		if err != nil {
			return 0, nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		lastStatus, lastBody, lastErr = resp.StatusCode, respBody, nil
		if resp.StatusCode >= 500 {
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		return resp.StatusCode, respBody, nil
	}
	if lastErr != nil {
		return 0, nil, lastErr
	}
	return lastStatus, lastBody, nil
}

func envOr(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}
