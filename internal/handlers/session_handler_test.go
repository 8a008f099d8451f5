package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionHandler_Lifecycle(t *testing.T) {
	env := newTestEnv(t, nil)

	// 空の一覧
	rr := env.executeRequest(createRequest(t, http.MethodGet, "/api/sessions", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	// 作成: クライアント独自のフィールドは保持される
	rr = env.executeRequest(createRequest(t, http.MethodPost, "/api/sessions",
		`{"id": 50, "correct_count": 4, "wrong_count": 1, "name": "朝の復習", "words_reviewed": [1, 2]}`))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.EqualValues(t, 1, created["id"])
	assert.Equal(t, "2025-03-10T09:00:00Z", created["start_time"])
	assert.Nil(t, created["end_time"])
	assert.Equal(t, "朝の復習", created["name"])
	assert.EqualValues(t, 4, created["correct_count"])

	rr = env.executeRequest(createRequest(t, http.MethodPost, "/api/sessions", `{}`))
	require.Equal(t, http.StatusOK, rr.Code)

	// 置き換え: 受け取った内容がそのまま返る
	update := `{"id": 1, "start_time": "2025-03-10T09:00:00.123456", "end_time": "2025-03-10T09:20:00", "correct_count": 9, "wrong_count": 0, "words_reviewed": [], "score": 90}`
	rr = env.executeRequest(createRequest(t, http.MethodPut, "/api/sessions", update))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, update, rr.Body.String())

	rr = env.executeRequest(createRequest(t, http.MethodGet, "/api/sessions", nil))
	var sessions []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sessions))
	require.Len(t, sessions, 2)
	assert.Equal(t, "2025-03-10T09:00:00.123456", sessions[0]["start_time"])
	assert.EqualValues(t, 90, sessions[0]["score"])
	assert.Nil(t, sessions[0]["name"])

	// 削除
	rr = env.executeRequest(createRequest(t, http.MethodDelete, "/api/sessions/1", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"success","message":"Session deleted successfully"}`, rr.Body.String())
}

func TestSessionHandler_PostIgnoresClientTimes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "解釈できない start_time", body: `{"start_time": "yesterday", "correct_count": 2}`},
		{name: "文字列でない end_time", body: `{"end_time": 12345, "correct_count": 2}`},
		{name: "正しい形式でも上書き", body: `{"start_time": "2020-01-01T00:00:00Z", "end_time": "2020-01-01T00:10:00Z", "correct_count": 2}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, nil)

			rr := env.executeRequest(createRequest(t, http.MethodPost, "/api/sessions", tc.body))

			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			var created map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
			assert.Equal(t, "2025-03-10T09:00:00Z", created["start_time"])
			assert.Nil(t, created["end_time"])
			assert.EqualValues(t, 2, created["correct_count"])
		})
	}
}

func TestSessionHandler_Errors(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "異常系: 存在しないセッションの削除",
			method:         http.MethodDelete,
			path:           "/api/sessions/42",
			expectedStatus: http.StatusNotFound,
			expectedCode:   "SESSION_NOT_FOUND",
		},
		{
			name:           "異常系: IDが数値でない",
			method:         http.MethodDelete,
			path:           "/api/sessions/x",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_URL_PARAM",
		},
		{
			name:           "異常系: PUT で id が無い",
			method:         http.MethodPut,
			path:           "/api/sessions",
			body:           `{"correct_count": 1}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "異常系: カウントが負",
			method:         http.MethodPost,
			path:           "/api/sessions",
			body:           `{"correct_count": -1}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "異常系: start_time の形式が不正",
			method:         http.MethodPut,
			path:           "/api/sessions",
			body:           `{"id": 1, "start_time": "yesterday"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST_BODY",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, nil)

			rr := env.executeRequest(createRequest(t, tc.method, tc.path, tc.body))

			assert.Equal(t, tc.expectedStatus, rr.Code)
			verifyErrorResponse(t, rr, tc.expectedCode)
		})
	}
}

func TestSessionHandler_StorageFailure(t *testing.T) {
	env := newTestEnvWithStore(t, brokenStore{}, "unused.json", "unused.json")

	rr := env.executeRequest(createRequest(t, http.MethodGet, "/api/sessions", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	verifyErrorResponse(t, rr, "INTERNAL_SERVER_ERROR")
}
