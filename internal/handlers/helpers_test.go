// helpers_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go_vocab_study/internal/config"
	"go_vocab_study/internal/handlers"
	"go_vocab_study/internal/model"
	"go_vocab_study/internal/repository"
	"go_vocab_study/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

const testTemplate = `{"words":[
  {"id":1,"kanji":"行く","romaji":"iku","english":"to go","group":"Core Verbs","correct_count":0,"wrong_count":0},
  {"id":2,"kanji":"本","romaji":"hon","english":"book","group":"Basic Nouns","correct_count":0,"wrong_count":0}
]}`

// testEnv はテストごとに独立したデータディレクトリで組み立てたルーター
type testEnv struct {
	router     http.Handler
	store      repository.RecordStore
	masterPath string
}

func newTestEnv(t *testing.T, masterWords []model.Word) *testEnv {
	t.Helper()
	dir := t.TempDir()

	masterPath := filepath.Join(dir, "sample_words.json")
	data, err := json.Marshal(model.WordList{Words: masterWords})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(masterPath, data, 0o644))

	templatePath := filepath.Join(dir, "vocabulary_template.json")
	require.NoError(t, os.WriteFile(templatePath, []byte(testTemplate), 0o644))

	store := repository.NewFileRecordStore(filepath.Join(dir, "data"))
	return newTestEnvWithStore(t, store, masterPath, templatePath)
}

func newTestEnvWithStore(t *testing.T, store repository.RecordStore, masterPath, templatePath string) *testEnv {
	t.Helper()
	cfg := config.Default()
	cfg.Upload.MaxBytes = 1 << 20
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := service.FixedClock{T: testNow}

	router := handlers.NewRouter(handlers.RouterDeps{
		Config:   cfg,
		Store:    store,
		Words:    service.NewWordService(repository.NewFileWordRepository(masterPath), store, cfg.App.WordGroups),
		Sessions: service.NewSessionService(store, clock),
		Study: service.NewStudyService(store, repository.NewFileTemplateRepository(templatePath),
			model.Settings{Theme: cfg.Settings.Theme, TextColor: cfg.Settings.TextColor}, clock),
		History: service.NewHistoryService(store),
		Logger:  logger,
	})
	return &testEnv{router: router, store: store, masterPath: masterPath}
}

// executeRequest はテスト用のHTTPリクエストを実行し、レスポンスレコーダーを返します。
func (e *testEnv) executeRequest(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// createRequest はテスト用のHTTPリクエストを作成します。body が string ならそのまま送ります。
func createRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var reqBody io.Reader = http.NoBody
	if body != nil {
		switch b := body.(type) {
		case string:
			reqBody = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBody = bytes.NewBuffer(data)
		}
	}
	req := httptest.NewRequest(method, url, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// createUploadRequest は file フィールドに content を載せた multipart リクエストを作成します
func createUploadRequest(t *testing.T, url, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// verifyErrorResponse はエラーレスポンスのボディの code を検証します。
func verifyErrorResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedCode string) model.ErrorDetail {
	t.Helper()
	var errResp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp), "body: %s", rr.Body.String())
	assert.Equal(t, expectedCode, errResp.Error.Code)
	assert.NotEmpty(t, errResp.Error.Message)
	return errResp.Error
}

// brokenStore は常に保存先エラーを返す RecordStore
type brokenStore struct{}

var errBroken = errors.New("disk unavailable")

func (brokenStore) Load(ctx context.Context, key string, dst any) (bool, error) {
	return false, errors.Join(model.ErrStorage, errBroken)
}

func (brokenStore) Save(ctx context.Context, key string, doc any) error {
	return errors.Join(model.ErrStorage, errBroken)
}

func (brokenStore) Clear(ctx context.Context, key string) error {
	return errors.Join(model.ErrStorage, errBroken)
}

func (brokenStore) Ping(ctx context.Context) error {
	return errors.Join(model.ErrStorage, errBroken)
}

func (brokenStore) Lock(key string) func() { return func() {} }
