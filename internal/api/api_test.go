package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/reviewpulse/internal/auth"
	"github.com/spacesedan/reviewpulse/internal/batch"
	"github.com/spacesedan/reviewpulse/internal/models"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
	"github.com/spacesedan/reviewpulse/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wholeTextSplitter struct{}

func (wholeTextSplitter) Split(text string) []string { return []string{text} }

type memoryCreds struct {
	mu    sync.Mutex
	users map[string]string
}

func (m *memoryCreds) CreateUser(_ context.Context, username, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return auth.ErrInvalidCredentials
	}
	if _, ok := m.users[username]; ok {
		return auth.ErrUserExists
	}
	m.users[username] = password
	return nil
}

func (m *memoryCreds) ValidateUser(_ context.Context, username, password string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[strings.TrimSpace(username)]
	return ok && stored == password, nil
}

func (m *memoryCreds) Close() error { return nil }

func newTestRouter(t *testing.T, displayLimit int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	scorer := sentiment.ScorerFunc(func(text string) float64 {
		lower := strings.ToLower(text)
		switch {
		case strings.Contains(lower, "love"):
			return 0.6369
		case strings.Contains(lower, "terrible"):
			return -0.4767
		}
		return 0
	})
	analyzer := sentiment.NewAnalyzer(scorer, wholeTextSplitter{})
	creds := &memoryCreds{users: map[string]string{"alice": "pw"}}

	srv := NewServer(analyzer, batch.NewAggregator(analyzer, 2), creds, session.NewMemoryStore(time.Hour), Options{
		SessionTTL:   time.Hour,
		DisplayLimit: displayLimit,
	})
	return srv.Router()
}

func doJSON(t *testing.T, r http.Handler, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func multipartCSV(t *testing.T, method, path, filename, csv string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(csv))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, 200)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAnalyzeReview(t *testing.T) {
	r := newTestRouter(t, 200)

	t.Run("blank text is rejected", func(t *testing.T) {
		w, body := doJSON(t, r, "/api/analyze-review", `{"text":"   "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, sentiment.ErrInvalidInput.Error(), body["error"])
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		w, body := doJSON(t, r, "/api/analyze-review", `{"text":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, body["error"], "JSON")
	})

	t.Run("off-domain text is turned away", func(t *testing.T) {
		w, body := doJSON(t, r, "/api/analyze-review", `{"text":"I love pizza"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, body["relevant"])
		assert.Equal(t, rejectionMessage, body["message"])
		assert.NotContains(t, body, "sentiment")
	})

	t.Run("enforcement can be disabled", func(t *testing.T) {
		w, body := doJSON(t, r, "/api/analyze-review", `{"text":"I love pizza","enforce_relevance":false}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, body["relevant"])
		assert.Equal(t, "Positive", body["sentiment"])
		assert.Equal(t, []any{}, body["aspects"])
	})

	t.Run("relevant review is analyzed", func(t *testing.T) {
		w, body := doJSON(t, r, "/api/analyze-review", `{"text":"I love the battery on this watch"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, body["relevant"])
		assert.Equal(t, "Positive", body["sentiment"])
		assert.Equal(t, 0.637, body["polarity"])
		assert.Equal(t, 63.7, body["confidence"])

		aspects, ok := body["aspects"].([]any)
		require.True(t, ok)
		require.NotEmpty(t, aspects)
		assert.Equal(t, "Battery", aspects[0].(map[string]any)["aspect"])
	})
}

func TestAnalyzeBatch(t *testing.T) {
	r := newTestRouter(t, 200)
	csv := "id,review\n1,Love the battery life!\n2,\n3,\"Terrible screen, cracked.\"\n4,Nice weather\n"

	t.Run("summary and rows", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartCSV(t, http.MethodPost, "/api/analyze-batch", "reviews.csv", csv, nil))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp models.BatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.Equal(t, 4, resp.Summary.TotalRows)
		assert.Equal(t, "review", resp.Summary.TextColumn)
		assert.Equal(t, 2, resp.Summary.RelevantCount)
		assert.Equal(t, 1, resp.Summary.IrrelevantCount)
		require.Len(t, resp.Results, 4)
		assert.Nil(t, resp.Results[1].Relevant)
		assert.False(t, *resp.Results[3].Relevant)
	})

	t.Run("missing file", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartCSV(t, http.MethodPost, "/api/analyze-batch", "", "", map[string]string{"text_column": "review"}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "no file uploaded")
	})

	t.Run("unknown column", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartCSV(t, http.MethodPost, "/api/analyze-batch", "reviews.csv", csv, map[string]string{"text_column": "body"}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "not found")
	})

	t.Run("no text columns", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartCSV(t, http.MethodPost, "/api/analyze-batch", "nums.csv", "a,b\n1,2\n", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "no text-like columns")
	})

	t.Run("unreadable csv", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartCSV(t, http.MethodPost, "/api/analyze-batch", "empty.csv", "", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func postForm(r http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", sessionCookie)
	return nil
}

func TestPagesRequireSession(t *testing.T) {
	r := newTestRouter(t, 200)

	for _, path := range []string{"/", "/batch"} {
		w := get(r, path)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}

	w := get(r, "/", &http.Cookie{Name: sessionCookie, Value: "forged"})
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestPagesRejectJSONClientsWithoutSession(t *testing.T) {
	r := newTestRouter(t, 200)

	req := httptest.NewRequest(http.MethodGet, "/batch", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.JSONEq(t, `{"error":"login required"}`, w.Body.String())
}

func TestSignupLoginLogout(t *testing.T) {
	r := newTestRouter(t, 200)

	w := postForm(r, "/signup", url.Values{"username": {"bob"}, "password": {"hunter2"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	cookie := sessionFrom(t, w)

	w = get(r, "/", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bob")

	w = get(r, "/login", cookie)
	assert.Equal(t, http.StatusFound, w.Code)

	w = postForm(r, "/signup", url.Values{"username": {"bob"}, "password": {"x"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already taken")

	w = postForm(r, "/logout", url.Values{}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = get(r, "/", cookie)
	assert.Equal(t, http.StatusFound, w.Code)

	w = postForm(r, "/login", url.Values{"username": {"bob"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username or password.")

	w = postForm(r, "/login", url.Values{"username": {"  bob "}, "password": {"hunter2"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	sessionFrom(t, w)

	w = postForm(r, "/login", url.Values{"username": {""}, "password": {""}})
	assert.Contains(t, w.Body.String(), "Please enter both username and password.")
}

func login(t *testing.T, r http.Handler) *http.Cookie {
	t.Helper()
	w := postForm(r, "/login", url.Values{"username": {"alice"}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	return sessionFrom(t, w)
}

func TestSingleReviewPage(t *testing.T) {
	r := newTestRouter(t, 200)
	cookie := login(t, r)

	w := postForm(r, "/", url.Values{"review_text": {""}}, cookie)
	assert.Contains(t, w.Body.String(), "Please enter a review to analyze.")

	w = postForm(r, "/", url.Values{"review_text": {"I love pizza"}}, cookie)
	assert.Contains(t, w.Body.String(), "does not appear to be a smartwatch/product review")
	assert.NotContains(t, w.Body.String(), "Overall sentiment")

	w = postForm(r, "/", url.Values{"review_text": {"I love pizza"}, "proceed_anyway": {"1"}}, cookie)
	assert.Contains(t, w.Body.String(), "Overall sentiment")

	w = postForm(r, "/", url.Values{"review_text": {"I love the battery"}}, cookie)
	body := w.Body.String()
	assert.Contains(t, body, "Positive")
	assert.Contains(t, body, "0.637")
	assert.Contains(t, body, "Battery")
}

func TestBatchPage(t *testing.T) {
	r := newTestRouter(t, 2)
	cookie := login(t, r)

	csv := "review\nLove the strap\nTerrible battery\nLove the screen\n"
	req := multipartCSV(t, http.MethodPost, "/batch", "reviews.csv", csv, nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Rows: 3")
	assert.Contains(t, body, "Love the strap")
	assert.NotContains(t, body, "Love the screen")
	assert.Contains(t, body, "1 more rows not shown.")

	req = multipartCSV(t, http.MethodPost, "/batch", "", "", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), "Please upload a CSV file.")
}

func TestMapHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, MapHTTPStatus(batch.ErrNoTextColumn))
	assert.Equal(t, http.StatusConflict, MapHTTPStatus(auth.ErrUserExists))
	assert.Equal(t, http.StatusInternalServerError, MapHTTPStatus(context.Canceled))
}
