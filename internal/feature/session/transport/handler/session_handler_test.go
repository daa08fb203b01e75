package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calorie_backend/internal/api"
	analysisdomain "calorie_backend/internal/feature/analysis/domain"
	analysis "calorie_backend/internal/feature/analysis/domain/entity"
	captureusecase "calorie_backend/internal/feature/capture/usecase"
	"calorie_backend/internal/feature/session/domain"
	"calorie_backend/internal/feature/session/domain/entity"
	"calorie_backend/internal/feature/session/transport/handler"
)

const sessionID = "0b7c1c53-7f43-4c52-9a55-6a1f8e0a4f11"

var (
	now      = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
)

// mockSessionUsecase はSessionUsecaseインターフェースのモック実装です。
type mockSessionUsecase struct {
	CreateFunc      func(ctx context.Context) (*entity.Session, error)
	GetFunc         func(ctx context.Context, id string) (*entity.Session, error)
	SelectImageFunc func(ctx context.Context, id string, img analysis.EncodedImage) (*entity.Session, error)
	ClearImageFunc  func(ctx context.Context, id string) (*entity.Session, error)
	CaptureFunc     func(ctx context.Context, id string) (*entity.Session, error)
	AnalyzeFunc     func(ctx context.Context, id string) (*entity.Session, error)
	ReanalyzeFunc   func(ctx context.Context, id string) (*entity.Session, error)
	DeleteFunc      func(ctx context.Context, id string) error
}

func (m *mockSessionUsecase) Create(ctx context.Context) (*entity.Session, error) {
	return m.CreateFunc(ctx)
}

func (m *mockSessionUsecase) Get(ctx context.Context, id string) (*entity.Session, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockSessionUsecase) SelectImage(ctx context.Context, id string, img analysis.EncodedImage) (*entity.Session, error) {
	return m.SelectImageFunc(ctx, id, img)
}

func (m *mockSessionUsecase) ClearImage(ctx context.Context, id string) (*entity.Session, error) {
	return m.ClearImageFunc(ctx, id)
}

func (m *mockSessionUsecase) CaptureFromCamera(ctx context.Context, id string) (*entity.Session, error) {
	return m.CaptureFunc(ctx, id)
}

func (m *mockSessionUsecase) Analyze(ctx context.Context, id string) (*entity.Session, error) {
	return m.AnalyzeFunc(ctx, id)
}

func (m *mockSessionUsecase) Reanalyze(ctx context.Context, id string) (*entity.Session, error) {
	return m.ReanalyzeFunc(ctx, id)
}

func (m *mockSessionUsecase) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

type fakeTokens struct {
	err error
}

func (f fakeTokens) GenerateToken(id string) (string, error) {
	return "token-for-" + id, f.err
}

func setupRouter(uc *mockSessionUsecase, tokens handler.TokenIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	decoder := captureusecase.NewCaptureUsecase(nil, nil, captureusecase.DefaultCameraConfig())
	h := handler.NewSessionHandler(uc, decoder, tokens)

	r := gin.New()
	r.POST("/v1/sessions", h.Create)
	r.GET("/v1/sessions/:id", h.Get)
	r.POST("/v1/sessions/:id/image", h.SelectImage)
	r.DELETE("/v1/sessions/:id/image", h.ClearImage)
	r.POST("/v1/sessions/:id/camera", h.Capture)
	r.POST("/v1/sessions/:id/analyze", h.Analyze)
	r.POST("/v1/sessions/:id/reanalyze", h.Reanalyze)
	r.DELETE("/v1/sessions/:id", h.Delete)
	return r
}

func idleSession() *entity.Session {
	return entity.NewSession(sessionID, now)
}

func selectedSession(img analysis.EncodedImage) *entity.Session {
	s := idleSession()
	s.SelectImage(img, now)
	return s
}

func decodeView(t *testing.T, body []byte) api.SessionView {
	t.Helper()
	var v api.SessionView
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestSessionHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc := &mockSessionUsecase{CreateFunc: func(ctx context.Context) (*entity.Session, error) {
			return idleSession(), nil
		}}
		w := httptest.NewRecorder()
		setupRouter(uc, fakeTokens{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/sessions", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp api.SessionCreatedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "token-for-"+sessionID, resp.Token)
		assert.Equal(t, sessionID, resp.Session.Id.String())
		assert.Equal(t, api.SessionStateIdle, resp.Session.State)
		assert.False(t, resp.Session.HasImage)
	})

	t.Run("token failure", func(t *testing.T) {
		uc := &mockSessionUsecase{CreateFunc: func(ctx context.Context) (*entity.Session, error) {
			return idleSession(), nil
		}}
		w := httptest.NewRecorder()
		setupRouter(uc, fakeTokens{err: errors.New("no secret")}).
			ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/sessions", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"failed to create session"}`, w.Body.String())
	})
}

func TestSessionHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		session        func() *entity.Session
		err            error
		expectedStatus int
		check          func(t *testing.T, v api.SessionView)
	}{
		{
			name: "result ready",
			session: func() *entity.Session {
				s := selectedSession(analysis.EncodedImage{MIMEType: "image/png", Data: pngBytes})
				seq, _, _ := s.BeginAnalysis(now)
				s.CompleteAnalysis(seq, analysis.AnalysisResult{
					Ingredients:               []analysis.Ingredient{{Name: "rice", Grams: 150, Calories: 195.5, AccuracyPercentage: 85}},
					OverallAccuracyPercentage: 62,
				}, now)
				return s
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, v api.SessionView) {
				assert.Equal(t, api.SessionStateResultReady, v.State)
				require.NotNil(t, v.Result)
				assert.Equal(t, int64(196), v.Result.TotalCalories)
				assert.True(t, v.Result.LowAccuracy)
				require.NotNil(t, v.Image)
				assert.True(t, strings.HasPrefix(*v.Image, "data:image/png;base64,"))
				assert.Nil(t, v.ErrorMessage)
			},
		},
		{
			name: "analysis error shows generic message",
			session: func() *entity.Session {
				s := selectedSession(analysis.EncodedImage{Data: pngBytes})
				seq, _, _ := s.BeginAnalysis(now)
				s.FailAnalysis(seq, now)
				return s
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, v api.SessionView) {
				assert.Equal(t, api.SessionStateError, v.State)
				require.NotNil(t, v.ErrorKind)
				assert.Equal(t, api.SessionErrorKindAnalysis, *v.ErrorKind)
				require.NotNil(t, v.ErrorMessage)
				assert.Equal(t, analysisdomain.UserMessage, *v.ErrorMessage)
				assert.Nil(t, v.Result)
			},
		},
		{
			name:           "not found",
			err:            domain.ErrSessionNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "repository failure",
			err:            errors.New("redis down"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockSessionUsecase{GetFunc: func(ctx context.Context, id string) (*entity.Session, error) {
				assert.Equal(t, sessionID, id)
				if tt.err != nil {
					return nil, tt.err
				}
				return tt.session(), nil
			}}

			w := httptest.NewRecorder()
			setupRouter(uc, fakeTokens{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/sessions/"+sessionID, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.check != nil {
				tt.check(t, decodeView(t, w.Body.Bytes()))
			}
		})
	}
}

func TestSessionHandler_SelectImage(t *testing.T) {
	multipartBody := func(t *testing.T, content []byte) (io.Reader, string) {
		body := &bytes.Buffer{}
		mw := multipart.NewWriter(body)
		part, err := mw.CreateFormFile("image", "meal.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		return body, mw.FormDataContentType()
	}

	tests := []struct {
		name           string
		build          func(t *testing.T) (io.Reader, string)
		ucErr          error
		expectedStatus int
		expectedMIME   string
	}{
		{
			name:           "multipart upload",
			build:          func(t *testing.T) (io.Reader, string) { return multipartBody(t, pngBytes) },
			expectedStatus: http.StatusOK,
			expectedMIME:   "image/png",
		},
		{
			name: "data uri from canvas",
			build: func(t *testing.T) (io.Reader, string) {
				uri := analysis.EncodedImage{MIMEType: "image/jpeg", Data: []byte("jpeg")}.DataURI()
				return strings.NewReader(`{"data_uri":"` + uri + `"}`), "application/json"
			},
			expectedStatus: http.StatusOK,
			expectedMIME:   "image/jpeg",
		},
		{
			name: "data uri missing",
			build: func(t *testing.T) (io.Reader, string) {
				return strings.NewReader(`{}`), "application/json"
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "data uri is not an image",
			build: func(t *testing.T) (io.Reader, string) {
				return strings.NewReader(`{"data_uri":"data:text/plain;base64,aGVsbG8="}`), "application/json"
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "text file upload",
			build:          func(t *testing.T) (io.Reader, string) { return multipartBody(t, []byte("plain text")) },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "session missing",
			build:          func(t *testing.T) (io.Reader, string) { return multipartBody(t, pngBytes) },
			ucErr:          domain.ErrSessionNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockSessionUsecase{SelectImageFunc: func(ctx context.Context, id string, img analysis.EncodedImage) (*entity.Session, error) {
				if tt.ucErr != nil {
					return nil, tt.ucErr
				}
				assert.Equal(t, tt.expectedMIME, img.MIMEType)
				return selectedSession(img), nil
			}}

			body, contentType := tt.build(t)
			req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sessionID+"/image", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			setupRouter(uc, fakeTokens{}).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if w.Code == http.StatusOK {
				v := decodeView(t, w.Body.Bytes())
				assert.Equal(t, api.SessionStateImageSelected, v.State)
				assert.True(t, v.HasImage)
			}
		})
	}
}

func TestSessionHandler_Analyze(t *testing.T) {
	analyzing := func() *entity.Session {
		s := selectedSession(analysis.EncodedImage{Data: pngBytes})
		s.BeginAnalysis(now)
		return s
	}

	tests := []struct {
		name           string
		path           string
		result         *entity.Session
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{name: "analyze accepted", path: "/analyze", result: analyzing(), expectedStatus: http.StatusAccepted},
		{name: "reanalyze accepted", path: "/reanalyze", result: analyzing(), expectedStatus: http.StatusAccepted},
		{name: "no image is a no-op", path: "/analyze", result: idleSession(), expectedStatus: http.StatusAccepted},
		{
			name: "already analyzing", path: "/analyze", err: domain.ErrAnalysisInProgress,
			expectedStatus: http.StatusConflict, expectedBody: `{"error":"analysis already in progress"}`,
		},
		{
			name: "not found", path: "/reanalyze", err: domain.ErrSessionNotFound,
			expectedStatus: http.StatusNotFound, expectedBody: `{"error":"session not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := func(ctx context.Context, id string) (*entity.Session, error) {
				return tt.result, tt.err
			}
			uc := &mockSessionUsecase{AnalyzeFunc: fn, ReanalyzeFunc: fn}

			w := httptest.NewRecorder()
			setupRouter(uc, fakeTokens{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sessionID+tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			} else {
				assert.Equal(t, api.SessionState(tt.result.State), decodeView(t, w.Body.Bytes()).State)
			}
		})
	}
}

func TestSessionHandler_Capture_DeviceError(t *testing.T) {
	uc := &mockSessionUsecase{CaptureFunc: func(ctx context.Context, id string) (*entity.Session, error) {
		s := idleSession()
		s.FailDevice("Could not access camera. Please ensure you have granted camera permissions.", now)
		return s, nil
	}}

	w := httptest.NewRecorder()
	setupRouter(uc, fakeTokens{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sessionID+"/camera", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	v := decodeView(t, w.Body.Bytes())
	assert.Equal(t, api.SessionStateError, v.State)
	require.NotNil(t, v.ErrorKind)
	assert.Equal(t, api.SessionErrorKindDevice, *v.ErrorKind)
	require.NotNil(t, v.ErrorMessage)
	assert.Contains(t, *v.ErrorMessage, "Could not access camera")
}

func TestSessionHandler_ClearImageAndDelete(t *testing.T) {
	uc := &mockSessionUsecase{
		ClearImageFunc: func(ctx context.Context, id string) (*entity.Session, error) { return idleSession(), nil },
		DeleteFunc:     func(ctx context.Context, id string) error { return nil },
	}
	router := setupRouter(uc, fakeTokens{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+sessionID+"/image", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, api.SessionStateIdle, decodeView(t, w.Body.Bytes()).State)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+sessionID, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
