package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/animechat/backend/internal/auth"
	"github.com/animechat/backend/internal/chat"
	"github.com/animechat/backend/internal/config"
	"github.com/animechat/backend/internal/database"
	"github.com/animechat/backend/internal/jikan"
	"github.com/animechat/backend/internal/kernel"
	"github.com/animechat/backend/internal/logger"
	"github.com/animechat/backend/internal/models"
	"github.com/animechat/backend/internal/recommend"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	_ = logger.Initialize("error", "")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeCatalog serves canned catalog data for handler tests
type fakeCatalog struct {
	results map[string][]jikan.Anime
	top     []jikan.Anime
}

func (f *fakeCatalog) Search(ctx context.Context, query string) ([]jikan.Anime, error) {
	return f.results[query], nil
}

func (f *fakeCatalog) Top(ctx context.Context) ([]jikan.Anime, error) {
	return f.top, nil
}

func score(v float64) *float64 { return &v }

type HandlersTestSuite struct {
	suite.Suite
	router  *gin.Engine
	catalog *fakeCatalog
	token   string
	userID  string
}

var handlersDBCounter int

func (s *HandlersTestSuite) SetupTest() {
	handlersDBCounter++
	dsn := fmt.Sprintf("file:handlerstest%d?mode=memory&cache=shared", handlersDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(&models.User{}, &models.HistoryEntry{}, &models.Feedback{}))
	database.DB = db

	s.catalog = &fakeCatalog{
		results: map[string][]jikan.Anime{
			"Naruto": {
				{Title: "Naruto", Score: score(7.99), Synopsis: "A young ninja.", Episodes: 220, Status: "Finished Airing", Genres: []string{"Action"}, URL: "https://myanimelist.net/anime/20", ImageURL: "https://cdn.example/naruto.jpg"},
			},
		},
		top: []jikan.Anime{
			{Title: "Frieren", Score: score(9.3)},
		},
	}

	cfg := config.Load()
	cfg.JWTSecret = "handlers-test-secret"

	k := kernel.New().
		SetDB(db).
		SetLogger(logger.Log).
		SetCatalog(s.catalog).
		SetAuthService(auth.NewService([]byte(cfg.JWTSecret))).
		SetResolver(chat.NewResolver(s.catalog, cfg.SimilarityThreshold))
	k.SetRecommender(recommend.NewService(
		s.catalog,
		recommend.NewGormHistoryStore(db),
		recommend.NewProfileBuilder(s.catalog, cfg.TopGenreCount),
		recommend.NewFetcher(s.catalog, cfg.FetchWorkers),
		recommend.NewRanker(cfg.EpisodeSlackFactor, cfg.MaxRecommendations),
	))

	s.router = gin.New()
	New(k, cfg).RegisterRoutes(s.router)

	// Register a user and keep its token for protected routes
	resp := s.request("POST", "/api/v1/auth/register", map[string]interface{}{
		"email":        "rin@example.com",
		"username":     "rin",
		"password":     "password123",
		"display_name": "Rin",
	}, "")
	s.Require().Equal(http.StatusCreated, resp.Code, resp.Body.String())

	var authResp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	s.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &authResp))
	s.token = authResp.Token
	s.userID = authResp.User.ID
}

func (s *HandlersTestSuite) TearDownTest() {
	if database.DB != nil {
		sqlDB, _ := database.DB.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		database.DB = nil
	}
}

// request performs one JSON request against the test router
func (s *HandlersTestSuite) request(method, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlersTestSuite) TestLoginAndMe() {
	resp := s.request("POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    "rin@example.com",
		"password": "password123",
	}, "")
	s.Equal(http.StatusOK, resp.Code)

	resp = s.request("GET", "/api/v1/auth/me", nil, s.token)
	s.Equal(http.StatusOK, resp.Code)

	var user struct {
		Username string `json:"username"`
	}
	s.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &user))
	s.Equal("rin", user.Username)
}

func (s *HandlersTestSuite) TestLoginBadCredentials() {
	resp := s.request("POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    "rin@example.com",
		"password": "wrong-password",
	}, "")
	s.Equal(http.StatusUnauthorized, resp.Code)
}

func (s *HandlersTestSuite) TestRegisterDuplicateEmail() {
	resp := s.request("POST", "/api/v1/auth/register", map[string]interface{}{
		"email":        "rin@example.com",
		"username":     "other",
		"password":     "password123",
		"display_name": "Other",
	}, "")
	s.Equal(http.StatusConflict, resp.Code)
}

func (s *HandlersTestSuite) TestProtectedRoutesRequireToken() {
	s.Equal(http.StatusUnauthorized, s.request("POST", "/api/v1/chat", map[string]interface{}{"message": "hi"}, "").Code)
	s.Equal(http.StatusUnauthorized, s.request("GET", "/api/v1/recommendations", nil, "").Code)
	s.Equal(http.StatusUnauthorized, s.request("GET", "/api/v1/history", nil, "").Code)
	s.Equal(http.StatusUnauthorized, s.request("GET", "/api/v1/history", nil, "garbage-token").Code)
}

func (s *HandlersTestSuite) TestChatSavesHistoryOnMatch() {
	resp := s.request("POST", "/api/v1/chat", map[string]interface{}{
		"message": "tell me about Naruto",
	}, s.token)
	s.Require().Equal(http.StatusOK, resp.Code, resp.Body.String())

	var chatResp struct {
		Outcome string `json:"outcome"`
		Message string `json:"message"`
	}
	s.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &chatResp))
	s.Equal("matched", chatResp.Outcome)
	s.Contains(chatResp.Message, "**Title:** Naruto")

	var entries []models.HistoryEntry
	s.Require().NoError(database.DB.Where("user_id = ?", s.userID).Find(&entries).Error)
	s.Require().Len(entries, 1)
	s.Equal("Naruto", entries[0].Query)
	s.Equal("https://cdn.example/naruto.jpg", entries[0].ImageURL)
}

func (s *HandlersTestSuite) TestChatNotFoundIsNotSaved() {
	resp := s.request("POST", "/api/v1/chat", map[string]interface{}{
		"message": "tell me about nothing that exists",
	}, s.token)
	s.Require().Equal(http.StatusOK, resp.Code)

	var chatResp struct {
		Outcome string `json:"outcome"`
	}
	s.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &chatResp))
	s.Equal("not_found", chatResp.Outcome)

	var count int64
	database.DB.Model(&models.HistoryEntry{}).Where("user_id = ?", s.userID).Count(&count)
	s.Zero(count)
}

func (s *HandlersTestSuite) TestSearchAssistance() {
	resp := s.request("POST", "/api/v1/search-assistance", map[string]interface{}{
		"query": "Naruto",
	}, "")
	s.Require().Equal(http.StatusOK, resp.Code)

	var result struct {
		Suggestions []string `json:"suggestions"`
	}
	s.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &result))
	s.Equal([]string{"Naruto"}, result.Suggestions)
}

func (s *HandlersTestSuite) TestRecommendationsForNewUserServeTrending() {
	resp := s.request("GET", "/api/v1/recommendations", nil, s.token)
	s.Require().Equal(http.StatusOK, resp.Code, resp.Body.String())

	var result struct {
		Recommendations []jikan.Anime `json:"recommendations"`
		Count           int           `json:"count"`
	}
	s.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &result))
	s.Equal(1, result.Count)
	s.Equal("Frieren", result.Recommendations[0].Title)
}

func (s *HandlersTestSuite) TestTrendingWithoutCache() {
	resp := s.request("GET", "/api/v1/trending", nil, "")
	s.Require().Equal(http.StatusOK, resp.Code)

	var result struct {
		Trending []jikan.Anime `json:"trending"`
		Cached   bool          `json:"cached"`
	}
	s.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &result))
	s.False(result.Cached)
	s.Len(result.Trending, 1)
}

func (s *HandlersTestSuite) TestFeedback() {
	resp := s.request("POST", "/api/v1/feedback", map[string]interface{}{
		"anime_title": "Naruto",
		"feedback":    "like",
	}, s.token)
	s.Require().Equal(http.StatusCreated, resp.Code, resp.Body.String())

	resp = s.request("POST", "/api/v1/feedback", map[string]interface{}{
		"anime_title": "Naruto",
		"feedback":    "meh",
	}, s.token)
	s.Equal(http.StatusBadRequest, resp.Code)
}

func (s *HandlersTestSuite) TestHistoryLifecycle() {
	// Two matched chats, then read back newest first, then clear
	for range [2]struct{}{} {
		resp := s.request("POST", "/api/v1/chat", map[string]interface{}{
			"message": "Naruto",
		}, s.token)
		s.Require().Equal(http.StatusOK, resp.Code)
	}

	resp := s.request("GET", "/api/v1/history", nil, s.token)
	s.Require().Equal(http.StatusOK, resp.Code)

	var list struct {
		History []models.HistoryEntry `json:"history"`
		Count   int                   `json:"count"`
	}
	s.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &list))
	s.Equal(2, list.Count)

	resp = s.request("DELETE", "/api/v1/history", nil, s.token)
	s.Require().Equal(http.StatusOK, resp.Code)

	var deleted struct {
		Deleted int64 `json:"deleted"`
	}
	s.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &deleted))
	s.Equal(int64(2), deleted.Deleted)

	resp = s.request("GET", "/api/v1/history", nil, s.token)
	s.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &list))
	s.Equal(0, list.Count)
}

func (s *HandlersTestSuite) TestHealth() {
	resp := s.request("GET", "/health", nil, "")
	s.Equal(http.StatusOK, resp.Code)
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
