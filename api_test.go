package main

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"chirp/storage/models"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	openapi3_routers "github.com/getkin/kin-openapi/routers"
	openapi3_legacy "github.com/getkin/kin-openapi/routers/legacy"
	"github.com/stretchr/testify/suite"
)

//go:embed api.yaml
var apiSpec []byte

var ctx = context.Background()

const baseUrl = "http://localhost:8091"

func TestAPI(t *testing.T) {
	suite.Run(t, &APISuite{})
}

type APISuite struct {
	suite.Suite

	client        http.Client
	apiSpecRouter openapi3_routers.Router
}

// fakeDirectory resolves every requested id to a profile whose username is
// the id itself, so any authenticated caller's posts render.
func fakeDirectory() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		type userRecord struct {
			Id              string `json:"id"`
			Username        string `json:"username"`
			ProfileImageUrl string `json:"profileImageUrl"`
		}
		users := make([]userRecord, 0)
		for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
			if id == "" {
				continue
			}
			users = append(users, userRecord{
				Id:              id,
				Username:        id,
				ProfileImageUrl: "https://img.example/" + id + ".png",
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(users)
	}))
}

func (s *APISuite) SetupSuite() {
	directoryServer := fakeDirectory()

	os.Setenv("SERVER_PORT", "8091")
	os.Setenv("STORAGE_MODE", "inmemory")
	os.Setenv("LIMITER_MODE", "inmemory")
	os.Setenv("DIRECTORY_URL", directoryServer.URL)

	srv := CreateServer()
	go func() {
		log.Printf("Start serving on %s", srv.Addr)
		log.Fatal(srv.ListenAndServe())
	}()

	// Wait until the server goroutine has bound the port before running tests.
	deadline := time.Now().Add(5 * time.Second)
	for {
		conn, err := net.Dial("tcp", "localhost:8091")
		if err == nil {
			conn.Close()
			break
		}
		if time.Now().After(deadline) {
			s.Require().NoError(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	spec, err := openapi3.NewLoader().LoadFromData(apiSpec)
	s.Require().NoError(err)
	s.Require().NoError(spec.Validate(ctx))
	router, err := openapi3_legacy.NewRouter(spec)
	s.Require().NoError(err)
	s.apiSpecRouter = router
	s.client.Transport = s.specValidating(http.DefaultTransport)
}

// specValidating checks every exchange against the embedded OpenAPI contract.
func (s *APISuite) specValidating(transport http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		reqBody := s.readBody(&req.Body)

		route, params, err := s.apiSpecRouter.FindRoute(req)
		s.Require().NoError(err)
		reqDescriptor := &openapi3filter.RequestValidationInput{
			Request:     req,
			PathParams:  params,
			QueryParams: req.URL.Query(),
			Route:       route,
		}
		s.Require().NoError(openapi3filter.ValidateRequest(ctx, reqDescriptor))

		req.Body = io.NopCloser(bytes.NewReader(reqBody))
		resp, err := transport.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		respBody := s.readBody(&resp.Body)

		s.Require().NoError(openapi3filter.ValidateResponse(ctx, &openapi3filter.ResponseValidationInput{
			RequestValidationInput: reqDescriptor,
			Status:                 resp.StatusCode,
			Header:                 resp.Header,
			Body:                   io.NopCloser(bytes.NewReader(respBody)),
		}))

		return resp, nil
	})
}

func (s *APISuite) readBody(body *io.ReadCloser) []byte {
	if *body == nil {
		return nil
	}
	data, err := io.ReadAll(*body)
	s.Require().NoError(err)
	*body = io.NopCloser(bytes.NewReader(data))
	return data
}

type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (fn RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

func (s *APISuite) createPost(userId, content string) *http.Response {
	body := fmt.Sprintf(`{"content": %q}`, content)
	req, err := http.NewRequest("POST", baseUrl+"/api/v1/posts", strings.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if userId != "" {
		req.Header.Set("X-User-Id", userId)
	}
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *APISuite) get(url string) *http.Response {
	req, err := http.NewRequest("GET", url, nil)
	s.Require().NoError(err)
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	return resp
}

type feedResponse struct {
	Posts []models.PostWithAuthor `json:"posts"`
}

func (s *APISuite) TestCreateAndListFlow() {
	resp := s.createPost("u-flow", "😀🎉")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var created models.Post
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&created))
	s.Require().Equal("😀🎉", created.Content)
	s.Require().Equal("u-flow", created.AuthorId)
	s.Require().NotEmpty(created.Id)

	// Single post fetch, no enrichment.
	resp = s.get(baseUrl + "/api/v1/posts/" + created.Id)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var fetched models.Post
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&fetched))
	s.Require().Equal(created.Id, fetched.Id)
	s.Require().Equal("😀🎉", fetched.Content)

	// The public feed shows the post joined with its author profile.
	resp = s.get(baseUrl + "/api/v1/feed")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var feedData feedResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&feedData))
	found := false
	for _, item := range feedData.Posts {
		if item.Post.Id == created.Id {
			found = true
			s.Require().Equal("u-flow", item.Author.Username)
			s.Require().NotEmpty(item.Author.ProfileImageUrl)
		}
	}
	s.Require().True(found)

	// Profile listing contains only this author's posts.
	resp = s.get(baseUrl + "/api/v1/users/u-flow/posts")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var profile feedResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&profile))
	s.Require().NotEmpty(profile.Posts)
	for _, item := range profile.Posts {
		s.Require().Equal("u-flow", item.Post.AuthorId)
	}
}

func (s *APISuite) TestMissingIdentity() {
	resp := s.createPost("", "😀")
	s.Require().Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *APISuite) TestNonEmojiContent() {
	resp := s.createPost("u-invalid", "hello")
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)

	// Nothing was persisted for this caller.
	listResp := s.get(baseUrl + "/api/v1/users/u-invalid/posts")
	s.Require().Equal(http.StatusOK, listResp.StatusCode)
	var profile feedResponse
	s.Require().NoError(json.NewDecoder(listResp.Body).Decode(&profile))
	s.Require().Empty(profile.Posts)
}

func (s *APISuite) TestRateLimitExceeded() {
	for i := 0; i < 3; i++ {
		resp := s.createPost("u-limit", "🎈")
		s.Require().Equal(http.StatusOK, resp.StatusCode)
	}
	resp := s.createPost("u-limit", "🎈")
	s.Require().Equal(http.StatusTooManyRequests, resp.StatusCode)
}

func (s *APISuite) TestPing() {
	resp := s.get(baseUrl + "/maintenance/ping")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
}
