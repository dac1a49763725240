package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"chirp/storage/models"

	"github.com/motemen/go-loghttp"
)

var UpstreamError = errors.New("author directory unavailable")

// Client resolves opaque author ids to public profile records kept by the
// external identity provider. One batch call per listing operation.
type Client interface {
	LookupUsers(ctx context.Context, ids []string, limit int) ([]models.Author, error)
}

type HTTPClient struct {
	baseUrl string
	client  *http.Client
}

func CreateHTTPClient(baseUrl string) *HTTPClient {
	return &HTTPClient{
		baseUrl: strings.TrimSuffix(baseUrl, "/"),
		client: &http.Client{
			Transport: &loghttp.Transport{},
			Timeout:   10 * time.Second,
		},
	}
}

// userRecord is the wire shape of a directory profile. Username is nullable
// upstream; the strictness about missing usernames lives in the feed service,
// not here.
type userRecord struct {
	Id              string  `json:"id"`
	Username        *string `json:"username"`
	ProfileImageUrl string  `json:"profileImageUrl"`
}

func (u *userRecord) toAuthor() models.Author {
	author := models.Author{
		Id:              u.Id,
		ProfileImageUrl: u.ProfileImageUrl,
	}
	if u.Username != nil {
		author.Username = *u.Username
	}
	return author
}

func (c *HTTPClient) LookupUsers(ctx context.Context, ids []string, limit int) ([]models.Author, error) {
	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+"/v1/users?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %s %w", err.Error(), UpstreamError)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %s %w", err.Error(), UpstreamError)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup returned status %d: %w", resp.StatusCode, UpstreamError)
	}

	var users []userRecord
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %s %w", err.Error(), UpstreamError)
	}

	authors := make([]models.Author, 0, len(users))
	for i := range users {
		authors = append(authors, users[i].toAuthor())
	}
	return authors, nil
}
