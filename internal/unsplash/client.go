package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rehiko/picstash/cache"
	"github.com/rehiko/picstash/utils"
)

// DefaultBaseURL Unsplash API 地址
const DefaultBaseURL = "https://api.unsplash.com"

const defaultTimeout = 10 * time.Second

// Client Unsplash API 客户端
// 响应按请求维度缓存，并用 singleflight 合并并发的同键回源请求
type Client struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
	cache      *cache.Helper
	cacheTTL   time.Duration
	group      singleflight.Group
}

// Option 客户端配置项
type Option func(*Client)

// WithBaseURL 覆盖 API 地址（测试用）
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient 覆盖 HTTP 客户端
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCache 启用响应缓存
func WithCache(helper *cache.Helper, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = helper
		c.cacheTTL = ttl
	}
}

// NewClient 创建 Unsplash 客户端
func NewClient(accessKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		accessKey:  accessKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		cacheTTL:   time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchPhotos 按关键词搜索照片
func (c *Client) SearchPhotos(ctx context.Context, query string, page, perPage int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 30 {
		perPage = 12
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	var result SearchResult
	key := cache.Unsplash.Build("search", query, strconv.Itoa(page), strconv.Itoa(perPage))
	if err := c.fetch(ctx, key, "/search/photos?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPhoto 获取单张照片详情
func (c *Client) GetPhoto(ctx context.Context, id string) (*Photo, error) {
	var photo Photo
	key := cache.Unsplash.Build("photo", id)
	if err := c.fetch(ctx, key, "/photos/"+url.PathEscape(id), &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

// GetCollection 获取策展合集元信息
func (c *Client) GetCollection(ctx context.Context, id string) (*Collection, error) {
	var col Collection
	key := cache.Unsplash.Build("collection", id)
	if err := c.fetch(ctx, key, "/collections/"+url.PathEscape(id), &col); err != nil {
		return nil, err
	}
	return &col, nil
}

// GetCollectionPhotos 获取策展合集内的照片
func (c *Client) GetCollectionPhotos(ctx context.Context, id string, page, perPage int, orientation string) ([]*Photo, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 30 {
		perPage = 12
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	if orientation != "" {
		params.Set("orientation", orientation)
	}

	var photos []*Photo
	key := cache.Unsplash.Build("collection_photos", id, strconv.Itoa(page), strconv.Itoa(perPage), orientation)
	path := "/collections/" + url.PathEscape(id) + "/photos?" + params.Encode()
	if err := c.fetch(ctx, key, path, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// fetch 带缓存与请求合并的回源读取
func (c *Client) fetch(ctx context.Context, cacheKey, path string, dest interface{}) error {
	if c.cache != nil {
		found, err := c.cache.GetJSON(ctx, cacheKey, dest)
		if err != nil {
			utils.LogIfDevf("[unsplash] cache read failed for %s: %v", cacheKey, err)
		}
		if found {
			return nil
		}
	}

	raw, err, _ := c.group.Do(cacheKey, func() (interface{}, error) {
		return c.doRequest(ctx, path)
	})
	if err != nil {
		return err
	}

	body := raw.([]byte)
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode upstream response: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.SetJSON(ctx, cacheKey, dest, c.cacheTTL); err != nil {
			utils.LogIfDevf("[unsplash] cache write failed for %s: %v", cacheKey, err)
		}
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}
	return body, nil
}
