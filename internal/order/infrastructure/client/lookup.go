package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	coursedom "github.com/GeorgePetre11/CyberEdPlatform/internal/course/domain"
	"github.com/GeorgePetre11/CyberEdPlatform/internal/order/domain"
)

var (
	// ErrUnavailable covers every transport-level failure: timeout,
	// refused connection, non-2xx status, undecodable body. One
	// best-effort attempt per call, no retry.
	ErrUnavailable = errors.New("remote service unavailable")
	ErrNotFound    = errors.New("record not found")
)

// Client performs synchronous lookups against the user and course services.
type Client struct {
	log       *slog.Logger
	http      *http.Client
	userURL   string
	courseURL string
}

func New(log *slog.Logger, userBaseURL, courseBaseURL string, timeout time.Duration) *Client {
	return &Client{
		log:       log,
		http:      &http.Client{Timeout: timeout},
		userURL:   userBaseURL,
		courseURL: courseBaseURL,
	}
}

func (c *Client) GetUser(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	if err := c.get(ctx, fmt.Sprintf("%s/api/users/%d", c.userURL, id), &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (c *Client) GetCourse(ctx context.Context, id int64) (coursedom.Course, error) {
	var course coursedom.Course
	if err := c.get(ctx, fmt.Sprintf("%s/api/courses/%d", c.courseURL, id), &course); err != nil {
		return coursedom.Course{}, err
	}
	return course, nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("remote lookup failed", "url", url, "err", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("remote lookup bad status", "url", url, "status", resp.StatusCode)
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return nil
}
