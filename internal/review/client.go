package review

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/iamkashifkhn/parkfinder-consumer/internal/upstream"
)

// API is the slice of the upstream used by the review flow.
type API interface {
	UploadFiles(ctx context.Context, token string, files []File) ([]string, error)
	CreateReview(ctx context.Context, token string, payload CreatePayload) (*Review, error)
}

type Client struct {
	upstream *upstream.Client
}

func NewClient(client *upstream.Client) *Client {
	return &Client{upstream: client}
}

// UploadFiles pushes the review images to the upstream upload endpoint and
// returns their public URLs in input order.
func (c *Client) UploadFiles(ctx context.Context, token string, files []File) ([]string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to build upload form: %w", err)
		}
		if _, err := io.Copy(part, f.Data); err != nil {
			return nil, fmt.Errorf("failed to read upload file %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	// The upload endpoint responds with a bare JSON array of URLs.
	var urls []string
	if err := c.upstream.PostMultipart(ctx, token, "/upload", w.FormDataContentType(), &buf, &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

func (c *Client) CreateReview(ctx context.Context, token string, payload CreatePayload) (*Review, error) {
	var created Review
	if err := c.upstream.Post(ctx, token, "/parking-reviews", nil, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
