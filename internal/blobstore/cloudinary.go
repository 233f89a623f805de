package blobstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary stores blobs on the external image CDN. URLs returned by the
// remote service are absolute and publicly resolvable.
type Cloudinary struct {
	client *cloudinary.Cloudinary
	folder string
}

// NewCloudinary builds the adapter from a cloudinary:// credentials URL.
func NewCloudinary(credentialsURL, folder string) (*Cloudinary, error) {
	client, err := cloudinary.NewFromURL(credentialsURL)
	if err != nil {
		return nil, fmt.Errorf("create cloudinary client: %w", err)
	}
	return &Cloudinary{client: client, folder: folder}, nil
}

// Store uploads the buffer and passes the CDN's format and dimension
// metadata through verbatim.
func (c *Cloudinary) Store(ctx context.Context, up Upload) (Object, error) {
	resp, err := c.client.Upload.Upload(ctx, bytes.NewReader(up.Data), uploader.UploadParams{
		Folder: c.folder,
	})
	if err != nil {
		return Object{}, fmt.Errorf("cloudinary upload %q: %w", up.Filename, err)
	}
	// The SDK reports remote rejections on the result rather than as an error.
	if resp.Error.Message != "" {
		return Object{}, fmt.Errorf("cloudinary upload %q: %s", up.Filename, resp.Error.Message)
	}

	return Object{
		ID:          resp.PublicID,
		Filename:    up.Filename,
		URL:         resp.SecureURL,
		ContentType: up.ContentType,
		SizeBytes:   int64(resp.Bytes),
		Format:      resp.Format,
		Width:       resp.Width,
		Height:      resp.Height,
	}, nil
}

// CheckHealth pings the CDN's admin endpoint.
func (c *Cloudinary) CheckHealth(ctx context.Context) error {
	if _, err := c.client.Admin.Ping(ctx); err != nil {
		return fmt.Errorf("cloudinary health: %w", err)
	}
	return nil
}

// Delete removes the asset by public id, best-effort on the remote side.
func (c *Cloudinary) Delete(ctx context.Context, id string) error {
	_, err := c.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %q: %w", id, err)
	}
	return nil
}
