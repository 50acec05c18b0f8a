// Package contentstore uploads attachments to a content-addressed store
// and resolves content identifiers to retrieval URLs.
package contentstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	shell "github.com/ipfs/go-ipfs-api"
	"go.uber.org/zap"

	"github.com/obralink/client/internal/domain/shared"
)

// Client talks to an IPFS node over its HTTP RPC. Identifiers returned by
// Upload are opaque CIDs; only ResolveURL gives them meaning to a browser.
type Client struct {
	sh      *shell.Shell
	gateway string
	logger  *zap.Logger
}

// NewClient creates a content store client. apiURL is the IPFS HTTP RPC
// endpoint (e.g. "localhost:5001"); gatewayURL is the public gateway
// prefix, with trailing slash, used to build retrieval URLs.
func NewClient(apiURL, gatewayURL string, logger *zap.Logger) (*Client, error) {
	if apiURL == "" {
		return nil, errors.New("content store API URL is required")
	}
	if gatewayURL == "" {
		return nil, errors.New("content store gateway URL is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		sh:      shell.NewShell(apiURL),
		gateway: gatewayURL,
		logger:  logger,
	}, nil
}

// Upload stores the payload and returns its content identifier once the
// store acknowledges receipt. There is no implicit retry; an unreachable
// store surfaces as shared.ErrStoreUnavailable.
func (c *Client) Upload(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty attachment", shared.ErrInvalidRequest)
	}

	cid, err := c.sh.Add(bytes.NewReader(data), shell.Pin(true))
	if err != nil {
		c.logger.Warn("Content store upload failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.logger.Debug("Attachment uploaded", zap.String("cid", cid), zap.Int("bytes", len(data)))
	return cid, nil
}

// ResolveURL builds the retrieval URL for a content identifier. It is pure
// and offline: gateway prefix plus CID, nothing else.
func (c *Client) ResolveURL(cid string) string {
	return c.gateway + cid
}
