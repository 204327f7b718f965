package messaging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "urlcopier/pkg/errors"
	"urlcopier/pkg/logger"
	"urlcopier/pkg/models"
)

// MessagesPath is the daemon route that accepts envelopes.
const MessagesPath = "/messages"

// Client sends messages to a running daemon over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ Handler = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the daemon address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Handle posts msg to the daemon. An error reply is returned as an error.
func (c *Client) Handle(ctx context.Context, msg Message) (Reply, error) {
	body, err := EncodeMessage(msg)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+MessagesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug().Str("type", string(msg.MessageType())).Str("daemon", c.baseURL).Msg("Sending message")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.DaemonError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.DaemonError(err)
	}

	reply, err := DecodeReply(data)
	if err != nil {
		return nil, apperrors.DaemonError(fmt.Errorf("status %s: %w", resp.Status, err))
	}
	return unwrapError(reply)
}

// LocalClient hands messages straight to an in-process Handler, with the
// same error semantics as Client.
type LocalClient struct {
	handler Handler
}

var _ Handler = LocalClient{}

func NewLocalClient(h Handler) LocalClient {
	return LocalClient{handler: h}
}

func (c LocalClient) Handle(ctx context.Context, msg Message) (Reply, error) {
	reply, err := c.handler.Handle(ctx, msg)
	if err != nil {
		return nil, err
	}
	return unwrapError(reply)
}

// NewErrorReply converts a handler error for the wire.
func NewErrorReply(err error) ErrorReply {
	return ErrorReply{Message: err.Error(), Code: int(apperrors.ExitCodeOf(err, apperrors.ExitCodeGeneral))}
}

func unwrapError(reply Reply) (Reply, error) {
	if e, ok := reply.(ErrorReply); ok {
		return nil, apperrors.New(apperrors.ExitCode(e.Code), e.Message)
	}
	return reply, nil
}

// FetchTemplates asks h for the current template list.
func FetchTemplates(ctx context.Context, h Handler) ([]models.Template, error) {
	reply, err := h.Handle(ctx, GetTemplates{})
	if err != nil {
		return nil, err
	}
	tr, ok := reply.(TemplatesReply)
	if !ok {
		return nil, fmt.Errorf("unexpected reply %q to %s", reply.ReplyType(), TypeGetTemplates)
	}
	return tr.Templates, nil
}

// RequestCopy asks h to copy the active tab with templateID.
func RequestCopy(ctx context.Context, h Handler, templateID string) (Ack, error) {
	reply, err := h.Handle(ctx, CopyTemplate{TemplateID: templateID})
	if err != nil {
		return Ack{}, err
	}
	ack, ok := reply.(Ack)
	if !ok {
		return Ack{}, fmt.Errorf("unexpected reply %q to %s", reply.ReplyType(), TypeCopyTemplate)
	}
	return ack, nil
}
