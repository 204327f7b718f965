package tabs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

type cdpRequest struct {
	ID     int64  `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

type cdpError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type cdpResponse struct {
	ID     int64           `json:"id"`
	Method string          `json:"method,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *cdpError       `json:"error,omitempty"`
}

// cdpConn is a minimal DevTools protocol client. Calls are sequential; the
// connection is used by one goroutine at a time.
type cdpConn struct {
	ws     *websocket.Conn
	nextID int64
}

func dialCDP(ctx context.Context, dialer *websocket.Dialer, url string) (*cdpConn, error) {
	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DevTools websocket: %w", err)
	}
	return &cdpConn{ws: ws}, nil
}

func (c *cdpConn) Close() error {
	return c.ws.Close()
}

func (c *cdpConn) call(ctx context.Context, method string, params any, out any) error {
	c.nextID++
	id := c.nextID

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.ws.SetReadDeadline(deadline)
		_ = c.ws.SetWriteDeadline(deadline)
	}

	if err := c.ws.WriteJSON(cdpRequest{ID: id, Method: method, Params: params}); err != nil {
		return fmt.Errorf("%s: write failed: %w", method, err)
	}

	for {
		var resp cdpResponse
		if err := c.ws.ReadJSON(&resp); err != nil {
			return fmt.Errorf("%s: read failed: %w", method, err)
		}
		// Events and replies to other calls are skipped.
		if resp.ID != id {
			continue
		}
		if resp.Error != nil {
			return fmt.Errorf("%s: %s (code %d)", method, resp.Error.Message, resp.Error.Code)
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("%s: invalid result: %w", method, err)
		}
		return nil
	}
}

func (c *cdpConn) windowForTarget(ctx context.Context, targetID string) (int, error) {
	var result struct {
		WindowID int `json:"windowId"`
	}
	params := map[string]string{"targetId": targetID}
	if err := c.call(ctx, "Browser.getWindowForTarget", params, &result); err != nil {
		return 0, err
	}
	return result.WindowID, nil
}
