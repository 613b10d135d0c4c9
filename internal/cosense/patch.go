package cosense

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/maribelle/cosgo/internal/apperr"
	"github.com/maribelle/cosgo/internal/pages"
)

// InsertReport summarizes a completed line insertion.
type InsertReport struct {
	TargetFound   bool
	InsertedLines int
}

// InsertLines inserts text (split on newlines) after the first line of
// the page containing target, appending at the end when no line
// matches. Edits go through the Cosense websocket commit endpoint and
// require a session credential.
func (c *Client) InsertLines(ctx context.Context, project, title, target, text string) (*InsertReport, error) {
	if c.sid == "" {
		return nil, apperr.ErrAuthRequired
	}

	page, err := c.GetPage(ctx, project, title)
	if err != nil {
		return nil, err
	}

	plan := pages.PlanInsert(page.Lines, target, text)

	userID, err := c.myUserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("insert lines: %w", err)
	}
	projectID, err := c.projectID(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("insert lines: %w", err)
	}

	// The id of the line before which new lines land; "_end" appends.
	insertBefore := "_end"
	if plan.Index < len(page.Lines) {
		insertBefore = page.Lines[plan.Index].ID
	}

	changes := make([]map[string]any, 0, len(plan.Texts))
	for _, t := range plan.Texts {
		changes = append(changes, map[string]any{
			"_insert": insertBefore,
			"lines":   map[string]string{"id": newLineID(), "text": t},
		})
	}

	conn, err := c.dialSocket(ctx)
	if err != nil {
		return nil, fmt.Errorf("insert lines: %w", err)
	}
	defer conn.Close()

	if _, err := conn.request(1, "room:join", map[string]any{
		"projectName":          project,
		"pageId":               page.ID,
		"projectUpdatesStream": false,
	}); err != nil {
		return nil, fmt.Errorf("insert lines: join room: %w", err)
	}

	if _, err := conn.request(2, "commit", map[string]any{
		"kind":             "page",
		"parentId":         page.CommitID,
		"expectedCommitId": page.CommitID,
		"pageId":           page.ID,
		"userId":           userID,
		"projectId":        projectID,
		"changes":          changes,
		"cursor":           nil,
		"freeze":           true,
	}); err != nil {
		return nil, fmt.Errorf("insert lines: commit: %w", err)
	}

	return &InsertReport{
		TargetFound:   plan.TargetFound,
		InsertedLines: len(plan.Texts),
	}, nil
}

func (c *Client) myUserID(ctx context.Context) (string, error) {
	return c.fetchID(ctx, c.baseURL+"/api/users/me")
}

func (c *Client) projectID(ctx context.Context, project string) (string, error) {
	return c.fetchID(ctx, c.baseURL+"/api/projects/"+project)
}

func (c *Client) fetchID(ctx context.Context, u string) (string, error) {
	resp, err := c.get(ctx, u)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("GET %s: status %d", u, resp.StatusCode)
	}
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.ID == "" {
		return "", fmt.Errorf("GET %s: response has no id", u)
	}
	return body.ID, nil
}

// newLineID generates a fresh 24-hex line id.
func newLineID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// socketConn is a minimal engine.io/socket.io framing layer over one
// websocket connection, just enough for the commit flow.
type socketConn struct {
	ws *websocket.Conn
}

func (c *Client) dialSocket(ctx context.Context) (*socketConn, error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/socket.io/?EIO=4&transport=websocket"

	header := http.Header{}
	header.Set("Cookie", "connect.sid="+c.sid)
	header.Set("Origin", c.baseURL)

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return nil, err
	}
	conn := &socketConn{ws: ws}

	// Engine.io open packet, then the namespace connect handshake.
	if _, err := conn.readPacket("0"); err != nil {
		ws.Close()
		return nil, fmt.Errorf("handshake: %w", err)
	}
	if err := conn.write("40"); err != nil {
		ws.Close()
		return nil, err
	}
	if _, err := conn.readPacket("40"); err != nil {
		ws.Close()
		return nil, fmt.Errorf("namespace connect: %w", err)
	}
	return conn, nil
}

func (s *socketConn) Close() error { return s.ws.Close() }

func (s *socketConn) write(payload string) error {
	return s.ws.WriteMessage(websocket.TextMessage, []byte(payload))
}

// readPacket reads frames until one starts with the wanted prefix,
// answering server pings along the way.
func (s *socketConn) readPacket(prefix string) (string, error) {
	deadline := time.Now().Add(30 * time.Second)
	if err := s.ws.SetReadDeadline(deadline); err != nil {
		return "", err
	}
	for {
		_, data, err := s.ws.ReadMessage()
		if err != nil {
			return "", err
		}
		msg := string(data)
		if msg == "2" {
			if err := s.write("3"); err != nil {
				return "", err
			}
			continue
		}
		if strings.HasPrefix(msg, prefix) {
			return msg, nil
		}
	}
}

// request emits a socket.io-request event and waits for its ack.
func (s *socketConn) request(id int, method string, data any) (json.RawMessage, error) {
	payload, err := json.Marshal([]any{
		"socket.io-request",
		map[string]any{"method": method, "data": data},
	})
	if err != nil {
		return nil, err
	}
	if err := s.write("42" + strconv.Itoa(id) + string(payload)); err != nil {
		return nil, err
	}

	ackPrefix := "43" + strconv.Itoa(id)
	msg, err := s.readPacket(ackPrefix)
	if err != nil {
		return nil, err
	}

	var ack []struct {
		Data  json.RawMessage `json:"data"`
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal([]byte(strings.TrimPrefix(msg, ackPrefix)), &ack); err != nil {
		return nil, fmt.Errorf("malformed ack: %w", err)
	}
	if len(ack) == 0 {
		return nil, fmt.Errorf("empty ack for %s", method)
	}
	if len(ack[0].Error) > 0 && string(ack[0].Error) != "null" {
		return nil, fmt.Errorf("%s rejected: %s", method, ack[0].Error)
	}
	return ack[0].Data, nil
}
