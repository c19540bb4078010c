package video

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"
)

// MPV drives an mpv instance over its JSON IPC socket. mpv plays
// YouTube media identifiers directly through yt-dlp, which makes it a
// workable secondary video player for a terminal program.
type MPV struct {
	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	nextID int64
}

type mpvResponse struct {
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	RequestID int64           `json:"request_id"`
	Event     string          `json:"event"`
}

// DialMPV connects to a running mpv's --input-ipc-server socket.
func DialMPV(socketPath string) (*MPV, error) {
	conn, err := net.DialTimeout("unix", socketPath, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mpv socket %q: %w", socketPath, err)
	}
	return &MPV{conn: conn, reader: bufio.NewReader(conn), nextID: 1}, nil
}

func (m *MPV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn.Close()
}

// command sends one request and waits for its reply, skipping the
// asynchronous event lines mpv interleaves on the same socket.
func (m *MPV) command(args ...interface{}) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++

	request, err := json.Marshal(map[string]interface{}{
		"command":    args,
		"request_id": id,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode mpv command: %w", err)
	}

	if err := m.conn.SetDeadline(time.Now().Add(2 * time.Second)); err != nil {
		return nil, fmt.Errorf("failed to set mpv deadline: %w", err)
	}
	if _, err := m.conn.Write(append(request, '\n')); err != nil {
		return nil, fmt.Errorf("failed to write mpv command: %w", err)
	}

	for {
		line, err := m.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read mpv response: %w", err)
		}

		var resp mpvResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if resp.Event != "" || resp.RequestID != id {
			continue
		}
		if resp.Error != "success" {
			return nil, fmt.Errorf("mpv command failed: %s", resp.Error)
		}
		return resp.Data, nil
	}
}

func (m *MPV) getProperty(name string, out interface{}) error {
	data, err := m.command("get_property", name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unexpected mpv property %q payload: %w", name, err)
	}
	return nil
}

func (m *MPV) PositionSeconds() (float64, error) {
	var position float64
	if err := m.getProperty("time-pos", &position); err != nil {
		return 0, err
	}
	return position, nil
}

func (m *MPV) Playing() (bool, error) {
	var paused bool
	if err := m.getProperty("pause", &paused); err != nil {
		return false, err
	}
	return !paused, nil
}

func (m *MPV) Play() error {
	_, err := m.command("set_property", "pause", false)
	return err
}

func (m *MPV) Pause() error {
	_, err := m.command("set_property", "pause", true)
	return err
}

func (m *MPV) SeekTo(seconds float64) error {
	_, err := m.command("seek", seconds, "absolute")
	return err
}

// Load replaces the playing media with the given YouTube video, muted:
// the authoritative audio comes from the primary player.
func (m *MPV) Load(mediaID string) error {
	if _, err := m.command("loadfile", "https://www.youtube.com/watch?v="+mediaID, "replace"); err != nil {
		return err
	}
	_, err := m.command("set_property", "mute", true)
	return err
}
