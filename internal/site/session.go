package site

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/pytutor/internal/chapters"
	"github.com/ziadkadry99/pytutor/internal/loader"
	"github.com/ziadkadry99/pytutor/internal/nav"
)

const writeWait = 10 * time.Second

// clientMessage is an event sent by the reader page.
type clientMessage struct {
	Type     string `json:"type"` // "start", "select", "navigate" or "dismiss"
	ID       int    `json:"id,omitempty"`
	Fragment string `json:"fragment,omitempty"`
}

// serverMessage is a display update sent to the reader page.
type serverMessage struct {
	Type     string `json:"type"` // "content", "active", "fragment", "banner" or "error"
	ID       int    `json:"id,omitempty"`
	Title    string `json:"title,omitempty"`
	HTML     string `json:"html,omitempty"`
	Failed   bool   `json:"failed,omitempty"`
	Filename string `json:"filename,omitempty"`
	Fragment string `json:"fragment,omitempty"`
	Visible  bool   `json:"visible"`
	Message  string `json:"message,omitempty"`
}

// Session is one page view connected over the reader websocket. It owns a
// navigation controller and implements nav.Display by sending updates to the
// page.
type Session struct {
	ID string

	conn   *websocket.Conn
	ctrl   *nav.Controller
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup

	mu     sync.Mutex
	closed bool

	writeMu sync.Mutex
}

func newSession(conn *websocket.Conn, reg *chapters.Registry, l nav.Loader, logger *slog.Logger) *Session {
	s := &Session{
		ID:   uuid.NewString(),
		conn: conn,
	}
	s.logger = logger.With("session", s.ID)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.ctrl = nav.New(reg, l, s, s.logger)
	return s
}

// run reads page events until the connection closes.
func (s *Session) run() {
	for {
		var msg clientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("reader websocket read", "error", err)
			}
			return
		}
		s.dispatch(msg)
	}
}

// dispatch orders each navigation before the next event is read, then loads
// it in the background so a later event can supersede it.
func (s *Session) dispatch(msg clientMessage) {
	switch msg.Type {
	case "start":
		s.spawn(s.ctrl.BeginStart(s.ctx, msg.Fragment))
	case "select":
		p, err := s.ctrl.BeginSelect(s.ctx, msg.ID)
		if err != nil {
			s.send(serverMessage{Type: "error", Message: err.Error()})
			return
		}
		s.spawn(p)
	case "navigate":
		s.spawn(s.ctrl.BeginFragment(s.ctx, msg.Fragment))
	case "dismiss":
		s.ctrl.DismissBanner()
	default:
		s.send(serverMessage{Type: "error", Message: "unknown message type: " + msg.Type})
	}
}

// spawn runs an ordered navigation as its own task.
func (s *Session) spawn(p *nav.Pending) {
	if p == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.tasks.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.tasks.Done()
		err := p.Run()
		switch {
		case err == nil, errors.Is(err, nav.ErrSuperseded), errors.Is(err, context.Canceled):
		default:
			s.logger.Warn("chapter navigation failed", "error", err)
			s.send(serverMessage{Type: "error", Message: err.Error()})
		}
	}()
}

// Reload re-renders the current chapter if it is backed by filename and no
// reader navigation is loading.
func (s *Session) Reload(filename string) {
	s.spawn(s.ctrl.BeginReload(s.ctx, filename))
}

// Active returns the chapter this session is showing.
func (s *Session) Active() (chapters.Chapter, bool) { return s.ctrl.Active() }

// close cancels in-flight loads, waits for them and closes the connection.
func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.ctrl.Close()
	s.tasks.Wait()
	s.conn.Close()
	s.logger.Debug("reader session closed")
}

func (s *Session) ShowPage(p *loader.Page) {
	s.send(serverMessage{
		Type:   "content",
		ID:     p.Chapter.ID,
		Title:  p.Title,
		HTML:   p.HTML,
		Failed: p.Failed,
	})
}

func (s *Session) MarkActive(filename string) {
	s.send(serverMessage{Type: "active", Filename: filename})
}

func (s *Session) SetFragment(fragment string) {
	s.send(serverMessage{Type: "fragment", Fragment: fragment})
}

func (s *Session) SetBanner(visible bool) {
	s.send(serverMessage{Type: "banner", Visible: visible})
}

func (s *Session) send(msg serverMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Debug("reader websocket write", "type", msg.Type, "error", err)
	}
}
