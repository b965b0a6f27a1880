package notes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"NProject/logger"
	usermodel "NProject/module/user/model"
	"NProject/tools/decode"
	"NProject/tools/errs"
	"NProject/tools/ids"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

var errMissingToken = errors.New("missing token")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// authWait bounds how long a fresh socket may sit unauthenticated.
const authWait = 10 * time.Second

// HandleWS runs one connection end to end: handshake, event loop, teardown.
func (s *Server) HandleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[ws] upgrade error: %v", err)
		return
	}

	identity, pending, err := s.handshake(ws, c.Request)
	if err != nil {
		// Refused before the event-dispatch phase; the client learns
		// nothing beyond a generic rejection.
		logger.Infof("[ws] handshake refused: %v", err)
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "authentication failed"),
			time.Now().Add(writeWait))
		_ = ws.Close()
		return
	}

	conn := newWSConn(ids.GenerateString(), identity, ws)
	s.connMgr.Add(conn)
	go conn.writePump()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if perr := s.presence.Online(ctx, identity.ID); perr != nil {
		logger.Warnf("[ws] presence online user=%s: %v", identity.ID, perr)
	}
	cancel()

	logger.Infof("[ws] connected conn=%s user=%s", conn.ID(), identity.ID)

	if pending != nil {
		s.dispatch(conn, pending)
	}
	s.readLoop(conn)
	s.teardown(conn)
}

// handshake authenticates the socket. The token comes from an explicit
// `auth` frame payload or from a transport header, in that priority order.
// A non-auth first frame is returned as pending so it is not lost.
func (s *Server) handshake(ws *websocket.Conn, r *http.Request) (identity *usermodel.Identity, pending *Frame, err error) {
	token := tokenFromHeader(r)

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(authWait))

	_, raw, rerr := ws.ReadMessage()
	if rerr == nil {
		if f, perr := ParseFrame(raw); perr == nil {
			if f.Event == EventAuth {
				if p, derr := decode.DecodeMap[AuthPayload](f.Data); derr == nil && p.Token != "" {
					token = p.Token
				}
			} else {
				pending = f
			}
		}
	} else if token == "" {
		return nil, nil, rerr
	}

	if token == "" {
		return nil, nil, errMissingToken
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	id, verr := s.resolver.Resolve(ctx, token)
	if verr != nil {
		return nil, nil, verr
	}
	return id, pending, nil
}

// readLoop reads frames until the peer goes away, dispatching each one to
// completion before reading the next (events on one connection never
// interleave with each other).
func (s *Server) readLoop(conn *wsConn) {
	ws := conn.ws
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		// Pongs double as the presence heartbeat.
		go s.refreshPresence(conn)
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[ws] read conn=%s: %v", conn.ID(), err)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		frame, perr := ParseFrame(data)
		if perr != nil {
			s.SendError(conn, errs.ErrBadPayload.WithDetail(perr.Error()))
			continue
		}
		s.dispatch(conn, frame)
	}
}

func (s *Server) dispatch(conn *wsConn, frame *Frame) {
	h := s.disp.GetHandler(frame.Event)
	if h == nil {
		// Unknown events are ignored, matching fire-and-forget semantics.
		return
	}
	if err := h.Handle(&Context{S: s}, frame, conn); err != nil {
		s.SendError(conn, err)
	}
}

// teardown runs membership cleanup for a closed connection. Tracked rooms
// are vacated without leave broadcasts; only an explicit leave-room
// notifies peers. While the user still holds other connections, their
// tracked room survives and only this connection's subscriptions drop.
func (s *Server) teardown(conn Conn) {
	_ = conn.Close()

	identity := conn.Identity()
	if identity == nil {
		s.connMgr.Remove(conn)
		return
	}

	stillOnline := s.connMgr.Remove(conn)
	rooms := s.tracker.Rooms(identity.ID)
	if !stillOnline {
		rooms = s.tracker.Clear(identity.ID)
	}
	for _, room := range rooms {
		s.hub.Unsubscribe(room, conn.ID())
	}

	if !stillOnline {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if perr := s.presence.Offline(ctx, identity.ID); perr != nil {
			logger.Warnf("[ws] presence offline user=%s: %v", identity.ID, perr)
		}
		cancel()
	}
	logger.Infof("[ws] disconnected conn=%s user=%s", conn.ID(), identity.ID)
}

func (s *Server) refreshPresence(conn *wsConn) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.presence.Online(ctx, conn.Identity().ID); err != nil {
		logger.Debug("presence refresh failed: " + err.Error())
	}
}

func tokenFromHeader(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get("Access-Token")); t != "" {
		return t
	}
	if authz := strings.TrimSpace(r.Header.Get("Authorization")); authz != "" {
		if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return strings.TrimSpace(authz[len("bearer "):])
		}
	}
	return ""
}
