package middleware

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"watershed-backend/pkg/id"
)

const (
	// How long the "in-progress" lock holds before the handler must finish.
	provisionalLockTTL = 60 * time.Second
	// Allowed client/server clock skew for Ax-Request-At (in UTC).
	maxClockSkew = 10 * time.Minute
	// Per-request budget for talking to the idempotency store.
	storeTimeout = 2 * time.Second
)

// Money movement must not be replayed: every mutating request carries a
// client-chosen Ax-Request-Id, and a retry of the same request returns the
// recorded response instead of debiting twice.

type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	if r.buf != nil {
		r.buf.Write(b)
	}
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

// requestIdentity is everything the client must supply for a mutating call.
type requestIdentity struct {
	reqID  string
	userID string
	reqAt  time.Time
}

// readIdentity validates the three Ax-* headers and returns a human-readable
// reason when any of them is missing or malformed.
func readIdentity(req *http.Request) (requestIdentity, string) {
	var rid requestIdentity

	rid.reqID = strings.TrimSpace(req.Header.Get("Ax-Request-Id"))
	switch {
	case rid.reqID == "":
		return rid, "missing Ax-Request-Id"
	case !validReqID(rid.reqID):
		return rid, "invalid Ax-Request-Id format"
	}

	at, err := parseAxRequestAt(req.Header.Get("Ax-Request-At"))
	if err != nil {
		return rid, err.Error()
	}
	now := nowUTC()
	if at.Before(now.Add(-maxClockSkew)) || at.After(now.Add(maxClockSkew)) {
		return rid, "Ax-Request-At too skewed"
	}
	rid.reqAt = at

	rid.userID = strings.TrimSpace(req.Header.Get("Ax-User-Id"))
	switch {
	case rid.userID == "":
		return rid, "missing Ax-User-Id"
	case !id.Valid(rid.userID):
		return rid, "invalid Ax-User-Id"
	}

	return rid, ""
}

// replayOrConflict handles the case where the provisional SetNX lost: either
// the recorded response is replayed verbatim, or the caller gets a conflict.
func replayOrConflict(ctx context.Context, c echo.Context, rdb *redis.Client, key, bhash string) error {
	cur, err := loadEntry(ctx, rdb, key)
	if err != nil {
		log.Printf("idempotency: load %s: %v", key, err)
	}
	if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Ax-Request-Id reused with different body"})
	}
	if !cur.InProgress && cur.Code != 0 && len(cur.Body) > 0 {
		return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
	}
	return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
}

// IdempotencyMiddleware dedupes mutating requests on
// method + route + Ax-User-Id + Ax-Request-Id. Ax-Request-At must be epoch
// (seconds or ms) or RFC3339/RFC3339Nano with a timezone (Z or ±HH:MM).
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			rid, reason := readIdentity(req)
			if reason != "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": reason})
			}

			// The body is consumed twice: once for hashing, once by the
			// handler's bind.
			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewBuffer(body))
			bhash := bodyHash(body)

			key := buildKey(req.Method, c.Path(), rid.userID, rid.reqID)
			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()

			won, err := provisionalSet(ctx, rdb, key, idempEntry{
				InProgress:  true,
				BodySHA256:  bhash,
				RequestID:   rid.reqID,
				RequestAtMS: rid.reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			})
			if err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !won {
				return replayOrConflict(ctx, c, rdb, key, bhash)
			}

			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			_ = saveFinal(context.Background(), rdb, key, idempEntry{
				Code:        rec.code,
				Body:        rec.buf.Bytes(),
				BodySHA256:  bhash,
				RequestID:   rid.reqID,
				RequestAtMS: rid.reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}, ttl)
			return nil
		}
	}
}
