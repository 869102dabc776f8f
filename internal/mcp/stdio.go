package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// maxLineBytes is the scanner buffer limit for one stdio request line.
const maxLineBytes = 1 << 20

// ServeStdio runs the line-framed JSON-RPC loop: one request object per
// line on r, one response object per line on w. Malformed input yields a
// -32603 error envelope with a null id; notifications get no reply.
// Responses are emitted strictly in request order. Returns nil on EOF.
func ServeStdio(ctx context.Context, r io.Reader, w io.Writer, d *Dispatcher, lg *zap.Logger) error {
	if lg == nil {
		lg = zap.NewNop()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			lg.Warn("malformed request line", zap.Error(err))
			if encErr := enc.Encode(NewErrorResponse(nil, CodeInternalError, fmt.Sprintf("parse error: %v", err))); encErr != nil {
				return errors.Wrap(encErr, "write error response")
			}
			continue
		}

		resp := d.Handle(ctx, DefaultSession, &req)
		if resp == nil {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			return errors.Wrap(err, "write response")
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "read stdin")
	}
	return nil
}
