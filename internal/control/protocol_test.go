package control

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/frudas24/inputtap/internal/input"
)

// TestProtocol_Request verifies decoding a call.
func TestProtocol_Request(t *testing.T) {
	var req Request
	payload := `{"id":7,"method":"setInputBlocked","args":{"blocked":true,"types":["mouse"]}}`
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if string(req.ID) != "7" || req.Method != "setInputBlocked" {
		t.Fatalf("unexpected request: %+v", req)
	}
	var args SetBlockedArgs
	if err := json.Unmarshal(req.Args, &args); err != nil {
		t.Fatalf("args unmarshal failed: %v", err)
	}
	if args.Blocked == nil || !*args.Blocked || len(args.Types) != 1 || args.Types[0] != "mouse" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

// TestProtocol_ErrorResponse verifies the error envelope omits result.
func TestProtocol_ErrorResponse(t *testing.T) {
	data, err := json.Marshal(failure(json.RawMessage(`"a"`), CodeInvalidInputType, "bad"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"id":"a","error":{"code":"INVALID_INPUT_TYPE","message":"bad"}}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
}

// TestProtocol_FalseResult verifies a false result is still encoded.
func TestProtocol_FalseResult(t *testing.T) {
	data, err := json.Marshal(Response{ID: json.RawMessage(`1`), Result: false})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"id":1,"result":false}` {
		t.Fatalf("unexpected encoding %s", data)
	}
}

// TestProtocol_VoidReply verifies a successful void call encodes only its id.
func TestProtocol_VoidReply(t *testing.T) {
	data, err := json.Marshal(done(json.RawMessage(`1`), nil))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"id":1}` {
		t.Fatalf("expected {\"id\":1}, got %s", data)
	}
}

// TestErrorCode verifies the error taxonomy maps to wire codes.
func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: x", input.ErrInvalidArguments), CodeInvalidArguments},
		{fmt.Errorf("%w: x", input.ErrInvalidEventKind), CodeInvalidEventType},
		{fmt.Errorf("%w: x", input.ErrInvalidCategory), CodeInvalidInputType},
		{errors.New("boom"), CodeInternal},
	}
	for _, tc := range cases {
		if got := errorCode(tc.err); got != tc.want {
			t.Fatalf("expected %s for %v, got %s", tc.want, tc.err, got)
		}
	}
}
