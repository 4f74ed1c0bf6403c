package control

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/frudas24/inputtap/internal/inject"
	"github.com/frudas24/inputtap/internal/input"
)

// Commands is the request/response surface of the engine.
type Commands interface {
	RequestPermission() bool
	IsPermissionGranted(types []string) bool
	InjectMouseInput(args inject.PointerArgs) error
	InjectKeyboardInput(args inject.KeyboardArgs) error
	SetInputBlocked(blocked bool, types []string) (bool, error)
	GetBlockedInputs() []string
}

// Dispatch runs one request against cmds and builds its response.
func Dispatch(cmds Commands, req Request) Response {
	switch req.Method {
	case "requestPermission":
		return Response{ID: req.ID, Result: cmds.RequestPermission()}
	case "isPermissionGranted":
		var args TypesArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			return failure(req.ID, CodeInvalidArguments, err.Error())
		}
		return Response{ID: req.ID, Result: cmds.IsPermissionGranted(args.Types)}
	case "injectMouseInput":
		var args inject.PointerArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			return failure(req.ID, CodeInvalidArguments, err.Error())
		}
		return done(req.ID, cmds.InjectMouseInput(args))
	case "injectKeyboardInput":
		var args inject.KeyboardArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			return failure(req.ID, CodeInvalidArguments, err.Error())
		}
		return done(req.ID, cmds.InjectKeyboardInput(args))
	case "setInputBlocked":
		var args SetBlockedArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			return failure(req.ID, CodeInvalidArguments, err.Error())
		}
		if args.Blocked == nil {
			return failure(req.ID, CodeInvalidArguments, "blocked is required")
		}
		ok, err := cmds.SetInputBlocked(*args.Blocked, args.Types)
		if err != nil {
			return failure(req.ID, errorCode(err), err.Error())
		}
		return Response{ID: req.ID, Result: ok}
	case "getBlockedInputs":
		blocked := cmds.GetBlockedInputs()
		if blocked == nil {
			blocked = []string{}
		}
		return Response{ID: req.ID, Result: blocked}
	default:
		return failure(req.ID, CodeUnknownMethod, fmt.Sprintf("unknown method %q", req.Method))
	}
}

// done converts a void operation result. Success replies carry only the id.
func done(id json.RawMessage, err error) Response {
	if err != nil {
		return failure(id, errorCode(err), err.Error())
	}
	return Response{ID: id}
}

// decodeArgs unmarshals raw into dst; missing or null args leave dst zero.
func decodeArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", input.ErrInvalidArguments, err)
	}
	return nil
}
