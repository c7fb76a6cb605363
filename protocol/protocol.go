// Package protocol defines the JSON messages exchanged with visionedged over
// its unix socket. Each message is a single JSON value on the stream.
package protocol

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"
)

// GetSockAddress returns the default daemon socket path.
func GetSockAddress() string {
	return "/var/run/visionedge.sock"
}

// GetLockFile returns the default daemon pid file.
func GetLockFile() string {
	return "/var/run/visionedge.pid"
}

type Action string

const (
	ActionInit    Action = "INIT"
	ActionProcess Action = "PROCESS"
)

// FrameReq carries a frame and its declared layout. Data is base64 on the
// wire.
type FrameReq struct {
	Width  int32  `json:"width"`
	Height int32  `json:"height"`
	Mode   int32  `json:"mode"`
	Data   []byte `json:"data"`
}

type Req struct {
	ID     string            `json:"id"`
	Action Action            `json:"action"`
	Params map[string]string `json:"params,omitempty"`
	Frame  *FrameReq         `json:"frame,omitempty"`
}

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

// Code classifies an error response.
type Code string

const (
	CodeBufferTooSmall Code = "buffer_too_small"
	CodeBadRequest     Code = "bad_request"
	CodeInternal       Code = "internal"
)

// FrameRes is a processed frame.
type FrameRes struct {
	Width  int32  `json:"width"`
	Height int32  `json:"height"`
	Data   []byte `json:"data"`
}

type Res struct {
	ID     string            `json:"id"`
	Status Status            `json:"status"`
	Code   Code              `json:"code,omitempty"`
	Error  string            `json:"error,omitempty"`
	Extras map[string]string `json:"extras,omitempty"`
	Frame  *FrameRes         `json:"frame,omitempty"`
}

// NewRequestID returns a random id used to correlate a request with its
// response and log lines.
func NewRequestID() string {
	return uuid.NewString()
}

// Decoder reads consecutive messages from one connection. A single Decoder
// must be used per stream since it buffers ahead of the current message.
type Decoder struct {
	dec *json.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: json.NewDecoder(r)}
}

func (d *Decoder) ReadReq() (*Req, error) {
	var req Req
	err := d.dec.Decode(&req)
	return &req, err
}

func (d *Decoder) ReadRes() (*Res, error) {
	var res Res
	err := d.dec.Decode(&res)
	return &res, err
}

// ReadReq reads a single request from r.
func ReadReq(r io.Reader) (*Req, error) {
	return NewDecoder(r).ReadReq()
}

// ReadRes reads a single response from r.
func ReadRes(r io.Reader) (*Res, error) {
	return NewDecoder(r).ReadRes()
}

// WriteInitReq writes an INIT request and returns its id.
func WriteInitReq(w io.Writer, client string) (string, error) {
	req := Req{
		ID:     NewRequestID(),
		Action: ActionInit,
		Params: map[string]string{"client": client},
	}
	return req.ID, json.NewEncoder(w).Encode(&req)
}

// WriteProcessReq writes a PROCESS request and returns its id.
func WriteProcessReq(w io.Writer, data []byte, width, height, mode int32) (string, error) {
	req := Req{
		ID:     NewRequestID(),
		Action: ActionProcess,
		Frame: &FrameReq{
			Width:  width,
			Height: height,
			Mode:   mode,
			Data:   data,
		},
	}
	return req.ID, json.NewEncoder(w).Encode(&req)
}

func WriteSuccessRes(w io.Writer, id string, extras map[string]string) error {
	res := Res{
		ID:     id,
		Status: StatusSuccess,
		Extras: extras,
	}
	return json.NewEncoder(w).Encode(&res)
}

func WriteFrameRes(w io.Writer, id string, data []byte, width, height int32) error {
	res := Res{
		ID:     id,
		Status: StatusSuccess,
		Frame: &FrameRes{
			Width:  width,
			Height: height,
			Data:   data,
		},
	}
	return json.NewEncoder(w).Encode(&res)
}

func WriteErrorRes(w io.Writer, id string, code Code, err error) error {
	res := Res{
		ID:     id,
		Status: StatusError,
		Code:   code,
		Error:  err.Error(),
	}
	return json.NewEncoder(w).Encode(&res)
}
