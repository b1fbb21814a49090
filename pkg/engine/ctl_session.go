// Package engine
package engine

import (
	"encoding/binary"
	"errors"
	"io"
	"net"

	"lpd/pkg/codec"
	"lpd/pkg/logger"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/zap"
)

// 协议帧是 8 字节大端长度前缀加 CBOR 消息体
const frameHeadSize = 8

type lpdSocket struct {
	conn net.Conn
}

func (s *lpdSocket) Recv(l uint64) ([]byte, error) {
	buf := make([]byte, l)
	if _, err := io.ReadFull(s.conn, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *lpdSocket) Send(v []byte) error {
	_, e := s.conn.Write(v)
	return e
}

func (s *lpdSocket) Close() error {
	return s.conn.Close()
}

type LpdSession struct {
	eng    *LaunchEngine
	sock   *lpdSocket
	logger *zap.SugaredLogger
}

func NewSession(eng *LaunchEngine, c net.Conn) *LpdSession {
	return &LpdSession{
		eng: eng,
		sock: &lpdSocket{
			conn: c,
		},
		logger: logger.Logging("lpd-serv"),
	}
}

// errorResponse 把引擎错误映射成协议错误码
func (se *LpdSession) errorResponse(err error) (*codec.ResponseMsg, codec.ResponseCtl) {
	se.logger.Error(err)
	return &codec.ResponseMsg{
		Code:    errorCode(err),
		Message: err.Error(),
	}, codec.ResponseMsgErr
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrBusy):
		return 409
	case errors.Is(err, ErrInvalidTransition):
		return 422
	}
	return 500
}

func (se *LpdSession) sendResponse(res *codec.ResponseMsg, result codec.ResponseCtl) codec.ResponseCtl {
	encoder, err := codec.GetEncoder()
	if err != nil {
		se.logger.Error(err)
		return codec.ResponseMsgErr
	}

	buf, err := encoder.Marshal(res)
	if err != nil {
		se.logger.Error(err)
		return codec.ResponseMsgErr
	}

	size := make([]byte, frameHeadSize)
	binary.BigEndian.PutUint64(size, uint64(len(buf)))

	if err = se.sock.Send(size); err != nil {
		se.logger.Error(err)
		return codec.ResponseMsgErr
	}

	if err = se.sock.Send(buf); err != nil {
		se.logger.Error(err)
		return codec.ResponseMsgErr
	}

	return result
}

func (se *LpdSession) Handle() codec.ResponseCtl {
	defer func() {
		_ = se.sock.Close()
	}()

	// 先接收消息的字节数组长度
	buf, err := se.sock.Recv(frameHeadSize)
	if err != nil {
		res, result := se.errorResponse(err)
		return se.sendResponse(res, result)
	}

	// 根据长度再接收 ActionMsg 消息
	msgLen := binary.BigEndian.Uint64(buf)
	buf, err = se.sock.Recv(msgLen)
	if err != nil {
		res, result := se.errorResponse(err)
		return se.sendResponse(res, result)
	}

	msg := new(codec.ActionMsg)
	if err = cbor.Unmarshal(buf, msg); err != nil {
		res, result := se.errorResponse(err)
		return se.sendResponse(res, result)
	}

	return se.dispatch(msg)
}
