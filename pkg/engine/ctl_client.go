package engine

import (
	"encoding/binary"
	"fmt"
	"net"
	"os"

	"lpd/pkg/codec"
	"lpd/pkg/config"
	"lpd/pkg/logger"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/zap"
)

type LpdClient struct {
	sock   *lpdSocket
	logger *zap.SugaredLogger
}

// ClientRun 向守护进程发送一条指令并等待响应，连接失败或协议错误时
// 返回 nil
func ClientRun(msg *codec.ActionMsg) *codec.ResponseMsg {
	c := new(LpdClient)
	c.logger = logger.Logging("lpd-cli")

	conn, err := net.Dial("unix", config.GetConfig().Socket)
	if err != nil {
		c.fail(err)
		return nil
	}

	defer func() {
		_ = conn.Close()
	}()

	c.sock = &lpdSocket{
		conn: conn,
	}

	encoder, err := codec.GetEncoder()
	if err != nil {
		c.fail(err)
		return nil
	}

	data, err := encoder.Marshal(msg)
	if err != nil {
		c.fail(err)
		return nil
	}

	size := make([]byte, frameHeadSize)
	binary.BigEndian.PutUint64(size, uint64(len(data)))

	if err = c.sock.Send(size); err != nil {
		c.fail(err)
		return nil
	}

	if err = c.sock.Send(data); err != nil {
		c.fail(err)
		return nil
	}

	data, err = c.sock.Recv(frameHeadSize)
	if err != nil {
		c.fail(err)
		return nil
	}

	length := binary.BigEndian.Uint64(data)
	data, err = c.sock.Recv(length)
	if err != nil {
		c.fail(err)
		return nil
	}

	var res = new(codec.ResponseMsg)
	if err = cbor.Unmarshal(data, res); err != nil {
		c.fail(err)
		return nil
	}

	return res
}

func (c *LpdClient) fail(err error) {
	c.logger.Error(err)
	_, _ = fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
}
