package engine

import (
	"errors"
	"net"
	"sync"

	"go.uber.org/zap"

	"lpd/pkg/codec"
	"lpd/pkg/config"
	"lpd/pkg/logger"
	"lpd/pkg/utils"
)

type lpdServer struct {
	eng    *LaunchEngine
	wg     sync.WaitGroup
	sock   net.Listener
	logger *zap.SugaredLogger
}

func (s *lpdServer) Listen() {
	defer func() {
		_ = s.sock.Close()
		close(utils.FinishChan)
	}()

SERVER:
	for {
		select {
		case <-utils.FinishChan:
			break SERVER
		default:
			{
				conn, err := s.sock.Accept()
				if err != nil {
					if errors.Is(err, net.ErrClosed) {
						break SERVER
					}
					s.logger.Error(err)
					continue
				}

				session := NewSession(s.eng, conn)

				s.wg.Add(1)
				go func(se *LpdSession) {
					defer s.wg.Done()

					result := se.Handle()
					if result == codec.ResponseShutdown {
						select {
						case utils.FinishChan <- struct{}{}:
						default:
						}
						// 唤醒阻塞在 Accept 上的主循环
						_ = s.sock.Close()
					}
				}(session)
			}
		}
	}

	s.wg.Wait()
	s.logger.Info("Launch engine server is stopped")
}

var serverSock net.Listener

func StartServer(eng *LaunchEngine) {
	socket, err := net.Listen("unix", config.GetConfig().Socket)
	if err != nil {
		panic(err)
	}

	serverSock = socket

	server := &lpdServer{
		eng:    eng,
		sock:   socket,
		logger: logger.Logging("lpd-daemon"),
	}

	server.Listen()
}

// CloseServer 从外部解开阻塞在 Accept 上的服务循环
func CloseServer() {
	if serverSock != nil {
		_ = serverSock.Close()
	}
}
