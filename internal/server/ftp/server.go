package ftp

import (
	"context"

	ftpserver "github.com/fclairamb/ftpserverlib"

	"github.com/photodrop/photodrop/internal/logging"
)

// Server wraps the FTP listener with a context-driven lifecycle.
type Server struct {
	srv    *ftpserver.FtpServer
	addr   string
	logger logging.Logger
}

func NewServer(driver *Driver) *Server {
	srv := ftpserver.NewFtpServer(driver)
	srv.Logger = logging.NewFTPAdapter(driver.logger)

	return &Server{
		srv:    srv,
		addr:   driver.cfg.ListenAddr,
		logger: driver.logger.With("module", "ftp_server"),
	}
}

// Run serves the control listener until ctx is cancelled, then stops
// gracefully. A bind failure is returned to the caller; it must not crash
// the process.
func (s *Server) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping FTP server...")
		if err := s.srv.Stop(); err != nil {
			s.logger.Error(ctx, "error stopping FTP server", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting FTP server", "address", s.addr)

	if err := s.srv.ListenAndServe(); err != nil {
		return err
	}

	return nil
}
