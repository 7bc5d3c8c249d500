// Package ftp implements the legacy file-transfer ingress: the control
// listener, passive-mode negotiation, per-session authentication and the
// album-confined virtual filesystem.
package ftp

import (
	"context"
	"crypto/tls"
	"errors"
	"strings"

	ftpserver "github.com/fclairamb/ftpserverlib"
	"github.com/spf13/afero"

	"github.com/photodrop/photodrop/internal/logging"
	"github.com/photodrop/photodrop/internal/netx"
	"github.com/photodrop/photodrop/internal/server/config"
	"github.com/photodrop/photodrop/internal/server/models"
	"github.com/photodrop/photodrop/internal/server/services"
)

// errAuthFailed is the single reply for every authentication failure; the
// client must not learn whether the album or the credential was wrong.
var errAuthFailed = errors.New("authentication failed")

// Authenticator resolves FTP credentials to an album-scoped session.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.Session, error)
}

// UploadSink receives completed uploads for asynchronous handoff.
type UploadSink interface {
	Dispatch(ctx context.Context, up services.Upload)
}

// Driver implements ftpserverlib's MainDriver for the ingestion server.
type Driver struct {
	cfg    *config.Config
	auth   Authenticator
	sink   UploadSink
	logger logging.Logger
}

func NewDriver(cfg *config.Config, auth Authenticator, sink UploadSink, logger logging.Logger) *Driver {
	return &Driver{
		cfg:    cfg,
		auth:   auth,
		sink:   sink,
		logger: logger.With("module", "ftp"),
	}
}

// GetSettings builds the listener settings from config. When no public host
// is configured, the first non-loopback IPv4 address is advertised in PASV
// replies.
func (d *Driver) GetSettings() (*ftpserver.Settings, error) {
	publicHost := d.cfg.PublicHost
	if publicHost == "" {
		host, err := netx.FirstNonLoopbackIPv4()
		if err != nil {
			return nil, err
		}
		publicHost = host
	}

	return &ftpserver.Settings{
		ListenAddr: d.cfg.ListenAddr,
		PublicHost: publicHost,
		PassiveTransferPortRange: &ftpserver.PortRange{
			Start: d.cfg.PasvPortStart,
			End:   d.cfg.PasvPortEnd,
		},
		IdleTimeout: int(d.cfg.IdleTimeout.Seconds()),
	}, nil
}

func (d *Driver) ClientConnected(cc ftpserver.ClientContext) (string, error) {
	d.logger.Info(context.Background(), "client connected",
		"client_id", cc.ID(), "remote", cc.RemoteAddr().String())
	return "Photodrop ingestion service", nil
}

func (d *Driver) ClientDisconnected(cc ftpserver.ClientContext) {
	d.logger.Info(context.Background(), "client disconnected", "client_id", cc.ID())
}

// AuthUser validates credentials and binds the connection to its album's
// session root. Anonymous logins are rejected outright.
func (d *Driver) AuthUser(cc ftpserver.ClientContext, user, pass string) (ftpserver.ClientDriver, error) {
	return d.authenticate(cc.RemoteAddr().String(), user, pass)
}

func (d *Driver) authenticate(remote, user, pass string) (ftpserver.ClientDriver, error) {
	ctx := context.Background()

	if user == "" || strings.EqualFold(user, "anonymous") || strings.EqualFold(user, "ftp") {
		return nil, errAuthFailed
	}

	session, err := d.auth.Authenticate(ctx, user, pass)
	if err != nil {
		d.logger.Warn(ctx, "authentication failed",
			"user", user, "remote", remote, "error", err.Error())
		return nil, errAuthFailed
	}

	base := afero.NewBasePathFs(afero.NewOsFs(), session.Root)
	return newSessionFS(base, *session, func(up services.Upload) {
		d.sink.Dispatch(context.Background(), up)
	}, d.logger), nil
}

// GetTLSConfig reports that TLS is unavailable; the field devices this
// serves speak plain FTP only.
func (d *Driver) GetTLSConfig() (*tls.Config, error) {
	return nil, errors.New("TLS is not configured")
}
