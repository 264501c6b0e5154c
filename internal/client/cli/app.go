package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/responderhq/fieldsync/internal/client/api"
	"github.com/responderhq/fieldsync/internal/client/config"
	"github.com/responderhq/fieldsync/internal/client/models"
	"github.com/responderhq/fieldsync/internal/client/presence"
	"github.com/responderhq/fieldsync/internal/client/repositories/credentials"
	"github.com/responderhq/fieldsync/internal/client/services"
	"github.com/responderhq/fieldsync/internal/client/session"
	"github.com/responderhq/fieldsync/internal/logging"
	"github.com/responderhq/fieldsync/internal/schedulex"

	_ "modernc.org/sqlite"
)

// App wires the FieldSync client together: local credential store, cloud
// API gateway, LAN presence client and the presence beacon, exposed through
// an interactive REPL.
type App struct {
	config     *config.Config
	log        logging.Logger
	db         *sql.DB
	store      *session.Store
	gateway    *api.Gateway
	auth       services.AuthService
	attendance services.AttendanceService
	presence   *presence.Client
	beacon     *presence.Beacon
	clock      schedulex.Clock

	// identity is the in-memory session snapshot; nil means signed out.
	identity *models.Identity
	reader   *bufio.Reader
}

// NewApp opens the local database, runs migrations, and builds the service
// graph. An existing persisted session is restored so the operator does not
// have to sign in again after a restart.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Discard()
	}

	db, err := credentials.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing local database", "error", err)
		return nil, err
	}

	store := session.NewStore(db)
	apiClient := api.NewClient(c.CloudBaseURL, c.HTTPTimeout, log)
	refresher := session.NewRefresher(store, apiClient, c.HTTPTimeout, log)
	gateway := api.NewGateway(c.CloudBaseURL, store, refresher, c.HTTPTimeout, log)

	presenceClient := presence.NewClient(c.PresenceBaseURL, c.HTTPTimeout)

	app := &App{
		config:     c,
		log:        log,
		db:         db,
		store:      store,
		gateway:    gateway,
		auth:       services.NewAuthService(apiClient, gateway, store, log),
		attendance: services.NewAttendanceService(gateway, log),
		presence:   presenceClient,
		beacon:     presence.NewBeacon(presenceClient, nil, c.HeartbeatInterval, log),
		clock:      schedulex.SystemClock(),
		reader:     bufio.NewReader(os.Stdin),
	}

	identity, err := store.Identity(ctx)
	if err != nil {
		log.Warn(ctx, "could not restore session", "error", err)
	} else if identity != nil {
		app.identity = identity
		log.Info(ctx, "session restored", "userId", identity.ID, "role", identity.Role)
	}

	return app, nil
}

// Run starts the REPL and blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// Close stops the beacon and releases the local database handle.
func (a *App) Close() error {
	a.beacon.Stop()
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.identity != nil
}
