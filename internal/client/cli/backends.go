package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/secureguard/internal/client/config"
	"github.com/dmitrijs2005/secureguard/internal/client/federated"
	"github.com/dmitrijs2005/secureguard/internal/client/identity"
	"github.com/dmitrijs2005/secureguard/internal/client/prefs"
	"github.com/dmitrijs2005/secureguard/internal/filex"
	"github.com/dmitrijs2005/secureguard/internal/logging"
	"github.com/dmitrijs2005/secureguard/internal/roles"
)

// memoryDSN selects a preference store that lives only as long as the process.
const memoryDSN = ":memory:"

type closeFunc func() error

func nopClose() error { return nil }

func openPrefs(ctx context.Context, path string) (prefs.Store, closeFunc, error) {
	if path == memoryDSN {
		return prefs.NewMemoryStore(), nopClose, nil
	}
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, nil, err
	}
	s, err := prefs.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

func newIdentity(c *config.Config, log logging.Logger) (identity.Provider, error) {
	switch c.IdentityBackend {
	case config.IdentityREST:
		return identity.NewRESTProvider(identity.RESTConfig{
			Endpoint: c.IdentityEndpoint,
			APIKey:   c.IdentityAPIKey,
		})
	case config.IdentityFile:
		return identity.NewFileProvider(identity.FileConfig{
			UsersPath: c.UsersFile,
			Issuer:    c.FederatedIssuer,
			PublicKey: c.FederatedPublicKey,
			Logger:    log.With("module", "identity"),
		})
	default:
		return nil, fmt.Errorf("unknown identity backend %q", c.IdentityBackend)
	}
}

func newRoles(ctx context.Context, c *config.Config) (roles.Directory, closeFunc, error) {
	switch c.RoleBackend {
	case config.RolesGRPC:
		d, err := roles.NewGRPCDirectory(c.RoleDirectoryAddr, c.RoleDirectoryAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil

	case config.RolesMongo:
		if c.MongoURI == "" {
			return nil, nil, errors.New("mongo backend needs a MongoURI")
		}
		client, db, err := roles.ConnectMongo(ctx, roles.MongoConfig{URI: c.MongoURI, Database: c.MongoDatabase})
		if err != nil {
			return nil, nil, err
		}
		return roles.NewMongoDirectory(db), func() error { return client.Disconnect(context.Background()) }, nil

	case config.RolesPostgres:
		db, err := roles.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return roles.NewPostgresDirectory(db), db.Close, nil

	case config.RolesStatic:
		d := roles.NewStaticDirectory(map[string][]string{roles.PartitionParents: c.ParentEmails})
		return d, nopClose, nil

	default:
		return nil, nil, fmt.Errorf("unknown role backend %q", c.RoleBackend)
	}
}

func federatedConfig(c *config.Config) federated.Config {
	return federated.Config{
		ClientID:     c.FederatedClientID,
		ClientSecret: c.FederatedClientSecret,
		AuthURL:      c.FederatedAuthURL,
		TokenURL:     c.FederatedTokenURL,
		RedirectAddr: c.FederatedRedirectAddr,
	}
}

func newFederated(c *config.Config, w io.Writer, log logging.Logger) (*federated.LoopbackFlow, federated.ConfigChecker) {
	fc := federatedConfig(c)
	return federated.NewLoopbackFlow(fc, federated.PrintURL(w), log.With("module", "federated")), federated.ConfigChecker{Config: fc}
}
